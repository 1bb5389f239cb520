package validators

import "go.mongodb.org/mongo-driver/bson"

var LoftValidator = bson.M{
	"$jsonSchema": bson.M{
		"bsonType": "object",
		"required": []string{
			"name",
			"address",
			"city",
			"owner_id",
			"price_per_night",
			"max_guests",
			"status",
			"created_at",
		},
		"additionalProperties": true,

		"properties": bson.M{
			"_id": bson.M{
				"bsonType": "objectId",
			},

			"name": bson.M{
				"bsonType":  "string",
				"minLength": 2,
				"maxLength": 120,
			},

			"address": bson.M{
				"bsonType":  "string",
				"minLength": 3,
				"maxLength": 250,
			},

			"city": bson.M{
				"bsonType":  "string",
				"minLength": 2,
				"maxLength": 60,
			},

			"owner_id": bson.M{
				"bsonType":  "string",
				"minLength": 24,
				"maxLength": 24,
			},

			"price_per_night": bson.M{
				"bsonType": "number",
				"minimum":  1,
			},

			"cleaning_fee": bson.M{
				"bsonType": "number",
				"minimum":  0,
			},

			"max_guests": bson.M{
				"bsonType": "number",
				"minimum":  1,
				"maximum":  50,
			},

			"amenities": bson.M{
				"bsonType": "array",
				"maxItems": 40,
				"items": bson.M{
					"bsonType":  "string",
					"maxLength": 60,
				},
			},

			"status": bson.M{
				"bsonType": "string",
				"enum": []string{
					"available",
					"occupied",
					"maintenance",
					"archived",
				},
			},

			"company_percentage": bson.M{
				"bsonType": "number",
				"minimum":  0,
				"maximum":  100,
			},

			"owner_percentage": bson.M{
				"bsonType": "number",
				"minimum":  0,
				"maximum":  100,
			},

			"created_at": bson.M{
				"bsonType": "date",
			},
		},
	},
}

var OwnerValidator = bson.M{
	"$jsonSchema": bson.M{
		"bsonType": "object",
		"required": []string{
			"name",
			"ownership_type",
			"created_at",
		},
		"additionalProperties": true,

		"properties": bson.M{
			"_id": bson.M{
				"bsonType": "objectId",
			},

			"name": bson.M{
				"bsonType":  "string",
				"minLength": 2,
				"maxLength": 120,
			},

			"phone": bson.M{
				"bsonType": "string",
				"pattern":  `^\+[1-9]\d{7,14}$`,
			},

			"ownership_type": bson.M{
				"bsonType": "string",
				"enum":     []string{"company", "third_party"},
			},

			"commission_rate": bson.M{
				"bsonType": "number",
				"minimum":  0,
				"maximum":  100,
			},

			"created_at": bson.M{
				"bsonType": "date",
			},
		},
	},
}
