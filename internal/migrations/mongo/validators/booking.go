package validators

import "go.mongodb.org/mongo-driver/bson"

var BookingValidator = bson.M{
	"$jsonSchema": bson.M{
		"bsonType": "object",
		"required": []string{
			"loft_id",
			"client_id",
			"guest_name",
			"guest_phone",
			"guest_count",
			"check_in",
			"check_out",
			"nights",
			"total_price",
			"currency",
			"status",
			"payment_status",
			"created_at",
		},
		"additionalProperties": true,

		"properties": bson.M{
			"_id": bson.M{
				"bsonType": "objectId",
			},

			"loft_id": bson.M{
				"bsonType":  "string",
				"minLength": 24,
				"maxLength": 24,
			},

			"owner_id": bson.M{
				"bsonType": "string",
			},

			"client_id": bson.M{
				"bsonType":  "string",
				"minLength": 1,
				"maxLength": 64,
			},

			"guest_name": bson.M{
				"bsonType":  "string",
				"minLength": 2,
				"maxLength": 120,
			},

			"guest_phone": bson.M{
				"bsonType": "string",
				"pattern":  `^\+[1-9]\d{7,14}$`,
			},

			"guest_count": bson.M{
				"bsonType": "number",
				"minimum":  1,
				"maximum":  50,
			},

			"check_in": bson.M{
				"bsonType": "date",
			},

			"check_out": bson.M{
				"bsonType": "date",
			},

			"nights": bson.M{
				"bsonType": "number",
				"minimum":  1,
			},

			"total_price": bson.M{
				"bsonType": "number",
				"minimum":  0,
			},

			"currency": bson.M{
				"bsonType": "string",
				"pattern":  "^[A-Z]{3}$",
			},

			"status": bson.M{
				"bsonType": "string",
				"enum": []string{
					"pending",
					"confirmed",
					"cancelled",
					"completed",
				},
			},

			"payment_status": bson.M{
				"bsonType": "string",
				"enum": []string{
					"pending",
					"paid",
					"refunded",
				},
			},

			"created_at": bson.M{
				"bsonType": "date",
			},
		},
	},
}

// BookingLockValidator covers the advisory lock documents. Their _id is the
// loft and check-in slot, not an ObjectID.
var BookingLockValidator = bson.M{
	"$jsonSchema": bson.M{
		"bsonType": "object",
		"required": []string{"_id", "expires_at"},
		"properties": bson.M{
			"_id": bson.M{
				"bsonType": "string",
			},
			"expires_at": bson.M{
				"bsonType": "date",
			},
			"created_at": bson.M{
				"bsonType": "date",
			},
		},
	},
}
