package validators

import "go.mongodb.org/mongo-driver/bson"

var TaskValidator = bson.M{
	"$jsonSchema": bson.M{
		"bsonType": "object",
		"required": []string{
			"title",
			"status",
			"created_by",
			"created_at",
		},
		"additionalProperties": true,

		"properties": bson.M{
			"_id": bson.M{
				"bsonType": "objectId",
			},

			"title": bson.M{
				"bsonType":  "string",
				"minLength": 2,
				"maxLength": 200,
			},

			"status": bson.M{
				"bsonType": "string",
				"enum":     []string{"todo", "in_progress", "completed"},
			},

			"due_date": bson.M{
				"bsonType": "date",
			},

			"loft_id": bson.M{
				"bsonType":  "string",
				"minLength": 24,
				"maxLength": 24,
			},

			"created_at": bson.M{
				"bsonType": "date",
			},
		},
	},
}
