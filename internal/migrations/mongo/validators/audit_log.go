package validators

import "go.mongodb.org/mongo-driver/bson"

var AuditLogValidator = bson.M{
	"$jsonSchema": bson.M{
		"bsonType": "object",
		"required": []string{
			"table_name",
			"record_id",
			"action",
			"timestamp",
			"event_id",
		},
		"additionalProperties": true,

		"properties": bson.M{
			"_id": bson.M{
				"bsonType": "objectId",
			},

			"table_name": bson.M{
				"bsonType":  "string",
				"minLength": 1,
			},

			"record_id": bson.M{
				"bsonType": "string",
			},

			"action": bson.M{
				"bsonType": "string",
				"enum":     []string{"INSERT", "UPDATE", "DELETE"},
			},

			"old_values": bson.M{
				"bsonType": "object",
			},

			"new_values": bson.M{
				"bsonType": "object",
			},

			"changed_fields": bson.M{
				"bsonType": "array",
				"items":    bson.M{"bsonType": "string"},
			},

			"timestamp": bson.M{
				"bsonType": "date",
			},

			"event_id": bson.M{
				"bsonType":  "string",
				"minLength": 1,
			},
		},
	},
}
