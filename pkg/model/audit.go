package model

import "time"

const (
	AuditInsert = "INSERT"
	AuditUpdate = "UPDATE"
	AuditDelete = "DELETE"
)

type AuditLog struct {
	ID            string         `json:"id,omitempty" bson:"_id,omitempty"`
	TableName     string         `json:"table_name" bson:"table_name"`
	RecordID      string         `json:"record_id" bson:"record_id"`
	Action        string         `json:"action" bson:"action"`
	UserID        string         `json:"user_id,omitempty" bson:"user_id,omitempty"`
	UserEmail     string         `json:"user_email,omitempty" bson:"user_email,omitempty"`
	OldValues     map[string]any `json:"old_values,omitempty" bson:"old_values,omitempty"`
	NewValues     map[string]any `json:"new_values,omitempty" bson:"new_values,omitempty"`
	ChangedFields []string       `json:"changed_fields,omitempty" bson:"changed_fields,omitempty"`
	Timestamp     time.Time      `json:"timestamp" bson:"timestamp"`
	IPAddress     string         `json:"ip_address,omitempty" bson:"ip_address,omitempty"`
	UserAgent     string         `json:"user_agent,omitempty" bson:"user_agent,omitempty"`
	EventID       string         `json:"event_id" bson:"event_id"`
}

type AuditFilter struct {
	TableName string
	RecordID  string
	Action    string
	UserID    string
	From      *time.Time
	To        *time.Time
}
