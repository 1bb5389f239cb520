package model

import "time"

const (
	NotificationInfo    = "info"
	NotificationSuccess = "success"
	NotificationWarning = "warning"
	NotificationError   = "error"
)

type Notification struct {
	ID        string     `json:"id,omitempty" bson:"_id,omitempty" validate:"omitempty,mongodb"`
	UserID    string     `json:"user_id" bson:"user_id" validate:"required,max=64"`
	Title     string     `json:"title" bson:"title" validate:"required,min=1,max=200"`
	Message   string     `json:"message" bson:"message" validate:"required,min=1,max=2000"`
	Type      string     `json:"type" bson:"type" validate:"required,oneof=info success warning error"`
	Link      string     `json:"link,omitempty" bson:"link,omitempty" validate:"omitempty,max=500"`
	IsRead    bool       `json:"is_read" bson:"is_read"`
	CreatedAt time.Time  `json:"created_at" bson:"created_at"`
	ReadAt    *time.Time `json:"read_at,omitempty" bson:"read_at,omitempty"`
	// EventID links a notification to the domain event it came from; one
	// event notifies each user at most once. Broadcasts leave it empty.
	EventID string `json:"event_id,omitempty" bson:"event_id,omitempty"`
}

type Broadcast struct {
	UserIDs []string `json:"user_ids" validate:"required,min=1,max=500,dive,required,max=64"`
	Title   string   `json:"title" validate:"required,min=1,max=200"`
	Message string   `json:"message" validate:"required,min=1,max=2000"`
	Type    string   `json:"type" validate:"omitempty,oneof=info success warning error"`
	Link    string   `json:"link,omitempty" validate:"omitempty,max=500"`
}
