package model

import "time"

const (
	OwnershipCompany    = "company"
	OwnershipThirdParty = "third_party"
)

type Owner struct {
	ID             string    `json:"id,omitempty" bson:"_id,omitempty" validate:"omitempty,mongodb"`
	Name           string    `json:"name" bson:"name" validate:"required,min=2,max=120"`
	Email          string    `json:"email,omitempty" bson:"email,omitempty" validate:"omitempty,email"`
	Phone          string    `json:"phone,omitempty" bson:"phone,omitempty" validate:"omitempty,e164"`
	OwnershipType  string    `json:"ownership_type" bson:"ownership_type" validate:"required,oneof=company third_party"`
	UserID         string    `json:"user_id,omitempty" bson:"user_id,omitempty" validate:"omitempty,max=64"`
	CommissionRate float64   `json:"commission_rate" bson:"commission_rate" validate:"min=0,max=100"`
	CreatedAt      time.Time `json:"created_at" bson:"created_at"`
	UpdatedAt      time.Time `json:"updated_at" bson:"updated_at"`
}

type OwnerUpdate struct {
	Name           string   `json:"name,omitempty" validate:"omitempty,min=2,max=120"`
	Email          string   `json:"email,omitempty" validate:"omitempty,email"`
	Phone          string   `json:"phone,omitempty"`
	OwnershipType  string   `json:"ownership_type,omitempty" validate:"omitempty,oneof=company third_party"`
	UserID         *string  `json:"user_id,omitempty" validate:"omitempty,max=64"`
	CommissionRate *float64 `json:"commission_rate,omitempty" validate:"omitempty,min=0,max=100"`
}

type TransferRequest struct {
	FromOwnerID string   `json:"from_owner_id" validate:"required,mongodb"`
	ToOwnerID   string   `json:"to_owner_id" validate:"required,mongodb,nefield=FromOwnerID"`
	LoftIDs     []string `json:"loft_ids,omitempty" validate:"omitempty,dive,mongodb"`
}

type TransferResult struct {
	Transferred          int      `json:"transferred"`
	LoftIDs              []string `json:"loft_ids"`
	NotificationFailures int      `json:"notification_failures"`
}
