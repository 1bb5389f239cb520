package model

import "time"

const (
	LoftStatusAvailable   = "available"
	LoftStatusOccupied    = "occupied"
	LoftStatusMaintenance = "maintenance"
	LoftStatusArchived    = "archived"
)

type Loft struct {
	ID                string    `json:"id,omitempty" bson:"_id,omitempty" validate:"omitempty,mongodb"`
	Name              string    `json:"name" bson:"name" validate:"required,min=2,max=120"`
	Address           string    `json:"address" bson:"address" validate:"required,min=3,max=250"`
	City              string    `json:"city" bson:"city" validate:"required,min=2,max=60"`
	Description       string    `json:"description,omitempty" bson:"description,omitempty" validate:"omitempty,max=2000"`
	OwnerID           string    `json:"owner_id" bson:"owner_id" validate:"required,mongodb"`
	PricePerNight     int64     `json:"price_per_night" bson:"price_per_night" validate:"required,min=1"`
	CleaningFee       int64     `json:"cleaning_fee" bson:"cleaning_fee" validate:"min=0"`
	MaxGuests         int       `json:"max_guests" bson:"max_guests" validate:"required,min=1,max=50"`
	Bedrooms          int       `json:"bedrooms" bson:"bedrooms" validate:"min=0,max=30"`
	Amenities         []string  `json:"amenities,omitempty" bson:"amenities,omitempty" validate:"omitempty,max=40,dive,required,max=60"`
	Status            string    `json:"status" bson:"status" validate:"required,oneof=available occupied maintenance archived"`
	CompanyPercentage float64   `json:"company_percentage" bson:"company_percentage" validate:"min=0,max=100"`
	OwnerPercentage   float64   `json:"owner_percentage" bson:"owner_percentage" validate:"min=0,max=100"`
	CreatedAt         time.Time `json:"created_at" bson:"created_at"`
	UpdatedAt         time.Time `json:"updated_at" bson:"updated_at"`
}

type LoftUpdate struct {
	Name              string    `json:"name,omitempty" validate:"omitempty,min=2,max=120"`
	Address           string    `json:"address,omitempty" validate:"omitempty,min=3,max=250"`
	City              string    `json:"city,omitempty" validate:"omitempty,min=2,max=60"`
	Description       *string   `json:"description,omitempty" validate:"omitempty,max=2000"`
	PricePerNight     *int64    `json:"price_per_night,omitempty" validate:"omitempty,min=1"`
	CleaningFee       *int64    `json:"cleaning_fee,omitempty" validate:"omitempty,min=0"`
	MaxGuests         *int      `json:"max_guests,omitempty" validate:"omitempty,min=1,max=50"`
	Bedrooms          *int      `json:"bedrooms,omitempty" validate:"omitempty,min=0,max=30"`
	Amenities         *[]string `json:"amenities,omitempty" validate:"omitempty,max=40,dive,required,max=60"`
	Status            string    `json:"status,omitempty" validate:"omitempty,oneof=available occupied maintenance archived"`
	CompanyPercentage *float64  `json:"company_percentage,omitempty" validate:"omitempty,min=0,max=100"`
	OwnerPercentage   *float64  `json:"owner_percentage,omitempty" validate:"omitempty,min=0,max=100"`
}

type LoftSearch struct {
	City      string
	Status    string
	MinGuests int
	MaxPrice  int64
}
