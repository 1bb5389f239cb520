package model

import (
	"time"
)

const (
	BookingStatusPending   = "pending"
	BookingStatusConfirmed = "confirmed"
	BookingStatusCancelled = "cancelled"
	BookingStatusCompleted = "completed"

	PaymentStatusPending  = "pending"
	PaymentStatusPaid     = "paid"
	PaymentStatusRefunded = "refunded"
)

type Booking struct {
	ID              string    `json:"id,omitempty" bson:"_id,omitempty" validate:"omitempty,mongodb"`
	LoftID          string    `json:"loft_id" bson:"loft_id" validate:"required,mongodb"`
	OwnerID         string    `json:"owner_id,omitempty" bson:"owner_id,omitempty"`
	ClientID        string    `json:"client_id" bson:"client_id" validate:"required,max=64"`
	GuestName       string    `json:"guest_name" bson:"guest_name" validate:"required,min=2,max=120"`
	GuestEmail      string    `json:"guest_email,omitempty" bson:"guest_email,omitempty" validate:"omitempty,email"`
	GuestPhone      string    `json:"guest_phone" bson:"guest_phone" validate:"required,e164"`
	GuestCountry    string    `json:"guest_country,omitempty" bson:"guest_country,omitempty"`
	GuestCount      int       `json:"guest_count" bson:"guest_count" validate:"required,min=1,max=50"`
	CheckIn         time.Time `json:"check_in" bson:"check_in" validate:"required"`
	CheckOut        time.Time `json:"check_out" bson:"check_out" validate:"required,gtfield=CheckIn"`
	Nights          int       `json:"nights" bson:"nights"`
	TotalPrice      int64     `json:"total_price" bson:"total_price"`
	Currency        string    `json:"currency" bson:"currency"`
	Status          string    `json:"status" bson:"status" validate:"required,oneof=pending confirmed cancelled completed"`
	PaymentStatus   string    `json:"payment_status" bson:"payment_status" validate:"required,oneof=pending paid refunded"`
	SpecialRequests string    `json:"special_requests,omitempty" bson:"special_requests,omitempty" validate:"omitempty,max=1000"`
	Reference       string    `json:"reference,omitempty" bson:"reference,omitempty"`
	CreatedAt       time.Time `json:"created_at" bson:"created_at"`
	UpdatedAt       time.Time `json:"updated_at" bson:"updated_at"`
}

// Active reports whether the booking still holds its dates.
func (b *Booking) Active() bool {
	return b.Status == BookingStatusPending || b.Status == BookingStatusConfirmed
}

type BookingUpdate struct {
	GuestName       string     `json:"guest_name,omitempty" validate:"omitempty,min=2,max=120"`
	GuestEmail      string     `json:"guest_email,omitempty" validate:"omitempty,email"`
	GuestPhone      string     `json:"guest_phone,omitempty"`
	GuestCount      *int       `json:"guest_count,omitempty" validate:"omitempty,min=1,max=50"`
	CheckIn         *time.Time `json:"check_in,omitempty"`
	CheckOut        *time.Time `json:"check_out,omitempty"`
	SpecialRequests *string    `json:"special_requests,omitempty" validate:"omitempty,max=1000"`
}

type BookingStatusUpdate struct {
	Status        string `json:"status" validate:"required,oneof=pending confirmed cancelled completed"`
	PaymentStatus string `json:"payment_status,omitempty" validate:"omitempty,oneof=pending paid refunded"`
}

// BookingLock is an advisory lock document guarding one loft check-in slot
// while the overlap check and insert run.
type BookingLock struct {
	ID        string    `bson:"_id" json:"id"`
	ExpiresAt time.Time `bson:"expires_at" json:"expires_at"`
	CreatedAt time.Time `bson:"created_at" json:"created_at"`
}

type DateRange struct {
	CheckIn   time.Time `json:"check_in"`
	CheckOut  time.Time `json:"check_out"`
	BookingID string    `json:"booking_id,omitempty"`
}

type Availability struct {
	LoftID       string      `json:"loft_id"`
	From         time.Time   `json:"from"`
	To           time.Time   `json:"to"`
	Available    bool        `json:"available"`
	BookedRanges []DateRange `json:"booked_ranges"`
}
