package testutil

import (
	"time"

	"loftalgerie/pkg/model"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type BookingBuilder struct {
	b model.Booking
}

// NewBookingBuilder starts from a pending two-night stay that passes the
// collection validator.
func NewBookingBuilder() *BookingBuilder {
	checkIn := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)
	return &BookingBuilder{
		b: model.Booking{
			LoftID:        primitive.NewObjectID().Hex(),
			ClientID:      "client-1",
			GuestName:     "Amina Benali",
			GuestPhone:    "+213551234567",
			GuestCount:    2,
			CheckIn:       checkIn,
			CheckOut:      checkIn.AddDate(0, 0, 2),
			Nights:        2,
			TotalPrice:    24000,
			Currency:      "DZD",
			Status:        model.BookingStatusPending,
			PaymentStatus: model.PaymentStatusPending,
		},
	}
}

func (b *BookingBuilder) WithLoft(loftID string) *BookingBuilder {
	b.b.LoftID = loftID
	return b
}

func (b *BookingBuilder) WithDates(checkIn, checkOut time.Time) *BookingBuilder {
	b.b.CheckIn = checkIn
	b.b.CheckOut = checkOut
	b.b.Nights = int(checkOut.Sub(checkIn).Hours() / 24)
	return b
}

func (b *BookingBuilder) WithStatus(status string) *BookingBuilder {
	b.b.Status = status
	return b
}

func (b *BookingBuilder) Build() *model.Booking {
	booking := b.b
	return &booking
}

type AuditLogBuilder struct {
	l model.AuditLog
}

func NewAuditLogBuilder() *AuditLogBuilder {
	return &AuditLogBuilder{
		l: model.AuditLog{
			TableName: "bookings",
			RecordID:  primitive.NewObjectID().Hex(),
			Action:    model.AuditInsert,
			Timestamp: time.Date(2026, 5, 10, 9, 0, 0, 0, time.UTC),
			EventID:   primitive.NewObjectID().Hex(),
		},
	}
}

func (b *AuditLogBuilder) WithRecord(table, recordID string) *AuditLogBuilder {
	b.l.TableName = table
	b.l.RecordID = recordID
	return b
}

func (b *AuditLogBuilder) WithAction(action string) *AuditLogBuilder {
	b.l.Action = action
	return b
}

func (b *AuditLogBuilder) WithEventID(eventID string) *AuditLogBuilder {
	b.l.EventID = eventID
	return b
}

func (b *AuditLogBuilder) At(ts time.Time) *AuditLogBuilder {
	b.l.Timestamp = ts
	return b
}

func (b *AuditLogBuilder) Build() *model.AuditLog {
	log := b.l
	return &log
}
