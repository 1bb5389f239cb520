package validator

import (
	"strings"
	"testing"
	"time"

	"loftalgerie/pkg/logger"
	"loftalgerie/pkg/model"
)

var today = time.Date(2026, 5, 10, 15, 30, 0, 0, time.UTC)

func day(offset int) time.Time {
	return time.Date(2026, 5, 10+offset, 0, 0, 0, 0, time.UTC)
}

func validBooking() *model.Booking {
	return &model.Booking{
		LoftID:        "507f1f77bcf86cd799439011",
		ClientID:      "client-1",
		GuestName:     "Amine Haddad",
		GuestPhone:    "+213551234567",
		GuestCount:    2,
		CheckIn:       day(1),
		CheckOut:      day(4),
		Status:        model.BookingStatusPending,
		PaymentStatus: model.PaymentStatusPending,
	}
}

func TestBookingValidator_Validate(t *testing.T) {
	v := NewBookingValidator(logger.Discard(), 30)

	tests := []struct {
		name    string
		mutate  func(*model.Booking)
		wantErr string
	}{
		{
			name:   "valid booking",
			mutate: func(*model.Booking) {},
		},
		{
			name:   "check-in today is allowed",
			mutate: func(b *model.Booking) { b.CheckIn = day(0) },
		},
		{
			name:    "check-in in the past",
			mutate:  func(b *model.Booking) { b.CheckIn = day(-1) },
			wantErr: "check_in cannot be in the past",
		},
		{
			name:    "check-out equals check-in",
			mutate:  func(b *model.Booking) { b.CheckOut = b.CheckIn },
			wantErr: "CheckOut must be after CheckIn",
		},
		{
			name:    "stay too long",
			mutate:  func(b *model.Booking) { b.CheckOut = day(40) },
			wantErr: "exceeds the maximum of 30",
		},
		{
			name:    "no guests",
			mutate:  func(b *model.Booking) { b.GuestCount = 0 },
			wantErr: "GuestCount is required",
		},
		{
			name:    "phone not normalized",
			mutate:  func(b *model.Booking) { b.GuestPhone = "0551234567" },
			wantErr: "E.164",
		},
		{
			name:    "bad email",
			mutate:  func(b *model.Booking) { b.GuestEmail = "amine@" },
			wantErr: "GuestEmail must be a valid email address",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := validBooking()
			tt.mutate(b)
			err := v.Validate(b, today)

			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("expected no error, got %v", err)
				}
				return
			}
			if err == nil {
				t.Fatalf("expected error containing %q", tt.wantErr)
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("expected error containing %q, got %q", tt.wantErr, err.Error())
			}
		})
	}
}

func TestNights(t *testing.T) {
	if n := Nights(day(1), day(4)); n != 3 {
		t.Errorf("expected 3 nights, got %d", n)
	}
	if n := Nights(day(0), day(1)); n != 1 {
		t.Errorf("expected 1 night, got %d", n)
	}
}

func TestValidateStatusUpdate(t *testing.T) {
	v := NewBookingValidator(logger.Discard(), 30)

	if err := v.ValidateStatusUpdate(&model.BookingStatusUpdate{Status: "archived"}); err == nil {
		t.Error("expected error for unknown status")
	}
	if err := v.ValidateStatusUpdate(&model.BookingStatusUpdate{
		Status:        model.BookingStatusConfirmed,
		PaymentStatus: model.PaymentStatusPaid,
	}); err != nil {
		t.Errorf("expected valid update, got %v", err)
	}
}
