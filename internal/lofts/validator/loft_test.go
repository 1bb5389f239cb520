package validator

import (
	"strings"
	"testing"

	"loftalgerie/pkg/logger"
	"loftalgerie/pkg/model"
)

func validLoft() *model.Loft {
	return &model.Loft{
		Name:              "Loft Hydra",
		Address:           "12 Rue Didouche Mourad",
		City:              "Alger",
		OwnerID:           "507f1f77bcf86cd799439011",
		PricePerNight:     8000,
		CleaningFee:       1500,
		MaxGuests:         4,
		Bedrooms:          2,
		Status:            model.LoftStatusAvailable,
		CompanyPercentage: 30,
		OwnerPercentage:   70,
	}
}

func TestLoftValidator_Validate(t *testing.T) {
	v := NewLoftValidator(logger.Discard())

	tests := []struct {
		name    string
		mutate  func(*model.Loft)
		wantErr string
	}{
		{
			name:   "valid loft",
			mutate: func(*model.Loft) {},
		},
		{
			name:    "missing name",
			mutate:  func(l *model.Loft) { l.Name = "" },
			wantErr: "Name is required",
		},
		{
			name:    "bad owner id",
			mutate:  func(l *model.Loft) { l.OwnerID = "owner-1" },
			wantErr: "OwnerID must be a valid MongoDB ObjectID",
		},
		{
			name:    "zero guests",
			mutate:  func(l *model.Loft) { l.MaxGuests = 0 },
			wantErr: "MaxGuests is required",
		},
		{
			name:    "unknown status",
			mutate:  func(l *model.Loft) { l.Status = "demolished" },
			wantErr: "Status must be one of",
		},
		{
			name: "split not summing to 100",
			mutate: func(l *model.Loft) {
				l.CompanyPercentage = 50
				l.OwnerPercentage = 40
			},
			wantErr: "must sum to 100",
		},
		{
			name: "owner keeps everything",
			mutate: func(l *model.Loft) {
				l.CompanyPercentage = 0
				l.OwnerPercentage = 100
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			loft := validLoft()
			tt.mutate(loft)
			err := v.Validate(loft)

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

func TestLoftValidator_ValidateTransfer(t *testing.T) {
	v := NewLoftValidator(logger.Discard())

	same := &model.TransferRequest{
		FromOwnerID: "507f1f77bcf86cd799439011",
		ToOwnerID:   "507f1f77bcf86cd799439011",
	}
	if err := v.ValidateTransfer(same); err == nil {
		t.Error("expected error when transferring to the same owner")
	}

	ok := &model.TransferRequest{
		FromOwnerID: "507f1f77bcf86cd799439011",
		ToOwnerID:   "507f1f77bcf86cd799439012",
		LoftIDs:     []string{"507f1f77bcf86cd799439013"},
	}
	if err := v.ValidateTransfer(ok); err != nil {
		t.Errorf("expected valid transfer, got %v", err)
	}

	badLoft := &model.TransferRequest{
		FromOwnerID: "507f1f77bcf86cd799439011",
		ToOwnerID:   "507f1f77bcf86cd799439012",
		LoftIDs:     []string{"nope"},
	}
	if err := v.ValidateTransfer(badLoft); err == nil {
		t.Error("expected error for malformed loft id")
	}
}

func TestLoftValidator_ValidateOwner(t *testing.T) {
	v := NewLoftValidator(logger.Discard())

	owner := &model.Owner{
		Name:           "Karim B.",
		Phone:          "+213551234567",
		OwnershipType:  model.OwnershipThirdParty,
		CommissionRate: 20,
	}
	if err := v.ValidateOwner(owner); err != nil {
		t.Fatalf("expected valid owner, got %v", err)
	}

	owner.CommissionRate = 120
	if err := v.ValidateOwner(owner); err == nil {
		t.Error("expected error for commission above 100")
	}
}
