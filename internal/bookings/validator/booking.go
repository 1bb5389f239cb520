package validator

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"loftalgerie/pkg/clock"
	"loftalgerie/pkg/logger"
	"loftalgerie/pkg/model"

	"github.com/go-playground/validator/v10"
)

type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (v ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", v.Field, v.Message)
}

type ValidationErrors []ValidationError

func (v ValidationErrors) Error() string {
	if len(v) == 0 {
		return ""
	}
	var messages []string
	for _, err := range v {
		messages = append(messages, err.Error())
	}
	return fmt.Sprintf("validation failed: %d error(s): [%s]", len(v), strings.Join(messages, "; "))
}

type BookingValidator struct {
	validate  *validator.Validate
	logger    *logger.Logger
	maxNights int
}

func NewBookingValidator(log *logger.Logger, maxNights int) *BookingValidator {
	v := validator.New()

	log.Info("Booking validator initialized successfully", "max_stay_nights", maxNights)

	return &BookingValidator{
		validate:  v,
		logger:    log,
		maxNights: maxNights,
	}
}

// Validate checks a booking against its struct rules and the stay rules:
// check-out after check-in, check-in not before today, at most maxNights.
func (v *BookingValidator) Validate(booking *model.Booking, now time.Time) error {
	if err := v.ValidateFields(booking); err != nil {
		return err
	}
	return v.ValidateStay(booking.CheckIn, booking.CheckOut, now)
}

// ValidateFields checks the struct rules only. Updates that keep the dates
// use it so a stay that already started stays editable.
func (v *BookingValidator) ValidateFields(booking *model.Booking) error {
	if err := v.validate.Struct(booking); err != nil {
		var validationErrs validator.ValidationErrors
		if errors.As(err, &validationErrs) {
			return v.translateValidationErrors(validationErrs)
		}
		return err
	}
	return nil
}

func (v *BookingValidator) ValidateStay(checkIn, checkOut, now time.Time) error {
	if !checkOut.After(checkIn) {
		return ValidationErrors{
			ValidationError{
				Field:   "CheckOut",
				Message: "check_out must be after check_in",
			},
		}
	}

	if checkIn.Before(clock.Date(now)) {
		return ValidationErrors{
			ValidationError{
				Field:   "CheckIn",
				Message: "check_in cannot be in the past",
			},
		}
	}

	if nights := Nights(checkIn, checkOut); nights > v.maxNights {
		return ValidationErrors{
			ValidationError{
				Field:   "CheckOut",
				Message: fmt.Sprintf("stay of %d nights exceeds the maximum of %d", nights, v.maxNights),
			},
		}
	}

	return nil
}

func (v *BookingValidator) ValidateUpdate(update *model.BookingUpdate) error {
	if err := v.validate.Struct(update); err != nil {
		var validationErrs validator.ValidationErrors
		if errors.As(err, &validationErrs) {
			return v.translateValidationErrors(validationErrs)
		}
		return err
	}
	return nil
}

func (v *BookingValidator) ValidateStatusUpdate(update *model.BookingStatusUpdate) error {
	if err := v.validate.Struct(update); err != nil {
		var validationErrs validator.ValidationErrors
		if errors.As(err, &validationErrs) {
			return v.translateValidationErrors(validationErrs)
		}
		return err
	}
	return nil
}

// Nights counts the calendar nights between two UTC dates.
func Nights(checkIn, checkOut time.Time) int {
	return int(clock.Date(checkOut).Sub(clock.Date(checkIn)).Hours() / 24)
}

func (v *BookingValidator) translateValidationErrors(errs validator.ValidationErrors) ValidationErrors {
	var validationErrors ValidationErrors

	for _, err := range errs {
		message := err.Error()

		switch err.Tag() {
		case "required":
			message = fmt.Sprintf("%s is required", err.Field())
		case "min":
			message = fmt.Sprintf("%s must be at least %s", err.Field(), err.Param())
		case "max":
			message = fmt.Sprintf("%s must be at most %s", err.Field(), err.Param())
		case "mongodb":
			message = fmt.Sprintf("%s must be a valid MongoDB ObjectID", err.Field())
		case "e164":
			message = fmt.Sprintf("%s must be in E.164 format (e.g., +213551234567)", err.Field())
		case "email":
			message = fmt.Sprintf("%s must be a valid email address", err.Field())
		case "oneof":
			message = fmt.Sprintf("%s must be one of: %s", err.Field(), err.Param())
		case "gtfield":
			message = fmt.Sprintf("%s must be after %s", err.Field(), err.Param())
		}

		validationErrors = append(validationErrors, ValidationError{
			Field:   err.Field(),
			Message: message,
		})
	}

	return validationErrors
}
