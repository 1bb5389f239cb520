package validator

import (
	"errors"
	"fmt"
	"math"
	"strings"

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
	messages := make([]string, 0, len(v))
	for _, err := range v {
		messages = append(messages, err.Error())
	}
	return fmt.Sprintf("validation failed: %d error(s): [%s]", len(v), strings.Join(messages, "; "))
}

type LoftValidator struct {
	validate *validator.Validate
}

func NewLoftValidator(log *logger.Logger) *LoftValidator {
	v := validator.New()
	v.RegisterStructValidation(validateRevenueSplit, model.Loft{})

	log.Info("Loft validator initialized successfully")

	return &LoftValidator{validate: v}
}

// validateRevenueSplit requires the company and owner shares to add up to 100.
func validateRevenueSplit(sl validator.StructLevel) {
	loft := sl.Current().Interface().(model.Loft)
	if math.Abs(loft.CompanyPercentage+loft.OwnerPercentage-100) > 0.001 {
		sl.ReportError(loft.OwnerPercentage, "OwnerPercentage", "owner_percentage", "revenue_split", "")
	}
}

func (v *LoftValidator) Validate(loft *model.Loft) error {
	return v.check(loft)
}

func (v *LoftValidator) ValidateUpdate(update *model.LoftUpdate) error {
	return v.check(update)
}

func (v *LoftValidator) ValidateOwner(owner *model.Owner) error {
	return v.check(owner)
}

func (v *LoftValidator) ValidateOwnerUpdate(update *model.OwnerUpdate) error {
	return v.check(update)
}

func (v *LoftValidator) ValidateTransfer(req *model.TransferRequest) error {
	return v.check(req)
}

func (v *LoftValidator) check(s any) error {
	if err := v.validate.Struct(s); err != nil {
		var validationErrs validator.ValidationErrors
		if errors.As(err, &validationErrs) {
			return translateValidationErrors(validationErrs)
		}
		return err
	}
	return nil
}

func translateValidationErrors(errs validator.ValidationErrors) ValidationErrors {
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
			message = fmt.Sprintf("%s must be a valid phone number", err.Field())
		case "email":
			message = fmt.Sprintf("%s must be a valid email address", err.Field())
		case "oneof":
			message = fmt.Sprintf("%s must be one of: %s", err.Field(), err.Param())
		case "nefield":
			message = fmt.Sprintf("%s must differ from %s", err.Field(), err.Param())
		case "revenue_split":
			message = "company_percentage and owner_percentage must sum to 100"
		}

		validationErrors = append(validationErrors, ValidationError{
			Field:   err.Field(),
			Message: message,
		})
	}

	return validationErrors
}
