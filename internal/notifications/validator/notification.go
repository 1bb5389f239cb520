package validator

import (
	"errors"
	"fmt"
	"strings"

	"loftalgerie/pkg/logger"
	"loftalgerie/pkg/model"

	"github.com/go-playground/validator/v10"
)

type NotificationValidator struct {
	validate *validator.Validate
}

func NewNotificationValidator(log *logger.Logger) *NotificationValidator {
	log.Info("Notification validator initialized successfully")
	return &NotificationValidator{validate: validator.New()}
}

func (v *NotificationValidator) Validate(n *model.Notification) error {
	return v.check(n)
}

func (v *NotificationValidator) ValidateBroadcast(b *model.Broadcast) error {
	return v.check(b)
}

func (v *NotificationValidator) check(s any) error {
	err := v.validate.Struct(s)
	if err == nil {
		return nil
	}

	var validationErrs validator.ValidationErrors
	if !errors.As(err, &validationErrs) {
		return err
	}

	messages := make([]string, 0, len(validationErrs))
	for _, fe := range validationErrs {
		switch fe.Tag() {
		case "required":
			messages = append(messages, fmt.Sprintf("%s is required", fe.Field()))
		case "min", "max":
			messages = append(messages, fmt.Sprintf("%s must satisfy %s=%s", fe.Field(), fe.Tag(), fe.Param()))
		case "oneof":
			messages = append(messages, fmt.Sprintf("%s must be one of: %s", fe.Field(), fe.Param()))
		default:
			messages = append(messages, fmt.Sprintf("%s is invalid", fe.Field()))
		}
	}
	return errors.New(strings.Join(messages, "; "))
}
