// Package consumer turns domain events into user notifications.
package consumer

import (
	"context"
	"fmt"

	"loftalgerie/internal/notifications/service"
	"loftalgerie/pkg/events"
	"loftalgerie/pkg/kafka"
	"loftalgerie/pkg/logger"
	"loftalgerie/pkg/model"
)

type EventHandler struct {
	service service.NotificationService
	log     *logger.Logger
}

func NewEventHandler(service service.NotificationService, log *logger.Logger) *EventHandler {
	return &EventHandler{service: service, log: log}
}

// Handle is a kafka.MessageHandler. Undecodable messages are permanent
// failures; storage failures are transient so the consumer retries them.
func (h *EventHandler) Handle(ctx context.Context, msg kafka.Message) error {
	event, err := events.Decode(msg)
	if err != nil {
		return err
	}

	notifications := Build(event)
	if len(notifications) == 0 {
		h.log.Debug("Event produces no notifications", "type", event.Type, "event_id", event.ID)
		return nil
	}

	if err := h.service.Deliver(ctx, notifications); err != nil {
		return kafka.NewTransientError("failed to store notifications", err)
	}

	h.log.Info("Notifications delivered",
		"type", event.Type,
		"event_id", event.ID,
		"recipients", len(notifications),
	)
	return nil
}

// Build maps one event to a notification per recipient. Unknown event types
// yield nothing.
func Build(event events.DomainEvent) []*model.Notification {
	var out []*model.Notification
	for _, recipient := range event.Recipients {
		if recipient == "" {
			continue
		}
		n := build(event, recipient)
		if n == nil {
			continue
		}
		n.UserID = recipient
		n.EventID = event.ID
		out = append(out, n)
	}
	return out
}

func build(event events.DomainEvent, recipient string) *model.Notification {
	d := event.Data
	switch event.Type {
	case events.BookingCreated:
		link := "/bookings/" + event.RecordID
		if recipient == d["owner_user_id"] {
			return &model.Notification{
				Title:   "New booking",
				Message: fmt.Sprintf("%s booked %s from %s to %s", d["guest_name"], d["loft_name"], d["check_in"], d["check_out"]),
				Type:    model.NotificationInfo,
				Link:    link,
			}
		}
		return &model.Notification{
			Title:   "Booking received",
			Message: fmt.Sprintf("Your booking request for %s from %s to %s has been received", d["loft_name"], d["check_in"], d["check_out"]),
			Type:    model.NotificationSuccess,
			Link:    link,
		}

	case events.BookingStatusChanged:
		notificationType := model.NotificationSuccess
		if d["status"] == model.BookingStatusCancelled {
			notificationType = model.NotificationWarning
		}
		return &model.Notification{
			Title:   "Booking " + d["status"],
			Message: fmt.Sprintf("Your booking starting %s is now %s", d["check_in"], d["status"]),
			Type:    notificationType,
			Link:    "/bookings/" + event.RecordID,
		}

	case events.TaskAssigned:
		message := fmt.Sprintf("You have been assigned: %s", d["title"])
		if due := d["due_date"]; due != "" {
			message += fmt.Sprintf(" (due %s)", due)
		}
		return &model.Notification{
			Title:   "New task assigned",
			Message: message,
			Type:    model.NotificationInfo,
			Link:    "/tasks/" + event.RecordID,
		}

	case events.LoftTransferred:
		return &model.Notification{
			Title:   "Loft transferred",
			Message: "A loft has been transferred to your account",
			Type:    model.NotificationInfo,
			Link:    "/lofts/" + event.RecordID,
		}
	}
	return nil
}
