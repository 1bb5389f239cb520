// Package consumer records an audit log entry for every row-changing domain
// event.
package consumer

import (
	"context"

	"loftalgerie/internal/audit/service"
	"loftalgerie/pkg/events"
	"loftalgerie/pkg/kafka"
	"loftalgerie/pkg/logger"
)

type EventHandler struct {
	service service.AuditService
	log     *logger.Logger
}

func NewEventHandler(service service.AuditService, log *logger.Logger) *EventHandler {
	return &EventHandler{service: service, log: log}
}

// Handle is a kafka.MessageHandler.
func (h *EventHandler) Handle(ctx context.Context, msg kafka.Message) error {
	event, err := events.Decode(msg)
	if err != nil {
		return err
	}

	if event.Table == "" || event.Action == "" {
		h.log.Debug("Event carries no row change, skipping", "type", event.Type, "event_id", event.ID)
		return nil
	}

	if err := h.service.Record(ctx, event); err != nil {
		return kafka.NewTransientError("failed to record audit log", err)
	}

	h.log.Info("Audit log recorded",
		"type", event.Type,
		"table", event.Table,
		"record_id", event.RecordID,
		"event_id", event.ID,
	)
	return nil
}
