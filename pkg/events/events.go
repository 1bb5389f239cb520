package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"loftalgerie/pkg/auth"
	"loftalgerie/pkg/kafka"
	"loftalgerie/pkg/middleware"

	"github.com/google/uuid"
)

const (
	LoftCreated     = "loft.created"
	LoftUpdated     = "loft.updated"
	LoftDeleted     = "loft.deleted"
	LoftTransferred = "loft.transferred"

	OwnerCreated = "owner.created"
	OwnerUpdated = "owner.updated"
	OwnerDeleted = "owner.deleted"

	BookingCreated       = "booking.created"
	BookingUpdated       = "booking.updated"
	BookingStatusChanged = "booking.status_changed"
	BookingDeleted       = "booking.deleted"

	TaskCreated  = "task.created"
	TaskUpdated  = "task.updated"
	TaskDeleted  = "task.deleted"
	TaskAssigned = "task.assigned"
)

const (
	TableLofts    = "lofts"
	TableOwners   = "owners"
	TableBookings = "bookings"
	TableTasks    = "tasks"
)

// DomainEvent is the payload carried on the domain events topic. Table and
// Action are empty for events that do not describe a row change, such as
// task.assigned, and the audit consumer skips those.
type DomainEvent struct {
	ID         string            `json:"id"`
	Type       string            `json:"type"`
	Table      string            `json:"table,omitempty"`
	RecordID   string            `json:"record_id"`
	Action     string            `json:"action,omitempty"`
	ActorID    string            `json:"actor_id,omitempty"`
	ActorEmail string            `json:"actor_email,omitempty"`
	IPAddress  string            `json:"ip_address,omitempty"`
	UserAgent  string            `json:"user_agent,omitempty"`
	OldValues  map[string]any    `json:"old_values,omitempty"`
	NewValues  map[string]any    `json:"new_values,omitempty"`
	Recipients []string          `json:"recipients,omitempty"`
	Data       map[string]string `json:"data,omitempty"`
	OccurredAt time.Time         `json:"occurred_at"`
}

// New fills the ID, timestamp and actor of an event from ctx.
func New(ctx context.Context, eventType, table, recordID, action string) DomainEvent {
	e := DomainEvent{
		ID:         uuid.NewString(),
		Type:       eventType,
		Table:      table,
		RecordID:   recordID,
		Action:     action,
		OccurredAt: time.Now().UTC(),
	}
	if p, ok := auth.PrincipalFrom(ctx); ok {
		e.ActorID = p.UserID
		e.ActorEmail = p.Email
	}
	if meta, ok := RequestMetaFrom(ctx); ok {
		e.IPAddress = meta.IPAddress
		e.UserAgent = meta.UserAgent
	}
	return e
}

type Publisher interface {
	Publish(ctx context.Context, event DomainEvent) error
}

type KafkaPublisher struct {
	producer *kafka.Producer
	source   string
}

func NewKafkaPublisher(producer *kafka.Producer, source string) *KafkaPublisher {
	return &KafkaPublisher{producer: producer, source: source}
}

func (p *KafkaPublisher) Publish(ctx context.Context, event DomainEvent) error {
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.OccurredAt.IsZero() {
		event.OccurredAt = time.Now().UTC()
	}

	value, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to encode event %s: %w", event.Type, err)
	}

	msg := kafka.NewMessage().
		WithKey(event.RecordID).
		WithRawValue(value).
		WithEventID(event.ID).
		WithEventType(event.Type).
		WithSource(p.source).
		WithActorID(event.ActorID).
		WithCorrelationID(middleware.RequestIDFrom(ctx)).
		WithSchemaVersion("1").
		Build()

	return p.producer.Publish(ctx, msg)
}

type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, DomainEvent) error { return nil }

// ToValues flattens a record into the generic map stored as audit old/new
// values, using the record's JSON field names.
func ToValues(v any) map[string]any {
	if v == nil {
		return nil
	}
	data, err := json.Marshal(v)
	if err != nil {
		return nil
	}
	var out map[string]any
	if err := json.Unmarshal(data, &out); err != nil {
		return nil
	}
	return out
}

// Decode reads a DomainEvent from a consumed message.
func Decode(msg kafka.Message) (DomainEvent, error) {
	var e DomainEvent
	if err := msg.DecodeValue(&e); err != nil {
		return e, kafka.NewPermanentError("failed to decode domain event", err)
	}
	if e.Type == "" {
		e.Type = msg.GetEventType()
	}
	if e.ID == "" {
		e.ID = msg.GetEventID()
	}
	if e.Type == "" || e.ID == "" {
		return e, kafka.NewPermanentError("domain event without type or id", kafka.ErrInvalidMessage)
	}
	return e, nil
}
