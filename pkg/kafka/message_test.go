package kafka

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"go.mongodb.org/mongo-driver/mongo"
)

func TestMessageBuilder(t *testing.T) {
	msg := NewMessage().
		WithKey("loft-1").
		WithValue(map[string]string{"type": "loft.created"}).
		WithEventType("loft.created").
		WithSource("lofts").
		WithActorID("u-1").
		Build()

	if msg.Key != "loft-1" {
		t.Errorf("key = %q", msg.Key)
	}
	if msg.GetEventID() == "" {
		t.Error("expected generated event id")
	}
	if msg.GetEventType() != "loft.created" || msg.Headers[HeaderSource] != "lofts" || msg.GetActorID() != "u-1" {
		t.Errorf("unexpected headers %v", msg.Headers)
	}
	if msg.Headers[HeaderTimestamp] == "" {
		t.Error("expected timestamp header")
	}

	var decoded map[string]string
	if err := msg.DecodeValue(&decoded); err != nil || decoded["type"] != "loft.created" {
		t.Errorf("decode: %v %v", decoded, err)
	}
}

func TestMessageBuilder_UnencodableValue(t *testing.T) {
	msg := NewMessage().WithKey("k").WithValue(func() {}).Build()
	if len(msg.Value) != 0 {
		t.Error("expected empty value for unencodable payload")
	}
}

func TestRetryCount(t *testing.T) {
	msg := NewMessage().Build()
	if msg.GetRetryCount() != 0 {
		t.Fatal("expected zero retries")
	}
	for i := 0; i < 12; i++ {
		msg.IncrementRetryCount()
	}
	if got := msg.GetRetryCount(); got != 12 {
		t.Errorf("retry count = %d, want 12", got)
	}
}

func TestClassifyError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want ErrorType
	}{
		{"nil", nil, ErrorTypeUnknown},
		{"transient kafka error", NewTransientError("db", errors.New("x")), ErrorTypeTransient},
		{"permanent kafka error", NewPermanentError("decode", errors.New("x")), ErrorTypePermanent},
		{"wrapped deadline", fmt.Errorf("insert: %w", context.DeadlineExceeded), ErrorTypeTransient},
		{"connection refused", errors.New("dial tcp: Connection Refused"), ErrorTypeTransient},
		{"unknown", errors.New("something odd"), ErrorTypePermanent},
		{"mongo network error", mongo.CommandError{Labels: []string{"NetworkError"}}, ErrorTypeTransient},
		{"duplicate key", mongo.WriteException{WriteErrors: []mongo.WriteError{{Code: 11000}}}, ErrorTypePermanent},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ClassifyError(tt.err); got != tt.want {
				t.Errorf("ClassifyError(%v) = %v, want %v", tt.err, got, tt.want)
			}
		})
	}
}

func TestShouldRetry(t *testing.T) {
	transient := NewTransientError("db", errors.New("timeout"))
	if !ShouldRetry(transient, 0, 3) {
		t.Error("expected retry for transient error under limit")
	}
	if ShouldRetry(transient, 3, 3) {
		t.Error("expected no retry at limit")
	}
	if ShouldRetry(NewPermanentError("bad", nil), 0, 3) {
		t.Error("expected no retry for permanent error")
	}
}

func TestWireRoundTrip(t *testing.T) {
	msg := NewMessage().WithKey("booking-7").WithRawValue([]byte(`{"a":1}`)).WithEventType("booking.created").Build()

	back := fromWire(toWire(msg))
	if back.Key != msg.Key || string(back.Value) != string(msg.Value) {
		t.Errorf("payload changed: %+v", back)
	}
	if back.GetEventID() != msg.GetEventID() || back.GetEventType() != "booking.created" {
		t.Errorf("headers changed: %v", back.Headers)
	}
}

func TestDeadLetter(t *testing.T) {
	msg := NewMessage().WithKey("k").WithRawValue([]byte("x")).Build()

	dlq := deadLetter(msg, "loft-domain-events", "audit-service", errors.New("decode failed"))

	if dlq.Headers[HeaderOriginalTopic] != "loft-domain-events" ||
		dlq.Headers[HeaderDLQConsumerGroup] != "audit-service" ||
		dlq.Headers[HeaderDLQError] != "decode failed" {
		t.Errorf("unexpected dlq headers %v", dlq.Headers)
	}
	if _, ok := msg.Headers[HeaderDLQError]; ok {
		t.Error("original message headers must not be modified")
	}

	fromProducer := deadLetter(msg, "loft-domain-events", "", errors.New("broker down"))
	if _, ok := fromProducer.Headers[HeaderDLQConsumerGroup]; ok {
		t.Error("producer dead letters carry no consumer group")
	}
}
