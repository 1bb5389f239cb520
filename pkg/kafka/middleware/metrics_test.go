package kafka_middleware

import (
	"context"
	"errors"
	"testing"

	"loftalgerie/pkg/kafka"
	"loftalgerie/pkg/logger"
)

func TestMetricsConsumerMiddleware(t *testing.T) {
	m := GetMetrics()
	m.Reset()
	t.Cleanup(m.Reset)

	mw := MetricsConsumerMiddleware()
	ok := func(ctx context.Context, msg kafka.Message) error { return nil }
	permanent := func(ctx context.Context, msg kafka.Message) error { return errors.New("boom") }
	transient := func(ctx context.Context, msg kafka.Message) error {
		return kafka.NewTransientError("insert audit log", errors.New("server selection timeout"))
	}

	created := kafka.NewMessage().WithKey("k").WithEventType("booking.created").WithRawValue([]byte(`{}`)).Build()
	assigned := kafka.NewMessage().WithKey("k").WithEventType("task.assigned").WithRawValue([]byte(`{}`)).Build()
	_ = mw(context.Background(), created, ok)
	_ = mw(context.Background(), created, ok)
	_ = mw(context.Background(), assigned, ok)
	_ = mw(context.Background(), created, permanent)
	_ = mw(context.Background(), created, transient)

	snap := m.Snapshot()
	if snap.Consumed != 3 || snap.ConsumeFailed != 2 || snap.ConsumeRetryable != 1 {
		t.Errorf("unexpected snapshot %+v", snap)
	}
	if snap.ConsumedByType["booking.created"] != 2 || snap.ConsumedByType["task.assigned"] != 1 {
		t.Errorf("unexpected per-type counts %v", snap.ConsumedByType)
	}
}

func TestMetricsProducerMiddleware(t *testing.T) {
	m := GetMetrics()
	m.Reset()
	t.Cleanup(m.Reset)

	mw := MetricsProducerMiddleware()
	msg := kafka.NewMessage().WithKey("k").WithRawValue([]byte(`{}`)).Build()
	_ = mw(context.Background(), msg, func(ctx context.Context, m kafka.Message) error { return nil })
	_ = mw(context.Background(), msg, func(ctx context.Context, m kafka.Message) error { return errors.New("broker down") })

	snap := m.Snapshot()
	if snap.Published != 1 || snap.PublishFailed != 1 {
		t.Errorf("unexpected snapshot %+v", snap)
	}
}

func TestLoggingProducerMiddleware_PassesError(t *testing.T) {
	mw := LoggingProducerMiddleware(logger.Discard())
	want := errors.New("broker down")

	msg := kafka.NewMessage().WithKey("k").WithRawValue([]byte(`{}`)).Build()
	err := mw(context.Background(), msg, func(ctx context.Context, m kafka.Message) error { return want })
	if !errors.Is(err, want) {
		t.Errorf("expected wrapped error to pass through, got %v", err)
	}
}
