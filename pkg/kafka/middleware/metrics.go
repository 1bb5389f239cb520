package kafka_middleware

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"loftalgerie/pkg/kafka"
)

// direction counts one side of the event flow.
type direction struct {
	ok        atomic.Int64
	transient atomic.Int64
	permanent atomic.Int64
	nanos     atomic.Int64
}

func (d *direction) observe(start time.Time, err error) {
	d.nanos.Add(int64(time.Since(start)))
	switch {
	case err == nil:
		d.ok.Add(1)
	case kafka.ClassifyError(err) == kafka.ErrorTypeTransient:
		d.transient.Add(1)
	default:
		d.permanent.Add(1)
	}
}

func (d *direction) avg() string {
	n := d.ok.Load() + d.transient.Load() + d.permanent.Load()
	if n == 0 {
		return time.Duration(0).String()
	}
	return time.Duration(d.nanos.Load() / n).String()
}

func (d *direction) reset() {
	d.ok.Store(0)
	d.transient.Store(0)
	d.permanent.Store(0)
	d.nanos.Store(0)
}

// Metrics holds process-wide event counters. The health endpoint reports a
// Snapshot.
type Metrics struct {
	publish direction
	consume direction

	mu     sync.Mutex
	byType map[string]int64
}

type Snapshot struct {
	Published          int64            `json:"published"`
	PublishFailed      int64            `json:"publish_failed"`
	AvgPublishDuration string           `json:"avg_publish_duration"`
	Consumed           int64            `json:"consumed"`
	ConsumeFailed      int64            `json:"consume_failed"`
	ConsumeRetryable   int64            `json:"consume_retryable"`
	AvgConsumeDuration string           `json:"avg_consume_duration"`
	ConsumedByType     map[string]int64 `json:"consumed_by_type,omitempty"`
}

var globalMetrics = &Metrics{byType: map[string]int64{}}

func GetMetrics() *Metrics {
	return globalMetrics
}

func (m *Metrics) Reset() {
	m.publish.reset()
	m.consume.reset()
	m.mu.Lock()
	m.byType = map[string]int64{}
	m.mu.Unlock()
}

func (m *Metrics) countType(eventType string) {
	if eventType == "" {
		eventType = "unknown"
	}
	m.mu.Lock()
	m.byType[eventType]++
	m.mu.Unlock()
}

// Snapshot reports failures of either kind under *_failed; ConsumeRetryable
// is the transient share of ConsumeFailed.
func (m *Metrics) Snapshot() Snapshot {
	m.mu.Lock()
	byType := make(map[string]int64, len(m.byType))
	for k, v := range m.byType {
		byType[k] = v
	}
	m.mu.Unlock()

	return Snapshot{
		Published:          m.publish.ok.Load(),
		PublishFailed:      m.publish.transient.Load() + m.publish.permanent.Load(),
		AvgPublishDuration: m.publish.avg(),
		Consumed:           m.consume.ok.Load(),
		ConsumeFailed:      m.consume.transient.Load() + m.consume.permanent.Load(),
		ConsumeRetryable:   m.consume.transient.Load(),
		AvgConsumeDuration: m.consume.avg(),
		ConsumedByType:     byType,
	}
}

func MetricsProducerMiddleware() kafka.ProducerMiddleware {
	return func(ctx context.Context, msg kafka.Message, next func(ctx context.Context, msg kafka.Message) error) error {
		start := time.Now()
		err := next(ctx, msg)
		globalMetrics.publish.observe(start, err)
		return err
	}
}

// MetricsConsumerMiddleware also counts successfully handled messages per
// event type, so the health endpoint shows which domain events flow.
func MetricsConsumerMiddleware() kafka.ConsumerMiddleware {
	return func(ctx context.Context, msg kafka.Message, next kafka.MessageHandler) error {
		start := time.Now()
		err := next(ctx, msg)
		globalMetrics.consume.observe(start, err)
		if err == nil {
			globalMetrics.countType(msg.GetEventType())
		}
		return err
	}
}
