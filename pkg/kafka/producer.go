package kafka

import (
	"context"
	"fmt"
	"sync"

	kafka_config "loftalgerie/pkg/kafka/config"
	"loftalgerie/pkg/logger"

	"github.com/segmentio/kafka-go"
	"github.com/segmentio/kafka-go/compress"
)

// Producer publishes domain events. A message the brokers refuse is diverted
// to the DLQ topic when one is configured; the publish error is still
// returned to the caller.
type Producer struct {
	writer     *kafka.Writer
	dlqWriter  *kafka.Writer
	topic      string
	dlqTopic   string
	middleware []ProducerMiddleware
	log        *logger.Logger
	closed     bool
	mu         sync.RWMutex
}

type ProducerMiddleware func(ctx context.Context, msg Message, next func(ctx context.Context, msg Message) error) error

var compressionCodecs = map[string]compress.Compression{
	"none":   0,
	"gzip":   compress.Gzip,
	"snappy": compress.Snappy,
	"lz4":    compress.Lz4,
	"zstd":   compress.Zstd,
}

var requiredAcks = map[int]kafka.RequiredAcks{
	-1: kafka.RequireAll,
	0:  kafka.RequireNone,
	1:  kafka.RequireOne,
}

func NewProducer(cfg *kafka_config.Config, topic string, dlqTopic string, log *logger.Logger) (*Producer, error) {
	switch {
	case cfg == nil:
		return nil, fmt.Errorf("config cannot be nil")
	case len(cfg.Brokers) == 0:
		return nil, fmt.Errorf("at least one broker is required")
	case topic == "":
		return nil, fmt.Errorf("topic cannot be empty")
	}

	compression, ok := compressionCodecs[cfg.ProducerCompression]
	if !ok {
		compression = compress.Snappy
	}
	acks, ok := requiredAcks[cfg.ProducerRequireAcks]
	if !ok {
		acks = kafka.RequireAll
	}

	writer := newWriter(cfg, topic, log, "producer")
	writer.RequiredAcks = acks
	writer.Compression = compression
	writer.MaxAttempts = cfg.ProducerMaxAttempts
	writer.BatchTimeout = cfg.ProducerBatchTimeout
	writer.Async = cfg.ProducerAsync

	p := &Producer{
		writer:   writer,
		topic:    topic,
		dlqTopic: dlqTopic,
		log:      log,
	}
	if dlqTopic != "" {
		p.dlqWriter = newWriter(cfg, dlqTopic, log, "producer-dlq")
		p.dlqWriter.Compression = compression
	}
	return p, nil
}

// newWriter returns a hash-balanced writer so messages with the same key land
// on the same partition. Callers tune acks and batching; the defaults here are
// the ones DLQ writers use.
func newWriter(cfg *kafka_config.Config, topic string, log *logger.Logger, component string) *kafka.Writer {
	return &kafka.Writer{
		Addr:         kafka.TCP(cfg.Brokers...),
		Transport:    &kafka.Transport{ClientID: cfg.ClientID},
		Topic:        topic,
		Balancer:     &kafka.Hash{},
		RequiredAcks: kafka.RequireAll,
		Compression:  compress.Snappy,
		MaxAttempts:  3,
		Logger:       kafka.LoggerFunc(func(string, ...any) {}),
		ErrorLogger:  errorLogger(log, component, topic),
	}
}

func (p *Producer) Use(middleware ProducerMiddleware) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.middleware = append(p.middleware, middleware)
}

// Publish writes msg to the producer's topic through the middleware chain.
func (p *Producer) Publish(ctx context.Context, msg Message) error {
	p.mu.RLock()
	closed := p.closed
	middleware := p.middleware
	p.mu.RUnlock()

	switch {
	case closed:
		return ErrProducerClosed
	case msg.Key == "":
		return ErrEmptyKey
	case len(msg.Value) == 0:
		return ErrEmptyValue
	}
	if msg.Topic == "" {
		msg.Topic = p.topic
	}

	send := p.write
	for i := len(middleware) - 1; i >= 0; i-- {
		mw, next := middleware[i], send
		send = func(ctx context.Context, m Message) error {
			return mw(ctx, m, next)
		}
	}
	return send(ctx, msg)
}

func (p *Producer) write(ctx context.Context, msg Message) error {
	err := p.writer.WriteMessages(ctx, toWire(msg))
	if err == nil || p.dlqWriter == nil {
		return err
	}

	if dlqErr := p.dlqWriter.WriteMessages(ctx, toWire(deadLetter(msg, p.topic, "", err))); dlqErr != nil {
		return fmt.Errorf("failed to send to DLQ: %v (original error: %w)", dlqErr, err)
	}
	p.log.Warn("Message diverted to DLQ after publish failure",
		"topic", p.topic,
		"dlq_topic", p.dlqTopic,
		"event_id", msg.GetEventID(),
		"error", err,
	)
	return err
}

// Close flushes pending writes. It is safe to call more than once.
func (p *Producer) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		return nil
	}
	p.closed = true

	err := p.writer.Close()
	if p.dlqWriter != nil {
		if dlqErr := p.dlqWriter.Close(); err == nil {
			err = dlqErr
		}
	}
	return err
}

func errorLogger(log *logger.Logger, component, topic string) kafka.Logger {
	return kafka.LoggerFunc(func(msg string, args ...any) {
		log.Error("kafka "+component+" error", "topic", topic, "detail", fmt.Sprintf(msg, args...))
	})
}
