package kafka

import (
	"context"
	"encoding/json"
	"maps"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"
)

// Message is the transport-neutral form of a record on a domain topic.
// Partition and Offset are only set on consumed messages.
type Message struct {
	Key       string
	Value     []byte
	Headers   map[string]string
	Topic     string
	Partition int
	Offset    int64
	Timestamp time.Time
}

const (
	HeaderEventID       = "event-id"
	HeaderEventType     = "event-type"
	HeaderCorrelationID = "correlation-id"
	HeaderActorID       = "actor-id"
	HeaderSchemaVersion = "schema-version"
	HeaderSource        = "source"
	HeaderTimestamp     = "timestamp"
	HeaderRetryCount    = "retry-count"

	HeaderOriginalTopic    = "original-topic"
	HeaderDLQError         = "dlq-error"
	HeaderDLQTimestamp     = "dlq-timestamp"
	HeaderDLQConsumerGroup = "dlq-consumer-group"
)

// MessageHandler processes one consumed message. Returned errors are
// classified with ClassifyError.
type MessageHandler func(ctx context.Context, msg Message) error

type MessageBuilder struct {
	msg Message
}

func NewMessage() *MessageBuilder {
	return &MessageBuilder{msg: Message{
		Headers:   map[string]string{},
		Timestamp: time.Now().UTC(),
	}}
}

// WithKey sets the partition key. Domain events are keyed by record ID so
// every change to one loft or booking stays ordered.
func (mb *MessageBuilder) WithKey(key string) *MessageBuilder {
	mb.msg.Key = key
	return mb
}

// WithValue JSON-encodes value. An unencodable value leaves the payload empty
// and Publish rejects it with ErrEmptyValue.
func (mb *MessageBuilder) WithValue(value any) *MessageBuilder {
	data, err := json.Marshal(value)
	if err != nil {
		data = nil
	}
	mb.msg.Value = data
	return mb
}

func (mb *MessageBuilder) WithRawValue(value []byte) *MessageBuilder {
	mb.msg.Value = value
	return mb
}

// WithEventID sets the event-id header, generating one when id is empty.
func (mb *MessageBuilder) WithEventID(id string) *MessageBuilder {
	if id == "" {
		id = uuid.NewString()
	}
	return mb.header(HeaderEventID, id)
}

func (mb *MessageBuilder) WithEventType(eventType string) *MessageBuilder {
	return mb.header(HeaderEventType, eventType)
}

func (mb *MessageBuilder) WithCorrelationID(id string) *MessageBuilder {
	return mb.header(HeaderCorrelationID, id)
}

func (mb *MessageBuilder) WithActorID(actorID string) *MessageBuilder {
	return mb.header(HeaderActorID, actorID)
}

func (mb *MessageBuilder) WithSchemaVersion(version string) *MessageBuilder {
	return mb.header(HeaderSchemaVersion, version)
}

func (mb *MessageBuilder) WithSource(source string) *MessageBuilder {
	return mb.header(HeaderSource, source)
}

// header skips empty values so consumers can tell "unset" from "blank".
func (mb *MessageBuilder) header(key, value string) *MessageBuilder {
	if value != "" {
		mb.msg.Headers[key] = value
	}
	return mb
}

// Build fills in the event-id and timestamp headers when they were not set.
func (mb *MessageBuilder) Build() Message {
	if mb.msg.Headers[HeaderEventID] == "" {
		mb.msg.Headers[HeaderEventID] = uuid.NewString()
	}
	if mb.msg.Headers[HeaderTimestamp] == "" {
		mb.msg.Headers[HeaderTimestamp] = mb.msg.Timestamp.Format(time.RFC3339)
	}
	return mb.msg
}

func (m *Message) DecodeValue(v any) error {
	return json.Unmarshal(m.Value, v)
}

func (m *Message) GetEventID() string       { return m.Headers[HeaderEventID] }
func (m *Message) GetEventType() string     { return m.Headers[HeaderEventType] }
func (m *Message) GetCorrelationID() string { return m.Headers[HeaderCorrelationID] }
func (m *Message) GetActorID() string       { return m.Headers[HeaderActorID] }

// GetRetryCount reads the retry-count header; a missing or garbled value is 0.
func (m *Message) GetRetryCount() int {
	n, err := strconv.Atoi(m.Headers[HeaderRetryCount])
	if err != nil {
		return 0
	}
	return n
}

func (m *Message) IncrementRetryCount() {
	m.Headers[HeaderRetryCount] = strconv.Itoa(m.GetRetryCount() + 1)
}

// deadLetter copies msg for a DLQ topic, recording where it came from and why
// it failed. The original headers map is left untouched.
func deadLetter(msg Message, sourceTopic, groupID string, cause error) Message {
	out := msg
	out.Headers = maps.Clone(msg.Headers)
	if out.Headers == nil {
		out.Headers = map[string]string{}
	}
	out.Timestamp = time.Now().UTC()
	out.Headers[HeaderOriginalTopic] = sourceTopic
	out.Headers[HeaderDLQError] = cause.Error()
	out.Headers[HeaderDLQTimestamp] = out.Timestamp.Format(time.RFC3339)
	if groupID != "" {
		out.Headers[HeaderDLQConsumerGroup] = groupID
	}
	return out
}

func toWire(msg Message) kafka.Message {
	wire := kafka.Message{
		Key:     []byte(msg.Key),
		Value:   msg.Value,
		Time:    msg.Timestamp,
		Headers: make([]kafka.Header, 0, len(msg.Headers)),
	}
	for k, v := range msg.Headers {
		wire.Headers = append(wire.Headers, kafka.Header{Key: k, Value: []byte(v)})
	}
	return wire
}

func fromWire(wire kafka.Message) Message {
	msg := Message{
		Key:       string(wire.Key),
		Value:     wire.Value,
		Headers:   make(map[string]string, len(wire.Headers)),
		Topic:     wire.Topic,
		Partition: wire.Partition,
		Offset:    wire.Offset,
		Timestamp: wire.Time,
	}
	for _, h := range wire.Headers {
		msg.Headers[h.Key] = string(h.Value)
	}
	return msg
}
