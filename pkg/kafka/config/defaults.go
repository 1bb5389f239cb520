package kafka_config

import "time"

const (
	// Empty disables Kafka
	DefaultKafkaBrokers = ""

	// Reported to brokers so the loft services are identifiable in broker logs
	DefaultKafkaClientID = "loftalgerie"

	// Producer defaults
	DefaultProducerMaxAttempts  = 3
	DefaultProducerBatchTimeout = 10 * time.Millisecond
	DefaultProducerRequireAcks  = -1 // Require all replicas
	DefaultProducerCompression  = "snappy"
	DefaultProducerAsync        = false

	// New consumer groups read from the oldest retained event so the audit
	// trail has no gap on first deploy.
	DefaultConsumerStartOffset       = -2
	DefaultConsumerMinBytes          = 1
	DefaultConsumerMaxBytes          = 1 * 1024 * 1024 // 1MB, events are small
	DefaultConsumerMaxWait           = 500 * time.Millisecond
	DefaultConsumerCommitInterval    = 1 * time.Second
	DefaultConsumerHeartbeatInterval = 3 * time.Second
	DefaultConsumerSessionTimeout    = 10 * time.Second
	DefaultConsumerRebalanceTimeout  = 60 * time.Second
	DefaultConsumerMaxRetries        = 5
	DefaultConsumerRetryBackoff      = 200 * time.Millisecond
	DefaultConsumerDialTimeout       = 10 * time.Second

	// Middleware defaults
	DefaultEnableMiddleware = true
)
