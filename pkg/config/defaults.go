package config

import "time"

const (
	DefaultMongoURI          = "mongodb://localhost:27017"
	DefaultMongoDatabaseName = "loftalgerie"
	DefaultMongoConnTimeout  = 10 * time.Second

	DefaultPort     = "8080"
	DefaultLogLevel = "info"

	DefaultRateLimitRequests = 60
	DefaultRateLimitWindow   = 1 * time.Minute

	DefaultRequestTimeout = 30 * time.Second
	DefaultIdempotencyTTL = 24 * time.Hour
	DefaultMaxRequestSize = 1 * 1024 * 1024 // 1MB

	DefaultReadTimeout     = 15 * time.Second
	DefaultWriteTimeout    = 15 * time.Second
	DefaultIdleTimeout     = 60 * time.Second
	DefaultShutdownTimeout = 30 * time.Second

	DefaultPaginationLimit = 100

	DefaultBookingLockTTL  = 10 * time.Second
	DefaultCurrency        = "DZD"
	DefaultMaxStayNights   = 90
	DefaultLoftsServiceURL = "http://localhost:8081"

	DefaultRedisURL = "redis://localhost:6379/0"

	DefaultAuditExportMaxRows   = 10000
	DefaultAuditExportBatchSize = 500
	DefaultAuditExportPrefix    = "audit-exports"
	DefaultAWSRegion            = "eu-west-3"

	DefaultDomainEventsTopic    = "loft-domain-events"
	DefaultDomainEventsDLQTopic = "dlq-loft-domain-events"
)
