package config

const (
	EnvMongoURI          = "MONGO_URI"
	EnvMongoDatabaseName = "MONGO_DATABASE_NAME"
	EnvMongoConnTimeout  = "MONGO_CONN_TIMEOUT"

	EnvPort     = "PORT"
	EnvLogLevel = "LOG_LEVEL"

	EnvGatewaySharedSecret = "GATEWAY_SHARED_SECRET"

	EnvRateLimitRequests = "RATE_LIMIT_REQUESTS"
	EnvRateLimitWindow   = "RATE_LIMIT_WINDOW"

	EnvRequestTimeout = "REQUEST_TIMEOUT"
	EnvIdempotencyTTL = "IDEMPOTENCY_TTL"
	EnvMaxRequestSize = "MAX_REQUEST_SIZE"

	EnvReadTimeout     = "READ_TIMEOUT"
	EnvWriteTimeout    = "WRITE_TIMEOUT"
	EnvIdleTimeout     = "IDLE_TIMEOUT"
	EnvShutdownTimeout = "SHUTDOWN_TIMEOUT"

	EnvBookingReferenceKey = "BOOKING_REFERENCE_KEY"
	EnvBookingLockTTL      = "BOOKING_LOCK_TTL"
	EnvDefaultCurrency     = "DEFAULT_CURRENCY"
	EnvMaxStayNights       = "MAX_STAY_NIGHTS"
	EnvLoftsServiceURL     = "LOFTS_SERVICE_URL"

	EnvRedisURL = "REDIS_URL"

	EnvAuditExportMaxRows   = "AUDIT_EXPORT_MAX_ROWS"
	EnvAuditExportBatchSize = "AUDIT_EXPORT_BATCH_SIZE"
	EnvAuditExportBucket    = "AUDIT_EXPORT_BUCKET"
	EnvAuditExportPrefix    = "AUDIT_EXPORT_PREFIX"
	EnvAWSRegion            = "AWS_REGION"

	EnvDomainEventsTopic    = "DOMAIN_EVENTS_TOPIC"
	EnvDomainEventsDLQTopic = "DOMAIN_EVENTS_DLQ_TOPIC"
)
