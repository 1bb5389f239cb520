package config

import (
	"encoding/base64"
	"fmt"
	"net/url"
	"os"
	"regexp"
	"strconv"
	"strings"
	"time"

	"loftalgerie/pkg/client"
	"loftalgerie/pkg/logger"
)

var (
	mongoURIRegex      = regexp.MustCompile(`^mongodb(\+srv)?://`)
	credentialURIRegex = regexp.MustCompile(`(mongodb(\+srv)?://|rediss?://)[^:@/]*:[^@]+@`)
	currencyRegex      = regexp.MustCompile(`^[A-Z]{3}$`)
)

type Config struct {
	MongoURI          string
	MongoDatabaseName string
	MongoConnTimeout  time.Duration

	Port string

	GatewaySharedSecret string

	RateLimitRequests int
	RateLimitWindow   time.Duration

	RequestTimeout time.Duration
	IdempotencyTTL time.Duration
	MaxRequestSize int

	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	IdleTimeout     time.Duration
	ShutdownTimeout time.Duration

	BookingReferenceKey string
	BookingLockTTL      time.Duration
	DefaultCurrency     string
	MaxStayNights       int
	LoftsServiceURL     string

	RedisURL string

	AuditExportMaxRows   int
	AuditExportBatchSize int
	AuditExportBucket    string
	AuditExportPrefix    string
	AWSRegion            string

	DomainEventsTopic    string
	DomainEventsDLQTopic string

	Log    *logger.Logger
	Client *client.Client
}

func Load(serviceName string) *Config {
	cfg := &Config{
		MongoURI:          getEnvStr(EnvMongoURI, DefaultMongoURI),
		MongoDatabaseName: getEnvStr(EnvMongoDatabaseName, DefaultMongoDatabaseName),
		MongoConnTimeout:  getEnvDuration(EnvMongoConnTimeout, DefaultMongoConnTimeout),

		Port: getEnvStr(EnvPort, DefaultPort),

		GatewaySharedSecret: getEnvStr(EnvGatewaySharedSecret, ""),

		RateLimitRequests: getEnvNum(EnvRateLimitRequests, DefaultRateLimitRequests),
		RateLimitWindow:   getEnvDuration(EnvRateLimitWindow, DefaultRateLimitWindow),

		RequestTimeout: getEnvDuration(EnvRequestTimeout, DefaultRequestTimeout),
		IdempotencyTTL: getEnvDuration(EnvIdempotencyTTL, DefaultIdempotencyTTL),
		MaxRequestSize: getEnvNum(EnvMaxRequestSize, DefaultMaxRequestSize),

		ReadTimeout:     getEnvDuration(EnvReadTimeout, DefaultReadTimeout),
		WriteTimeout:    getEnvDuration(EnvWriteTimeout, DefaultWriteTimeout),
		IdleTimeout:     getEnvDuration(EnvIdleTimeout, DefaultIdleTimeout),
		ShutdownTimeout: getEnvDuration(EnvShutdownTimeout, DefaultShutdownTimeout),

		BookingReferenceKey: getEnvStr(EnvBookingReferenceKey, ""),
		BookingLockTTL:      getEnvDuration(EnvBookingLockTTL, DefaultBookingLockTTL),
		DefaultCurrency:     strings.ToUpper(getEnvStr(EnvDefaultCurrency, DefaultCurrency)),
		MaxStayNights:       getEnvNum(EnvMaxStayNights, DefaultMaxStayNights),
		LoftsServiceURL:     strings.TrimSuffix(getEnvStr(EnvLoftsServiceURL, DefaultLoftsServiceURL), "/"),

		RedisURL: getEnvStr(EnvRedisURL, DefaultRedisURL),

		AuditExportMaxRows:   getEnvNum(EnvAuditExportMaxRows, DefaultAuditExportMaxRows),
		AuditExportBatchSize: getEnvNum(EnvAuditExportBatchSize, DefaultAuditExportBatchSize),
		AuditExportBucket:    getEnvStr(EnvAuditExportBucket, ""),
		AuditExportPrefix:    strings.Trim(getEnvStr(EnvAuditExportPrefix, DefaultAuditExportPrefix), "/"),
		AWSRegion:            getEnvStr(EnvAWSRegion, DefaultAWSRegion),

		DomainEventsTopic:    getEnvStr(EnvDomainEventsTopic, DefaultDomainEventsTopic),
		DomainEventsDLQTopic: getEnvStr(EnvDomainEventsDLQTopic, DefaultDomainEventsDLQTopic),

		Log: logger.New(logger.Config{
			Level:     getEnvStr(EnvLogLevel, DefaultLogLevel),
			Format:    logger.JSON,
			AddSource: true,
			Service:   serviceName,
		}),
		Client: client.NewClient(),
	}

	if err := cfg.Validate(); err != nil {
		cfg.Log.Fatal(err.Error())
	}
	cfg.LogConfiguration()
	return cfg
}

func (cfg *Config) SetMongo() {
	cfg.Client.SetMongo(cfg.Log, cfg.MongoURI, cfg.MongoConnTimeout)
}

func (cfg *Config) SetRedis() {
	cfg.Client.SetRedis(cfg.Log, cfg.RedisURL, cfg.MongoConnTimeout)
}

func (cfg *Config) Validate() error {
	var errors []string

	if port, err := strconv.Atoi(cfg.Port); err != nil || port < 1 || port > 65535 {
		errors = append(errors, fmt.Sprintf("Port must be between 1 and 65535, got: %s", cfg.Port))
	}

	if cfg.MongoURI == "" {
		errors = append(errors, "MongoURI cannot be empty")
	} else if !mongoURIRegex.MatchString(cfg.MongoURI) {
		errors = append(errors, fmt.Sprintf("MongoURI must start with 'mongodb://' or 'mongodb+srv://', got: %s", redactURI(cfg.MongoURI)))
	}
	if cfg.MongoDatabaseName == "" {
		errors = append(errors, "MongoDatabaseName cannot be empty")
	}

	positiveDurations := []struct {
		name  string
		value time.Duration
	}{
		{"MongoConnTimeout", cfg.MongoConnTimeout},
		{"RateLimitWindow", cfg.RateLimitWindow},
		{"RequestTimeout", cfg.RequestTimeout},
		{"IdempotencyTTL", cfg.IdempotencyTTL},
		{"ReadTimeout", cfg.ReadTimeout},
		{"WriteTimeout", cfg.WriteTimeout},
		{"IdleTimeout", cfg.IdleTimeout},
		{"ShutdownTimeout", cfg.ShutdownTimeout},
		{"BookingLockTTL", cfg.BookingLockTTL},
	}
	for _, d := range positiveDurations {
		if d.value <= 0 {
			errors = append(errors, fmt.Sprintf("%s must be positive, got: %s", d.name, d.value))
		}
	}

	positiveInts := []struct {
		name  string
		value int
	}{
		{"RateLimitRequests", cfg.RateLimitRequests},
		{"MaxRequestSize", cfg.MaxRequestSize},
		{"MaxStayNights", cfg.MaxStayNights},
		{"AuditExportMaxRows", cfg.AuditExportMaxRows},
		{"AuditExportBatchSize", cfg.AuditExportBatchSize},
	}
	for _, n := range positiveInts {
		if n.value <= 0 {
			errors = append(errors, fmt.Sprintf("%s must be positive, got: %d", n.name, n.value))
		}
	}

	if !currencyRegex.MatchString(cfg.DefaultCurrency) {
		errors = append(errors, fmt.Sprintf("DefaultCurrency must be a 3-letter ISO code, got: %s", cfg.DefaultCurrency))
	}

	if cfg.BookingReferenceKey != "" {
		key, err := base64.StdEncoding.DecodeString(cfg.BookingReferenceKey)
		if err != nil || len(key) != 32 {
			errors = append(errors, "BookingReferenceKey must be a base64-encoded 32-byte key")
		}
	}

	if u, err := url.Parse(cfg.LoftsServiceURL); err != nil || u.Scheme == "" || u.Host == "" {
		errors = append(errors, fmt.Sprintf("LoftsServiceURL must be an absolute URL, got: %s", cfg.LoftsServiceURL))
	}

	if len(errors) > 0 {
		errMsg := "Configuration validation failed:\n"
		for i, err := range errors {
			errMsg += fmt.Sprintf("  %d. %s\n", i+1, err)
		}
		return fmt.Errorf("%s", errMsg)
	}

	return nil
}

func (cfg *Config) LogConfiguration() {
	cfg.Log.Info("Configuration loaded successfully",
		"mongo_uri", redactURI(cfg.MongoURI),
		"mongo_database", cfg.MongoDatabaseName,
		"mongo_conn_timeout", cfg.MongoConnTimeout,
		"port", cfg.Port,
		"gateway_secret_set", cfg.GatewaySharedSecret != "",
		"rate_limit_requests", cfg.RateLimitRequests,
		"rate_limit_window", cfg.RateLimitWindow,
		"request_timeout", cfg.RequestTimeout,
		"idempotency_ttl", cfg.IdempotencyTTL,
		"max_request_size", cfg.MaxRequestSize,
		"read_timeout", cfg.ReadTimeout,
		"write_timeout", cfg.WriteTimeout,
		"idle_timeout", cfg.IdleTimeout,
		"shutdown_timeout", cfg.ShutdownTimeout,
		"booking_reference_key_set", cfg.BookingReferenceKey != "",
		"booking_lock_ttl", cfg.BookingLockTTL,
		"default_currency", cfg.DefaultCurrency,
		"max_stay_nights", cfg.MaxStayNights,
		"lofts_service_url", cfg.LoftsServiceURL,
		"redis_url", redactURI(cfg.RedisURL),
		"audit_export_max_rows", cfg.AuditExportMaxRows,
		"audit_export_batch_size", cfg.AuditExportBatchSize,
		"audit_export_bucket", cfg.AuditExportBucket,
		"audit_export_prefix", cfg.AuditExportPrefix,
		"aws_region", cfg.AWSRegion,
		"domain_events_topic", cfg.DomainEventsTopic,
		"domain_events_dlq_topic", cfg.DomainEventsDLQTopic,
	)
}

func redactURI(uri string) string {
	return credentialURIRegex.ReplaceAllString(uri, "${1}***:***@")
}

func getEnvStr(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvNum(key string, fallback int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return fallback
}

func (cfg *Config) GracefulShutdown() {
	cfg.Client.GracefulShutdown(cfg.Log)
}

func NormalizePaginationLimit(limit int) int {
	if limit <= 0 {
		limit = 10
	} else if limit > DefaultPaginationLimit {
		limit = DefaultPaginationLimit
	}
	return limit
}

func NormalizeOffset(offset int64) int64 {
	return max(0, offset)
}
