package main

import (
	"context"

	"loftalgerie/internal/audit/consumer"
	"loftalgerie/internal/audit/handler"
	"loftalgerie/internal/audit/repository"
	"loftalgerie/internal/audit/service"
	"loftalgerie/pkg/app"
	"loftalgerie/pkg/clock"
	"loftalgerie/pkg/config"
	kafka_config "loftalgerie/pkg/kafka/config"
	"loftalgerie/pkg/storage"
)

const (
	ServiceName     = "audit"
	ConsumerGroupID = "audit-service"
)

func main() {
	cfg := config.Load(ServiceName)
	cfg.SetMongo()
	kafkaCfg := kafka_config.Load(cfg.Log)

	cfg.Log.Info("Starting Audit service")
	auditService := initServices(cfg)

	serverApp := app.NewApplication(cfg)
	serverApp.AddEventConsumer(kafkaCfg, ConsumerGroupID,
		consumer.NewEventHandler(auditService, cfg.Log).Handle)
	serverApp.SetApp(handler.NewAuditHandler(auditService, cfg.Log))
	serverApp.Run()
}

func initServices(cfg *config.Config) service.AuditService {
	auditRepo := repository.NewMongoAuditRepository(cfg)

	var archiver storage.Archiver
	if cfg.AuditExportBucket != "" {
		s3Archiver, err := storage.NewS3Archiver(context.Background(), storage.S3Config{
			Bucket: cfg.AuditExportBucket,
			Prefix: cfg.AuditExportPrefix,
			Region: cfg.AWSRegion,
		}, cfg.Log)
		if err != nil {
			cfg.Log.Fatal("Failed to configure audit archive", "error", err)
		}
		archiver = s3Archiver
	} else {
		cfg.Log.Warn("AUDIT_EXPORT_BUCKET not set, export archiving is disabled")
	}

	auditService := service.NewAuditService(auditRepo, archiver, clock.NewSystem(), cfg)

	cfg.Log.Info("Audit service initialized",
		"database", cfg.MongoDatabaseName,
		"export_max_rows", cfg.AuditExportMaxRows,
	)
	return auditService
}
