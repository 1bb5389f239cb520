package main

import (
	"time"

	"loftalgerie/internal/notifications/consumer"
	"loftalgerie/internal/notifications/handler"
	"loftalgerie/internal/notifications/repository"
	"loftalgerie/internal/notifications/service"
	"loftalgerie/internal/notifications/validator"
	"loftalgerie/pkg/app"
	"loftalgerie/pkg/cache"
	"loftalgerie/pkg/clock"
	"loftalgerie/pkg/config"
	kafka_config "loftalgerie/pkg/kafka/config"
)

const (
	ServiceName     = "notifications"
	ConsumerGroupID = "notifications-service"

	unreadCounterPrefix = "notifications:unread"
	unreadCounterTTL    = 24 * time.Hour
)

func main() {
	cfg := config.Load(ServiceName)
	cfg.SetMongo()
	cfg.SetRedis()
	kafkaCfg := kafka_config.Load(cfg.Log)

	cfg.Log.Info("Starting Notifications service")
	notificationService := initServices(cfg)

	serverApp := app.NewApplication(cfg)
	serverApp.AddEventConsumer(kafkaCfg, ConsumerGroupID,
		consumer.NewEventHandler(notificationService, cfg.Log).Handle)
	serverApp.SetApp(handler.NewNotificationHandler(notificationService, cfg.Log))
	serverApp.Run()
}

func initServices(cfg *config.Config) service.NotificationService {
	notificationValidator := validator.NewNotificationValidator(cfg.Log)
	notificationRepo := repository.NewMongoNotificationRepository(cfg)
	counters := cache.NewRedisCounters(cfg.Client.Redis, unreadCounterPrefix, unreadCounterTTL)

	notificationService := service.NewNotificationService(
		notificationRepo,
		counters,
		notificationValidator,
		clock.NewSystem(),
		cfg,
	)

	cfg.Log.Info("Notification service initialized", "database", cfg.MongoDatabaseName)
	return notificationService
}
