package main

import (
	"loftalgerie/internal/bookings/handler"
	"loftalgerie/internal/bookings/repository"
	"loftalgerie/internal/bookings/service"
	"loftalgerie/internal/bookings/validator"
	"loftalgerie/pkg/app"
	"loftalgerie/pkg/client"
	"loftalgerie/pkg/clock"
	"loftalgerie/pkg/config"
	"loftalgerie/pkg/events"
	kafka_config "loftalgerie/pkg/kafka/config"
	"loftalgerie/pkg/sealer"
)

const ServiceName = "bookings"

func main() {
	cfg := config.Load(ServiceName)
	cfg.SetMongo()
	// shares Idempotency-Key replays between replicas
	cfg.SetRedis()
	kafkaCfg := kafka_config.Load(cfg.Log)

	cfg.Log.Info("Starting Bookings service")
	serverApp := app.NewApplication(cfg)
	publisher := serverApp.SetPublisher(kafkaCfg, ServiceName)

	bookingService := initServices(cfg, publisher)
	serverApp.SetApp(handler.NewBookingHandler(bookingService, cfg.Log))
	serverApp.Run()
}

func initServices(cfg *config.Config, publisher events.Publisher) service.BookingService {
	if cfg.BookingReferenceKey == "" {
		cfg.Log.Warn("BOOKING_REFERENCE_KEY not set, sealing references with the development key")
	}
	referenceSealer, err := sealer.New(cfg.BookingReferenceKey)
	if err != nil {
		cfg.Log.Fatal("Invalid booking reference key", "error", err)
	}

	lofts := client.NewLoftClient(cfg.LoftsServiceURL, ServiceName, cfg.GatewaySharedSecret)

	bookingValidator := validator.NewBookingValidator(cfg.Log, cfg.MaxStayNights)
	bookingRepo := repository.NewMongoBookingRepository(cfg)
	lockRepo := repository.NewBookingLockRepository(cfg)
	bookingService := service.NewBookingService(
		bookingRepo,
		lockRepo,
		lofts,
		referenceSealer,
		bookingValidator,
		publisher,
		clock.NewSystem(),
		cfg,
	)

	cfg.Log.Info("Booking service initialized",
		"database", cfg.MongoDatabaseName,
		"lofts_service", cfg.LoftsServiceURL,
	)
	return bookingService
}
