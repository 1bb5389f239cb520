package main

import (
	"loftalgerie/internal/lofts/handler"
	"loftalgerie/internal/lofts/repository"
	"loftalgerie/internal/lofts/service"
	"loftalgerie/internal/lofts/validator"
	"loftalgerie/pkg/app"
	"loftalgerie/pkg/clock"
	"loftalgerie/pkg/config"
	"loftalgerie/pkg/events"
	kafka_config "loftalgerie/pkg/kafka/config"
)

const ServiceName = "lofts"

func main() {
	cfg := config.Load(ServiceName)
	cfg.SetMongo()
	kafkaCfg := kafka_config.Load(cfg.Log)

	cfg.Log.Info("Starting Lofts service")
	serverApp := app.NewApplication(cfg)
	publisher := serverApp.SetPublisher(kafkaCfg, ServiceName)

	loftService, ownerService := initServices(cfg, publisher)
	serverApp.SetApp(
		handler.NewLoftHandler(loftService, cfg.Log),
		handler.NewOwnerHandler(ownerService, cfg.Log),
	)
	serverApp.Run()
}

func initServices(cfg *config.Config, publisher events.Publisher) (service.LoftService, service.OwnerService) {
	loftValidator := validator.NewLoftValidator(cfg.Log)
	loftRepo := repository.NewMongoLoftRepository(cfg)
	ownerRepo := repository.NewMongoOwnerRepository(cfg)
	bookingLookup := repository.NewMongoBookingLookup(cfg)

	loftService := service.NewLoftService(
		loftRepo,
		ownerRepo,
		bookingLookup,
		loftValidator,
		publisher,
		clock.NewSystem(),
		cfg,
	)
	ownerService := service.NewOwnerService(
		ownerRepo,
		loftRepo,
		loftValidator,
		publisher,
		cfg,
	)

	cfg.Log.Info("Loft services initialized", "database", cfg.MongoDatabaseName)
	return loftService, ownerService
}
