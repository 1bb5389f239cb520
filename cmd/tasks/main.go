package main

import (
	"loftalgerie/internal/tasks/handler"
	"loftalgerie/internal/tasks/repository"
	"loftalgerie/internal/tasks/service"
	"loftalgerie/internal/tasks/validator"
	"loftalgerie/pkg/app"
	"loftalgerie/pkg/config"
	"loftalgerie/pkg/events"
	kafka_config "loftalgerie/pkg/kafka/config"
)

const ServiceName = "tasks"

func main() {
	cfg := config.Load(ServiceName)
	cfg.SetMongo()
	kafkaCfg := kafka_config.Load(cfg.Log)

	cfg.Log.Info("Starting Tasks service")
	serverApp := app.NewApplication(cfg)
	publisher := serverApp.SetPublisher(kafkaCfg, ServiceName)

	taskService := initServices(cfg, publisher)
	serverApp.SetApp(handler.NewTaskHandler(taskService, cfg.Log))
	serverApp.Run()
}

func initServices(cfg *config.Config, publisher events.Publisher) service.TaskService {
	taskValidator := validator.NewTaskValidator(cfg.Log)
	taskRepo := repository.NewMongoTaskRepository(cfg)
	taskService := service.NewTaskService(taskRepo, taskValidator, publisher, cfg)

	cfg.Log.Info("Task service initialized", "database", cfg.MongoDatabaseName)
	return taskService
}
