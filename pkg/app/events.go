package app

import (
	"loftalgerie/pkg/events"
	"loftalgerie/pkg/kafka"
	kafka_config "loftalgerie/pkg/kafka/config"
	kafka_middleware "loftalgerie/pkg/kafka/middleware"
)

// SetPublisher builds the domain event publisher for the service. With Kafka
// disabled events are dropped through a NopPublisher.
func (a *Application) SetPublisher(kcfg *kafka_config.Config, source string) events.Publisher {
	if !kcfg.Enabled() {
		return events.NopPublisher{}
	}

	producer, err := kafka.NewProducer(kcfg, a.cfg.DomainEventsTopic, a.cfg.DomainEventsDLQTopic, a.cfg.Log)
	if err != nil {
		a.cfg.Log.Fatal("Failed to create Kafka producer", "error", err)
	}
	if kcfg.EnableMiddleware {
		producer.Use(kafka_middleware.LoggingProducerMiddleware(a.cfg.Log))
		producer.Use(kafka_middleware.MetricsProducerMiddleware())
	}

	a.AddCloser("kafka-producer", producer.Close)
	a.cfg.Log.Info("Domain events publisher configured", "topic", a.cfg.DomainEventsTopic)
	return events.NewKafkaPublisher(producer, source)
}

// AddEventConsumer subscribes handler to the domain events topic under the
// given consumer group. It does nothing when Kafka is disabled.
func (a *Application) AddEventConsumer(kcfg *kafka_config.Config, groupID string, handler kafka.MessageHandler) {
	if !kcfg.Enabled() {
		a.cfg.Log.Warn("Kafka disabled, event consumer not started", "group_id", groupID)
		return
	}

	consumer, err := kafka.NewConsumer(kcfg, a.cfg.DomainEventsTopic, groupID, a.cfg.DomainEventsDLQTopic, handler, a.cfg.Log)
	if err != nil {
		a.cfg.Log.Fatal("Failed to create Kafka consumer", "group_id", groupID, "error", err)
	}
	if kcfg.EnableMiddleware {
		consumer.Use(kafka_middleware.LoggingConsumerMiddleware(a.cfg.Log))
		consumer.Use(kafka_middleware.MetricsConsumerMiddleware())
	}

	a.AddWorker(groupID, consumer)
}
