package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"sharely/pkg/config"
	"sharely/pkg/events"
	"sharely/pkg/kafka"
	kafka_config "sharely/pkg/kafka/config"
	kafka_middleware "sharely/pkg/kafka/middleware"
)

const (
	ServiceName   = "notifier"
	consumerGroup = "sharely-notifier"
)

func main() {
	cfg := config.Load(ServiceName)

	if err := cfg.Validate(); err != nil {
		cfg.Log.Fatal("Invalid configuration", "error", err)
	}
	cfg.LogConfiguration()

	kafkaCfg := kafka_config.Load()
	if err := kafkaCfg.Validate(); err != nil {
		cfg.Log.Fatal("Invalid Kafka configuration", "error", err)
	}
	kafkaCfg.LogConfiguration(cfg.Log.Info)

	consumer, err := kafka.NewConsumer(
		kafkaCfg,
		cfg.BookingEventsTopic,
		consumerGroup,
		cfg.BookingEventsDLQTopic,
		notifyHandler(cfg),
	)
	if err != nil {
		cfg.Log.Fatal("Failed to create Kafka consumer", "error", err)
	}
	consumer.Use(kafka_middleware.LoggingConsumerMiddleware(cfg.Log))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)
	go func() {
		sig := <-shutdown
		cfg.Log.Info("Shutdown signal received", "signal", sig)
		cancel()
	}()

	cfg.Log.Info("Starting notifier", "topic", cfg.BookingEventsTopic, "group", consumerGroup)
	if err := consumer.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
		cfg.Log.Error("Consumer stopped with error", "error", err)
	}

	if err := consumer.Close(); err != nil {
		cfg.Log.Error("Failed to close consumer", "error", err)
	}
	cfg.Log.Info("Notifier stopped")
}

// notifyHandler is where a real channel (mail, push) would hang off. For now
// each event becomes a structured log line per interested party.
func notifyHandler(cfg *config.Config) kafka.MessageHandler {
	return func(ctx context.Context, msg kafka.Message) error {
		var event events.BookingEvent
		if err := msg.DecodeValue(&event); err != nil {
			return kafka.Permanent("decode booking event", err)
		}

		switch msg.GetEventType() {
		case events.TypeBookingCreated:
			cfg.Log.Info("Notify owner: new booking request",
				"booking_id", event.BookingID,
				"item_id", event.ItemID,
				"owner_id", event.OwnerID,
				"start", event.Start,
				"end", event.End,
			)
		case events.TypeBookingApproved, events.TypeBookingRejected:
			cfg.Log.Info("Notify booker: booking decided",
				"booking_id", event.BookingID,
				"booker_id", event.BookerID,
				"status", event.Status,
			)
		default:
			cfg.Log.Warn("Unknown booking event type", "type", msg.GetEventType(), "booking_id", event.BookingID)
		}

		return nil
	}
}
