package main

import (
	bookingshandler "sharely/internal/bookings/handler"
	bookingsrepo "sharely/internal/bookings/repository"
	bookingsservice "sharely/internal/bookings/service"
	bookingsvalidator "sharely/internal/bookings/validator"
	itemshandler "sharely/internal/items/handler"
	itemsrepo "sharely/internal/items/repository"
	itemsservice "sharely/internal/items/service"
	itemsvalidator "sharely/internal/items/validator"
	requestshandler "sharely/internal/requests/handler"
	requestsrepo "sharely/internal/requests/repository"
	requestsservice "sharely/internal/requests/service"
	requestsvalidator "sharely/internal/requests/validator"
	usershandler "sharely/internal/users/handler"
	usersrepo "sharely/internal/users/repository"
	usersservice "sharely/internal/users/service"
	usersvalidator "sharely/internal/users/validator"
	"sharely/pkg/app"
	"sharely/pkg/config"
	"sharely/pkg/events"
	"sharely/pkg/kafka"
	kafka_config "sharely/pkg/kafka/config"
	kafka_middleware "sharely/pkg/kafka/middleware"
)

const ServiceName = "server"

func main() {
	cfg := config.Load(ServiceName)

	if err := cfg.Validate(); err != nil {
		cfg.Log.Fatal("Invalid configuration", "error", err)
	}
	cfg.LogConfiguration()

	cfg.Log.Info("Starting Sharely server")
	cfg.SetMongo()
	defer cfg.GracefulShutdown()

	publisher := initPublisher(cfg)
	defer func() {
		if err := publisher.Close(); err != nil {
			cfg.Log.Error("Failed to close event publisher", "error", err)
		}
	}()

	userRepo := usersrepo.NewMongoUserRepository(cfg)
	itemRepo := itemsrepo.NewMongoItemRepository(cfg)
	bookingRepo := bookingsrepo.NewMongoBookingRepository(cfg)
	requestRepo := requestsrepo.NewMongoRequestRepository(cfg)

	userService := usersservice.NewUserService(userRepo, usersvalidator.NewUserValidator(cfg.Log), cfg)
	itemService := itemsservice.NewItemService(itemRepo, userRepo, itemsvalidator.NewItemValidator(cfg.Log), cfg)
	bookingService := bookingsservice.NewBookingService(
		bookingRepo,
		itemRepo,
		userRepo,
		bookingsvalidator.NewBookingValidator(cfg.Log),
		publisher,
		cfg,
	)
	requestService := requestsservice.NewRequestService(requestRepo, itemRepo, userRepo, requestsvalidator.NewRequestValidator(cfg.Log), cfg)

	cfg.Log.Info("Domain services initialized", "database", cfg.MongoDatabaseName)

	serverApp := app.NewApplication()
	serverApp.SetApp(cfg,
		usershandler.NewUserHandler(userService, cfg.Log),
		itemshandler.NewItemHandler(itemService, cfg.Log),
		bookingshandler.NewBookingHandler(bookingService, cfg.Log),
		requestshandler.NewRequestHandler(requestService, cfg.Log),
	)
	serverApp.Run()
}

func initPublisher(cfg *config.Config) events.Publisher {
	if !cfg.KafkaEnabled {
		cfg.Log.Info("Kafka disabled, booking events will be dropped")
		return events.NopPublisher{}
	}

	kafkaCfg := kafka_config.Load()
	if err := kafkaCfg.Validate(); err != nil {
		cfg.Log.Fatal("Invalid Kafka configuration", "error", err)
	}
	kafkaCfg.LogConfiguration(cfg.Log.Info)

	producer, err := kafka.NewProducer(kafkaCfg, cfg.BookingEventsTopic, cfg.BookingEventsDLQTopic)
	if err != nil {
		cfg.Log.Fatal("Failed to create Kafka producer", "error", err)
	}
	producer.Use(kafka_middleware.LoggingProducerMiddleware(cfg.Log))

	cfg.Log.Info("Kafka event publisher initialized", "topic", cfg.BookingEventsTopic)
	return events.NewKafkaPublisher(producer, ServiceName)
}
