package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"go-recruitment-crm/config"
	"go-recruitment-crm/internal/repository/postgres"
	"go-recruitment-crm/internal/usecase"
	"go-recruitment-crm/internal/worker"
	"go-recruitment-crm/pkg/database"
	"go-recruitment-crm/pkg/email"
	"go-recruitment-crm/pkg/logger"
	"go-recruitment-crm/pkg/mq"
)

// The worker consumes domain events from RabbitMQ and sends notification mail.
func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	logger.Init(cfg.LogLevel)

	if cfg.RabbitMQURL == "" {
		logger.Log.Error("RABBITMQ_URL is required for the worker")
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	dbPool, err := database.NewPostgresConnection(ctx, cfg.DBUrl)
	if err != nil {
		logger.Log.Error("Failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer dbPool.Close()

	emailService := email.NewEmailService(cfg)
	if !emailService.IsConfigured() {
		logger.Log.Warn("Email service not fully configured - notifications will be skipped")
	}

	notificationUC := usecase.NewNotificationUsecase(
		postgres.NewUserRepository(dbPool),
		postgres.NewCandidateRepository(dbPool),
		postgres.NewJobRepository(dbPool),
		emailService,
	)

	consumer, err := mq.NewConsumer(mq.ConsumerConfig{
		URL:      cfg.RabbitMQURL,
		Exchange: cfg.EventsExchange,
		Queue:    cfg.NotificationsQueue,
		Bindings: worker.Bindings,
		DLXName:  cfg.EventsExchange + ".dlx",
		Tag:      cfg.ServiceName + "-worker",
	})
	if err != nil {
		logger.Log.Error("Failed to start consumer", "error", err)
		os.Exit(1)
	}
	defer consumer.Close()

	logger.Log.Info("Worker started", "queue", cfg.NotificationsQueue, "bindings", worker.Bindings)
	if err := consumer.Run(ctx, worker.NewNotificationConsumer(notificationUC).HandlerFunc()); err != nil {
		logger.Log.Error("Consumer stopped", "error", err)
		os.Exit(1)
	}
	logger.Log.Info("Worker exiting")
}
