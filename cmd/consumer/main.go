package main

import (
	"context"
	"errors"
	"log"
	"os/signal"
	"syscall"

	"address_book/internal/config"
	"address_book/internal/messaging"
	"address_book/internal/model"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found or error loading, relying on environment variables")
	}

	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	rabbitCfg := config.LoadRabbitMQConfig()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	err = messaging.Consume(ctx, rabbitCfg, logger, func(event model.UserEvent) {
		logger.Info("domain event received",
			zap.String("event_type", event.EventType),
			zap.String("first_name", event.FirstName),
			zap.String("last_name", event.LastName),
			zap.String("email", event.Email),
		)
	})
	if err != nil && !errors.Is(err, context.Canceled) {
		logger.Fatal("consumer stopped", zap.Error(err))
	}

	logger.Info("consumer exiting")
}
