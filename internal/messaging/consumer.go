package messaging

import (
	"context"
	"encoding/json"
	"fmt"

	"address_book/internal/model"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"
)

// Consume reads domain events from the queue and hands each decoded event
// to handler. It blocks until ctx is cancelled or the connection drops.
func Consume(ctx context.Context, cfg *RabbitMQConfig, logger *zap.Logger, handler func(model.UserEvent)) error {
	conn, err := amqp.Dial(cfg.URL)
	if err != nil {
		return fmt.Errorf("failed to connect to broker: %w", err)
	}
	defer conn.Close()

	ch, err := conn.Channel()
	if err != nil {
		return fmt.Errorf("failed to open channel: %w", err)
	}
	defer ch.Close()

	if err := declareTopology(ch, cfg); err != nil {
		return err
	}

	deliveries, err := ch.Consume(cfg.Queue, "", true, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("failed to start consumer: %w", err)
	}

	logger.Info("listening for domain events", zap.String("queue", cfg.Queue))

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case d, ok := <-deliveries:
			if !ok {
				return fmt.Errorf("delivery channel closed")
			}
			var event model.UserEvent
			if err := json.Unmarshal(d.Body, &event); err != nil {
				logger.Warn("failed to decode event", zap.Error(err))
				continue
			}
			handler(event)
		}
	}
}
