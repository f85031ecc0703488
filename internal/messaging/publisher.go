package messaging

import (
	"context"
	"encoding/json"
	"fmt"

	"address_book/internal/model"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"
)

// Publisher emits domain events to the message broker. Publication is
// fire-and-forget from the caller's perspective: a failure must never
// fail the operation that produced the event.
type Publisher interface {
	Publish(ctx context.Context, event model.UserEvent) error
}

// RabbitMQConfig holds broker connection and topology parameters
type RabbitMQConfig struct {
	URL        string
	Exchange   string
	Queue      string
	RoutingKey string
}

// RabbitMQPublisher publishes events to a direct exchange bound to a
// durable queue. It dials per publish so a broker outage never pins the
// service to a dead connection.
type RabbitMQPublisher struct {
	cfg    *RabbitMQConfig
	logger *zap.Logger
}

// NewRabbitMQPublisher creates a new RabbitMQPublisher
func NewRabbitMQPublisher(cfg *RabbitMQConfig, logger *zap.Logger) *RabbitMQPublisher {
	return &RabbitMQPublisher{cfg: cfg, logger: logger}
}

func (p *RabbitMQPublisher) Publish(ctx context.Context, event model.UserEvent) error {
	conn, err := amqp.Dial(p.cfg.URL)
	if err != nil {
		return fmt.Errorf("failed to connect to broker: %w", err)
	}
	defer conn.Close()

	ch, err := conn.Channel()
	if err != nil {
		return fmt.Errorf("failed to open channel: %w", err)
	}
	defer ch.Close()

	if err := declareTopology(ch, p.cfg); err != nil {
		return err
	}

	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	err = ch.PublishWithContext(ctx, p.cfg.Exchange, p.cfg.RoutingKey, false, false, amqp.Publishing{
		ContentType: "application/json",
		Body:        body,
	})
	if err != nil {
		return fmt.Errorf("failed to publish event: %w", err)
	}

	p.logger.Debug("published domain event",
		zap.String("event_type", event.EventType),
		zap.String("email", event.Email),
	)
	return nil
}

func declareTopology(ch *amqp.Channel, cfg *RabbitMQConfig) error {
	if err := ch.ExchangeDeclare(cfg.Exchange, "direct", true, false, false, false, nil); err != nil {
		return fmt.Errorf("failed to declare exchange: %w", err)
	}
	if _, err := ch.QueueDeclare(cfg.Queue, true, false, false, false, nil); err != nil {
		return fmt.Errorf("failed to declare queue: %w", err)
	}
	if err := ch.QueueBind(cfg.Queue, cfg.RoutingKey, cfg.Exchange, false, nil); err != nil {
		return fmt.Errorf("failed to bind queue: %w", err)
	}
	return nil
}
