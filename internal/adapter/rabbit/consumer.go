package rabbit

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/tanker-union/fleet-system/internal/domain/models"
	"github.com/tanker-union/fleet-system/pkg/logger"
	wrap "github.com/tanker-union/fleet-system/pkg/logger/wrapper"
	"github.com/tanker-union/fleet-system/pkg/metrics"
	"github.com/tanker-union/fleet-system/pkg/rabbit"
)

type ChangeConsumer struct {
	client *rabbit.RabbitMQ
	l      logger.Logger
}

func NewChangeConsumer(client *rabbit.RabbitMQ, l logger.Logger) *ChangeConsumer {
	return &ChangeConsumer{client: client, l: l}
}

type ChangeHandler func(ctx context.Context, event models.ChangeEvent)

// declareAndBindQueue declares the change feed queue and binds it to the exchange.
func (c *ChangeConsumer) declareAndBindQueue(ctx context.Context, queueName, bindingKey, exchangeName string) (amqp.Queue, error) {
	const op = "ChangeConsumer.declareAndBindQueue"

	q, err := c.client.Channel.QueueDeclare(queueName, true, false, false, false, nil)
	if err != nil {
		return q, wrap.Error(ctx, fmt.Errorf("%s: declare queue failed: %w", op, err))
	}

	if err := c.client.Channel.QueueBind(q.Name, bindingKey, exchangeName, false, nil); err != nil {
		return q, wrap.Error(ctx, fmt.Errorf("%s: bind queue failed: %w", op, err))
	}

	return q, nil
}

func (c *ChangeConsumer) handleMessage(ctx context.Context, fn ChangeHandler, msg amqp.Delivery) {
	const op = "ChangeConsumer.handleMessage"

	var event models.ChangeEvent
	if err := json.Unmarshal(msg.Body, &event); err != nil {
		c.l.Error(ctx, "decode failed", err, "op", op)
		metrics.RecordRabbitMQConsume("fleet", QueueChangeFeed, err)
		_ = msg.Nack(false, false)
		return
	}

	// The handler only fans out to websocket clients, it cannot fail.
	fn(ctx, event)
	metrics.RecordRabbitMQConsume("fleet", QueueChangeFeed, nil)

	if err := msg.Ack(false); err != nil {
		c.l.Warn(ctx, "ack failed", "error", err, "op", op)
	}
}

// Consume listens for changed.* events and passes them to fn. It blocks until
// ctx is cancelled, reconnecting on broker failures.
func (c *ChangeConsumer) Consume(ctx context.Context, fn ChangeHandler) error {
	const op = "ChangeConsumer.Consume"

	for {
		if ctx.Err() != nil {
			c.l.Debug(ctx, "consume change events stopped by context")
			return nil
		}

		if err := c.client.EnsureConnection(ctx); err != nil {
			c.l.Error(ctx, "ensure connection failed", err, "op", op)
			time.Sleep(2 * time.Second)
			continue
		}

		if err := c.client.Channel.ExchangeDeclare(ChangeExchange, "topic", true, false, false, false, nil); err != nil {
			c.l.Error(ctx, "declare exchange failed", err, "op", op)
			time.Sleep(3 * time.Second)
			continue
		}

		q, err := c.declareAndBindQueue(ctx, QueueChangeFeed, "changed.*", ChangeExchange)
		if err != nil {
			c.l.Error(ctx, "declare queue failed", err, "op", op)
			time.Sleep(2 * time.Second)
			continue
		}

		msgs, err := c.client.Channel.Consume(q.Name, "", false, false, false, false, nil)
		if err != nil {
			c.l.Error(ctx, "consume failed", err, "op", op)
			time.Sleep(2 * time.Second)
			continue
		}

		c.l.Info(ctx, "start consuming change events", "queue", q.Name)

		if done := c.drain(ctx, fn, msgs); done {
			c.l.Info(ctx, "change event consumer shutting down", "op", op)
			return nil
		}

		// The broker closed the delivery channel; go back to the top of the
		// loop to reconnect and redeclare.
		c.l.Warn(ctx, "message channel closed, reconnecting...", "op", op)
		time.Sleep(2 * time.Second)
	}
}

// drain dispatches deliveries until ctx is cancelled or the broker closes the
// delivery channel. It reports true on cancellation and false when the
// channel closed and the caller must reconnect.
func (c *ChangeConsumer) drain(ctx context.Context, fn ChangeHandler, msgs <-chan amqp.Delivery) bool {
	for {
		select {
		case <-ctx.Done():
			return true

		case msg, ok := <-msgs:
			if !ok {
				return false
			}
			go c.handleMessage(ctx, fn, msg)
		}
	}
}
