package rabbit

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/rabbitmq/amqp091-go"

	"github.com/tanker-union/fleet-system/internal/domain/models"
	"github.com/tanker-union/fleet-system/pkg/logger"
	wrap "github.com/tanker-union/fleet-system/pkg/logger/wrapper"
	"github.com/tanker-union/fleet-system/pkg/metrics"
	"github.com/tanker-union/fleet-system/pkg/rabbit"
)

const (
	ChangeExchange = "fleet_changes"

	QueueChangeFeed = "fleet_change_feed"
)

// ChangeNotifier publishes change events after roster and trip mutations so
// that connected dashboards can refresh without polling.
type ChangeNotifier struct {
	client   *rabbit.RabbitMQ
	exchange string

	l logger.Logger
}

func NewChangeNotifier(client *rabbit.RabbitMQ, log logger.Logger) *ChangeNotifier {
	return &ChangeNotifier{
		client:   client,
		exchange: ChangeExchange,

		l: log,
	}
}

// Notify publishes a change event to the 'fleet_changes' exchange with the
// routing key 'changed.{kind}'.
func (n *ChangeNotifier) Notify(ctx context.Context, event models.ChangeEvent) error {
	ctx = wrap.WithAction(ctx, "rabbitmq_publish_change")

	if err := n.client.EnsureConnection(ctx); err != nil {
		n.l.Error(ctx, "ensure connection failed", err)
		metrics.RecordRabbitMQPublish("fleet", n.exchange, err)
		return wrap.Error(ctx, err)
	}

	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}

	body, err := json.Marshal(event)
	if err != nil {
		return wrap.Error(ctx, fmt.Errorf("failed to marshal message: %w", err))
	}

	key := fmt.Sprintf("changed.%s", event.Kind)

	err = retry(5, time.Second, func() error {
		return n.client.Channel.PublishWithContext(
			ctx,
			n.exchange, // exchange
			key,        // routing key
			false,      // mandatory
			false,      // immediate
			amqp091.Publishing{
				ContentType: "application/json",
				Body:        body,
				Timestamp:   event.Timestamp,
			},
		)
	})
	metrics.RecordRabbitMQPublish("fleet", n.exchange, err)
	if err != nil {
		return wrap.Error(ctx, fmt.Errorf("failed to publish with context: %w", err))
	}

	return nil
}

func retry(n int, sleep time.Duration, fn func() error) error {
	var err error
	for range n {
		if err = fn(); err == nil {
			return nil
		}
		time.Sleep(sleep)
	}
	return err
}
