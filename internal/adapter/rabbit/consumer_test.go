package rabbit

import (
	"context"
	"testing"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/tanker-union/fleet-system/internal/domain/models"
	"github.com/tanker-union/fleet-system/pkg/logger"
)

func testConsumer() *ChangeConsumer {
	return NewChangeConsumer(nil, logger.InitLogger("test", logger.LevelError))
}

func TestDrain_ClosedChannelRequestsReconnect(t *testing.T) {
	c := testConsumer()

	msgs := make(chan amqp.Delivery)
	close(msgs)

	done := make(chan bool, 1)
	go func() {
		done <- c.drain(context.Background(), func(ctx context.Context, event models.ChangeEvent) {}, msgs)
	}()

	select {
	case cancelled := <-done:
		if cancelled {
			t.Fatal("closed delivery channel must request a reconnect, not a shutdown")
		}
	case <-time.After(time.Second):
		t.Fatal("drain should return promptly when the broker closes the channel")
	}
}

func TestDrain_ContextCancelShutsDown(t *testing.T) {
	c := testConsumer()

	ctx, cancel := context.WithCancel(context.Background())
	msgs := make(chan amqp.Delivery)

	done := make(chan bool, 1)
	go func() {
		done <- c.drain(ctx, func(ctx context.Context, event models.ChangeEvent) {}, msgs)
	}()

	cancel()

	select {
	case cancelled := <-done:
		if !cancelled {
			t.Fatal("cancellation must shut the consumer down")
		}
	case <-time.After(time.Second):
		t.Fatal("drain should return promptly on cancellation")
	}
}

func TestDrain_DispatchesDeliveries(t *testing.T) {
	c := testConsumer()

	msgs := make(chan amqp.Delivery, 1)
	events := make(chan models.ChangeEvent, 1)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go c.drain(ctx, func(ctx context.Context, event models.ChangeEvent) {
		events <- event
	}, msgs)

	msgs <- amqp.Delivery{Body: []byte(`{"kind":"trips","action":"created"}`)}

	select {
	case event := <-events:
		if event.Kind != "trips" || event.Action != "created" {
			t.Fatalf("unexpected event: %+v", event)
		}
	case <-time.After(time.Second):
		t.Fatal("delivery was not handed to the change handler")
	}
}
