package rabbitmqrepo

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/corray333/backend-labs/dukan/internal/dal/rabbitmq"
	"github.com/corray333/backend-labs/dukan/internal/service/models/event"
	"github.com/streadway/amqp"
	"golang.org/x/sync/errgroup"
)

const (
	publishTimeout = 30 * time.Second
	publishLimit   = 3
)

type channel interface {
	Publish(exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
}

// EventRabbitMQRepository publishes order events to a topic exchange,
// routed by event type.
type EventRabbitMQRepository struct {
	channel  channel
	exchange string
}

// NewEventRabbitMQRepository declares the exchange and, when queue is not
// empty, a durable queue bound to every order event.
func NewEventRabbitMQRepository(client *rabbitmq.Client, exchange, queue string) *EventRabbitMQRepository {
	err := client.DeclareExchange(rabbitmq.DeclareExchangeConfig{
		Name:    exchange,
		Kind:    amqp.ExchangeTopic,
		Durable: true,
	})
	if err != nil {
		panic(err)
	}

	if queue != "" {
		q, err := client.DeclareQueue(rabbitmq.DeclareQueueConfig{
			Name:    queue,
			Durable: true,
		})
		if err != nil {
			panic(err)
		}
		if err := client.BindQueue(q.Name, "order.#", exchange); err != nil {
			panic(err)
		}
	}

	return newEventRepository(client.Channel(), exchange)
}

func newEventRepository(ch channel, exchange string) *EventRabbitMQRepository {
	return &EventRabbitMQRepository{
		channel:  ch,
		exchange: exchange,
	}
}

// Publish sends every event, at most three at a time. Publishing is detached
// from ctx cancellation so a finished request does not abort it.
func (r *EventRabbitMQRepository) Publish(ctx context.Context, events ...event.OrderEvent) error {
	publishCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), publishTimeout)
	defer cancel()
	g, gctx := errgroup.WithContext(publishCtx)
	g.SetLimit(publishLimit)

	for _, evt := range events {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}

			body, err := json.Marshal(evt)
			if err != nil {
				return fmt.Errorf("failed to encode event for order %s: %w", evt.OrderID, err)
			}

			err = r.channel.Publish(
				r.exchange,
				evt.RoutingKey(),
				false,
				false,
				amqp.Publishing{
					ContentType:  "application/json",
					DeliveryMode: amqp.Persistent,
					Timestamp:    evt.OccurredAt,
					Type:         string(evt.Type),
					Body:         body,
				},
			)
			if err != nil {
				return fmt.Errorf("failed to publish event for order %s: %w", evt.OrderID, err)
			}

			return nil
		})
	}

	return g.Wait()
}
