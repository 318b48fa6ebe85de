package ieventpublisher

import (
	"context"

	"github.com/corray333/backend-labs/dukan/internal/service/models/event"
)

// IEventPublisher is interface for order event publishers.
type IEventPublisher interface {
	Publish(ctx context.Context, events ...event.OrderEvent) error
}
