package logrepo

import (
	"context"
	"log/slog"

	"github.com/corray333/backend-labs/dukan/internal/service/models/event"
)

// EventLogRepository writes order events to the log. It stands in for the
// broker when rabbitmq.enabled is false.
type EventLogRepository struct {
	log *slog.Logger
}

func NewEventLogRepository(log *slog.Logger) *EventLogRepository {
	if log == nil {
		log = slog.Default()
	}

	return &EventLogRepository{
		log: log,
	}
}

func (r *EventLogRepository) Publish(ctx context.Context, events ...event.OrderEvent) error {
	for _, evt := range events {
		r.log.InfoContext(ctx, "Order event",
			"type", evt.Type,
			"order_id", evt.OrderID,
			"from_status", evt.FromStatus,
			"to_status", evt.ToStatus,
		)
	}

	return nil
}
