package event

import (
	"time"

	"github.com/corray333/backend-labs/dukan/internal/service/models/order"
)

// Type names the kind of order event.
type Type string

const (
	TypeOrderCreated       Type = "order.created"
	TypeOrderStatusChanged Type = "order.status_changed"
)

// OrderEvent is published whenever an order is created or changes status.
type OrderEvent struct {
	Type       Type         `json:"type"`
	OrderID    string       `json:"order_id"`
	FromStatus order.Status `json:"from_status,omitempty"`
	ToStatus   order.Status `json:"to_status"`
	Order      order.Order  `json:"order"`
	OccurredAt time.Time    `json:"occurred_at"`
}

// RoutingKey is the AMQP routing key for the event.
func (e OrderEvent) RoutingKey() string {
	return string(e.Type)
}
