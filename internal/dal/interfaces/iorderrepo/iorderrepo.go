package iorder

import (
	"context"

	"github.com/corray333/backend-labs/dukan/internal/service/models/order"
)

// IOrderRepository is an interface for the persisted order list.
type IOrderRepository interface {
	// Load returns the stored list. found is false when nothing has been stored yet.
	Load(ctx context.Context) (orders []order.Order, found bool, err error)
	// Save overwrites the stored list.
	Save(ctx context.Context, orders []order.Order) error
}
