package kvrepo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/corray333/backend-labs/dukan/internal/dal/interfaces/ikvstore"
	"github.com/corray333/backend-labs/dukan/internal/service/models/order"
)

// OrdersKey is where the order list is stored.
const OrdersKey = "dukan-orders"

// OrderRepository stores the whole order list as one JSON array.
type OrderRepository struct {
	store ikvstore.IKVStore
}

func NewOrderRepository(store ikvstore.IKVStore) *OrderRepository {
	return &OrderRepository{
		store: store,
	}
}

// Load reads the stored order list.
func (r *OrderRepository) Load(ctx context.Context) ([]order.Order, bool, error) {
	data, err := r.store.Get(ctx, OrdersKey)
	if errors.Is(err, ikvstore.ErrNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to read orders: %w", err)
	}

	var orders []order.Order
	if err := json.Unmarshal(data, &orders); err != nil {
		return nil, true, fmt.Errorf("failed to decode orders: %w", err)
	}
	if orders == nil {
		// "null" is not a list
		return nil, true, fmt.Errorf("failed to decode orders: stored value is not an array")
	}

	return orders, true, nil
}

// Save overwrites the stored order list.
func (r *OrderRepository) Save(ctx context.Context, orders []order.Order) error {
	if orders == nil {
		orders = []order.Order{}
	}

	data, err := json.Marshal(orders)
	if err != nil {
		return fmt.Errorf("failed to encode orders: %w", err)
	}

	if err := r.store.Set(ctx, OrdersKey, data); err != nil {
		return fmt.Errorf("failed to write orders: %w", err)
	}

	return nil
}
