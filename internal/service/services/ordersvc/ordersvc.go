package ordersvc

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"sync"

	"github.com/corray333/backend-labs/dukan/internal/clock"
	"github.com/corray333/backend-labs/dukan/internal/dal/interfaces/ieventpublisher"
	iorder "github.com/corray333/backend-labs/dukan/internal/dal/interfaces/iorderrepo"
	isettings "github.com/corray333/backend-labs/dukan/internal/dal/interfaces/isettingsrepo"
	"github.com/corray333/backend-labs/dukan/internal/service/models/event"
	"github.com/corray333/backend-labs/dukan/internal/service/models/order"
	"github.com/corray333/backend-labs/dukan/internal/service/models/orderitem"
	"github.com/corray333/backend-labs/dukan/internal/service/models/product"
	"github.com/corray333/backend-labs/dukan/internal/service/seed"
	"github.com/go-playground/validator/v10"
	"go.opentelemetry.io/otel"
)

var (
	ErrOrderNotFound     = errors.New("order not found")
	ErrDuplicateOrder    = errors.New("order id already exists")
	ErrInvalidOrder      = errors.New("invalid order")
	ErrOrderIDsExhausted = errors.New("no free order id left")
)

const (
	orderIDMin       = 1000
	orderIDMax       = 9999
	randomIDAttempts = 64
	orderIDPrefix    = "B2C-"
)

// StatusListener is called after a status change has been applied and written.
type StatusListener func(o order.Order, from, to order.Status)

// CreateListener is called after a new order has been added and written.
type CreateListener func(o order.Order)

type inventory interface {
	Product(id string) (product.Product, error)
	Deduct(ctx context.Context, deductions []product.Deduction) error
}

// OrderService owns the order list. All status changes go through
// UpdateStatus so the stock deduction on acceptance cannot be bypassed.
type OrderService struct {
	mu     sync.RWMutex
	orders []order.Order

	orderRepo    iorder.IOrderRepository
	settingsRepo isettings.ISettingsRepository
	inventory    inventory
	publisher    ieventpublisher.IEventPublisher
	clock        clock.Clock
	rand         *rand.Rand
	validate     *validator.Validate
	strict       bool

	statusListeners []StatusListener
	createListeners []CreateListener
}

// option is a function that configures the OrderService.
type option func(*OrderService)

// MustNewOrderService creates a new OrderService.
func MustNewOrderService(opts ...option) *OrderService {
	s := &OrderService{
		clock:    clock.Real(),
		rand:     rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64())),
		validate: validator.New(),
	}
	for _, opt := range opts {
		opt(s)
	}

	if s.orderRepo == nil {
		panic("order service requires an order repository")
	}
	if s.settingsRepo == nil {
		panic("order service requires a settings repository")
	}
	if s.inventory == nil {
		panic("order service requires an inventory")
	}

	return s
}

// WithOrderRepository sets the order repository for the OrderService.
//
//goland:noinspection GoExportedFuncWithUnexportedType
func WithOrderRepository(repo iorder.IOrderRepository) option {
	return func(s *OrderService) {
		s.orderRepo = repo
	}
}

// WithSettingsRepository sets where the onboarding flag is read from.
//
//goland:noinspection GoExportedFuncWithUnexportedType
func WithSettingsRepository(repo isettings.ISettingsRepository) option {
	return func(s *OrderService) {
		s.settingsRepo = repo
	}
}

// WithInventory sets the catalog that accepted orders deduct stock from.
//
//goland:noinspection GoExportedFuncWithUnexportedType
func WithInventory(inv inventory) option {
	return func(s *OrderService) {
		s.inventory = inv
	}
}

// WithEventPublisher sets where order events are published.
//
//goland:noinspection GoExportedFuncWithUnexportedType
func WithEventPublisher(publisher ieventpublisher.IEventPublisher) option {
	return func(s *OrderService) {
		s.publisher = publisher
	}
}

// WithClock sets the time source for order timestamps.
//
//goland:noinspection GoExportedFuncWithUnexportedType
func WithClock(c clock.Clock) option {
	return func(s *OrderService) {
		s.clock = c
	}
}

// WithRand sets the random source for order ids.
//
//goland:noinspection GoExportedFuncWithUnexportedType
func WithRand(r *rand.Rand) option {
	return func(s *OrderService) {
		s.rand = r
	}
}

// WithStrictTransitions rejects status changes the transition table does not allow.
//
//goland:noinspection GoExportedFuncWithUnexportedType
func WithStrictTransitions(strict bool) option {
	return func(s *OrderService) {
		s.strict = strict
	}
}

// OnStatusChange registers a listener for status changes.
func (s *OrderService) OnStatusChange(l StatusListener) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.statusListeners = append(s.statusListeners, l)
}

// OnCreate registers a listener for new orders.
func (s *OrderService) OnCreate(l CreateListener) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.createListeners = append(s.createListeners, l)
}

// Load reads the stored order list. Without a usable stored list a store
// that finished onboarding gets the starter history; a new store starts empty.
func (s *OrderService) Load(ctx context.Context) {
	orders, found, err := s.orderRepo.Load(ctx)
	if err != nil {
		slog.Error("Failed to load orders", "error", err)
	}

	if err != nil || !found {
		orders = []order.Order{}

		complete, err := s.settingsRepo.OnboardingComplete(ctx)
		if err != nil {
			slog.Error("Failed to read onboarding status", "error", err)
		}
		if complete {
			orders = seed.Orders(s.clock.Now())
		}
	}

	s.mu.Lock()
	s.orders = orders
	s.persistLocked(ctx)
	s.mu.Unlock()

	slog.Info("Orders loaded", "count", len(orders))
}

// Orders returns every order, newest first.
func (s *OrderService) Orders() []order.Order {
	return s.List(order.FilterAll)
}

// List returns the orders matching filter, newest first.
func (s *OrderService) List(filter order.Filter) []order.Order {
	s.mu.RLock()
	defer s.mu.RUnlock()

	orders := make([]order.Order, 0, len(s.orders))
	for _, o := range s.orders {
		if filter.Match(o) {
			orders = append(orders, o.Clone())
		}
	}

	return orders
}

func (s *OrderService) Order(id string) (order.Order, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	i := s.indexLocked(id)
	if i < 0 {
		return order.Order{}, ErrOrderNotFound
	}

	return s.orders[i].Clone(), nil
}

// NewOrderCount returns how many orders wait for a decision.
func (s *OrderService) NewOrderCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	count := 0
	for _, o := range s.orders {
		if o.Status == order.StatusNew {
			count++
		}
	}

	return count
}

// Add prepends o to the list. An empty id is replaced with a free
// B2C-#### id, an empty status with NEW and a zero timestamp with now.
func (s *OrderService) Add(ctx context.Context, o order.Order) (order.Order, error) {
	ctx, span := otel.Tracer("service").Start(ctx, "OrderService.Add")
	defer span.End()

	if len(o.Items) == 0 {
		return order.Order{}, fmt.Errorf("%w: order has no items", ErrInvalidOrder)
	}
	if o.Status == "" {
		o.Status = order.StatusNew
	}
	if !o.Status.Valid() {
		return order.Order{}, fmt.Errorf("%w: %q", order.ErrInvalidStatus, o.Status)
	}
	if o.Timestamp.IsZero() {
		o.Timestamp = s.clock.Now()
	}
	o = o.Clone()

	s.mu.Lock()
	if o.ID == "" {
		id, err := s.newIDLocked()
		if err != nil {
			s.mu.Unlock()

			return order.Order{}, err
		}
		o.ID = id
	} else if s.indexLocked(o.ID) >= 0 {
		s.mu.Unlock()

		return order.Order{}, fmt.Errorf("%w: %s", ErrDuplicateOrder, o.ID)
	}

	s.orders = append([]order.Order{o}, s.orders...)
	s.persistLocked(ctx)
	listeners := append([]CreateListener(nil), s.createListeners...)
	s.mu.Unlock()

	slog.Info("Order added", "order_id", o.ID, "items", len(o.Items), "total", o.Total.String())

	for _, l := range listeners {
		l(o.Clone())
	}
	s.publish(ctx, event.OrderEvent{
		Type:       event.TypeOrderCreated,
		OrderID:    o.ID,
		ToStatus:   o.Status,
		Order:      o.Clone(),
		OccurredAt: s.clock.Now(),
	})

	return o.Clone(), nil
}

// Create builds a NEW order from a manual intake, snapshotting item names
// and prices from the catalog.
func (s *OrderService) Create(ctx context.Context, in order.Intake) (order.Order, error) {
	if err := s.validate.Struct(in); err != nil {
		return order.Order{}, fmt.Errorf("%w: %w", ErrInvalidOrder, err)
	}

	items := make([]orderitem.OrderItem, 0, len(in.Items))
	for _, requested := range in.Items {
		p, err := s.inventory.Product(requested.ProductID)
		if err != nil {
			return order.Order{}, fmt.Errorf("%w: product %s: %w", ErrInvalidOrder, requested.ProductID, err)
		}
		items = append(items, orderitem.OrderItem{
			ProductID: p.ID,
			Name:      p.Name,
			Quantity:  requested.Quantity,
			Price:     p.Price,
		})
	}

	total, err := order.ComputeTotal(items)
	if err != nil {
		return order.Order{}, fmt.Errorf("%w: %w", ErrInvalidOrder, err)
	}

	return s.Add(ctx, order.Order{
		Customer:      in.Customer,
		Items:         items,
		Total:         total,
		PaymentMethod: in.PaymentMethod,
		Status:        order.StatusNew,
	})
}

// UpdateStatus moves an order to status. Accepting a NEW order deducts its
// items from stock first. The change is applied even when the stock write
// fails; that failure is returned alongside the updated order.
func (s *OrderService) UpdateStatus(
	ctx context.Context,
	orderID string,
	status order.Status,
) (order.Order, error) {
	ctx, span := otel.Tracer("service").Start(ctx, "OrderService.UpdateStatus")
	defer span.End()

	if !status.Valid() {
		return order.Order{}, fmt.Errorf("%w: %q", order.ErrInvalidStatus, status)
	}

	s.mu.Lock()
	i := s.indexLocked(orderID)
	if i < 0 {
		s.mu.Unlock()

		return order.Order{}, ErrOrderNotFound
	}

	from := s.orders[i].Status
	if s.strict && !from.CanTransitionTo(status) {
		s.mu.Unlock()

		return order.Order{}, order.ErrInvalidTransition{From: from, To: status}
	}

	var stockErr error
	if from == order.StatusNew && status == order.StatusPreparing {
		deductions := make([]product.Deduction, 0, len(s.orders[i].Items))
		for _, item := range s.orders[i].Items {
			deductions = append(deductions, product.Deduction{
				ProductID: item.ProductID,
				Quantity:  item.Quantity,
			})
		}
		if err := s.inventory.Deduct(ctx, deductions); err != nil {
			slog.Error("Failed to deduct stock", "order_id", orderID, "error", err)
			stockErr = err
		}
	}

	next := append([]order.Order(nil), s.orders...)
	next[i].Status = status
	s.orders = next
	updated := next[i].Clone()
	s.persistLocked(ctx)
	listeners := append([]StatusListener(nil), s.statusListeners...)
	s.mu.Unlock()

	slog.Info("Order status updated", "order_id", orderID, "from", from, "to", status)

	for _, l := range listeners {
		l(updated.Clone(), from, status)
	}
	s.publish(ctx, event.OrderEvent{
		Type:       event.TypeOrderStatusChanged,
		OrderID:    orderID,
		FromStatus: from,
		ToStatus:   status,
		Order:      updated.Clone(),
		OccurredAt: s.clock.Now(),
	})

	return updated, stockErr
}

// persistLocked writes the list. Failures are logged only; memory stays
// authoritative.
func (s *OrderService) persistLocked(ctx context.Context) {
	if err := s.orderRepo.Save(ctx, s.orders); err != nil {
		slog.Error("Failed to persist orders", "count", len(s.orders), "error", err)
	}
}

func (s *OrderService) publish(ctx context.Context, evt event.OrderEvent) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.Publish(ctx, evt); err != nil {
		slog.Error("Failed to publish order event", "order_id", evt.OrderID, "type", evt.Type, "error", err)
	}
}

func (s *OrderService) indexLocked(id string) int {
	for i, o := range s.orders {
		if o.ID == id {
			return i
		}
	}

	return -1
}

// newIDLocked draws random ids first and scans for a free one only when
// the id space is crowded.
func (s *OrderService) newIDLocked() (string, error) {
	for range randomIDAttempts {
		id := formatOrderID(orderIDMin + s.rand.IntN(orderIDMax-orderIDMin+1))
		if s.indexLocked(id) < 0 {
			return id, nil
		}
	}

	for n := orderIDMin; n <= orderIDMax; n++ {
		id := formatOrderID(n)
		if s.indexLocked(id) < 0 {
			return id, nil
		}
	}

	return "", ErrOrderIDsExhausted
}

func formatOrderID(n int) string {
	return fmt.Sprintf("%s%d", orderIDPrefix, n)
}
