package countdownsvc

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/corray333/backend-labs/dukan/internal/clock"
	"github.com/corray333/backend-labs/dukan/internal/service/models/order"
)

const (
	// TickInterval is how often the remaining time is updated.
	TickInterval = 100 * time.Millisecond
	// TotalTicks makes up the 60 second decision window.
	TotalTicks = 600
)

// Views that can present a NEW order. Each view of an order runs its own
// countdown.
const (
	ViewPopup   = "popup"
	ViewDetails = "details"
)

var (
	ErrNotPending  = errors.New("order is not awaiting a decision")
	ErrInvalidView = errors.New("invalid view")
)

type orders interface {
	Order(id string) (order.Order, error)
	UpdateStatus(ctx context.Context, orderID string, status order.Status) (order.Order, error)
}

type viewKey struct {
	orderID string
	view    string
}

type countdown struct {
	remaining int
	timer     *clock.Timer
}

// CountdownService rejects NEW orders nobody acted on within the decision
// window. There is at most one countdown per order and view.
type CountdownService struct {
	mu         sync.Mutex
	clock      clock.Clock
	orders     orders
	countdowns map[viewKey]*countdown
}

// option is a function that configures the CountdownService.
type option func(*CountdownService)

// MustNewCountdownService creates a new CountdownService.
func MustNewCountdownService(opts ...option) *CountdownService {
	s := &CountdownService{
		clock:      clock.Real(),
		countdowns: make(map[viewKey]*countdown),
	}
	for _, opt := range opts {
		opt(s)
	}

	if s.orders == nil {
		panic("countdown service requires an order service")
	}

	return s
}

// WithOrderService sets the orders the countdowns act on.
//
//goland:noinspection GoExportedFuncWithUnexportedType
func WithOrderService(o orders) option {
	return func(s *CountdownService) {
		s.orders = o
	}
}

// WithClock sets the time source.
//
//goland:noinspection GoExportedFuncWithUnexportedType
func WithClock(c clock.Clock) option {
	return func(s *CountdownService) {
		s.clock = c
	}
}

// Start begins a full countdown for a NEW order shown in view, replacing
// any running one for the same view.
func (s *CountdownService) Start(orderID, view string) error {
	if view == "" {
		return ErrInvalidView
	}
	o, err := s.orders.Order(orderID)
	if err != nil {
		return err
	}
	if o.Status != order.StatusNew {
		return ErrNotPending
	}

	key := viewKey{orderID: orderID, view: view}

	s.mu.Lock()
	defer s.mu.Unlock()

	if existing, ok := s.countdowns[key]; ok {
		existing.timer.Stop()
	}

	cd := &countdown{remaining: TotalTicks}
	s.countdowns[key] = cd
	s.scheduleLocked(key, cd)

	slog.Debug("Countdown started", "order_id", orderID, "view", view)

	return nil
}

// Cancel stops the countdown of orderID in view. Other views of the same
// order keep running. It reports whether one was running.
func (s *CountdownService) Cancel(orderID, view string) bool {
	key := viewKey{orderID: orderID, view: view}

	s.mu.Lock()
	defer s.mu.Unlock()

	cd, ok := s.countdowns[key]
	if !ok {
		return false
	}
	cd.timer.Stop()
	delete(s.countdowns, key)

	slog.Debug("Countdown cancelled", "order_id", orderID, "view", view)

	return true
}

// Remaining returns the ticks left for orderID in view.
func (s *CountdownService) Remaining(orderID, view string) (int, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cd, ok := s.countdowns[viewKey{orderID: orderID, view: view}]
	if !ok {
		return 0, false
	}

	return cd.remaining, true
}

// HandleStatusChange cancels every countdown of an order that left NEW.
func (s *CountdownService) HandleStatusChange(o order.Order, _, to order.Status) {
	if to == order.StatusNew {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for key, cd := range s.countdowns {
		if key.orderID == o.ID {
			cd.timer.Stop()
			delete(s.countdowns, key)
		}
	}
}

// Stop cancels every running countdown.
func (s *CountdownService) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	for key, cd := range s.countdowns {
		cd.timer.Stop()
		delete(s.countdowns, key)
	}
}

func (s *CountdownService) scheduleLocked(key viewKey, cd *countdown) {
	cd.timer = s.clock.AfterFunc(TickInterval, func() {
		s.tick(key, cd)
	})
}

func (s *CountdownService) tick(key viewKey, cd *countdown) {
	s.mu.Lock()
	if s.countdowns[key] != cd {
		// cancelled or replaced while the tick was in flight
		s.mu.Unlock()

		return
	}

	cd.remaining--
	if cd.remaining > 0 {
		s.scheduleLocked(key, cd)
		s.mu.Unlock()

		return
	}
	delete(s.countdowns, key)
	s.mu.Unlock()

	s.expire(key.orderID)
}

func (s *CountdownService) expire(orderID string) {
	o, err := s.orders.Order(orderID)
	if err != nil {
		slog.Error("Countdown expired for unknown order", "order_id", orderID, "error", err)

		return
	}
	if o.Status != order.StatusNew {
		return
	}

	if _, err := s.orders.UpdateStatus(context.Background(), orderID, order.StatusRejected); err != nil {
		slog.Error("Failed to auto-reject order", "order_id", orderID, "error", err)

		return
	}

	slog.Info("Order auto-rejected", "order_id", orderID)
}
