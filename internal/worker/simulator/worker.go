package simulator

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/corray333/backend-labs/dukan/internal/clock"
	"github.com/corray333/backend-labs/dukan/internal/service/models/order"
	"github.com/corray333/backend-labs/dukan/internal/service/models/orderitem"
	"github.com/corray333/backend-labs/dukan/internal/service/models/product"
	"github.com/corray333/backend-labs/dukan/internal/service/services/countdownsvc"
)

// Screen is the screen the operator is looking at.
type Screen string

const (
	ScreenDashboard   Screen = "DASHBOARD"
	ScreenSales       Screen = "SALES"
	ScreenOrders      Screen = "ORDERS"
	ScreenInsights    Screen = "INSIGHTS"
	ScreenCatalog     Screen = "CATALOG"
	ScreenSettings    Screen = "SETTINGS"
	ScreenOnlineStore Screen = "ONLINE_STORE"
)

// ParseScreen validates a screen name.
func ParseScreen(s string) (Screen, error) {
	switch screen := Screen(s); screen {
	case ScreenDashboard, ScreenSales, ScreenOrders, ScreenInsights,
		ScreenCatalog, ScreenSettings, ScreenOnlineStore:
		return screen, nil
	default:
		return "", fmt.Errorf("unknown screen %q", s)
	}
}

const (
	DefaultMinDelay = 20 * time.Second
	DefaultMaxDelay = 40 * time.Second

	maxItemsPerOrder = 3
	placeholderPhone = "+919876543210"
)

var roster = []order.Customer{
	{Name: "Rohan Gupta", Address: "15/2, Geeta Colony, Near Jheel Chowk, Delhi"},
	{Name: "Sneha Verma", Address: "House No. 24, Block D, Krishna Nagar, Delhi"},
	{Name: "Amit Singh", Address: "C-112, Laxmi Nagar, Vikas Marg, New Delhi"},
	{Name: "Priya Sharma", Address: "F-7, Main Market, Shahdara, Delhi"},
	{Name: "Vikram Choudhary", Address: "48, Radhepuri, Near Gandhi Nagar, Delhi"},
	{Name: "Neha Patel", Address: "8/B, Shastri Nagar, Near Geeta Colony, Delhi"},
	{Name: "Manish Kumar", Address: "201, Ram Nagar, Shahdara, New Delhi"},
}

type inventory interface {
	Products() []product.Product
	HasStock() bool
}

type orders interface {
	Add(ctx context.Context, o order.Order) (order.Order, error)
}

type countdowns interface {
	Start(orderID, view string) error
}

// Worker generates a random customer order every 20-40 seconds once the
// operator has interacted with the app and something is in stock.
type Worker struct {
	mu sync.Mutex

	clock      clock.Clock
	rand       *rand.Rand
	inventory  inventory
	orders     orders
	countdowns countdowns
	minDelay   time.Duration
	maxDelay   time.Duration

	ctx        context.Context
	running    bool
	interacted bool
	screen     Screen
	modalOpen  bool
	popup      string
	timer      *clock.Timer
	generation uint64

	stopCh   chan struct{}
	stopOnce sync.Once
}

// option is a function that configures the Worker.
type option func(*Worker)

// MustNewWorker creates a new order simulator.
func MustNewWorker(
	inv inventory,
	ord orders,
	cds countdowns,
	opts ...option,
) *Worker {
	w := &Worker{
		clock:      clock.Real(),
		rand:       rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64())),
		inventory:  inv,
		orders:     ord,
		countdowns: cds,
		minDelay:   DefaultMinDelay,
		maxDelay:   DefaultMaxDelay,
		ctx:        context.Background(),
		screen:     ScreenDashboard,
		stopCh:     make(chan struct{}),
	}
	for _, opt := range opts {
		opt(w)
	}

	if w.inventory == nil {
		panic("order simulator requires an inventory")
	}
	if w.orders == nil {
		panic("order simulator requires an order service")
	}
	if w.countdowns == nil {
		panic("order simulator requires a countdown service")
	}

	return w
}

// WithClock sets the time source.
//
//goland:noinspection GoExportedFuncWithUnexportedType
func WithClock(c clock.Clock) option {
	return func(w *Worker) {
		w.clock = c
	}
}

// WithRand sets the random source for delays and order contents.
//
//goland:noinspection GoExportedFuncWithUnexportedType
func WithRand(r *rand.Rand) option {
	return func(w *Worker) {
		w.rand = r
	}
}

// WithDelayRange sets the bounds of the random delay between orders.
//
//goland:noinspection GoExportedFuncWithUnexportedType
func WithDelayRange(minDelay, maxDelay time.Duration) option {
	return func(w *Worker) {
		if minDelay > 0 && maxDelay >= minDelay {
			w.minDelay = minDelay
			w.maxDelay = maxDelay
		}
	}
}

// Start runs the simulator until ctx is done or Stop is called.
func (w *Worker) Start(ctx context.Context) {
	w.activate(ctx)

	slog.Info("Order simulator started", "min_delay", w.minDelay, "max_delay", w.maxDelay)

	select {
	case <-ctx.Done():
		slog.Info("Order simulator shutting down")
	case <-w.stopCh:
		slog.Info("Order simulator stopped")
	}

	w.deactivate()
}

// Stop stops the worker. Later calls do nothing.
func (w *Worker) Stop() {
	w.stopOnce.Do(func() {
		close(w.stopCh)
	})
}

// MarkInteraction records the operator's first interaction. Only the first
// call has an effect.
func (w *Worker) MarkInteraction() {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.interacted {
		return
	}
	w.interacted = true
	slog.Info("First interaction detected, order simulation enabled")

	w.rearmLocked()
}

// SetScreen records the active screen.
func (w *Worker) SetScreen(screen Screen) {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.screen = screen
}

// SetModalOpen records whether another modal is covering the app.
func (w *Worker) SetModalOpen(open bool) {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.modalOpen = open
}

// Popup returns the id of the order waiting to be acknowledged.
func (w *Worker) Popup() (string, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()

	return w.popup, w.popup != ""
}

// HandleStatusChange clears the popup once its order has been handled.
func (w *Worker) HandleStatusChange(o order.Order, _, _ order.Status) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.popup == o.ID {
		w.popup = ""
	}
}

// HandleInventoryChange re-evaluates whether orders can be generated.
func (w *Worker) HandleInventoryChange(_ []product.Product) {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.rearmLocked()
}

func (w *Worker) activate(ctx context.Context) {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.ctx = ctx
	w.running = true
	w.rearmLocked()
}

func (w *Worker) deactivate() {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.running = false
	w.timer.Stop()
	w.timer = nil
}

func (w *Worker) gateLocked() bool {
	return w.running && w.interacted && w.inventory.HasStock()
}

// rearmLocked keeps exactly one timer pending while the gate holds and none
// otherwise.
func (w *Worker) rearmLocked() {
	if !w.gateLocked() {
		if w.timer != nil {
			w.timer.Stop()
			w.timer = nil
			slog.Debug("Order simulator idle")
		}

		return
	}
	if w.timer != nil {
		return
	}

	w.generation++
	generation := w.generation
	w.timer = w.clock.AfterFunc(w.nextDelayLocked(), func() {
		w.fire(generation)
	})
}

func (w *Worker) nextDelayLocked() time.Duration {
	spanMs := (w.maxDelay - w.minDelay).Milliseconds()

	return w.minDelay + time.Duration(w.rand.Int64N(spanMs+1))*time.Millisecond
}

func (w *Worker) fire(generation uint64) {
	w.mu.Lock()
	if w.timer == nil || w.generation != generation {
		w.mu.Unlock()

		return
	}
	w.timer = nil

	if !w.running {
		w.mu.Unlock()

		return
	}

	var next *order.Order
	if w.popup != "" {
		slog.Debug("Skipping simulated order, popup pending", "order_id", w.popup)
	} else {
		next = w.synthesizeLocked()
	}
	ctx := w.ctx
	w.mu.Unlock()

	if next != nil {
		w.place(ctx, *next)
	}

	w.mu.Lock()
	w.rearmLocked()
	w.mu.Unlock()
}

func (w *Worker) place(ctx context.Context, o order.Order) {
	added, err := w.orders.Add(ctx, o)
	if err != nil {
		slog.Error("Failed to add simulated order", "error", err)

		return
	}

	w.mu.Lock()
	suppressed := w.screen == ScreenSettings || w.modalOpen
	if !suppressed {
		w.popup = added.ID
	}
	w.mu.Unlock()

	if suppressed {
		slog.Info("Simulated order added, popup suppressed", "order_id", added.ID)

		return
	}

	if err := w.countdowns.Start(added.ID, countdownsvc.ViewPopup); err != nil {
		slog.Error("Failed to start countdown", "order_id", added.ID, "error", err)
	}

	slog.Info("Simulated order added", "order_id", added.ID, "total", added.Total.String())
}

// synthesizeLocked builds a NEW order from 1-3 distinct in-stock products.
// It returns nil when nothing can be sold.
func (w *Worker) synthesizeLocked() *order.Order {
	available := make([]product.Product, 0)
	for _, p := range w.inventory.Products() {
		if p.InStock() {
			available = append(available, p)
		}
	}
	if len(available) == 0 {
		slog.Debug("Skipping simulated order, nothing in stock")

		return nil
	}

	customer := roster[w.rand.IntN(len(roster))]
	customer.WhatsappNumber = placeholderPhone

	count := 1 + w.rand.IntN(maxItemsPerOrder)
	items := make([]orderitem.OrderItem, 0, count)
	for len(items) < count && len(available) > 0 {
		i := w.rand.IntN(len(available))
		p := available[i]
		available = append(available[:i], available[i+1:]...)

		items = append(items, orderitem.OrderItem{
			ProductID: p.ID,
			Name:      p.Name,
			Quantity:  1,
			Price:     p.Price,
		})
	}

	total, err := order.ComputeTotal(items)
	if err != nil {
		slog.Error("Skipping simulated order, unreadable price", "error", err)

		return nil
	}

	return &order.Order{
		Customer:      customer,
		Items:         items,
		Total:         total,
		PaymentMethod: order.PaymentMethods[w.rand.IntN(len(order.PaymentMethods))],
		Status:        order.StatusNew,
		Timestamp:     w.clock.Now(),
	}
}
