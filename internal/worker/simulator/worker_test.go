package simulator

import (
	"context"
	"math/rand/v2"
	"regexp"
	"testing"
	"time"

	"github.com/corray333/backend-labs/dukan/internal/clock"
	"github.com/corray333/backend-labs/dukan/internal/dal/memory"
	orderkv "github.com/corray333/backend-labs/dukan/internal/dal/repositories/order/kv"
	productkv "github.com/corray333/backend-labs/dukan/internal/dal/repositories/product/kv"
	settingskv "github.com/corray333/backend-labs/dukan/internal/dal/repositories/settings/kv"
	"github.com/corray333/backend-labs/dukan/internal/service/models/order"
	"github.com/corray333/backend-labs/dukan/internal/service/models/product"
	"github.com/corray333/backend-labs/dukan/internal/service/services/countdownsvc"
	"github.com/corray333/backend-labs/dukan/internal/service/services/inventorysvc"
	"github.com/corray333/backend-labs/dukan/internal/service/services/ordersvc"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var epoch = time.Date(2026, 3, 14, 10, 0, 0, 0, time.UTC)

type harness struct {
	clock      *clock.FakeClock
	inventory  *inventorysvc.InventoryService
	orders     *ordersvc.OrderService
	countdowns *countdownsvc.CountdownService
	worker     *Worker
}

func newHarness(t *testing.T, products ...product.Product) *harness {
	t.Helper()
	ctx := context.Background()
	store := memory.NewStore(0)
	productRepo := productkv.NewProductRepository(store)
	if products != nil {
		require.NoError(t, productRepo.Save(ctx, products))
	}

	fake := clock.Fake(epoch)

	inv := inventorysvc.MustNewInventoryService(inventorysvc.WithProductRepository(productRepo))
	inv.Load(ctx)

	orders := ordersvc.MustNewOrderService(
		ordersvc.WithOrderRepository(orderkv.NewOrderRepository(store)),
		ordersvc.WithSettingsRepository(settingskv.NewSettingsRepository(store)),
		ordersvc.WithInventory(inv),
		ordersvc.WithClock(fake),
		ordersvc.WithRand(rand.New(rand.NewPCG(3, 4))),
	)
	orders.Load(ctx)

	countdowns := countdownsvc.MustNewCountdownService(
		countdownsvc.WithOrderService(orders),
		countdownsvc.WithClock(fake),
	)

	worker := MustNewWorker(inv, orders, countdowns,
		WithClock(fake),
		WithRand(rand.New(rand.NewPCG(5, 6))),
	)

	inv.OnChange(worker.HandleInventoryChange)
	orders.OnStatusChange(countdowns.HandleStatusChange)
	orders.OnStatusChange(worker.HandleStatusChange)

	worker.activate(ctx)

	return &harness{
		clock:      fake,
		inventory:  inv,
		orders:     orders,
		countdowns: countdowns,
		worker:     worker,
	}
}

// advanceUntilOrders moves time in one second steps until n orders exist.
func (h *harness) advanceUntilOrders(t *testing.T, n int) {
	t.Helper()
	for i := 0; i < 10*int(DefaultMaxDelay/time.Second) && len(h.orders.Orders()) < n; i++ {
		h.clock.Advance(time.Second)
	}
	require.Len(t, h.orders.Orders(), n)
}

func TestWorker_WaitsForInteraction(t *testing.T) {
	h := newHarness(t)

	h.clock.Advance(10 * time.Minute)
	assert.Empty(t, h.orders.Orders())
	assert.Zero(t, h.clock.PendingTimers())

	h.worker.MarkInteraction()
	assert.Equal(t, 1, h.clock.PendingTimers())

	h.clock.Advance(DefaultMinDelay - time.Millisecond)
	assert.Empty(t, h.orders.Orders())

	h.clock.Advance(DefaultMaxDelay - DefaultMinDelay + time.Millisecond)
	orders := h.orders.Orders()
	require.Len(t, orders, 1)

	delay := orders[0].Timestamp.Sub(epoch.Add(10 * time.Minute))
	assert.GreaterOrEqual(t, delay, DefaultMinDelay)
	assert.LessOrEqual(t, delay, DefaultMaxDelay)
}

func TestWorker_SecondInteractionIsNoop(t *testing.T) {
	h := newHarness(t)

	h.worker.MarkInteraction()
	h.worker.MarkInteraction()
	assert.Equal(t, 1, h.clock.PendingTimers())
}

func TestWorker_PopupBlocksNextOrder(t *testing.T) {
	h := newHarness(t)
	h.worker.MarkInteraction()

	h.clock.Advance(DefaultMaxDelay)
	orders := h.orders.Orders()
	require.Len(t, orders, 1)
	first := orders[0]

	popup, ok := h.worker.Popup()
	require.True(t, ok)
	assert.Equal(t, first.ID, popup)
	remaining, ok := h.countdowns.Remaining(first.ID, countdownsvc.ViewPopup)
	require.True(t, ok)
	assert.Positive(t, remaining)

	// the next cycle fires within 40s of the first order and is skipped
	h.clock.Advance(first.Timestamp.Add(59900 * time.Millisecond).Sub(h.clock.Now()))
	assert.Len(t, h.orders.Orders(), 1)

	// the countdown rejects the order, which clears the popup
	h.clock.Advance(100 * time.Millisecond)
	rejected, err := h.orders.Order(first.ID)
	require.NoError(t, err)
	assert.Equal(t, order.StatusRejected, rejected.Status)
	_, ok = h.worker.Popup()
	assert.False(t, ok)

	h.clock.Advance(DefaultMaxDelay)
	assert.Len(t, h.orders.Orders(), 2)
}

func TestWorker_ClosingDetailsKeepsPopupCountdown(t *testing.T) {
	h := newHarness(t)
	h.worker.MarkInteraction()

	h.clock.Advance(DefaultMaxDelay)
	popup, ok := h.worker.Popup()
	require.True(t, ok)
	placed, err := h.orders.Order(popup)
	require.NoError(t, err)

	require.NoError(t, h.countdowns.Start(popup, countdownsvc.ViewDetails))
	h.clock.Advance(5 * time.Second)
	assert.True(t, h.countdowns.Cancel(popup, countdownsvc.ViewDetails))

	h.clock.Advance(placed.Timestamp.Add(time.Minute).Sub(h.clock.Now()))
	rejected, err := h.orders.Order(popup)
	require.NoError(t, err)
	assert.Equal(t, order.StatusRejected, rejected.Status)
	_, ok = h.worker.Popup()
	assert.False(t, ok)

	h.clock.Advance(DefaultMaxDelay)
	assert.Len(t, h.orders.Orders(), 2)
}

func TestWorker_AcceptClearsPopup(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)
	h.worker.MarkInteraction()

	h.clock.Advance(DefaultMaxDelay)
	popup, ok := h.worker.Popup()
	require.True(t, ok)

	_, err := h.orders.UpdateStatus(ctx, popup, order.StatusPreparing)
	require.NoError(t, err)

	_, ok = h.worker.Popup()
	assert.False(t, ok)
	_, ok = h.countdowns.Remaining(popup, countdownsvc.ViewPopup)
	assert.False(t, ok)
}

func TestWorker_SuppressedOnSettingsScreen(t *testing.T) {
	h := newHarness(t)
	h.worker.SetScreen(ScreenSettings)
	h.worker.MarkInteraction()

	h.advanceUntilOrders(t, 1)
	orders := h.orders.Orders()

	_, ok := h.worker.Popup()
	assert.False(t, ok)
	_, ok = h.countdowns.Remaining(orders[0].ID, countdownsvc.ViewPopup)
	assert.False(t, ok)
	assert.Equal(t, 1, h.clock.PendingTimers(), "only the next simulator cycle is pending")
}

func TestWorker_SuppressedWhileModalOpen(t *testing.T) {
	h := newHarness(t)
	h.worker.SetModalOpen(true)
	h.worker.MarkInteraction()

	h.clock.Advance(3 * DefaultMaxDelay)
	assert.GreaterOrEqual(t, len(h.orders.Orders()), 3)
	_, ok := h.worker.Popup()
	assert.False(t, ok)
}

func TestWorker_IdleWithoutStock(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t, product.Product{ID: "prod_w", Name: "Widget", Price: "₹10", Stock: 1, StockUnit: "packs"})
	h.worker.SetModalOpen(true)
	h.worker.MarkInteraction()
	require.Equal(t, 1, h.clock.PendingTimers())

	require.NoError(t, h.inventory.Deduct(ctx, []product.Deduction{{ProductID: "prod_w", Quantity: 1}}))
	assert.Zero(t, h.clock.PendingTimers())

	h.clock.Advance(10 * time.Minute)
	assert.Empty(t, h.orders.Orders())

	_, err := h.inventory.Update(ctx, "prod_w", product.Input{Name: "Widget", Price: "₹10", Stock: 4, StockUnit: "packs"})
	require.NoError(t, err)
	assert.Equal(t, 1, h.clock.PendingTimers())

	h.advanceUntilOrders(t, 1)
}

func TestWorker_SynthesizedOrders(t *testing.T) {
	h := newHarness(t,
		product.Product{ID: "p1", Name: "A", Price: "₹10", Stock: 100, StockUnit: "packs"},
		product.Product{ID: "p2", Name: "B", Price: "₹25.50", Stock: 100, StockUnit: "packs"},
		product.Product{ID: "p3", Name: "C", Price: "₹1,000", Stock: 100, StockUnit: "packs"},
		product.Product{ID: "p4", Name: "D", Price: "₹5", Stock: 0, StockUnit: "packs"},
	)
	h.worker.SetModalOpen(true)
	h.worker.MarkInteraction()

	h.clock.Advance(40 * DefaultMaxDelay)
	orders := h.orders.Orders()
	require.GreaterOrEqual(t, len(orders), 40)

	names := map[string]bool{}
	for _, c := range roster {
		names[c.Name] = true
	}
	idPattern := regexp.MustCompile(`^B2C-[1-9][0-9]{3}$`)
	ids := map[string]bool{}
	sizes := map[int]bool{}

	for _, o := range orders {
		assert.Regexp(t, idPattern, o.ID)
		assert.False(t, ids[o.ID], "duplicate id %s", o.ID)
		ids[o.ID] = true

		assert.True(t, names[o.Customer.Name])
		assert.Equal(t, placeholderPhone, o.Customer.WhatsappNumber)
		assert.Contains(t, order.PaymentMethods, o.PaymentMethod)
		assert.Equal(t, order.StatusNew, o.Status)

		require.GreaterOrEqual(t, len(o.Items), 1)
		require.LessOrEqual(t, len(o.Items), 3)
		sizes[len(o.Items)] = true

		seen := map[string]bool{}
		for _, item := range o.Items {
			assert.NotEqual(t, "p4", item.ProductID, "out of stock product picked")
			assert.False(t, seen[item.ProductID], "product picked twice")
			seen[item.ProductID] = true
			assert.Equal(t, 1, item.Quantity)
		}

		total, err := order.ComputeTotal(o.Items)
		require.NoError(t, err)
		assert.True(t, total.Equal(o.Total))
	}
	assert.Len(t, sizes, 3, "every order size from 1 to 3 shows up")
}

func TestWorker_DeactivateStopsTimer(t *testing.T) {
	h := newHarness(t)
	h.worker.MarkInteraction()
	require.Equal(t, 1, h.clock.PendingTimers())

	h.worker.deactivate()
	assert.Zero(t, h.clock.PendingTimers())

	h.clock.Advance(10 * time.Minute)
	assert.Empty(t, h.orders.Orders())
}

func TestWorker_StartReturnsOnStop(t *testing.T) {
	h := newHarness(t)

	done := make(chan struct{})
	go func() {
		h.worker.Start(context.Background())
		close(done)
	}()
	h.worker.Stop()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("worker did not stop")
	}
}

func TestWorker_StopTwice(t *testing.T) {
	h := newHarness(t)

	h.worker.Stop()
	assert.NotPanics(t, h.worker.Stop)
}

func TestMustNewWorker_RequiresDeps(t *testing.T) {
	h := newHarness(t)

	assert.Panics(t, func() { MustNewWorker(nil, h.orders, h.countdowns) })
	assert.Panics(t, func() { MustNewWorker(h.inventory, nil, h.countdowns) })
	assert.Panics(t, func() { MustNewWorker(h.inventory, h.orders, nil) })
}

func TestParseScreen(t *testing.T) {
	screen, err := ParseScreen("SETTINGS")
	require.NoError(t, err)
	assert.Equal(t, ScreenSettings, screen)

	_, err = ParseScreen("settings")
	assert.Error(t, err)
}
