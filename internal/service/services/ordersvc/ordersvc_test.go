package ordersvc

import (
	"context"
	"math/rand/v2"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/corray333/backend-labs/dukan/internal/clock"
	"github.com/corray333/backend-labs/dukan/internal/dal/memory"
	orderkv "github.com/corray333/backend-labs/dukan/internal/dal/repositories/order/kv"
	productkv "github.com/corray333/backend-labs/dukan/internal/dal/repositories/product/kv"
	settingskv "github.com/corray333/backend-labs/dukan/internal/dal/repositories/settings/kv"
	"github.com/corray333/backend-labs/dukan/internal/service/models/event"
	"github.com/corray333/backend-labs/dukan/internal/service/models/order"
	"github.com/corray333/backend-labs/dukan/internal/service/models/orderitem"
	"github.com/corray333/backend-labs/dukan/internal/service/models/product"
	"github.com/corray333/backend-labs/dukan/internal/service/services/inventorysvc"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var epoch = time.Date(2026, 3, 14, 10, 0, 0, 0, time.UTC)

type recordingPublisher struct {
	mu     sync.Mutex
	events []event.OrderEvent
}

func (p *recordingPublisher) Publish(_ context.Context, events ...event.OrderEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, events...)

	return nil
}

// constSource makes every IntN call return 0.
type constSource struct{}

func (constSource) Uint64() uint64 { return 1 << 20 }

type env struct {
	store     *memory.Store
	inventory *inventorysvc.InventoryService
	orders    *OrderService
	publisher *recordingPublisher
	clock     *clock.FakeClock
}

type envOption func(*envConfig)

type envConfig struct {
	products   []product.Product
	orders     []order.Order
	onboarded  bool
	strict     bool
	randSource rand.Source
}

func withProducts(products ...product.Product) envOption {
	return func(c *envConfig) { c.products = products }
}

func withOrders(orders ...order.Order) envOption {
	return func(c *envConfig) { c.orders = orders }
}

func onboarded() envOption {
	return func(c *envConfig) { c.onboarded = true }
}

func strict() envOption {
	return func(c *envConfig) { c.strict = true }
}

func withRandSource(src rand.Source) envOption {
	return func(c *envConfig) { c.randSource = src }
}

func newEnv(t *testing.T, opts ...envOption) *env {
	t.Helper()
	ctx := context.Background()
	cfg := &envConfig{randSource: rand.NewPCG(1, 2)}
	for _, opt := range opts {
		opt(cfg)
	}

	store := memory.NewStore(0)
	productRepo := productkv.NewProductRepository(store)
	orderRepo := orderkv.NewOrderRepository(store)
	settingsRepo := settingskv.NewSettingsRepository(store)

	if cfg.products != nil {
		require.NoError(t, productRepo.Save(ctx, cfg.products))
	}
	if cfg.orders != nil {
		require.NoError(t, orderRepo.Save(ctx, cfg.orders))
	}
	if cfg.onboarded {
		require.NoError(t, settingsRepo.SetOnboardingComplete(ctx))
	}

	inv := inventorysvc.MustNewInventoryService(inventorysvc.WithProductRepository(productRepo))
	inv.Load(ctx)

	fake := clock.Fake(epoch)
	publisher := &recordingPublisher{}
	svc := MustNewOrderService(
		WithOrderRepository(orderRepo),
		WithSettingsRepository(settingsRepo),
		WithInventory(inv),
		WithEventPublisher(publisher),
		WithClock(fake),
		WithRand(rand.New(cfg.randSource)),
		WithStrictTransitions(cfg.strict),
	)
	svc.Load(ctx)

	return &env{
		store:     store,
		inventory: inv,
		orders:    svc,
		publisher: publisher,
		clock:     fake,
	}
}

func (e *env) reload(t *testing.T) *OrderService {
	t.Helper()
	svc := MustNewOrderService(
		WithOrderRepository(orderkv.NewOrderRepository(e.store)),
		WithSettingsRepository(settingskv.NewSettingsRepository(e.store)),
		WithInventory(e.inventory),
		WithClock(e.clock),
	)
	svc.Load(context.Background())

	return svc
}

func newOrder(id string, status order.Status, items ...orderitem.OrderItem) order.Order {
	total, _ := order.ComputeTotal(items)

	return order.Order{
		ID:            id,
		Customer:      order.Customer{Name: "Neha Patel", WhatsappNumber: "+919876543210", Address: "8/B, Shastri Nagar, Delhi"},
		Items:         items,
		Total:         total,
		PaymentMethod: order.PaymentCOD,
		Status:        status,
		Timestamp:     epoch.Add(-time.Minute),
	}
}

var widget = product.Product{ID: "prod_w", Name: "Widget", Price: "₹10", Stock: 5, StockUnit: "packs"}

func TestLoad_NewStoreStartsEmpty(t *testing.T) {
	e := newEnv(t)
	assert.Empty(t, e.orders.Orders())
}

func TestLoad_OnboardedStoreGetsStarterHistory(t *testing.T) {
	e := newEnv(t, onboarded())

	orders := e.orders.Orders()
	require.Len(t, orders, 4)
	assert.Equal(t, "B2C-8375", orders[0].ID)
	assert.Equal(t, epoch.Add(-5*time.Minute), orders[0].Timestamp)
	assert.Equal(t, 2, e.orders.NewOrderCount())
}

func TestLoad_StoredListWins(t *testing.T) {
	e := newEnv(t, onboarded(), withOrders(newOrder("B2C-1111", order.StatusCompleted,
		orderitem.OrderItem{ProductID: "prod1", Name: "product_maggi", Quantity: 1, Price: "₹96"})))

	orders := e.orders.Orders()
	require.Len(t, orders, 1)
	assert.Equal(t, "B2C-1111", orders[0].ID)
}

func TestLoad_CorruptListFallsBack(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t, onboarded())
	require.NoError(t, e.store.Set(ctx, orderkv.OrdersKey, []byte(`{"not":"an array"}`)))

	assert.Len(t, e.reload(t).Orders(), 4)
}

func TestUpdateStatus_AcceptDeductsStock(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t,
		withProducts(widget),
		withOrders(newOrder("B2C-2001", order.StatusNew,
			orderitem.OrderItem{ProductID: "prod_w", Name: "Widget", Quantity: 3, Price: "₹10"})),
	)

	updated, err := e.orders.UpdateStatus(ctx, "B2C-2001", order.StatusPreparing)
	require.NoError(t, err)
	assert.Equal(t, order.StatusPreparing, updated.Status)

	p, err := e.inventory.Product("prod_w")
	require.NoError(t, err)
	assert.Equal(t, 2, p.Stock)

	// free-form transitions allow moving back to NEW; accepting again deducts again
	_, err = e.orders.UpdateStatus(ctx, "B2C-2001", order.StatusNew)
	require.NoError(t, err)
	_, err = e.orders.UpdateStatus(ctx, "B2C-2001", order.StatusPreparing)
	require.NoError(t, err)

	p, err = e.inventory.Product("prod_w")
	require.NoError(t, err)
	assert.Equal(t, 0, p.Stock)
}

func TestUpdateStatus_OnlyNewToPreparingDeducts(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t,
		withProducts(widget),
		withOrders(newOrder("B2C-2002", order.StatusNew,
			orderitem.OrderItem{ProductID: "prod_w", Name: "Widget", Quantity: 2, Price: "₹10"})),
	)

	_, err := e.orders.UpdateStatus(ctx, "B2C-2002", order.StatusRejected)
	require.NoError(t, err)
	_, err = e.orders.UpdateStatus(ctx, "B2C-2002", order.StatusPreparing)
	require.NoError(t, err)

	p, _ := e.inventory.Product("prod_w")
	assert.Equal(t, 5, p.Stock)
}

func TestUpdateStatus_MissingProductSkipped(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t,
		withProducts(widget),
		withOrders(newOrder("B2C-2003", order.StatusNew,
			orderitem.OrderItem{ProductID: "gone", Name: "Gone", Quantity: 1, Price: "₹5"},
			orderitem.OrderItem{ProductID: "prod_w", Name: "Widget", Quantity: 1, Price: "₹10"})),
	)

	_, err := e.orders.UpdateStatus(ctx, "B2C-2003", order.StatusPreparing)
	require.NoError(t, err)

	p, _ := e.inventory.Product("prod_w")
	assert.Equal(t, 4, p.Stock)
}

func TestUpdateStatus_Errors(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t, onboarded())
	before, err := e.store.Get(ctx, orderkv.OrdersKey)
	require.NoError(t, err)

	_, err = e.orders.UpdateStatus(ctx, "B2C-8375", order.Status("SHIPPED"))
	assert.ErrorIs(t, err, order.ErrInvalidStatus)

	_, err = e.orders.UpdateStatus(ctx, "B2C-0000", order.StatusCompleted)
	assert.ErrorIs(t, err, ErrOrderNotFound)

	after, err := e.store.Get(ctx, orderkv.OrdersKey)
	require.NoError(t, err)
	assert.Equal(t, before, after)
	assert.Empty(t, e.publisher.events)
}

func TestUpdateStatus_StrictTransitions(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t, onboarded(), strict())

	_, err := e.orders.UpdateStatus(ctx, "B2C-8370", order.StatusNew)
	var transitionErr order.ErrInvalidTransition
	require.ErrorAs(t, err, &transitionErr)
	assert.Equal(t, order.StatusCompleted, transitionErr.From)
	assert.Equal(t, order.StatusNew, transitionErr.To)

	_, err = e.orders.UpdateStatus(ctx, "B2C-8375", order.StatusPreparing)
	require.NoError(t, err)
}

func TestUpdateStatus_PersistsAndNotifies(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t, onboarded())

	type change struct {
		id       string
		from, to order.Status
	}
	var changes []change
	e.orders.OnStatusChange(func(o order.Order, from, to order.Status) {
		changes = append(changes, change{o.ID, from, to})
	})

	_, err := e.orders.UpdateStatus(ctx, "B2C-8374", order.StatusRejected)
	require.NoError(t, err)

	assert.Equal(t, []change{{"B2C-8374", order.StatusNew, order.StatusRejected}}, changes)
	require.Len(t, e.publisher.events, 1)
	assert.Equal(t, event.TypeOrderStatusChanged, e.publisher.events[0].Type)
	assert.Equal(t, order.StatusNew, e.publisher.events[0].FromStatus)

	reloaded, err := e.reload(t).Order("B2C-8374")
	require.NoError(t, err)
	assert.Equal(t, order.StatusRejected, reloaded.Status)
}

func TestTotalIsFrozen(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t, onboarded())

	_, err := e.inventory.Update(ctx, "prod1", product.Input{Name: "product_maggi", Price: "₹500", Stock: 50, StockUnit: "packs"})
	require.NoError(t, err)
	_, err = e.orders.UpdateStatus(ctx, "B2C-8375", order.StatusPreparing)
	require.NoError(t, err)

	o, err := e.orders.Order("B2C-8375")
	require.NoError(t, err)
	assert.True(t, decimal.NewFromInt(272).Equal(o.Total))
	assert.Equal(t, "₹96", o.Items[0].Price)
}

func TestAdd_AssignsIDAndDefaults(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)

	var created []order.Order
	e.orders.OnCreate(func(o order.Order) { created = append(created, o) })

	o := newOrder("", "", orderitem.OrderItem{ProductID: "prod1", Name: "product_maggi", Quantity: 1, Price: "₹96"})
	o.Timestamp = time.Time{}
	added, err := e.orders.Add(ctx, o)
	require.NoError(t, err)

	require.True(t, strings.HasPrefix(added.ID, "B2C-"))
	n, err := strconv.Atoi(strings.TrimPrefix(added.ID, "B2C-"))
	require.NoError(t, err)
	assert.GreaterOrEqual(t, n, 1000)
	assert.LessOrEqual(t, n, 9999)
	assert.Equal(t, order.StatusNew, added.Status)
	assert.Equal(t, epoch, added.Timestamp)

	require.Len(t, created, 1)
	assert.Equal(t, added.ID, created[0].ID)
	require.Len(t, e.publisher.events, 1)
	assert.Equal(t, event.TypeOrderCreated, e.publisher.events[0].Type)
	assert.Equal(t, 1, e.orders.NewOrderCount())
}

func TestAdd_Prepends(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t, onboarded())

	added, err := e.orders.Add(ctx, newOrder("B2C-4242", order.StatusNew,
		orderitem.OrderItem{ProductID: "prod4", Name: "product_tata_salt", Quantity: 1, Price: "₹28"}))
	require.NoError(t, err)
	assert.Equal(t, added.ID, e.orders.Orders()[0].ID)
	assert.Len(t, e.orders.Orders(), 5)
}

func TestAdd_Rejects(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t, onboarded())

	_, err := e.orders.Add(ctx, newOrder("B2C-8375", order.StatusNew,
		orderitem.OrderItem{ProductID: "prod1", Name: "product_maggi", Quantity: 1, Price: "₹96"}))
	assert.ErrorIs(t, err, ErrDuplicateOrder)

	_, err = e.orders.Add(ctx, newOrder("", order.StatusNew))
	assert.ErrorIs(t, err, ErrInvalidOrder)
}

func TestAdd_ScansWhenRandomIDsCollide(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t, withRandSource(constSource{}), withOrders(newOrder("B2C-1000", order.StatusCompleted,
		orderitem.OrderItem{ProductID: "prod1", Name: "product_maggi", Quantity: 1, Price: "₹96"})))

	added, err := e.orders.Add(ctx, newOrder("", order.StatusNew,
		orderitem.OrderItem{ProductID: "prod1", Name: "product_maggi", Quantity: 1, Price: "₹96"}))
	require.NoError(t, err)
	assert.Equal(t, "B2C-1001", added.ID)
}

func TestCreate_SnapshotsCatalog(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)

	created, err := e.orders.Create(ctx, order.Intake{
		Customer: order.Customer{Name: "Amit Singh", Address: "C-112, Laxmi Nagar, New Delhi"},
		Items: []order.IntakeItem{
			{ProductID: "prod1", Quantity: 2},
			{ProductID: "prod4", Quantity: 1},
		},
		PaymentMethod: order.PaymentUPI,
	})
	require.NoError(t, err)
	assert.Equal(t, order.StatusNew, created.Status)
	assert.True(t, decimal.NewFromInt(220).Equal(created.Total))
	assert.Equal(t, "product_maggi", created.Items[0].Name)
	assert.Equal(t, "₹96", created.Items[0].Price)
}

func TestCreate_Invalid(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)

	cases := []order.Intake{
		{Customer: order.Customer{Name: "A", Address: "B"}, PaymentMethod: order.PaymentCOD},
		{Customer: order.Customer{Name: "A", Address: "B"}, Items: []order.IntakeItem{{ProductID: "prod1", Quantity: 1}}, PaymentMethod: "CARD"},
		{Customer: order.Customer{Name: "A", Address: "B"}, Items: []order.IntakeItem{{ProductID: "prod1", Quantity: 0}}, PaymentMethod: order.PaymentCOD},
		{Customer: order.Customer{Address: "B"}, Items: []order.IntakeItem{{ProductID: "prod1", Quantity: 1}}, PaymentMethod: order.PaymentCOD},
		{Customer: order.Customer{Name: "A", Address: "B"}, Items: []order.IntakeItem{{ProductID: "nope", Quantity: 1}}, PaymentMethod: order.PaymentCOD},
	}
	for i, in := range cases {
		_, err := e.orders.Create(ctx, in)
		assert.ErrorIs(t, err, ErrInvalidOrder, "case %d", i)
	}
	assert.Empty(t, e.orders.Orders())
}

func TestList_Filters(t *testing.T) {
	e := newEnv(t, onboarded())

	assert.Len(t, e.orders.List(order.FilterNew), 2)
	assert.Len(t, e.orders.List(order.FilterPreparing), 1)
	history := e.orders.List(order.FilterHistory)
	require.Len(t, history, 1)
	assert.Equal(t, "B2C-8370", history[0].ID)
}
