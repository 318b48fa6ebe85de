package inventorysvc

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	iproduct "github.com/corray333/backend-labs/dukan/internal/dal/interfaces/iproductrepo"
	"github.com/corray333/backend-labs/dukan/internal/service/models/currency"
	"github.com/corray333/backend-labs/dukan/internal/service/models/product"
	"github.com/corray333/backend-labs/dukan/internal/service/seed"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
)

// DefaultLowStockThreshold is the stock level below which a product needs restocking.
const DefaultLowStockThreshold = 10

var (
	ErrProductNotFound = errors.New("product not found")
	ErrInvalidProduct  = errors.New("invalid product")
	// ErrPersist wraps a store failure. The in-memory catalog already holds the change.
	ErrPersist = errors.New("failed to persist products")
)

// Listener is called with a snapshot after every change to the catalog.
type Listener func(products []product.Product)

// InventoryService owns the product catalog. Every mutation writes the full
// catalog to the repository before returning.
type InventoryService struct {
	mu        sync.RWMutex
	repo      iproduct.IProductRepository
	validate  *validator.Validate
	newID     func() string
	products  []product.Product
	listeners []Listener
}

// option is a function that configures the InventoryService.
type option func(*InventoryService)

// MustNewInventoryService creates a new InventoryService.
func MustNewInventoryService(opts ...option) *InventoryService {
	s := &InventoryService{
		validate: validator.New(),
		newID: func() string {
			return "prod_" + uuid.NewString()
		},
	}
	for _, opt := range opts {
		opt(s)
	}

	if s.repo == nil {
		panic("inventory service requires a product repository")
	}

	return s
}

// WithProductRepository sets the product repository for the InventoryService.
//
//goland:noinspection GoExportedFuncWithUnexportedType
func WithProductRepository(repo iproduct.IProductRepository) option {
	return func(s *InventoryService) {
		s.repo = repo
	}
}

// WithIDGenerator overrides how new product ids are made.
//
//goland:noinspection GoExportedFuncWithUnexportedType
func WithIDGenerator(newID func() string) option {
	return func(s *InventoryService) {
		s.newID = newID
	}
}

// Load reads the stored catalog, falling back to the starter catalog when
// nothing usable is stored.
func (s *InventoryService) Load(ctx context.Context) {
	products, found, err := s.repo.Load(ctx)
	switch {
	case err != nil:
		slog.Error("Failed to load products, using starter catalog", "error", err)
		products = seed.Products()
	case !found:
		products = seed.Products()
	}

	s.mu.Lock()
	s.products = products
	if err := s.persistLocked(ctx); err != nil {
		slog.Error("Failed to persist products", "error", err)
	}
	s.mu.Unlock()

	slog.Info("Products loaded", "count", len(products), "stored", found && err == nil)
}

// OnChange registers a listener for catalog changes.
func (s *InventoryService) OnChange(l Listener) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.listeners = append(s.listeners, l)
}

// Products returns a copy of the catalog.
func (s *InventoryService) Products() []product.Product {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return append([]product.Product(nil), s.products...)
}

func (s *InventoryService) Product(id string) (product.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	i := s.indexLocked(id)
	if i < 0 {
		return product.Product{}, ErrProductNotFound
	}

	return s.products[i], nil
}

// HasStock reports whether any product has at least one unit.
func (s *InventoryService) HasStock() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, p := range s.products {
		if p.InStock() {
			return true
		}
	}

	return false
}

// LowStock returns products whose stock is below threshold.
func (s *InventoryService) LowStock(threshold int) []product.Product {
	s.mu.RLock()
	defer s.mu.RUnlock()

	low := make([]product.Product, 0)
	for _, p := range s.products {
		if p.Stock < threshold {
			low = append(low, p)
		}
	}

	return low
}

// Add appends a new product with a generated id.
func (s *InventoryService) Add(ctx context.Context, in product.Input) (product.Product, error) {
	if err := s.validateInput(in); err != nil {
		return product.Product{}, err
	}

	p := in.ToModel(s.newID())

	err := s.mutate(ctx, func(products []product.Product) ([]product.Product, error) {
		return append(products, p), nil
	})

	return p, err
}

// Update replaces the product with the same id.
func (s *InventoryService) Update(ctx context.Context, id string, in product.Input) (product.Product, error) {
	if err := s.validateInput(in); err != nil {
		return product.Product{}, err
	}

	p := in.ToModel(id)

	err := s.mutate(ctx, func(products []product.Product) ([]product.Product, error) {
		i := indexOf(products, id)
		if i < 0 {
			return nil, ErrProductNotFound
		}
		products[i] = p

		return products, nil
	})

	return p, err
}

// Delete removes the product with the given id.
func (s *InventoryService) Delete(ctx context.Context, id string) error {
	return s.mutate(ctx, func(products []product.Product) ([]product.Product, error) {
		i := indexOf(products, id)
		if i < 0 {
			return nil, ErrProductNotFound
		}

		return append(products[:i], products[i+1:]...), nil
	})
}

// Deduct lowers stock for every deduction, clamping at zero. Unknown
// products are skipped. All deductions are persisted in one write.
func (s *InventoryService) Deduct(ctx context.Context, deductions []product.Deduction) error {
	ctx, span := otel.Tracer("service").Start(ctx, "InventoryService.Deduct")
	defer span.End()

	return s.mutate(ctx, func(products []product.Product) ([]product.Product, error) {
		for _, d := range deductions {
			i := indexOf(products, d.ProductID)
			if i < 0 {
				slog.Debug("Skipping deduction for unknown product", "product_id", d.ProductID)

				continue
			}
			products[i].Stock = max(0, products[i].Stock-d.Quantity)
		}

		return products, nil
	})
}

func (s *InventoryService) validateInput(in product.Input) error {
	if err := s.validate.Struct(in); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidProduct, err)
	}
	if _, err := currency.ParsePrice(in.Price); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidProduct, err)
	}

	return nil
}

// mutate applies fn to a copy of the catalog, swaps it in, persists it and
// notifies listeners. fn errors leave the catalog untouched.
func (s *InventoryService) mutate(
	ctx context.Context,
	fn func([]product.Product) ([]product.Product, error),
) error {
	s.mu.Lock()
	next, err := fn(append([]product.Product(nil), s.products...))
	if err != nil {
		s.mu.Unlock()

		return err
	}
	s.products = next
	persistErr := s.persistLocked(ctx)
	snapshot := append([]product.Product(nil), s.products...)
	listeners := append([]Listener(nil), s.listeners...)
	s.mu.Unlock()

	for _, l := range listeners {
		l(snapshot)
	}

	if persistErr != nil {
		slog.Error("Failed to persist products", "error", persistErr)

		return fmt.Errorf("%w: %w", ErrPersist, persistErr)
	}

	return nil
}

func (s *InventoryService) persistLocked(ctx context.Context) error {
	return s.repo.Save(ctx, s.products)
}

func (s *InventoryService) indexLocked(id string) int {
	return indexOf(s.products, id)
}

func indexOf(products []product.Product, id string) int {
	for i, p := range products {
		if p.ID == id {
			return i
		}
	}

	return -1
}
