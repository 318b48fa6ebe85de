package kvrepo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/corray333/backend-labs/dukan/internal/dal/interfaces/ikvstore"
	"github.com/corray333/backend-labs/dukan/internal/service/models/product"
)

// ProductsKey is where the product list is stored.
const ProductsKey = "dukan-products"

// ProductRepository stores the catalog as one JSON array.
type ProductRepository struct {
	store ikvstore.IKVStore
}

func NewProductRepository(store ikvstore.IKVStore) *ProductRepository {
	return &ProductRepository{
		store: store,
	}
}

// Load reads the stored catalog.
func (r *ProductRepository) Load(ctx context.Context) ([]product.Product, bool, error) {
	data, err := r.store.Get(ctx, ProductsKey)
	if errors.Is(err, ikvstore.ErrNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to read products: %w", err)
	}

	var products []product.Product
	if err := json.Unmarshal(data, &products); err != nil {
		return nil, true, fmt.Errorf("failed to decode products: %w", err)
	}
	if products == nil {
		return nil, true, fmt.Errorf("failed to decode products: stored value is not an array")
	}

	return products, true, nil
}

// Save overwrites the stored catalog.
func (r *ProductRepository) Save(ctx context.Context, products []product.Product) error {
	if products == nil {
		products = []product.Product{}
	}

	data, err := json.Marshal(products)
	if err != nil {
		return fmt.Errorf("failed to encode products: %w", err)
	}

	if err := r.store.Set(ctx, ProductsKey, data); err != nil {
		return fmt.Errorf("failed to write products: %w", err)
	}

	return nil
}
