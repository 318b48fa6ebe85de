package iproduct

import (
	"context"

	"github.com/corray333/backend-labs/dukan/internal/service/models/product"
)

// IProductRepository is an interface for the persisted product list.
type IProductRepository interface {
	Load(ctx context.Context) (products []product.Product, found bool, err error)
	Save(ctx context.Context, products []product.Product) error
}
