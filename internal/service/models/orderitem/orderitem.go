package orderitem

import (
	"github.com/corray333/backend-labs/dukan/internal/service/models/currency"
	"github.com/shopspring/decimal"
)

// OrderItem is a line of an order. Name and Price are snapshots taken when
// the order was created and do not follow later catalog edits.
type OrderItem struct {
	ProductID string `json:"productId" validate:"required"`
	Name      string `json:"name"      validate:"required"`
	Quantity  int    `json:"quantity"  validate:"gt=0"`
	Price     string `json:"price"     validate:"required"`
}

// Subtotal returns price × quantity.
func (i OrderItem) Subtotal() (decimal.Decimal, error) {
	price, err := currency.ParsePrice(i.Price)
	if err != nil {
		return decimal.Zero, err
	}

	return price.Mul(decimal.NewFromInt(int64(i.Quantity))), nil
}
