package order

import (
	"fmt"
	"time"

	"github.com/corray333/backend-labs/dukan/internal/service/models/orderitem"
	"github.com/shopspring/decimal"
)

func init() {
	// Totals are stored as plain JSON numbers.
	decimal.MarshalJSONWithoutQuotes = true
}

// PaymentMethod is how the customer pays for an order.
type PaymentMethod string

const (
	PaymentCOD PaymentMethod = "COD"
	PaymentUPI PaymentMethod = "UPI"
)

// PaymentMethods lists every accepted payment method.
var PaymentMethods = []PaymentMethod{PaymentCOD, PaymentUPI}

// Customer is copied into the order when it is created.
type Customer struct {
	Name           string `json:"name"           validate:"required"`
	WhatsappNumber string `json:"whatsappNumber"`
	Address        string `json:"address"        validate:"required"`
}

// Order represents a customer order.
type Order struct {
	ID            string                `json:"id"`
	Customer      Customer              `json:"customer"`
	Items         []orderitem.OrderItem `json:"items"`
	Total         decimal.Decimal       `json:"total"`
	PaymentMethod PaymentMethod         `json:"paymentMethod"`
	Status        Status                `json:"status"`
	Timestamp     time.Time             `json:"timestamp"`
}

// Clone returns a deep copy so callers never share the items slice.
func (o Order) Clone() Order {
	c := o
	c.Items = append([]orderitem.OrderItem(nil), o.Items...)

	return c
}

// ComputeTotal sums price × quantity over items.
func ComputeTotal(items []orderitem.OrderItem) (decimal.Decimal, error) {
	total := decimal.Zero
	for i, item := range items {
		subtotal, err := item.Subtotal()
		if err != nil {
			return decimal.Zero, fmt.Errorf("item %d: %w", i, err)
		}
		total = total.Add(subtotal)
	}

	return total, nil
}

// Intake is an order entered by hand. Item names and prices are taken from
// the catalog when the order is created.
type Intake struct {
	Customer      Customer      `json:"customer"`
	Items         []IntakeItem  `json:"items"         validate:"required,min=1,dive"`
	PaymentMethod PaymentMethod `json:"paymentMethod" validate:"required,oneof=COD UPI"`
}

// IntakeItem requests quantity units of a catalog product.
type IntakeItem struct {
	ProductID string `json:"productId" validate:"required"`
	Quantity  int    `json:"quantity"  validate:"gt=0"`
}
