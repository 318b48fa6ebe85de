package createorder

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/corray333/backend-labs/dukan/internal/service/models/order"
	"github.com/corray333/backend-labs/dukan/internal/transport/http/response"
	"github.com/go-playground/validator/v10"
)

// service is an interface for the service layer.
type service interface {
	Create(ctx context.Context, in order.Intake) (order.Order, error)
}

// itemInCreateOrderRequest represents an item in a create order request.
type itemInCreateOrderRequest struct {
	ProductID string `json:"productId" validate:"required"`
	Quantity  int    `json:"quantity"  validate:"gt=0"`
}

type customerInCreateOrderRequest struct {
	Name           string `json:"name"           validate:"required,max=120"`
	WhatsappNumber string `json:"whatsappNumber" validate:"max=32"`
	Address        string `json:"address"        validate:"required,max=300"`
}

// createOrderRequest represents a create order request.
type createOrderRequest struct {
	Customer      customerInCreateOrderRequest `json:"customer"`
	Items         []itemInCreateOrderRequest   `json:"items"         validate:"required,min=1,dive"`
	PaymentMethod string                       `json:"paymentMethod" validate:"required,oneof=COD UPI"`
}

var validate = validator.New()

// Validate validates the create order request.
func (r *createOrderRequest) Validate() error {
	return validate.Struct(r)
}

// toModel converts createOrderRequest to order.Intake.
func (r *createOrderRequest) toModel() order.Intake {
	items := make([]order.IntakeItem, len(r.Items))
	for i, item := range r.Items {
		items[i] = order.IntakeItem{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
		}
	}

	return order.Intake{
		Customer: order.Customer{
			Name:           r.Customer.Name,
			WhatsappNumber: r.Customer.WhatsappNumber,
			Address:        r.Customer.Address,
		},
		Items:         items,
		PaymentMethod: order.PaymentMethod(r.PaymentMethod),
	}
}

// CreateOrder handles a manually entered order.
func CreateOrder(w http.ResponseWriter, r *http.Request, service service) {
	req := createOrderRequest{}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, r, err)

		return
	}

	if err := req.Validate(); err != nil {
		response.BadRequest(w, r, err)

		return
	}

	created, err := service.Create(r.Context(), req.toModel())
	if err != nil {
		response.Error(w, r, err)

		return
	}

	response.JSON(w, http.StatusCreated, created)
}
