// Package orderpayment serves the pickup actions of an order: the UPI
// payment request, its confirmation and the customer's chat link.
package orderpayment

import (
	"context"
	"net/http"

	"github.com/corray333/backend-labs/dukan/internal/service/models/order"
	"github.com/corray333/backend-labs/dukan/internal/service/models/payment"
	"github.com/corray333/backend-labs/dukan/internal/transport/http/response"
	"github.com/go-chi/chi/v5"
)

type service interface {
	PaymentRequest(ctx context.Context, orderID string) (payment.Request, error)
	ConfirmPayment(ctx context.Context, orderID string) (order.Order, error)
	Contact(ctx context.Context, orderID string) (payment.Contact, error)
}

func PaymentRequest(w http.ResponseWriter, r *http.Request, service service) {
	req, err := service.PaymentRequest(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		response.Error(w, r, err)

		return
	}

	response.JSON(w, http.StatusOK, req)
}

// ConfirmPayment marks the order paid and completed.
func ConfirmPayment(w http.ResponseWriter, r *http.Request, service service) {
	o, err := service.ConfirmPayment(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		response.Error(w, r, err)

		return
	}

	response.JSON(w, http.StatusOK, o)
}

func Contact(w http.ResponseWriter, r *http.Request, service service) {
	c, err := service.Contact(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		response.Error(w, r, err)

		return
	}

	response.JSON(w, http.StatusOK, c)
}
