package updateorderstatus

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/corray333/backend-labs/dukan/internal/service/models/order"
	"github.com/corray333/backend-labs/dukan/internal/transport/http/response"
	"github.com/go-chi/chi/v5"
)

type service interface {
	UpdateStatus(ctx context.Context, orderID string, status order.Status) (order.Order, error)
}

type updateStatusRequest struct {
	Status string `json:"status"`
}

// updateStatusResponse carries the order and, when the stock write failed
// after the status was applied, the alert to show.
type updateStatusResponse struct {
	Order order.Order `json:"order"`
	Error string      `json:"error,omitempty"`
}

// UpdateStatus moves an order to the requested status.
func UpdateStatus(w http.ResponseWriter, r *http.Request, service service) {
	req := updateStatusRequest{}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, r, err)

		return
	}

	orderID := chi.URLParam(r, "id")
	updated, err := service.UpdateStatus(r.Context(), orderID, order.Status(req.Status))
	switch {
	case err == nil:
		response.JSON(w, http.StatusOK, updateStatusResponse{Order: updated})
	case updated.ID != "":
		slog.ErrorContext(r.Context(), "Status applied but stock was not saved", "order_id", orderID, "error", err)
		response.JSON(w, response.Status(err), updateStatusResponse{
			Order: updated,
			Error: response.StorageFullMessage,
		})
	default:
		response.Error(w, r, err)
	}
}
