// Package response writes JSON bodies and maps service errors to status codes.
package response

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/corray333/backend-labs/dukan/internal/dal/interfaces/ikvstore"
	"github.com/corray333/backend-labs/dukan/internal/service/models/metrics"
	"github.com/corray333/backend-labs/dukan/internal/service/models/order"
	"github.com/corray333/backend-labs/dukan/internal/service/services/countdownsvc"
	"github.com/corray333/backend-labs/dukan/internal/service/services/inventorysvc"
	"github.com/corray333/backend-labs/dukan/internal/service/services/ordersvc"
	"github.com/corray333/backend-labs/dukan/internal/service/services/paymentsvc"
	"github.com/corray333/backend-labs/dukan/internal/service/services/settingssvc"
)

// StorageFullMessage is shown when a catalog write is refused by the store.
const StorageFullMessage = "Error: Your device storage is full. Cannot save new product data. " +
	"Please try removing some older products or images."

// ErrorBody is the payload of every error response.
type ErrorBody struct {
	Error string `json:"error"`
}

// JSON writes v with the given status.
func JSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("Error sending response", "error", err)
	}
}

// BadRequest answers 400 for a body or query that could not be decoded.
func BadRequest(w http.ResponseWriter, r *http.Request, err error) {
	slog.ErrorContext(r.Context(), "Error decoding request", "path", r.URL.Path, "error", err)
	JSON(w, http.StatusBadRequest, ErrorBody{Error: err.Error()})
}

// Error answers with the status Status picks for err.
func Error(w http.ResponseWriter, r *http.Request, err error) {
	status := Status(err)
	msg := err.Error()
	if status == http.StatusInsufficientStorage {
		msg = StorageFullMessage
	}

	if status >= http.StatusInternalServerError {
		slog.ErrorContext(r.Context(), "Request failed", "path", r.URL.Path, "status", status, "error", err)
	} else {
		slog.WarnContext(r.Context(), "Request rejected", "path", r.URL.Path, "status", status, "error", err)
	}
	JSON(w, status, ErrorBody{Error: msg})
}

// Status maps a service error to an HTTP status.
func Status(err error) int {
	var transition order.ErrInvalidTransition

	switch {
	case errors.Is(err, inventorysvc.ErrPersist), errors.Is(err, ikvstore.ErrQuotaExceeded):
		return http.StatusInsufficientStorage
	case errors.Is(err, ordersvc.ErrOrderNotFound),
		errors.Is(err, inventorysvc.ErrProductNotFound):
		return http.StatusNotFound
	case errors.As(err, &transition),
		errors.Is(err, ordersvc.ErrDuplicateOrder),
		errors.Is(err, countdownsvc.ErrNotPending),
		errors.Is(err, paymentsvc.ErrNotPayable):
		return http.StatusConflict
	case errors.Is(err, ordersvc.ErrInvalidOrder),
		errors.Is(err, order.ErrInvalidStatus),
		errors.Is(err, inventorysvc.ErrInvalidProduct),
		errors.Is(err, settingssvc.ErrInvalidSettings),
		errors.Is(err, settingssvc.ErrUnknownNotification),
		errors.Is(err, metrics.ErrInvalidRange),
		errors.Is(err, countdownsvc.ErrInvalidView):
		return http.StatusBadRequest
	case errors.Is(err, settingssvc.ErrNoLowStock),
		errors.Is(err, settingssvc.ErrSupplierMissing),
		errors.Is(err, paymentsvc.ErrNoContact):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}
