// Package orderview drives the auto-reject countdown of a NEW order while
// one of its views is on screen.
package orderview

import (
	"net/http"

	"github.com/corray333/backend-labs/dukan/internal/service/services/countdownsvc"
	"github.com/corray333/backend-labs/dukan/internal/transport/http/response"
	"github.com/go-chi/chi/v5"
	"github.com/gorilla/schema"
)

type service interface {
	Start(orderID, view string) error
	Cancel(orderID, view string) bool
	Remaining(orderID, view string) (int, bool)
}

type viewRequest struct {
	View string `schema:"view,omitempty"`
}

type countdownResponse struct {
	OrderID        string `json:"orderId"`
	View           string `json:"view"`
	Running        bool   `json:"running"`
	RemainingTicks int    `json:"remainingTicks"`
	TotalTicks     int    `json:"totalTicks"`
}

var decoder = func() *schema.Decoder {
	d := schema.NewDecoder()
	d.IgnoreUnknownKeys(true)

	return d
}()

// view reads the view id from the query. The details view is the default.
func view(r *http.Request) (string, error) {
	query := &viewRequest{}
	if err := decoder.Decode(query, r.URL.Query()); err != nil {
		return "", err
	}
	if query.View == "" {
		return countdownsvc.ViewDetails, nil
	}

	return query.View, nil
}

func Open(w http.ResponseWriter, r *http.Request, service service) {
	v, err := view(r)
	if err != nil {
		response.BadRequest(w, r, err)

		return
	}
	if err := service.Start(chi.URLParam(r, "id"), v); err != nil {
		response.Error(w, r, err)

		return
	}

	Countdown(w, r, service)
}

func Close(w http.ResponseWriter, r *http.Request, service service) {
	v, err := view(r)
	if err != nil {
		response.BadRequest(w, r, err)

		return
	}
	service.Cancel(chi.URLParam(r, "id"), v)
	w.WriteHeader(http.StatusNoContent)
}

func Countdown(w http.ResponseWriter, r *http.Request, service service) {
	v, err := view(r)
	if err != nil {
		response.BadRequest(w, r, err)

		return
	}
	orderID := chi.URLParam(r, "id")
	remaining, running := service.Remaining(orderID, v)

	response.JSON(w, http.StatusOK, countdownResponse{
		OrderID:        orderID,
		View:           v,
		Running:        running,
		RemainingTicks: remaining,
		TotalTicks:     countdownsvc.TotalTicks,
	})
}
