// Package session forwards UI state to the order simulator.
package session

import (
	"encoding/json"
	"net/http"

	"github.com/corray333/backend-labs/dukan/internal/transport/http/response"
	"github.com/corray333/backend-labs/dukan/internal/worker/simulator"
)

type service interface {
	MarkInteraction()
	SetScreen(screen simulator.Screen)
	SetModalOpen(open bool)
	Popup() (string, bool)
}

type screenRequest struct {
	Screen string `json:"screen"`
}

type modalRequest struct {
	Open bool `json:"open"`
}

type popupResponse struct {
	Pending bool   `json:"pending"`
	OrderID string `json:"orderId,omitempty"`
}

func Interaction(w http.ResponseWriter, _ *http.Request, service service) {
	service.MarkInteraction()
	w.WriteHeader(http.StatusNoContent)
}

func Screen(w http.ResponseWriter, r *http.Request, service service) {
	req := screenRequest{}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, r, err)

		return
	}

	screen, err := simulator.ParseScreen(req.Screen)
	if err != nil {
		response.BadRequest(w, r, err)

		return
	}

	service.SetScreen(screen)
	w.WriteHeader(http.StatusNoContent)
}

func Modal(w http.ResponseWriter, r *http.Request, service service) {
	req := modalRequest{}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, r, err)

		return
	}

	service.SetModalOpen(req.Open)
	w.WriteHeader(http.StatusNoContent)
}

// Popup reports the simulated order waiting in the new-order popup.
func Popup(w http.ResponseWriter, _ *http.Request, service service) {
	orderID, pending := service.Popup()
	response.JSON(w, http.StatusOK, popupResponse{Pending: pending, OrderID: orderID})
}
