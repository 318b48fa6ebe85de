package products

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/corray333/backend-labs/dukan/internal/service/models/product"
	"github.com/corray333/backend-labs/dukan/internal/service/services/inventorysvc"
	"github.com/corray333/backend-labs/dukan/internal/transport/http/response"
	"github.com/go-chi/chi/v5"
	"github.com/gorilla/schema"
)

type service interface {
	Products() []product.Product
	LowStock(threshold int) []product.Product
	Add(ctx context.Context, in product.Input) (product.Product, error)
	Update(ctx context.Context, id string, in product.Input) (product.Product, error)
	Delete(ctx context.Context, id string) error
}

type lowStockRequest struct {
	Threshold int `schema:"threshold,omitempty"`
}

var decoder = func() *schema.Decoder {
	d := schema.NewDecoder()
	d.IgnoreUnknownKeys(true)

	return d
}()

func List(w http.ResponseWriter, _ *http.Request, service service) {
	response.JSON(w, http.StatusOK, service.Products())
}

// LowStock lists products below ?threshold=, 10 by default.
func LowStock(w http.ResponseWriter, r *http.Request, service service) {
	query := &lowStockRequest{}
	if err := decoder.Decode(query, r.URL.Query()); err != nil {
		response.BadRequest(w, r, err)

		return
	}
	if query.Threshold <= 0 {
		query.Threshold = inventorysvc.DefaultLowStockThreshold
	}

	response.JSON(w, http.StatusOK, service.LowStock(query.Threshold))
}

func Create(w http.ResponseWriter, r *http.Request, service service) {
	in := product.Input{}
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		response.BadRequest(w, r, err)

		return
	}

	created, err := service.Add(r.Context(), in)
	if err != nil {
		response.Error(w, r, err)

		return
	}

	response.JSON(w, http.StatusCreated, created)
}

func Update(w http.ResponseWriter, r *http.Request, service service) {
	in := product.Input{}
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		response.BadRequest(w, r, err)

		return
	}

	updated, err := service.Update(r.Context(), chi.URLParam(r, "id"), in)
	if err != nil {
		response.Error(w, r, err)

		return
	}

	response.JSON(w, http.StatusOK, updated)
}

func Delete(w http.ResponseWriter, r *http.Request, service service) {
	if err := service.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		response.Error(w, r, err)

		return
	}

	w.WriteHeader(http.StatusNoContent)
}
