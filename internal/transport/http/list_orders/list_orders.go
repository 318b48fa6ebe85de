package listorders

import (
	"net/http"

	"github.com/corray333/backend-labs/dukan/internal/service/models/order"
	"github.com/corray333/backend-labs/dukan/internal/transport/http/response"
	"github.com/go-chi/chi/v5"
	"github.com/gorilla/schema"
)

type service interface {
	List(filter order.Filter) []order.Order
	Order(id string) (order.Order, error)
}

type queryOrdersRequest struct {
	Filter string `schema:"filter,omitempty"`
}

func (q *queryOrdersRequest) toModel() (order.Filter, error) {
	return order.ParseFilter(q.Filter)
}

var decoder = func() *schema.Decoder {
	d := schema.NewDecoder()
	d.IgnoreUnknownKeys(true)

	return d
}()

// ListOrders returns the orders of one tab, newest first.
func ListOrders(w http.ResponseWriter, r *http.Request, service service) {
	query := &queryOrdersRequest{}
	if err := decoder.Decode(query, r.URL.Query()); err != nil {
		response.BadRequest(w, r, err)

		return
	}

	filter, err := query.toModel()
	if err != nil {
		response.BadRequest(w, r, err)

		return
	}

	response.JSON(w, http.StatusOK, service.List(filter))
}

func GetOrder(w http.ResponseWriter, r *http.Request, service service) {
	o, err := service.Order(chi.URLParam(r, "id"))
	if err != nil {
		response.Error(w, r, err)

		return
	}

	response.JSON(w, http.StatusOK, o)
}
