package getmetrics

import (
	"net/http"

	"github.com/corray333/backend-labs/dukan/internal/service/models/metrics"
	"github.com/corray333/backend-labs/dukan/internal/transport/http/response"
	"github.com/gorilla/schema"
)

type service interface {
	Dashboard() metrics.Dashboard
	Sales(r metrics.Range) (metrics.Sales, error)
}

type salesRequest struct {
	Range string `schema:"range,omitempty"`
}

func (q *salesRequest) toModel() (metrics.Range, error) {
	if q.Range == "" {
		return metrics.RangeWeek, nil
	}

	return metrics.ParseRange(q.Range)
}

var decoder = func() *schema.Decoder {
	d := schema.NewDecoder()
	d.IgnoreUnknownKeys(true)

	return d
}()

func Dashboard(w http.ResponseWriter, _ *http.Request, service service) {
	response.JSON(w, http.StatusOK, service.Dashboard())
}

// Sales summarises ?range=today|week|month, the week by default.
func Sales(w http.ResponseWriter, r *http.Request, service service) {
	query := &salesRequest{}
	if err := decoder.Decode(query, r.URL.Query()); err != nil {
		response.BadRequest(w, r, err)

		return
	}

	rng, err := query.toModel()
	if err != nil {
		response.Error(w, r, err)

		return
	}

	sales, err := service.Sales(rng)
	if err != nil {
		response.Error(w, r, err)

		return
	}

	response.JSON(w, http.StatusOK, sales)
}
