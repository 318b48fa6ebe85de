package insights

import (
	"context"
	"encoding/json"
	"iter"
	"log/slog"
	"net/http"

	"github.com/corray333/backend-labs/dukan/internal/service/models/insight"
	"github.com/corray333/backend-labs/dukan/internal/transport/http/response"
)

type service interface {
	Refresh(ctx context.Context) iter.Seq[insight.Insight]
	Snapshot() ([]insight.Insight, bool)
}

type snapshotResponse struct {
	Insights []insight.Insight `json:"insights"`
	Loading  bool              `json:"loading"`
}

// Get returns the cached insights.
func Get(w http.ResponseWriter, _ *http.Request, service service) {
	insights, loading := service.Snapshot()
	if insights == nil {
		insights = []insight.Insight{}
	}

	response.JSON(w, http.StatusOK, snapshotResponse{Insights: insights, Loading: loading})
}

// Refresh regenerates the insights and streams each one as an NDJSON line
// as soon as it is decoded. The refresh outlives the request so the cache
// is complete even if the client disconnects.
func Refresh(w http.ResponseWriter, r *http.Request, service service) {
	w.Header().Set("Content-Type", "application/x-ndjson")
	w.Header().Set("Cache-Control", "no-cache")
	w.WriteHeader(http.StatusOK)

	flusher, _ := w.(http.Flusher)
	enc := json.NewEncoder(w)
	for record := range service.Refresh(context.WithoutCancel(r.Context())) {
		if err := enc.Encode(record); err != nil {
			slog.ErrorContext(r.Context(), "Error streaming insight", "error", err)

			return
		}
		if flusher != nil {
			flusher.Flush()
		}
	}
}
