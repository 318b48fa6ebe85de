package iinsight

import (
	"context"
	"iter"

	"github.com/corray333/backend-labs/dukan/internal/service/models/insight"
)

// IInsightSource streams raw model output for an insight request. The
// stream ends at the first error.
type IInsightSource interface {
	Stream(ctx context.Context, req insight.Request) iter.Seq2[string, error]
}
