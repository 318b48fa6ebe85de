package insight

import "errors"

// ErrQuotaExceeded marks a source error caused by an exhausted provider quota.
var ErrQuotaExceeded = errors.New("insight quota exceeded")

// Request is what an insight source is asked to complete.
type Request struct {
	SystemInstruction string
	Prompt            string
}

// Insight is one merchandising suggestion shown on the dashboard.
type Insight struct {
	Icon        string `json:"icon"`
	Title       string `json:"title"`
	Description string `json:"description"`
}

// Valid reports whether the record carries enough to be rendered.
func (i Insight) Valid() bool {
	return i.Title != "" && i.Description != ""
}

var (
	// EmptyCatalog is returned instead of calling the model when there are no products.
	EmptyCatalog = Insight{
		Icon:        "add_shopping_cart",
		Title:       "Add Your First Product",
		Description: "Add products to your catalog to start getting AI insights.",
	}

	// FetchFailed is the synthetic record emitted when the stream fails.
	FetchFailed = Insight{
		Icon:        "error",
		Title:       "Could Not Fetch Insights",
		Description: "There was an issue connecting to the AI service. Please try again later.",
	}

	// QuotaExceeded replaces FetchFailed when the provider reports exhausted quota.
	QuotaExceeded = Insight{
		Icon:        "error",
		Title:       "AI Quota Exceeded",
		Description: "You have used your daily AI insights quota. Please check your plan to upgrade.",
	}
)
