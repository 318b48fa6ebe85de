package insightsvc

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"iter"
	"log/slog"
	"strings"
	"sync"
	"time"

	iinsight "github.com/corray333/backend-labs/dukan/internal/dal/interfaces/iinsightsource"
	"github.com/corray333/backend-labs/dukan/internal/service/models/insight"
	"github.com/corray333/backend-labs/dukan/internal/service/models/product"
	"github.com/sony/gobreaker/v2"
	"go.opentelemetry.io/otel"
)

const systemInstructionTemplate = `You are an expert AI business advisor for a small Kirana (grocery) store owner in India. Your task is to generate five creative, actionable, and concise insights based on their inventory. The store owner is not technical, so make the advice easy to understand.

**RESPONSE FORMAT RULES (MANDATORY):**
*   You MUST provide EXACTLY FIVE insights.
*   Each insight MUST be a single, valid JSON object on its own line. Use newline characters ('\n') to separate them.
*   DO NOT use markdown (like ` + "```json" + `), and DO NOT wrap the list in a JSON array ` + "`[]`" + `.
*   Each JSON object must have three keys: "icon", "title", and "description".
*   The text for "title" and "description" MUST be in the %s language.

**ICON SELECTION:**
For the "icon" key, you MUST use one of these Material Symbols Outlined names: 'warning', 'lightbulb', 'local_fire_department', 'trending_up', 'inventory', 'sell', 'groups'. Choose the most relevant icon for each insight.

**INSIGHT GUIDELINES:**
Generate a mix of insights. At least one should be a low-stock alert if any product has 10 or fewer items. For the others, be creative. Think about combo deals, seasonal trends (like weather or festivals in India), sales forecasts, and customer engagement tips. Your advice should be practical and highly relevant to a small store in India.`

type catalog interface {
	Products() []product.Product
}

type languageSource interface {
	Language(ctx context.Context) (string, error)
}

// BreakerSettings tunes the circuit breaker around the insight source.
type BreakerSettings struct {
	// MaxFailures consecutive failures open the breaker.
	MaxFailures uint32
	// OpenTimeout is how long the breaker stays open before a trial call.
	OpenTimeout time.Duration
}

// InsightService asks the model for merchandising insights and keeps the
// latest set for the dashboard.
type InsightService struct {
	source   iinsight.IInsightSource
	catalog  catalog
	language languageSource
	breaker  *gobreaker.TwoStepCircuitBreaker[struct{}]

	mu         sync.RWMutex
	insights   []insight.Insight
	loading    bool
	generation uint64
}

// option is a function that configures the InsightService.
type option func(*InsightService)

// MustNewInsightService creates a new InsightService.
func MustNewInsightService(opts ...option) *InsightService {
	s := &InsightService{
		insights: []insight.Insight{},
	}
	for _, opt := range opts {
		opt(s)
	}

	if s.source == nil {
		panic("insight service requires a source")
	}
	if s.breaker == nil {
		WithBreaker(BreakerSettings{})(s)
	}

	return s
}

// WithSource sets the model the insights come from.
//
//goland:noinspection GoExportedFuncWithUnexportedType
func WithSource(source iinsight.IInsightSource) option {
	return func(s *InsightService) {
		s.source = source
	}
}

// WithCatalog sets where Refresh reads products from.
//
//goland:noinspection GoExportedFuncWithUnexportedType
func WithCatalog(c catalog) option {
	return func(s *InsightService) {
		s.catalog = c
	}
}

// WithLanguageSource sets where Refresh reads the selected language from.
//
//goland:noinspection GoExportedFuncWithUnexportedType
func WithLanguageSource(l languageSource) option {
	return func(s *InsightService) {
		s.language = l
	}
}

// WithBreaker configures the circuit breaker. Zero values use 3 failures
// and a one minute open period.
//
//goland:noinspection GoExportedFuncWithUnexportedType
func WithBreaker(settings BreakerSettings) option {
	return func(s *InsightService) {
		if settings.MaxFailures == 0 {
			settings.MaxFailures = 3
		}
		if settings.OpenTimeout == 0 {
			settings.OpenTimeout = time.Minute
		}

		s.breaker = gobreaker.NewTwoStepCircuitBreaker[struct{}](gobreaker.Settings{
			Name:    "insights",
			Timeout: settings.OpenTimeout,
			ReadyToTrip: func(counts gobreaker.Counts) bool {
				return counts.ConsecutiveFailures >= settings.MaxFailures
			},
			OnStateChange: func(name string, from, to gobreaker.State) {
				slog.Warn("Circuit breaker state changed", "name", name, "from", from.String(), "to", to.String())
			},
		})
	}
}

// Generate streams insights for products written in the given language.
// Failures end the sequence with a single error record.
func (s *InsightService) Generate(
	ctx context.Context,
	products []product.Product,
	languageCode string,
) iter.Seq[insight.Insight] {
	return func(yield func(insight.Insight) bool) {
		if len(products) == 0 {
			yield(insight.EmptyCatalog)

			return
		}

		ctx, span := otel.Tracer("service").Start(ctx, "InsightService.Generate")
		defer span.End()

		done, err := s.breaker.Allow()
		if err != nil {
			slog.Warn("Insight source unavailable", "error", err)
			yield(insight.FetchFailed)

			return
		}

		req, err := buildRequest(products, languageCode)
		if err != nil {
			done(err)
			slog.Error("Failed to build insight request", "error", err)
			yield(insight.FetchFailed)

			return
		}

		streamErr := decode(s.source.Stream(ctx, req), yield)
		if errors.Is(streamErr, errStopped) {
			done(nil)

			return
		}
		if streamErr != nil && ctx.Err() != nil {
			// the caller gave up; the source is not at fault
			done(nil)
			slog.Info("Insight generation cancelled", "error", ctx.Err())

			return
		}
		done(streamErr)

		if streamErr != nil {
			slog.Error("Failed to generate insights", "error", streamErr)
			yield(errorRecord(streamErr))
		}
	}
}

// Refresh regenerates the cached insights from the current catalog and
// language. The cache is cleared first and grows as records arrive; the
// records are also yielded to the caller. A newer refresh supersedes an
// older one still running.
func (s *InsightService) Refresh(ctx context.Context) iter.Seq[insight.Insight] {
	return func(yield func(insight.Insight) bool) {
		s.mu.Lock()
		s.generation++
		generation := s.generation
		s.insights = []insight.Insight{}
		s.loading = true
		s.mu.Unlock()

		defer func() {
			s.mu.Lock()
			if s.generation == generation {
				s.loading = false
			}
			s.mu.Unlock()
		}()

		var products []product.Product
		if s.catalog != nil {
			products = s.catalog.Products()
		}

		lang := ""
		if s.language != nil {
			code, err := s.language.Language(ctx)
			if err != nil {
				slog.Error("Failed to read language", "error", err)
			}
			lang = code
		}

		stopped := false
		for record := range s.Generate(ctx, products, lang) {
			s.mu.Lock()
			if s.generation == generation {
				s.insights = append(s.insights, record)
			}
			s.mu.Unlock()

			if !stopped && !yield(record) {
				// keep filling the cache after the caller goes away
				stopped = true
			}
		}
	}
}

// Snapshot returns the cached insights and whether a refresh is running.
func (s *InsightService) Snapshot() ([]insight.Insight, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return append([]insight.Insight(nil), s.insights...), s.loading
}

type productSummary struct {
	Name  string `json:"name"`
	Stock int    `json:"stock"`
	Price string `json:"price"`
}

func buildRequest(products []product.Product, languageCode string) (insight.Request, error) {
	summaries := make([]productSummary, 0, len(products))
	for _, p := range products {
		summaries = append(summaries, productSummary{Name: p.Name, Stock: p.Stock, Price: p.Price})
	}

	data, err := json.Marshal(summaries)
	if err != nil {
		return insight.Request{}, fmt.Errorf("failed to encode products: %w", err)
	}

	return insight.Request{
		SystemInstruction: fmt.Sprintf(systemInstructionTemplate, LanguageName(languageCode)),
		Prompt: fmt.Sprintf(
			"Here is the current inventory data: %s. Please generate 5 insights based on this data.",
			data,
		),
	}, nil
}

var errStopped = errors.New("consumer stopped")

// decode splits the chunk stream into lines and yields every line that
// parses as an insight. Blank and malformed lines are skipped. It returns
// the stream error, or errStopped when yield asked to stop.
func decode(chunks iter.Seq2[string, error], yield func(insight.Insight) bool) error {
	var buffer strings.Builder

	emit := func(line string) bool {
		line = strings.TrimSpace(line)
		if line == "" {
			return true
		}

		var record insight.Insight
		if err := json.Unmarshal([]byte(line), &record); err != nil || !record.Valid() {
			slog.Warn("Could not parse insight from stream", "line", line, "error", err)

			return true
		}

		return yield(record)
	}

	for chunk, err := range chunks {
		if err != nil {
			return err
		}

		buffer.WriteString(chunk)
		pending := buffer.String()
		for {
			newline := strings.IndexByte(pending, '\n')
			if newline < 0 {
				break
			}
			if !emit(pending[:newline]) {
				return errStopped
			}
			pending = pending[newline+1:]
		}
		buffer.Reset()
		buffer.WriteString(pending)
	}

	if !emit(buffer.String()) {
		return errStopped
	}

	return nil
}

func errorRecord(err error) insight.Insight {
	msg := err.Error()
	if errors.Is(err, insight.ErrQuotaExceeded) ||
		strings.Contains(msg, "429") ||
		strings.Contains(msg, "RESOURCE_EXHAUSTED") {
		return insight.QuotaExceeded
	}

	return insight.FetchFailed
}
