package genai

import (
	"context"
	"errors"
	"fmt"
	"iter"
	"log/slog"
	"net/http"
	"os"

	iinsight "github.com/corray333/backend-labs/dukan/internal/dal/interfaces/iinsightsource"
	"github.com/corray333/backend-labs/dukan/internal/service/models/insight"
	"github.com/spf13/viper"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	"google.golang.org/genai"
)

const DefaultModel = "gemini-2.5-flash"

var ErrNotConfigured = errors.New("insight source is not configured")

// Client streams insight completions from the Gemini API.
type Client struct {
	client *genai.Client
	model  string
}

// NewClient creates a Gemini client for the given model.
func NewClient(ctx context.Context, apiKey, model string) (*Client, error) {
	if apiKey == "" {
		return nil, ErrNotConfigured
	}
	if model == "" {
		model = DefaultModel
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create genai client: %w", err)
	}

	return &Client{
		client: client,
		model:  model,
	}, nil
}

// MustNewClient creates a client from DUKAN_GEMINI_API_KEY and
// insights.model. Without an API key it returns a source that always fails,
// so the dashboard shows the fetch error record instead of crashing.
func MustNewClient(ctx context.Context) iinsight.IInsightSource {
	client, err := NewClient(ctx, os.Getenv("DUKAN_GEMINI_API_KEY"), viper.GetString("insights.model"))
	if errors.Is(err, ErrNotConfigured) {
		slog.Warn("Gemini API key is not set, insights are disabled")

		return Disabled{}
	}
	if err != nil {
		panic(err)
	}

	slog.Info("Gemini client created", "model", client.model)

	return client
}

// Stream yields the text of every streamed response chunk.
func (c *Client) Stream(ctx context.Context, req insight.Request) iter.Seq2[string, error] {
	return func(yield func(string, error) bool) {
		ctx, span := otel.Tracer("genai-client").Start(ctx, "Client.Stream")
		defer span.End()

		config := &genai.GenerateContentConfig{
			SystemInstruction: genai.NewContentFromText(req.SystemInstruction, genai.RoleUser),
		}

		for resp, err := range c.client.Models.GenerateContentStream(ctx, c.model, genai.Text(req.Prompt), config) {
			if err != nil {
				span.SetStatus(codes.Error, err.Error())
				yield("", classify(err))

				return
			}
			if !yield(resp.Text(), nil) {
				return
			}
		}
	}
}

// classify marks quota errors so callers can tell them apart.
func classify(err error) error {
	var apiErr genai.APIError
	if errors.As(err, &apiErr) &&
		(apiErr.Code == http.StatusTooManyRequests || apiErr.Status == "RESOURCE_EXHAUSTED") {
		return fmt.Errorf("%w: %w", insight.ErrQuotaExceeded, err)
	}

	return err
}

// Disabled is a source without credentials. Every stream fails at once.
type Disabled struct{}

func (Disabled) Stream(context.Context, insight.Request) iter.Seq2[string, error] {
	return func(yield func(string, error) bool) {
		yield("", ErrNotConfigured)
	}
}
