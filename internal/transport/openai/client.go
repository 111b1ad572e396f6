// Package openai adapts the OpenAI API to the image-search collaborators: a vision
// model that describes a product photo and an embedding model for the description.
package openai

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	openai "github.com/sashabaranov/go-openai"

	"github.com/Sergio973-web/buscador-mega/internal/domain"
	"github.com/Sergio973-web/buscador-mega/internal/metrics"
)

// Operation labels.
const (
	opDescribe = "describe"
	opEmbed    = "embed"
)

// Config holds the OpenAI settings.
type Config struct {
	APIKey         string
	BaseURL        string // empty = api.openai.com
	VisionModel    string
	EmbeddingModel string
	Dimensions     int
	Prompt         string
	HTTPClient     *http.Client // optional; nil = SDK default
}

// Client implements domain.Describer, domain.Embedder and domain.HealthChecker.
type Client struct {
	api            *openai.Client
	visionModel    string
	embeddingModel openai.EmbeddingModel
	dimensions     int
	prompt         string
}

var (
	_ domain.Describer     = (*Client)(nil)
	_ domain.Embedder      = (*Client)(nil)
	_ domain.HealthChecker = (*Client)(nil)
)

// NewClient creates an OpenAI-compatible client.
func NewClient(cfg *Config) *Client {
	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}
	if cfg.HTTPClient != nil {
		clientCfg.HTTPClient = cfg.HTTPClient
	}

	return &Client{
		api:            openai.NewClientWithConfig(clientCfg),
		visionModel:    cfg.VisionModel,
		embeddingModel: openai.EmbeddingModel(cfg.EmbeddingModel),
		dimensions:     cfg.Dimensions,
		prompt:         cfg.Prompt,
	}
}

// HealthCheck verifies API availability via ListModels (free endpoint).
func (c *Client) HealthCheck(ctx context.Context) error {
	if _, err := c.api.ListModels(ctx); err != nil {
		return fmt.Errorf("list models: %w", err)
	}
	return nil
}

func observe(op, model string, start time.Time, err error, errType string) {
	if err != nil {
		metrics.OpenAIRequestsTotal.WithLabelValues(op, model, "error").Inc()
		metrics.OpenAIErrorsTotal.WithLabelValues(op, model, errType).Inc()
		return
	}
	metrics.OpenAIRequestsTotal.WithLabelValues(op, model, "success").Inc()
	metrics.OpenAIRequestDuration.WithLabelValues(op, model).Observe(time.Since(start).Seconds())
}

func recordTokens(op, model string, prompt, total int) {
	if total <= 0 {
		return
	}
	metrics.OpenAITokensTotal.WithLabelValues(op, model, "prompt").Add(float64(prompt))
	metrics.OpenAITokensTotal.WithLabelValues(op, model, "total").Add(float64(total))
}

// parseAPIError extracts a human-readable error from the API response and wraps
// it with the operation's sentinel so the transport maps it consistently.
func parseAPIError(op string, err error, wrap error) error {
	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		if detail := extractDetail(reqErr.Body); detail != "" {
			return fmt.Errorf("%s API error %d: %s: %w", op, reqErr.HTTPStatusCode, detail, wrap)
		}
		return fmt.Errorf("%s API error %d: %w", op, reqErr.HTTPStatusCode, wrap)
	}

	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return fmt.Errorf("%s API error %d: %s: %w", op, apiErr.HTTPStatusCode, apiErr.Message, wrap)
	}

	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%s request: %w: %w", op, err, wrap)
	}
	return fmt.Errorf("%s request failed: %w", op, wrap)
}

// extractDetail reads the "detail" field some OpenAI-compatible gateways return.
func extractDetail(body []byte) string {
	var parsed struct {
		Detail string `json:"detail"`
	}
	if json.Unmarshal(body, &parsed) == nil && parsed.Detail != "" {
		return parsed.Detail
	}
	return ""
}
