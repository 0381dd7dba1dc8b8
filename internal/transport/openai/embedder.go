// Package openai adapts an OpenAI-compatible embeddings API to the
// ranking engine's QueryEmbedder contract.
package openai

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	openai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	"github.com/kailas-cloud/bookrec/internal/domain"
	"github.com/kailas-cloud/bookrec/internal/metrics"
)

const backendLabel = "embedding"

// Embedder vectorizes query text via an OpenAI-compatible API.
type Embedder struct {
	client     *openai.Client
	model      openai.EmbeddingModel
	dimensions int
	logger     *zap.Logger
}

// Config holds the embedding provider settings.
type Config struct {
	APIKey     string
	BaseURL    string
	Model      string
	Dimensions int
	Logger     *zap.Logger
}

// NewEmbedder creates an OpenAI-compatible embedding provider.
func NewEmbedder(cfg *Config) *Embedder {
	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}

	return &Embedder{
		client:     openai.NewClientWithConfig(clientCfg),
		model:      openai.EmbeddingModel(cfg.Model),
		dimensions: cfg.Dimensions,
		logger:     cfg.Logger,
	}
}

// Embed implements rank.QueryEmbedder. Failures are mapped onto the
// backend error taxonomy so the orchestrator can distinguish outages,
// timeouts, and rejected requests.
func (e *Embedder) Embed(ctx context.Context, text string) (domain.Vector, error) {
	req := openai.EmbeddingRequest{
		Input:          []string{text},
		Model:          e.model,
		EncodingFormat: openai.EmbeddingEncodingFormatFloat,
	}
	if e.dimensions > 0 {
		req.Dimensions = e.dimensions
	}

	start := time.Now()
	resp, err := e.client.CreateEmbeddings(ctx, req)
	duration := time.Since(start)

	if err != nil {
		metrics.ScoringRequestsTotal.WithLabelValues(backendLabel, "error").Inc()
		e.logger.Warn("Embedding request failed",
			zap.String("model", string(e.model)), zap.Error(err))
		return nil, classifyAPIError(err)
	}
	if len(resp.Data) == 0 {
		metrics.ScoringRequestsTotal.WithLabelValues(backendLabel, "error").Inc()
		return nil, fmt.Errorf("empty embedding response: %w", domain.ErrBackendUnavailable)
	}

	metrics.ScoringRequestsTotal.WithLabelValues(backendLabel, "success").Inc()
	metrics.ScoringRequestDuration.WithLabelValues(backendLabel).Observe(duration.Seconds())

	return domain.Vector(resp.Data[0].Embedding), nil
}

// HealthCheck verifies API availability via ListModels (free endpoint).
func (e *Embedder) HealthCheck(ctx context.Context) error {
	if _, err := e.client.ListModels(ctx); err != nil {
		return fmt.Errorf("list models: %w", err)
	}
	return nil
}

// classifyAPIError maps transport failures onto the backend taxonomy.
// Client errors (4xx) become rejections with the provider message kept
// verbatim; everything else is an outage or a timeout.
func classifyAPIError(err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%w: %w", domain.ErrBackendTimeout, err)
	}

	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		return statusError(reqErr.HTTPStatusCode, errorDetail(reqErr.Body, reqErr.Error()))
	}

	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return statusError(apiErr.HTTPStatusCode, apiErr.Message)
	}

	return fmt.Errorf("embedding request failed: %w", domain.ErrBackendUnavailable)
}

func statusError(status int, message string) error {
	if status >= http.StatusBadRequest && status < http.StatusInternalServerError {
		return fmt.Errorf("%w: embedding API error %d: %s", domain.ErrBackendRejected, status, message)
	}
	return fmt.Errorf("%w: embedding API error %d: %s", domain.ErrBackendUnavailable, status, message)
}

// errorDetail extracts the "detail" field some providers put in JSON
// error bodies, falling back to the raw error string.
func errorDetail(body []byte, fallback string) string {
	var parsed struct {
		Detail string `json:"detail"`
	}
	if json.Unmarshal(body, &parsed) == nil && parsed.Detail != "" {
		return parsed.Detail
	}
	return fallback
}
