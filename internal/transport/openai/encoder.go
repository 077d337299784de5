package openai

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	openai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	"github.com/kailas-cloud/recommender/internal/domain"
	"github.com/kailas-cloud/recommender/internal/metrics"
)

// Encoder is a vector encoder using an OpenAI-compatible embeddings API.
type Encoder struct {
	client     *openai.Client
	model      openai.EmbeddingModel
	dimensions int
	user       string
	provider   string
	logger     *zap.Logger
}

// Config holds the encoder provider settings.
type Config struct {
	APIKey     string
	BaseURL    string
	Model      string
	Dimensions int
	User       string
	Provider   string
	Logger     *zap.Logger
}

// NewEncoder creates an OpenAI-compatible encoder.
func NewEncoder(cfg *Config) *Encoder {
	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}

	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Encoder{
		client:     openai.NewClientWithConfig(clientCfg),
		model:      openai.EmbeddingModel(cfg.Model),
		dimensions: cfg.Dimensions,
		user:       cfg.User,
		provider:   cfg.Provider,
		logger:     logger,
	}
}

// Encode implements domain.Encoder. Returns the vector and usage with transport-level metrics.
// The call is made once; retries are left to the caller.
func (e *Encoder) Encode(ctx context.Context, text string) (domain.EncodeResult, error) {
	req := openai.EmbeddingRequest{
		Input:          []string{text},
		Model:          e.model,
		EncodingFormat: openai.EmbeddingEncodingFormatFloat,
		User:           e.user,
	}
	if e.dimensions > 0 {
		req.Dimensions = e.dimensions
	}

	start := time.Now()
	resp, err := e.client.CreateEmbeddings(ctx, req)
	duration := time.Since(start)

	model := string(e.model)
	if err != nil {
		metrics.EncoderRequestsTotal.WithLabelValues(e.provider, model, "error").Inc()
		metrics.EncoderErrorsTotal.WithLabelValues(e.provider, model, "api_error").Inc()
		return domain.EncodeResult{}, parseAPIError(err)
	}

	if len(resp.Data) == 0 {
		metrics.EncoderRequestsTotal.WithLabelValues(e.provider, model, "error").Inc()
		metrics.EncoderErrorsTotal.WithLabelValues(e.provider, model, "empty_response").Inc()
		return domain.EncodeResult{}, fmt.Errorf("empty embedding response: %w", domain.ErrEncoderFailure)
	}

	metrics.EncoderRequestsTotal.WithLabelValues(e.provider, model, "success").Inc()
	metrics.EncoderRequestDuration.WithLabelValues(e.provider, model).Observe(duration.Seconds())

	if resp.Usage.TotalTokens > 0 {
		metrics.EncoderTokensTotal.WithLabelValues(e.provider, model, "prompt").Add(float64(resp.Usage.PromptTokens))
		metrics.EncoderTokensTotal.WithLabelValues(e.provider, model, "total").Add(float64(resp.Usage.TotalTokens))
	}

	return domain.EncodeResult{
		Vector:       resp.Data[0].Embedding,
		PromptTokens: resp.Usage.PromptTokens,
		TotalTokens:  resp.Usage.TotalTokens,
	}, nil
}

// HealthCheck verifies API availability via ListModels (free endpoint).
func (e *Encoder) HealthCheck(ctx context.Context) error {
	if _, err := e.client.ListModels(ctx); err != nil {
		return fmt.Errorf("list models: %w", err)
	}
	return nil
}

// parseAPIError extracts a human-readable error from the API response.
// All errors are wrapped with domain.ErrEncoderFailure for correct 502 mapping.
func parseAPIError(err error) error {
	wrap := domain.ErrEncoderFailure

	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		if detail := extractDetail(reqErr.Body); detail != "" {
			return fmt.Errorf("embedding API error %d: %s: %w", reqErr.HTTPStatusCode, detail, wrap)
		}
		return fmt.Errorf("embedding API error %d: %s: %w", reqErr.HTTPStatusCode, string(reqErr.Body), wrap)
	}

	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return fmt.Errorf("embedding API error %d: %s: %w", apiErr.HTTPStatusCode, apiErr.Message, wrap)
	}

	return fmt.Errorf("embedding request failed: %w", wrap)
}

// extractDetail extracts the "detail" field from a JSON error body.
func extractDetail(body []byte) string {
	var parsed struct {
		Detail string `json:"detail"`
	}
	if json.Unmarshal(body, &parsed) == nil && parsed.Detail != "" {
		return parsed.Detail
	}
	return ""
}
