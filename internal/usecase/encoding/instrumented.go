package encoding

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/recommender/internal/domain"
	"github.com/kailas-cloud/recommender/internal/metrics"
)

// InstrumentedEncoder wraps an Encoder with logging and, for providers that
// do not record transport metrics themselves, request metrics.
type InstrumentedEncoder struct {
	inner         domain.Encoder
	provider      string
	model         string
	recordMetrics bool
	logger        *zap.Logger
}

// NewInstrumentedEncoder wraps an encoder with observability.
func NewInstrumentedEncoder(inner domain.Encoder, provider, model string, logger *zap.Logger) *InstrumentedEncoder {
	return &InstrumentedEncoder{
		inner:    inner,
		provider: provider,
		model:    model,
		logger:   logger,
	}
}

// WithMetrics enables request/duration/token metrics in this layer.
// Leave disabled for encoders that already record them (transport/openai).
func (p *InstrumentedEncoder) WithMetrics() *InstrumentedEncoder {
	p.recordMetrics = true
	return p
}

// Encode delegates to the inner encoder, records usage and logs the outcome.
func (p *InstrumentedEncoder) Encode(ctx context.Context, text string) (domain.EncodeResult, error) {
	start := time.Now()

	result, err := p.inner.Encode(ctx, text)

	duration := time.Since(start)

	if err != nil {
		if p.recordMetrics {
			metrics.EncoderRequestsTotal.WithLabelValues(p.provider, p.model, "error").Inc()
			metrics.EncoderErrorsTotal.WithLabelValues(p.provider, p.model, "encode_error").Inc()
		}
		p.logger.Error("Encode request failed",
			zap.String("provider", p.provider),
			zap.String("model", p.model),
			zap.Duration("duration", duration),
			zap.Error(err),
		)
		return domain.EncodeResult{}, fmt.Errorf("encode: %w", err)
	}

	if p.recordMetrics {
		metrics.EncoderRequestsTotal.WithLabelValues(p.provider, p.model, "success").Inc()
		metrics.EncoderRequestDuration.WithLabelValues(p.provider, p.model).Observe(duration.Seconds())
		if result.TotalTokens > 0 {
			metrics.EncoderTokensTotal.WithLabelValues(p.provider, p.model, "total").Add(float64(result.TotalTokens))
		}
	}

	p.logger.Debug("Encode request completed",
		zap.String("provider", p.provider),
		zap.String("model", p.model),
		zap.Duration("duration", duration),
		zap.Int("dimensions", len(result.Vector)),
		zap.Int("total_tokens", result.TotalTokens),
	)

	return result, nil
}

// HealthCheck delegates to the inner encoder when it supports health checks.
func (p *InstrumentedEncoder) HealthCheck(ctx context.Context) error {
	if hc, ok := p.inner.(domain.HealthChecker); ok {
		if err := hc.HealthCheck(ctx); err != nil {
			return fmt.Errorf("encoder health: %w", err)
		}
	}
	return nil
}
