package domain

import (
	"context"
	"fmt"
)

// Encoder is the shared text vectorization contract between layers.
// Implementations must be deterministic: equal text yields an equal vector.
type Encoder interface {
	Encode(ctx context.Context, text string) (EncodeResult, error)
}

// HealthChecker verifies encoder provider availability.
type HealthChecker interface {
	HealthCheck(ctx context.Context) error
}

// EncodeResult carries the vector and token usage through the decorator chain.
type EncodeResult struct {
	Vector       []float32
	PromptTokens int
	TotalTokens  int
}

// InstructionEncoder is a domain decorator that prepends instruction text before encoding.
type InstructionEncoder struct {
	inner       Encoder
	instruction string
}

// NewInstructionEncoder creates a decorator that prepends instruction text.
func NewInstructionEncoder(inner Encoder, instruction string) *InstructionEncoder {
	return &InstructionEncoder{inner: inner, instruction: instruction}
}

// Encode prepends instruction and delegates to inner encoder.
func (e *InstructionEncoder) Encode(ctx context.Context, text string) (EncodeResult, error) {
	result, err := e.inner.Encode(ctx, e.instruction+text)
	if err != nil {
		return EncodeResult{}, fmt.Errorf("instruction encode: %w", err)
	}
	return result, nil
}

// HealthCheck delegates to the inner encoder when it supports health checks.
func (e *InstructionEncoder) HealthCheck(ctx context.Context) error {
	if hc, ok := e.inner.(HealthChecker); ok {
		return hc.HealthCheck(ctx) //nolint:wrapcheck // transparent decorator
	}
	return nil
}
