package recommender

import (
	"context"
	"fmt"

	"github.com/kailas-cloud/recommender/internal/domain"
	"github.com/kailas-cloud/recommender/internal/encoder/hashing"
)

// Encoder converts text into a fixed-length vector.
// Implementations must be safe for concurrent use.
type Encoder interface {
	Encode(ctx context.Context, text string) (EncodeResult, error)
}

// EncodeResult carries the vector and optional token usage.
type EncodeResult struct {
	Vector      []float32
	TotalTokens int
}

// NewHashingEncoder returns the built-in offline encoder: FNV-hashed
// bag-of-words, L2-normalised. dim <= 0 selects 384.
func NewHashingEncoder(dim int) Encoder {
	return &hashingEncoder{inner: hashing.New(dim)}
}

type hashingEncoder struct {
	inner *hashing.Encoder
}

func (h *hashingEncoder) Encode(ctx context.Context, text string) (EncodeResult, error) {
	r, err := h.inner.Encode(ctx, text)
	if err != nil {
		return EncodeResult{}, err
	}
	return EncodeResult{Vector: r.Vector, TotalTokens: r.TotalTokens}, nil
}

// encoderAdapter wraps a public Encoder to satisfy domain.Encoder.
type encoderAdapter struct {
	inner Encoder
}

func (a *encoderAdapter) Encode(ctx context.Context, text string) (domain.EncodeResult, error) {
	r, err := a.inner.Encode(ctx, text)
	if err != nil {
		return domain.EncodeResult{}, fmt.Errorf("%w: %w", domain.ErrEncoderFailure, err)
	}
	return domain.EncodeResult{
		Vector:      r.Vector,
		TotalTokens: r.TotalTokens,
	}, nil
}
