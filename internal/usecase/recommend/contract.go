package recommend

import (
	"context"

	"github.com/kailas-cloud/recommender/internal/domain"
	"github.com/kailas-cloud/recommender/internal/domain/index"
)

// IndexReader exposes the currently published catalog index.
type IndexReader interface {
	Current() *index.Index
}

// Encoder vectorizes query text.
type Encoder interface {
	Encode(ctx context.Context, text string) (domain.EncodeResult, error)
}
