package health

import (
	"context"

	"github.com/kailas-cloud/recommender/internal/domain/index"
)

// SourcePinger checks catalog source availability.
type SourcePinger interface {
	Ping(ctx context.Context) error
}

// EncoderChecker checks encoder provider availability.
type EncoderChecker interface {
	HealthCheck(ctx context.Context) error
}

// IndexReader exposes the published catalog index.
type IndexReader interface {
	Current() *index.Index
}
