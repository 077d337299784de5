package encoding

import (
	"context"
	"sync"

	"github.com/kailas-cloud/recommender/internal/domain"
)

// SerializedEncoder funnels every call through one mutex for encoders that
// are not safe for concurrent use. The index read path never takes this lock.
type SerializedEncoder struct {
	mu    sync.Mutex
	inner domain.Encoder
}

// NewSerializedEncoder wraps inner with a single acquisition point.
func NewSerializedEncoder(inner domain.Encoder) *SerializedEncoder {
	return &SerializedEncoder{inner: inner}
}

// Encode calls the inner encoder while holding the lock.
func (s *SerializedEncoder) Encode(ctx context.Context, text string) (domain.EncodeResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.inner.Encode(ctx, text) //nolint:wrapcheck // transparent decorator
}

// HealthCheck delegates to the inner encoder when it supports health checks.
func (s *SerializedEncoder) HealthCheck(ctx context.Context) error {
	if hc, ok := s.inner.(domain.HealthChecker); ok {
		s.mu.Lock()
		defer s.mu.Unlock()
		return hc.HealthCheck(ctx) //nolint:wrapcheck // transparent decorator
	}
	return nil
}
