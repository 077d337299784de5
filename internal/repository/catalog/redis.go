package catalog

import (
	"context"
	"errors"
	"fmt"

	"github.com/kailas-cloud/recommender/internal/db"
	"github.com/kailas-cloud/recommender/internal/domain"
	domcat "github.com/kailas-cloud/recommender/internal/domain/catalog"
)

// kvStore is the consumer interface for the Redis-backed source.
type kvStore interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
}

// RedisSource reads a catalog stored as a JSON array under one key.
type RedisSource struct {
	store kvStore
	key   string
}

// NewRedisSource creates a Redis-backed source.
func NewRedisSource(store kvStore, key string) *RedisSource {
	return &RedisSource{store: store, key: key}
}

// Load fetches and validates the catalog. A missing key is an empty catalog.
func (s *RedisSource) Load(ctx context.Context) ([]domcat.Item, error) {
	data, err := s.store.Get(ctx, s.key)
	if err != nil {
		if errors.Is(err, db.ErrKeyNotFound) {
			return []domcat.Item{}, nil
		}
		return nil, fmt.Errorf("%w: get %s: %w", domain.ErrCatalogSource, s.key, err)
	}
	return decodeJSON(data)
}

// Save replaces the stored catalog.
func (s *RedisSource) Save(ctx context.Context, items []domcat.Item) error {
	data, err := encodeJSON(items)
	if err != nil {
		return err
	}
	if err := s.store.Set(ctx, s.key, data); err != nil {
		return fmt.Errorf("%w: set %s: %w", domain.ErrCatalogSource, s.key, err)
	}
	return nil
}
