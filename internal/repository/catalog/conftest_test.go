package catalog

import (
	"context"
	"os"
	"path/filepath"
	"testing"
)

// mockStore implements the consumer interface for tests.
type mockStore struct {
	getFn func(ctx context.Context, key string) ([]byte, error)
	setFn func(ctx context.Context, key string, value []byte) error
}

func (m *mockStore) Get(ctx context.Context, key string) ([]byte, error) {
	if m.getFn != nil {
		return m.getFn(ctx, key)
	}
	return nil, nil
}

func (m *mockStore) Set(ctx context.Context, key string, value []byte) error {
	if m.setFn != nil {
		return m.setFn(ctx, key, value)
	}
	return nil
}

const sampleJSON = `[
  {"id": 1, "name": "Silk Saree", "price": 4500, "category": "ethnic", "image": "silk.jpg", "description": "Handwoven"},
  {"id": 2, "name": "Blue Jeans", "price": 1999, "category": "casual"},
  {"id": 3, "name": "Cotton Saree", "price": 3500, "category": "ethnic"}
]`

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}
