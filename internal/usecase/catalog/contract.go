package catalog

import (
	"context"

	"github.com/kailas-cloud/recommender/internal/domain"
	domcat "github.com/kailas-cloud/recommender/internal/domain/catalog"
	"github.com/kailas-cloud/recommender/internal/domain/index"
)

// Loader reads a catalog snapshot from its source.
type Loader interface {
	Load(ctx context.Context) ([]domcat.Item, error)
}

// Encoder vectorizes item text.
type Encoder interface {
	Encode(ctx context.Context, text string) (domain.EncodeResult, error)
}

// Publisher makes a freshly built index visible to readers.
type Publisher interface {
	Swap(next *index.Index) *index.Index
}
