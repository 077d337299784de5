// Package index holds the immutable catalog index: items aligned with their vectors.
package index

import (
	"fmt"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/kailas-cloud/recommender/internal/domain"
	"github.com/kailas-cloud/recommender/internal/domain/catalog"
	"github.com/kailas-cloud/recommender/internal/domain/vector"
)

// Index is a read-only sequence of (item, vector) pairs.
// items[i] corresponds to vectors[i]; all vectors share one dimension.
type Index struct {
	snapshotID string
	builtAt    time.Time
	items      []catalog.Item
	vectors    []vector.Vector
	byID       map[int64]int
	dim        int
}

// Scored is an item with its similarity to a query and its catalog position.
type Scored struct {
	Item     catalog.Item
	Score    float64
	Position int
}

// New validates alignment, id uniqueness and dimensionality, then creates an Index.
// Inputs are copied; the caller may reuse its slices.
func New(items []catalog.Item, vectors []vector.Vector) (*Index, error) {
	if len(items) != len(vectors) {
		return nil, fmt.Errorf("%w: %d items but %d vectors", domain.ErrIndexBuild, len(items), len(vectors))
	}

	byID := make(map[int64]int, len(items))
	for i, it := range items {
		if _, dup := byID[it.ID()]; dup {
			return nil, fmt.Errorf("%w: %w", domain.ErrIndexBuild, domain.NewDuplicateItem(it.ID()))
		}
		byID[it.ID()] = i
	}

	dim := 0
	vecs := make([]vector.Vector, len(vectors))
	for i, v := range vectors {
		if i == 0 {
			dim = len(v)
		} else if len(v) != dim {
			return nil, fmt.Errorf("%w: item %d: %w",
				domain.ErrIndexBuild, items[i].ID(), domain.NewDimensionMismatch(dim, len(v)))
		}
		vecs[i] = vector.Clone(v)
	}

	return &Index{
		snapshotID: uuid.NewString(),
		builtAt:    time.Now().UTC(),
		items:      append([]catalog.Item(nil), items...),
		vectors:    vecs,
		byID:       byID,
		dim:        dim,
	}, nil
}

// Empty returns an index over zero items.
func Empty() *Index {
	idx, _ := New(nil, nil)
	return idx
}

// SnapshotID identifies this build of the index.
func (x *Index) SnapshotID() string { return x.snapshotID }

// BuiltAt returns the build timestamp (UTC).
func (x *Index) BuiltAt() time.Time { return x.builtAt }

// Size returns the number of indexed items.
func (x *Index) Size() int { return len(x.items) }

// Dimensions returns the shared vector length (0 for an empty index).
func (x *Index) Dimensions() int { return x.dim }

// Item returns the item at catalog position i.
func (x *Index) Item(i int) catalog.Item { return x.items[i] }

// Items returns a copy of the items in catalog order.
func (x *Index) Items() []catalog.Item {
	return append([]catalog.Item(nil), x.items...)
}

// Lookup finds an item by id.
func (x *Index) Lookup(id int64) (catalog.Item, bool) {
	i, ok := x.byID[id]
	if !ok {
		return catalog.Item{}, false
	}
	return x.items[i], true
}

// ScoreAll scores the query against every indexed vector, in catalog order.
func (x *Index) ScoreAll(query vector.Vector) ([]Scored, error) {
	out := make([]Scored, len(x.items))
	for i := range x.items {
		s, err := vector.Cosine(query, x.vectors[i])
		if err != nil {
			return nil, fmt.Errorf("score item %d: %w", x.items[i].ID(), err)
		}
		out[i] = Scored{Item: x.items[i], Score: s, Position: i}
	}
	return out, nil
}

// Holder publishes the current index. Readers never block; a rebuild swaps
// in a whole new Index.
type Holder struct {
	current atomic.Pointer[Index]
}

// NewHolder creates a Holder, optionally seeded with an index.
func NewHolder(initial *Index) *Holder {
	h := &Holder{}
	if initial != nil {
		h.current.Store(initial)
	}
	return h
}

// Current returns the published index, or nil before the first Swap.
func (h *Holder) Current() *Index { return h.current.Load() }

// Swap publishes next and returns the previous index.
func (h *Holder) Swap(next *Index) *Index { return h.current.Swap(next) }
