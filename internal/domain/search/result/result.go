// Package result holds the ranked recommendation output.
package result

import "github.com/kailas-cloud/recommender/internal/domain/catalog"

// Hit is a single recommended item.
type Hit struct {
	item     catalog.Item
	score    float64
	hasScore bool
}

// NewHit creates a hit carrying a similarity score.
func NewHit(item catalog.Item, score float64) Hit {
	return Hit{item: item, score: score, hasScore: true}
}

// NewUnscoredHit creates a hit without a score (fallback path).
func NewUnscoredHit(item catalog.Item) Hit {
	return Hit{item: item}
}

// Item returns the recommended item.
func (h *Hit) Item() catalog.Item { return h.item }

// Score returns the similarity score and whether one was computed.
func (h *Hit) Score() (float64, bool) { return h.score, h.hasScore }

// Result is an ordered recommendation list.
type Result struct {
	hits     []Hit
	fallback bool
}

// New creates a result.
func New(hits []Hit, fallback bool) Result {
	return Result{hits: hits, fallback: fallback}
}

// Hits returns the ordered hits.
func (r *Result) Hits() []Hit { return r.hits }

// Len returns the number of hits.
func (r *Result) Len() int { return len(r.hits) }

// Fallback reports whether the list is the unfiltered fallback rather than a ranking.
func (r *Result) Fallback() bool { return r.fallback }

// IDs returns hit item ids in order.
func (r *Result) IDs() []int64 {
	ids := make([]int64, len(r.hits))
	for i := range r.hits {
		ids[i] = r.hits[i].item.ID()
	}
	return ids
}
