// Package filter holds the attribute predicates applied to ranked candidates.
package filter

import "github.com/kailas-cloud/recommender/internal/domain/catalog"

// Spec is a conjunction of optional constraints. A nil field is unconstrained,
// so the zero Spec matches every item.
type Spec struct {
	Category *string
	MinPrice *int64 // inclusive
	MaxPrice *int64 // inclusive
}

// NewSpec builds a Spec. An empty category means no category constraint.
func NewSpec(category string, minPrice, maxPrice *int64) Spec {
	var s Spec
	if category != "" {
		c := category
		s.Category = &c
	}
	if minPrice != nil {
		v := *minPrice
		s.MinPrice = &v
	}
	if maxPrice != nil {
		v := *maxPrice
		s.MaxPrice = &v
	}
	return s
}

// IsEmpty reports whether s has no constraints.
func (s Spec) IsEmpty() bool {
	return s.Category == nil && s.MinPrice == nil && s.MaxPrice == nil
}

// Matches reports whether item satisfies every present constraint.
// Category comparison is exact and case-sensitive. minPrice > maxPrice is
// legal and matches nothing.
func (s Spec) Matches(item catalog.Item) bool {
	if s.Category != nil && item.Category() != *s.Category {
		return false
	}
	if s.MinPrice != nil && item.Price() < *s.MinPrice {
		return false
	}
	if s.MaxPrice != nil && item.Price() > *s.MaxPrice {
		return false
	}
	return true
}
