// Package request holds the validated recommendation query.
package request

import (
	"fmt"

	"github.com/kailas-cloud/recommender/internal/domain/search/filter"
)

// Recommendation parameter limits.
const (
	// MaxQueryLength is the maximum allowed query length in bytes.
	MaxQueryLength = 4096
	DefaultTopK    = 5
	MaxTopK        = 100
)

// Request is a recommendation query.
type Request struct {
	query         string
	topK          int
	filter        filter.Spec
	includeScores bool
}

// Limits bounds top_k for one deployment.
type Limits struct {
	DefaultTopK int
	MaxTopK     int
}

// DefaultLimits returns DefaultTopK and MaxTopK.
func DefaultLimits() Limits {
	return Limits{DefaultTopK: DefaultTopK, MaxTopK: MaxTopK}
}

// New creates a Request with DefaultLimits.
func New(query string, topK *int, spec filter.Spec, includeScores bool) (Request, error) {
	return DefaultLimits().New(query, topK, spec, includeScores)
}

// New creates a Request. A nil topK takes l.DefaultTopK; values above l.MaxTopK
// are clamped. Non-positive values pass through unchanged: the retriever
// collects nothing for them and answers with the fallback list.
// An empty query is allowed.
func (l Limits) New(query string, topK *int, spec filter.Spec, includeScores bool) (Request, error) {
	if len(query) > MaxQueryLength {
		return Request{}, fmt.Errorf("query too long (max %d bytes)", MaxQueryLength)
	}
	k := l.DefaultTopK
	if topK != nil {
		k = *topK
	}
	if l.MaxTopK > 0 && k > l.MaxTopK {
		k = l.MaxTopK
	}
	return Request{query: query, topK: k, filter: spec, includeScores: includeScores}, nil
}

// Query returns the raw query text.
func (r *Request) Query() string { return r.query }

// TopK returns the maximum number of primary results.
func (r *Request) TopK() int { return r.topK }

// Filter returns the attribute constraints.
func (r *Request) Filter() filter.Spec { return r.filter }

// IncludeScores reports whether similarity scores should be exposed.
func (r *Request) IncludeScores() bool { return r.includeScores }
