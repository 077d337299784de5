// Package vector holds the similarity math shared by the index and the retriever.
package vector

import (
	"math"

	"github.com/kailas-cloud/recommender/internal/domain"
)

// Epsilon keeps the cosine denominator non-zero for all-zero vectors.
const Epsilon = 1e-10

// Vector is a fixed-length embedding. Never mutated after creation.
type Vector []float32

// Cosine returns dot(q, c) / (|q|*|c| + Epsilon).
// The result is finite for any pair of finite vectors of equal length.
func Cosine(q, c Vector) (float64, error) {
	if len(q) != len(c) {
		return 0, domain.NewDimensionMismatch(len(q), len(c))
	}
	return dot(q, c) / (Norm(q)*Norm(c) + Epsilon), nil
}

// Norm returns the L2 norm computed in float64.
func Norm(v Vector) float64 {
	return math.Sqrt(dot(v, v))
}

// Clone returns an independent copy.
func Clone(v []float32) Vector {
	if v == nil {
		return nil
	}
	out := make(Vector, len(v))
	copy(out, v)
	return out
}

func dot(a, b Vector) float64 {
	var s float64
	for i := range a {
		s += float64(a[i]) * float64(b[i])
	}
	return s
}
