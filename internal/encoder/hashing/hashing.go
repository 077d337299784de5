// Package hashing is an offline bag-of-words encoder: each token is hashed
// (FNV-1a) into one of dim buckets and the counts are L2-normalised.
// It needs no network, is deterministic and safe for concurrent use.
package hashing

import (
	"context"
	"fmt"
	"hash/fnv"
	"math"
	"strings"
	"unicode"

	"github.com/kailas-cloud/recommender/internal/domain"
)

// DefaultDimensions is used when the configured dimension is not positive.
const DefaultDimensions = 384

// Encoder implements domain.Encoder.
type Encoder struct {
	dim       int
	stopwords map[string]struct{}
}

// New creates a hashing encoder producing dim-length vectors.
func New(dim int) *Encoder {
	if dim <= 0 {
		dim = DefaultDimensions
	}
	return &Encoder{dim: dim, stopwords: defaultStopwords()}
}

// Dimensions returns the vector length.
func (e *Encoder) Dimensions() int { return e.dim }

// Encode tokenizes text and returns the normalised bucket histogram.
// Text without tokens yields an all-zero vector. TotalTokens reports the
// number of tokens that contributed.
func (e *Encoder) Encode(ctx context.Context, text string) (domain.EncodeResult, error) {
	if err := ctx.Err(); err != nil {
		return domain.EncodeResult{}, fmt.Errorf("hashing encode: %w", err)
	}

	vec := make([]float32, e.dim)
	tokens := 0
	for _, tok := range tokenize(text) {
		if _, stop := e.stopwords[tok]; stop {
			continue
		}
		h := fnv.New32a()
		_, _ = h.Write([]byte(tok))
		vec[h.Sum32()%uint32(e.dim)]++
		tokens++
	}

	var sumSq float64
	for _, v := range vec {
		sumSq += float64(v) * float64(v)
	}
	if sumSq > 0 {
		inv := float32(1 / math.Sqrt(sumSq))
		for i := range vec {
			vec[i] *= inv
		}
	}

	return domain.EncodeResult{Vector: vec, PromptTokens: tokens, TotalTokens: tokens}, nil
}

// tokenize lower-cases text and splits it on anything that is not a letter or digit.
func tokenize(text string) []string {
	return strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}

func defaultStopwords() map[string]struct{} {
	words := []string{
		"a", "an", "and", "are", "as", "at", "be", "by", "for", "from", "in", "is",
		"it", "of", "on", "or", "that", "the", "this", "to", "with", "i", "me", "my",
		"want", "need", "show", "looking", "some",
	}
	m := make(map[string]struct{}, len(words))
	for _, w := range words {
		m[w] = struct{}{}
	}
	return m
}
