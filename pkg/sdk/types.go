package recommender

import (
	domcat "github.com/kailas-cloud/recommender/internal/domain/catalog"
	"github.com/kailas-cloud/recommender/internal/domain/search/result"
)

// Product is a catalog item. Price is in currency minor units.
type Product struct {
	ID          int64
	Name        string
	Price       int64
	Category    string
	Image       string
	Description string
}

// Query describes one recommendation request.
// Nil fields and an empty Category impose no constraint.
// TopK nil selects the default; an explicit value <= 0 yields the fallback list.
type Query struct {
	Text          string
	TopK          *int
	Category      string
	MinPrice      *int64
	MaxPrice      *int64
	IncludeScores bool
}

// Recommendation is one ranked product.
type Recommendation struct {
	Product  Product
	Score    float64
	HasScore bool
}

// Result is an ordered recommendation list.
type Result struct {
	Items    []Recommendation
	Fallback bool
}

// IDs returns product ids in result order.
func (r Result) IDs() []int64 {
	ids := make([]int64, len(r.Items))
	for i, it := range r.Items {
		ids[i] = it.Product.ID
	}
	return ids
}

// Int returns a pointer to v, for Query.TopK.
func Int(v int) *int { return &v }

// Int64 returns a pointer to v, for Query price bounds.
func Int64(v int64) *int64 { return &v }

func productToDomain(p Product) (domcat.Item, error) {
	return domcat.New(p.ID, p.Name, p.Price, p.Category, p.Image, p.Description)
}

func productFromDomain(it domcat.Item) Product {
	return Product{
		ID:          it.ID(),
		Name:        it.Name(),
		Price:       it.Price(),
		Category:    it.Category(),
		Image:       it.Image(),
		Description: it.Description(),
	}
}

func resultFromDomain(r *result.Result) Result {
	hits := r.Hits()
	out := Result{Items: make([]Recommendation, len(hits)), Fallback: r.Fallback()}
	for i := range hits {
		score, ok := hits[i].Score()
		out.Items[i] = Recommendation{
			Product:  productFromDomain(hits[i].Item()),
			Score:    score,
			HasScore: ok,
		}
	}
	return out
}
