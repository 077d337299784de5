package recommender

import (
	"context"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/kailas-cloud/recommender/internal/domain"
	domcat "github.com/kailas-cloud/recommender/internal/domain/catalog"
	"github.com/kailas-cloud/recommender/internal/domain/index"
	"github.com/kailas-cloud/recommender/internal/domain/search/filter"
	"github.com/kailas-cloud/recommender/internal/domain/search/request"
	cataloguc "github.com/kailas-cloud/recommender/internal/usecase/catalog"
	recommenduc "github.com/kailas-cloud/recommender/internal/usecase/recommend"
)

// Recommender ranks an in-memory product catalog against text queries.
// It is safe for concurrent use; Rebuild swaps the catalog atomically.
type Recommender struct {
	indexes   *index.Holder
	catalog   *cataloguc.Service
	recommend *recommenduc.Service
	limits    request.Limits
	obs       *observer

	mu      sync.RWMutex
	skipped []int64
}

// New encodes products and returns a ready Recommender.
// Products are validated first; an invalid product fails with ErrInvalidItem
// and duplicate ids fail with ErrIndexBuild. Products whose encoding fails are
// left out of the index and reported by Skipped.
func New(ctx context.Context, products []Product, opts ...Option) (*Recommender, error) {
	cfg := config{
		buildConcurrency: cataloguc.DefaultConcurrency,
		defaultTopK:      request.DefaultTopK,
		maxTopK:          request.MaxTopK,
	}
	for _, o := range opts {
		o.apply(&cfg)
	}
	if cfg.encoder == nil {
		cfg.encoder = NewHashingEncoder(cfg.dimensions)
	}
	if cfg.defaultTopK <= 0 {
		cfg.defaultTopK = request.DefaultTopK
	}

	obs, err := newObserver(cfg.logger, cfg.metricsReg)
	if err != nil {
		return nil, err
	}

	enc := &encoderAdapter{inner: cfg.encoder}
	holder := index.NewHolder(index.Empty())
	r := &Recommender{
		indexes:   holder,
		catalog:   cataloguc.New(enc, nil, holder, nil).WithConcurrency(cfg.buildConcurrency),
		recommend: recommenduc.New(holder, enc, nil),
		limits:    request.Limits{DefaultTopK: cfg.defaultTopK, MaxTopK: cfg.maxTopK},
		obs:       obs,
	}
	if err := r.Rebuild(ctx, products); err != nil {
		return nil, err
	}
	return r, nil
}

// Rebuild replaces the catalog. On error the previous catalog stays in place.
func (r *Recommender) Rebuild(ctx context.Context, products []Product) (err error) {
	start := time.Now()
	var report cataloguc.BuildReport
	defer func() {
		r.obs.observe("build", start, err,
			"products", len(products), "indexed", report.Items, "skipped", report.Skipped)
	}()

	items := make([]domcat.Item, len(products))
	for i, p := range products {
		it, err := productToDomain(p)
		if err != nil {
			return fmt.Errorf("%w: %w", domain.ErrInvalidItem, err)
		}
		items[i] = it
	}

	idx, report, err := r.catalog.Build(ctx, items)
	if err != nil {
		return err
	}
	r.indexes.Swap(idx)

	r.mu.Lock()
	r.skipped = report.SkippedIDs
	r.mu.Unlock()
	return nil
}

// Recommend ranks the catalog against q.
func (r *Recommender) Recommend(ctx context.Context, q Query) (res Result, err error) {
	start := time.Now()
	defer func() {
		r.obs.observe("recommend", start, err, "results", len(res.Items), "fallback", res.Fallback)
	}()

	req, err := r.limits.New(q.Text, q.TopK, filter.NewSpec(q.Category, q.MinPrice, q.MaxPrice), q.IncludeScores)
	if err != nil {
		return Result{}, err
	}
	out, err := r.recommend.Recommend(ctx, &req)
	if err != nil {
		return Result{}, err
	}
	res = resultFromDomain(&out)
	if res.Fallback {
		r.obs.fallback()
	}
	return res, nil
}

// Product returns the product with the given id or ErrProductNotFound.
func (r *Recommender) Product(id int64) (Product, error) {
	it, ok := r.indexes.Current().Lookup(id)
	if !ok {
		return Product{}, fmt.Errorf("product %d: %w", id, domain.ErrProductNotFound)
	}
	return productFromDomain(it), nil
}

// Products returns the indexed products in catalog order.
func (r *Recommender) Products() []Product {
	items := r.indexes.Current().Items()
	out := make([]Product, len(items))
	for i, it := range items {
		out[i] = productFromDomain(it)
	}
	return out
}

// Size returns the number of indexed products.
func (r *Recommender) Size() int { return r.indexes.Current().Size() }

// Skipped returns ids left out of the last build because encoding failed.
func (r *Recommender) Skipped() []int64 {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return slices.Clone(r.skipped)
}
