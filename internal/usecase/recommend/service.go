package recommend

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/recommender/internal/domain"
	domcat "github.com/kailas-cloud/recommender/internal/domain/catalog"
	"github.com/kailas-cloud/recommender/internal/domain/index"
	"github.com/kailas-cloud/recommender/internal/domain/search/request"
	"github.com/kailas-cloud/recommender/internal/domain/search/result"
	"github.com/kailas-cloud/recommender/internal/metrics"
)

// FallbackSize is the number of catalog-order items returned when nothing qualifies.
const FallbackSize = 3

// Service ranks catalog items against free-text queries.
type Service struct {
	indexes IndexReader
	encoder Encoder
	logger  *zap.Logger
}

// New creates a recommend service.
func New(indexes IndexReader, encoder Encoder, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{indexes: indexes, encoder: encoder, logger: logger}
}

// Recommend returns up to req.TopK() items ordered by descending similarity,
// ties broken by catalog position. If no item passes the filter, the first
// FallbackSize catalog items are returned instead with Fallback set.
func (s *Service) Recommend(ctx context.Context, req *request.Request) (result.Result, error) {
	idx, err := s.current()
	if err != nil {
		return result.Result{}, err
	}

	// An empty index has nothing to rank; the query is not encoded.
	if idx.Size() == 0 {
		metrics.RecommendationsTotal.WithLabelValues("fallback").Inc()
		return result.New([]result.Hit{}, true), nil
	}

	enc, err := s.encoder.Encode(ctx, strings.ToLower(req.Query()))
	if err != nil {
		return result.Result{}, fmt.Errorf("vectorize query: %w", err)
	}
	domain.UsageFromContext(ctx).AddTokens(enc.TotalTokens)

	start := time.Now()
	defer func() { metrics.RecommendationDuration.Observe(time.Since(start).Seconds()) }()

	scored, err := idx.ScoreAll(enc.Vector)
	if err != nil {
		return result.Result{}, fmt.Errorf("score catalog: %w", err)
	}

	sort.SliceStable(scored, func(i, j int) bool {
		if scored[i].Score != scored[j].Score {
			return scored[i].Score > scored[j].Score
		}
		return scored[i].Position < scored[j].Position
	})

	spec := req.Filter()
	hits := make([]result.Hit, 0, max(req.TopK(), 0))
	for i := range scored {
		if len(hits) >= req.TopK() {
			break
		}
		if !spec.Matches(scored[i].Item) {
			continue
		}
		if req.IncludeScores() {
			hits = append(hits, result.NewHit(scored[i].Item, scored[i].Score))
		} else {
			hits = append(hits, result.NewUnscoredHit(scored[i].Item))
		}
	}

	if len(hits) > 0 {
		metrics.RecommendationsTotal.WithLabelValues("primary").Inc()
		return result.New(hits, false), nil
	}

	n := min(FallbackSize, idx.Size())
	fallback := make([]result.Hit, n)
	for i := range n {
		fallback[i] = result.NewUnscoredHit(idx.Item(i))
	}
	metrics.RecommendationsTotal.WithLabelValues("fallback").Inc()
	s.logger.Debug("No item qualified, returning fallback",
		zap.Int("top_k", req.TopK()),
		zap.Bool("filtered", !spec.IsEmpty()),
		zap.Int("fallback", n),
	)

	return result.New(fallback, true), nil
}

// Products lists every indexed item in catalog order.
func (s *Service) Products(_ context.Context) ([]domcat.Item, error) {
	idx, err := s.current()
	if err != nil {
		return nil, err
	}
	return idx.Items(), nil
}

// Product looks up one indexed item by id.
func (s *Service) Product(_ context.Context, id int64) (domcat.Item, error) {
	idx, err := s.current()
	if err != nil {
		return domcat.Item{}, err
	}
	it, ok := idx.Lookup(id)
	if !ok {
		return domcat.Item{}, fmt.Errorf("product %d: %w", id, domain.ErrProductNotFound)
	}
	return it, nil
}

func (s *Service) current() (*index.Index, error) {
	idx := s.indexes.Current()
	if idx == nil {
		return nil, domain.ErrIndexNotReady
	}
	return idx, nil
}
