package catalog

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/kailas-cloud/recommender/internal/domain"
	domcat "github.com/kailas-cloud/recommender/internal/domain/catalog"
	"github.com/kailas-cloud/recommender/internal/domain/index"
	"github.com/kailas-cloud/recommender/internal/domain/vector"
	"github.com/kailas-cloud/recommender/internal/metrics"
)

// DefaultConcurrency bounds parallel encoder calls during a build.
const DefaultConcurrency = 4

// BuildReport summarizes one index build.
type BuildReport struct {
	SnapshotID string
	Items      int
	Skipped    int
	SkippedIDs []int64
	Duration   time.Duration
}

// Service builds catalog indexes and publishes them.
type Service struct {
	encoder     Encoder
	loader      Loader
	publisher   Publisher
	concurrency int
	logger      *zap.Logger

	// reloadMu keeps snapshots published in the order they were loaded.
	reloadMu sync.Mutex
}

// New creates a catalog service. loader and publisher may be nil when only Build is used.
func New(encoder Encoder, loader Loader, publisher Publisher, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		encoder:     encoder,
		loader:      loader,
		publisher:   publisher,
		concurrency: DefaultConcurrency,
		logger:      logger,
	}
}

// WithConcurrency sets the number of concurrent encoder calls (min 1).
func (s *Service) WithConcurrency(n int) *Service {
	if n < 1 {
		n = 1
	}
	s.concurrency = n
	return s
}

type slot struct {
	vec vector.Vector
	err error
}

// Build encodes every item and returns an index in catalog order.
// An empty catalog yields an empty index. Duplicate ids and inconsistent
// vector dimensions fail the build; items whose encoding fails are skipped
// and reported.
func (s *Service) Build(ctx context.Context, items []domcat.Item) (*index.Index, BuildReport, error) {
	start := time.Now()

	seen := make(map[int64]struct{}, len(items))
	for _, it := range items {
		if _, dup := seen[it.ID()]; dup {
			metrics.IndexBuildsTotal.WithLabelValues("error").Inc()
			return nil, BuildReport{}, fmt.Errorf("%w: %w", domain.ErrIndexBuild, domain.NewDuplicateItem(it.ID()))
		}
		seen[it.ID()] = struct{}{}
	}

	slots := make([]slot, len(items))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.concurrency)
	for i := range items {
		g.Go(func() error {
			res, err := s.encoder.Encode(gctx, items[i].Text())
			if err != nil {
				slots[i].err = err
				return nil
			}
			slots[i].vec = vector.Clone(res.Vector)
			return nil
		})
	}
	_ = g.Wait()
	if err := ctx.Err(); err != nil {
		metrics.IndexBuildsTotal.WithLabelValues("error").Inc()
		return nil, BuildReport{}, fmt.Errorf("build index: %w", err)
	}

	kept := make([]domcat.Item, 0, len(items))
	vecs := make([]vector.Vector, 0, len(items))
	var report BuildReport
	for i, sl := range slots {
		if sl.err != nil {
			report.Skipped++
			report.SkippedIDs = append(report.SkippedIDs, items[i].ID())
			s.logger.Warn("Skipping item: encoding failed",
				zap.Int64("item_id", items[i].ID()),
				zap.Error(sl.err),
			)
			continue
		}
		kept = append(kept, items[i])
		vecs = append(vecs, sl.vec)
	}

	idx, err := index.New(kept, vecs)
	if err != nil {
		metrics.IndexBuildsTotal.WithLabelValues("error").Inc()
		return nil, report, fmt.Errorf("build index: %w", err)
	}

	report.SnapshotID = idx.SnapshotID()
	report.Items = idx.Size()
	report.Duration = time.Since(start)
	metrics.IndexBuildsTotal.WithLabelValues("success").Inc()

	s.logger.Info("Catalog index built",
		zap.String("snapshot_id", report.SnapshotID),
		zap.Int("items", report.Items),
		zap.Int("skipped", report.Skipped),
		zap.Int("dimensions", idx.Dimensions()),
		zap.Duration("duration", report.Duration),
	)

	return idx, report, nil
}

// Reload reads the catalog from the loader, builds a new index and swaps it in.
// On any failure the currently published index stays in place.
func (s *Service) Reload(ctx context.Context) (BuildReport, error) {
	if s.loader == nil || s.publisher == nil {
		return BuildReport{}, fmt.Errorf("reload: %w", domain.ErrCatalogSource)
	}

	s.reloadMu.Lock()
	defer s.reloadMu.Unlock()

	items, err := s.loader.Load(ctx)
	if err != nil {
		return BuildReport{}, fmt.Errorf("load catalog: %w", err)
	}

	idx, report, err := s.Build(ctx, items)
	if err != nil {
		return report, err
	}

	s.publisher.Swap(idx)
	metrics.IndexItems.Set(float64(report.Items))
	metrics.IndexSkippedItems.Set(float64(report.Skipped))

	return report, nil
}
