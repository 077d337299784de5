package recommender

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"slices"
	"strings"
	"sync"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func sarees() []Product {
	return []Product{
		{ID: 1, Name: "Silk Saree", Price: 4500, Category: "ethnic", Description: "Handwoven silk saree with zari border"},
		{ID: 2, Name: "Denim Jacket", Price: 3200, Category: "western", Description: "Classic blue denim jacket"},
		{ID: 3, Name: "Cotton Saree", Price: 1800, Category: "ethnic", Description: "Light cotton saree for daily wear"},
		{ID: 4, Name: "Leather Boots", Price: 6000, Category: "footwear", Description: "Brown leather ankle boots"},
	}
}

type stubEncoder struct {
	mu     sync.Mutex
	calls  int
	failOn string
	dim    int
	tokens int
}

func (s *stubEncoder) Encode(_ context.Context, text string) (EncodeResult, error) {
	s.mu.Lock()
	s.calls++
	s.mu.Unlock()
	if s.failOn != "" && strings.Contains(text, s.failOn) {
		return EncodeResult{}, errors.New("model unavailable")
	}
	v := make([]float32, s.dim)
	v[len(text)%s.dim] = 1
	return EncodeResult{Vector: v, TotalTokens: s.tokens}, nil
}

func TestNew_DefaultEncoder(t *testing.T) {
	rec, err := New(context.Background(), sarees())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if rec.Size() != 4 {
		t.Errorf("Size = %d, want 4", rec.Size())
	}
	if len(rec.Skipped()) != 0 {
		t.Errorf("Skipped = %v, want none", rec.Skipped())
	}
}

func TestRecommend_SareeScenario(t *testing.T) {
	rec, err := New(context.Background(), sarees(), WithDimensions(256))
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	res, err := rec.Recommend(context.Background(), Query{
		Text:          "Silk SAREE",
		TopK:          Int(2),
		Category:      "ethnic",
		IncludeScores: true,
	})
	if err != nil {
		t.Fatalf("Recommend: %v", err)
	}
	if res.Fallback {
		t.Fatal("expected primary path")
	}
	ids := res.IDs()
	slices.Sort(ids)
	if !slices.Equal(ids, []int64{1, 3}) {
		t.Fatalf("ids = %v, want 1 and 3", res.IDs())
	}
	if res.Items[0].Product.ID != 1 {
		t.Errorf("first = %d, want silk saree", res.Items[0].Product.ID)
	}
	for _, it := range res.Items {
		if !it.HasScore {
			t.Errorf("item %d has no score", it.Product.ID)
		}
	}
	if res.Items[0].Score < res.Items[1].Score {
		t.Errorf("scores not descending: %v", res.Items)
	}
}

func TestRecommend_Fallback(t *testing.T) {
	rec, err := New(context.Background(), sarees())
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	res, err := rec.Recommend(context.Background(), Query{Text: "saree", MaxPrice: Int64(10)})
	if err != nil {
		t.Fatalf("Recommend: %v", err)
	}
	if !res.Fallback {
		t.Fatal("expected fallback")
	}
	if !slices.Equal(res.IDs(), []int64{1, 2, 3}) {
		t.Errorf("ids = %v, want [1 2 3]", res.IDs())
	}
	for _, it := range res.Items {
		if it.HasScore {
			t.Errorf("fallback item %d carries a score", it.Product.ID)
		}
	}
}

func TestRecommend_NonPositiveTopK(t *testing.T) {
	rec, err := New(context.Background(), sarees())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	res, err := rec.Recommend(context.Background(), Query{Text: "saree", TopK: Int(0)})
	if err != nil {
		t.Fatalf("Recommend: %v", err)
	}
	if !res.Fallback || len(res.Items) != 3 {
		t.Errorf("got fallback=%v len=%d, want fallback with 3", res.Fallback, len(res.Items))
	}
}

func TestRecommend_DefaultAndMaxTopK(t *testing.T) {
	var products []Product
	for i := range 12 {
		products = append(products, Product{ID: int64(i + 1), Name: "plain shirt", Price: 100, Category: "western"})
	}
	rec, err := New(context.Background(), products, WithTopK(2, 4))
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	res, err := rec.Recommend(context.Background(), Query{Text: "shirt"})
	if err != nil {
		t.Fatalf("Recommend: %v", err)
	}
	if len(res.Items) != 2 {
		t.Errorf("default len = %d, want 2", len(res.Items))
	}

	res, err = rec.Recommend(context.Background(), Query{Text: "shirt", TopK: Int(50)})
	if err != nil {
		t.Fatalf("Recommend: %v", err)
	}
	if len(res.Items) != 4 {
		t.Errorf("clamped len = %d, want 4", len(res.Items))
	}
	// Identical vectors tie; catalog order decides.
	if !slices.Equal(res.IDs(), []int64{1, 2, 3, 4}) {
		t.Errorf("ids = %v, want [1 2 3 4]", res.IDs())
	}
}

func TestRecommend_EmptyCatalog(t *testing.T) {
	rec, err := New(context.Background(), nil)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	res, err := rec.Recommend(context.Background(), Query{Text: "anything"})
	if err != nil {
		t.Fatalf("Recommend: %v", err)
	}
	if len(res.Items) != 0 || !res.Fallback {
		t.Errorf("got %+v, want empty fallback", res)
	}
}

func TestNew_InvalidProduct(t *testing.T) {
	_, err := New(context.Background(), []Product{{ID: 1, Name: "", Price: 10}})
	if !errors.Is(err, ErrInvalidItem) {
		t.Errorf("err = %v, want ErrInvalidItem", err)
	}
}

func TestNew_DuplicateIDs(t *testing.T) {
	products := sarees()
	products[2].ID = 1
	_, err := New(context.Background(), products)
	if !errors.Is(err, ErrIndexBuild) || !errors.Is(err, ErrDuplicateItemID) {
		t.Errorf("err = %v, want ErrIndexBuild wrapping ErrDuplicateItemID", err)
	}
}

func TestNew_SkipsEncoderFailures(t *testing.T) {
	enc := &stubEncoder{dim: 8, failOn: "Denim"}
	rec, err := New(context.Background(), sarees(), WithEncoder(enc), WithBuildConcurrency(1))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if rec.Size() != 3 {
		t.Errorf("Size = %d, want 3", rec.Size())
	}
	if !slices.Equal(rec.Skipped(), []int64{2}) {
		t.Errorf("Skipped = %v, want [2]", rec.Skipped())
	}
	if _, err := rec.Product(2); !errors.Is(err, ErrProductNotFound) {
		t.Errorf("Product(2) err = %v, want ErrProductNotFound", err)
	}
}

func TestRecommend_QueryEncoderFailure(t *testing.T) {
	enc := &stubEncoder{dim: 8, failOn: "broken"}
	rec, err := New(context.Background(), sarees(), WithEncoder(enc))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	_, err = rec.Recommend(context.Background(), Query{Text: "broken"})
	if !errors.Is(err, ErrEncoderFailure) {
		t.Errorf("err = %v, want ErrEncoderFailure", err)
	}
}

func TestRebuild_KeepsPreviousOnError(t *testing.T) {
	rec, err := New(context.Background(), sarees())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	bad := []Product{{ID: 9, Name: "x"}, {ID: 9, Name: "y"}}
	if err := rec.Rebuild(context.Background(), bad); err == nil {
		t.Fatal("expected error")
	}
	if rec.Size() != 4 {
		t.Errorf("Size = %d, want previous 4", rec.Size())
	}

	if err := rec.Rebuild(context.Background(), sarees()[:2]); err != nil {
		t.Fatalf("Rebuild: %v", err)
	}
	if got := len(rec.Products()); got != 2 {
		t.Errorf("Products = %d, want 2", got)
	}
}

func TestProducts_CatalogOrder(t *testing.T) {
	rec, err := New(context.Background(), sarees())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	var ids []int64
	for _, p := range rec.Products() {
		ids = append(ids, p.ID)
	}
	if !slices.Equal(ids, []int64{1, 2, 3, 4}) {
		t.Errorf("ids = %v", ids)
	}
	p, err := rec.Product(3)
	if err != nil {
		t.Fatalf("Product: %v", err)
	}
	if p.Name != "Cotton Saree" || p.Price != 1800 {
		t.Errorf("Product(3) = %+v", p)
	}
}

func TestWithLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	rec, err := New(context.Background(), sarees(), WithLogger(logger))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if _, err := rec.Recommend(context.Background(), Query{Text: "boots"}); err != nil {
		t.Fatalf("Recommend: %v", err)
	}

	out := buf.String()
	for _, want := range []string{"op=build", "op=recommend", "indexed=4"} {
		if !strings.Contains(out, want) {
			t.Errorf("log missing %q:\n%s", want, out)
		}
	}
}

func TestWithPrometheus(t *testing.T) {
	reg := prometheus.NewRegistry()
	rec, err := New(context.Background(), sarees(), WithPrometheus(reg))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if _, err := rec.Recommend(context.Background(), Query{Text: "saree", Category: "none"}); err != nil {
		t.Fatalf("Recommend: %v", err)
	}

	if got := testutil.ToFloat64(rec.obs.metrics.operations.WithLabelValues("build", "ok")); got != 1 {
		t.Errorf("build ok = %v, want 1", got)
	}
	if got := testutil.ToFloat64(rec.obs.metrics.operations.WithLabelValues("recommend", "ok")); got != 1 {
		t.Errorf("recommend ok = %v, want 1", got)
	}
	if got := testutil.ToFloat64(rec.obs.metrics.fallbacks); got != 1 {
		t.Errorf("fallbacks = %v, want 1", got)
	}

	// A second instance on the same registry reuses the collectors.
	if _, err := New(context.Background(), sarees(), WithPrometheus(reg)); err != nil {
		t.Fatalf("second New: %v", err)
	}
	if got := testutil.ToFloat64(rec.obs.metrics.operations.WithLabelValues("build", "ok")); got != 2 {
		t.Errorf("build ok after reuse = %v, want 2", got)
	}
}

func TestRecommend_Concurrent(t *testing.T) {
	rec, err := New(context.Background(), sarees())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	var wg sync.WaitGroup
	for range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for range 50 {
				if _, err := rec.Recommend(context.Background(), Query{Text: "silk"}); err != nil {
					t.Error(err)
					return
				}
			}
		}()
	}
	wg.Wait()
}
