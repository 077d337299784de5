package metrics

import "github.com/prometheus/client_golang/prometheus"

// Retrieval and index Prometheus metrics.
var (
	RecommendationsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "recommender",
			Name:      "recommendations_total",
			Help:      "Recommendations served, by path (primary or fallback)",
		},
		[]string{"path"},
	)

	RecommendationDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "recommender",
			Name:      "recommendation_duration_seconds",
			Help:      "Time spent scoring, sorting and filtering one request (encoding excluded)",
			Buckets:   []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5},
		},
	)

	IndexItems = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "recommender",
			Name:      "index_items",
			Help:      "Items in the published catalog index",
		},
	)

	IndexSkippedItems = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "recommender",
			Name:      "index_skipped_items",
			Help:      "Items skipped by the last index build because encoding failed",
		},
	)

	IndexBuildsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "recommender",
			Name:      "index_builds_total",
			Help:      "Catalog index builds by status",
		},
		[]string{"status"},
	)
)

var retrievalMetricsRegistered bool

// RegisterRetrievalMetrics registers retrieval and index metrics. Must be called once from main.
func RegisterRetrievalMetrics() {
	if retrievalMetricsRegistered {
		return
	}
	prometheus.MustRegister(RecommendationsTotal)
	prometheus.MustRegister(RecommendationDuration)
	prometheus.MustRegister(IndexItems)
	prometheus.MustRegister(IndexSkippedItems)
	prometheus.MustRegister(IndexBuildsTotal)
	retrievalMetricsRegistered = true
}
