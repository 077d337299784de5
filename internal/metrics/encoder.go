package metrics

import "github.com/prometheus/client_golang/prometheus"

// Encoder Prometheus metrics.
var (
	EncoderRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "recommender",
			Name:      "encoder_requests_total",
			Help:      "Total number of encoder requests",
		},
		[]string{"provider", "model", "status"},
	)

	EncoderRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "recommender",
			Name:      "encoder_request_duration_seconds",
			Help:      "Encoder request duration in seconds",
			Buckets:   []float64{0.0005, 0.001, 0.005, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"provider", "model"},
	)

	EncoderTokensTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "recommender",
			Name:      "encoder_tokens_total",
			Help:      "Total encoder tokens consumed",
		},
		[]string{"provider", "model", "type"},
	)

	EncoderErrorsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "recommender",
			Name:      "encoder_errors_total",
			Help:      "Total encoder errors",
		},
		[]string{"provider", "model", "error_type"},
	)
)

var encMetricsRegistered bool

// RegisterEncoderMetrics registers Prometheus encoder metrics. Must be called once from main.
func RegisterEncoderMetrics() {
	if encMetricsRegistered {
		return
	}
	prometheus.MustRegister(EncoderRequestsTotal)
	prometheus.MustRegister(EncoderRequestDuration)
	prometheus.MustRegister(EncoderTokensTotal)
	prometheus.MustRegister(EncoderErrorsTotal)
	encMetricsRegistered = true
}
