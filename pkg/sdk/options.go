package recommender

import (
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"
)

// Option configures the Recommender.
type Option interface {
	apply(*config)
}

// optionFunc adapts a function to the Option interface.
type optionFunc func(*config)

func (f optionFunc) apply(c *config) { f(c) }

type config struct {
	encoder          Encoder
	dimensions       int
	buildConcurrency int
	defaultTopK      int
	maxTopK          int

	logger     *slog.Logger
	metricsReg prometheus.Registerer
}

// WithEncoder sets the text encoder. Defaults to the built-in hashing encoder.
func WithEncoder(e Encoder) Option {
	return optionFunc(func(c *config) {
		c.encoder = e
	})
}

// WithDimensions sets the vector length of the built-in hashing encoder.
// Ignored when WithEncoder is used. Default: 384.
func WithDimensions(dim int) Option {
	return optionFunc(func(c *config) {
		c.dimensions = dim
	})
}

// WithBuildConcurrency bounds parallel encoder calls while indexing. Default: 4.
func WithBuildConcurrency(n int) Option {
	return optionFunc(func(c *config) {
		c.buildConcurrency = n
	})
}

// WithTopK sets the result count used when Query.TopK is nil and the upper
// clamp for explicit values. Defaults: 5 and 100.
func WithTopK(defaultTopK, maxTopK int) Option {
	return optionFunc(func(c *config) {
		c.defaultTopK = defaultTopK
		c.maxTopK = maxTopK
	})
}

// WithLogger enables structured logging for SDK operations.
// Pass nil to disable (default). Uses standard library slog.
func WithLogger(l *slog.Logger) Option {
	return optionFunc(func(c *config) {
		c.logger = l
	})
}

// WithPrometheus registers SDK metrics (operation counts and durations)
// on the given registerer. Pass nil to disable (default).
func WithPrometheus(reg prometheus.Registerer) Option {
	return optionFunc(func(c *config) {
		c.metricsReg = reg
	})
}
