package nereval

import (
	"log/slog"
	"runtime"
)

// Option configures an Evaluator.
type Option func(*config)

type config struct {
	loader     LoaderKind
	minOverlap float64
	workers    int
	logger     *slog.Logger
}

func defaultConfig() config {
	return config{
		loader:     LoaderDefault,
		minOverlap: DefaultMinOverlapPercent,
		workers:    runtime.NumCPU(),
		logger:     slog.Default(),
	}
}

// WithLoader selects the input format (default: LoaderDefault, inferred from
// the type of the true input).
func WithLoader(k LoaderKind) Option {
	return func(c *config) {
		c.loader = k
	}
}

// WithMinOverlapPercent sets the share of a true entity's tokens a prediction
// must cover to count as overlapping (default: 1, any overlap). Values outside
// [1, 100] make New fail with ErrInvalidOverlap.
func WithMinOverlapPercent(p float64) Option {
	return func(c *config) {
		c.minOverlap = p
	}
}

// WithWorkers sets how many documents are scored concurrently
// (default: runtime.NumCPU()).
func WithWorkers(n int) Option {
	return func(c *config) {
		if n > 0 {
			c.workers = n
		}
	}
}

// WithLogger sets the logger (default: slog.Default()).
func WithLogger(l *slog.Logger) Option {
	return func(c *config) {
		if l != nil {
			c.logger = l
		}
	}
}
