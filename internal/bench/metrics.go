package bench

import nereval "github.com/jamesainslie/go-nereval"

// Config holds sweep parameters.
type Config struct {
	Strategy        nereval.Strategy // strategy whose result is ranked
	PrecisionWeight float64
	RecallWeight    float64
	Workers         int // 0 keeps the evaluator default
}

// DefaultConfig returns default sweep configuration.
func DefaultConfig() Config {
	return Config{
		Strategy:        nereval.EntType,
		PrecisionWeight: 1.0,
		RecallWeight:    1.0,
	}
}

// Metrics is one strategy's Result plus its weighted score.
type Metrics struct {
	nereval.Result
	WeightedScore float64
}

// Score weights precision and recall of r by cfg.
func Score(r nereval.Result, cfg Config) Metrics {
	m := Metrics{Result: r}
	wp := cfg.PrecisionWeight
	wr := cfg.RecallWeight
	if wp+wr > 0 {
		m.WeightedScore = (wp*r.Precision + wr*r.Recall) / (wp + wr)
	}
	return m
}
