package bench

import (
	"context"
	"errors"
	"fmt"
	"sort"

	nereval "github.com/jamesainslie/go-nereval"
)

// ErrNoThresholds is returned by Sweep when given no thresholds.
var ErrNoThresholds = errors.New("no thresholds to sweep")

// SweepResult holds metrics for one minimum overlap percentage.
type SweepResult struct {
	MinOverlap float64
	Metrics    Metrics
}

// SweepThresholds generates values from min to max inclusive with the given
// step.
func SweepThresholds(min, max, step float64) []float64 {
	if step <= 0 {
		return nil
	}
	var thresholds []float64
	for i := 0; ; i++ {
		t := min + float64(i)*step
		if t > max+1e-9 {
			break
		}
		thresholds = append(thresholds, t)
	}
	return thresholds
}

// Sweep evaluates the corpus once per threshold and returns results sorted
// by weighted score, best first. Ties keep threshold order.
func Sweep(ctx context.Context, c *Corpus, tags []string, cfg Config, thresholds []float64, opts ...nereval.Option) ([]SweepResult, error) {
	if len(thresholds) == 0 {
		return nil, ErrNoThresholds
	}
	if _, err := nereval.ParseStrategy(string(cfg.Strategy)); err != nil {
		return nil, err
	}

	results := make([]SweepResult, 0, len(thresholds))
	for _, threshold := range thresholds {
		evalOpts := append([]nereval.Option{
			nereval.WithLoader(c.Loader),
			nereval.WithWorkers(cfg.Workers),
		}, opts...)
		evalOpts = append(evalOpts, nereval.WithMinOverlapPercent(threshold))

		ev, err := nereval.New(c.True, c.Pred, tags, evalOpts...)
		if err != nil {
			return nil, fmt.Errorf("threshold %v: %w", threshold, err)
		}
		res, err := ev.Evaluate(ctx)
		if err != nil {
			return nil, err
		}

		results = append(results, SweepResult{
			MinOverlap: threshold,
			Metrics:    Score(res.Overall[cfg.Strategy], cfg),
		})
	}

	// Sort by weighted score descending
	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Metrics.WeightedScore > results[j].Metrics.WeightedScore
	})

	return results, nil
}
