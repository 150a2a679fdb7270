package nereval

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/samber/lo"
	"golang.org/x/sync/errgroup"
)

// DefaultMinOverlapPercent accepts any overlap of at least one token.
const DefaultMinOverlapPercent = 1.0

// Evaluator compares predicted entities against gold entities over a corpus
// under every Strategy, overall and per tag.
//
// An Evaluator is built once per corpus. The first call to Evaluate scores
// it; later calls return the same Results. It is safe for concurrent use.
type Evaluator struct {
	tags     []string
	trueDocs [][]Entity
	predDocs [][]Entity
	matchers []*Matcher
	workers  int
	logger   *slog.Logger

	once    sync.Once
	results *Results
	err     error
}

// New loads true and pred with the configured loader and prepares an
// Evaluator for tags. Entities whose label is not in tags are ignored.
func New(trueData, predData any, tags []string, opts ...Option) (*Evaluator, error) {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}

	if cfg.minOverlap < 1 || cfg.minOverlap > 100 {
		return nil, fmt.Errorf("%w: got %v", ErrInvalidOverlap, cfg.minOverlap)
	}

	kind := cfg.loader
	if kind == LoaderDefault {
		k, err := InferLoaderKind(trueData)
		if err != nil {
			return nil, err
		}
		kind = k
	}
	loader, err := NewLoader(kind)
	if err != nil {
		return nil, err
	}

	if kind == LoaderList {
		if err := checkSequenceLengths(trueData, predData); err != nil {
			return nil, err
		}
	}

	trueDocs, err := loader.Load(trueData)
	if err != nil {
		return nil, fmt.Errorf("loading true documents: %w", err)
	}
	predDocs, err := loader.Load(predData)
	if err != nil {
		return nil, fmt.Errorf("loading predicted documents: %w", err)
	}

	cfg.logger.Debug("loaded documents",
		"loader", kind.String(),
		"true", len(trueDocs),
		"pred", len(predDocs))

	if len(trueDocs) != len(predDocs) {
		return nil, fmt.Errorf("%w: %d true, %d predicted", ErrDocumentCountMismatch, len(trueDocs), len(predDocs))
	}

	matchers := make([]*Matcher, 0, len(Strategies))
	for _, s := range Strategies {
		m, err := NewMatcher(s, cfg.minOverlap)
		if err != nil {
			return nil, err
		}
		matchers = append(matchers, m)
	}

	return &Evaluator{
		tags:     lo.Uniq(tags),
		trueDocs: trueDocs,
		predDocs: predDocs,
		matchers: matchers,
		workers:  cfg.workers,
		logger:   cfg.logger,
	}, nil
}

// checkSequenceLengths rejects list input whose documents differ in length
// between true and pred, before any tags are converted to spans.
func checkSequenceLengths(trueData, predData any) error {
	trueSeqs, err := tagSequences(trueData)
	if err != nil {
		return err
	}
	predSeqs, err := tagSequences(predData)
	if err != nil {
		return err
	}
	if len(trueSeqs) != len(predSeqs) {
		return fmt.Errorf("%w: %d true, %d predicted", ErrDocumentCountMismatch, len(trueSeqs), len(predSeqs))
	}
	for i := range trueSeqs {
		if len(trueSeqs[i]) != len(predSeqs[i]) {
			return fmt.Errorf("%w: document %d has %d true tags and %d predicted tags",
				ErrDocumentLengthMismatch, i, len(trueSeqs[i]), len(predSeqs[i]))
		}
	}
	return nil
}

// Tags returns the evaluated tag set, de-duplicated, in the order given to New.
func (e *Evaluator) Tags() []string {
	return append([]string(nil), e.tags...)
}

// Documents returns the prepared entity lists that overall Indices refer
// to: each document filtered to the evaluated tags, true entities sorted by
// start and predictions by end. Per-tag Indices refer to the same lists
// filtered to that one tag (see FilterLabels).
func (e *Evaluator) Documents() (trueDocs, predDocs [][]Entity) {
	trueDocs = make([][]Entity, len(e.trueDocs))
	predDocs = make([][]Entity, len(e.predDocs))
	for i := range e.trueDocs {
		trueDocs[i], predDocs[i] = prepare(e.trueDocs[i], e.predDocs[i], e.tags)
	}
	return trueDocs, predDocs
}

// Evaluate scores every document and returns the aggregated Results. The
// first call does the work; later calls return the same Results.
func (e *Evaluator) Evaluate(ctx context.Context) (*Results, error) {
	e.once.Do(func() {
		e.results, e.err = e.evaluate(ctx)
	})
	return e.results, e.err
}

func (e *Evaluator) evaluate(ctx context.Context) (*Results, error) {
	e.logger.Debug("evaluating",
		"documents", len(e.trueDocs),
		"tags", len(e.tags),
		"workers", e.workers)

	partials := make([]docScore, len(e.trueDocs))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(e.workers)
	for i := range e.trueDocs {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			partials[i] = e.scoreDocument(i)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	res := newResults(e.tags)
	for _, p := range partials {
		res.merge(p)
	}

	e.logger.Debug("evaluation complete",
		"strict_f1", res.Overall[Strict].F1,
		"ent_type_f1", res.Overall[EntType].F1,
		"partial_f1", res.Overall[Partial].F1,
		"exact_f1", res.Overall[Exact].F1)

	return res, nil
}

// scored is the outcome of one Matcher on one document.
type scored struct {
	result  Result
	indices Indices
}

// docScore is the immutable partial result of one document.
type docScore struct {
	overall  map[Strategy]scored
	entities map[string]map[Strategy]scored
}

func (e *Evaluator) scoreDocument(doc int) docScore {
	truth, pred := e.trueDocs[doc], e.predDocs[doc]

	ds := docScore{
		overall:  make(map[Strategy]scored, len(e.matchers)),
		entities: make(map[string]map[Strategy]scored, len(e.tags)),
	}
	for _, m := range e.matchers {
		r, ix := m.Evaluate(truth, pred, e.tags, doc)
		ds.overall[m.Strategy()] = scored{result: r, indices: ix}
	}

	// Per tag, each strategy is re-run on entities of that tag alone, so a
	// spurious prediction lands in the bucket of its own label.
	for _, tag := range e.tags {
		only := []string{tag}
		byStrategy := make(map[Strategy]scored, len(e.matchers))
		for _, m := range e.matchers {
			r, ix := m.Evaluate(truth, pred, only, doc)
			byStrategy[m.Strategy()] = scored{result: r, indices: ix}
		}
		ds.entities[tag] = byStrategy
	}
	return ds
}
