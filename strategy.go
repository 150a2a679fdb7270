package nereval

import "fmt"

// Strategy names one matching discipline.
type Strategy string

// Matching disciplines.
const (
	// Strict requires the same label and exactly the same boundaries.
	Strict Strategy = "strict"
	// EntType requires some overlap and the same label.
	EntType Strategy = "ent_type"
	// Partial requires some overlap; exact boundaries are correct, anything
	// else earns half credit. Labels are ignored.
	Partial Strategy = "partial"
	// Exact requires exactly the same boundaries. Labels are ignored.
	Exact Strategy = "exact"
)

// Strategies lists every discipline in report order.
var Strategies = []Strategy{Strict, EntType, Partial, Exact}

// ParseStrategy maps a scenario name to its Strategy.
func ParseStrategy(s string) (Strategy, error) {
	for _, st := range Strategies {
		if string(st) == s {
			return st, nil
		}
	}
	return "", fmt.Errorf("%w: %q (want one of strict, ent_type, partial, exact)", ErrUnknownScenario, s)
}

// PartialCredit reports whether a partial match earns half credit under s.
func (s Strategy) PartialCredit() bool {
	return s == Partial || s == EntType
}

// outcome is the classification of one prediction against one true entity.
type outcome int

const (
	noMatch outcome = iota
	matchCorrect
	matchIncorrect
	matchPartial
)

// classifier decides how pred relates to truth. overlaps already accounts
// for the minimum overlap percentage.
type classifier func(pred, truth Entity, overlaps bool) outcome

func classifyStrict(pred, truth Entity, overlaps bool) outcome {
	switch {
	case pred.Label == truth.Label && pred.SameBoundaries(truth):
		return matchCorrect
	case overlaps:
		return matchIncorrect
	}
	return noMatch
}

func classifyExact(pred, truth Entity, overlaps bool) outcome {
	switch {
	case pred.SameBoundaries(truth):
		return matchCorrect
	case overlaps:
		return matchIncorrect
	}
	return noMatch
}

func classifyEntType(pred, truth Entity, overlaps bool) outcome {
	switch {
	case overlaps && pred.Label == truth.Label:
		return matchCorrect
	case overlaps:
		return matchIncorrect
	}
	return noMatch
}

func classifyPartial(pred, truth Entity, overlaps bool) outcome {
	switch {
	case overlaps && pred.SameBoundaries(truth):
		return matchCorrect
	case overlaps:
		return matchPartial
	}
	return noMatch
}

// Matcher scores one document under one Strategy.
type Matcher struct {
	strategy   Strategy
	classify   classifier
	minOverlap float64
}

// NewMatcher returns the Matcher for s. minOverlap is the share of a true
// entity's tokens, in percent, a prediction must cover to overlap it; values
// at or below 1 accept any shared token.
func NewMatcher(s Strategy, minOverlap float64) (*Matcher, error) {
	m := &Matcher{strategy: s, minOverlap: minOverlap}
	switch s {
	case Strict:
		m.classify = classifyStrict
	case Exact:
		m.classify = classifyExact
	case EntType:
		m.classify = classifyEntType
	case Partial:
		m.classify = classifyPartial
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownScenario, s)
	}
	return m, nil
}

// Strategy returns the discipline m applies.
func (m *Matcher) Strategy() Strategy {
	return m.strategy
}

func (m *Matcher) overlaps(pred, truth Entity) bool {
	if !pred.Overlaps(truth) {
		return false
	}
	if m.minOverlap <= DefaultMinOverlapPercent {
		return true
	}
	return overlapPercent(pred, truth) >= m.minOverlap
}

// Evaluate scores the predicted entities of one document against its true
// entities. Both lists are first restricted to tags and sorted (true by
// start, predicted by end); the returned indices refer to those prepared
// lists, tagged with doc.
//
// Each prediction is compared, in order, with the true entities not yet
// consumed; the first one that produces an outcome consumes that true entity.
// A prediction with no outcome is spurious, and every true entity left
// unconsumed is missed.
func (m *Matcher) Evaluate(trueEnts, predEnts []Entity, tags []string, doc int) (Result, Indices) {
	truth, preds := prepare(trueEnts, predEnts, tags)
	return m.match(truth, preds, doc)
}

func (m *Matcher) match(truth, preds []Entity, doc int) (Result, Indices) {
	var (
		res     Result
		idx     Indices
		matched = make([]bool, len(truth))
	)

	for pi, pred := range preds {
		found := false
		for ti, t := range truth {
			if matched[ti] {
				continue
			}
			o := m.classify(pred, t, m.overlaps(pred, t))
			if o == noMatch {
				continue
			}

			at := Index{Doc: doc, Entity: pi}
			switch o {
			case matchCorrect:
				res.Correct++
				idx.Correct = append(idx.Correct, at)
			case matchIncorrect:
				res.Incorrect++
				idx.Incorrect = append(idx.Incorrect, at)
			case matchPartial:
				res.Partial++
				idx.Partial = append(idx.Partial, at)
			}
			matched[ti] = true
			found = true
			break
		}

		if !found {
			res.Spurious++
			idx.Spurious = append(idx.Spurious, Index{Doc: doc, Entity: pi})
		}
	}

	for ti := range truth {
		if !matched[ti] {
			res.Missed++
			idx.Missed = append(idx.Missed, Index{Doc: doc, Entity: ti})
		}
	}

	res.ComputeMetrics(m.strategy.PartialCredit())
	return res, idx
}
