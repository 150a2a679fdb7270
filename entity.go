package nereval

import (
	"fmt"
	"slices"

	"github.com/samber/lo"
)

// Entity is one annotated span in a document. Start and End are inclusive
// token offsets.
type Entity struct {
	Label string `json:"label"`
	Start int    `json:"start"`
	End   int    `json:"end"`
}

func (e Entity) String() string {
	return fmt.Sprintf("%s[%d:%d]", e.Label, e.Start, e.End)
}

// SameBoundaries reports whether e and o cover exactly the same tokens.
func (e Entity) SameBoundaries(o Entity) bool {
	return e.Start == o.Start && e.End == o.End
}

// Overlaps reports whether e and o share at least one token.
func (e Entity) Overlaps(o Entity) bool {
	return e.Start <= o.End && e.End >= o.Start
}

// overlapPercent returns the share of truth's tokens covered by pred, in
// percent. Zero when the spans are disjoint.
func overlapPercent(pred, truth Entity) float64 {
	if !pred.Overlaps(truth) {
		return 0
	}
	shared := min(pred.End, truth.End) - max(pred.Start, truth.Start) + 1
	span := truth.End - truth.Start + 1
	if span <= 0 {
		return 0
	}
	return float64(shared*100) / float64(span)
}

// FilterLabels returns the entities of doc whose label is in tags, keeping
// their relative order.
func FilterLabels(doc []Entity, tags []string) []Entity {
	allowed := make(map[string]struct{}, len(tags))
	for _, t := range tags {
		allowed[t] = struct{}{}
	}
	return lo.Filter(doc, func(e Entity, _ int) bool {
		_, ok := allowed[e.Label]
		return ok
	})
}

// prepare filters both sides to tags and orders them for matching: true
// entities by start, predicted entities by end. The sort is stable so equal
// keys keep their input order.
func prepare(trueEnts, predEnts []Entity, tags []string) ([]Entity, []Entity) {
	t := FilterLabels(trueEnts, tags)
	p := FilterLabels(predEnts, tags)
	slices.SortStableFunc(t, func(a, b Entity) int { return a.Start - b.Start })
	slices.SortStableFunc(p, func(a, b Entity) int { return a.End - b.End })
	return t, p
}
