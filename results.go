package nereval

import (
	"encoding/csv"
	"fmt"
	"io"
	"slices"
	"strconv"
	"strings"

	"github.com/samber/lo"
)

// Results is the corpus-level outcome of an evaluation.
type Results struct {
	// Overall holds one Result per strategy over all evaluated tags.
	Overall map[Strategy]Result `json:"overall"`
	// Entities holds, per tag, one Result per strategy.
	Entities map[string]map[Strategy]Result `json:"entities"`
	// OverallIndices mirrors Overall with the entities behind each count.
	OverallIndices map[Strategy]Indices `json:"overall_indices"`
	// EntityIndices mirrors Entities with the entities behind each count.
	EntityIndices map[string]map[Strategy]Indices `json:"entity_indices"`
}

func newResults(tags []string) *Results {
	r := &Results{
		Overall:        make(map[Strategy]Result, len(Strategies)),
		Entities:       make(map[string]map[Strategy]Result, len(tags)),
		OverallIndices: make(map[Strategy]Indices, len(Strategies)),
		EntityIndices:  make(map[string]map[Strategy]Indices, len(tags)),
	}
	for _, s := range Strategies {
		r.Overall[s] = Result{}
		r.OverallIndices[s] = Indices{}
	}
	for _, tag := range tags {
		r.Entities[tag] = make(map[Strategy]Result, len(Strategies))
		r.EntityIndices[tag] = make(map[Strategy]Indices, len(Strategies))
		for _, s := range Strategies {
			r.Entities[tag][s] = Result{}
			r.EntityIndices[tag][s] = Indices{}
		}
	}
	return r
}

// merge folds one document's partial score into r and recomputes the
// derived metrics of every touched Result.
func (r *Results) merge(ds docScore) {
	for s, sc := range ds.overall {
		r.Overall[s] = accumulate(r.Overall[s], sc.result, s)
		ix := r.OverallIndices[s]
		ix.Append(sc.indices)
		r.OverallIndices[s] = ix
	}
	for tag, byStrategy := range ds.entities {
		for s, sc := range byStrategy {
			r.Entities[tag][s] = accumulate(r.Entities[tag][s], sc.result, s)
			ix := r.EntityIndices[tag][s]
			ix.Append(sc.indices)
			r.EntityIndices[tag][s] = ix
		}
	}
}

func accumulate(total, part Result, s Strategy) Result {
	total.Add(part)
	total.ComputeMetrics(s.PartialCredit())
	return total
}

// Tags returns the tags with per-entity results, sorted.
func (r *Results) Tags() []string {
	tags := lo.Keys(r.Entities)
	slices.Sort(tags)
	return tags
}

// Mode selects which part of Results a report covers.
type Mode string

// Report modes.
const (
	// ModeOverall reports one row per strategy.
	ModeOverall Mode = "overall"
	// ModeEntities reports one row per tag for a single strategy.
	ModeEntities Mode = "entities"
)

// ParseMode maps a mode name to its Mode.
func ParseMode(s string) (Mode, error) {
	switch Mode(s) {
	case ModeOverall, ModeEntities:
		return Mode(s), nil
	}
	return "", fmt.Errorf("%w: %q (want overall or entities)", ErrUnknownMode, s)
}

// Row is one line of a tabular report.
type Row struct {
	Name string
	Result
}

// Rows returns the tabular view of r. In ModeOverall there is one row per
// strategy, in Strategies order, and scenario is ignored. In ModeEntities
// there is one row per tag, sorted by tag, for scenario.
func (r *Results) Rows(mode Mode, scenario Strategy) ([]Row, error) {
	switch mode {
	case ModeOverall:
		rows := make([]Row, 0, len(Strategies))
		for _, s := range Strategies {
			rows = append(rows, Row{Name: string(s), Result: r.Overall[s]})
		}
		return rows, nil
	case ModeEntities:
		if _, err := ParseStrategy(string(scenario)); err != nil {
			return nil, err
		}
		tags := r.Tags()
		rows := make([]Row, 0, len(tags))
		for _, tag := range tags {
			rows = append(rows, Row{Name: tag, Result: r.Entities[tag][scenario]})
		}
		return rows, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownMode, mode)
}

// Flatten returns every field of every Result keyed by its path, for
// example "overall.strict.f1" or "entities.PER.partial.missed".
func (r *Results) Flatten() map[string]float64 {
	out := make(map[string]float64)
	for s, res := range r.Overall {
		flattenInto(out, "overall."+string(s), res)
	}
	for tag, byStrategy := range r.Entities {
		for s, res := range byStrategy {
			flattenInto(out, "entities."+tag+"."+string(s), res)
		}
	}
	return out
}

func flattenInto(out map[string]float64, prefix string, res Result) {
	out[prefix+".correct"] = float64(res.Correct)
	out[prefix+".incorrect"] = float64(res.Incorrect)
	out[prefix+".partial"] = float64(res.Partial)
	out[prefix+".missed"] = float64(res.Missed)
	out[prefix+".spurious"] = float64(res.Spurious)
	out[prefix+".precision"] = res.Precision
	out[prefix+".recall"] = res.Recall
	out[prefix+".f1"] = res.F1
	out[prefix+".actual"] = float64(res.Actual)
	out[prefix+".possible"] = float64(res.Possible)
}

// CSVHeader is the header record of the CSV view.
var CSVHeader = []string{
	"Strategy/Entity", "Correct", "Incorrect", "Partial", "Missed", "Spurious",
	"Precision", "Recall", "F1-Score",
}

// WriteCSV writes the rows selected by mode and scenario as CSV, with
// precision, recall and F1 rounded to digits decimals.
func (r *Results) WriteCSV(w io.Writer, mode Mode, scenario Strategy, digits int) error {
	rows, err := r.Rows(mode, scenario)
	if err != nil {
		return err
	}

	cw := csv.NewWriter(w)
	if err := cw.Write(CSVHeader); err != nil {
		return fmt.Errorf("writing csv header: %w", err)
	}
	for _, row := range rows {
		rec := []string{
			row.Name,
			strconv.Itoa(row.Correct),
			strconv.Itoa(row.Incorrect),
			strconv.Itoa(row.Partial),
			strconv.Itoa(row.Missed),
			strconv.Itoa(row.Spurious),
			strconv.FormatFloat(row.Precision, 'f', digits, 64),
			strconv.FormatFloat(row.Recall, 'f', digits, 64),
			strconv.FormatFloat(row.F1, 'f', digits, 64),
		}
		if err := cw.Write(rec); err != nil {
			return fmt.Errorf("writing csv row %s: %w", row.Name, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// CSV returns the CSV view as a string.
func (r *Results) CSV(mode Mode, scenario Strategy, digits int) (string, error) {
	var b strings.Builder
	if err := r.WriteCSV(&b, mode, scenario, digits); err != nil {
		return "", err
	}
	return b.String(), nil
}
