package report

import (
	"fmt"
	"strings"

	nereval "github.com/jamesainslie/go-nereval"
)

// Documents are the prepared entity lists indices refer to, as returned by
// nereval.Evaluator.Documents. A nil Documents renders bare indices.
type Documents struct {
	True [][]nereval.Entity
	Pred [][]nereval.Entity
}

// resolve looks up the entity behind at. Missed indices point at true
// entities, every other category at predictions.
func (d *Documents) resolve(c nereval.Category, at nereval.Index, tag string) (nereval.Entity, bool) {
	if d == nil {
		return nereval.Entity{}, false
	}
	docs := d.Pred
	if c == nereval.CategoryMissed {
		docs = d.True
	}
	if at.Doc < 0 || at.Doc >= len(docs) {
		return nereval.Entity{}, false
	}
	doc := docs[at.Doc]
	if tag != "" {
		doc = nereval.FilterLabels(doc, []string{tag})
	}
	if at.Entity < 0 || at.Entity >= len(doc) {
		return nereval.Entity{}, false
	}
	return doc[at.Entity], true
}

// OverallIndices lists, per outcome category, the entities scored under
// scenario over all tags.
func OverallIndices(res *nereval.Results, scenario nereval.Strategy, docs *Documents) (string, error) {
	if _, err := nereval.ParseStrategy(string(scenario)); err != nil {
		return "", err
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Indices for error schema '%s':\n\n", scenario)
	ix := res.OverallIndices[scenario]
	for _, c := range nereval.Categories {
		fmt.Fprintf(&b, "%s:\n", categoryName(c))
		writeIndexList(&b, "  ", c, ix.List(c), docs, "")
		b.WriteByte('\n')
	}
	return b.String(), nil
}

// EntityIndices lists, per tag and outcome category, the entities scored
// under scenario for that tag alone.
func EntityIndices(res *nereval.Results, scenario nereval.Strategy, docs *Documents) (string, error) {
	if _, err := nereval.ParseStrategy(string(scenario)); err != nil {
		return "", err
	}

	var b strings.Builder
	for _, tag := range res.Tags() {
		fmt.Fprintf(&b, "\nEntity Type: %s\n", tag)
		fmt.Fprintf(&b, "  Error Schema: '%s'\n", scenario)
		ix := res.EntityIndices[tag][scenario]
		for _, c := range nereval.Categories {
			fmt.Fprintf(&b, "    (%s) %s:\n", tag, categoryName(c))
			writeIndexList(&b, "      ", c, ix.List(c), docs, tag)
		}
	}
	return b.String(), nil
}

func writeIndexList(b *strings.Builder, indent string, c nereval.Category, list []nereval.Index, docs *Documents, tag string) {
	if len(list) == 0 {
		fmt.Fprintf(b, "%s- None\n", indent)
		return
	}
	for _, at := range list {
		fmt.Fprintf(b, "%s- Instance %d, Entity %d", indent, at.Doc, at.Entity)
		if e, ok := docs.resolve(c, at, tag); ok {
			fmt.Fprintf(b, ": Label=%s, Start=%d, End=%d", e.Label, e.Start, e.End)
		}
		b.WriteByte('\n')
	}
}

func categoryName(c nereval.Category) string {
	s := string(c)
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
