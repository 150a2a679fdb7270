// Package report renders evaluation Results for people and for other tools:
// fixed-width summary tables, indices drill-downs, CSV files and protobuf
// Struct exports.
package report

import (
	"fmt"
	"strings"

	nereval "github.com/jamesainslie/go-nereval"
)

// DefaultDigits is the number of decimals used for precision, recall and F1.
const DefaultDigits = 2

const columnWidth = 11

var headers = []string{
	"correct", "incorrect", "partial", "missed", "spurious",
	"precision", "recall", "f1-score",
}

// Overall renders one row per strategy.
func Overall(res *nereval.Results, digits int) (string, error) {
	rows, err := res.Rows(nereval.ModeOverall, nereval.Strict)
	if err != nil {
		return "", err
	}
	return table(rows, digits), nil
}

// Entities renders one row per tag, sorted, for scenario.
func Entities(res *nereval.Results, scenario nereval.Strategy, digits int) (string, error) {
	rows, err := res.Rows(nereval.ModeEntities, scenario)
	if err != nil {
		return "", err
	}
	return table(rows, digits), nil
}

// Summary renders the table selected by mode.
func Summary(res *nereval.Results, mode nereval.Mode, scenario nereval.Strategy, digits int) (string, error) {
	switch mode {
	case nereval.ModeOverall:
		return Overall(res, digits)
	case nereval.ModeEntities:
		return Entities(res, scenario, digits)
	}
	return "", fmt.Errorf("%w: %q", nereval.ErrUnknownMode, mode)
}

// table lays rows out with the name column right-aligned to the longest
// name and every value column right-aligned to columnWidth.
func table(rows []nereval.Row, digits int) string {
	if digits < 0 {
		digits = DefaultDigits
	}

	width := digits
	for _, r := range rows {
		width = max(width, len(r.Name))
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%*s ", width, "")
	for _, h := range headers {
		fmt.Fprintf(&b, " %*s", columnWidth, h)
	}
	b.WriteString("\n\n")

	for _, r := range rows {
		fmt.Fprintf(&b, "%*s ", width, r.Name)
		for _, n := range []int{r.Correct, r.Incorrect, r.Partial, r.Missed, r.Spurious} {
			fmt.Fprintf(&b, " %*d", columnWidth, n)
		}
		for _, f := range []float64{r.Precision, r.Recall, r.F1} {
			fmt.Fprintf(&b, " %*.*f", columnWidth, digits, f)
		}
		b.WriteByte('\n')
	}
	return b.String()
}
