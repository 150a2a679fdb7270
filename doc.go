// Package nereval measures agreement between gold and predicted named-entity
// annotations of the same documents.
//
// # Quick Start
//
//	truth := [][]string{{"O", "B-PER", "I-PER", "O", "B-ORG"}}
//	pred := [][]string{{"O", "B-PER", "I-PER", "O", "B-LOC"}}
//
//	ev, err := nereval.New(truth, pred, []string{"PER", "ORG", "LOC"},
//	    nereval.WithLoader(nereval.LoaderList))
//	if err != nil {
//	    log.Fatal(err)
//	}
//	res, err := ev.Evaluate(ctx)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Printf("strict F1: %.2f\n", res.Overall[nereval.Strict].F1)
//
// # Strategies
//
// Every document is scored under four disciplines:
//
//   - strict: same label and exactly the same boundaries
//   - exact: exactly the same boundaries, any label
//   - ent_type: some overlap and the same label
//   - partial: some overlap, any label; inexact boundaries earn half credit
//
// Each prediction is correct, incorrect, partial or spurious; each gold
// entity left unmatched is missed. Precision is credit over Actual (all
// predictions), recall is credit over Possible (all gold entities).
//
// # Input Formats
//
// Three loaders are supported: BIO tag sequences ([][]string), CoNLL text
// (token<TAB>tag lines, documents separated by blank lines) and span records
// ({label, start, end}). Offsets are inclusive token positions.
//
// # Thread Safety
//
// Evaluator is safe for concurrent use. Documents are scored in parallel,
// bounded by WithWorkers, and folded in document order, so results do not
// depend on the worker count.
package nereval
