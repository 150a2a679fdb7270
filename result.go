package nereval

// Result holds outcome counters and the metrics derived from them.
//
// Actual is the number of predictions the system produced, Possible the
// number of gold entities. Both, together with Precision, Recall and F1, are
// recomputed from the counters by ComputeMetrics and never updated
// incrementally.
type Result struct {
	Correct   int `json:"correct"`
	Incorrect int `json:"incorrect"`
	Partial   int `json:"partial"`
	Missed    int `json:"missed"`
	Spurious  int `json:"spurious"`

	Precision float64 `json:"precision"`
	Recall    float64 `json:"recall"`
	F1        float64 `json:"f1"`
	Actual    int     `json:"actual"`
	Possible  int     `json:"possible"`
}

// ComputeActualPossible sets Actual and Possible from the counters.
func (r *Result) ComputeActualPossible() {
	r.Actual = r.Correct + r.Incorrect + r.Partial + r.Spurious
	r.Possible = r.Correct + r.Incorrect + r.Partial + r.Missed
}

// ComputePrecisionRecall sets Precision, Recall and F1 from Correct, Partial,
// Actual and Possible. With partialOrType a partial match earns half the
// credit of a correct one; otherwise partial matches earn nothing.
// Zero denominators yield zero.
func (r *Result) ComputePrecisionRecall(partialOrType bool) {
	credit := float64(r.Correct)
	if partialOrType {
		credit += 0.5 * float64(r.Partial)
	}

	r.Precision, r.Recall, r.F1 = 0, 0, 0
	if r.Actual > 0 {
		r.Precision = credit / float64(r.Actual)
	}
	if r.Possible > 0 {
		r.Recall = credit / float64(r.Possible)
	}
	if r.Precision+r.Recall > 0 {
		r.F1 = 2 * r.Precision * r.Recall / (r.Precision + r.Recall)
	}
}

// ComputeMetrics recomputes every derived field.
func (r *Result) ComputeMetrics(partialOrType bool) {
	r.ComputeActualPossible()
	r.ComputePrecisionRecall(partialOrType)
}

// Add adds the counters of o to r. Derived fields are left stale; call
// ComputeMetrics afterwards.
func (r *Result) Add(o Result) {
	r.Correct += o.Correct
	r.Incorrect += o.Incorrect
	r.Partial += o.Partial
	r.Missed += o.Missed
	r.Spurious += o.Spurious
}

// Index locates one entity: the document it belongs to and its position in
// that document's prepared entity list.
type Index struct {
	Doc    int `json:"doc"`
	Entity int `json:"entity"`
}

// Indices records which entities produced each outcome. Correct, Incorrect,
// Partial and Spurious point at predictions; Missed points at true entities.
type Indices struct {
	Correct   []Index `json:"correct"`
	Incorrect []Index `json:"incorrect"`
	Partial   []Index `json:"partial"`
	Missed    []Index `json:"missed"`
	Spurious  []Index `json:"spurious"`
}

// Append appends every list of o to the matching list of ix.
func (ix *Indices) Append(o Indices) {
	ix.Correct = append(ix.Correct, o.Correct...)
	ix.Incorrect = append(ix.Incorrect, o.Incorrect...)
	ix.Partial = append(ix.Partial, o.Partial...)
	ix.Missed = append(ix.Missed, o.Missed...)
	ix.Spurious = append(ix.Spurious, o.Spurious...)
}

// Category names one outcome list of Indices.
type Category string

// Outcome categories, in report order.
const (
	CategoryCorrect   Category = "correct"
	CategoryIncorrect Category = "incorrect"
	CategoryPartial   Category = "partial"
	CategoryMissed    Category = "missed"
	CategorySpurious  Category = "spurious"
)

// Categories lists every outcome category in report order.
var Categories = []Category{CategoryCorrect, CategoryIncorrect, CategoryPartial, CategoryMissed, CategorySpurious}

// List returns the index list for c, or nil for an unknown category.
func (ix Indices) List(c Category) []Index {
	switch c {
	case CategoryCorrect:
		return ix.Correct
	case CategoryIncorrect:
		return ix.Incorrect
	case CategoryPartial:
		return ix.Partial
	case CategoryMissed:
		return ix.Missed
	case CategorySpurious:
		return ix.Spurious
	}
	return nil
}
