package nereval

import (
	"math/rand/v2"
	"reflect"
	"slices"
	"testing"
)

var baseSequence = []string{"O", "B-PER", "I-PER", "O", "O", "O", "B-ORG", "I-ORG"}

func mustCollect(t *testing.T, tags []string) []Entity {
	t.Helper()
	ents, err := CollectEntities(tags)
	if err != nil {
		t.Fatalf("CollectEntities(%v) error = %v", tags, err)
	}
	return ents
}

func mustMatcher(t *testing.T, s Strategy) *Matcher {
	t.Helper()
	m, err := NewMatcher(s, DefaultMinOverlapPercent)
	if err != nil {
		t.Fatalf("NewMatcher(%s) error = %v", s, err)
	}
	return m
}

type wantCounts struct {
	correct, incorrect, partial, missed, spurious int
}

func checkCounts(t *testing.T, got Result, want wantCounts) {
	t.Helper()
	g := wantCounts{got.Correct, got.Incorrect, got.Partial, got.Missed, got.Spurious}
	if g != want {
		t.Errorf("counts = %+v, want %+v", g, want)
	}
}

func idx(pairs ...int) []Index {
	var out []Index
	for i := 0; i+1 < len(pairs); i += 2 {
		out = append(out, Index{Doc: pairs[i], Entity: pairs[i+1]})
	}
	return out
}

func checkIndices(t *testing.T, name string, got, want []Index) {
	t.Helper()
	if len(got) == 0 && len(want) == 0 {
		return
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("%s indices = %v, want %v", name, got, want)
	}
}

func TestMatcher_Evaluate(t *testing.T) {
	tags := []string{"PER", "ORG", "LOC"}

	type expectation struct {
		counts                                   wantCounts
		correct, incorrect, partial, missed, spur []Index
	}

	tests := []struct {
		name string
		pred []string
		want map[Strategy]expectation
	}{
		{
			name: "perfect match",
			pred: baseSequence,
			want: map[Strategy]expectation{
				Strict:  {counts: wantCounts{correct: 2}, correct: idx(0, 0, 0, 1)},
				EntType: {counts: wantCounts{correct: 2}, correct: idx(0, 0, 0, 1)},
				Exact:   {counts: wantCounts{correct: 2}, correct: idx(0, 0, 0, 1)},
				Partial: {counts: wantCounts{correct: 2}, correct: idx(0, 0, 0, 1)},
			},
		},
		{
			name: "missed entity",
			pred: []string{"O", "B-PER", "I-PER", "O", "O", "O", "O", "O"},
			want: map[Strategy]expectation{
				Strict:  {counts: wantCounts{correct: 1, missed: 1}, correct: idx(0, 0), missed: idx(0, 1)},
				EntType: {counts: wantCounts{correct: 1, missed: 1}, correct: idx(0, 0), missed: idx(0, 1)},
				Exact:   {counts: wantCounts{correct: 1, missed: 1}, correct: idx(0, 0), missed: idx(0, 1)},
				Partial: {counts: wantCounts{correct: 1, missed: 1}, correct: idx(0, 0), missed: idx(0, 1)},
			},
		},
		{
			name: "wrong label",
			pred: []string{"O", "B-PER", "I-PER", "O", "O", "O", "B-LOC", "I-LOC"},
			want: map[Strategy]expectation{
				Strict:  {counts: wantCounts{correct: 1, incorrect: 1}, correct: idx(0, 0), incorrect: idx(0, 1)},
				EntType: {counts: wantCounts{correct: 1, incorrect: 1}, correct: idx(0, 0), incorrect: idx(0, 1)},
				Exact:   {counts: wantCounts{correct: 2}, correct: idx(0, 0, 0, 1)},
				Partial: {counts: wantCounts{correct: 2}, correct: idx(0, 0, 0, 1)},
			},
		},
		{
			name: "wrong label and boundary",
			pred: []string{"O", "B-PER", "I-PER", "O", "O", "O", "B-LOC", "O"},
			want: map[Strategy]expectation{
				Strict:  {counts: wantCounts{correct: 1, incorrect: 1}, correct: idx(0, 0), incorrect: idx(0, 1)},
				EntType: {counts: wantCounts{correct: 1, incorrect: 1}, correct: idx(0, 0), incorrect: idx(0, 1)},
				Exact:   {counts: wantCounts{correct: 1, incorrect: 1}, correct: idx(0, 0), incorrect: idx(0, 1)},
				Partial: {counts: wantCounts{correct: 1, partial: 1}, correct: idx(0, 0), partial: idx(0, 1)},
			},
		},
		{
			name: "shifted boundary",
			pred: []string{"O", "B-PER", "I-PER", "O", "O", "O", "O", "B-LOC"},
			want: map[Strategy]expectation{
				Strict:  {counts: wantCounts{correct: 1, incorrect: 1}, correct: idx(0, 0), incorrect: idx(0, 1)},
				EntType: {counts: wantCounts{correct: 1, incorrect: 1}, correct: idx(0, 0), incorrect: idx(0, 1)},
				Exact:   {counts: wantCounts{correct: 1, incorrect: 1}, correct: idx(0, 0), incorrect: idx(0, 1)},
				Partial: {counts: wantCounts{correct: 1, partial: 1}, correct: idx(0, 0), partial: idx(0, 1)},
			},
		},
		{
			name: "truncated entity keeps its label",
			pred: []string{"O", "B-PER", "I-PER", "O", "O", "O", "B-ORG", "O"},
			want: map[Strategy]expectation{
				Strict:  {counts: wantCounts{correct: 1, incorrect: 1}, correct: idx(0, 0), incorrect: idx(0, 1)},
				EntType: {counts: wantCounts{correct: 2}, correct: idx(0, 0, 0, 1)},
				Exact:   {counts: wantCounts{correct: 1, incorrect: 1}, correct: idx(0, 0), incorrect: idx(0, 1)},
				Partial: {counts: wantCounts{correct: 1, partial: 1}, correct: idx(0, 0), partial: idx(0, 1)},
			},
		},
		{
			name: "extra entity",
			pred: []string{"O", "B-PER", "I-PER", "O", "B-PER", "O", "B-LOC", "I-LOC"},
			want: map[Strategy]expectation{
				Strict: {
					counts:  wantCounts{correct: 1, incorrect: 1, spurious: 1},
					correct: idx(0, 0), incorrect: idx(0, 2), spur: idx(0, 1),
				},
				EntType: {
					counts:  wantCounts{correct: 1, incorrect: 1, spurious: 1},
					correct: idx(0, 0), incorrect: idx(0, 2), spur: idx(0, 1),
				},
				Exact: {
					counts:  wantCounts{correct: 2, spurious: 1},
					correct: idx(0, 0, 0, 2), spur: idx(0, 1),
				},
				Partial: {
					counts:  wantCounts{correct: 2, spurious: 1},
					correct: idx(0, 0, 0, 2), spur: idx(0, 1),
				},
			},
		},
	}

	truth := mustCollect(t, baseSequence)
	for _, tt := range tests {
		pred := mustCollect(t, tt.pred)
		for _, s := range Strategies {
			t.Run(tt.name+"/"+string(s), func(t *testing.T) {
				want := tt.want[s]
				res, ix := mustMatcher(t, s).Evaluate(truth, pred, tags, 0)

				checkCounts(t, res, want.counts)
				checkIndices(t, "correct", ix.Correct, want.correct)
				checkIndices(t, "incorrect", ix.Incorrect, want.incorrect)
				checkIndices(t, "partial", ix.Partial, want.partial)
				checkIndices(t, "missed", ix.Missed, want.missed)
				checkIndices(t, "spurious", ix.Spurious, want.spur)
			})
		}
	}
}

func TestMatcher_Evaluate_FiltersTags(t *testing.T) {
	truth := []Entity{{"PER", 1, 2}, {"MISC", 4, 4}}
	pred := []Entity{{"PER", 1, 2}, {"MISC", 4, 4}, {"DATE", 6, 6}}

	res, _ := mustMatcher(t, Strict).Evaluate(truth, pred, []string{"PER"}, 3)
	checkCounts(t, res, wantCounts{correct: 1})
	if res.Actual != 1 || res.Possible != 1 {
		t.Errorf("Actual, Possible = %d, %d, want 1, 1", res.Actual, res.Possible)
	}
}

func TestMatcher_Evaluate_FirstUnmatchedTrueWins(t *testing.T) {
	// The prediction overlaps both true entities; the first one is consumed
	// and the second is missed.
	truth := []Entity{{"PER", 0, 1}, {"PER", 3, 5}}
	pred := []Entity{{"PER", 1, 3}}

	for _, s := range Strategies {
		t.Run(string(s), func(t *testing.T) {
			res, ix := mustMatcher(t, s).Evaluate(truth, pred, []string{"PER"}, 0)
			if res.Missed != 1 {
				t.Errorf("Missed = %d, want 1", res.Missed)
			}
			checkIndices(t, "missed", ix.Missed, idx(0, 1))
		})
	}
}

func TestMatcher_Evaluate_TrueEntityConsumedOnce(t *testing.T) {
	truth := []Entity{{"ORG", 2, 5}}
	pred := []Entity{{"ORG", 2, 3}, {"ORG", 4, 5}}

	res, ix := mustMatcher(t, Partial).Evaluate(truth, pred, []string{"ORG"}, 0)
	checkCounts(t, res, wantCounts{partial: 1, spurious: 1})
	checkIndices(t, "spurious", ix.Spurious, idx(0, 1))
}

func TestMatcher_MinOverlap(t *testing.T) {
	truth := []Entity{{"ORG", 0, 9}}
	pred := []Entity{{"ORG", 0, 1}}

	tests := []struct {
		name       string
		minOverlap float64
		want       wantCounts
	}{
		{"any overlap", DefaultMinOverlapPercent, wantCounts{correct: 1}},
		{"threshold met", 20, wantCounts{correct: 1}},
		{"threshold not met", 50, wantCounts{missed: 1, spurious: 1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, err := NewMatcher(EntType, tt.minOverlap)
			if err != nil {
				t.Fatalf("NewMatcher() error = %v", err)
			}
			res, _ := m.Evaluate(truth, pred, []string{"ORG"}, 0)
			checkCounts(t, res, tt.want)
		})
	}
}

func TestNewMatcher_UnknownStrategy(t *testing.T) {
	if _, err := NewMatcher("fuzzy", DefaultMinOverlapPercent); err == nil {
		t.Fatal("expected error for unknown strategy")
	}
}

func TestParseStrategy(t *testing.T) {
	for _, s := range Strategies {
		got, err := ParseStrategy(string(s))
		if err != nil || got != s {
			t.Errorf("ParseStrategy(%q) = %q, %v", s, got, err)
		}
	}
	if _, err := ParseStrategy("loose"); err == nil {
		t.Error("expected error for unknown scenario")
	}
}

func randomDoc(r *rand.Rand, labels []string) []Entity {
	var ents []Entity
	pos := 0
	for pos < 40 {
		pos += r.IntN(4)
		width := r.IntN(4)
		ents = append(ents, Entity{Label: labels[r.IntN(len(labels))], Start: pos, End: pos + width})
		pos += width + 1
	}
	return ents
}

func TestMatcher_Properties(t *testing.T) {
	labels := []string{"PER", "ORG", "LOC"}
	r := rand.New(rand.NewPCG(7, 11))

	for trial := 0; trial < 200; trial++ {
		truth := randomDoc(r, labels)
		pred := randomDoc(r, labels)

		correct := make(map[Strategy][]Index)
		for _, s := range Strategies {
			res, ix := mustMatcher(t, s).Evaluate(truth, pred, labels, trial)

			if res.Possible != len(truth) {
				t.Fatalf("trial %d %s: Possible = %d, want %d", trial, s, res.Possible, len(truth))
			}
			if res.Actual != len(pred) {
				t.Fatalf("trial %d %s: Actual = %d, want %d", trial, s, res.Actual, len(pred))
			}
			for _, v := range []float64{res.Precision, res.Recall, res.F1} {
				if v < 0 || v > 1 {
					t.Fatalf("trial %d %s: metric %v out of [0, 1]", trial, s, v)
				}
			}
			if len(ix.Correct) != res.Correct || len(ix.Incorrect) != res.Incorrect ||
				len(ix.Partial) != res.Partial || len(ix.Missed) != res.Missed ||
				len(ix.Spurious) != res.Spurious {
				t.Fatalf("trial %d %s: indices do not match counters", trial, s)
			}
			if s == Strict || s == Exact {
				if res.Partial != 0 {
					t.Fatalf("trial %d %s: Partial = %d, want 0", trial, s, res.Partial)
				}
			}
			correct[s] = ix.Correct
		}

		for _, at := range correct[Strict] {
			if !slices.Contains(correct[Exact], at) {
				t.Fatalf("trial %d: strict correct %v not correct under exact", trial, at)
			}
			if !slices.Contains(correct[Partial], at) {
				t.Fatalf("trial %d: strict correct %v not correct under partial", trial, at)
			}
		}
	}
}
