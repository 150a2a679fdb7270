package nereval

import "testing"

func TestEntity_Overlaps(t *testing.T) {
	tests := []struct {
		name string
		a, b Entity
		want bool
	}{
		{"identical", Entity{"PER", 1, 2}, Entity{"PER", 1, 2}, true},
		{"touching last token", Entity{"PER", 1, 2}, Entity{"ORG", 2, 5}, true},
		{"contained", Entity{"PER", 3, 3}, Entity{"PER", 1, 5}, true},
		{"adjacent", Entity{"PER", 1, 2}, Entity{"PER", 3, 4}, false},
		{"disjoint", Entity{"PER", 7, 9}, Entity{"PER", 1, 2}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.a.Overlaps(tt.b); got != tt.want {
				t.Errorf("Overlaps() = %v, want %v", got, tt.want)
			}
			if got := tt.b.Overlaps(tt.a); got != tt.want {
				t.Errorf("Overlaps() reversed = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestOverlapPercent(t *testing.T) {
	tests := []struct {
		name        string
		pred, truth Entity
		want        float64
	}{
		{"full", Entity{"X", 0, 9}, Entity{"X", 0, 9}, 100},
		{"two of ten", Entity{"X", 0, 1}, Entity{"X", 0, 9}, 20},
		{"prediction wider than truth", Entity{"X", 0, 20}, Entity{"X", 5, 9}, 100},
		{"half", Entity{"X", 3, 8}, Entity{"X", 0, 5}, 50},
		{"disjoint", Entity{"X", 10, 12}, Entity{"X", 0, 5}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := overlapPercent(tt.pred, tt.truth); !almostEqual(got, tt.want) {
				t.Errorf("overlapPercent() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestPrepare(t *testing.T) {
	truth := []Entity{{"ORG", 6, 7}, {"MISC", 0, 0}, {"PER", 1, 2}}
	pred := []Entity{{"PER", 4, 9}, {"ORG", 6, 7}, {"PER", 1, 2}}

	gotTrue, gotPred := prepare(truth, pred, []string{"PER", "ORG"})

	wantTrue := []Entity{{"PER", 1, 2}, {"ORG", 6, 7}}
	wantPred := []Entity{{"PER", 1, 2}, {"ORG", 6, 7}, {"PER", 4, 9}}
	if len(gotTrue) != len(wantTrue) || len(gotPred) != len(wantPred) {
		t.Fatalf("prepare() = %v, %v", gotTrue, gotPred)
	}
	for i := range wantTrue {
		if gotTrue[i] != wantTrue[i] {
			t.Errorf("true[%d] = %v, want %v", i, gotTrue[i], wantTrue[i])
		}
	}
	for i := range wantPred {
		if gotPred[i] != wantPred[i] {
			t.Errorf("pred[%d] = %v, want %v", i, gotPred[i], wantPred[i])
		}
	}

	// Inputs are left untouched.
	if truth[0] != (Entity{"ORG", 6, 7}) {
		t.Errorf("prepare() reordered its input: %v", truth)
	}
}
