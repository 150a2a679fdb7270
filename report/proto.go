package report

import (
	"fmt"

	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/known/structpb"

	nereval "github.com/jamesainslie/go-nereval"
)

// ExportOptions selects what an export contains.
type ExportOptions struct {
	// ByTag adds the per-tag results under "entities".
	ByTag bool
	// Indices adds "overall_indices" (and "entity_indices" with ByTag).
	Indices bool
	// Pretty indents JSON output.
	Pretty bool
}

// ToStruct converts res to a protobuf Struct shaped like
//
//	{"overall": {"strict": {"correct": 1, ..., "f1": 0.5}, ...},
//	 "entities": {"PER": {"strict": {...}, ...}, ...}}
func ToStruct(res *nereval.Results, opts ExportOptions) (*structpb.Struct, error) {
	m := map[string]any{
		"overall": strategyResults(res.Overall),
	}
	if opts.ByTag {
		ents := make(map[string]any, len(res.Entities))
		for tag, byStrategy := range res.Entities {
			ents[tag] = strategyResults(byStrategy)
		}
		m["entities"] = ents
	}
	if opts.Indices {
		m["overall_indices"] = strategyIndices(res.OverallIndices)
		if opts.ByTag {
			ents := make(map[string]any, len(res.EntityIndices))
			for tag, byStrategy := range res.EntityIndices {
				ents[tag] = strategyIndices(byStrategy)
			}
			m["entity_indices"] = ents
		}
	}

	st, err := structpb.NewStruct(m)
	if err != nil {
		return nil, fmt.Errorf("building result struct: %w", err)
	}
	return st, nil
}

// MarshalJSON renders res as protojson.
func MarshalJSON(res *nereval.Results, opts ExportOptions) ([]byte, error) {
	st, err := ToStruct(res, opts)
	if err != nil {
		return nil, err
	}
	mo := protojson.MarshalOptions{UseProtoNames: true}
	if opts.Pretty {
		mo.Multiline = true
		mo.Indent = "  "
	}
	data, err := mo.Marshal(st)
	if err != nil {
		return nil, fmt.Errorf("marshaling results to json: %w", err)
	}
	return data, nil
}

// MarshalBinary renders res in the protobuf wire format of
// google.protobuf.Struct.
func MarshalBinary(res *nereval.Results, opts ExportOptions) ([]byte, error) {
	st, err := ToStruct(res, opts)
	if err != nil {
		return nil, err
	}
	data, err := proto.MarshalOptions{Deterministic: true}.Marshal(st)
	if err != nil {
		return nil, fmt.Errorf("marshaling results: %w", err)
	}
	return data, nil
}

// UnmarshalBinary decodes the output of MarshalBinary.
func UnmarshalBinary(data []byte) (*structpb.Struct, error) {
	st := &structpb.Struct{}
	if err := proto.Unmarshal(data, st); err != nil {
		return nil, fmt.Errorf("unmarshaling results: %w", err)
	}
	return st, nil
}

func strategyResults(byStrategy map[nereval.Strategy]nereval.Result) map[string]any {
	out := make(map[string]any, len(byStrategy))
	for s, r := range byStrategy {
		out[string(s)] = map[string]any{
			"correct":   r.Correct,
			"incorrect": r.Incorrect,
			"partial":   r.Partial,
			"missed":    r.Missed,
			"spurious":  r.Spurious,
			"precision": r.Precision,
			"recall":    r.Recall,
			"f1":        r.F1,
			"actual":    r.Actual,
			"possible":  r.Possible,
		}
	}
	return out
}

func strategyIndices(byStrategy map[nereval.Strategy]nereval.Indices) map[string]any {
	out := make(map[string]any, len(byStrategy))
	for s, ix := range byStrategy {
		cats := make(map[string]any, len(nereval.Categories))
		for _, c := range nereval.Categories {
			list := ix.List(c)
			pairs := make([]any, 0, len(list))
			for _, at := range list {
				pairs = append(pairs, []any{at.Doc, at.Entity})
			}
			cats[string(c)] = pairs
		}
		out[string(s)] = cats
	}
	return out
}
