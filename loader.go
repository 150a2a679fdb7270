package nereval

import (
	"encoding/json"
	"fmt"
	"math"
	"strings"
)

// LoaderKind selects how raw true/pred input is turned into entities.
type LoaderKind int

// Supported input formats.
const (
	// LoaderDefault infers the format from the Go type of the input.
	LoaderDefault LoaderKind = iota
	// LoaderList reads [][]string of BIO tags, one slice per document.
	LoaderList
	// LoaderConll reads one string of token<TAB>tag lines, documents
	// separated by blank lines.
	LoaderConll
	// LoaderDict reads span records: [][]Entity, [][]map[string]any or the
	// equivalent []any produced by encoding/json.
	LoaderDict
)

var loaderNames = map[LoaderKind]string{
	LoaderDefault: "default",
	LoaderList:    "list",
	LoaderConll:   "conll",
	LoaderDict:    "dict",
}

func (k LoaderKind) String() string {
	if n, ok := loaderNames[k]; ok {
		return n
	}
	return fmt.Sprintf("LoaderKind(%d)", int(k))
}

// ParseLoaderKind maps a loader name to its kind. The empty string selects
// LoaderDefault.
func ParseLoaderKind(s string) (LoaderKind, error) {
	if s == "" {
		return LoaderDefault, nil
	}
	for k, n := range loaderNames {
		if n == s {
			return k, nil
		}
	}
	return 0, fmt.Errorf("%w: %q (want one of list, conll, dict, default)", ErrUnknownLoader, s)
}

// Loader converts raw input into one entity list per document.
type Loader interface {
	Load(raw any) ([][]Entity, error)
}

// NewLoader returns the Loader for k. LoaderDefault has no loader of its
// own; use InferLoaderKind first.
func NewLoader(k LoaderKind) (Loader, error) {
	switch k {
	case LoaderList:
		return ListLoader{}, nil
	case LoaderConll:
		return ConllLoader{}, nil
	case LoaderDict:
		return DictLoader{}, nil
	}
	return nil, fmt.Errorf("%w: %s", ErrUnknownLoader, k)
}

// InferLoaderKind picks a loader from the Go type of raw.
func InferLoaderKind(raw any) (LoaderKind, error) {
	switch v := raw.(type) {
	case string:
		return LoaderConll, nil
	case [][]string:
		return LoaderList, nil
	case [][]Entity, [][]map[string]any:
		return LoaderDict, nil
	case []any:
		// encoding/json output: look at the first element of the first
		// non-empty document.
		for _, doc := range v {
			items, ok := doc.([]any)
			if !ok {
				break
			}
			if len(items) == 0 {
				continue
			}
			switch items[0].(type) {
			case string:
				return LoaderList, nil
			case map[string]any:
				return LoaderDict, nil
			}
			break
		}
	}
	return 0, fmt.Errorf("%w: could not infer loader from %T", ErrUnsupportedInput, raw)
}

// ListLoader reads BIO tag sequences.
type ListLoader struct{}

// Load implements Loader.
func (ListLoader) Load(raw any) ([][]Entity, error) {
	docs, err := tagSequences(raw)
	if err != nil {
		return nil, err
	}

	out := make([][]Entity, 0, len(docs))
	for i, tags := range docs {
		ents, err := CollectEntities(tags)
		if err != nil {
			return nil, fmt.Errorf("document %d: %w", i, err)
		}
		out = append(out, ents)
	}
	return out, nil
}

// tagSequences accepts [][]string or the []any form encoding/json produces.
func tagSequences(raw any) ([][]string, error) {
	switch v := raw.(type) {
	case [][]string:
		return v, nil
	case []any:
		docs := make([][]string, 0, len(v))
		for i, d := range v {
			items, ok := d.([]any)
			if !ok {
				return nil, fmt.Errorf("%w: document %d is %T, want a list of tags", ErrUnsupportedInput, i, d)
			}
			tags := make([]string, 0, len(items))
			for j, it := range items {
				s, ok := it.(string)
				if !ok {
					return nil, fmt.Errorf("%w: document %d token %d is %T, want string", ErrInvalidTag, i, j, it)
				}
				tags = append(tags, s)
			}
			docs = append(docs, tags)
		}
		return docs, nil
	}
	return nil, fmt.Errorf("%w: list loader expects [][]string, got %T", ErrUnsupportedInput, raw)
}

// CollectEntities converts one BIO tag sequence into entities with inclusive
// token offsets. A B- tag always starts a new entity, even when it repeats
// the label of the entity before it; an I- tag with a different label also
// starts one.
func CollectEntities(tags []string) ([]Entity, error) {
	ents := []Entity{}
	var (
		open  bool
		label string
		start int
	)

	closeAt := func(end int) {
		if open {
			ents = append(ents, Entity{Label: label, Start: start, End: end})
			open = false
		}
	}

	for offset, tag := range tags {
		if tag == "O" {
			closeAt(offset - 1)
			continue
		}
		if !strings.HasPrefix(tag, "B-") && !strings.HasPrefix(tag, "I-") {
			return nil, fmt.Errorf("%w: %q at token %d", ErrInvalidTag, tag, offset)
		}

		tagLabel := tag[2:]
		if open && tagLabel == label && tag[0] == 'I' {
			continue
		}
		closeAt(offset - 1)
		open, label, start = true, tagLabel, offset
	}
	closeAt(len(tags) - 1)

	return ents, nil
}

// ConllLoader reads tab-separated token/tag lines. Documents are separated
// by a blank line; the tag is the second column.
type ConllLoader struct{}

// Load implements Loader.
func (ConllLoader) Load(raw any) ([][]Entity, error) {
	data, ok := raw.(string)
	if !ok {
		return nil, fmt.Errorf("%w: conll loader expects string, got %T", ErrUnsupportedInput, raw)
	}

	docs, err := ParseConll(data)
	if err != nil {
		return nil, err
	}
	return ListLoader{}.Load(docs)
}

// ParseConll splits CoNLL text into one tag sequence per document.
func ParseConll(data string) ([][]string, error) {
	data = strings.ReplaceAll(data, "\r\n", "\n")
	data = strings.TrimRight(data, " \t\n")
	if data == "" {
		return [][]string{}, nil
	}

	var docs [][]string
	for _, block := range strings.Split(data, "\n\n") {
		tags := []string{}
		for _, line := range strings.Split(block, "\n") {
			if strings.TrimSpace(line) == "" {
				continue
			}
			parts := strings.Split(line, "\t")
			if len(parts) < 2 {
				return nil, fmt.Errorf("%w: %q", ErrMissingSeparator, line)
			}
			tags = append(tags, strings.TrimSpace(parts[1]))
		}
		docs = append(docs, tags)
	}
	return docs, nil
}

// DictLoader reads span records. Each record needs a string label and
// integer start and end; extra fields are ignored.
type DictLoader struct{}

// Load implements Loader.
func (DictLoader) Load(raw any) ([][]Entity, error) {
	switch v := raw.(type) {
	case [][]Entity:
		out := make([][]Entity, len(v))
		for i, doc := range v {
			out[i] = append([]Entity{}, doc...)
		}
		return out, nil
	case [][]map[string]any:
		out := make([][]Entity, 0, len(v))
		for i, doc := range v {
			ents := make([]Entity, 0, len(doc))
			for j, rec := range doc {
				e, err := entityFromRecord(rec)
				if err != nil {
					return nil, fmt.Errorf("document %d entity %d: %w", i, j, err)
				}
				ents = append(ents, e)
			}
			out = append(out, ents)
		}
		return out, nil
	case []any:
		out := make([][]Entity, 0, len(v))
		for i, d := range v {
			items, ok := d.([]any)
			if !ok {
				return nil, fmt.Errorf("%w: document %d is %T, want a list of entities", ErrUnsupportedInput, i, d)
			}
			ents := make([]Entity, 0, len(items))
			for j, it := range items {
				rec, ok := it.(map[string]any)
				if !ok {
					return nil, fmt.Errorf("%w: document %d entity %d is %T", ErrInvalidEntity, i, j, it)
				}
				e, err := entityFromRecord(rec)
				if err != nil {
					return nil, fmt.Errorf("document %d entity %d: %w", i, j, err)
				}
				ents = append(ents, e)
			}
			out = append(out, ents)
		}
		return out, nil
	}
	return nil, fmt.Errorf("%w: dict loader expects span records, got %T", ErrUnsupportedInput, raw)
}

func entityFromRecord(rec map[string]any) (Entity, error) {
	for _, key := range []string{"label", "start", "end"} {
		if _, ok := rec[key]; !ok {
			return Entity{}, fmt.Errorf("%w: missing required key %q", ErrInvalidEntity, key)
		}
	}

	label, ok := rec["label"].(string)
	if !ok {
		return Entity{}, fmt.Errorf("%w: label must be a string, got %T", ErrInvalidEntity, rec["label"])
	}
	start, err := asInt(rec["start"])
	if err != nil {
		return Entity{}, fmt.Errorf("%w: start: %w", ErrInvalidEntity, err)
	}
	end, err := asInt(rec["end"])
	if err != nil {
		return Entity{}, fmt.Errorf("%w: end: %w", ErrInvalidEntity, err)
	}
	return Entity{Label: label, Start: start, End: end}, nil
}

// asInt accepts Go integers, json.Number and integral float64 (the default
// numeric type of encoding/json).
func asInt(v any) (int, error) {
	switch n := v.(type) {
	case int:
		return n, nil
	case int32:
		return int(n), nil
	case int64:
		return int(n), nil
	case json.Number:
		i, err := n.Int64()
		if err != nil {
			return 0, fmt.Errorf("must be an integer, got %q", n.String())
		}
		return int(i), nil
	case float64:
		if n != math.Trunc(n) || math.IsInf(n, 0) {
			return 0, fmt.Errorf("must be an integer, got %v", n)
		}
		return int(n), nil
	}
	return 0, fmt.Errorf("must be an integer, got %T", v)
}
