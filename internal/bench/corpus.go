// Package bench reads evaluation corpora from disk and sweeps the minimum
// overlap threshold over them.
package bench

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"

	nereval "github.com/jamesainslie/go-nereval"
)

// maxLineSize bounds one JSONL document.
const maxLineSize = 16 << 20

// Corpus is a pair of true and predicted inputs in the raw form their loader
// expects.
type Corpus struct {
	True   any
	Pred   any
	Loader nereval.LoaderKind
}

// LoadCorpus reads the true and predicted files. With LoaderDefault the
// format is detected from the true file and the predicted file is read the
// same way.
func LoadCorpus(truePath, predPath string, kind nereval.LoaderKind) (*Corpus, error) {
	trueRaw, kind, err := ReadInput(truePath, kind)
	if err != nil {
		return nil, err
	}
	predRaw, _, err := ReadInput(predPath, kind)
	if err != nil {
		return nil, err
	}
	return &Corpus{True: trueRaw, Pred: predRaw, Loader: kind}, nil
}

// ReadInput reads one file and returns its raw form together with the
// loader kind that reads it.
func ReadInput(path string, kind nereval.LoaderKind) (any, nereval.LoaderKind, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, kind, fmt.Errorf("read file: %w", err)
	}
	raw, kind, err := ParseInput(data, kind)
	if err != nil {
		return nil, kind, fmt.Errorf("parsing %s: %w", path, err)
	}
	return raw, kind, nil
}

// ParseInput converts file contents to the raw form of kind:
//
//   - conll: the whole file as a string
//   - list: JSONL, one JSON array of tags per line, as [][]string
//   - dict: JSONL, one JSON array of {label, start, end} objects per line,
//     as [][]map[string]any
//
// Blank JSONL lines are skipped. LoaderDefault picks JSONL when the first
// non-blank byte is '[' and CoNLL otherwise.
func ParseInput(data []byte, kind nereval.LoaderKind) (any, nereval.LoaderKind, error) {
	if kind == nereval.LoaderDefault {
		kind = detectKind(data)
	}

	switch kind {
	case nereval.LoaderConll:
		return string(data), kind, nil
	case nereval.LoaderList:
		docs, err := readJSONL[[]string](bytes.NewReader(data))
		return docs, kind, err
	case nereval.LoaderDict:
		docs, err := readJSONL[[]map[string]any](bytes.NewReader(data))
		return docs, kind, err
	}
	return nil, kind, fmt.Errorf("%w: %s", nereval.ErrUnknownLoader, kind)
}

// detectKind looks at the first non-blank line. A JSON array whose first
// element is an object is dict input; any other array is list input.
func detectKind(data []byte) nereval.LoaderKind {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || trimmed[0] != '[' {
		return nereval.LoaderConll
	}

	sc := bufio.NewScanner(bytes.NewReader(trimmed))
	sc.Buffer(make([]byte, 0, 64*1024), maxLineSize)
	for sc.Scan() {
		var doc []json.RawMessage
		if err := json.Unmarshal(sc.Bytes(), &doc); err != nil || len(doc) == 0 {
			continue
		}
		first := bytes.TrimSpace(doc[0])
		if len(first) > 0 && first[0] == '{' {
			return nereval.LoaderDict
		}
		return nereval.LoaderList
	}
	return nereval.LoaderList
}

func readJSONL[T any](r io.Reader) ([]T, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), maxLineSize)

	docs := []T{}
	line := 0
	for sc.Scan() {
		line++
		b := bytes.TrimSpace(sc.Bytes())
		if len(b) == 0 {
			continue
		}
		dec := json.NewDecoder(bytes.NewReader(b))
		dec.UseNumber()
		var doc T
		if err := dec.Decode(&doc); err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		docs = append(docs, doc)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("scan: %w", err)
	}
	return docs, nil
}

// WriteDictJSONL writes one JSON array of {label, start, end} records per
// document.
func WriteDictJSONL(w io.Writer, docs [][]nereval.Entity) error {
	enc := json.NewEncoder(w)
	for i, doc := range docs {
		if doc == nil {
			doc = []nereval.Entity{}
		}
		if err := enc.Encode(doc); err != nil {
			return fmt.Errorf("document %d: %w", i, err)
		}
	}
	return nil
}
