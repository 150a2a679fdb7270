//go:build ignore

// Process CoNLL-2003 NER files into nereval corpus formats.
// Writes a tab-separated CoNLL file and a tag-list JSONL file per split.
// Usage: go run ./scripts/process-conll2003.go
package main

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Sentence is one tokenized sentence with its NER tags.
type Sentence struct {
	Tokens []string
	Tags   []string
}

func main() {
	inDir := "testdata/conll2003"
	outDir := "testdata/conll2003"

	splits := []string{"train", "testa", "testb"}

	for _, split := range splits {
		inFile := filepath.Join(inDir, fmt.Sprintf("eng.%s", split))

		fmt.Printf("Processing %s...\n", split)
		sentences, err := processCoNLL2003(inFile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error processing %s: %v\n", inFile, err)
			continue
		}

		conllFile := filepath.Join(outDir, fmt.Sprintf("%s.conll", split))
		if err := writeConll(conllFile, sentences); err != nil {
			fmt.Fprintf(os.Stderr, "Error writing %s: %v\n", conllFile, err)
			continue
		}

		listFile := filepath.Join(outDir, fmt.Sprintf("%s.jsonl", split))
		if err := writeTagLists(listFile, sentences); err != nil {
			fmt.Fprintf(os.Stderr, "Error writing %s: %v\n", listFile, err)
			continue
		}

		fmt.Printf("  -> %s, %s (%d sentences)\n", conllFile, listFile, len(sentences))
	}

	fmt.Println("\nDone! Corpus files created in testdata/conll2003/")
}

// processCoNLL2003 reads space-separated "token POS chunk NER" lines.
// -DOCSTART- lines and blank lines end a sentence.
func processCoNLL2003(path string) ([]Sentence, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening file: %w", err)
	}
	defer file.Close()

	var (
		sentences []Sentence
		current   Sentence
	)
	flush := func() {
		if len(current.Tokens) > 0 {
			sentences = append(sentences, current)
		}
		current = Sentence{}
	}

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())

		if line == "" || strings.HasPrefix(line, "-DOCSTART-") {
			flush()
			continue
		}

		fields := strings.Fields(line)
		if len(fields) < 2 {
			return nil, fmt.Errorf("malformed line %q", line)
		}
		current.Tokens = append(current.Tokens, fields[0])
		current.Tags = append(current.Tags, fields[len(fields)-1])
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scanning file: %w", err)
	}

	// Don't forget last sentence if no trailing blank
	flush()

	return sentences, nil
}

func writeConll(path string, sentences []Sentence) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating file: %w", err)
	}
	defer file.Close()

	w := bufio.NewWriter(file)
	for i, s := range sentences {
		if i > 0 {
			w.WriteString("\n")
		}
		for j, tok := range s.Tokens {
			fmt.Fprintf(w, "%s\t%s\n", tok, s.Tags[j])
		}
	}
	return w.Flush()
}

func writeTagLists(path string, sentences []Sentence) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating file: %w", err)
	}
	defer file.Close()

	encoder := json.NewEncoder(file)
	for _, s := range sentences {
		if err := encoder.Encode(s.Tags); err != nil {
			return err
		}
	}
	return nil
}
