package report

import (
	"fmt"
	"os"

	nereval "github.com/jamesainslie/go-nereval"
)

// WriteCSVFile writes the CSV view of res selected by mode and scenario to
// path, replacing any existing file.
func WriteCSVFile(path string, res *nereval.Results, mode nereval.Mode, scenario nereval.Strategy, digits int) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("closing %s: %w", path, cerr)
		}
	}()

	if err := res.WriteCSV(f, mode, scenario, digits); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}
