package nereval

import (
	"errors"
	"fmt"
)

// Error categories. Every sentinel below wraps exactly one of them, so callers
// can branch on the category with errors.Is.
var (
	// ErrInvalidInput indicates the true or predicted data has the wrong shape.
	ErrInvalidInput = errors.New("nereval: invalid input")

	// ErrInvalidConfig indicates a construction or report parameter is out of range.
	ErrInvalidConfig = errors.New("nereval: invalid configuration")
)

// Input shape errors.
var (
	// ErrDocumentCountMismatch indicates true and predicted inputs hold a
	// different number of documents.
	ErrDocumentCountMismatch = fmt.Errorf("%w: number of predicted documents does not equal true", ErrInvalidInput)

	// ErrDocumentLengthMismatch indicates a true and predicted tag sequence of
	// the same document differ in length.
	ErrDocumentLengthMismatch = fmt.Errorf("%w: tag sequence length mismatch", ErrInvalidInput)

	// ErrMissingSeparator indicates a CoNLL line without a tab separator.
	ErrMissingSeparator = fmt.Errorf("%w: CoNLL line does not contain a tab separator", ErrInvalidInput)

	// ErrInvalidTag indicates a tag that is not O, B-<LABEL> or I-<LABEL>.
	ErrInvalidTag = fmt.Errorf("%w: invalid tag format", ErrInvalidInput)

	// ErrInvalidEntity indicates a span record with missing or mistyped fields.
	ErrInvalidEntity = fmt.Errorf("%w: invalid entity", ErrInvalidInput)

	// ErrUnsupportedInput indicates raw data of a Go type the loader cannot read.
	ErrUnsupportedInput = fmt.Errorf("%w: unsupported input type", ErrInvalidInput)
)

// Configuration errors.
var (
	// ErrInvalidOverlap indicates a minimum overlap percentage outside [1, 100].
	ErrInvalidOverlap = fmt.Errorf("%w: minimum overlap percentage must be within [1, 100]", ErrInvalidConfig)

	// ErrUnknownLoader indicates an unrecognised loader name.
	ErrUnknownLoader = fmt.Errorf("%w: unknown loader", ErrInvalidConfig)

	// ErrUnknownMode indicates an unrecognised report mode.
	ErrUnknownMode = fmt.Errorf("%w: unknown report mode", ErrInvalidConfig)

	// ErrUnknownScenario indicates an unrecognised strategy name.
	ErrUnknownScenario = fmt.Errorf("%w: unknown scenario", ErrInvalidConfig)
)
