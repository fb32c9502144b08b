package exam

import (
	"errors"
	"fmt"
)

var (
	// ErrMalformedQuestion is returned when a question in an exam document
	// lacks a required field or contradicts itself.
	ErrMalformedQuestion = errors.New("malformed question")

	// ErrUnsupportedQuestionType is returned for a question kind that no
	// scoring rule exists for.
	ErrUnsupportedQuestionType = errors.New("unsupported question type")

	// ErrMalformedDocument is returned when the document is not the
	// expected array-of-parts shape at all.
	ErrMalformedDocument = errors.New("malformed exam document")
)

// LoadError locates a load failure inside the document so the author can
// find the offending entry.
type LoadError struct {
	Part    string
	Index   int // 1-based position in the part
	Reason  string
	Wrapped error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("%s question %d: %s: %v", e.Part, e.Index, e.Reason, e.Wrapped)
}

func (e *LoadError) Unwrap() error {
	return e.Wrapped
}

func malformed(part string, index int, reason string) error {
	return &LoadError{Part: part, Index: index, Reason: reason, Wrapped: ErrMalformedQuestion}
}
