package llm

import (
	"errors"
	"fmt"
)

// Stable error kinds for model-side failures. Malformed output kinds are
// raised only after the single repair retry also fails.
const (
	KindMalformedPlan    = "llm.malformed_plan"
	KindMalformedVerdict = "llm.malformed_verdict"
	KindTimeout          = "llm.timeout"
)

// Error tags a backend or parse failure with its kind.
type Error struct {
	Kind string
	Err  error
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %v", e.Kind, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// AsLLMError extracts an *Error from an error chain.
func AsLLMError(err error) (*Error, bool) {
	var le *Error
	ok := errors.As(err, &le)
	return le, ok
}
