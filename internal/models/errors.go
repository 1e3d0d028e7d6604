package models

import (
	"errors"
	"fmt"
)

// ErrorKind is the stable machine-readable code attached to pipeline errors.
type ErrorKind string

const (
	KindInputTooShort       ErrorKind = "input_too_short"
	KindInputTooLong        ErrorKind = "input_too_long"
	KindInvalidSlideCount   ErrorKind = "invalid_slide_count"
	KindNoSlidesGenerated   ErrorKind = "no_slides_generated"
	KindSchemaViolation     ErrorKind = "schema_violation"
	KindBudgetExceeded      ErrorKind = "budget_exceeded"
	KindRateLimited         ErrorKind = "rate_limited"
	KindTransportFailure    ErrorKind = "transport_failure"
	KindMisconfigured       ErrorKind = "misconfigured"
	KindEmptyInstructions   ErrorKind = "empty_instructions"
	KindInvalidExistingDeck ErrorKind = "invalid_existing_deck"
)

// PipelineError is the typed error surface of the generation pipeline. The
// Kind field is stable across releases and is what callers switch on.
type PipelineError struct {
	Kind    ErrorKind
	Message string
	Err     error
}

func (e *PipelineError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *PipelineError) Unwrap() error { return e.Err }

// NewError builds a PipelineError with a formatted message.
func NewError(kind ErrorKind, format string, args ...any) *PipelineError {
	return &PipelineError{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// WrapError builds a PipelineError around an underlying cause.
func WrapError(kind ErrorKind, err error, format string, args ...any) *PipelineError {
	return &PipelineError{Kind: kind, Message: fmt.Sprintf(format, args...), Err: err}
}

// KindOf extracts the ErrorKind from err, or "" if err is not a pipeline error.
func KindOf(err error) ErrorKind {
	var pe *PipelineError
	if errors.As(err, &pe) {
		return pe.Kind
	}
	return ""
}

// IsKind reports whether err carries the given kind.
func IsKind(err error, kind ErrorKind) bool {
	return KindOf(err) == kind
}
