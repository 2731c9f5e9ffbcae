package normalize

import (
	"fmt"
	"strings"
)

// DecodeError is a single failed attempt to read model output as JSON
type DecodeError struct {
	Attempt int
	Cause   error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("attempt %d: output is not valid JSON: %v", e.Attempt, e.Cause)
}

func (e *DecodeError) Unwrap() error {
	return e.Cause
}

// ResponseFormatError is returned when the model output never decoded as JSON,
// including after the retry.
type ResponseFormatError struct {
	Attempts []*DecodeError
}

func (e *ResponseFormatError) Error() string {
	parts := make([]string, 0, len(e.Attempts))
	for _, a := range e.Attempts {
		parts = append(parts, a.Error())
	}
	return fmt.Sprintf("model output was not valid JSON after %d attempts: %s", len(e.Attempts), strings.Join(parts, "; "))
}

func (e *ResponseFormatError) Unwrap() []error {
	errs := make([]error, 0, len(e.Attempts))
	for _, a := range e.Attempts {
		errs = append(errs, a)
	}
	return errs
}

// SchemaValidationError is returned when decoded output cannot be coerced into the target shape
type SchemaValidationError struct {
	Message string
	Cause   error
}

func (e *SchemaValidationError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("schema validation error: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("schema validation error: %s", e.Message)
}

func (e *SchemaValidationError) Unwrap() error {
	return e.Cause
}
