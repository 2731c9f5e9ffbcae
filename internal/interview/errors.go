package interview

import "fmt"

// InputError reports a caller-supplied value that cannot be processed
type InputError struct {
	Field   string
	Message string
	Cause   error
}

func (e *InputError) Error() string {
	return e.Message
}

func (e *InputError) Unwrap() error {
	return e.Cause
}

func inputErrorf(field, format string, args ...any) *InputError {
	return &InputError{Field: field, Message: fmt.Sprintf(format, args...)}
}
