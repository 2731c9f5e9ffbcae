package llm

import "fmt"

// RequestError is returned when the model call itself fails: missing credential,
// network failure, non-success status or a response with nothing to read.
// Blank completion text is returned as-is so the caller can treat it as bad output.
type RequestError struct {
	Provider Provider
	Message  string
	Cause    error
}

func (e *RequestError) Error() string {
	name := string(e.Provider)
	if name == "" {
		name = "model"
	}
	if e.Cause != nil {
		return fmt.Sprintf("%s request failed: %s: %v", name, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s request failed: %s", name, e.Message)
}

func (e *RequestError) Unwrap() error {
	return e.Cause
}

func requestError(p Provider, message string, cause error) error {
	return &RequestError{Provider: p, Message: message, Cause: cause}
}
