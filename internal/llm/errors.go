package llm

import (
	"errors"
	"fmt"
)

// ErrAPICall is matched by every APICallError
var ErrAPICall = errors.New("llm api call failed")

// APICallError represents a failed text-generation call, after retries
type APICallError struct {
	Message  string
	Attempts int
	Cause    error
}

func (e *APICallError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("llm error: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("llm error: %s", e.Message)
}

func (e *APICallError) Unwrap() error {
	return e.Cause
}

func (e *APICallError) Is(target error) bool {
	return target == ErrAPICall
}
