// Package repair turns free-form model output into validated structured JSON.
// It is the only gate between generated text and the rest of the system.
package repair

import (
	"errors"
	"fmt"
)

// ErrUnparsableResponse is matched by every UnparsableResponseError
var ErrUnparsableResponse = errors.New("unparsable response")

// UnparsableResponseError reports text that could not be parsed, or parsed
// into a value that does not satisfy the expected shape.
type UnparsableResponseError struct {
	Shape   string
	Outcome Outcome
	Snippet string
	Cause   error
}

func (e *UnparsableResponseError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("unparsable %s response (%s): %v", e.Shape, e.Outcome, e.Cause)
	}
	return fmt.Sprintf("unparsable %s response (%s)", e.Shape, e.Outcome)
}

func (e *UnparsableResponseError) Unwrap() error {
	return e.Cause
}

func (e *UnparsableResponseError) Is(target error) bool {
	return target == ErrUnparsableResponse
}
