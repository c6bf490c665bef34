// Package store persists the candidate profile, job postings, QA history
// and settings as whole JSON documents in a key-value backend.
package store

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

var (
	// ErrNotFound is returned by a KV backend for a missing key
	ErrNotFound = errors.New("not found")
	// ErrValidation is matched by every ValidationError
	ErrValidation = errors.New("validation failed")
)

// ValidationError reports a record that failed its validate tags
type ValidationError struct {
	Key    string
	Fields []string
	Cause  error
}

func (e *ValidationError) Error() string {
	if len(e.Fields) > 0 {
		return fmt.Sprintf("validation failed for %s: %s", e.Key, strings.Join(e.Fields, ", "))
	}
	if e.Cause != nil {
		return fmt.Sprintf("validation failed for %s: %v", e.Key, e.Cause)
	}
	return fmt.Sprintf("validation failed for %s", e.Key)
}

func (e *ValidationError) Unwrap() error {
	return e.Cause
}

// Is reports whether target is ErrValidation
func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

func newValidationError(key string, err error) *ValidationError {
	ve := &ValidationError{Key: key, Cause: err}
	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) {
		for _, fe := range fieldErrs {
			ve.Fields = append(ve.Fields, fmt.Sprintf("%s (%s)", fe.Namespace(), fe.Tag()))
		}
	}
	return ve
}
