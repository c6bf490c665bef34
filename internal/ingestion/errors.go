// Package ingestion turns job posting pages and pasted text into
// JobPosting records.
package ingestion

import (
	"errors"
	"fmt"
)

var (
	// ErrFetchFailed is returned when the posting page cannot be retrieved
	ErrFetchFailed = errors.New("fetch failed")
	// ErrIncompletePosting is returned when a required posting field cannot be found
	ErrIncompletePosting = errors.New("incomplete posting")
)

// IncompleteError names the posting field that could not be filled
type IncompleteError struct {
	Field string
	Cause error
}

func (e *IncompleteError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("incomplete posting: missing %s: %v", e.Field, e.Cause)
	}
	return fmt.Sprintf("incomplete posting: missing %s", e.Field)
}

func (e *IncompleteError) Unwrap() error {
	return e.Cause
}

// Is reports whether target is ErrIncompletePosting
func (e *IncompleteError) Is(target error) bool {
	return target == ErrIncompletePosting
}
