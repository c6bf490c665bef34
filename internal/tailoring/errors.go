// Package tailoring asks the text-generation model for fit scores and
// tailored resumes and admits its answers through the repair package.
package tailoring

import "errors"

var (
	// ErrEmptyProfile is returned when there is nothing to tailor from
	ErrEmptyProfile = errors.New("profile has no entries")
	// ErrEmptyJobDescription is returned when the job description is blank
	ErrEmptyJobDescription = errors.New("job description is empty")
)
