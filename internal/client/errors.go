// Package client talks to the resume-forge HTTP service. Uploads are retried
// with linear backoff; rejected requests are returned immediately.
package client

import (
	"errors"
	"fmt"
)

var (
	// ErrUploadFailed is matched by every UploadFailedError
	ErrUploadFailed = errors.New("upload failed")
	// ErrRejected is matched by every APIError
	ErrRejected = errors.New("request rejected")
)

// UploadFailedError is returned once every attempt has failed. Cause is the
// error of the final attempt.
type UploadFailedError struct {
	Op         string
	Attempts   int
	StatusCode int
	Cause      error
}

func (e *UploadFailedError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("upload failed: %s after %d attempt(s): %v", e.Op, e.Attempts, e.Cause)
	}
	return fmt.Sprintf("upload failed: %s after %d attempt(s)", e.Op, e.Attempts)
}

func (e *UploadFailedError) Unwrap() error {
	return e.Cause
}

func (e *UploadFailedError) Is(target error) bool {
	return target == ErrUploadFailed
}

// APIError is a non-2xx response from the service
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("service returned %d: %s", e.StatusCode, e.Message)
}

func (e *APIError) Is(target error) bool {
	return target == ErrRejected
}

// retryable reports whether a response status is worth another attempt
func retryable(status int) bool {
	return status == 429 || status >= 500
}
