// Package rendering lays out a ResumeDocument in canonical section order and
// writes it as a DOCX archive.
package rendering

import (
	"errors"
	"fmt"
)

var (
	// ErrRenderFailed is matched by every RenderError
	ErrRenderFailed = errors.New("render failed")
	// ErrInvalidTemplate is matched by every TemplateError
	ErrInvalidTemplate = errors.New("invalid template")
)

// TemplateError represents a missing or unreadable template archive
type TemplateError struct {
	Message string
	Cause   error
}

func (e *TemplateError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("template error: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("template error: %s", e.Message)
}

func (e *TemplateError) Unwrap() error {
	return e.Cause
}

func (e *TemplateError) Is(target error) bool {
	return target == ErrInvalidTemplate
}

// RenderError represents a general rendering failure
type RenderError struct {
	Message string
	Cause   error
}

func (e *RenderError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("render error: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("render error: %s", e.Message)
}

func (e *RenderError) Unwrap() error {
	return e.Cause
}

func (e *RenderError) Is(target error) bool {
	return target == ErrRenderFailed
}
