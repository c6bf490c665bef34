// Package extraction converts uploaded DOCX and PDF documents into cleaned plain text.
package extraction

import (
	"errors"
	"fmt"
)

// Sentinel errors matched with errors.Is
var (
	// ErrInvalidFormat is returned when the byte signature does not match the declared format
	ErrInvalidFormat = errors.New("invalid format")
	// ErrExtractionTooShort is returned when the cleaned text is under MinTextLength runes
	ErrExtractionTooShort = errors.New("extraction too short")
	// ErrWrongFormatDetected is returned when the text carries markers of another binary format
	ErrWrongFormatDetected = errors.New("wrong format detected")
	// ErrDecodeFailed is returned when the format decoder cannot read the document
	ErrDecodeFailed = errors.New("decode failed")
)

// InvalidFormatError reports a signature mismatch
type InvalidFormatError struct {
	Format Format
	Prefix []byte
}

func (e *InvalidFormatError) Error() string {
	return fmt.Sprintf("invalid format: expected %s signature, got % X", e.Format, e.Prefix)
}

func (e *InvalidFormatError) Is(target error) bool {
	return target == ErrInvalidFormat
}

// TooShortError reports extracted text below the minimum length
type TooShortError struct {
	Length int
	Min    int
}

func (e *TooShortError) Error() string {
	return fmt.Sprintf("extraction too short: %d characters (minimum %d); the document may be scanned or corrupt", e.Length, e.Min)
}

func (e *TooShortError) Is(target error) bool {
	return target == ErrExtractionTooShort
}

// WrongFormatError reports markers of a different format embedded in the extracted text
type WrongFormatError struct {
	Format Format
	Marker string
}

func (e *WrongFormatError) Error() string {
	return fmt.Sprintf("wrong format detected: %s text contains marker %q", e.Format, e.Marker)
}

func (e *WrongFormatError) Is(target error) bool {
	return target == ErrWrongFormatDetected
}

// DecodeError wraps a failure of the format-specific decoder
type DecodeError struct {
	Format  Format
	Message string
	Cause   error
}

func (e *DecodeError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("decode %s: %s: %v", e.Format, e.Message, e.Cause)
	}
	return fmt.Sprintf("decode %s: %s", e.Format, e.Message)
}

func (e *DecodeError) Unwrap() error {
	return e.Cause
}

func (e *DecodeError) Is(target error) bool {
	return target == ErrDecodeFailed
}
