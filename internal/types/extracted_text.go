// Package types provides type definitions for structured data used throughout the resume-forge system.
//
//nolint:revive // types is a standard Go package name pattern
package types

// ExtractedText is the plain text derived from one uploaded document.
// Length is the rune count of Cleaned.
type ExtractedText struct {
	Raw     string `json:"raw"`
	Cleaned string `json:"cleaned"`
	Length  int    `json:"length"`
}
