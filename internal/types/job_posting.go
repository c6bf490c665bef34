// Package types provides type definitions for structured data used throughout the resume-forge system.
//
//nolint:revive // types is a standard Go package name pattern
package types

import "time"

// JobPosting is a job the candidate is considering. It is immutable once created;
// the stored list is ordered most-recent-first.
type JobPosting struct {
	ID          string    `json:"id" validate:"required,uuid"`
	Title       string    `json:"title" validate:"required"`
	Company     string    `json:"company,omitempty"`
	Description string    `json:"description" validate:"required"`
	URL         string    `json:"url,omitempty" validate:"omitempty,url"`
	FitScore    *FitScore `json:"fit_score,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}
