// Package schemas embeds the JSON Schema contracts for structured AI output.
package schemas

import "embed"

// Files holds every *.schema.json in this directory
//
//go:embed *.schema.json
var Files embed.FS

// Schema file names
const (
	FitScore       = "fit_score.schema.json"
	ResumeDocument = "resume_document.schema.json"
	JobPosting     = "job_posting.schema.json"
)
