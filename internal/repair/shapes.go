package repair

import (
	"encoding/json"

	"github.com/jonathan/resume-forge/internal/schemas"
	"github.com/jonathan/resume-forge/internal/types"
	schemafiles "github.com/jonathan/resume-forge/schemas"
)

// Shape is the structural contract a repaired value must satisfy
type Shape interface {
	Name() string
	Validate(doc []byte) error
}

// schemaShape validates against an embedded JSON Schema
type schemaShape struct {
	name string
	file string
}

func (s schemaShape) Name() string { return s.name }

func (s schemaShape) Validate(doc []byte) error {
	return schemas.Validate(s.file, doc)
}

// Shapes backed by the embedded schemas
var (
	FitScoreShape       Shape = schemaShape{name: "fit score", file: schemafiles.FitScore}
	ResumeDocumentShape Shape = schemaShape{name: "resume document", file: schemafiles.ResumeDocument}
	JobPostingShape     Shape = schemaShape{name: "job posting", file: schemafiles.JobPosting}
)

// FitScore repairs raw text into a FitScore
func FitScore(raw string) (*types.FitScore, Result) {
	var score types.FitScore
	res := decode(raw, FitScoreShape, &score)
	if !res.OK() {
		return nil, res
	}
	return &score, res
}

// ResumeDocument repairs raw text into a ResumeDocument
func ResumeDocument(raw string) (*types.ResumeDocument, Result) {
	var doc types.ResumeDocument
	res := decode(raw, ResumeDocumentShape, &doc)
	if !res.OK() {
		return nil, res
	}
	return &doc, res
}

// JobPosting repairs raw extraction output into a JobPosting without id or timestamps
func JobPosting(raw string) (*types.JobPosting, Result) {
	var posting types.JobPosting
	res := decode(raw, JobPostingShape, &posting)
	if !res.OK() {
		return nil, res
	}
	return &posting, res
}

func decode(raw string, shape Shape, v interface{}) Result {
	res := Repair(raw, shape)
	if !res.OK() {
		return res
	}
	// The schema admits 85.0 as an integer; encoding/json does not.
	if err := json.Unmarshal(res.Value, v); err != nil {
		return Result{
			Stage:   res.Stage,
			Outcome: OutcomeShapeError,
			Err: &UnparsableResponseError{
				Shape:   shape.Name(),
				Outcome: OutcomeShapeError,
				Snippet: snippet(raw),
				Cause:   err,
			},
		}
	}
	return res
}
