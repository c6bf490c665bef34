package repair

import (
	"encoding/json"
	"errors"
	"unicode/utf8"
)

// Stage records which parse attempt produced the value
type Stage int

const (
	// StageNone means no attempt produced parseable JSON
	StageNone Stage = iota
	// StageDirect parses the fence-stripped text as-is
	StageDirect
	// StageBraceSpan parses the first '{' through the last '}'
	StageBraceSpan
)

func (s Stage) String() string {
	switch s {
	case StageDirect:
		return "direct"
	case StageBraceSpan:
		return "brace-span"
	default:
		return "none"
	}
}

// Outcome classifies a repair attempt
type Outcome int

const (
	OutcomeOK Outcome = iota
	OutcomeParseError
	OutcomeShapeError
)

func (o Outcome) String() string {
	switch o {
	case OutcomeOK:
		return "ok"
	case OutcomeParseError:
		return "parse error"
	case OutcomeShapeError:
		return "shape error"
	default:
		return "unknown"
	}
}

// snippetLength bounds the raw text kept on errors
const snippetLength = 200

// Result is the typed outcome of Repair. Value is set only when Outcome is OutcomeOK.
type Result struct {
	Value   json.RawMessage
	Stage   Stage
	Outcome Outcome
	Err     error
}

// OK reports whether the response was parsed and matched the shape
func (r Result) OK() bool {
	return r.Outcome == OutcomeOK
}

// AsError returns nil on success, otherwise the *UnparsableResponseError
func (r Result) AsError() error {
	if r.OK() {
		return nil
	}
	var unparsable *UnparsableResponseError
	if errors.As(r.Err, &unparsable) {
		return unparsable
	}
	return &UnparsableResponseError{Outcome: r.Outcome, Cause: r.Err}
}

// Repair parses raw model output into JSON satisfying shape.
// The brace-span attempt only runs when the direct parse fails; a value that
// parses but violates the shape is final.
func Repair(raw string, shape Shape) Result {
	cleaned := StripFences(raw)

	if json.Valid([]byte(cleaned)) {
		return checkShape([]byte(cleaned), StageDirect, shape, raw)
	}

	span, ok := braceSpan(cleaned)
	if !ok || !json.Valid([]byte(span)) {
		cause := json.Unmarshal([]byte(cleaned), new(json.RawMessage))
		return Result{
			Stage:   StageNone,
			Outcome: OutcomeParseError,
			Err: &UnparsableResponseError{
				Shape:   shape.Name(),
				Outcome: OutcomeParseError,
				Snippet: snippet(raw),
				Cause:   cause,
			},
		}
	}

	return checkShape([]byte(span), StageBraceSpan, shape, raw)
}

func checkShape(doc []byte, stage Stage, shape Shape, raw string) Result {
	if err := shape.Validate(doc); err != nil {
		return Result{
			Stage:   stage,
			Outcome: OutcomeShapeError,
			Err: &UnparsableResponseError{
				Shape:   shape.Name(),
				Outcome: OutcomeShapeError,
				Snippet: snippet(raw),
				Cause:   err,
			},
		}
	}
	return Result{Value: json.RawMessage(doc), Stage: stage, Outcome: OutcomeOK}
}

func snippet(raw string) string {
	if utf8.RuneCountInString(raw) <= snippetLength {
		return raw
	}
	return string([]rune(raw)[:snippetLength]) + "..."
}
