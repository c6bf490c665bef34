package rendering

import (
	"fmt"
	"log"
	"strings"

	"github.com/jonathan/resume-forge/internal/extraction"
	"github.com/jonathan/resume-forge/internal/types"
)

// Mode selects the container archive
type Mode string

const (
	// ModeStandard writes into the embedded base archive
	ModeStandard Mode = "standard"
	// ModeTemplate writes into the caller's template archive
	ModeTemplate Mode = "template"
)

// ParseMode parses a render mode; empty means ModeStandard
func ParseMode(s string) (Mode, error) {
	switch Mode(strings.ToLower(strings.TrimSpace(s))) {
	case "", ModeStandard:
		return ModeStandard, nil
	case ModeTemplate:
		return ModeTemplate, nil
	default:
		return "", fmt.Errorf("unknown render mode %q (want standard or template)", s)
	}
}

// Options configure Render
type Options struct {
	Mode     Mode
	Template []byte
	// Writer overrides the DOCX writer selected by Mode
	Writer DocumentWriter
}

// Result is a rendered document plus its advisory budget report
type Result struct {
	Document []byte
	Sections []Section
	Overruns Overruns
}

// Render lays out doc in canonical section order and writes it as a DOCX
// archive. Budgets in fp are reported, never enforced.
func Render(doc *types.ResumeDocument, fp types.TemplateFingerprint, opts Options) (*Result, error) {
	if doc == nil {
		return nil, &RenderError{Message: "resume document is nil"}
	}

	writer, err := selectWriter(opts)
	if err != nil {
		return nil, err
	}

	sections := BuildSections(doc)
	overruns := CheckBudgets(doc, fp, sections)
	if overruns.Any() {
		log.Printf("[render] content over budget: %d bullet(s), total %d/%d chars", len(overruns.Bullets), overruns.TotalChars, overruns.TotalBudget)
	}

	data, err := writer.WriteDocument(sections)
	if err != nil {
		return nil, &RenderError{Message: "failed to write document", Cause: err}
	}

	return &Result{Document: data, Sections: sections, Overruns: overruns}, nil
}

func selectWriter(opts Options) (DocumentWriter, error) {
	if opts.Writer != nil {
		return opts.Writer, nil
	}

	switch opts.Mode {
	case "", ModeStandard:
		return NewDocxWriter(nil), nil
	case ModeTemplate:
		if len(opts.Template) == 0 {
			return nil, &TemplateError{Message: "template mode requires a template archive"}
		}
		if !extraction.HasArchiveSignature(opts.Template) {
			return nil, &TemplateError{Message: "template is not a DOCX archive"}
		}
		return NewDocxWriter(opts.Template), nil
	default:
		return nil, &TemplateError{Message: fmt.Sprintf("unknown render mode %q", opts.Mode)}
	}
}
