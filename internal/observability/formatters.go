// Package observability provides formatted output utilities for verbose CLI mode.
package observability

import (
	"fmt"
	"io"
	"strings"

	"github.com/jonathan/resume-forge/internal/extraction"
	"github.com/jonathan/resume-forge/internal/types"
)

const (
	// boxWidth is the default width for formatted output boxes
	boxWidth = 60
	// maxItemsToShow is the default number of items to display in lists
	maxItemsToShow = 5
)

// Printer handles formatted output for verbose mode
type Printer struct {
	out io.Writer
}

// NewPrinter creates a new Printer that writes to the given writer
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

// printBox prints a formatted box with a title and content
//
//nolint:errcheck // writing to stderr; errors are not recoverable
func (p *Printer) printBox(title string, content string) {
	border := strings.Repeat("─", boxWidth-2)
	fmt.Fprintf(p.out, "┌%s┐\n", border)
	fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, title)
	fmt.Fprintf(p.out, "├%s┤\n", border)

	lines := strings.Split(content, "\n")
	for _, line := range lines {
		// Truncate long lines
		if len(line) > boxWidth-4 {
			line = line[:boxWidth-7] + "..."
		}
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, line)
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

// PrintFitScore outputs the dimension scores and their rationale.
func (p *Printer) PrintFitScore(score *types.FitScore) {
	if score == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Overall:              %3d\n", score.Overall))
	sb.WriteString(fmt.Sprintf("Experience alignment: %3d\n", score.ExperienceAlignment))
	sb.WriteString(fmt.Sprintf("Technical skills:     %3d\n", score.TechnicalSkillMatch))
	sb.WriteString(fmt.Sprintf("Domain relevance:     %3d\n", score.DomainRelevance))
	sb.WriteString(fmt.Sprintf("Stage / culture:      %3d\n", score.StageCulturalFit))
	sb.WriteString(fmt.Sprintf("Impact potential:     %3d\n", score.ImpactPotential))

	if len(score.Rationale) > 0 {
		sb.WriteString("\nRationale:\n")
		for _, dim := range types.RationaleDimensions {
			if why := score.Rationale[dim]; why != "" {
				sb.WriteString(fmt.Sprintf("  • %s: %s\n", dim, why))
			}
		}
	}

	p.printBox("FIT SCORE", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintFingerprint outputs the detected section order and bullet budgets.
func (p *Printer) PrintFingerprint(fp *types.TemplateFingerprint) {
	if fp == nil {
		return
	}

	var sb strings.Builder
	order := make([]string, 0, len(fp.SectionOrder))
	for _, tag := range fp.SectionOrder {
		order = append(order, string(tag))
	}
	if len(order) == 0 {
		order = append(order, "(none detected)")
	}
	sb.WriteString(fmt.Sprintf("Sections: %s\n", strings.Join(order, " > ")))
	sb.WriteString(fmt.Sprintf("Summary:  %t\n", fp.HasSummary))
	if fp.TotalCharBudget > 0 {
		sb.WriteString(fmt.Sprintf("Total:    %d chars\n", fp.TotalCharBudget))
	} else {
		sb.WriteString("Total:    unbounded\n")
	}

	sb.WriteString("\nExperience budgets:\n")
	count := min(len(fp.ExperienceBudgets), maxItemsToShow)
	for i := 0; i < count; i++ {
		b := fp.ExperienceBudgets[i]
		sb.WriteString(fmt.Sprintf("  %d. %d bullet(s) %v\n", i+1, b.BulletCount, b.BulletCharBudgets))
	}
	if len(fp.ExperienceBudgets) > maxItemsToShow {
		sb.WriteString(fmt.Sprintf("  ... and %d more\n", len(fp.ExperienceBudgets)-maxItemsToShow))
	}

	p.printBox("TEMPLATE FINGERPRINT", strings.TrimSuffix(sb.String(), "\n"))
}

// RenderSummary is what the render command knows after a render call
type RenderSummary struct {
	Bytes               int
	BulletOverruns      int
	TotalBudgetExceeded bool
	ArtifactKey         string
}

// PrintRenderSummary outputs the budget report of a rendered document.
func (p *Printer) PrintRenderSummary(s RenderSummary) {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Document: %d bytes\n", s.Bytes))
	if s.BulletOverruns == 0 && !s.TotalBudgetExceeded {
		sb.WriteString("Budgets:  within limits\n")
	} else {
		sb.WriteString(fmt.Sprintf("Budgets:  %d bullet(s) over budget\n", s.BulletOverruns))
		if s.TotalBudgetExceeded {
			sb.WriteString("          total character budget exceeded\n")
		}
	}
	if s.ArtifactKey != "" {
		sb.WriteString(fmt.Sprintf("Archived: %s\n", s.ArtifactKey))
	}

	p.printBox("RENDERED RESUME", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintExtraction outputs what was extracted from an uploaded file.
// meta is nil for DOCX uploads.
func (p *Printer) PrintExtraction(fileName string, text string, meta *extraction.Metadata) {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("File:     %s\n", fileName))
	sb.WriteString(fmt.Sprintf("Cleaned:  %d chars\n", len([]rune(text))))
	if meta != nil {
		sb.WriteString(fmt.Sprintf("Pages:    %d\n", meta.Pages))
		sb.WriteString(fmt.Sprintf("Original: %d chars\n", meta.OriginalLength))
	}
	p.printBox("EXTRACTED TEXT", strings.TrimSuffix(sb.String(), "\n"))
}
