package ingestion

import (
	"fmt"
	"os"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/jonathan/resume-forge/internal/types"
)

var (
	innerWhitespace  = regexp.MustCompile(`\s+`)
	excessBlankLines = regexp.MustCompile(`\n\n\n+`)
)

// maxTitleRunes bounds a title taken from the first line of a file
const maxTitleRunes = 120

// CleanText normalizes posting text while keeping its line structure:
// headings and bullet markers survive, inner whitespace collapses and blank
// runs shrink to a single empty line.
func CleanText(content string) string {
	if content == "" {
		return ""
	}

	content = strings.ReplaceAll(content, "\r\n", "\n")
	content = strings.ReplaceAll(content, "\r", "\n")

	lines := strings.Split(content, "\n")
	for i, line := range lines {
		lines[i] = cleanLine(line)
	}

	result := excessBlankLines.ReplaceAllString(strings.Join(lines, "\n"), "\n\n")
	return strings.TrimSpace(result)
}

func cleanLine(line string) string {
	line = strings.TrimRight(line, " \t")
	trimmed := strings.TrimLeft(line, " \t")
	if trimmed == "" {
		return ""
	}

	// Markdown headings lose their indentation
	if strings.HasPrefix(trimmed, "#") {
		return trimmed
	}

	indent := strings.Repeat(" ", len(line)-len(trimmed))
	if isBulletLine(trimmed) {
		return indent + trimmed
	}
	return indent + innerWhitespace.ReplaceAllString(trimmed, " ")
}

func isBulletLine(line string) bool {
	for _, marker := range []string{"- ", "* ", "• ", "· "} {
		if strings.HasPrefix(line, marker) {
			return true
		}
	}
	return false
}

// FromText builds a posting from pasted text. A blank title is taken from
// the first line of the description.
func FromText(description, title, company string) (*types.JobPosting, *Metadata, error) {
	cleaned := CleanText(description)
	if cleaned == "" {
		return nil, nil, &IncompleteError{Field: "description"}
	}

	title = strings.TrimSpace(title)
	if title == "" {
		title = firstLine(cleaned)
	}

	meta := NewMetadata(cleaned, "")
	meta.TitleSource = SourceFile
	posting := &types.JobPosting{
		Title:       title,
		Company:     strings.TrimSpace(company),
		Description: cleaned,
	}
	return posting, meta, nil
}

// FromFile reads a plain-text posting from disk
func FromFile(path string) (*types.JobPosting, *Metadata, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil, fmt.Errorf("file not found: %w", err)
		}
		return nil, nil, fmt.Errorf("failed to read file: %w", err)
	}
	return FromText(string(content), "", "")
}

func firstLine(text string) string {
	line, _, _ := strings.Cut(text, "\n")
	line = strings.TrimSpace(strings.TrimLeft(line, "#"))
	if utf8.RuneCountInString(line) > maxTitleRunes {
		line = string([]rune(line)[:maxTitleRunes])
	}
	return line
}
