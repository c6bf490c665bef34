package rendering

import (
	"strings"
	"unicode/utf8"
)

// ParagraphStyle is a paragraph style id defined in the base archive's styles.xml
type ParagraphStyle string

// Paragraph styles
const (
	StyleNormal  ParagraphStyle = "Normal"
	StyleTitle   ParagraphStyle = "Title"
	StyleContact ParagraphStyle = "Contact"
	StyleHeading ParagraphStyle = "Heading1"
	StyleBullet  ParagraphStyle = "ListBullet"
)

// BulletGlyph prefixes every bullet line
const BulletGlyph = "• "

// Run is a span of text with uniform emphasis
type Run struct {
	Text   string
	Bold   bool
	Italic bool
}

// Paragraph is one line of output
type Paragraph struct {
	Style ParagraphStyle
	Runs  []Run
}

// Text concatenates the paragraph's runs
func (p Paragraph) Text() string {
	var sb strings.Builder
	for _, r := range p.Runs {
		sb.WriteString(r.Text)
	}
	return sb.String()
}

// Section is a headed group of paragraphs. The header section has no heading.
type Section struct {
	Name       string
	Heading    string
	Paragraphs []Paragraph
}

// PlainText flattens sections to text, one line per heading or paragraph
func PlainText(sections []Section) string {
	var lines []string
	for _, s := range sections {
		if s.Heading != "" {
			lines = append(lines, s.Heading)
		}
		for _, p := range s.Paragraphs {
			lines = append(lines, p.Text())
		}
	}
	return strings.Join(lines, "\n")
}

func textLength(sections []Section) int {
	return utf8.RuneCountInString(PlainText(sections))
}
