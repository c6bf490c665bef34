package rendering

import (
	"bytes"
	_ "embed"
	"fmt"
	"regexp"
	"strings"

	"github.com/nguyenthenguyen/docx"
)

//go:embed assets/base.docx
var baseDocx []byte

// BaseDocument returns a copy of the embedded base archive
func BaseDocument() []byte {
	out := make([]byte, len(baseDocx))
	copy(out, baseDocx)
	return out
}

// DocumentWriter assembles laid-out sections into a binary document
type DocumentWriter interface {
	WriteDocument(sections []Section) ([]byte, error)
}

// DocxWriter replaces the body of a base DOCX archive with rendered
// WordprocessingML, keeping every other part (styles, page setup) intact.
type DocxWriter struct {
	base []byte
}

// NewDocxWriter uses base as the container archive, or the embedded base when nil
func NewDocxWriter(base []byte) *DocxWriter {
	if base == nil {
		base = baseDocx
	}
	return &DocxWriter{base: base}
}

var (
	bodyOpenPattern = regexp.MustCompile(`(?s)^.*?<w:body[^>]*>`)
	sectPrPattern   = regexp.MustCompile(`(?s)<w:sectPr(?:\s[^>]*)?(?:/>|>.*?</w:sectPr>)`)
)

const defaultSectPr = `<w:sectPr><w:pgSz w:w="12240" w:h="15840"/><w:pgMar w:top="1080" w:right="1080" w:bottom="1080" w:left="1080" w:header="720" w:footer="720" w:gutter="0"/></w:sectPr>`

// WriteDocument implements DocumentWriter
func (w *DocxWriter) WriteDocument(sections []Section) ([]byte, error) {
	archive, err := docx.ReadDocxFromMemory(bytes.NewReader(w.base), int64(len(w.base)))
	if err != nil {
		return nil, &TemplateError{Message: "failed to open base archive", Cause: err}
	}
	defer func() { _ = archive.Close() }()

	doc := archive.Editable()
	content, err := DocumentXML(doc.GetContent(), sections)
	if err != nil {
		return nil, &TemplateError{Message: "failed to rebuild word/document.xml", Cause: err}
	}
	doc.SetContent(content)

	var buf bytes.Buffer
	if err := doc.Write(&buf); err != nil {
		return nil, &RenderError{Message: "failed to write archive", Cause: err}
	}
	return buf.Bytes(), nil
}

// DocumentXML rebuilds a word/document.xml: the root element and namespaces of
// existing are kept, its body is replaced by sections, and its final w:sectPr
// (page size and margins) is carried over.
func DocumentXML(existing string, sections []Section) (string, error) {
	open := bodyOpenPattern.FindString(existing)
	if open == "" {
		return "", fmt.Errorf("no w:body element found")
	}

	sectPr := defaultSectPr
	if all := sectPrPattern.FindAllString(existing, -1); len(all) > 0 {
		sectPr = all[len(all)-1]
	}

	var sb strings.Builder
	sb.WriteString(open)
	for _, s := range sections {
		if s.Heading != "" {
			writeParagraph(&sb, Paragraph{Style: StyleHeading, Runs: []Run{{Text: s.Heading, Bold: true}}})
		}
		for _, p := range s.Paragraphs {
			writeParagraph(&sb, p)
		}
	}
	sb.WriteString(sectPr)
	sb.WriteString(`</w:body></w:document>`)
	return sb.String(), nil
}

func writeParagraph(sb *strings.Builder, p Paragraph) {
	sb.WriteString(`<w:p><w:pPr>`)
	if p.Style != "" && p.Style != StyleNormal {
		sb.WriteString(`<w:pStyle w:val="` + string(p.Style) + `"/>`)
	}
	// Direct formatting so templates without our styles still lay out sensibly
	switch p.Style {
	case StyleBullet:
		sb.WriteString(`<w:ind w:left="360" w:hanging="216"/>`)
	case StyleTitle, StyleContact:
		sb.WriteString(`<w:jc w:val="center"/>`)
	}
	sb.WriteString(`</w:pPr>`)

	for _, r := range p.Runs {
		writeRun(sb, r)
	}
	sb.WriteString(`</w:p>`)
}

func writeRun(sb *strings.Builder, r Run) {
	sb.WriteString(`<w:r>`)
	if r.Bold || r.Italic {
		sb.WriteString(`<w:rPr>`)
		if r.Bold {
			sb.WriteString(`<w:b/>`)
		}
		if r.Italic {
			sb.WriteString(`<w:i/>`)
		}
		sb.WriteString(`</w:rPr>`)
	}
	for i, line := range strings.Split(r.Text, "\n") {
		if i > 0 {
			sb.WriteString(`<w:br/>`)
		}
		sb.WriteString(`<w:t xml:space="preserve">`)
		sb.WriteString(EscapeXML(line))
		sb.WriteString(`</w:t>`)
	}
	sb.WriteString(`</w:r>`)
}
