package extraction

import (
	"bytes"
	"encoding/xml"
	"errors"
	"io"
	"strings"

	"github.com/ledongthuc/pdf"
	"github.com/nguyenthenguyen/docx"
)

// Decoded is the raw text produced by a format decoder
type Decoded struct {
	Text  string
	Pages int
}

// Decoder turns document bytes into raw text
type Decoder interface {
	Decode(data []byte) (*Decoded, error)
}

// DocxDecoder reads WordprocessingML text out of a DOCX archive
type DocxDecoder struct{}

// Decode implements Decoder
func (DocxDecoder) Decode(data []byte) (*Decoded, error) {
	doc, err := docx.ReadDocxFromMemory(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, &DecodeError{Format: FormatDOCX, Message: "failed to open archive", Cause: err}
	}
	defer func() { _ = doc.Close() }()

	text, err := DocumentXMLText(doc.Editable().GetContent())
	if err != nil {
		return nil, &DecodeError{Format: FormatDOCX, Message: "failed to read word/document.xml", Cause: err}
	}
	return &Decoded{Text: text}, nil
}

// DocumentXMLText flattens word/document.xml into text: one line per paragraph,
// w:tab as a tab and w:br/w:cr as line breaks.
func DocumentXMLText(content string) (string, error) {
	dec := xml.NewDecoder(strings.NewReader(content))

	var sb strings.Builder
	inText := false
	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return "", err
		}

		switch t := tok.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "t":
				inText = true
			case "tab":
				sb.WriteByte('\t')
			case "br", "cr":
				sb.WriteByte('\n')
			}
		case xml.EndElement:
			switch t.Name.Local {
			case "t":
				inText = false
			case "p":
				sb.WriteByte('\n')
			}
		case xml.CharData:
			if inText {
				sb.Write(t)
			}
		}
	}
	return sb.String(), nil
}

// PDFDecoder extracts page text with github.com/ledongthuc/pdf
type PDFDecoder struct{}

// Decode implements Decoder
func (PDFDecoder) Decode(data []byte) (*Decoded, error) {
	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, &DecodeError{Format: FormatPDF, Message: "failed to read pdf", Cause: err}
	}

	var sb strings.Builder
	numPages := reader.NumPage()
	for i := 1; i <= numPages; i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			return nil, &DecodeError{Format: FormatPDF, Message: "failed to read page text", Cause: err}
		}
		sb.WriteString(text)
		sb.WriteByte('\n')
	}
	return &Decoded{Text: sb.String(), Pages: numPages}, nil
}
