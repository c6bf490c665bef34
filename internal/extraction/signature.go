package extraction

import (
	"bytes"
	"fmt"
	"strings"
)

// Format is the binary container a document claims to be
type Format string

// Supported formats
const (
	FormatDOCX Format = "docx"
	FormatPDF  Format = "pdf"
)

// MIME types accepted for each format
const (
	MIMEDOCX = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	MIMEPDF  = "application/pdf"
)

var (
	zipSignature = []byte{0x50, 0x4B, 0x03, 0x04}
	pdfSignature = []byte("%PDF-")
)

// foreignMarkers lists, per format, strings that only appear when bytes of the
// other supported format leaked into the decoded text.
var foreignMarkers = map[Format][]string{
	FormatDOCX: {"%PDF-", "endobj", "endstream"},
	FormatPDF:  {"PK\x03\x04", "[Content_Types].xml", "word/document.xml"},
}

// ParseFormat maps a format name, file extension or MIME type to a Format
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimPrefix(strings.TrimSpace(s), ".")) {
	case "docx", MIMEDOCX:
		return FormatDOCX, nil
	case "pdf", MIMEPDF:
		return FormatPDF, nil
	default:
		return "", fmt.Errorf("unsupported format: %q", s)
	}
}

// CheckSignature verifies the leading magic bytes for the declared format.
// The declared media type is never trusted on its own.
func CheckSignature(data []byte, format Format) error {
	var want []byte
	switch format {
	case FormatDOCX:
		want = zipSignature
	case FormatPDF:
		want = pdfSignature
	default:
		return &InvalidFormatError{Format: format, Prefix: prefix(data, 4)}
	}

	if !bytes.HasPrefix(data, want) {
		return &InvalidFormatError{Format: format, Prefix: prefix(data, len(want))}
	}
	return nil
}

// HasArchiveSignature reports whether data starts with the ZIP local file header
func HasArchiveSignature(data []byte) bool {
	return bytes.HasPrefix(data, zipSignature)
}

// detectForeignMarker returns the first marker of another format found in text
func detectForeignMarker(text string, format Format) (string, bool) {
	for _, marker := range foreignMarkers[format] {
		if strings.Contains(text, marker) {
			return marker, true
		}
	}
	return "", false
}

func prefix(data []byte, n int) []byte {
	if len(data) < n {
		n = len(data)
	}
	return data[:n]
}
