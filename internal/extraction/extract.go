package extraction

import (
	"fmt"
	"unicode/utf8"

	"github.com/jonathan/resume-forge/internal/types"
)

// MinTextLength is the minimum rune count of cleaned text. Anything shorter
// usually means a scanned, image-only or corrupt source.
const MinTextLength = 200

// Metadata describes an extraction
type Metadata struct {
	Pages          int `json:"pages"`
	OriginalLength int `json:"originalLength"`
	CleanedLength  int `json:"cleanedLength"`
}

// Extractor validates, decodes and normalizes documents
type Extractor struct {
	decoders map[Format]Decoder
}

// NewExtractor returns an Extractor with the DOCX and PDF decoders
func NewExtractor() *Extractor {
	return &Extractor{
		decoders: map[Format]Decoder{
			FormatDOCX: DocxDecoder{},
			FormatPDF:  PDFDecoder{},
		},
	}
}

// WithDecoder returns a copy of the extractor using dec for format
func (x *Extractor) WithDecoder(format Format, dec Decoder) *Extractor {
	decoders := make(map[Format]Decoder, len(x.decoders)+1)
	for k, v := range x.decoders {
		decoders[k] = v
	}
	decoders[format] = dec
	return &Extractor{decoders: decoders}
}

// Extract runs the default extractor
func Extract(data []byte, format Format) (*types.ExtractedText, *Metadata, error) {
	return NewExtractor().Extract(data, format)
}

// Extract checks the signature, decodes, normalizes and rejects suspicious output
func (x *Extractor) Extract(data []byte, format Format) (*types.ExtractedText, *Metadata, error) {
	if err := CheckSignature(data, format); err != nil {
		return nil, nil, err
	}

	dec, ok := x.decoders[format]
	if !ok {
		return nil, nil, &DecodeError{Format: format, Message: fmt.Sprintf("no decoder registered for %s", format)}
	}

	decoded, err := dec.Decode(data)
	if err != nil {
		return nil, nil, err
	}

	cleaned := Normalize(decoded.Text)
	length := utf8.RuneCountInString(cleaned)
	if length < MinTextLength {
		return nil, nil, &TooShortError{Length: length, Min: MinTextLength}
	}

	if marker, found := detectForeignMarker(decoded.Text, format); found {
		return nil, nil, &WrongFormatError{Format: format, Marker: marker}
	}

	text := &types.ExtractedText{
		Raw:     decoded.Text,
		Cleaned: cleaned,
		Length:  length,
	}
	meta := &Metadata{
		Pages:          decoded.Pages,
		OriginalLength: utf8.RuneCountInString(decoded.Text),
		CleanedLength:  length,
	}
	return text, meta, nil
}
