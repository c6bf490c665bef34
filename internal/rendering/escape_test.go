package rendering

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEscapeXML_EmptyString(t *testing.T) {
	assert.Equal(t, "", EscapeXML(""))
}

func TestEscapeXML_NoSpecialCharacters(t *testing.T) {
	text := "This is normal text with no special characters"
	assert.Equal(t, text, EscapeXML(text))
}

func TestEscapeXML_SpecialCharacters(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"ampersand", "R&D", "R&amp;D"},
		{"angle brackets", "<script>", "&lt;script&gt;"},
		{"quotes", `"quoted" and 'single'`, "&quot;quoted&quot; and &apos;single&apos;"},
		{"already escaped text is escaped again", "&amp;", "&amp;amp;"},
		{"unicode passes through", "Zürich • 東京", "Zürich • 東京"},
		{"control characters dropped", "a\x00b\x0bc\x1fd", "abcd"},
		{"tabs and newlines kept", "a\tb\nc", "a\tb\nc"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, EscapeXML(tt.input))
		})
	}
}
