package extraction

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "empty",
			input:    "",
			expected: "",
		},
		{
			name:     "CRLF and CR become LF",
			input:    "line one\r\nline two\rline three",
			expected: "line one\nline two\nline three",
		},
		{
			name:     "multiple spaces collapse",
			input:    "Senior    Engineer \t  Acme",
			expected: "Senior Engineer Acme",
		},
		{
			name:     "single tab is kept",
			input:    "Go\tRust",
			expected: "Go\tRust",
		},
		{
			name:     "three or more newlines collapse to two",
			input:    "Experience\n\n\n\n\nSkills",
			expected: "Experience\n\nSkills",
		},
		{
			name:     "whitespace-only lines count as blank",
			input:    "Experience\n   \n \t \n\nSkills",
			expected: "Experience\n\nSkills",
		},
		{
			name:     "two newlines are preserved",
			input:    "Experience\n\nSkills",
			expected: "Experience\n\nSkills",
		},
		{
			name:     "non-breaking spaces collapse",
			input:    "Jane  Doe",
			expected: "Jane Doe",
		},
		{
			name:     "leading and trailing whitespace trimmed",
			input:    "\n\n  Jane Doe  \n\n",
			expected: "Jane Doe",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Normalize(tt.input))
		})
	}
}

func TestNormalize_Invariants(t *testing.T) {
	inputs := map[string]string{
		"ascii":         "\r\n\r\nName   Here\r\n\r\n\r\n\r\n  -   bullet\t\t one  \r\n\n\n\nEnd   ",
		"unicode space": "alpha\u2003\u2003beta\u3000\u3000gamma\u00a0 delta\u2009\u200a",
	}
	multiSpace := regexp.MustCompile(`[\t\f\v\p{Zs}]{2,}`)

	for name, input := range inputs {
		t.Run(name, func(t *testing.T) {
			out := Normalize(input)

			assert.NotContains(t, out, "\r")
			assert.NotContains(t, out, "\n\n\n")
			assert.False(t, multiSpace.MatchString(out))
			assert.Equal(t, out, Normalize(out), "normalization is idempotent")
		})
	}

	assert.Equal(t, "alpha beta gamma delta", Normalize("alpha\u2003\u2003beta\u3000\u3000gamma\u00a0 delta\u2009\u200a"))
}
