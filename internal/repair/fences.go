package repair

import (
	"regexp"
	"strings"
)

// openingFence matches ``` plus an optional language tag such as json or JSON5
var openingFence = regexp.MustCompile("^```[A-Za-z0-9_+.-]*")

// StripFences removes markdown code fence wrappers from a model response.
// Models often wrap JSON in ```json ... ``` blocks even when instructed not to.
func StripFences(text string) string {
	text = strings.TrimSpace(text)
	if !strings.HasPrefix(text, "```") {
		return text
	}

	text = openingFence.ReplaceAllString(text, "")
	if idx := strings.LastIndex(text, "```"); idx >= 0 {
		text = text[:idx]
	}
	return strings.TrimSpace(text)
}

// braceSpan returns the substring from the first '{' to the last '}'
func braceSpan(text string) (string, bool) {
	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start < 0 || end < start {
		return "", false
	}
	return text[start : end+1], true
}
