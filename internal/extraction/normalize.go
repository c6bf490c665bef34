package extraction

import (
	"regexp"
	"strings"
)

var (
	horizontalRunPattern = regexp.MustCompile(`[\t\f\v\p{Zs}]{2,}`)
	trailingSpacePattern = regexp.MustCompile(`(?m)[\t\f\v\p{Zs}]+$`)
	blankRunPattern      = regexp.MustCompile(`\n{3,}`)
)

// Normalize cleans decoded document text:
//  1. CRLF and lone CR become LF
//  2. runs of 2+ horizontal whitespace become a single space
//  3. trailing whitespace on each line is dropped
//  4. 3+ consecutive newlines become exactly 2
//  5. the whole text is trimmed
func Normalize(content string) string {
	if content == "" {
		return ""
	}

	content = strings.ReplaceAll(content, "\r\n", "\n")
	content = strings.ReplaceAll(content, "\r", "\n")

	content = horizontalRunPattern.ReplaceAllString(content, " ")
	content = trailingSpacePattern.ReplaceAllString(content, "")
	content = blankRunPattern.ReplaceAllString(content, "\n\n")

	return strings.TrimSpace(content)
}
