package fingerprint

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

var (
	yearPattern        = regexp.MustCompile(`\b(19|20)\d{2}\b`)
	experienceKeyword  = regexp.MustCompile(`(?i)experience`)
	experienceBoundary = regexp.MustCompile(`\n[ \t]*\n[ \t]*[A-Z]`)
	bulletMarkers      = []string{"•", "●", "▪", "◦", "‣", "·", "-", "*"}
)

// yearsPerEntry assumes each position lists a start and an end year
const yearsPerEntry = 2

// CountExperienceEntries estimates how many positions a resume lists by
// counting four-digit years and assuming a start and end year per entry.
// The result is never less than 1.
func CountExperienceEntries(text string) int {
	years := len(yearPattern.FindAllStringIndex(text, -1))
	entries := years / yearsPerEntry
	if entries < 1 {
		return 1
	}
	return entries
}

// ExperienceBlock returns the text from the first "experience" (any case) up to
// the next blank line followed by a line starting with a capital letter.
// It returns "" when the keyword never occurs.
func ExperienceBlock(text string) string {
	loc := experienceKeyword.FindStringIndex(text)
	if loc == nil {
		return ""
	}

	keyword := loc[1] - loc[0]
	rest := text[loc[0]:]
	if end := experienceBoundary.FindStringIndex(rest[keyword:]); end != nil {
		return rest[:keyword+end[0]]
	}
	return rest
}

// BulletText reports whether line is a bullet and returns its text with the
// marker stripped. Lines holding only a marker are not bullets.
func BulletText(line string) (string, bool) {
	trimmed := strings.TrimSpace(line)
	for _, marker := range bulletMarkers {
		if !strings.HasPrefix(trimmed, marker) {
			continue
		}
		body := strings.TrimSpace(strings.TrimPrefix(trimmed, marker))
		if body == "" {
			return "", false
		}
		return body, true
	}
	return "", false
}

// Bullets collects bullet bodies from block in document order
func Bullets(block string) []string {
	var out []string
	for _, line := range strings.Split(block, "\n") {
		if body, ok := BulletText(line); ok {
			out = append(out, body)
		}
	}
	return out
}

func meanRuneLength(items []string) int {
	if len(items) == 0 {
		return 0
	}
	total := 0
	for _, s := range items {
		total += utf8.RuneCountInString(s)
	}
	return total / len(items)
}
