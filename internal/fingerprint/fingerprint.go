// Package fingerprint derives a structural summary of a reference resume:
// which sections it has, how many bullets each position carries and how long
// they run. The result guides generation length; it never drives layout.
package fingerprint

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/jonathan/resume-forge/internal/types"
)

// TotalBudgetRatio is the share of the reference text length used as the total character budget
const TotalBudgetRatio = 0.8

// MinBulletCount is the floor for detected bullets per entry
const MinBulletCount = 2

var summaryPattern = regexp.MustCompile(`(?i)summary|objective`)

// sectionKeywords maps each section to the case-insensitive pattern that marks it present.
// Iteration follows types.CanonicalSectionOrder, not document layout.
var sectionKeywords = map[types.SectionTag]*regexp.Regexp{
	types.SectionSummary:        summaryPattern,
	types.SectionExperience:     regexp.MustCompile(`(?i)experience`),
	types.SectionSkills:         regexp.MustCompile(`(?i)skill`),
	types.SectionEducation:      regexp.MustCompile(`(?i)education`),
	types.SectionCertifications: regexp.MustCompile(`(?i)certification`),
}

// Fingerprint computes the template fingerprint of extracted reference text.
// It is deterministic and never fails; unreadable input yields DefaultFingerprint.
func Fingerprint(text string) types.TemplateFingerprint {
	lines := nonEmptyLines(text)
	if len(lines) == 0 {
		return types.DefaultFingerprint()
	}

	fp := types.TemplateFingerprint{
		HasSummary:      hasSummary(lines),
		SectionOrder:    SectionOrder(text),
		TotalCharBudget: int(TotalBudgetRatio * float64(utf8.RuneCountInString(text))),
	}
	fp.ExperienceBudgets = ExperienceBudgets(text)
	return fp
}

// SectionOrder lists the sections whose keyword appears anywhere in text,
// in canonical priority order.
func SectionOrder(text string) []types.SectionTag {
	order := make([]types.SectionTag, 0, len(types.CanonicalSectionOrder))
	for _, tag := range types.CanonicalSectionOrder {
		if sectionKeywords[tag].MatchString(text) {
			order = append(order, tag)
		}
	}
	return order
}

// ExperienceBudgets estimates one bullet budget per experience entry.
// Without any detected bullets it returns the single default budget.
func ExperienceBudgets(text string) []types.ExperienceBudget {
	bullets := Bullets(ExperienceBlock(text))
	if len(bullets) == 0 {
		return []types.ExperienceBudget{types.DefaultExperienceBudget()}
	}

	entries := CountExperienceEntries(text)
	count := len(bullets) / entries
	if count < MinBulletCount {
		count = MinBulletCount
	}
	perBullet := meanRuneLength(bullets)

	budgets := make([]types.ExperienceBudget, entries)
	for i := range budgets {
		budgets[i] = types.UniformBudget(count, perBullet)
	}
	return budgets
}

func hasSummary(lines []string) bool {
	for _, line := range lines {
		if summaryPattern.MatchString(line) {
			return true
		}
	}
	return false
}

func nonEmptyLines(text string) []string {
	var lines []string
	for _, line := range strings.Split(text, "\n") {
		if trimmed := strings.TrimSpace(line); trimmed != "" {
			lines = append(lines, trimmed)
		}
	}
	return lines
}
