package rendering

import (
	"strings"
	"unicode"

	"github.com/jonathan/resume-forge/internal/fingerprint"
	"github.com/jonathan/resume-forge/internal/types"
)

// Section names and headings
const (
	SectionHeader = "header"

	DefaultCandidateName = "Candidate Name"
	ContactSeparator     = " | "
)

var headings = map[types.SectionTag]string{
	types.SectionSummary:        "SUMMARY",
	types.SectionExperience:     "EXPERIENCE",
	types.SectionSkills:         "SKILLS",
	types.SectionEducation:      "EDUCATION",
	types.SectionCertifications: "CERTIFICATIONS",
}

// BuildSections lays out doc in canonical order: header, then each
// non-empty section of types.CanonicalSectionOrder. Empty sections get
// no heading and no placeholder.
func BuildSections(doc *types.ResumeDocument) []Section {
	sections := []Section{headerSection(doc.Header)}

	for _, tag := range types.CanonicalSectionOrder {
		var paragraphs []Paragraph
		switch tag {
		case types.SectionSummary:
			paragraphs = summaryParagraphs(doc.Summary)
		case types.SectionExperience:
			paragraphs = experienceParagraphs(doc.Experience)
		case types.SectionSkills:
			paragraphs = skillParagraphs(doc.Skills)
		case types.SectionEducation:
			paragraphs = educationParagraphs(doc.Education)
		case types.SectionCertifications:
			paragraphs = bulletParagraphs(doc.Certifications)
		}
		if len(paragraphs) == 0 {
			continue
		}
		sections = append(sections, Section{
			Name:       string(tag),
			Heading:    headings[tag],
			Paragraphs: paragraphs,
		})
	}
	return sections
}

func headerSection(h types.Header) Section {
	name := strings.TrimSpace(h.Name)
	if name == "" {
		name = DefaultCandidateName
	}
	paragraphs := []Paragraph{{Style: StyleTitle, Runs: []Run{{Text: name, Bold: true}}}}

	if contact := ContactLine(h); contact != "" {
		paragraphs = append(paragraphs, Paragraph{Style: StyleContact, Runs: []Run{{Text: contact}}})
	}
	return Section{Name: SectionHeader, Paragraphs: paragraphs}
}

// ContactLine joins the non-blank location, phone and email
func ContactLine(h types.Header) string {
	return strings.Join(nonBlank([]string{h.Location, h.Phone, h.Email}), ContactSeparator)
}

func summaryParagraphs(summary string) []Paragraph {
	summary = strings.TrimSpace(summary)
	if summary == "" {
		return nil
	}
	return []Paragraph{{Style: StyleNormal, Runs: []Run{{Text: summary}}}}
}

func experienceParagraphs(entries []types.ExperienceEntry) []Paragraph {
	var out []Paragraph
	for _, e := range entries {
		out = append(out, titleLine(e.Title, e.Company))
		if dates := strings.TrimSpace(e.Dates); dates != "" {
			out = append(out, datesLine(dates))
		}
		out = append(out, bulletParagraphs(e.Bullets)...)
	}
	return out
}

func skillParagraphs(skills *types.SkillGroups) []Paragraph {
	if skills.IsEmpty() {
		return nil
	}

	groups := []struct {
		label string
		items []string
	}{
		{"Core:", skills.Core},
		{"Tools:", skills.Tools},
		{"Domains:", skills.Domains},
	}

	var out []Paragraph
	for _, g := range groups {
		items := nonBlank(g.items)
		if len(items) == 0 {
			continue
		}
		out = append(out, Paragraph{Style: StyleNormal, Runs: []Run{
			{Text: g.label, Bold: true},
			{Text: " " + strings.Join(items, ", ")},
		}})
	}
	return out
}

func educationParagraphs(entries []types.EducationEntry) []Paragraph {
	var out []Paragraph
	for _, e := range entries {
		out = append(out, titleLine(e.School, e.Degree))
		if dates := strings.TrimSpace(e.Dates); dates != "" {
			out = append(out, datesLine(dates))
		}
	}
	return out
}

// titleLine renders "<bold lead>, <rest>", dropping whichever side is blank
func titleLine(lead, rest string) Paragraph {
	lead, rest = strings.TrimSpace(lead), strings.TrimSpace(rest)

	var runs []Run
	if lead != "" {
		runs = append(runs, Run{Text: lead, Bold: true})
	}
	if rest != "" {
		if lead != "" {
			rest = ", " + rest
		}
		runs = append(runs, Run{Text: rest})
	}
	return Paragraph{Style: StyleNormal, Runs: runs}
}

func datesLine(dates string) Paragraph {
	return Paragraph{Style: StyleNormal, Runs: []Run{{Text: dates, Italic: true}}}
}

// bulletParagraphs emits one glyph-prefixed line per non-blank item, untruncated
func bulletParagraphs(items []string) []Paragraph {
	var out []Paragraph
	for _, item := range nonBlank(items) {
		out = append(out, Paragraph{Style: StyleBullet, Runs: []Run{{Text: BulletGlyph + bulletBody(item)}}})
	}
	return out
}

// bulletBody drops one leading list marker the model may have written itself.
// ASCII markers only count when followed by whitespace ("-5%" stays intact).
func bulletBody(item string) string {
	body, ok := fingerprint.BulletText(item)
	if !ok {
		return item
	}
	prefix := strings.TrimSuffix(item, body)
	marker := strings.TrimRightFunc(prefix, unicode.IsSpace)
	if (marker == "-" || marker == "*") && marker == prefix {
		return item
	}
	return body
}

func nonBlank(items []string) []string {
	var out []string
	for _, s := range items {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}
