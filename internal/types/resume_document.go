// Package types provides type definitions for structured data used throughout the resume-forge system.
//
//nolint:revive // types is a standard Go package name pattern
package types

// ResumeDocument is the structured resume payload produced by the text-generation
// collaborator and admitted by the repair package. Only Header is required.
type ResumeDocument struct {
	Header         Header            `json:"header"`
	Summary        string            `json:"summary,omitempty"`
	Experience     []ExperienceEntry `json:"experience,omitempty"`
	Skills         *SkillGroups      `json:"skills,omitempty"`
	Education      []EducationEntry  `json:"education,omitempty"`
	Certifications []string          `json:"certifications,omitempty"`
}

// Header holds the candidate name and contact fields
type Header struct {
	Name     string `json:"name"`
	Location string `json:"location,omitempty"`
	Phone    string `json:"phone,omitempty"`
	Email    string `json:"email,omitempty"`
}

// ExperienceEntry is one role in the experience section
type ExperienceEntry struct {
	Title   string   `json:"title"`
	Company string   `json:"company"`
	Dates   string   `json:"dates,omitempty"`
	Bullets []string `json:"bullets"`
}

// SkillGroups splits skills into the three rendered sub-lists
type SkillGroups struct {
	Core    []string `json:"core,omitempty"`
	Tools   []string `json:"tools,omitempty"`
	Domains []string `json:"domains,omitempty"`
}

// IsEmpty reports whether none of the sub-lists has an entry
func (s *SkillGroups) IsEmpty() bool {
	return s == nil || (len(s.Core) == 0 && len(s.Tools) == 0 && len(s.Domains) == 0)
}

// EducationEntry is one school/degree line
type EducationEntry struct {
	School string `json:"school"`
	Degree string `json:"degree"`
	Dates  string `json:"dates,omitempty"`
}
