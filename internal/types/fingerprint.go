// Package types provides type definitions for structured data used throughout the resume-forge system.
//
//nolint:revive // types is a standard Go package name pattern
package types

// SectionTag names a resume section detected in a reference template
type SectionTag string

// Section tags in canonical priority order
const (
	SectionSummary        SectionTag = "summary"
	SectionExperience     SectionTag = "experience"
	SectionSkills         SectionTag = "skills"
	SectionEducation      SectionTag = "education"
	SectionCertifications SectionTag = "certifications"
)

// CanonicalSectionOrder is the fixed priority used both for fingerprinting and rendering
var CanonicalSectionOrder = []SectionTag{
	SectionSummary,
	SectionExperience,
	SectionSkills,
	SectionEducation,
	SectionCertifications,
}

// Default experience budget used when no bullets can be detected
const (
	DefaultBulletCount      = 3
	DefaultBulletCharBudget = 100
)

// ExperienceBudget is the bullet budget for one experience entry.
// len(BulletCharBudgets) always equals BulletCount.
type ExperienceBudget struct {
	BulletCount       int   `json:"bulletCount"`
	BulletCharBudgets []int `json:"bulletCharBudgets"`
}

// TemplateFingerprint is the structural summary of a reference resume.
// It is produced once per upload and only read afterwards.
type TemplateFingerprint struct {
	HasSummary        bool               `json:"hasSummary"`
	SectionOrder      []SectionTag       `json:"sectionOrder"`
	ExperienceBudgets []ExperienceBudget `json:"experience"`
	TotalCharBudget   int                `json:"totalCharBudget"`
}

// DefaultExperienceBudget returns the single-entry fallback budget
func DefaultExperienceBudget() ExperienceBudget {
	return UniformBudget(DefaultBulletCount, DefaultBulletCharBudget)
}

// UniformBudget returns a budget with count bullets of perBullet characters each
func UniformBudget(count, perBullet int) ExperienceBudget {
	budgets := make([]int, count)
	for i := range budgets {
		budgets[i] = perBullet
	}
	return ExperienceBudget{BulletCount: count, BulletCharBudgets: budgets}
}

// DefaultFingerprint returns the all-defaults fingerprint with a zero total budget
func DefaultFingerprint() TemplateFingerprint {
	return TemplateFingerprint{
		HasSummary:        false,
		SectionOrder:      []SectionTag{},
		ExperienceBudgets: []ExperienceBudget{DefaultExperienceBudget()},
		TotalCharBudget:   0,
	}
}

// BudgetForEntry returns the budget for the i-th experience entry, reusing the
// last budget when the resume has more entries than the template did.
func (f TemplateFingerprint) BudgetForEntry(i int) ExperienceBudget {
	if len(f.ExperienceBudgets) == 0 {
		return DefaultExperienceBudget()
	}
	if i >= len(f.ExperienceBudgets) {
		return f.ExperienceBudgets[len(f.ExperienceBudgets)-1]
	}
	return f.ExperienceBudgets[i]
}
