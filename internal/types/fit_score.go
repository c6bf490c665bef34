// Package types provides type definitions for structured data used throughout the resume-forge system.
//
//nolint:revive // types is a standard Go package name pattern
package types

// Rationale keys. They match the non-overall fit dimensions that carry an explanation.
const (
	DimensionExperienceAlignment = "experienceAlignment"
	DimensionTechnicalSkillMatch = "technicalSkillMatch"
	DimensionDomainRelevance     = "domainRelevance"
	DimensionStageCulturalFit    = "stageCulturalFit"
)

// RationaleDimensions lists the exact key set of FitScore.Rationale
var RationaleDimensions = []string{
	DimensionExperienceAlignment,
	DimensionTechnicalSkillMatch,
	DimensionDomainRelevance,
	DimensionStageCulturalFit,
}

// FitScore is a multi-dimensional 0-100 compatibility rating between a
// candidate profile and a job posting.
type FitScore struct {
	Overall             int               `json:"overall" validate:"min=0,max=100"`
	ExperienceAlignment int               `json:"experienceAlignment" validate:"min=0,max=100"`
	TechnicalSkillMatch int               `json:"technicalSkillMatch" validate:"min=0,max=100"`
	DomainRelevance     int               `json:"domainRelevance" validate:"min=0,max=100"`
	StageCulturalFit    int               `json:"stageCulturalFit" validate:"min=0,max=100"`
	ImpactPotential     int               `json:"impactPotential" validate:"min=0,max=100"`
	Rationale           map[string]string `json:"rationale" validate:"required"`
}
