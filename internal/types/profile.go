// Package types provides type definitions for structured data used throughout the resume-forge system.
//
//nolint:revive // types is a standard Go package name pattern
package types

import (
	"fmt"
	"time"
)

// ProfileCategory groups profile entries
type ProfileCategory string

// Profile categories
const (
	CategoryExperience    ProfileCategory = "experience"
	CategorySkill         ProfileCategory = "skill"
	CategoryCertification ProfileCategory = "certification"
	CategoryTool          ProfileCategory = "tool"
	CategoryProject       ProfileCategory = "project"
	CategoryDomain        ProfileCategory = "domain"
	CategoryAnswer        ProfileCategory = "answer"
)

// ProfileEntry is one fact about the candidate. ID has the form "<category>-<unix millis>".
type ProfileEntry struct {
	ID        string          `json:"id" validate:"required"`
	Category  ProfileCategory `json:"category" validate:"required,oneof=experience skill certification tool project domain answer"`
	Content   string          `json:"content" validate:"required"`
	Question  string          `json:"question,omitempty"`
	CreatedAt time.Time       `json:"created_at"`
}

// UserProfile aggregates everything known about the candidate.
// It only grows; clearing is a full reset.
type UserProfile struct {
	Entries   []ProfileEntry `json:"entries" validate:"dive"`
	UpdatedAt time.Time      `json:"updated_at"`
}

// NewProfileEntry builds an entry with a synthetic category-timestamp ID
func NewProfileEntry(category ProfileCategory, content, question string, now time.Time) ProfileEntry {
	return ProfileEntry{
		ID:        ProfileEntryID(category, now),
		Category:  category,
		Content:   content,
		Question:  question,
		CreatedAt: now.UTC(),
	}
}

// ProfileEntryID returns the "<category>-<unix millis>" identifier
func ProfileEntryID(category ProfileCategory, now time.Time) string {
	return fmt.Sprintf("%s-%d", category, now.UnixMilli())
}

// ByCategory returns entries of the given category in insertion order
func (p *UserProfile) ByCategory(category ProfileCategory) []ProfileEntry {
	var out []ProfileEntry
	for _, e := range p.Entries {
		if e.Category == category {
			out = append(out, e)
		}
	}
	return out
}

// Append adds an entry and bumps UpdatedAt
func (p *UserProfile) Append(entry ProfileEntry) {
	p.Entries = append(p.Entries, entry)
	p.UpdatedAt = entry.CreatedAt
}

// HasEntry reports whether an entry with id exists
func (p *UserProfile) HasEntry(id string) bool {
	for _, e := range p.Entries {
		if e.ID == id {
			return true
		}
	}
	return false
}

// IsEmpty reports whether the profile has no entries
func (p *UserProfile) IsEmpty() bool {
	return p == nil || len(p.Entries) == 0
}

// QAEntry is a free-text question and answer captured from the candidate
type QAEntry struct {
	ID        string    `json:"id" validate:"required"`
	Question  string    `json:"question" validate:"required"`
	Answer    string    `json:"answer" validate:"required"`
	CreatedAt time.Time `json:"created_at"`
}

// AppSettings holds client preferences
type AppSettings struct {
	DefaultRenderMode string `json:"default_render_mode,omitempty" validate:"omitempty,oneof=standard template"`
	Model             string `json:"model,omitempty"`
	ServiceURL        string `json:"service_url,omitempty" validate:"omitempty,url"`
}
