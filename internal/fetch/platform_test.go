package fetch

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDetectPlatform(t *testing.T) {
	tests := []struct {
		url      string
		expected Platform
	}{
		{"https://job-boards.greenhouse.io/doordashusa/jobs/7063751", PlatformGreenhouse},
		{"https://boards.greenhouse.io/company/jobs/123", PlatformGreenhouse},
		{"https://jobs.lever.co/company/job-id", PlatformLever},
		{"https://company.wd5.myworkdayjobs.com/en-US/External", PlatformWorkday},
		{"https://workday.com/jobs", PlatformWorkday},
		{"https://jobs.ashbyhq.com/acme/1234", PlatformAshby},
		{"https://example.com/jobs", PlatformUnknown},
		{"https://linkedin.com/jobs/123", PlatformUnknown},
		{"::not a url", PlatformUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.url, func(t *testing.T) {
			assert.Equal(t, tt.expected, DetectPlatform(tt.url))
		})
	}
}

func TestCompanyFromURL(t *testing.T) {
	tests := []struct {
		url      string
		expected string
	}{
		{"https://job-boards.greenhouse.io/doordashusa/jobs/7063751", "Doordashusa"},
		{"https://jobs.lever.co/acme-robotics/abc-123", "Acme Robotics"},
		{"https://jobs.ashbyhq.com/north_wind/1234", "North Wind"},
		{"https://greenhouse.io/jobs/456", ""},
		{"https://company.wd5.myworkdayjobs.com/en-US/External", ""},
		{"https://example.com/acme/jobs", ""},
	}

	for _, tt := range tests {
		t.Run(tt.url, func(t *testing.T) {
			assert.Equal(t, tt.expected, CompanyFromURL(tt.url, DetectPlatform(tt.url)))
		})
	}
}

func TestPlatformTitleSelectors(t *testing.T) {
	assert.Equal(t, "h1", PlatformTitleSelectors(PlatformAshby)[0])
	assert.Contains(t, PlatformTitleSelectors(PlatformLever), ".posting-headline h2")
	assert.Contains(t, PlatformTitleSelectors(PlatformUnknown), ".job-title")
}

func TestPlatformContentSelectors(t *testing.T) {
	greenhouse := PlatformContentSelectors(PlatformGreenhouse)
	assert.Contains(t, greenhouse, ".job__description.body")
	assert.Contains(t, greenhouse, ".job__description")

	// unknown boards fall back to the generic selectors
	assert.Equal(t, JobPostingSelectors(), PlatformContentSelectors(PlatformUnknown))
}

func TestPlatformNoiseSelectors(t *testing.T) {
	greenhouse := PlatformNoiseSelectors(PlatformGreenhouse)
	assert.Contains(t, greenhouse, "#application-form")
	assert.Contains(t, greenhouse, ".application--wrapper")

	unknown := PlatformNoiseSelectors(PlatformUnknown)
	assert.Contains(t, unknown, "form")
	assert.Contains(t, unknown, ".cookie-banner")
	assert.NotContains(t, unknown, ".application--wrapper")
}
