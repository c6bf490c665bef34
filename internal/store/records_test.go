package store

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/resume-forge/internal/types"
)

// steppingClock advances one millisecond per call
func steppingClock(start time.Time) func() time.Time {
	current := start
	return func() time.Time {
		current = current.Add(time.Millisecond)
		return current
	}
}

func newTestRecords(t *testing.T) (*Records, KV) {
	t.Helper()
	kv, err := OpenSQLite(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = kv.Close() })
	return NewRecords(kv).WithClock(steppingClock(time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC))), kv
}

func TestLoadProfile_EmptyStore(t *testing.T) {
	records, _ := newTestRecords(t)

	profile, err := records.LoadProfile(context.Background())
	require.NoError(t, err)
	assert.True(t, profile.IsEmpty())
	assert.NotNil(t, profile.Entries)
}

func TestAppendEntry(t *testing.T) {
	ctx := context.Background()
	records, _ := newTestRecords(t)

	first, err := records.AppendEntry(ctx, types.CategorySkill, "  Go ", "")
	require.NoError(t, err)
	second, err := records.AppendEntry(ctx, types.CategoryAnswer, "Led the migration", "Biggest project?")
	require.NoError(t, err)

	assert.Equal(t, types.ProfileEntryID(types.CategorySkill, first.CreatedAt), first.ID)
	assert.Equal(t, "Go", first.Content)
	assert.NotEqual(t, first.ID, second.ID)

	profile, err := records.LoadProfile(ctx)
	require.NoError(t, err)
	require.Len(t, profile.Entries, 2)
	assert.Equal(t, first.ID, profile.Entries[0].ID)
	assert.True(t, first.CreatedAt.Equal(profile.Entries[0].CreatedAt))
	assert.Equal(t, "Biggest project?", profile.Entries[1].Question)
	assert.True(t, second.CreatedAt.Equal(profile.UpdatedAt))
}

func TestAppendEntry_SameMillisecondGetsDistinctIDs(t *testing.T) {
	ctx := context.Background()
	kv, err := OpenSQLite(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = kv.Close() })

	fixed := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	records := NewRecords(kv).WithClock(func() time.Time { return fixed })

	first, err := records.AppendEntry(ctx, types.CategorySkill, "Go", "")
	require.NoError(t, err)
	second, err := records.AppendEntry(ctx, types.CategorySkill, "Rust", "")
	require.NoError(t, err)
	other, err := records.AppendEntry(ctx, types.CategoryTool, "Docker", "")
	require.NoError(t, err)

	assert.NotEqual(t, first.ID, second.ID)
	assert.Equal(t, types.ProfileEntryID(types.CategorySkill, fixed.Add(time.Millisecond)), second.ID)
	// other categories do not collide, so they keep the clock's time
	assert.Equal(t, types.ProfileEntryID(types.CategoryTool, fixed), other.ID)
}

func TestAppendEntry_Invalid(t *testing.T) {
	ctx := context.Background()
	records, _ := newTestRecords(t)

	tests := []struct {
		name     string
		category types.ProfileCategory
		content  string
	}{
		{"unknown category", types.ProfileCategory("hobby"), "Chess"},
		{"blank content", types.CategorySkill, "   "},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := records.AppendEntry(ctx, tt.category, tt.content, "")
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrValidation)

			var ve *ValidationError
			require.ErrorAs(t, err, &ve)
			assert.Equal(t, KeyUserProfile, ve.Key)
			assert.NotEmpty(t, ve.Fields)
		})
	}

	profile, err := records.LoadProfile(ctx)
	require.NoError(t, err)
	assert.True(t, profile.IsEmpty(), "rejected entries are not written")
}

func TestSaveProfile_BlocksInvalid(t *testing.T) {
	ctx := context.Background()
	records, kv := newTestRecords(t)

	profile := &types.UserProfile{Entries: []types.ProfileEntry{{ID: "skill-1", Category: types.CategorySkill}}}
	err := records.SaveProfile(ctx, profile)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrValidation)
	assert.Contains(t, err.Error(), "Content")

	_, err = kv.Get(ctx, KeyUserProfile)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestLoad_DegradesToEmpty(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name  string
		key   string
		value string
	}{
		{"undecodable profile", KeyUserProfile, `{"entries": "nope"`},
		{"invalid profile entry", KeyUserProfile, `{"entries":[{"id":"x","category":"hobby","content":"c"}]}`},
		{"invalid posting", KeyJobPostings, `[{"id":"not-a-uuid","title":"t","description":"d"}]`},
		{"invalid qa", KeyQAHistory, `[{"id":"1","question":"","answer":"a"}]`},
		{"invalid settings", KeyAppSettings, `{"default_render_mode":"fancy"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			records, kv := newTestRecords(t)
			require.NoError(t, kv.Put(ctx, tt.key, []byte(tt.value)))

			profile, err := records.LoadProfile(ctx)
			require.NoError(t, err)
			assert.True(t, profile.IsEmpty())

			postings, err := records.LoadJobPostings(ctx)
			require.NoError(t, err)
			assert.Empty(t, postings)

			history, err := records.LoadQAHistory(ctx)
			require.NoError(t, err)
			assert.Empty(t, history)

			settings, err := records.LoadSettings(ctx)
			require.NoError(t, err)
			assert.Equal(t, types.AppSettings{}, *settings)
		})
	}
}

func TestResetProfile(t *testing.T) {
	ctx := context.Background()
	records, _ := newTestRecords(t)

	_, err := records.AppendEntry(ctx, types.CategoryTool, "Terraform", "")
	require.NoError(t, err)
	require.NoError(t, records.ResetProfile(ctx))

	profile, err := records.LoadProfile(ctx)
	require.NoError(t, err)
	assert.True(t, profile.IsEmpty())
	assert.False(t, profile.UpdatedAt.IsZero())
}

func TestAddJobPosting_MostRecentFirst(t *testing.T) {
	ctx := context.Background()
	records, _ := newTestRecords(t)

	older, err := records.AddJobPosting(ctx, types.JobPosting{Title: "Backend Engineer", Description: "Go"})
	require.NoError(t, err)
	newer, err := records.AddJobPosting(ctx, types.JobPosting{
		Title:       "Platform Engineer",
		Company:     "Acme",
		Description: "Kubernetes",
		URL:         "https://jobs.lever.co/acme/1",
		FitScore: &types.FitScore{
			Overall:   70,
			Rationale: map[string]string{types.DimensionDomainRelevance: "close"},
		},
	})
	require.NoError(t, err)

	_, err = uuid.Parse(older.ID)
	assert.NoError(t, err)
	assert.True(t, newer.CreatedAt.After(older.CreatedAt))

	postings, err := records.LoadJobPostings(ctx)
	require.NoError(t, err)
	require.Len(t, postings, 2)
	assert.Equal(t, newer.ID, postings[0].ID)
	assert.Equal(t, older.ID, postings[1].ID)
	assert.Equal(t, 70, postings[0].FitScore.Overall)

	got, err := records.GetJobPosting(ctx, older.ID)
	require.NoError(t, err)
	assert.Equal(t, "Backend Engineer", got.Title)

	_, err = records.GetJobPosting(ctx, uuid.NewString())
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestAddJobPosting_Invalid(t *testing.T) {
	ctx := context.Background()
	records, _ := newTestRecords(t)

	tests := map[string]types.JobPosting{
		"missing title":       {Description: "d"},
		"missing description": {Title: "t"},
		"bad url":             {Title: "t", Description: "d", URL: "not a url"},
		"score out of range":  {Title: "t", Description: "d", FitScore: &types.FitScore{Overall: 101, Rationale: map[string]string{}}},
	}

	for name, posting := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := records.AddJobPosting(ctx, posting)
			assert.ErrorIs(t, err, ErrValidation)
		})
	}

	postings, err := records.LoadJobPostings(ctx)
	require.NoError(t, err)
	assert.Empty(t, postings)
}

func TestAddQA(t *testing.T) {
	ctx := context.Background()
	records, _ := newTestRecords(t)

	first, err := records.AddQA(ctx, "Why this role?", "Growth")
	require.NoError(t, err)
	_, err = records.AddQA(ctx, "Salary?", "Negotiable")
	require.NoError(t, err)

	history, err := records.LoadQAHistory(ctx)
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, first.ID, history[0].ID)

	_, err = records.AddQA(ctx, "Empty answer?", " ")
	assert.ErrorIs(t, err, ErrValidation)
}

func TestSettings(t *testing.T) {
	ctx := context.Background()
	records, _ := newTestRecords(t)

	settings := &types.AppSettings{DefaultRenderMode: "template", Model: "gemini-2.5-pro", ServiceURL: "https://forge.example.com"}
	require.NoError(t, records.SaveSettings(ctx, settings))

	got, err := records.LoadSettings(ctx)
	require.NoError(t, err)
	assert.Equal(t, settings, got)

	err = records.SaveSettings(ctx, &types.AppSettings{ServiceURL: "nope"})
	assert.ErrorIs(t, err, ErrValidation)
}
