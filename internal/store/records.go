package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/jonathan/resume-forge/internal/types"
)

// Records is the typed repository over a KV. Every method is a whole-document
// read or read-modify-write; concurrent writers race and the last one wins.
//
// Documents that fail to decode or validate on load are replaced by their
// empty value and a warning is logged. Saves validate first and refuse
// invalid documents with a ValidationError.
type Records struct {
	kv       KV
	validate *validator.Validate
	now      func() time.Time
}

// NewRecords wraps kv
func NewRecords(kv KV) *Records {
	return &Records{
		kv:       kv,
		validate: validator.New(),
		now:      time.Now,
	}
}

// WithClock returns a copy of r that stamps records with now
func (r *Records) WithClock(now func() time.Time) *Records {
	c := *r
	c.now = now
	return &c
}

// load decodes key into v. It reports false when the stored value was
// absent or unusable, in which case v must be treated as empty.
func (r *Records) load(ctx context.Context, key string, v any, check func() error) (bool, error) {
	data, err := r.kv.Get(ctx, key)
	if errors.Is(err, ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}

	if err := json.Unmarshal(data, v); err != nil {
		log.Printf("[store] warning: discarding undecodable %s: %v", key, err)
		return false, nil
	}
	if err := check(); err != nil {
		log.Printf("[store] warning: discarding invalid %s: %v", key, err)
		return false, nil
	}
	return true, nil
}

func (r *Records) save(ctx context.Context, key string, v any, check func() error) error {
	if err := check(); err != nil {
		return newValidationError(key, err)
	}
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to marshal %s: %w", key, err)
	}
	return r.kv.Put(ctx, key, data)
}

func (r *Records) structs(items ...any) func() error {
	return func() error {
		for _, item := range items {
			if err := r.validate.Struct(item); err != nil {
				return err
			}
		}
		return nil
	}
}

// LoadProfile returns the stored profile, or an empty one
func (r *Records) LoadProfile(ctx context.Context) (*types.UserProfile, error) {
	var profile types.UserProfile
	ok, err := r.load(ctx, KeyUserProfile, &profile, func() error { return r.validate.Struct(&profile) })
	if err != nil {
		return nil, err
	}
	if !ok {
		return &types.UserProfile{Entries: []types.ProfileEntry{}}, nil
	}
	return &profile, nil
}

// SaveProfile replaces the stored profile
func (r *Records) SaveProfile(ctx context.Context, profile *types.UserProfile) error {
	return r.save(ctx, KeyUserProfile, profile, r.structs(profile))
}

// AppendEntry adds one entry to the profile and stores it
func (r *Records) AppendEntry(ctx context.Context, category types.ProfileCategory, content, question string) (types.ProfileEntry, error) {
	profile, err := r.LoadProfile(ctx)
	if err != nil {
		return types.ProfileEntry{}, err
	}

	// ids are category plus millisecond; step past any taken in the same millisecond
	now := r.now()
	for profile.HasEntry(types.ProfileEntryID(category, now)) {
		now = now.Add(time.Millisecond)
	}

	entry := types.NewProfileEntry(category, strings.TrimSpace(content), strings.TrimSpace(question), now)
	if err := r.validate.Struct(entry); err != nil {
		return types.ProfileEntry{}, newValidationError(KeyUserProfile, err)
	}

	profile.Append(entry)
	if err := r.SaveProfile(ctx, profile); err != nil {
		return types.ProfileEntry{}, err
	}
	return entry, nil
}

// ResetProfile replaces the profile with an empty one
func (r *Records) ResetProfile(ctx context.Context) error {
	return r.SaveProfile(ctx, &types.UserProfile{Entries: []types.ProfileEntry{}, UpdatedAt: r.now().UTC()})
}

// LoadJobPostings returns the stored postings, most recent first
func (r *Records) LoadJobPostings(ctx context.Context) ([]types.JobPosting, error) {
	var postings []types.JobPosting
	ok, err := r.load(ctx, KeyJobPostings, &postings, func() error {
		for i := range postings {
			if err := r.validate.Struct(&postings[i]); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	if !ok || postings == nil {
		return []types.JobPosting{}, nil
	}
	return postings, nil
}

// AddJobPosting assigns an ID and creation time and puts the posting first
func (r *Records) AddJobPosting(ctx context.Context, posting types.JobPosting) (types.JobPosting, error) {
	postings, err := r.LoadJobPostings(ctx)
	if err != nil {
		return types.JobPosting{}, err
	}

	posting.ID = uuid.NewString()
	posting.CreatedAt = r.now().UTC()
	if err := r.validate.Struct(&posting); err != nil {
		return types.JobPosting{}, newValidationError(KeyJobPostings, err)
	}

	postings = append([]types.JobPosting{posting}, postings...)
	if err := r.save(ctx, KeyJobPostings, postings, func() error { return nil }); err != nil {
		return types.JobPosting{}, err
	}
	return posting, nil
}

// GetJobPosting finds a posting by ID
func (r *Records) GetJobPosting(ctx context.Context, id string) (*types.JobPosting, error) {
	postings, err := r.LoadJobPostings(ctx)
	if err != nil {
		return nil, err
	}
	for i := range postings {
		if postings[i].ID == id {
			return &postings[i], nil
		}
	}
	return nil, ErrNotFound
}

// LoadQAHistory returns the stored answers, oldest first
func (r *Records) LoadQAHistory(ctx context.Context) ([]types.QAEntry, error) {
	var history []types.QAEntry
	ok, err := r.load(ctx, KeyQAHistory, &history, func() error {
		for i := range history {
			if err := r.validate.Struct(&history[i]); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	if !ok || history == nil {
		return []types.QAEntry{}, nil
	}
	return history, nil
}

// AddQA appends an answered question
func (r *Records) AddQA(ctx context.Context, question, answer string) (types.QAEntry, error) {
	history, err := r.LoadQAHistory(ctx)
	if err != nil {
		return types.QAEntry{}, err
	}

	entry := types.QAEntry{
		ID:        uuid.NewString(),
		Question:  strings.TrimSpace(question),
		Answer:    strings.TrimSpace(answer),
		CreatedAt: r.now().UTC(),
	}
	if err := r.validate.Struct(&entry); err != nil {
		return types.QAEntry{}, newValidationError(KeyQAHistory, err)
	}

	history = append(history, entry)
	if err := r.save(ctx, KeyQAHistory, history, func() error { return nil }); err != nil {
		return types.QAEntry{}, err
	}
	return entry, nil
}

// LoadSettings returns the stored settings, or the zero value
func (r *Records) LoadSettings(ctx context.Context) (*types.AppSettings, error) {
	var settings types.AppSettings
	ok, err := r.load(ctx, KeyAppSettings, &settings, func() error { return r.validate.Struct(&settings) })
	if err != nil {
		return nil, err
	}
	if !ok {
		return &types.AppSettings{}, nil
	}
	return &settings, nil
}

// SaveSettings replaces the stored settings
func (r *Records) SaveSettings(ctx context.Context, settings *types.AppSettings) error {
	return r.save(ctx, KeyAppSettings, settings, r.structs(settings))
}
