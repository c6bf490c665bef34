package server

import (
	"net/http"
	"strings"

	"github.com/jonathan/resume-forge/internal/ingestion"
	"github.com/jonathan/resume-forge/internal/tailoring"
	"github.com/jonathan/resume-forge/internal/types"
)

const recordBodyLimit = 1 << 20

// AddProfileEntryRequest is the body of POST /profile/entries
type AddProfileEntryRequest struct {
	Category string `json:"category" validate:"required"`
	Content  string `json:"content" validate:"required"`
	Question string `json:"question,omitempty"`
}

// CreateJobPostingRequest is the body of POST /job-postings. Either a
// description or a url is required; a url alone is fetched.
type CreateJobPostingRequest struct {
	Title       string `json:"title,omitempty"`
	Company     string `json:"company,omitempty"`
	Description string `json:"description,omitempty" validate:"required_without=URL"`
	URL         string `json:"url,omitempty" validate:"omitempty,url"`
	Score       bool   `json:"score,omitempty"`
}

// CreateJobPostingResponse carries the stored posting and how it was ingested
type CreateJobPostingResponse struct {
	Posting  types.JobPosting    `json:"posting"`
	Metadata *ingestion.Metadata `json:"metadata"`
}

// AddQARequest is the body of POST /qa-history
type AddQARequest struct {
	Question string `json:"question" validate:"required"`
	Answer   string `json:"answer" validate:"required"`
}

// handleGetProfile returns the stored profile
func (s *Server) handleGetProfile(w http.ResponseWriter, r *http.Request) {
	profile, err := s.records.LoadProfile(r.Context())
	if err != nil {
		s.failure(w, "load profile", err)
		return
	}
	s.jsonResponse(w, http.StatusOK, profile)
}

// handleAddProfileEntry appends one entry to the profile
func (s *Server) handleAddProfileEntry(w http.ResponseWriter, r *http.Request) {
	var req AddProfileEntryRequest
	if err := s.decodeJSON(w, r, recordBodyLimit, &req); err != nil {
		s.failure(w, "add profile entry", err)
		return
	}

	category := types.ProfileCategory(strings.ToLower(strings.TrimSpace(req.Category)))
	entry, err := s.records.AppendEntry(r.Context(), category, req.Content, req.Question)
	if err != nil {
		s.failure(w, "add profile entry", err)
		return
	}
	s.jsonResponse(w, http.StatusCreated, entry)
}

// handleResetProfile replaces the profile with an empty one
func (s *Server) handleResetProfile(w http.ResponseWriter, r *http.Request) {
	if err := s.records.ResetProfile(r.Context()); err != nil {
		s.failure(w, "reset profile", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleListJobPostings lists stored postings, most recent first
func (s *Server) handleListJobPostings(w http.ResponseWriter, r *http.Request) {
	postings, err := s.records.LoadJobPostings(r.Context())
	if err != nil {
		s.failure(w, "list job postings", err)
		return
	}
	s.jsonResponse(w, http.StatusOK, map[string]any{
		"postings": postings,
		"count":    len(postings),
	})
}

// handleGetJobPosting retrieves a job posting by its ID
func (s *Server) handleGetJobPosting(w http.ResponseWriter, r *http.Request) {
	posting, err := s.records.GetJobPosting(r.Context(), r.PathValue("id"))
	if err != nil {
		s.failure(w, "get job posting", err)
		return
	}
	s.jsonResponse(w, http.StatusOK, posting)
}

// handleCreateJobPosting stores a posting built from text or fetched from a
// url, optionally scoring it against the profile first
func (s *Server) handleCreateJobPosting(w http.ResponseWriter, r *http.Request) {
	var req CreateJobPostingRequest
	if err := s.decodeJSON(w, r, recordBodyLimit, &req); err != nil {
		s.failure(w, "create job posting", err)
		return
	}
	if req.Score {
		if err := s.requireLLM(); err != nil {
			s.failure(w, "create job posting", err)
			return
		}
	}

	ctx := r.Context()
	var (
		posting *types.JobPosting
		meta    *ingestion.Metadata
		err     error
	)
	if strings.TrimSpace(req.Description) == "" {
		posting, meta, err = ingestion.FromURL(ctx, req.URL, ingestion.Options{Fetch: s.fetchOptions, Client: s.llm})
		if err == nil {
			if req.Title != "" {
				posting.Title = strings.TrimSpace(req.Title)
				meta.TitleSource = ""
			}
			if req.Company != "" {
				posting.Company = strings.TrimSpace(req.Company)
				meta.CompanySource = ""
			}
		}
	} else {
		posting, meta, err = ingestion.FromText(req.Description, req.Title, req.Company)
		if err == nil && req.URL != "" {
			posting.URL = req.URL
			meta.URL = req.URL
		}
	}
	if err != nil {
		s.failure(w, "create job posting", err)
		return
	}

	if req.Score {
		profile, err := s.records.LoadProfile(ctx)
		if err != nil {
			s.failure(w, "create job posting", err)
			return
		}
		score, err := tailoring.ScoreFit(ctx, s.llm, profile, posting.Description)
		if err != nil {
			s.failure(w, "create job posting", err)
			return
		}
		posting.FitScore = score
	}

	stored, err := s.records.AddJobPosting(ctx, *posting)
	if err != nil {
		s.failure(w, "create job posting", err)
		return
	}
	s.jsonResponse(w, http.StatusCreated, CreateJobPostingResponse{Posting: stored, Metadata: meta})
}

// handleListQA returns the answered questions, oldest first
func (s *Server) handleListQA(w http.ResponseWriter, r *http.Request) {
	history, err := s.records.LoadQAHistory(r.Context())
	if err != nil {
		s.failure(w, "list qa history", err)
		return
	}
	s.jsonResponse(w, http.StatusOK, history)
}

// handleAddQA appends an answered question
func (s *Server) handleAddQA(w http.ResponseWriter, r *http.Request) {
	var req AddQARequest
	if err := s.decodeJSON(w, r, recordBodyLimit, &req); err != nil {
		s.failure(w, "add qa", err)
		return
	}

	entry, err := s.records.AddQA(r.Context(), req.Question, req.Answer)
	if err != nil {
		s.failure(w, "add qa", err)
		return
	}
	s.jsonResponse(w, http.StatusCreated, entry)
}

// handleGetSettings returns the app settings
func (s *Server) handleGetSettings(w http.ResponseWriter, r *http.Request) {
	settings, err := s.records.LoadSettings(r.Context())
	if err != nil {
		s.failure(w, "load settings", err)
		return
	}
	s.jsonResponse(w, http.StatusOK, settings)
}

// handlePutSettings replaces the app settings
func (s *Server) handlePutSettings(w http.ResponseWriter, r *http.Request) {
	var settings types.AppSettings
	if err := s.decodeJSON(w, r, recordBodyLimit, &settings); err != nil {
		s.failure(w, "save settings", err)
		return
	}
	if err := s.records.SaveSettings(r.Context(), &settings); err != nil {
		s.failure(w, "save settings", err)
		return
	}
	s.jsonResponse(w, http.StatusOK, settings)
}
