package server

import (
	"fmt"
	"net/http"

	"github.com/jonathan/resume-forge/internal/tailoring"
	"github.com/jonathan/resume-forge/internal/types"
)

// FitScoreRequest is the body of POST /fit-score
type FitScoreRequest struct {
	JobDescription string `json:"jobDescription" validate:"required_without=JobPostingID"`
	JobPostingID   string `json:"jobPostingId,omitempty" validate:"omitempty,uuid"`
}

// GenerateResumeRequest is the body of POST /resume/generate
type GenerateResumeRequest struct {
	JobDescription     string `json:"jobDescription" validate:"required"`
	TemplateDocxBase64 string `json:"templateDocxBase64,omitempty"`
	IncludeFitScore    bool   `json:"includeFitScore,omitempty"`
}

// GenerateResumeResponse is the reply of POST /resume/generate
type GenerateResumeResponse struct {
	Resume      *types.ResumeDocument     `json:"resume"`
	Fingerprint types.TemplateFingerprint `json:"fingerprint"`
	FitScore    *types.FitScore           `json:"fitScore,omitempty"`
}

func (s *Server) requireLLM() error {
	if s.llm == nil {
		return fmt.Errorf("%w: no text-generation client configured", ErrServiceUnavailable)
	}
	return nil
}

// handleFitScore scores the stored profile against a job description or a
// stored job posting
func (s *Server) handleFitScore(w http.ResponseWriter, r *http.Request) {
	var req FitScoreRequest
	if err := s.decodeJSON(w, r, 1<<20, &req); err != nil {
		s.failure(w, "fit score", err)
		return
	}
	if err := s.requireLLM(); err != nil {
		s.failure(w, "fit score", err)
		return
	}

	ctx := r.Context()
	description := req.JobDescription
	if description == "" {
		posting, err := s.records.GetJobPosting(ctx, req.JobPostingID)
		if err != nil {
			s.failure(w, "fit score", err)
			return
		}
		description = posting.Description
	}

	profile, err := s.records.LoadProfile(ctx)
	if err != nil {
		s.failure(w, "fit score", err)
		return
	}

	score, err := tailoring.ScoreFit(ctx, s.llm, profile, description)
	if err != nil {
		s.failure(w, "fit score", err)
		return
	}
	s.jsonResponse(w, http.StatusOK, score)
}

// handleGenerateResume writes a tailored resume constrained by the template's
// budgets, optionally scoring the fit in parallel
func (s *Server) handleGenerateResume(w http.ResponseWriter, r *http.Request) {
	var req GenerateResumeRequest
	if err := s.decodeJSON(w, r, s.jsonBodyLimit(), &req); err != nil {
		s.failure(w, "generate resume", err)
		return
	}
	if err := s.requireLLM(); err != nil {
		s.failure(w, "generate resume", err)
		return
	}

	var template []byte
	if req.TemplateDocxBase64 != "" {
		var err error
		if template, err = decodeBase64("templateDocxBase64", req.TemplateDocxBase64); err != nil {
			s.failure(w, "generate resume", err)
			return
		}
	}
	fp, err := s.templateFingerprint(template)
	if err != nil {
		s.failure(w, "generate resume", err)
		return
	}

	ctx := r.Context()
	profile, err := s.records.LoadProfile(ctx)
	if err != nil {
		s.failure(w, "generate resume", err)
		return
	}

	resp := GenerateResumeResponse{Fingerprint: fp}
	if req.IncludeFitScore {
		result, err := tailoring.Tailor(ctx, s.llm, profile, req.JobDescription, fp)
		if err != nil {
			s.failure(w, "generate resume", err)
			return
		}
		resp.Resume = result.Resume
		resp.FitScore = result.Fit
	} else {
		doc, err := tailoring.GenerateResume(ctx, s.llm, profile, req.JobDescription, fp)
		if err != nil {
			s.failure(w, "generate resume", err)
			return
		}
		resp.Resume = doc
	}

	s.jsonResponse(w, http.StatusOK, resp)
}
