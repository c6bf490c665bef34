package tailoring

import (
	"context"
	"fmt"
	"log"

	"golang.org/x/sync/errgroup"

	"github.com/jonathan/resume-forge/internal/llm"
	"github.com/jonathan/resume-forge/internal/prompts"
	"github.com/jonathan/resume-forge/internal/repair"
	"github.com/jonathan/resume-forge/internal/types"
)

// ScoreFit rates the profile against a job description. Unusable model output
// is returned as a repair.UnparsableResponseError.
func ScoreFit(ctx context.Context, client llm.Client, profile *types.UserProfile, jobDescription string) (*types.FitScore, error) {
	if err := checkInputs(profile, jobDescription); err != nil {
		return nil, err
	}

	prompt, err := buildScorePrompt(profile, jobDescription)
	if err != nil {
		return nil, err
	}

	raw, err := client.GenerateJSON(ctx, prompt, llm.TierStandard)
	if err != nil {
		return nil, fmt.Errorf("fit score generation failed: %w", err)
	}

	score, res := repair.FitScore(raw)
	if !res.OK() {
		log.Printf("[tailor] fit score rejected: %s", res.Outcome)
		return nil, res.AsError()
	}
	log.Printf("[tailor] fit score %d (stage %s)", score.Overall, res.Stage)
	return score, nil
}

// GenerateResume writes a resume for the job, asking the model to respect the
// fingerprint's budgets. Budgets stay advisory; the renderer reports overruns.
func GenerateResume(ctx context.Context, client llm.Client, profile *types.UserProfile, jobDescription string, fp types.TemplateFingerprint) (*types.ResumeDocument, error) {
	if err := checkInputs(profile, jobDescription); err != nil {
		return nil, err
	}

	prompt, err := buildResumePrompt(profile, jobDescription, fp)
	if err != nil {
		return nil, err
	}
	system, err := prompts.Get(promptFile, "system")
	if err != nil {
		return nil, err
	}

	raw, err := client.Chat(ctx, []llm.Message{
		{Role: llm.RoleSystem, Content: system},
		{Role: llm.RoleUser, Content: prompt},
	}, llm.TierAdvanced)
	if err != nil {
		return nil, fmt.Errorf("resume generation failed: %w", err)
	}

	doc, res := repair.ResumeDocument(raw)
	if !res.OK() {
		log.Printf("[tailor] resume rejected: %s", res.Outcome)
		return nil, res.AsError()
	}
	return doc, nil
}

// Result pairs a fit score with the resume generated for the same job
type Result struct {
	Fit    *types.FitScore       `json:"fitScore"`
	Resume *types.ResumeDocument `json:"resume"`
}

// Tailor scores the fit and generates the resume concurrently. The first
// failure cancels the other call.
func Tailor(ctx context.Context, client llm.Client, profile *types.UserProfile, jobDescription string, fp types.TemplateFingerprint) (*Result, error) {
	if err := checkInputs(profile, jobDescription); err != nil {
		return nil, err
	}

	g, gCtx := errgroup.WithContext(ctx)
	var result Result

	g.Go(func() error {
		score, err := ScoreFit(gCtx, client, profile, jobDescription)
		if err != nil {
			return fmt.Errorf("scoring failed: %w", err)
		}
		result.Fit = score
		return nil
	})

	g.Go(func() error {
		doc, err := GenerateResume(gCtx, client, profile, jobDescription, fp)
		if err != nil {
			return fmt.Errorf("generation failed: %w", err)
		}
		result.Resume = doc
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return &result, nil
}
