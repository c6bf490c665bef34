package tailoring

import (
	"context"
	"errors"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/jonathan/resume-forge/internal/llm"
	"github.com/jonathan/resume-forge/internal/llm/llmtest"
	"github.com/jonathan/resume-forge/internal/repair"
	"github.com/jonathan/resume-forge/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const validFitScore = `{
  "overall": 82,
  "experienceAlignment": 85,
  "technicalSkillMatch": 90,
  "domainRelevance": 70,
  "stageCulturalFit": 75,
  "impactPotential": 80,
  "rationale": {
    "experienceAlignment": "Eight years of backend work.",
    "technicalSkillMatch": "Go and Postgres match.",
    "domainRelevance": "Payments adjacent.",
    "stageCulturalFit": "Has startup experience."
  }
}`

const validResume = `{
  "header": {"name": "Jane Doe", "email": "jane@example.com"},
  "summary": "Backend engineer.",
  "experience": [{"title": "Senior Engineer", "company": "Acme", "bullets": ["Built the billing service"]}]
}`

func testProfile() *types.UserProfile {
	now := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	profile := &types.UserProfile{}
	profile.Append(types.NewProfileEntry(types.CategoryExperience, "Senior Engineer at Acme,\n  built billing", "", now))
	profile.Append(types.NewProfileEntry(types.CategorySkill, "Go", "", now.Add(time.Millisecond)))
	profile.Append(types.NewProfileEntry(types.CategoryAnswer, "Led an on-call rotation", " Describe a hard incident ", now.Add(2*time.Millisecond)))
	return profile
}

func TestProfileText(t *testing.T) {
	assert.Equal(t,
		"experience: Senior Engineer at Acme, built billing\nskill: Go\nanswer: Q: Describe a hard incident A: Led an on-call rotation",
		ProfileText(testProfile()))
	assert.Empty(t, ProfileText(nil))
	assert.Empty(t, ProfileText(&types.UserProfile{}))
}

func TestBudgetText(t *testing.T) {
	fp := types.TemplateFingerprint{
		ExperienceBudgets: []types.ExperienceBudget{types.UniformBudget(3, 90), types.UniformBudget(2, 70)},
		TotalCharBudget:   1600,
	}

	text, err := BudgetText(fp)
	require.NoError(t, err)
	assert.Equal(t,
		"Role 1: at most 3 bullets of at most 90 characters each\nRole 2: at most 2 bullets of at most 70 characters each\nTotal: at most 1600 characters of text",
		text)
}

func TestBudgetText_DefaultFingerprintHasNoTotal(t *testing.T) {
	text, err := BudgetText(types.DefaultFingerprint())
	require.NoError(t, err)
	assert.Equal(t, "Role 1: at most 3 bullets of at most 100 characters each", text)
}

func TestScoreFit(t *testing.T) {
	var gotPrompt string
	var gotTier llm.ModelTier
	client := &llmtest.MockLLMClient{
		GenerateJSONFunc: func(_ context.Context, prompt string, tier llm.ModelTier) (string, error) {
			gotPrompt, gotTier = prompt, tier
			return "Here is the analysis:\n```json\n" + validFitScore + "\n```\nLet me know!", nil
		},
	}

	score, err := ScoreFit(context.Background(), client, testProfile(), "Backend role using Go")
	require.NoError(t, err)

	assert.Equal(t, 82, score.Overall)
	assert.Equal(t, 70, score.DomainRelevance)
	assert.Len(t, score.Rationale, 4)
	assert.Equal(t, llm.TierStandard, gotTier)
	assert.Contains(t, gotPrompt, "skill: Go")
	assert.Contains(t, gotPrompt, "Backend role using Go")
	assert.NotContains(t, gotPrompt, "{{.")
}

func TestScoreFit_MissingRationaleKey(t *testing.T) {
	broken := strings.Replace(validFitScore, `"domainRelevance": "Payments adjacent.",`, "", 1)
	client := &llmtest.MockLLMClient{
		GenerateJSONFunc: func(context.Context, string, llm.ModelTier) (string, error) {
			return broken, nil
		},
	}

	_, err := ScoreFit(context.Background(), client, testProfile(), "Backend role")
	require.Error(t, err)
	assert.ErrorIs(t, err, repair.ErrUnparsableResponse)

	var unparsable *repair.UnparsableResponseError
	require.ErrorAs(t, err, &unparsable)
	assert.Equal(t, repair.OutcomeShapeError, unparsable.Outcome)
}

func TestScoreFit_ClientError(t *testing.T) {
	client := &llmtest.MockLLMClient{
		GenerateJSONFunc: func(context.Context, string, llm.ModelTier) (string, error) {
			return "", &llm.APICallError{Message: "quota", Attempts: 3}
		},
	}

	_, err := ScoreFit(context.Background(), client, testProfile(), "Backend role")
	require.Error(t, err)
	assert.ErrorIs(t, err, llm.ErrAPICall)
}

func TestScoreFit_InputChecks(t *testing.T) {
	client := &llmtest.MockLLMClient{}

	_, err := ScoreFit(context.Background(), client, &types.UserProfile{}, "Backend role")
	assert.ErrorIs(t, err, ErrEmptyProfile)

	_, err = ScoreFit(context.Background(), client, testProfile(), "  \n")
	assert.ErrorIs(t, err, ErrEmptyJobDescription)
}

func TestGenerateResume(t *testing.T) {
	var gotMessages []llm.Message
	client := &llmtest.MockLLMClient{
		ChatFunc: func(_ context.Context, messages []llm.Message, tier llm.ModelTier) (string, error) {
			assert.Equal(t, llm.TierAdvanced, tier)
			gotMessages = messages
			return validResume, nil
		},
	}

	fp := types.TemplateFingerprint{ExperienceBudgets: []types.ExperienceBudget{types.UniformBudget(2, 60)}}
	doc, err := GenerateResume(context.Background(), client, testProfile(), "Backend role", fp)
	require.NoError(t, err)

	assert.Equal(t, "Jane Doe", doc.Header.Name)
	require.Len(t, doc.Experience, 1)
	assert.Equal(t, []string{"Built the billing service"}, doc.Experience[0].Bullets)

	require.Len(t, gotMessages, 2)
	assert.Equal(t, llm.RoleSystem, gotMessages[0].Role)
	assert.Equal(t, llm.RoleUser, gotMessages[1].Role)
	assert.Contains(t, gotMessages[1].Content, "at most 2 bullets of at most 60 characters")
}

func TestGenerateResume_Unparsable(t *testing.T) {
	client := &llmtest.MockLLMClient{
		ChatFunc: func(context.Context, []llm.Message, llm.ModelTier) (string, error) {
			return "Sorry, I cannot help with that.", nil
		},
	}

	_, err := GenerateResume(context.Background(), client, testProfile(), "Backend role", types.DefaultFingerprint())
	require.Error(t, err)

	var unparsable *repair.UnparsableResponseError
	require.ErrorAs(t, err, &unparsable)
	assert.Equal(t, repair.OutcomeParseError, unparsable.Outcome)
}

func TestTailor(t *testing.T) {
	var calls atomic.Int32
	client := &llmtest.MockLLMClient{
		GenerateJSONFunc: func(context.Context, string, llm.ModelTier) (string, error) {
			calls.Add(1)
			return validFitScore, nil
		},
		ChatFunc: func(context.Context, []llm.Message, llm.ModelTier) (string, error) {
			calls.Add(1)
			return validResume, nil
		},
	}

	result, err := Tailor(context.Background(), client, testProfile(), "Backend role", types.DefaultFingerprint())
	require.NoError(t, err)
	assert.Equal(t, int32(2), calls.Load())
	assert.Equal(t, 82, result.Fit.Overall)
	assert.Equal(t, "Jane Doe", result.Resume.Header.Name)
}

func TestTailor_FailureCancelsOtherCall(t *testing.T) {
	client := &llmtest.MockLLMClient{
		GenerateJSONFunc: func(context.Context, string, llm.ModelTier) (string, error) {
			return "", errors.New("boom")
		},
		ChatFunc: func(ctx context.Context, _ []llm.Message, _ llm.ModelTier) (string, error) {
			<-ctx.Done()
			return "", ctx.Err()
		},
	}

	_, err := Tailor(context.Background(), client, testProfile(), "Backend role", types.DefaultFingerprint())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "scoring failed")
}
