package repair

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const fitScoreJSON = `{
  "overall": 78,
  "experienceAlignment": 80,
  "technicalSkillMatch": 85,
  "domainRelevance": 60,
  "stageCulturalFit": 70,
  "impactPotential": 75,
  "rationale": {
    "experienceAlignment": "Led platform teams",
    "technicalSkillMatch": "Go, Kubernetes, Postgres",
    "domainRelevance": "No payments background",
    "stageCulturalFit": "Startup experience"
  }
}`

func TestRepair_FencedJSONParsesDirectly(t *testing.T) {
	res := Repair("```json\n"+fitScoreJSON+"\n```", FitScoreShape)

	require.True(t, res.OK(), "unexpected error: %v", res.Err)
	assert.Equal(t, StageDirect, res.Stage)
	assert.JSONEq(t, fitScoreJSON, string(res.Value))
	assert.NoError(t, res.AsError())
}

func TestRepair_ProseAndFencesUseBraceSpan(t *testing.T) {
	raw := "Sure! Here is the analysis you asked for:\n\n```json\n" + fitScoreJSON + "\n```\n\nLet me know if you need anything else."

	score, res := FitScore(raw)
	require.True(t, res.OK(), "unexpected error: %v", res.Err)
	assert.Equal(t, StageBraceSpan, res.Stage)
	require.NotNil(t, score)
	assert.Equal(t, 78, score.Overall)
	assert.Equal(t, 75, score.ImpactPotential)
	assert.Equal(t, "No payments background", score.Rationale["domainRelevance"])
}

func TestRepair_NoBracesFails(t *testing.T) {
	res := Repair("I'm sorry, I can't produce a score for this posting.", FitScoreShape)

	assert.False(t, res.OK())
	assert.Equal(t, OutcomeParseError, res.Outcome)
	assert.Equal(t, StageNone, res.Stage)
	assert.Nil(t, res.Value)

	err := res.AsError()
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnparsableResponse))

	var unparsable *UnparsableResponseError
	require.True(t, errors.As(err, &unparsable))
	assert.Equal(t, "fit score", unparsable.Shape)
	assert.Contains(t, unparsable.Snippet, "I'm sorry")
}

func TestRepair_BrokenBraceSpanFails(t *testing.T) {
	res := Repair(`Result: {"overall": 80, "rationale": {`, FitScoreShape)
	assert.Equal(t, OutcomeParseError, res.Outcome)

	res = Repair(`closing } before opening {`, FitScoreShape)
	assert.Equal(t, OutcomeParseError, res.Outcome)
}

func TestRepair_MissingRationaleKeyIsShapeError(t *testing.T) {
	raw := strings.Replace(fitScoreJSON, `"domainRelevance": "No payments background",`, "", 1)

	score, res := FitScore(raw)
	assert.Nil(t, score)
	assert.Equal(t, OutcomeShapeError, res.Outcome)
	assert.Equal(t, StageDirect, res.Stage)
	assert.ErrorIs(t, res.AsError(), ErrUnparsableResponse)
}

func TestRepair_ValidJSONWrongShapeDoesNotFallBack(t *testing.T) {
	res := Repair(`[{"overall": 1}]`, FitScoreShape)

	assert.Equal(t, OutcomeShapeError, res.Outcome)
	assert.Equal(t, StageDirect, res.Stage)
}

func TestRepair_FractionalScoreRejectedByTypedHelper(t *testing.T) {
	raw := strings.Replace(fitScoreJSON, `"overall": 78`, `"overall": 78.0`, 1)

	score, res := FitScore(raw)
	assert.Nil(t, score)
	assert.Equal(t, OutcomeShapeError, res.Outcome)
}

func TestResumeDocument(t *testing.T) {
	raw := "```\n{\"header\":{\"name\":\"Jane Doe\",\"email\":\"jane@example.com\"},\"experience\":[{\"title\":\"Engineer\",\"company\":\"Acme\",\"bullets\":[\"Shipped things\"]}]}\n```"

	doc, res := ResumeDocument(raw)
	require.True(t, res.OK(), "unexpected error: %v", res.Err)
	require.NotNil(t, doc)
	assert.Equal(t, "Jane Doe", doc.Header.Name)
	require.Len(t, doc.Experience, 1)
	assert.Equal(t, []string{"Shipped things"}, doc.Experience[0].Bullets)
	assert.Nil(t, doc.Skills)
}

func TestResumeDocument_MissingHeader(t *testing.T) {
	doc, res := ResumeDocument(`{"summary":"no header here"}`)
	assert.Nil(t, doc)
	assert.Equal(t, OutcomeShapeError, res.Outcome)
}

func TestAsError_WrapsForeignErrors(t *testing.T) {
	res := Result{Outcome: OutcomeParseError, Err: errors.New("boom")}
	err := res.AsError()
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnparsableResponse)
	assert.Contains(t, err.Error(), "boom")
}

func TestSnippet_Truncates(t *testing.T) {
	long := strings.Repeat("x", snippetLength+50)
	got := snippet(long)
	assert.True(t, strings.HasSuffix(got, "..."))
	assert.Len(t, []rune(got), snippetLength+3)
	assert.Equal(t, "short", snippet("short"))
}
