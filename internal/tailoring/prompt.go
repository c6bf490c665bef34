package tailoring

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/jonathan/resume-forge/internal/prompts"
	"github.com/jonathan/resume-forge/internal/types"
)

const promptFile = "tailoring.json"

// ProfileText flattens a profile into one "category: content" line per entry.
// Answers carry their question so the model sees the context.
func ProfileText(profile *types.UserProfile) string {
	if profile.IsEmpty() {
		return ""
	}

	var sb strings.Builder
	for _, e := range profile.Entries {
		content := strings.Join(strings.Fields(e.Content), " ")
		if e.Question != "" {
			fmt.Fprintf(&sb, "%s: Q: %s A: %s\n", e.Category, strings.TrimSpace(e.Question), content)
			continue
		}
		fmt.Fprintf(&sb, "%s: %s\n", e.Category, content)
	}
	return strings.TrimRight(sb.String(), "\n")
}

// BudgetText describes the fingerprint's bullet and character budgets
func BudgetText(fp types.TemplateFingerprint) (string, error) {
	var lines []string
	for i, b := range fp.ExperienceBudgets {
		chars := types.DefaultBulletCharBudget
		if len(b.BulletCharBudgets) > 0 {
			chars = b.BulletCharBudgets[0]
		}
		line, err := prompts.Render(promptFile, "budget-entry", map[string]string{
			"Index": strconv.Itoa(i + 1),
			"Count": strconv.Itoa(b.BulletCount),
			"Chars": strconv.Itoa(chars),
		})
		if err != nil {
			return "", err
		}
		lines = append(lines, line)
	}

	if fp.TotalCharBudget > 0 {
		line, err := prompts.Render(promptFile, "budget-total", map[string]string{
			"Total": strconv.Itoa(fp.TotalCharBudget),
		})
		if err != nil {
			return "", err
		}
		lines = append(lines, line)
	}
	return strings.Join(lines, "\n"), nil
}

func buildScorePrompt(profile *types.UserProfile, jobDescription string) (string, error) {
	return prompts.Render(promptFile, "score-fit", map[string]string{
		"Profile":        ProfileText(profile),
		"JobDescription": strings.TrimSpace(jobDescription),
	})
}

func buildResumePrompt(profile *types.UserProfile, jobDescription string, fp types.TemplateFingerprint) (string, error) {
	budget, err := BudgetText(fp)
	if err != nil {
		return "", err
	}
	return prompts.Render(promptFile, "generate-resume", map[string]string{
		"Profile":        ProfileText(profile),
		"JobDescription": strings.TrimSpace(jobDescription),
		"Budget":         budget,
	})
}

func checkInputs(profile *types.UserProfile, jobDescription string) error {
	if profile.IsEmpty() {
		return ErrEmptyProfile
	}
	if strings.TrimSpace(jobDescription) == "" {
		return ErrEmptyJobDescription
	}
	return nil
}
