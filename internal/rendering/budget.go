package rendering

import (
	"unicode/utf8"

	"github.com/jonathan/resume-forge/internal/types"
)

// BulletOverrun is one bullet longer than its fingerprint budget
type BulletOverrun struct {
	Entry  int `json:"entry"`
	Bullet int `json:"bullet"`
	Length int `json:"length"`
	Budget int `json:"budget"`
}

// Overruns reports where rendered content exceeds the fingerprint's budgets.
// Rendering never truncates; this is advisory only.
type Overruns struct {
	Bullets      []BulletOverrun `json:"bullets"`
	TotalChars   int             `json:"totalChars"`
	TotalBudget  int             `json:"totalBudget"`
	ExceedsTotal bool            `json:"exceedsTotal"`
}

// Any reports whether any budget was exceeded
func (o Overruns) Any() bool {
	return len(o.Bullets) > 0 || o.ExceedsTotal
}

// CheckBudgets compares experience bullets and the rendered text length
// against fp. A zero TotalCharBudget disables the total check.
func CheckBudgets(doc *types.ResumeDocument, fp types.TemplateFingerprint, sections []Section) Overruns {
	o := Overruns{
		Bullets:     []BulletOverrun{},
		TotalChars:  textLength(sections),
		TotalBudget: fp.TotalCharBudget,
	}
	o.ExceedsTotal = o.TotalBudget > 0 && o.TotalChars > o.TotalBudget

	for i, entry := range doc.Experience {
		budgets := fp.BudgetForEntry(i).BulletCharBudgets
		if len(budgets) == 0 {
			continue
		}
		for j, bullet := range nonBlank(entry.Bullets) {
			budget := budgets[len(budgets)-1]
			if j < len(budgets) {
				budget = budgets[j]
			}
			if n := utf8.RuneCountInString(bulletBody(bullet)); n > budget {
				o.Bullets = append(o.Bullets, BulletOverrun{Entry: i, Bullet: j, Length: n, Budget: budget})
			}
		}
	}
	return o
}
