package tabulation

import "github.com/noah-isme/sma-compliance-report/internal/models"

var (
	altYes       = models.Alternative{ID: 1, Description: "YES"}
	altNo        = models.Alternative{ID: 2, Description: "NO"}
	altPartially = models.Alternative{ID: 3, Description: "PARTIALLY"}

	defaultAlternatives = []models.Alternative{altYes, altNo, altPartially}
)

func indicators(descriptions ...string) []models.Indicator {
	out := make([]models.Indicator, len(descriptions))
	for i, d := range descriptions {
		out[i] = models.Indicator{ID: 100 + i, Description: d, Position: i + 1}
	}
	return out
}

// sheet answers every listed indicator with the same alternative.
func sheet(inds []models.Indicator, alternativeID int) models.Sheet {
	answers := make([]models.Answer, 0, len(inds)+1)
	for _, ind := range inds {
		answers = append(answers, models.ScoredAnswer{QuestionID: ind.ID, AlternativeID: alternativeID})
	}
	answers = append(answers, models.SentinelAnswer{})
	return models.Sheet{Answers: answers}
}

func syllabus(denomination, teacher string, phase models.Phase, sheets ...models.Sheet) models.Syllabus {
	s := models.Syllabus{Denomination: denomination, TeacherName: teacher}
	s.Sheets[phase.SheetIndex()] = sheets
	return s
}

// allYesPeriod is one grade, two syllabuses with two students each, two
// indicators, and every answer affirmative.
func allYesPeriod() models.Period {
	inds := indicators("Presents the syllabus", "Covers every unit")
	grade := models.Grade{
		Number:   7,
		Parallel: "A",
		Syllabuses: []models.Syllabus{
			syllabus("Programming", "Ada", models.PhaseMidpoint, sheet(inds, altYes.ID), sheet(inds, altYes.ID)),
			syllabus("Databases", "Edgar", models.PhaseMidpoint, sheet(inds, altYes.ID), sheet(inds, altYes.ID)),
		},
	}
	return models.Period{
		Stage:        "Mitad de Ciclo",
		Phase:        models.PhaseMidpoint,
		Degree:       "Computing",
		InitDate:     "2020-10-01",
		Indicators:   inds,
		Alternatives: defaultAlternatives,
		Grades:       []models.Grade{grade},
	}
}
