package tabulation

import (
	"github.com/noah-isme/sma-compliance-report/internal/models"
	"github.com/noah-isme/sma-compliance-report/pkg/export"
)

// SyllabusTotals is the rollup of one syllabus across every indicator.
type SyllabusTotals struct {
	Denomination string    `json:"denomination"`
	TeacherName  string    `json:"teacherName"`
	Students     int       `json:"students"`
	Counts       []int     `json:"counts"`
	Percentages  []float64 `json:"percentages"`
}

// SyllabusRollup is the output of RollupSyllabuses.
type SyllabusRollup struct {
	Syllabuses     []SyllabusTotals `json:"syllabuses"`
	IndicatorCount int              `json:"indicatorCount"`
	DefaultTriple  bool             `json:"defaultTriple"`
	// Compliance is the mean affirmative percentage across syllabuses.
	Compliance float64 `json:"compliance"`
	Unmatched  int     `json:"unmatched"`
}

// RollupSyllabuses tallies, per syllabus, every non-sentinel answer of the
// active phase by alternative. Each student answers each indicator once, so
// percentages divide by indicatorCount × the syllabus's own student count.
func RollupSyllabuses(phase models.Phase, indicatorCount int, registry *Registry, syllabuses []models.Syllabus, vocab Vocabulary) SyllabusRollup {
	rollup := SyllabusRollup{
		Syllabuses:     make([]SyllabusTotals, 0, len(syllabuses)),
		IndicatorCount: indicatorCount,
		DefaultTriple:  vocab.IsDefaultTriple(registry.Alternatives()),
	}

	affirmativeTotal := 0.0
	for _, s := range syllabuses {
		tally := registry.NewTally()
		for _, sheet := range s.SheetsFor(phase) {
			for _, answer := range sheet.Answers {
				if scored, ok := answer.(models.ScoredAnswer); ok {
					tally.Increment(scored.AlternativeID)
				}
			}
		}

		totals := SyllabusTotals{
			Denomination: s.Denomination,
			TeacherName:  s.TeacherName,
			Students:     s.StudentCount(phase),
			Counts:       tally.Counts(),
		}
		denominator := indicatorCount * totals.Students
		totals.Percentages = make([]float64, len(totals.Counts))
		for i, count := range totals.Counts {
			totals.Percentages[i] = percentage(count, denominator)
			if vocab.IsAffirmative(registry.Alternatives()[i].Description) {
				affirmativeTotal += totals.Percentages[i]
			}
		}
		rollup.Unmatched += tally.Unmatched()
		rollup.Syllabuses = append(rollup.Syllabuses, totals)
	}

	if len(rollup.Syllabuses) > 0 {
		rollup.Compliance = affirmativeTotal / float64(len(rollup.Syllabuses))
	}
	return rollup
}

// Percentages returns, per alternative position, the percentage of every syllabus.
func (r SyllabusRollup) Percentages(position int) []float64 {
	out := make([]float64, len(r.Syllabuses))
	for i, s := range r.Syllabuses {
		out[i] = s.Percentages[position]
	}
	return out
}

// Summary label spans. The items block spans three summary rows; the
// compliance label spans the remaining two.
const (
	summaryLabelColumns    = 3
	totalItemsRowSpan      = 3
	totalComplianceRowSpan = 2
	totalPercentRowSpan    = 3
	summaryBlockRows       = 3
)

// TotalItemsCells are appended to the first count-summary row when the
// alternatives are the default triple. The value is the indicator
// aggregator's vertical compliance percentage.
func TotalItemsCells(verticalCompliance float64) []export.Cell {
	return []export.Cell{
		{Text: LabelTotalItems, Bold: true, RowSpan: totalItemsRowSpan, ColumnSpan: summaryLabelColumns},
		{Text: FormatPercent(verticalCompliance), Bold: true, ColumnSpan: summaryLabelColumns},
	}
}

// TotalComplianceCells are appended to the second count-summary row.
func TotalComplianceCells() []export.Cell {
	return []export.Cell{
		{Text: LabelTotalCompliance, Bold: true, RowSpan: totalComplianceRowSpan, ColumnSpan: summaryLabelColumns},
	}
}

// TotalPercentageCells are appended to the first percentage-summary row.
func (r SyllabusRollup) TotalPercentageCells() []export.Cell {
	return []export.Cell{
		{Text: LabelTotalPercentage, Bold: true, RowSpan: totalPercentRowSpan, ColumnSpan: summaryLabelColumns},
		{Text: FormatPercent(r.Compliance), Bold: true, RowSpan: totalPercentRowSpan, ColumnSpan: summaryLabelColumns},
	}
}
