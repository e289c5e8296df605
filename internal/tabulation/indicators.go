package tabulation

import (
	"fmt"

	"github.com/noah-isme/sma-compliance-report/internal/models"
)

// IndicatorRow is the tabulation of one indicator across a grade.
type IndicatorRow struct {
	IndicatorID int    `json:"indicatorId"`
	Label       string `json:"label"`
	// SyllabusCounts holds, per syllabus, the counts per alternative.
	SyllabusCounts [][]int   `json:"syllabusCounts"`
	Counts         []int     `json:"counts"`
	Percentages    []float64 `json:"percentages"`
}

// IndicatorSeries is an indicator reshaped for charting.
type IndicatorSeries struct {
	Label  string    `json:"label"`
	Values []float64 `json:"values"`
}

// IndicatorAggregate is the output of AggregateIndicators.
type IndicatorAggregate struct {
	Rows          []IndicatorRow `json:"rows"`
	TotalStudents int            `json:"totalStudents"`
	// VerticalCompliance is the mean affirmative percentage across
	// indicators; it is only meaningful when HasCompliance is set.
	VerticalCompliance float64 `json:"verticalCompliance"`
	HasCompliance      bool    `json:"hasCompliance"`
	Unmatched          int     `json:"unmatched"`
}

// IndicatorLabel renders the ordinal label of an indicator.
func IndicatorLabel(ind models.Indicator) string {
	return fmt.Sprintf("%d. %s", ind.Position, ind.Description)
}

// AggregateIndicators tallies, for each indicator in order, the votes per
// alternative over every sheet of the active phase. Percentages divide by the
// number of students of the whole grade.
func AggregateIndicators(phase models.Phase, indicators []models.Indicator, registry *Registry, syllabuses []models.Syllabus, vocab Vocabulary) IndicatorAggregate {
	agg := IndicatorAggregate{
		Rows: make([]IndicatorRow, 0, len(indicators)),
	}
	for _, s := range syllabuses {
		agg.TotalStudents += s.StudentCount(phase)
	}

	affirmative := make([]bool, registry.Len())
	for i, a := range registry.Alternatives() {
		affirmative[i] = vocab.IsAffirmative(a.Description)
		agg.HasCompliance = agg.HasCompliance || affirmative[i]
	}

	total := 0.0
	for _, ind := range indicators {
		overall := registry.NewTally()
		row := IndicatorRow{
			IndicatorID:    ind.ID,
			Label:          IndicatorLabel(ind),
			SyllabusCounts: make([][]int, 0, len(syllabuses)),
		}

		for _, s := range syllabuses {
			bySyllabus := registry.NewTally()
			for _, sheet := range s.SheetsFor(phase) {
				for _, answer := range sheet.Answers {
					scored, ok := answer.(models.ScoredAnswer)
					if !ok || scored.QuestionID != ind.ID {
						continue
					}
					overall.Increment(scored.AlternativeID)
					bySyllabus.Increment(scored.AlternativeID)
				}
			}
			row.SyllabusCounts = append(row.SyllabusCounts, bySyllabus.Counts())
		}

		row.Counts = overall.Counts()
		row.Percentages = make([]float64, len(row.Counts))
		for i, count := range row.Counts {
			pct := percentage(count, agg.TotalStudents)
			row.Percentages[i] = pct
			if affirmative[i] {
				total += pct
			}
		}
		agg.Unmatched += overall.Unmatched()
		agg.Rows = append(agg.Rows, row)
	}

	if agg.HasCompliance && len(indicators) > 0 {
		agg.VerticalCompliance = total / float64(len(indicators))
	}
	return agg
}

// ChartSeries reshapes the rows as one labelled value list per indicator.
func (a IndicatorAggregate) ChartSeries() []IndicatorSeries {
	out := make([]IndicatorSeries, 0, len(a.Rows))
	for _, row := range a.Rows {
		values := make([]float64, len(row.Percentages))
		copy(values, row.Percentages)
		out = append(out, IndicatorSeries{Label: row.Label, Values: values})
	}
	return out
}

// Cells renders the row as label, per-syllabus trace, raw counts and percentages.
func (r IndicatorRow) Cells() []string {
	cells := make([]string, 0, 1+len(r.SyllabusCounts)+2*len(r.Counts))
	cells = append(cells, r.Label)
	for _, counts := range r.SyllabusCounts {
		cells = append(cells, formatTrace(counts))
	}
	for _, c := range r.Counts {
		cells = append(cells, fmt.Sprintf("%d", c))
	}
	for _, p := range r.Percentages {
		cells = append(cells, FormatPercent(p))
	}
	return cells
}
