// Package tabulation turns evaluation periods into compliance aggregates,
// table layouts and chart specifications.
package tabulation

import (
	"fmt"

	"github.com/noah-isme/sma-compliance-report/internal/models"
	"github.com/noah-isme/sma-compliance-report/pkg/chart"
	"github.com/noah-isme/sma-compliance-report/pkg/export"
)

// GradeReport is everything needed to render one grade section.
type GradeReport struct {
	Number         int                `json:"number"`
	Parallel       string             `json:"parallel"`
	Title          string             `json:"title"`
	Indicators     IndicatorAggregate `json:"indicators"`
	Rollup         SyllabusRollup     `json:"rollup"`
	Table          export.Table       `json:"table"`
	SyllabusChart  chart.Spec         `json:"syllabusChart"`
	IndicatorChart chart.Spec         `json:"indicatorChart"`
}

// UnmatchedVotes counts the answers of the grade that named an unknown
// alternative. The rollup sees every scored answer, so it is the only axis
// counted; the indicator axis sees the same answers again.
func (g GradeReport) UnmatchedVotes() int {
	return g.Rollup.Unmatched
}

// Engine tabulates periods with a fixed vocabulary. It keeps no per-request
// state and is safe for concurrent use.
type Engine struct {
	vocab Vocabulary
}

// NewEngine constructs an engine.
func NewEngine(vocab Vocabulary) *Engine {
	return &Engine{vocab: vocab}
}

// GradeTitle is the heading placed above a grade section.
func GradeTitle(grade models.Grade) string {
	return fmt.Sprintf("%s Ciclo '%s'", models.GradeName(grade.Number), grade.Parallel)
}

// TabulateGrade runs both aggregators over one grade and lays out its table
// and charts. The vertical compliance percentage flows from the indicator
// aggregate into the table as a plain value.
func (e *Engine) TabulateGrade(period models.Period, grade models.Grade) (GradeReport, error) {
	registry := NewRegistry(period.Alternatives)

	indicators := AggregateIndicators(period.Phase, period.Indicators, registry, grade.Syllabuses, e.vocab)
	rollup := RollupSyllabuses(period.Phase, len(period.Indicators), registry, grade.Syllabuses, e.vocab)

	table, err := BuildGradeTable(period.Phase, grade, period.Alternatives, indicators, rollup)
	if err != nil {
		return GradeReport{}, err
	}

	return GradeReport{
		Number:         grade.Number,
		Parallel:       grade.Parallel,
		Title:          GradeTitle(grade),
		Indicators:     indicators,
		Rollup:         rollup,
		Table:          table,
		SyllabusChart:  SyllabusChart(period.Phase, grade, period.Alternatives, rollup),
		IndicatorChart: IndicatorChart(period.Phase, grade, period.Alternatives, indicators),
	}, nil
}

// Tabulate processes every grade in input order.
func (e *Engine) Tabulate(period models.Period) ([]GradeReport, error) {
	reports := make([]GradeReport, 0, len(period.Grades))
	for _, grade := range period.Grades {
		report, err := e.TabulateGrade(period, grade)
		if err != nil {
			return nil, err
		}
		reports = append(reports, report)
	}
	return reports, nil
}
