package tabulation

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/sma-compliance-report/internal/models"
)

func TestTabulateAllAffirmative(t *testing.T) {
	period := allYesPeriod()

	reports, err := NewEngine(DefaultVocabulary()).Tabulate(period)
	require.NoError(t, err)
	require.Len(t, reports, 1)

	report := reports[0]
	assert.Equal(t, "Séptimo Ciclo 'A'", report.Title)
	assert.Equal(t, 100.0, report.Indicators.VerticalCompliance)
	assert.Equal(t, 100.0, report.Rollup.Compliance)

	rows := report.Table.Rows
	require.Len(t, rows, 4+2+3+3)

	texts := func(r int) []string {
		out := make([]string, 0, len(rows[r].Cells))
		for _, c := range rows[r].Cells {
			out = append(out, c.Text)
		}
		return out
	}

	assert.Equal(t, []string{"1. Presents the syllabus", "2 - 0 - 0", "2 - 0 - 0", "4", "0", "0", "100.00%", "0.00%", "0.00%"}, texts(4))
	assert.Equal(t, []string{"YES", "4", "4", LabelTotalItems, "100.00%"}, texts(6))
	assert.Equal(t, []string{"NO", "0", "0", LabelTotalCompliance}, texts(7))
	assert.Equal(t, []string{"PARTIALLY", "0", "0"}, texts(8))
	assert.Equal(t, []string{"YES", "100.00%", "100.00%", LabelTotalPercentage, "100.00%"}, texts(9))
	assert.Equal(t, []string{"NO", "0.00%", "0.00%"}, texts(10))
}

func TestTabulateKeepsGradeOrder(t *testing.T) {
	period := allYesPeriod()
	second := period.Grades[0]
	second.Number = 2
	second.Parallel = "B"
	period.Grades = append(period.Grades, second)

	reports, err := NewEngine(DefaultVocabulary()).Tabulate(period)
	require.NoError(t, err)
	require.Len(t, reports, 2)
	assert.Equal(t, 7, reports[0].Number)
	assert.Equal(t, "Segundo Ciclo 'B'", reports[1].Title)
}

func TestTabulateFinalPhaseWithEmptyBucket(t *testing.T) {
	period := allYesPeriod()
	period.Phase = models.PhaseFinal

	reports, err := NewEngine(DefaultVocabulary()).Tabulate(period)
	require.NoError(t, err)
	assert.Zero(t, reports[0].Indicators.TotalStudents)
	assert.Equal(t, "0.00%", reports[0].Table.Rows[9].Cells[1].Text)
}

func TestGradeReportCountsUnknownAlternativeOnce(t *testing.T) {
	period := allYesPeriod()
	grade := period.Grades[0]
	grade.Syllabuses[0].Sheets[0][0] = sheet(period.Indicators[:1], 77)

	report, err := NewEngine(DefaultVocabulary()).TabulateGrade(period, grade)
	require.NoError(t, err)
	assert.Equal(t, 1, report.UnmatchedVotes())
}

func TestTabulateGradeIsSafeForConcurrentUse(t *testing.T) {
	engine := NewEngine(DefaultVocabulary())
	full := allYesPeriod()

	mixed := allYesPeriod()
	inds := mixed.Indicators
	mixed.Grades[0].Syllabuses = []models.Syllabus{
		syllabus("Networks", "Vint", models.PhaseMidpoint, sheet(inds, altNo.ID), sheet(inds, altYes.ID)),
	}

	want := map[int]float64{0: 100, 1: 50}
	var wg sync.WaitGroup
	results := make([][]float64, 2)
	for i, period := range []models.Period{full, mixed} {
		results[i] = make([]float64, 50)
		for n := 0; n < 50; n++ {
			wg.Add(1)
			go func(i, n int, period models.Period) {
				defer wg.Done()
				report, err := engine.TabulateGrade(period, period.Grades[0])
				if err == nil {
					results[i][n] = report.Indicators.VerticalCompliance
				}
			}(i, n, period)
		}
	}
	wg.Wait()

	for i, got := range results {
		for _, v := range got {
			assert.Equal(t, want[i], v)
		}
	}
}
