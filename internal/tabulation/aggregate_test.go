package tabulation

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/sma-compliance-report/internal/models"
)

func TestAggregateIndicatorsCountsAndTraces(t *testing.T) {
	inds := indicators("First", "Second")
	syllabuses := []models.Syllabus{
		syllabus("Math", "Ana", models.PhaseFinal, sheet(inds, altYes.ID), sheet(inds, altNo.ID)),
		syllabus("Art", "Luis", models.PhaseFinal, sheet(inds, altPartially.ID)),
	}
	registry := NewRegistry(defaultAlternatives)

	agg := AggregateIndicators(models.PhaseFinal, inds, registry, syllabuses, DefaultVocabulary())

	require.Len(t, agg.Rows, 2)
	assert.Equal(t, 3, agg.TotalStudents)
	row := agg.Rows[0]
	assert.Equal(t, "1. First", row.Label)
	assert.Equal(t, [][]int{{1, 1, 0}, {0, 0, 1}}, row.SyllabusCounts)
	assert.Equal(t, []int{1, 1, 1}, row.Counts)
	assert.InDelta(t, 33.333, row.Percentages[0], 0.01)
	assert.Equal(t, []string{"1. First", "1 - 1 - 0", "0 - 0 - 1", "1", "1", "1", "33.33%", "33.33%", "33.33%"}, row.Cells())

	assert.True(t, agg.HasCompliance)
	assert.InDelta(t, 33.333, agg.VerticalCompliance, 0.01)
	assert.Zero(t, agg.Unmatched)
}

func TestAggregateIndicatorsIgnoresOtherPhaseAndSentinels(t *testing.T) {
	inds := indicators("Only")
	s := syllabus("Math", "Ana", models.PhaseMidpoint, sheet(inds, altYes.ID))
	s.Sheets[models.PhaseFinal.SheetIndex()] = []models.Sheet{sheet(inds, altNo.ID), sheet(inds, altNo.ID)}

	agg := AggregateIndicators(models.PhaseMidpoint, inds, NewRegistry(defaultAlternatives), []models.Syllabus{s}, DefaultVocabulary())

	assert.Equal(t, 1, agg.TotalStudents)
	assert.Equal(t, []int{1, 0, 0}, agg.Rows[0].Counts)
	assert.Equal(t, 100.0, agg.VerticalCompliance)
}

func TestAggregateIndicatorsCountsUnknownAlternatives(t *testing.T) {
	inds := indicators("Only")
	s := syllabus("Math", "Ana", models.PhaseFinal, sheet(inds, 77))

	agg := AggregateIndicators(models.PhaseFinal, inds, NewRegistry(defaultAlternatives), []models.Syllabus{s}, DefaultVocabulary())

	assert.Equal(t, []int{0, 0, 0}, agg.Rows[0].Counts)
	assert.Equal(t, 1, agg.Unmatched)
}

func TestAggregateIndicatorsWithoutAffirmativeAlternative(t *testing.T) {
	inds := indicators("Only")
	alternatives := []models.Alternative{{ID: 1, Description: "Low"}, {ID: 2, Description: "High"}}
	s := syllabus("Math", "Ana", models.PhaseFinal, sheet(inds, 1))

	agg := AggregateIndicators(models.PhaseFinal, inds, NewRegistry(alternatives), []models.Syllabus{s}, DefaultVocabulary())

	assert.False(t, agg.HasCompliance)
	assert.Zero(t, agg.VerticalCompliance)
}

func TestRollupDenominatorUsesIndicatorsTimesStudents(t *testing.T) {
	inds := indicators("One", "Two", "Three")
	registry := NewRegistry(defaultAlternatives)

	full := syllabus("Full", "Ana", models.PhaseFinal, sheet(inds, altYes.ID), sheet(inds, altYes.ID))
	half := syllabus("Half", "Luis", models.PhaseFinal, sheet(inds, altYes.ID), sheet(inds, altNo.ID))

	rollup := RollupSyllabuses(models.PhaseFinal, len(inds), registry, []models.Syllabus{full, half}, DefaultVocabulary())

	require.Len(t, rollup.Syllabuses, 2)
	assert.Equal(t, []int{6, 0, 0}, rollup.Syllabuses[0].Counts)
	assert.Equal(t, 100.0, rollup.Syllabuses[0].Percentages[0])
	assert.Equal(t, []int{3, 3, 0}, rollup.Syllabuses[1].Counts)
	assert.Equal(t, 50.0, rollup.Syllabuses[1].Percentages[0])
	assert.Equal(t, 50.0, rollup.Syllabuses[1].Percentages[1])
	assert.Equal(t, 75.0, rollup.Compliance)
	assert.Equal(t, []float64{100, 50}, rollup.Percentages(0))
	assert.True(t, rollup.DefaultTriple)
}

func TestRollupEmptySyllabusHasZeroPercentages(t *testing.T) {
	inds := indicators("One")
	empty := syllabus("Empty", "Ana", models.PhaseFinal)

	rollup := RollupSyllabuses(models.PhaseFinal, len(inds), NewRegistry(defaultAlternatives), []models.Syllabus{empty}, DefaultVocabulary())

	assert.Equal(t, []float64{0, 0, 0}, rollup.Syllabuses[0].Percentages)
	assert.Zero(t, rollup.Syllabuses[0].Students)
}

func TestTabulationIsIdempotent(t *testing.T) {
	period := allYesPeriod()
	engine := NewEngine(DefaultVocabulary())

	first, err := engine.Tabulate(period)
	require.NoError(t, err)
	second, err := engine.Tabulate(period)
	require.NoError(t, err)

	opts := cmp.Comparer(func(a, b func(float64) string) bool { return (a == nil) == (b == nil) })
	if diff := cmp.Diff(first, second, opts); diff != "" {
		t.Fatalf("second run differs (-first +second):\n%s", diff)
	}
}
