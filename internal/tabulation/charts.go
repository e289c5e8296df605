package tabulation

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/noah-isme/sma-compliance-report/internal/models"
	"github.com/noah-isme/sma-compliance-report/pkg/chart"
)

// ZeroPlaceholder replaces zero data points so their bars stay visible.
const ZeroPlaceholder = 0.3

const (
	longDenominationRunes = 20
	indicatorWrapWords    = 4

	chartWidth           = 900
	syllabusChartHeight  = 400
	indicatorChartHeight = 1300
	chartBackgroundColor = "white"
)

// FormatChartValue renders a bar label. The zero placeholder prints as
// 0.00% so the substitution never shows up in the chart text.
func FormatChartValue(v float64) string {
	if v == ZeroPlaceholder {
		return FormatPercent(0)
	}
	return FormatPercent(v)
}

func placeholder(v float64) float64 {
	if v == 0 {
		return ZeroPlaceholder
	}
	return v
}

// SplitLongLabel splits labels longer than limit characters into one word per line.
func SplitLongLabel(text string, limit int) []string {
	if utf8.RuneCountInString(text) > limit {
		return strings.Split(text, " ")
	}
	return []string{text}
}

// WrapWords groups the words of text into lines of at most width words.
// Texts shorter than width words stay on one line.
func WrapWords(text string, width int) []string {
	words := strings.Split(text, " ")
	if width <= 0 || len(words) < width {
		return []string{text}
	}
	lines := make([]string, 0, (len(words)+width-1)/width)
	for i := 0; i < len(words); i += width {
		end := i + width
		if end > len(words) {
			end = len(words)
		}
		lines = append(lines, strings.Join(words[i:end], " "))
	}
	return lines
}

// ChartSubtitle names the grade and parallel under the chart title.
func ChartSubtitle(grade models.Grade) string {
	return fmt.Sprintf("%s '%s'", models.GradeName(grade.Number), grade.Parallel)
}

// SyllabusChart plots one series per alternative with one bar per syllabus.
func SyllabusChart(phase models.Phase, grade models.Grade, alternatives []models.Alternative, rollup SyllabusRollup) chart.Spec {
	labels := make([][]string, 0, len(rollup.Syllabuses))
	for _, s := range rollup.Syllabuses {
		labels = append(labels, SplitLongLabel(s.Denomination, longDenominationRunes))
	}

	series := make([]chart.Series, 0, len(alternatives))
	for pos, a := range alternatives {
		values := rollup.Percentages(pos)
		for i := range values {
			values[i] = placeholder(values[i])
		}
		series = append(series, chart.Series{Label: a.Description, Values: values})
	}

	title := fmt.Sprintf("Resumen de cumplimiento por Asignatura a %s de periodo", phase.DisplayName())
	return newSpec(title, grade, labels, series, syllabusChartHeight)
}

// IndicatorChart plots one series per alternative with one bar per indicator.
func IndicatorChart(phase models.Phase, grade models.Grade, alternatives []models.Alternative, indicators IndicatorAggregate) chart.Spec {
	data := indicators.ChartSeries()
	labels := make([][]string, 0, len(data))
	series := make([]chart.Series, len(alternatives))
	for pos, a := range alternatives {
		series[pos] = chart.Series{Label: a.Description, Values: make([]float64, 0, len(data))}
	}
	for _, ind := range data {
		labels = append(labels, WrapWords(ind.Label, indicatorWrapWords))
		for pos := range series {
			series[pos].Values = append(series[pos].Values, placeholder(ind.Values[pos]))
		}
	}

	title := fmt.Sprintf("Resumen de cumplimiento por Indicador a %s de periodo", phase.DisplayName())
	return newSpec(title, grade, labels, series, indicatorChartHeight)
}

func newSpec(title string, grade models.Grade, labels [][]string, series []chart.Series, height int) chart.Spec {
	return chart.Spec{
		Type:            chart.TypeHorizontalBar,
		Title:           []string{title, ChartSubtitle(grade)},
		Labels:          labels,
		Series:          series,
		Width:           chartWidth,
		Height:          height,
		BackgroundColor: chartBackgroundColor,
		ValueFormatter:  FormatChartValue,
	}
}
