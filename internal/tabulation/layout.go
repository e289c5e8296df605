package tabulation

import (
	"fmt"

	"github.com/noah-isme/sma-compliance-report/internal/models"
	"github.com/noah-isme/sma-compliance-report/pkg/export"
)

// Table labels.
const (
	LabelItems           = "ITEMS"
	LabelPercentage      = "PORCENTAJE"
	LabelIndicators      = "INDICADORES"
	LabelTotalItems      = "TOTAL ITEMS"
	LabelTotalCompliance = "TOTAL CUMPLIMIENTO"
	LabelTotalPercentage = "PORCENTAJE TOTAL"
)

const (
	headerFontSize    = 16
	indicatorFontSize = 18

	// Column widths follow the usable width of an A4 page in twips.
	pageWidthUnits      = 9638.0
	indicatorWidthUnits = 2838.0
)

// TableTitle is the stage-qualified title of every grade table.
func TableTitle(phase models.Phase) string {
	return fmt.Sprintf("APLICACIÓN A %s DEL PERÍODO ACADÉMICO", phase.ShortName())
}

// ColumnCount is the width of a grade table: the indicator column, one
// column per syllabus, and the ITEMS and PORCENTAJE blocks.
func ColumnCount(syllabusCount, alternativeCount int) int {
	return alternativeCount*2 + syllabusCount + 1
}

// ColumnWidths gives the indicator column a fixed share and splits the rest
// evenly across the remaining columns.
func ColumnWidths(syllabusCount, alternativeCount int) []float64 {
	rest := syllabusCount + alternativeCount*2
	widths := make([]float64, 0, rest+1)
	widths = append(widths, indicatorWidthUnits)
	if rest == 0 {
		return widths
	}
	each := (pageWidthUnits - indicatorWidthUnits) / float64(rest)
	for i := 0; i < rest; i++ {
		widths = append(widths, each)
	}
	return widths
}

// BuildGradeTable lays out the compliance table of one grade. Every row is
// validated against the table width as it is appended.
func BuildGradeTable(phase models.Phase, grade models.Grade, alternatives []models.Alternative, indicators IndicatorAggregate, rollup SyllabusRollup) (export.Table, error) {
	syllabusCount := len(grade.Syllabuses)
	alternativeCount := len(alternatives)
	columns := ColumnCount(syllabusCount, alternativeCount)
	b := export.NewTableBuilder(columns)

	rows := [][]export.Cell{
		titleRow(phase, columns),
		syllabusRow(grade, alternativeCount),
		teacherRow(grade, alternatives),
		parallelRow(grade, alternativeCount),
	}
	for _, row := range indicators.Rows {
		rows = append(rows, indicatorRow(row))
	}
	rows = append(rows, countSummaryRows(alternatives, indicators, rollup)...)
	rows = append(rows, percentageSummaryRows(alternatives, rollup)...)

	for i, cells := range rows {
		if err := b.AddRow(cells...); err != nil {
			return export.Table{}, fmt.Errorf("grade %d%s row %d: %w", grade.Number, grade.Parallel, i, err)
		}
	}
	return b.Build(ColumnWidths(syllabusCount, alternativeCount))
}

func titleRow(phase models.Phase, columns int) []export.Cell {
	return []export.Cell{{Text: TableTitle(phase), Bold: true, ColumnSpan: columns}}
}

func syllabusRow(grade models.Grade, alternativeCount int) []export.Cell {
	cells := []export.Cell{{Text: models.GradeName(grade.Number) + " Ciclo", Bold: true, RowSpan: 2}}
	for _, s := range grade.Syllabuses {
		cells = append(cells, header(s.Denomination))
	}
	items := header(LabelItems)
	items.ColumnSpan = alternativeCount
	pct := header(LabelPercentage)
	pct.ColumnSpan = alternativeCount
	return append(cells, items, pct)
}

// teacherRow starts at the second column: the grade cycle cell above spans two rows.
func teacherRow(grade models.Grade, alternatives []models.Alternative) []export.Cell {
	cells := make([]export.Cell, 0, len(grade.Syllabuses)+2*len(alternatives))
	for _, s := range grade.Syllabuses {
		cells = append(cells, header(s.TeacherName))
	}
	for i := 0; i < 2; i++ {
		for _, a := range alternatives {
			cells = append(cells, header(a.Description))
		}
	}
	return cells
}

func parallelRow(grade models.Grade, alternativeCount int) []export.Cell {
	cells := []export.Cell{
		{Text: LabelIndicators, Bold: true},
		{Text: "PARALELO " + grade.Parallel, Bold: true, ColumnSpan: len(grade.Syllabuses)},
	}
	for i := 0; i < alternativeCount*2; i++ {
		cells = append(cells, export.Cell{})
	}
	return cells
}

func indicatorRow(row IndicatorRow) []export.Cell {
	texts := row.Cells()
	cells := make([]export.Cell, len(texts))
	percentFrom := len(texts) - len(row.Percentages)
	for i, text := range texts {
		cell := export.Cell{Text: text, FontSize: indicatorFontSize}
		if i >= percentFrom {
			cell.Bold = true
		}
		if i == 0 {
			cell.Alignment = export.AlignJustified
		}
		cells[i] = cell
	}
	return cells
}

func countSummaryRows(alternatives []models.Alternative, indicators IndicatorAggregate, rollup SyllabusRollup) [][]export.Cell {
	rows := make([][]export.Cell, 0, len(alternatives))
	for pos, a := range alternatives {
		cells := []export.Cell{{Text: a.Description, Bold: true}}
		for _, s := range rollup.Syllabuses {
			cells = append(cells, export.Cell{Text: fmt.Sprintf("%d", s.Counts[pos]), Bold: true})
		}
		cells = append(cells, summaryTail(pos, len(alternatives), rollup.DefaultTriple, func(pos int) []export.Cell {
			switch pos {
			case 0:
				return TotalItemsCells(indicators.VerticalCompliance)
			case 1:
				return TotalComplianceCells()
			}
			return nil
		})...)
		rows = append(rows, cells)
	}
	return rows
}

func percentageSummaryRows(alternatives []models.Alternative, rollup SyllabusRollup) [][]export.Cell {
	rows := make([][]export.Cell, 0, len(alternatives))
	for pos, a := range alternatives {
		cells := []export.Cell{{Text: a.Description, Bold: true}}
		for _, s := range rollup.Syllabuses {
			cells = append(cells, export.Cell{Text: FormatPercent(s.Percentages[pos]), Bold: true})
		}
		cells = append(cells, summaryTail(pos, len(alternatives), rollup.DefaultTriple, func(pos int) []export.Cell {
			if pos == 0 {
				return rollup.TotalPercentageCells()
			}
			return nil
		})...)
		rows = append(rows, cells)
	}
	return rows
}

// summaryTail fills the ITEMS/PORCENTAJE columns of a summary row: the total
// cells for the default triple, or one blank filler cell otherwise.
func summaryTail(pos, alternativeCount int, defaultTriple bool, totals func(int) []export.Cell) []export.Cell {
	if defaultTriple && alternativeCount == summaryBlockRows {
		return totals(pos)
	}
	if alternativeCount == 0 {
		return nil
	}
	return []export.Cell{{ColumnSpan: alternativeCount * 2}}
}

func header(text string) export.Cell {
	return export.Cell{Text: text, Bold: true, FontSize: headerFontSize}
}
