package service

import (
	"fmt"

	"github.com/noah-isme/sma-compliance-report/internal/models"
	"github.com/noah-isme/sma-compliance-report/internal/tabulation"
	"github.com/noah-isme/sma-compliance-report/pkg/export"
)

// Embedded chart sizes in pixels.
const (
	syllabusImageWidth   = 630
	syllabusImageHeight  = 400
	indicatorImageWidth  = 630
	indicatorImageHeight = 800
	gradeTitleFontSize   = 24
)

// gradeCharts holds the rendered PNGs of one grade. Both are nil for formats
// that carry no images.
type gradeCharts struct {
	syllabus  []byte
	indicator []byte
}

// appendGrade adds one grade section: title, table, then the two charts.
// Grades after the first start on a new page.
func appendGrade(b *export.DocumentBuilder, index int, report tabulation.GradeReport, charts gradeCharts) {
	if index > 0 {
		b.PageBreak()
	}
	b.Paragraph(export.Paragraph{
		Text:      report.Title,
		Bold:      true,
		FontSize:  gradeTitleFontSize,
		Alignment: export.AlignCenter,
	})
	b.Table(report.Table)
	if charts.syllabus != nil {
		b.Image(export.Image{
			Name:   fmt.Sprintf("grade-%d-syllabus", index),
			PNG:    charts.syllabus,
			Width:  syllabusImageWidth,
			Height: syllabusImageHeight,
		})
	}
	if charts.indicator != nil {
		b.Image(export.Image{
			Name:   fmt.Sprintf("grade-%d-indicator", index),
			PNG:    charts.indicator,
			Width:  indicatorImageWidth,
			Height: indicatorImageHeight,
		})
	}
}

// documentTitle names the document after the stage and degree.
func documentTitle(period models.Period) string {
	return fmt.Sprintf("%s - %s", tabulation.TableTitle(period.Phase), period.Degree)
}
