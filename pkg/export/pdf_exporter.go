package export

import (
	"bytes"
	"fmt"

	"github.com/jung-kurt/gofpdf"
)

const (
	pageMarginMM  = 10.0
	pageTopMM     = 15.0
	cellPaddingMM = 1.0
	defaultFontHP = 20
	// pixels are laid out at 96 dpi
	mmPerPixel = 25.4 / 96
)

// PDFExporter renders documents into A4 portrait PDFs.
type PDFExporter struct {
	fontFamily string
}

// NewPDFExporter constructs a PDF exporter.
func NewPDFExporter() *PDFExporter {
	return &PDFExporter{fontFamily: "Arial"}
}

// Render lays out every block of the document in order.
func (e *PDFExporter) Render(doc Document) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(pageMarginMM, pageTopMM, pageMarginMM)
	pdf.SetAutoPageBreak(true, pageTopMM)
	if doc.Title != "" {
		pdf.SetTitle(doc.Title, true)
	}
	pdf.AddPage()

	w := &pdfWriter{pdf: pdf, tr: pdf.UnicodeTranslatorFromDescriptor(""), family: e.fontFamily}
	for i, block := range doc.Blocks {
		var err error
		switch b := block.(type) {
		case Paragraph:
			w.paragraph(b)
		case TableBlock:
			err = w.table(b.Table)
		case Image:
			err = w.image(i, b)
		case PageBreak:
			pdf.AddPage()
		default:
			err = fmt.Errorf("unsupported block %T", block)
		}
		if err != nil {
			return nil, fmt.Errorf("render block %d: %w", i, err)
		}
		if err := pdf.Error(); err != nil {
			return nil, fmt.Errorf("render block %d: %w", i, err)
		}
	}

	buf := &bytes.Buffer{}
	if err := pdf.Output(buf); err != nil {
		return nil, fmt.Errorf("render pdf: %w", err)
	}
	return buf.Bytes(), nil
}

type pdfWriter struct {
	pdf    *gofpdf.Fpdf
	tr     func(string) string
	family string
}

// setFont takes sizes in half-points.
func (w *pdfWriter) setFont(bold bool, halfPoints int) float64 {
	if halfPoints <= 0 {
		halfPoints = defaultFontHP
	}
	style := ""
	if bold {
		style = "B"
	}
	size := float64(halfPoints) / 2
	w.pdf.SetFont(w.family, style, size)
	_, unit := w.pdf.GetFontSize()
	return unit * 1.3
}

func (w *pdfWriter) paragraph(p Paragraph) {
	lineH := w.setFont(p.Bold, p.FontSize)
	w.pdf.MultiCell(0, lineH, w.tr(p.Text), "", alignCode(p.Alignment), false)
	w.pdf.Ln(lineH / 2)
}

func (w *pdfWriter) image(index int, img Image) error {
	name := img.Name
	if name == "" {
		name = fmt.Sprintf("image-%d", index)
	}
	opts := gofpdf.ImageOptions{ImageType: "PNG", ReadDpi: false}
	info := w.pdf.RegisterImageOptionsReader(name, opts, bytes.NewReader(img.PNG))
	if info == nil {
		return fmt.Errorf("register image %s: %w", name, w.pdf.Error())
	}
	width := float64(img.Width) * mmPerPixel
	height := float64(img.Height) * mmPerPixel
	pageW, _ := w.pdf.GetPageSize()
	if maxW := pageW - 2*pageMarginMM; width > maxW {
		height *= maxW / width
		width = maxW
	}
	x := (pageW - width) / 2
	w.pdf.ImageOptions(name, x, -1, width, height, true, opts, 0, "")
	return nil
}

// table draws the grid cell by cell. Row heights come from the cells that
// start and end on the row; spanning cells stretch over the rows they cover.
func (w *pdfWriter) table(t Table) error {
	placed, err := t.Place()
	if err != nil {
		return err
	}
	pageW, pageH := w.pdf.GetPageSize()
	usable := pageW - 2*pageMarginMM
	widths := scaleWidths(t.ColumnWidths, usable)

	heights := make([]float64, len(t.Rows))
	for i := range heights {
		heights[i] = w.setFont(false, defaultFontHP) + 2*cellPaddingMM
	}
	for _, pc := range placed {
		if pc.Cell.Rows() != 1 {
			continue
		}
		if h := w.cellHeight(pc.Cell, spanWidth(widths, pc.Column, pc.Cell.Cols())); h > heights[pc.Row] {
			heights[pc.Row] = h
		}
	}

	// rows can only start a new page where no row span crosses into them
	breakable := make([]bool, len(t.Rows))
	open := make([]int, len(t.Rows)+1)
	for _, pc := range placed {
		for r := pc.Row + 1; r < pc.Row+pc.Cell.Rows() && r < len(t.Rows); r++ {
			open[r]++
		}
	}
	for i := range breakable {
		breakable[i] = open[i] == 0
	}

	byRow := make([][]PlacedCell, len(t.Rows))
	for _, pc := range placed {
		byRow[pc.Row] = append(byRow[pc.Row], pc)
	}

	w.pdf.SetAutoPageBreak(false, pageTopMM)
	defer w.pdf.SetAutoPageBreak(true, pageTopMM)

	y := w.pdf.GetY()
	bottom := pageH - pageTopMM
	for i, h := range heights {
		if breakable[i] && y+blockHeight(heights, breakable, i) > bottom && y > pageTopMM {
			w.pdf.AddPage()
			y = w.pdf.GetY()
		}
		for _, pc := range byRow[i] {
			x := pageMarginMM + spanWidth(widths, 0, pc.Column)
			cw := spanWidth(widths, pc.Column, pc.Cell.Cols())
			ch := 0.0
			for r := pc.Row; r < pc.Row+pc.Cell.Rows(); r++ {
				ch += heights[r]
			}
			w.drawCell(pc.Cell, x, y, cw, ch)
		}
		y += h
	}
	w.pdf.SetXY(pageMarginMM, y)
	w.pdf.Ln(4)
	return nil
}

// blockHeight is the height of row i plus every following row bound to it by spans.
func blockHeight(heights []float64, breakable []bool, i int) float64 {
	h := heights[i]
	for j := i + 1; j < len(heights) && !breakable[j]; j++ {
		h += heights[j]
	}
	return h
}

func (w *pdfWriter) cellHeight(c Cell, width float64) float64 {
	lineH := w.setFont(c.Bold, c.FontSize)
	lines := w.pdf.SplitLines([]byte(w.tr(c.Text)), width-2*cellPaddingMM)
	n := len(lines)
	if n == 0 {
		n = 1
	}
	return float64(n)*lineH + 2*cellPaddingMM
}

func (w *pdfWriter) drawCell(c Cell, x, y, width, height float64) {
	w.pdf.Rect(x, y, width, height, "D")
	if c.Text == "" {
		return
	}
	lineH := w.setFont(c.Bold, c.FontSize)
	text := w.tr(c.Text)
	lines := w.pdf.SplitLines([]byte(text), width-2*cellPaddingMM)
	textH := float64(len(lines)) * lineH
	w.pdf.SetXY(x+cellPaddingMM, y+(height-textH)/2)
	w.pdf.MultiCell(width-2*cellPaddingMM, lineH, text, "", alignCode(c.Alignment), false)
}

func alignCode(a Alignment) string {
	switch a {
	case AlignLeft:
		return "L"
	case AlignJustified:
		return "J"
	default:
		return "C"
	}
}

func scaleWidths(widths []float64, total float64) []float64 {
	sum := 0.0
	for _, w := range widths {
		sum += w
	}
	out := make([]float64, len(widths))
	for i, w := range widths {
		if sum > 0 {
			out[i] = w / sum * total
		} else {
			out[i] = total / float64(len(widths))
		}
	}
	return out
}

func spanWidth(widths []float64, from, span int) float64 {
	total := 0.0
	for i := from; i < from+span && i < len(widths); i++ {
		total += widths[i]
	}
	return total
}
