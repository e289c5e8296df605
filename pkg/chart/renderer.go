package chart

import (
	"bytes"
	"context"
	"fmt"
	"image/color"
	"strconv"
	"strings"

	"golang.org/x/image/colornames"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/text"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"
)

// Sizes are in points; the canvas uses 72 dpi so one point is one pixel.
const (
	canvasDPI = 72
	titleSize = 14
	labelSize = 10
	valueSize = 9
	// share of the canvas height given to bars
	barFill = 0.6
)

var palette = []color.RGBA{
	{R: 54, G: 162, B: 235, A: 255},
	{R: 255, G: 99, B: 132, A: 255},
	{R: 75, G: 192, B: 192, A: 255},
	{R: 255, G: 159, B: 64, A: 255},
	{R: 153, G: 102, B: 255, A: 255},
	{R: 255, G: 205, B: 86, A: 255},
}

// PNGRenderer draws grouped horizontal bar charts into PNG images.
type PNGRenderer struct{}

// NewPNGRenderer constructs a renderer.
func NewPNGRenderer() *PNGRenderer {
	return &PNGRenderer{}
}

// Render draws the chart and returns the encoded PNG bytes. The first label
// is drawn at the top and the first series on top within each group.
func (r *PNGRenderer) Render(ctx context.Context, spec Spec) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := spec.Validate(); err != nil {
		return nil, fmt.Errorf("validate chart: %w", err)
	}
	bg, err := parseColor(spec.BackgroundColor)
	if err != nil {
		return nil, err
	}

	p := plot.New()
	p.BackgroundColor = bg
	p.Title.Text = strings.Join(spec.Title, "\n")
	p.Title.TextStyle.Font.Size = vg.Points(titleSize)
	p.X.Min = 0
	p.Y.Tick.Label.Font.Size = vg.Points(labelSize)
	p.Legend.Top = true
	p.Legend.TextStyle.Font.Size = vg.Points(labelSize)

	n := len(spec.Labels)
	if n > 0 {
		names := make([]string, n)
		for i, lines := range spec.Labels {
			names[n-1-i] = strings.Join(lines, "\n")
		}
		p.NominalY(names...)
	}

	width := barWidth(spec)
	for j, series := range spec.Series {
		if n == 0 {
			break
		}
		offset := width * vg.Length(float64(len(spec.Series)-1)/2-float64(j))
		if err := addSeries(p, spec, series, palette[j%len(palette)], width, offset); err != nil {
			return nil, fmt.Errorf("series %q: %w", series.Label, err)
		}
	}

	canvas := vgimg.NewWith(
		vgimg.UseWH(vg.Length(spec.Width), vg.Length(spec.Height)),
		vgimg.UseDPI(canvasDPI),
		vgimg.UseBackgroundColor(bg),
	)
	p.Draw(draw.New(canvas))

	buf := &bytes.Buffer{}
	if _, err := (vgimg.PngCanvas{Canvas: canvas}).WriteTo(buf); err != nil {
		return nil, fmt.Errorf("encode chart: %w", err)
	}
	return buf.Bytes(), nil
}

// addSeries adds one bar per label plus its value annotations.
func addSeries(p *plot.Plot, spec Spec, series Series, c color.Color, width, offset vg.Length) error {
	n := len(spec.Labels)
	values := make(plotter.Values, n)
	points := make(plotter.XYs, n)
	texts := make([]string, n)
	for i, v := range series.Values {
		pos := n - 1 - i
		values[pos] = v
		points[pos] = plotter.XY{X: v, Y: float64(pos)}
		texts[pos] = spec.FormatValue(v)
	}

	bars, err := plotter.NewBarChart(values, width)
	if err != nil {
		return err
	}
	bars.Horizontal = true
	bars.Color = c
	bars.LineStyle.Width = 0
	bars.Offset = offset

	annotations, err := plotter.NewLabels(plotter.XYLabels{XYs: points, Labels: texts})
	if err != nil {
		return err
	}
	annotations.Offset = vg.Point{X: vg.Points(3), Y: offset}
	for i := range annotations.TextStyle {
		annotations.TextStyle[i].Font.Size = vg.Points(valueSize)
		annotations.TextStyle[i].XAlign = text.XLeft
		annotations.TextStyle[i].YAlign = text.YCenter
	}

	p.Add(bars, annotations)
	p.Legend.Add(series.Label, bars)
	return nil
}

func barWidth(spec Spec) vg.Length {
	bars := len(spec.Labels) * len(spec.Series)
	if bars == 0 {
		bars = 1
	}
	return vg.Length(float64(spec.Height) * barFill / float64(bars))
}

// parseColor accepts SVG colour names and #rrggbb.
func parseColor(raw string) (color.Color, error) {
	name := strings.ToLower(strings.TrimSpace(raw))
	switch name {
	case "":
		return color.White, nil
	case "transparent":
		return color.Transparent, nil
	}
	if c, ok := colornames.Map[name]; ok {
		return c, nil
	}
	hex := strings.TrimPrefix(name, "#")
	if len(hex) != 6 {
		return nil, fmt.Errorf("unsupported background color %q", raw)
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return nil, fmt.Errorf("parse background color %q: %w", raw, err)
	}
	return color.RGBA{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v), A: 255}, nil
}
