// Package chart renders bar charts for report documents.
package chart

import "fmt"

// TypeHorizontalBar is the only chart type the renderer draws.
const TypeHorizontalBar = "horizontal-bar"

// Series is one labelled data set; Values align with Spec.Labels.
type Series struct {
	Label  string    `json:"label" yaml:"label"`
	Values []float64 `json:"values" yaml:"values"`
}

// Spec describes one chart. Each label may span several lines.
type Spec struct {
	Type            string               `json:"type" yaml:"type"`
	Title           []string             `json:"title" yaml:"title"`
	Labels          [][]string           `json:"labels" yaml:"labels"`
	Series          []Series             `json:"series" yaml:"series"`
	Width           int                  `json:"width" yaml:"width"`
	Height          int                  `json:"height" yaml:"height"`
	BackgroundColor string               `json:"backgroundColor" yaml:"backgroundColor"`
	ValueFormatter  func(float64) string `json:"-" yaml:"-"`
}

// FormatValue renders a data point label using the spec formatter, falling
// back to a two-decimal percentage.
func (s Spec) FormatValue(v float64) string {
	if s.ValueFormatter != nil {
		return s.ValueFormatter(v)
	}
	return fmt.Sprintf("%.2f%%", v)
}

// Validate checks that every series has one value per label.
func (s Spec) Validate() error {
	if s.Type != "" && s.Type != TypeHorizontalBar {
		return fmt.Errorf("unsupported chart type %q", s.Type)
	}
	if s.Width <= 0 || s.Height <= 0 {
		return fmt.Errorf("chart size %dx%d invalid", s.Width, s.Height)
	}
	for _, series := range s.Series {
		if len(series.Values) != len(s.Labels) {
			return fmt.Errorf("series %q has %d values for %d labels", series.Label, len(series.Values), len(s.Labels))
		}
	}
	return nil
}
