package export

import (
	"errors"
	"fmt"
)

// ErrSpanMismatch is returned when a row does not cover exactly the table's columns.
var ErrSpanMismatch = errors.New("row span mismatch")

// Alignment is a horizontal alignment hint for cell text.
type Alignment string

const (
	AlignCenter    Alignment = "center"
	AlignLeft      Alignment = "left"
	AlignJustified Alignment = "justified"
)

// Cell is one table cell with span and typography hints.
type Cell struct {
	Text       string    `json:"text" yaml:"text"`
	Bold       bool      `json:"bold,omitempty" yaml:"bold,omitempty"`
	RowSpan    int       `json:"rowSpan,omitempty" yaml:"rowSpan,omitempty"`
	ColumnSpan int       `json:"columnSpan,omitempty" yaml:"columnSpan,omitempty"`
	Alignment  Alignment `json:"alignment,omitempty" yaml:"alignment,omitempty"`
	FontSize   int       `json:"fontSize,omitempty" yaml:"fontSize,omitempty"`
}

// Rows returns the effective row span (at least 1).
func (c Cell) Rows() int {
	if c.RowSpan < 1 {
		return 1
	}
	return c.RowSpan
}

// Cols returns the effective column span (at least 1).
func (c Cell) Cols() int {
	if c.ColumnSpan < 1 {
		return 1
	}
	return c.ColumnSpan
}

// Row is an ordered list of cells.
type Row struct {
	Cells []Cell `json:"cells" yaml:"cells"`
}

// Table is a fully validated grid. ColumnWidths has exactly Columns entries
// expressed in arbitrary units; renderers scale them to the page.
type Table struct {
	Columns      int       `json:"columns" yaml:"columns"`
	ColumnWidths []float64 `json:"columnWidths" yaml:"columnWidths"`
	Rows         []Row     `json:"rows" yaml:"rows"`
}

// PlacedCell is a cell resolved to its top-left grid position.
type PlacedCell struct {
	Row    int
	Column int
	Cell   Cell
}

// grid tracks columns still covered by row spans of earlier rows.
type grid struct {
	columns int
	carry   []int
}

func newGrid(columns int) *grid {
	return &grid{columns: columns, carry: make([]int, columns)}
}

// place resolves one row against the carried spans and advances the grid.
// Every column must be covered exactly once, either by a carried span or by
// one of the row's cells.
func (g *grid) place(rowIndex int, cells []Cell) ([]PlacedCell, error) {
	occupied := make([]bool, g.columns)
	next := make([]int, g.columns)
	for col, remaining := range g.carry {
		if remaining > 0 {
			occupied[col] = true
			next[col] = remaining - 1
		}
	}

	placed := make([]PlacedCell, 0, len(cells))
	col := 0
	for i, cell := range cells {
		for col < g.columns && occupied[col] {
			col++
		}
		span := cell.Cols()
		if col+span > g.columns {
			return nil, fmt.Errorf("%w: row %d cell %d overflows %d columns", ErrSpanMismatch, rowIndex, i, g.columns)
		}
		for k := col; k < col+span; k++ {
			if occupied[k] {
				return nil, fmt.Errorf("%w: row %d cell %d overlaps a row span at column %d", ErrSpanMismatch, rowIndex, i, k)
			}
			occupied[k] = true
			next[k] = cell.Rows() - 1
		}
		placed = append(placed, PlacedCell{Row: rowIndex, Column: col, Cell: cell})
		col += span
	}

	covered := 0
	for _, ok := range occupied {
		if ok {
			covered++
		}
	}
	if covered != g.columns {
		return nil, fmt.Errorf("%w: row %d covers %d of %d columns", ErrSpanMismatch, rowIndex, covered, g.columns)
	}

	g.carry = next
	return placed, nil
}

func (g *grid) pending() bool {
	for _, remaining := range g.carry {
		if remaining > 0 {
			return true
		}
	}
	return false
}

// TableBuilder accumulates rows for a table with a fixed column count and
// validates each row as soon as it is appended.
type TableBuilder struct {
	grid *grid
	rows []Row
}

// NewTableBuilder starts a table of the given column count.
func NewTableBuilder(columns int) *TableBuilder {
	return &TableBuilder{grid: newGrid(columns)}
}

// Columns returns the fixed column count.
func (b *TableBuilder) Columns() int {
	return b.grid.columns
}

// AddRow appends a row, failing when its spans plus the carried row spans do
// not cover the table width exactly.
func (b *TableBuilder) AddRow(cells ...Cell) error {
	if b.grid.columns <= 0 {
		return fmt.Errorf("%w: table has no columns", ErrSpanMismatch)
	}
	if _, err := b.grid.place(len(b.rows), cells); err != nil {
		return err
	}
	b.rows = append(b.rows, Row{Cells: cells})
	return nil
}

// Build finalises the table. widths must match the column count.
func (b *TableBuilder) Build(widths []float64) (Table, error) {
	if b.grid.pending() {
		return Table{}, fmt.Errorf("%w: row span extends past the last row", ErrSpanMismatch)
	}
	if len(widths) != b.grid.columns {
		return Table{}, fmt.Errorf("%w: %d widths for %d columns", ErrSpanMismatch, len(widths), b.grid.columns)
	}
	return Table{Columns: b.grid.columns, ColumnWidths: widths, Rows: b.rows}, nil
}

// Place resolves every cell of the table to its grid position.
func (t Table) Place() ([]PlacedCell, error) {
	g := newGrid(t.Columns)
	var placed []PlacedCell
	for i, row := range t.Rows {
		cells, err := g.place(i, row.Cells)
		if err != nil {
			return nil, err
		}
		placed = append(placed, cells...)
	}
	if g.pending() {
		return nil, fmt.Errorf("%w: row span extends past the last row", ErrSpanMismatch)
	}
	return placed, nil
}

// RowCoverage returns, per row, the number of columns covered by the row's own
// cells plus the row spans carried from earlier rows.
func (t Table) RowCoverage() []int {
	coverage := make([]int, len(t.Rows))
	carry := make([]int, t.Columns)
	for i, row := range t.Rows {
		next := make([]int, t.Columns)
		covered := 0
		for col, remaining := range carry {
			if remaining > 0 {
				covered++
				next[col] = remaining - 1
			}
		}
		col := 0
		for _, cell := range row.Cells {
			for col < t.Columns && carry[col] > 0 {
				col++
			}
			for k := col; k < col+cell.Cols() && k < t.Columns; k++ {
				next[k] = cell.Rows() - 1
			}
			covered += cell.Cols()
			col += cell.Cols()
		}
		coverage[i] = covered
		carry = next
	}
	return coverage
}
