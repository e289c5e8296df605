package export

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTableBuilderTracksRowSpans(t *testing.T) {
	b := NewTableBuilder(4)

	require.NoError(t, b.AddRow(Cell{Text: "title", ColumnSpan: 4}))
	require.NoError(t, b.AddRow(Cell{Text: "left", RowSpan: 2}, Cell{Text: "a"}, Cell{Text: "b", ColumnSpan: 2}))
	require.NoError(t, b.AddRow(Cell{Text: "c"}, Cell{Text: "d"}, Cell{Text: "e"}))

	table, err := b.Build([]float64{1, 1, 1, 1})
	require.NoError(t, err)
	assert.Equal(t, []int{4, 4, 4}, table.RowCoverage())

	placed, err := table.Place()
	require.NoError(t, err)
	require.Len(t, placed, 7)
	last := placed[len(placed)-3]
	assert.Equal(t, "c", last.Cell.Text)
	assert.Equal(t, 2, last.Row)
	assert.Equal(t, 1, last.Column)
}

func TestTableBuilderRejectsShortAndLongRows(t *testing.T) {
	b := NewTableBuilder(3)

	err := b.AddRow(Cell{Text: "a"}, Cell{Text: "b"})
	require.ErrorIs(t, err, ErrSpanMismatch)

	err = b.AddRow(Cell{Text: "a", ColumnSpan: 2}, Cell{Text: "b", ColumnSpan: 2})
	require.ErrorIs(t, err, ErrSpanMismatch)
}

func TestTableBuilderRejectsOverlapWithCarriedSpan(t *testing.T) {
	b := NewTableBuilder(2)
	require.NoError(t, b.AddRow(Cell{Text: "a", RowSpan: 2}, Cell{Text: "b"}))

	err := b.AddRow(Cell{Text: "c"}, Cell{Text: "d"})
	require.ErrorIs(t, err, ErrSpanMismatch)
}

func TestTableBuilderRejectsDanglingSpanAndWidths(t *testing.T) {
	b := NewTableBuilder(2)
	require.NoError(t, b.AddRow(Cell{Text: "a", RowSpan: 3}, Cell{Text: "b"}))

	_, err := b.Build([]float64{1, 1})
	require.ErrorIs(t, err, ErrSpanMismatch)

	b = NewTableBuilder(2)
	require.NoError(t, b.AddRow(Cell{Text: "a"}, Cell{Text: "b"}))
	_, err = b.Build([]float64{1})
	require.ErrorIs(t, err, ErrSpanMismatch)
}

func TestCellSpansDefaultToOne(t *testing.T) {
	c := Cell{}
	assert.Equal(t, 1, c.Rows())
	assert.Equal(t, 1, c.Cols())
}
