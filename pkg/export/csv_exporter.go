package export

import (
	"bytes"
	"encoding/csv"
	"fmt"
)

// CSVExporter flattens documents into CSV records. Tables keep their grid:
// each cell lands on its first column and spanned positions stay empty.
// Images and page breaks have no CSV form and are skipped.
type CSVExporter struct{}

// NewCSVExporter builds a CSV exporter.
func NewCSVExporter() *CSVExporter {
	return &CSVExporter{}
}

// Render produces CSV encoded bytes for the document.
func (e *CSVExporter) Render(doc Document) ([]byte, error) {
	buf := &bytes.Buffer{}
	writer := csv.NewWriter(buf)
	writer.Comma = ';'

	for i, block := range doc.Blocks {
		switch b := block.(type) {
		case Paragraph:
			if err := writer.Write([]string{b.Text}); err != nil {
				return nil, fmt.Errorf("write csv paragraph %d: %w", i, err)
			}
		case TableBlock:
			if err := writeTable(writer, b.Table); err != nil {
				return nil, fmt.Errorf("write csv table %d: %w", i, err)
			}
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("flush csv: %w", err)
	}
	return buf.Bytes(), nil
}

func writeTable(writer *csv.Writer, t Table) error {
	placed, err := t.Place()
	if err != nil {
		return err
	}
	records := make([][]string, len(t.Rows))
	for i := range records {
		records[i] = make([]string, t.Columns)
	}
	for _, pc := range placed {
		records[pc.Row][pc.Column] = pc.Cell.Text
	}
	for _, record := range records {
		if err := writer.Write(record); err != nil {
			return err
		}
	}
	return writer.Write(nil)
}
