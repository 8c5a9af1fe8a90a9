// pkg/exporter/arrays.go
package exporter

import (
	"encoding/json"
	"fmt"
	"io"

	"doctab/pkg/model"
)

// ArraysExporter writes the table as [[columnNames...], [rowValues...]...]
type ArraysExporter struct{}

// NewArraysExporter creates an array-of-arrays exporter
func NewArraysExporter() *ArraysExporter {
	return &ArraysExporter{}
}

// FileExtension returns ".json"
func (e *ArraysExporter) FileExtension() string {
	return ".json"
}

// Build returns the header row followed by one value slice per row, all
// in table column order
func (e *ArraysExporter) Build(table *model.Table) [][]interface{} {
	names := table.ColumnNames()
	out := make([][]interface{}, 0, len(table.Rows)+1)

	header := make([]interface{}, len(names))
	for i, name := range names {
		header[i] = name
	}
	out = append(out, header)

	for _, row := range table.Rows {
		values := make([]interface{}, len(names))
		for i, name := range names {
			values[i] = row[name]
		}
		out = append(out, values)
	}

	return out
}

// Export writes the array form as JSON
func (e *ArraysExporter) Export(w io.Writer, table *model.Table) error {
	if err := json.NewEncoder(w).Encode(e.Build(table)); err != nil {
		return fmt.Errorf("failed to encode table: %w", err)
	}
	return nil
}

// RowsFromArrays reconstructs column names and rows from the array form.
// The first slice is the header; remaining slices are row values aligned
// to it.
func RowsFromArrays(data [][]interface{}) ([]string, []model.Row) {
	if len(data) == 0 {
		return nil, nil
	}

	names := make([]string, len(data[0]))
	for i, v := range data[0] {
		names[i] = fmt.Sprintf("%v", v)
	}

	rows := make([]model.Row, 0, len(data)-1)
	for _, values := range data[1:] {
		row := make(model.Row, len(names))
		for i, name := range names {
			if i < len(values) {
				row[name] = values[i]
			}
		}
		rows = append(rows, row)
	}

	return names, rows
}
