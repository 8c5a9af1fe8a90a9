// pkg/exporter/csv.go
package exporter

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"doctab/pkg/model"
)

// CSVExporter writes tables as CSV with a header row of column names
type CSVExporter struct {
	// NullValue is the text emitted for nil cells
	NullValue string
}

// NewCSVExporter creates a CSV exporter with an empty null representation
func NewCSVExporter() *CSVExporter {
	return &CSVExporter{}
}

// FileExtension returns ".csv"
func (e *CSVExporter) FileExtension() string {
	return ".csv"
}

// Export writes the header and all rows in table column order
func (e *CSVExporter) Export(w io.Writer, table *model.Table) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(table.ColumnNames()); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	for i, row := range table.Rows {
		record := make([]string, len(table.Columns))
		for j, col := range table.Columns {
			record[j] = e.renderValue(row[col.Name])
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("failed to write row %d: %w", i, err)
		}
	}

	cw.Flush()
	return cw.Error()
}

// renderValue converts a cell to text, using JSON for complex types
func (e *CSVExporter) renderValue(value interface{}) string {
	switch v := value.(type) {
	case nil:
		return e.NullValue
	case string:
		return v
	case time.Time:
		return v.Format(time.RFC3339)
	case map[string]interface{}, []interface{}, map[string]string, []string:
		b, err := json.Marshal(v)
		if err == nil {
			return string(b)
		}
	}
	return fmt.Sprintf("%v", value)
}
