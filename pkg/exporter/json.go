// pkg/exporter/json.go
package exporter

import (
	"encoding/json"
	"fmt"
	"io"

	"doctab/pkg/model"
)

// JSONExporter writes the full table document: metadata, columns and rows
type JSONExporter struct {
	// Indent pretty-prints the output when set
	Indent bool
}

// NewJSONExporter creates an indenting JSON exporter
func NewJSONExporter() *JSONExporter {
	return &JSONExporter{Indent: true}
}

// FileExtension returns ".json"
func (e *JSONExporter) FileExtension() string {
	return ".json"
}

// Export writes the table as a single JSON document
func (e *JSONExporter) Export(w io.Writer, table *model.Table) error {
	enc := json.NewEncoder(w)
	if e.Indent {
		enc.SetIndent("", "  ")
	}

	payload := struct {
		Metadata model.TableMeta `json:"metadata"`
		Columns  []model.Column  `json:"columns"`
		Rows     []model.Row     `json:"rows"`
	}{
		Metadata: table.Meta,
		Columns:  table.Columns,
		Rows:     table.Rows,
	}

	if err := enc.Encode(payload); err != nil {
		return fmt.Errorf("failed to encode table: %w", err)
	}
	return nil
}
