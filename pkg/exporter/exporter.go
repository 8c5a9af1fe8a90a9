// pkg/exporter/exporter.go
package exporter

import (
	"fmt"
	"io"

	"doctab/pkg/model"
)

// Exporter serializes a mapped table to an output stream
type Exporter interface {
	// Export writes the table to w
	Export(w io.Writer, table *model.Table) error

	// FileExtension returns the conventional extension for the format
	FileExtension() string
}

// ForFormat returns the exporter for a named output format
func ForFormat(format string) (Exporter, error) {
	switch format {
	case "csv":
		return NewCSVExporter(), nil
	case "json":
		return NewJSONExporter(), nil
	case "arrays":
		return NewArraysExporter(), nil
	default:
		return nil, fmt.Errorf("unsupported output format: %s", format)
	}
}
