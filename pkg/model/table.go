// pkg/model/table.go
package model

import "time"

// ProcessingMode selects how a batch of documents becomes rows
type ProcessingMode string

const (
	// ModeFlatten produces one row per input document
	ModeFlatten ProcessingMode = "flatten"
	// ModeArrayExpand produces one row per element of a designated array field
	ModeArrayExpand ProcessingMode = "array_expand"
)

// Valid reports whether the mode is one of the supported processing modes
func (m ProcessingMode) Valid() bool {
	return m == ModeFlatten || m == ModeArrayExpand
}

// ColumnType is the inferred primitive type of an output column
type ColumnType string

const (
	ColumnString  ColumnType = "string"
	ColumnInteger ColumnType = "integer"
	ColumnFloat   ColumnType = "float"
	ColumnBoolean ColumnType = "boolean"
	ColumnDate    ColumnType = "date"
	ColumnUnknown ColumnType = "unknown"
)

// Row is a single flat output record keyed by column name
type Row map[string]interface{}

// Column describes one inferred output column
type Column struct {
	Name     string     `json:"name"`
	Type     ColumnType `json:"type"`
	Required bool       `json:"required"` // non-null in every row of the batch
}

// TableMeta records provenance for a produced table
type TableMeta struct {
	RowCount    int            `json:"row_count"`
	ColumnCount int            `json:"column_count"`
	Mode        ProcessingMode `json:"mode"`
	Source      string         `json:"source,omitempty"`
	BatchID     string         `json:"batch_id"`
	GeneratedAt time.Time      `json:"generated_at"`
}

// Table is the output of one mapping run: typed columns, flat rows and
// provenance metadata. Row order matches input document order; expansion
// preserves element order within each document.
type Table struct {
	Columns []Column  `json:"columns"`
	Rows    []Row     `json:"rows"`
	Meta    TableMeta `json:"metadata"`
}

// ColumnNames returns the column names in table order
func (t *Table) ColumnNames() []string {
	names := make([]string, len(t.Columns))
	for i, col := range t.Columns {
		names[i] = col.Name
	}
	return names
}
