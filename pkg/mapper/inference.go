package mapper

import (
	"encoding/json"
	"math"
	"sort"
	"time"

	"doctab/pkg/model"
)

// valueKind classifies a single cell value during inference
type valueKind int

const (
	kindNull valueKind = iota
	kindString
	kindInteger
	kindFloat
	kindBoolean
	kindDate
	kindComplex
)

// kindOf determines the inference kind of one cell value
func kindOf(value interface{}) valueKind {
	switch v := value.(type) {
	case nil:
		return kindNull
	case string:
		return kindString
	case bool:
		return kindBoolean
	case time.Time:
		return kindDate
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
		return kindInteger
	case float32:
		return floatKind(float64(v))
	case float64:
		return floatKind(v)
	case json.Number:
		if _, err := v.Int64(); err == nil {
			return kindInteger
		}
		if f, err := v.Float64(); err == nil {
			return floatKind(f)
		}
		return kindString
	default:
		return kindComplex
	}
}

// floatKind refines a numeric value into integer or float by exact-integer test
func floatKind(f float64) valueKind {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return kindFloat
	}
	if f == math.Trunc(f) {
		return kindInteger
	}
	return kindFloat
}

type columnStats struct {
	kinds       map[valueKind]bool
	nonNullRows int
}

// InferColumns derives the table schema from the complete set of produced rows.
// Each distinct key becomes a column; its type is the single primitive kind
// shared by all non-null values, with numbers refined into integer vs float.
// Null-only columns classify as unknown, mixed or nested values as string.
// A column is required when it holds a non-null value in every row. Required
// columns sort before optional ones, lexicographic within each group.
func InferColumns(rows []model.Row) []model.Column {
	stats := make(map[string]*columnStats)

	for _, row := range rows {
		for name, value := range row {
			cs, ok := stats[name]
			if !ok {
				cs = &columnStats{kinds: make(map[valueKind]bool)}
				stats[name] = cs
			}
			if kind := kindOf(value); kind != kindNull {
				cs.kinds[kind] = true
				cs.nonNullRows++
			}
		}
	}

	columns := make([]model.Column, 0, len(stats))
	for name, cs := range stats {
		columns = append(columns, model.Column{
			Name:     name,
			Type:     classifyColumn(cs.kinds),
			Required: len(rows) > 0 && cs.nonNullRows == len(rows),
		})
	}

	sort.Slice(columns, func(i, j int) bool {
		if columns[i].Required != columns[j].Required {
			return columns[i].Required
		}
		return columns[i].Name < columns[j].Name
	})

	return columns
}

// classifyColumn collapses the observed kinds of a column into a type tag
func classifyColumn(kinds map[valueKind]bool) model.ColumnType {
	if len(kinds) == 0 {
		return model.ColumnUnknown
	}
	if kinds[kindComplex] {
		return model.ColumnString
	}

	families := 0
	if kinds[kindInteger] || kinds[kindFloat] {
		families++
	}
	if kinds[kindString] {
		families++
	}
	if kinds[kindBoolean] {
		families++
	}
	if kinds[kindDate] {
		families++
	}
	if families > 1 {
		return model.ColumnString
	}

	switch {
	case kinds[kindFloat]:
		return model.ColumnFloat
	case kinds[kindInteger]:
		return model.ColumnInteger
	case kinds[kindBoolean]:
		return model.ColumnBoolean
	case kinds[kindDate]:
		return model.ColumnDate
	default:
		return model.ColumnString
	}
}
