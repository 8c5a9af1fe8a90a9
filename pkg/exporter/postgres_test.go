package exporter

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"doctab/pkg/model"
)

func TestPgTypeFor(t *testing.T) {
	tests := []struct {
		columnType model.ColumnType
		want       string
	}{
		{model.ColumnString, "TEXT"},
		{model.ColumnInteger, "BIGINT"},
		{model.ColumnFloat, "DOUBLE PRECISION"},
		{model.ColumnBoolean, "BOOLEAN"},
		{model.ColumnDate, "TIMESTAMPTZ"},
		{model.ColumnUnknown, "TEXT"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, pgTypeFor(tt.columnType))
	}
}

func TestSinkValue(t *testing.T) {
	now := time.Now()

	tests := []struct {
		name  string
		value interface{}
		want  interface{}
	}{
		{"nil", nil, nil},
		{"string", "a", "a"},
		{"int", 7, 7},
		{"float", 1.5, 1.5},
		{"bool", true, true},
		{"time", now, now},
		{"array becomes JSON text", []interface{}{1, 2}, "[1,2]"},
		{"mapping becomes JSON text", map[string]interface{}{"k": 1}, `{"k":1}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, sinkValue(tt.value))
		})
	}
}
