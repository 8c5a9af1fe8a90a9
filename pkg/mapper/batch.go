package mapper

import (
	"time"

	"github.com/google/uuid"
)

// BatchResult summarizes one batch of documents mapped to a table
type BatchResult struct {
	BatchID          string         `json:"batchId"`
	Source           string         `json:"source,omitempty"`
	Success          bool           `json:"success"`
	DocumentsRead    int            `json:"documentsRead"`
	DocumentsSkipped int            `json:"documentsSkipped"`
	RowsProduced     int            `json:"rowsProduced"`
	Errors           []MappingError `json:"errors,omitempty"`
	Warnings         []string       `json:"warnings,omitempty"`
	StartTime        time.Time      `json:"startTime"`
	EndTime          time.Time      `json:"endTime"`
}

// NewBatchResult creates a result for a new batch with a unique ID
func NewBatchResult(source string) *BatchResult {
	return &BatchResult{
		BatchID:   uuid.New().String(),
		Source:    source,
		Success:   true,
		StartTime: time.Now(),
	}
}

// Complete marks the batch as finished
func (r *BatchResult) Complete(success bool) {
	r.EndTime = time.Now()
	r.Success = success
}

// Duration returns how long the batch took so far
func (r *BatchResult) Duration() time.Duration {
	if r.EndTime.IsZero() {
		return time.Since(r.StartTime)
	}
	return r.EndTime.Sub(r.StartTime)
}

// AddError records a mapping error against the batch
func (r *BatchResult) AddError(err MappingError) {
	r.Errors = append(r.Errors, err)
	r.Success = false
}

// AddWarning records a non-fatal warning against the batch
func (r *BatchResult) AddWarning(warning string) {
	r.Warnings = append(r.Warnings, warning)
}

// ErrorCount returns the number of errors recorded
func (r *BatchResult) ErrorCount() int {
	return len(r.Errors)
}

// HasErrors reports whether any errors were recorded
func (r *BatchResult) HasErrors() bool {
	return len(r.Errors) > 0
}
