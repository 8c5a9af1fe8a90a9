package mapper

import (
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"
)

// MappingMetrics tracks counters for one mapping run
type MappingMetrics struct {
	mu               sync.Mutex
	logger           *zap.Logger
	StartTime        time.Time
	EndTime          time.Time
	DocumentsRead    int64
	DocumentsSkipped int64
	RowsProduced     int64
	ColumnsInferred  int
	ErrorCounts      map[ErrorKind]int
}

// NewMappingMetrics creates a new metrics tracker
func NewMappingMetrics(logger *zap.Logger) *MappingMetrics {
	if logger == nil {
		logger = zap.NewNop()
	}

	return &MappingMetrics{
		StartTime:   time.Now(),
		ErrorCounts: make(map[ErrorKind]int),
		logger:      logger,
	}
}

// RecordDocument counts one mapped document and the rows it produced
func (m *MappingMetrics) RecordDocument(rows int) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.DocumentsRead++
	m.RowsProduced += int64(rows)
}

// RecordSkipped counts a document dropped by skip-invalid-rows
func (m *MappingMetrics) RecordSkipped(documentID, reason string) {
	m.mu.Lock()
	m.DocumentsRead++
	m.DocumentsSkipped++
	m.mu.Unlock()

	m.logger.Info("Skipped document",
		zap.String("document", documentID),
		zap.String("reason", reason))
}

// RecordError increments the count for a specific error kind
func (m *MappingMetrics) RecordError(kind ErrorKind) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.ErrorCounts[kind]++
}

// SetColumnCount records how many columns inference produced
func (m *MappingMetrics) SetColumnCount(count int) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.ColumnsInferred = count
}

// Complete marks the mapping run as complete
func (m *MappingMetrics) Complete() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.EndTime = time.Now()

	m.logger.Info("Mapping run completed",
		zap.Duration("totalDuration", m.EndTime.Sub(m.StartTime)),
		zap.Int64("documentsRead", m.DocumentsRead),
		zap.Int64("documentsSkipped", m.DocumentsSkipped),
		zap.Int64("rowsProduced", m.RowsProduced),
		zap.Int("columnsInferred", m.ColumnsInferred),
		zap.Float64("throughput", m.Throughput()))
}

// Duration returns the total duration of the mapping run
func (m *MappingMetrics) Duration() time.Duration {
	if m.EndTime.IsZero() {
		return time.Since(m.StartTime)
	}
	return m.EndTime.Sub(m.StartTime)
}

// Throughput calculates the rows/second rate of the run
func (m *MappingMetrics) Throughput() float64 {
	duration := m.Duration().Seconds()
	if duration <= 0 {
		return 0
	}
	return float64(m.RowsProduced) / duration
}

// reportKinds fixes the order error kinds appear in reports
var reportKinds = []ErrorKind{
	ErrorKindValidation,
	ErrorKindTransformation,
	ErrorKindConfiguration,
	ErrorKindUnknown,
}

// GenerateReport creates a human-readable metrics report
func (m *MappingMetrics) GenerateReport() string {
	m.mu.Lock()
	defer m.mu.Unlock()

	endTime := m.EndTime
	if endTime.IsZero() {
		endTime = time.Now()
	}

	report := fmt.Sprintf(`
Mapping Metrics Report
======================
Duration:            %s
Start Time:          %s
End Time:            %s

Batch Summary
-------------
Documents Read:      %d
Documents Skipped:   %d (%.1f%%)
Rows Produced:       %d
Columns Inferred:    %d
Average Throughput:  %.2f rows/sec
`,
		formatDuration(m.Duration()),
		m.StartTime.Format(time.RFC3339),
		endTime.Format(time.RFC3339),

		m.DocumentsRead,
		m.DocumentsSkipped, getPercentage(float64(m.DocumentsSkipped), float64(m.DocumentsRead)),
		m.RowsProduced,
		m.ColumnsInferred,
		m.Throughput(),
	)

	totalErrors := 0
	for _, count := range m.ErrorCounts {
		totalErrors += count
	}
	if totalErrors > 0 {
		report += "\nError Distribution\n------------------\n"
		for _, kind := range reportKinds {
			count := m.ErrorCounts[kind]
			if count == 0 {
				continue
			}
			percentage := getPercentage(float64(count), float64(totalErrors))
			report += fmt.Sprintf("- %s: %d (%.1f%%)\n", kind.String(), count, percentage)
		}
	}

	return report
}

// ToJSON serializes metrics to JSON
func (m *MappingMetrics) ToJSON() ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	errorCounts := make(map[string]int, len(m.ErrorCounts))
	for kind, count := range m.ErrorCounts {
		errorCounts[kind.String()] = count
	}

	return json.Marshal(struct {
		Duration         string         `json:"duration"`
		DocumentsRead    int64          `json:"documentsRead"`
		DocumentsSkipped int64          `json:"documentsSkipped"`
		RowsProduced     int64          `json:"rowsProduced"`
		ColumnsInferred  int            `json:"columnsInferred"`
		Throughput       float64        `json:"throughput"`
		ErrorCounts      map[string]int `json:"errorCounts"`
	}{
		Duration:         formatDuration(m.Duration()),
		DocumentsRead:    m.DocumentsRead,
		DocumentsSkipped: m.DocumentsSkipped,
		RowsProduced:     m.RowsProduced,
		ColumnsInferred:  m.ColumnsInferred,
		Throughput:       m.Throughput(),
		ErrorCounts:      errorCounts,
	})
}

// getPercentage safely calculates a percentage, avoiding division by zero
func getPercentage(value, total float64) float64 {
	if total == 0 {
		return 0
	}
	return (value / total) * 100
}

// formatDuration formats a duration to a human-readable string
func formatDuration(d time.Duration) string {
	hours := int(d.Hours())
	minutes := int(d.Minutes()) % 60
	seconds := int(d.Seconds()) % 60

	if hours > 0 {
		return fmt.Sprintf("%dh %dm %ds", hours, minutes, seconds)
	} else if minutes > 0 {
		return fmt.Sprintf("%dm %ds", minutes, seconds)
	}
	return fmt.Sprintf("%.2fs", d.Seconds())
}
