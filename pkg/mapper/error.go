package mapper

import (
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
)

// ErrorKind classifies failures raised while mapping a batch
type ErrorKind int

const (
	// ErrorKindNone means no failure
	ErrorKindNone ErrorKind = iota
	// ErrorKindValidation covers input that violates a structural expectation
	ErrorKindValidation
	// ErrorKindTransformation covers conversion failures on a specific field value
	ErrorKindTransformation
	// ErrorKindConfiguration covers invalid setup, detected when a Mapper is built
	ErrorKindConfiguration
	// ErrorKindUnknown wraps any unexpected failure during per-document processing
	ErrorKindUnknown
)

// String returns a string representation of the error kind
func (k ErrorKind) String() string {
	switch k {
	case ErrorKindNone:
		return "None"
	case ErrorKindValidation:
		return "Validation"
	case ErrorKindTransformation:
		return "Transformation"
	case ErrorKindConfiguration:
		return "Configuration"
	case ErrorKindUnknown:
		return "Unknown"
	default:
		return fmt.Sprintf("Unknown(%d)", int(k))
	}
}

// MappingError is a single failure with enough context to locate the value
// that caused it. Configuration errors are never recoverable.
type MappingError struct {
	Kind        ErrorKind
	FieldPath   string
	DocumentID  string
	SourceValue interface{}
	Message     string // Derived from Err but stored for serialization
	Err         error
	Timestamp   time.Time
	Recoverable bool
}

// NewMappingError creates a new mapping error with the current timestamp
func NewMappingError(err error, kind ErrorKind) MappingError {
	record := MappingError{
		Kind:        kind,
		Err:         err,
		Timestamp:   time.Now(),
		Recoverable: kind != ErrorKindConfiguration,
	}

	if err != nil {
		record.Message = err.Error()
	}

	return record
}

// WithField adds the flattened field path the failure occurred on
func (e MappingError) WithField(path string) MappingError {
	e.FieldPath = path
	return e
}

// WithDocument adds the identifier of the failing document
func (e MappingError) WithDocument(id string) MappingError {
	e.DocumentID = id
	return e
}

// WithValue adds the source value that failed to convert
func (e MappingError) WithValue(value interface{}) MappingError {
	e.SourceValue = value
	return e
}

// Error formats the failure with its location context
func (e MappingError) Error() string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("[%s] ", e.Kind))

	if e.DocumentID != "" {
		sb.WriteString(fmt.Sprintf("Document: %s ", e.DocumentID))
	}

	if e.FieldPath != "" {
		sb.WriteString(fmt.Sprintf("Field: %s ", e.FieldPath))
		if e.SourceValue != nil {
			sb.WriteString(fmt.Sprintf("Value: %v ", e.SourceValue))
		}
	}

	if e.Err != nil {
		sb.WriteString(fmt.Sprintf("Error: %s", e.Err.Error()))
	} else if e.Message != "" {
		sb.WriteString(fmt.Sprintf("Error: %s", e.Message))
	}

	return sb.String()
}

// Unwrap exposes the wrapped cause to errors.Is and errors.As
func (e MappingError) Unwrap() error {
	return e.Err
}

// AsMappingError extracts a MappingError from err, wrapping anything else
// as kind Unknown
func AsMappingError(err error) MappingError {
	var mapped MappingError
	if errors.As(err, &mapped) {
		return mapped
	}
	return NewMappingError(err, ErrorKindUnknown)
}

// ErrorCollector accumulates failures across a batch. The full list stays
// queryable after the batch completes regardless of fail-fast mode.
type ErrorCollector struct {
	logger *zap.Logger
	mu     sync.Mutex
	counts map[ErrorKind]int
	errors []MappingError
}

// NewErrorCollector creates a new error collector
func NewErrorCollector(logger *zap.Logger) *ErrorCollector {
	if logger == nil {
		logger = zap.NewNop()
	}

	return &ErrorCollector{
		logger: logger,
		counts: make(map[ErrorKind]int),
	}
}

// Record saves an error occurrence and logs it at a kind-appropriate level
func (c *ErrorCollector) Record(record MappingError) {
	c.mu.Lock()
	c.counts[record.Kind]++
	c.errors = append(c.errors, record)
	c.mu.Unlock()

	logLevel := zap.WarnLevel
	if record.Kind == ErrorKindConfiguration || record.Kind == ErrorKindUnknown {
		logLevel = zap.ErrorLevel
	}

	c.logger.Log(logLevel, "Mapping error",
		zap.String("kind", record.Kind.String()),
		zap.String("document", record.DocumentID),
		zap.String("field", record.FieldPath),
		zap.String("error", record.Message),
		zap.Bool("recoverable", record.Recoverable))
}

// Errors returns a copy of every recorded error in occurrence order
func (c *ErrorCollector) Errors() []MappingError {
	c.mu.Lock()
	defer c.mu.Unlock()

	out := make([]MappingError, len(c.errors))
	copy(out, c.errors)
	return out
}

// Summary returns a copy of the per-kind error counts
func (c *ErrorCollector) Summary() map[ErrorKind]int {
	c.mu.Lock()
	defer c.mu.Unlock()

	summary := make(map[ErrorKind]int)
	for kind, count := range c.counts {
		summary[kind] = count
	}
	return summary
}

// Count returns the total number of recorded errors
func (c *ErrorCollector) Count() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.errors)
}

// HasErrors reports whether anything was recorded
func (c *ErrorCollector) HasErrors() bool {
	return c.Count() > 0
}
