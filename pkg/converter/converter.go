// pkg/converter/converter.go
package converter

import (
	"fmt"

	"go.uber.org/zap"

	"doctab/pkg/model"
)

// Transformer applies typed value conversions to mapped fields
type Transformer struct {
	logger *zap.Logger
	// Configuration options
	config Config
}

// Config provides configuration options for value transforms
type Config struct {
	// Serialization selector used when a date transform carries no format
	DefaultDateFormat string
	// Separator used when an array transform splits text without a format
	DefaultArraySeparator string
}

// DefaultConfig returns the default configuration
func DefaultConfig() Config {
	return Config{
		DefaultDateFormat:     FormatISO,
		DefaultArraySeparator: ",",
	}
}

// NewTransformer creates a new Transformer with default configuration
func NewTransformer(logger *zap.Logger) *Transformer {
	return NewTransformerWithConfig(logger, DefaultConfig())
}

// NewTransformerWithConfig creates a Transformer with custom configuration
func NewTransformerWithConfig(logger *zap.Logger, config Config) *Transformer {
	if logger == nil {
		logger = zap.NewNop()
	}
	if config.DefaultDateFormat == "" {
		config.DefaultDateFormat = FormatISO
	}
	if config.DefaultArraySeparator == "" {
		config.DefaultArraySeparator = ","
	}

	return &Transformer{
		logger: logger,
		config: config,
	}
}

// Apply runs the conversion selected by spec against a single value. The
// kind is dispatched over the closed transform-kind set; an unsupported
// kind is an error naming the kind. Every conversion tolerates nil input.
func (t *Transformer) Apply(value interface{}, spec model.TransformSpec) (interface{}, error) {
	switch spec.Kind {
	case model.TransformString:
		return t.toString(value), nil
	case model.TransformNumber:
		return t.toNumber(value), nil
	case model.TransformBoolean:
		return t.toBoolean(value), nil
	case model.TransformDate:
		return t.toDate(value, spec.Format)
	case model.TransformArray:
		return t.toArray(value, spec.Format), nil
	case model.TransformObject:
		return t.toObject(value), nil
	case model.TransformCustom:
		if spec.Func == nil {
			return nil, fmt.Errorf("custom transform has no function")
		}
		return spec.Func(value)
	default:
		return nil, fmt.Errorf("unknown transform kind %q", spec.Kind)
	}
}
