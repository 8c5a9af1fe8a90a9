// pkg/config/config.go
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"doctab/pkg/converter"
	"doctab/pkg/model"
)

// Config represents the mapping engine configuration
type Config struct {
	// Mapping behavior
	Mode       model.ProcessingMode `yaml:"mode"`
	ArrayField string               `yaml:"array_field,omitempty"`
	Rules      []model.FieldMapping `yaml:"rules,omitempty"`

	// Field selection
	IncludeAllFields     bool     `yaml:"include_all_fields,omitempty"`
	ExcludeFields        []string `yaml:"exclude_fields,omitempty"`
	PreserveBufferFields bool     `yaml:"preserve_buffer_fields,omitempty"`

	// Conversion defaults
	MaxDepth       int    `yaml:"max_depth,omitempty"`
	NullValue      string `yaml:"null_value,omitempty"`
	DateFormat     string `yaml:"date_format,omitempty"`
	ArraySeparator string `yaml:"array_separator,omitempty"`

	// Batch behavior
	SkipInvalidRows bool   `yaml:"skip_invalid_rows,omitempty"`
	Source          string `yaml:"source,omitempty"`

	// Logging
	LogLevel  string `yaml:"-"`
	LogFormat string `yaml:"-"`
}

// DefaultConfig returns a Config with engine defaults applied
func DefaultConfig() *Config {
	return &Config{
		Mode:           model.ModeFlatten,
		MaxDepth:       10,
		DateFormat:     converter.FormatISO,
		ArraySeparator: ",",
		LogLevel:       "info",
		LogFormat:      "json",
	}
}

// LoadConfig loads configuration from environment variables. Validation
// happens when the mapper is constructed, not here, so callers can still
// layer a mapping file and flag overrides on top of the result.
func LoadConfig() (*Config, error) {
	// Best-effort .env load; missing files are fine
	_ = godotenv.Load()

	cfg := &Config{
		Mode:       model.ProcessingMode(getEnv("MAPPING_MODE", string(model.ModeFlatten))),
		ArrayField: getEnv("ARRAY_FIELD", ""),

		IncludeAllFields:     getEnvAsBool("INCLUDE_ALL_FIELDS", false),
		ExcludeFields:        getEnvAsStringSlice("EXCLUDE_FIELDS", nil),
		PreserveBufferFields: getEnvAsBool("PRESERVE_BUFFER_FIELDS", false),

		MaxDepth:       getEnvAsInt("MAX_DEPTH", 10),
		NullValue:      getEnv("NULL_VALUE", ""),
		DateFormat:     getEnv("DATE_FORMAT", converter.FormatISO),
		ArraySeparator: getEnv("ARRAY_SEPARATOR", ","),

		SkipInvalidRows: getEnvAsBool("SKIP_INVALID_ROWS", false),
		Source:          getEnv("SOURCE_NAME", ""),

		LogLevel:  getEnv("LOG_LEVEL", "info"),
		LogFormat: getEnv("LOG_FORMAT", "json"),
	}

	return cfg, nil
}

// LoadMappingFile reads a mapping configuration from a YAML file, applying
// engine defaults for anything the file leaves unset
func LoadMappingFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read mapping file: %w", err)
	}

	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse mapping file %s: %w", path, err)
	}

	return cfg, nil
}

// Validate ensures the mapping configuration is structurally sound
func (c *Config) Validate() error {
	if !c.Mode.Valid() {
		return fmt.Errorf("mapping mode %q is not supported", c.Mode)
	}

	if c.Mode == model.ModeArrayExpand && c.ArrayField == "" {
		return errors.New("array field is required in array_expand mode")
	}

	if len(c.Rules) == 0 && !c.IncludeAllFields {
		return errors.New("at least one mapping rule is required unless include_all_fields is set")
	}

	targets := make(map[string]bool, len(c.Rules))
	for i, rule := range c.Rules {
		if rule.Source == "" {
			return fmt.Errorf("rule %d: source path is required", i)
		}
		if rule.Target == "" {
			return fmt.Errorf("rule %d: target name is required", i)
		}
		if targets[rule.Target] {
			return fmt.Errorf("rule %d: duplicate target column %q", i, rule.Target)
		}
		targets[rule.Target] = true
	}

	if c.MaxDepth <= 0 {
		return errors.New("max depth must be positive")
	}

	if !converter.ValidDateFormat(c.DateFormat) {
		return fmt.Errorf("unknown date format %q", c.DateFormat)
	}

	return nil
}

// Helper functions for environment variables
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.ParseBool(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}
