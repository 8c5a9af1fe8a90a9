package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"doctab/pkg/model"
)

func validConfig() *Config {
	cfg := DefaultConfig()
	cfg.Rules = []model.FieldMapping{
		{Source: "name", Target: "name"},
	}
	return cfg
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, model.ModeFlatten, cfg.Mode)
	assert.Equal(t, 10, cfg.MaxDepth)
	assert.Equal(t, "iso", cfg.DateFormat)
	assert.Equal(t, ",", cfg.ArraySeparator)
	assert.False(t, cfg.SkipInvalidRows)
	assert.False(t, cfg.IncludeAllFields)
	assert.False(t, cfg.PreserveBufferFields)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "json", cfg.LogFormat)
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{
			name:   "valid flatten config",
			mutate: func(c *Config) {},
		},
		{
			name: "valid array_expand config",
			mutate: func(c *Config) {
				c.Mode = model.ModeArrayExpand
				c.ArrayField = "items"
			},
		},
		{
			name: "valid pass-through without rules",
			mutate: func(c *Config) {
				c.Rules = nil
				c.IncludeAllFields = true
			},
		},
		{
			name:    "unsupported mode",
			mutate:  func(c *Config) { c.Mode = "pivot" },
			wantErr: "not supported",
		},
		{
			name:    "array_expand needs a field",
			mutate:  func(c *Config) { c.Mode = model.ModeArrayExpand },
			wantErr: "array field is required",
		},
		{
			name:    "rules required without pass-through",
			mutate:  func(c *Config) { c.Rules = nil },
			wantErr: "at least one mapping rule",
		},
		{
			name: "empty rule source",
			mutate: func(c *Config) {
				c.Rules = append(c.Rules, model.FieldMapping{Target: "x"})
			},
			wantErr: "source path is required",
		},
		{
			name: "empty rule target",
			mutate: func(c *Config) {
				c.Rules = append(c.Rules, model.FieldMapping{Source: "x"})
			},
			wantErr: "target name is required",
		},
		{
			name: "duplicate targets",
			mutate: func(c *Config) {
				c.Rules = append(c.Rules, model.FieldMapping{Source: "other", Target: "name"})
			},
			wantErr: "duplicate target column",
		},
		{
			name:    "zero max depth",
			mutate:  func(c *Config) { c.MaxDepth = 0 },
			wantErr: "max depth must be positive",
		},
		{
			name:    "unknown date format",
			mutate:  func(c *Config) { c.DateFormat = "julian" },
			wantErr: "unknown date format",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)

			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestLoadConfigFromEnvironment(t *testing.T) {
	t.Setenv("MAPPING_MODE", "array_expand")
	t.Setenv("ARRAY_FIELD", "comments")
	t.Setenv("INCLUDE_ALL_FIELDS", "true")
	t.Setenv("EXCLUDE_FIELDS", "password, secret")
	t.Setenv("MAX_DEPTH", "5")
	t.Setenv("NULL_VALUE", "NULL")
	t.Setenv("DATE_FORMAT", "unix")
	t.Setenv("ARRAY_SEPARATOR", ";")
	t.Setenv("SKIP_INVALID_ROWS", "true")
	t.Setenv("SOURCE_NAME", "posts.json")
	t.Setenv("LOG_LEVEL", "debug")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, model.ModeArrayExpand, cfg.Mode)
	assert.Equal(t, "comments", cfg.ArrayField)
	assert.True(t, cfg.IncludeAllFields)
	assert.Equal(t, []string{"password", "secret"}, cfg.ExcludeFields)
	assert.Equal(t, 5, cfg.MaxDepth)
	assert.Equal(t, "NULL", cfg.NullValue)
	assert.Equal(t, "unix", cfg.DateFormat)
	assert.Equal(t, ";", cfg.ArraySeparator)
	assert.True(t, cfg.SkipInvalidRows)
	assert.Equal(t, "posts.json", cfg.Source)
	assert.Equal(t, "debug", cfg.LogLevel)
}

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, model.ModeFlatten, cfg.Mode)
	assert.Equal(t, 10, cfg.MaxDepth)
	assert.Equal(t, "iso", cfg.DateFormat)
	assert.Equal(t, ",", cfg.ArraySeparator)
}

func TestLoadMappingFile(t *testing.T) {
	content := `
mode: array_expand
array_field: comments
source: posts.json
skip_invalid_rows: true
exclude_fields:
  - password
rules:
  - source: _id
    target: post_id
  - source: comments[].user
    target: comment_user
  - source: price
    target: price
    transform:
      kind: number
  - source: created_at
    target: created
    required: true
    transform:
      kind: date
      format: unix
`
	path := filepath.Join(t.TempDir(), "mapping.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := LoadMappingFile(path)
	require.NoError(t, err)

	assert.Equal(t, model.ModeArrayExpand, cfg.Mode)
	assert.Equal(t, "comments", cfg.ArrayField)
	assert.Equal(t, "posts.json", cfg.Source)
	assert.True(t, cfg.SkipInvalidRows)
	assert.Equal(t, []string{"password"}, cfg.ExcludeFields)

	require.Len(t, cfg.Rules, 4)
	assert.Equal(t, "post_id", cfg.Rules[0].Target)
	require.NotNil(t, cfg.Rules[2].Transform)
	assert.Equal(t, model.TransformNumber, cfg.Rules[2].Transform.Kind)
	assert.True(t, cfg.Rules[3].Required)
	assert.Equal(t, "unix", cfg.Rules[3].Transform.Format)

	// File settings layer over engine defaults
	assert.Equal(t, 10, cfg.MaxDepth)
	assert.Equal(t, ",", cfg.ArraySeparator)

	assert.NoError(t, cfg.Validate())
}

func TestLoadMappingFileErrors(t *testing.T) {
	_, err := LoadMappingFile(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read mapping file")

	path := filepath.Join(t.TempDir(), "broken.yaml")
	require.NoError(t, os.WriteFile(path, []byte("rules: [broken"), 0o644))

	_, err = LoadMappingFile(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse mapping file")
}

func TestEnvHelpers(t *testing.T) {
	t.Setenv("DOCTAB_TEST_STRING", "hello")
	t.Setenv("DOCTAB_TEST_INT", "42")
	t.Setenv("DOCTAB_TEST_BAD_INT", "not-a-number")
	t.Setenv("DOCTAB_TEST_BOOL", "true")
	t.Setenv("DOCTAB_TEST_BAD_BOOL", "yep")
	t.Setenv("DOCTAB_TEST_SLICE", `a, "b,c" ,d`)

	assert.Equal(t, "hello", getEnv("DOCTAB_TEST_STRING", "fallback"))
	assert.Equal(t, "fallback", getEnv("DOCTAB_TEST_UNSET", "fallback"))

	assert.Equal(t, 42, getEnvAsInt("DOCTAB_TEST_INT", 7))
	assert.Equal(t, 7, getEnvAsInt("DOCTAB_TEST_BAD_INT", 7))

	assert.True(t, getEnvAsBool("DOCTAB_TEST_BOOL", false))
	assert.False(t, getEnvAsBool("DOCTAB_TEST_BAD_BOOL", false))

	assert.Equal(t, []string{"a", "b,c", "d"}, getEnvAsStringSlice("DOCTAB_TEST_SLICE", nil))
	assert.Equal(t, []string{"x"}, getEnvAsStringSlice("DOCTAB_TEST_UNSET", []string{"x"}))
}
