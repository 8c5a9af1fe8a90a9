package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"doctab/pkg/config"
)

var (
	logLevel  string
	logFormat string

	envCfg *config.Config
	logger *zap.Logger
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "doctab",
	Short: "Map JSON documents onto flat, typed tables",
	Long: `doctab flattens nested documents into dotted-path columns, applies
field-mapping rules with typed transforms, and infers a column schema from
the rows it produces. Tables can be written as CSV, JSON, array-of-arrays
or straight into PostgreSQL.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		cfg, err := config.LoadConfig()
		if err != nil {
			fatal("failed to load configuration", err)
		}
		envCfg = cfg

		if logLevel != "" {
			envCfg.LogLevel = logLevel
		}
		if logFormat != "" {
			envCfg.LogFormat = logFormat
		}

		logger, err = buildLogger(envCfg.LogLevel, envCfg.LogFormat)
		if err != nil {
			fatal("failed to configure logging", err)
		}
		zap.ReplaceGlobals(logger)
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main().
func Execute() {
	defer func() {
		if logger != nil {
			_ = logger.Sync()
		}
	}()

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// buildLogger constructs the zap logger the engine components share
func buildLogger(level, format string) (*zap.Logger, error) {
	parsed, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", level, err)
	}

	var cfg zap.Config
	if format == "console" {
		cfg = zap.NewDevelopmentConfig()
	} else {
		cfg = zap.NewProductionConfig()
	}
	cfg.Level = zap.NewAtomicLevelAt(parsed)

	return cfg.Build()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "", "Log format (json, console)")
}
