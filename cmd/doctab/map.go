package main

import (
	"context"
	"fmt"
	"os"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"doctab/pkg/config"
	"doctab/pkg/exporter"
	"doctab/pkg/mapper"
	"doctab/pkg/model"
	"doctab/pkg/source"
)

var (
	mappingFile  string
	outputPath   string
	outputFormat string
	modeFlag     string
	arrayField   string
	includeAll   bool
	skipInvalid  bool
	sourceName   string
	nullValue    string
	pgTable      string
	showReport   bool
)

var mapCmd = &cobra.Command{
	Use:   "map [patterns...]",
	Short: "Map documents from JSON files onto a flat table",
	Long: `Read documents from the given files (glob patterns are supported,
including **), run them through the configured mapping, and write the
resulting table. Configuration comes from the environment, then the
--mapping file, then flags, in that order of precedence.`,
	Args: cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		cfg := resolveConfig()

		paths, err := expandPatterns(args)
		if err != nil {
			fatal("failed to resolve input patterns", err)
		}
		if len(paths) == 0 {
			fatal("no input files", fmt.Errorf("nothing matched %v", args))
		}

		if cfg.Source == "" && len(paths) == 1 {
			cfg.Source = paths[0]
		}

		docs := readAll(paths)

		m, err := mapper.NewMapper(cfg, logger)
		if err != nil {
			fatal("invalid mapping configuration", err)
		}

		table, result, err := m.MapBatch(docs)
		if err != nil {
			fatal("mapping failed", err)
		}

		if err := writeOutput(table, cfg); err != nil {
			fatal("failed to write output", err)
		}

		if showReport {
			fmt.Fprintln(os.Stderr, m.Metrics().GenerateReport())
		}

		logger.Info("Done",
			zap.Int("documents", result.DocumentsRead),
			zap.Int("skipped", result.DocumentsSkipped),
			zap.Int("rows", result.RowsProduced),
			zap.Int("errors", result.ErrorCount()))
	},
}

// resolveConfig layers the mapping file and flag overrides over the
// environment configuration
func resolveConfig() *config.Config {
	cfg := envCfg

	if mappingFile != "" {
		fileCfg, err := config.LoadMappingFile(mappingFile)
		if err != nil {
			fatal("failed to load mapping file", err)
		}
		fileCfg.LogLevel = cfg.LogLevel
		fileCfg.LogFormat = cfg.LogFormat
		cfg = fileCfg
	}

	if modeFlag != "" {
		cfg.Mode = model.ProcessingMode(modeFlag)
	}
	if arrayField != "" {
		cfg.ArrayField = arrayField
	}
	if includeAll {
		cfg.IncludeAllFields = true
	}
	if skipInvalid {
		cfg.SkipInvalidRows = true
	}
	if sourceName != "" {
		cfg.Source = sourceName
	}
	if nullValue != "" {
		cfg.NullValue = nullValue
	}

	return cfg
}

// expandPatterns resolves glob patterns against the filesystem, keeping
// first-match order and dropping duplicates
func expandPatterns(patterns []string) ([]string, error) {
	var paths []string
	seen := make(map[string]bool)

	for _, pattern := range patterns {
		matches, err := doublestar.FilepathGlob(pattern)
		if err != nil {
			return nil, fmt.Errorf("bad pattern %q: %w", pattern, err)
		}
		for _, match := range matches {
			if !seen[match] {
				seen[match] = true
				paths = append(paths, match)
			}
		}
	}

	return paths, nil
}

// readAll loads every input file, concatenating documents in path order
func readAll(paths []string) []model.Document {
	var docs []model.Document
	for _, path := range paths {
		batch, err := source.ReadDocuments(path)
		if err != nil {
			fatal("failed to read documents", err)
		}
		logger.Debug("Read documents",
			zap.String("path", path),
			zap.Int("count", len(batch)))
		docs = append(docs, batch...)
	}
	return docs
}

// writeOutput sends the table to the selected format and destination
func writeOutput(table *model.Table, cfg *config.Config) error {
	if outputFormat == "postgres" {
		return exportPostgres(table)
	}

	exp, err := exporter.ForFormat(outputFormat)
	if err != nil {
		return err
	}

	if csvExp, ok := exp.(*exporter.CSVExporter); ok {
		csvExp.NullValue = cfg.NullValue
	}

	if outputPath == "" {
		return exp.Export(os.Stdout, table)
	}

	f, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", outputPath, err)
	}
	defer f.Close()

	if err := exp.Export(f, table); err != nil {
		return err
	}

	logger.Info("Wrote output file", zap.String("path", outputPath))
	return nil
}

// exportPostgres writes the table into the configured PostgreSQL sink
func exportPostgres(table *model.Table) error {
	pgCfg, err := config.LoadPostgresConfig()
	if err != nil {
		return err
	}
	if pgTable != "" {
		pgCfg.Table = pgTable
	}

	ctx := context.Background()
	exp, err := exporter.NewPostgresExporter(ctx, pgCfg, logger)
	if err != nil {
		return err
	}
	defer exp.Close()

	return exp.ExportTable(ctx, table)
}

// addMappingFlags registers the flags shared by every command that runs
// the mapping pipeline
func addMappingFlags(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&mappingFile, "mapping", "m", "", "Mapping configuration YAML file")
	cmd.Flags().StringVar(&modeFlag, "mode", "", "Mapping mode (flatten, array_expand)")
	cmd.Flags().StringVar(&arrayField, "array-field", "", "Array field to expand in array_expand mode")
	cmd.Flags().BoolVar(&includeAll, "include-all", false, "Pass every flattened field through unmapped")
	cmd.Flags().BoolVar(&skipInvalid, "skip-invalid", false, "Skip documents that fail instead of aborting")
	cmd.Flags().StringVar(&sourceName, "source", "", "Source identifier stamped into table metadata")
}

func init() {
	rootCmd.AddCommand(mapCmd)
	addMappingFlags(mapCmd)

	mapCmd.Flags().StringVarP(&outputPath, "output", "o", "", "Output file (default stdout)")
	mapCmd.Flags().StringVarP(&outputFormat, "format", "f", "csv", "Output format (csv, json, arrays, postgres)")
	mapCmd.Flags().StringVar(&nullValue, "null-value", "", "Text emitted for absent values")
	mapCmd.Flags().StringVar(&pgTable, "table", "", "Destination table for the postgres format")
	mapCmd.Flags().BoolVar(&showReport, "report", false, "Print a metrics report to stderr")
}
