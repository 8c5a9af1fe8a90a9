// pkg/exporter/postgres.go
package exporter

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"go.uber.org/zap"

	"doctab/pkg/config"
	"doctab/pkg/model"
)

const insertBatchSize = 1000

// PostgresExporter writes mapped tables into a PostgreSQL database
type PostgresExporter struct {
	db     *sqlx.DB
	logger *zap.Logger
	cfg    *config.PostgresConfig
}

// NewPostgresExporter opens a pooled connection to the sink database
func NewPostgresExporter(ctx context.Context, cfg *config.PostgresConfig, logger *zap.Logger) (*PostgresExporter, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	logger.Info("Connecting to PostgreSQL",
		zap.String("host", cfg.Host),
		zap.Int("port", cfg.Port),
		zap.String("database", cfg.Database),
		zap.String("user", cfg.User))

	db, err := sqlx.Open("postgres", cfg.ConnectionString())
	if err != nil {
		return nil, fmt.Errorf("failed to initialize PostgreSQL connection: %w", err)
	}

	applyPoolSettings(db, cfg)

	if cfg.StatementTimeout > 0 {
		_, err = db.ExecContext(
			ctx,
			fmt.Sprintf("SET statement_timeout = %d", cfg.StatementTimeout.Milliseconds()),
		)
		if err != nil {
			logger.Warn("Failed to set statement timeout", zap.Error(err))
		}
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to PostgreSQL: %w", err)
	}

	return &PostgresExporter{
		db:     db,
		logger: logger,
		cfg:    cfg,
	}, nil
}

// ExportTable creates the destination table when absent, then bulk-inserts
// every row in column order. Existing tables are used as-is; there is no
// schema reconciliation against them.
func (e *PostgresExporter) ExportTable(ctx context.Context, table *model.Table) error {
	if e.cfg.Table == "" {
		return errors.New("postgres table name is not configured")
	}

	if err := e.ensureSchema(ctx); err != nil {
		return err
	}

	if err := e.createTableIfNotExists(ctx, table); err != nil {
		return err
	}

	inserted, err := e.insertRows(ctx, table)
	if err != nil {
		return err
	}

	e.logger.Info("Exported table to PostgreSQL",
		zap.String("table", e.qualifiedTable()),
		zap.Int64("rows", inserted),
		zap.Int("columns", len(table.Columns)))

	return nil
}

// Close releases the connection pool
func (e *PostgresExporter) Close() error {
	e.logger.Info("Closing PostgreSQL connection")

	stats := e.db.Stats()
	e.logger.Debug("Connection pool stats",
		zap.Int("open_connections", stats.OpenConnections),
		zap.Int("in_use", stats.InUse),
		zap.Int("idle", stats.Idle))

	return e.db.Close()
}

// ensureSchema creates the destination schema if it doesn't exist
func (e *PostgresExporter) ensureSchema(ctx context.Context) error {
	query := fmt.Sprintf("CREATE SCHEMA IF NOT EXISTS %s", pq.QuoteIdentifier(e.cfg.Schema))
	if _, err := e.db.ExecContext(ctx, query); err != nil {
		return fmt.Errorf("failed to ensure schema %s: %w", e.cfg.Schema, err)
	}
	return nil
}

// createTableIfNotExists creates the destination table from the inferred
// schema when it does not exist yet
func (e *PostgresExporter) createTableIfNotExists(ctx context.Context, table *model.Table) error {
	var exists bool
	query := `
		SELECT EXISTS (
			SELECT FROM information_schema.tables
			WHERE table_schema = $1 AND table_name = $2
		)
	`

	if err := e.db.QueryRowContext(ctx, query, e.cfg.Schema, e.cfg.Table).Scan(&exists); err != nil {
		return fmt.Errorf("failed to check if table exists: %w", err)
	}

	if exists {
		e.logger.Debug("Table already exists", zap.String("table", e.qualifiedTable()))
		return nil
	}

	defs := make([]string, len(table.Columns))
	for i, col := range table.Columns {
		def := fmt.Sprintf("%s %s", pq.QuoteIdentifier(col.Name), pgTypeFor(col.Type))
		if col.Required {
			def += " NOT NULL"
		}
		defs[i] = def
	}

	createSQL := fmt.Sprintf(
		"CREATE TABLE %s (\n\t%s\n)",
		e.qualifiedTable(),
		strings.Join(defs, ",\n\t"),
	)

	if _, err := e.db.ExecContext(ctx, createSQL); err != nil {
		return fmt.Errorf("failed to create table %s: %w", e.qualifiedTable(), err)
	}

	e.logger.Info("Created table", zap.String("table", e.qualifiedTable()))
	return nil
}

// insertRows performs the bulk insert in batches of numbered placeholders
func (e *PostgresExporter) insertRows(ctx context.Context, table *model.Table) (int64, error) {
	if len(table.Rows) == 0 {
		return 0, nil
	}

	names := table.ColumnNames()
	quoted := make([]string, len(names))
	for i, name := range names {
		quoted[i] = pq.QuoteIdentifier(name)
	}
	columnStr := strings.Join(quoted, ", ")

	var totalRowsInserted int64

	for i := 0; i < len(table.Rows); i += insertBatchSize {
		end := i + insertBatchSize
		if end > len(table.Rows) {
			end = len(table.Rows)
		}

		currentBatch := table.Rows[i:end]

		placeholders := make([]string, len(currentBatch))
		args := make([]interface{}, 0, len(currentBatch)*len(names))

		for j, row := range currentBatch {
			rowPlaceholders := make([]string, len(names))
			for k, name := range names {
				paramIndex := j*len(names) + k + 1
				rowPlaceholders[k] = fmt.Sprintf("$%d", paramIndex)
				args = append(args, sinkValue(row[name]))
			}
			placeholders[j] = fmt.Sprintf("(%s)", strings.Join(rowPlaceholders, ", "))
		}

		query := fmt.Sprintf("INSERT INTO %s (%s) VALUES %s",
			e.qualifiedTable(), columnStr, strings.Join(placeholders, ", "))

		result, err := e.db.ExecContext(ctx, query, args...)
		if err != nil {
			return totalRowsInserted, fmt.Errorf("batch insert failed: %w", err)
		}

		rowsAffected, err := result.RowsAffected()
		if err != nil {
			e.logger.Warn("Couldn't get rows affected", zap.Error(err))
		} else {
			totalRowsInserted += rowsAffected
		}
	}

	return totalRowsInserted, nil
}

func (e *PostgresExporter) qualifiedTable() string {
	return fmt.Sprintf("%s.%s", pq.QuoteIdentifier(e.cfg.Schema), pq.QuoteIdentifier(e.cfg.Table))
}

// pgTypeFor maps inferred column types onto PostgreSQL column types
func pgTypeFor(t model.ColumnType) string {
	switch t {
	case model.ColumnInteger:
		return "BIGINT"
	case model.ColumnFloat:
		return "DOUBLE PRECISION"
	case model.ColumnBoolean:
		return "BOOLEAN"
	case model.ColumnDate:
		return "TIMESTAMPTZ"
	default:
		return "TEXT"
	}
}

// sinkValue converts a cell into a driver-bindable value. Complex values
// go in as JSON text.
func sinkValue(value interface{}) interface{} {
	switch value.(type) {
	case nil, string, bool, time.Time, []byte,
		int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64,
		float32, float64:
		return value
	default:
		data, err := json.Marshal(value)
		if err != nil {
			return fmt.Sprintf("%v", value)
		}
		return string(data)
	}
}

// applyPoolSettings configures the connection pool from the sink config
func applyPoolSettings(db *sqlx.DB, cfg *config.PostgresConfig) {
	if cfg.MaxOpenConns > 0 {
		db.SetMaxOpenConns(cfg.MaxOpenConns)
	}
	if cfg.MaxIdleConns > 0 {
		db.SetMaxIdleConns(cfg.MaxIdleConns)
	}
	if cfg.ConnMaxLifetime > 0 {
		db.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	}
	if cfg.ConnMaxIdleTime > 0 {
		db.SetConnMaxIdleTime(cfg.ConnMaxIdleTime)
	}
}
