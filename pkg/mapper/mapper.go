package mapper

import (
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"time"

	"go.uber.org/zap"

	"doctab/pkg/config"
	"doctab/pkg/converter"
	"doctab/pkg/flattener"
	"doctab/pkg/model"
)

// Mapper turns batches of documents into a flat typed table
type Mapper struct {
	logger      *zap.Logger
	config      *config.Config
	flattener   *flattener.Flattener
	transformer *converter.Transformer
	metrics     *MappingMetrics
}

// NewMapper creates a Mapper after validating the configuration. A bad
// configuration aborts construction with a non-recoverable Configuration
// error; no partial processing happens afterwards.
func NewMapper(cfg *config.Config, logger *zap.Logger) (*Mapper, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	if cfg == nil {
		return nil, NewMappingError(errors.New("configuration is required"), ErrorKindConfiguration)
	}

	if err := cfg.Validate(); err != nil {
		return nil, NewMappingError(err, ErrorKindConfiguration)
	}

	flat := flattener.NewFlattenerWithConfig(logger, flattener.Config{
		MaxDepth:             cfg.MaxDepth,
		PreserveBufferFields: cfg.PreserveBufferFields,
		ExcludeFields:        cfg.ExcludeFields,
	})

	trans := converter.NewTransformerWithConfig(logger, converter.Config{
		DefaultDateFormat:     cfg.DateFormat,
		DefaultArraySeparator: cfg.ArraySeparator,
	})

	return &Mapper{
		logger:      logger,
		config:      cfg,
		flattener:   flat,
		transformer: trans,
	}, nil
}

// MapBatch maps documents to rows in input order and infers the table
// schema from the result. Per-document failures are collected on the
// BatchResult; unless skip-invalid-rows is enabled the first failure
// aborts the batch and is returned after being recorded. The returned
// BatchResult is always non-nil so callers can inspect errors either way.
func (m *Mapper) MapBatch(docs []model.Document) (*model.Table, *BatchResult, error) {
	result := NewBatchResult(m.config.Source)
	collector := NewErrorCollector(m.logger)
	metrics := NewMappingMetrics(m.logger)
	m.metrics = metrics

	m.logger.Info("Starting mapping batch",
		zap.String("batchId", result.BatchID),
		zap.String("mode", string(m.config.Mode)),
		zap.Int("documents", len(docs)))

	rows := make([]model.Row, 0, len(docs))
	var abort error

	for _, doc := range docs {
		docRows, err := m.mapDocument(doc)
		if err != nil {
			record := AsMappingError(err)
			if record.DocumentID == "" {
				record = record.WithDocument(doc.ID())
			}
			collector.Record(record)
			metrics.RecordError(record.Kind)

			if m.config.SkipInvalidRows && record.Recoverable {
				metrics.RecordSkipped(doc.ID(), record.Message)
				continue
			}
			abort = record
			break
		}

		metrics.RecordDocument(len(docRows))
		rows = append(rows, docRows...)
	}

	result.DocumentsRead = int(metrics.DocumentsRead)
	result.DocumentsSkipped = int(metrics.DocumentsSkipped)
	result.RowsProduced = len(rows)
	result.Errors = collector.Errors()

	if abort != nil {
		result.Complete(false)
		metrics.Complete()
		m.logger.Error("Mapping batch aborted",
			zap.String("batchId", result.BatchID),
			zap.Error(abort))
		return nil, result, abort
	}

	columns := InferColumns(rows)
	metrics.SetColumnCount(len(columns))

	table := &model.Table{
		Columns: columns,
		Rows:    rows,
		Meta: model.TableMeta{
			RowCount:    len(rows),
			ColumnCount: len(columns),
			Mode:        m.config.Mode,
			Source:      m.config.Source,
			BatchID:     result.BatchID,
			GeneratedAt: time.Now(),
		},
	}

	result.Complete(!collector.HasErrors())
	metrics.Complete()

	m.logger.Info("Mapping batch completed",
		zap.String("batchId", result.BatchID),
		zap.Int("rows", len(rows)),
		zap.Int("columns", len(columns)),
		zap.Int("errors", collector.Count()))

	return table, result, nil
}

// Metrics returns the metrics tracker of the most recent batch, or nil
// before the first MapBatch call
func (m *Mapper) Metrics() *MappingMetrics {
	return m.metrics
}

// mapDocument runs one document through the expand/flatten/map pipeline,
// returning the rows it contributes in order
func (m *Mapper) mapDocument(doc model.Document) ([]model.Row, error) {
	if m.config.Mode == model.ModeArrayExpand {
		expanded, err := flattener.ExpandByField(doc, m.config.ArrayField)
		if err != nil {
			return nil, NewMappingError(err, ErrorKindValidation).
				WithField(m.config.ArrayField).
				WithDocument(doc.ID())
		}

		rows := make([]model.Row, 0, len(expanded))
		for _, element := range expanded {
			row, err := m.mapFlattened(element, doc.ID())
			if err != nil {
				return nil, err
			}
			rows = append(rows, row)
		}
		return rows, nil
	}

	row, err := m.mapFlattened(doc, doc.ID())
	if err != nil {
		return nil, err
	}
	return []model.Row{row}, nil
}

// mapFlattened flattens one document and projects it onto the rules
func (m *Mapper) mapFlattened(doc model.Document, docID string) (model.Row, error) {
	flat := m.flattener.Flatten(doc)

	if m.config.IncludeAllFields {
		row := make(model.Row, len(flat))
		for path, value := range flat {
			row[path] = value
		}
		return row, nil
	}

	row := make(model.Row, len(m.config.Rules))
	for _, rule := range m.config.Rules {
		value, ok := flat[rule.Source]
		if !ok {
			if rule.Default != nil {
				row[rule.Target] = rule.Default
				continue
			}
			if rule.Required {
				return nil, NewMappingError(
					fmt.Errorf("required field %q is missing", rule.Source),
					ErrorKindValidation,
				).WithField(rule.Source).WithDocument(docID)
			}
			row[rule.Target] = m.nullValue()
			continue
		}

		if rule.Transform != nil {
			converted, err := m.transformer.Apply(value, *rule.Transform)
			if err != nil {
				return nil, NewMappingError(err, ErrorKindTransformation).
					WithField(rule.Source).
					WithDocument(docID).
					WithValue(value)
			}
			row[rule.Target] = converted
			continue
		}

		row[rule.Target] = passthroughValue(value)
	}

	return row, nil
}

// nullValue returns the configured null sentinel, or nil when none is set
func (m *Mapper) nullValue() interface{} {
	if m.config.NullValue != "" {
		return m.config.NullValue
	}
	return nil
}

// passthroughValue keeps untransformed values as-is except arrays, which
// are serialized to compact JSON text so rows stay two-dimensional
func passthroughValue(value interface{}) interface{} {
	if value == nil {
		return nil
	}

	switch reflect.TypeOf(value).Kind() {
	case reflect.Slice, reflect.Array:
		if b, ok := value.([]byte); ok {
			return string(b)
		}
		data, err := json.Marshal(value)
		if err != nil {
			return fmt.Sprintf("%v", value)
		}
		return string(data)
	default:
		return value
	}
}
