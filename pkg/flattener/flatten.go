// pkg/flattener/flatten.go
package flattener

import (
	"fmt"
	"regexp"
	"sort"

	"go.uber.org/zap"

	"doctab/pkg/model"
)

// Config controls flattening behavior
type Config struct {
	MaxDepth             int      // mapping levels collapsed before subtrees are stored verbatim
	PreserveBufferFields bool     // keep binary-buffer paths instead of suppressing them
	ExcludeFields        []string // flattened keys dropped by exact name
}

// DefaultConfig returns the default flattening configuration
func DefaultConfig() Config {
	return Config{
		MaxDepth: 10, // nesting levels collapsed before giving up
	}
}

// Flattener collapses nested documents into dotted-path flat documents
type Flattener struct {
	logger  *zap.Logger
	config  Config
	exclude map[string]struct{}
}

// NewFlattener creates a flattener with the default configuration
func NewFlattener(logger *zap.Logger) *Flattener {
	return NewFlattenerWithConfig(logger, DefaultConfig())
}

// NewFlattenerWithConfig creates a flattener with custom configuration
func NewFlattenerWithConfig(logger *zap.Logger, config Config) *Flattener {
	if logger == nil {
		logger = zap.NewNop()
	}
	if config.MaxDepth <= 0 {
		config.MaxDepth = DefaultConfig().MaxDepth
	}

	exclude := make(map[string]struct{}, len(config.ExcludeFields))
	for _, name := range config.ExcludeFields {
		exclude[name] = struct{}{}
	}

	return &Flattener{
		logger:  logger,
		config:  config,
		exclude: exclude,
	}
}

// Flatten collapses doc into dotted-path keys. Null values are terminal,
// arrays of scalars (and empty arrays) stay arrays, arrays containing
// mappings recurse per element with field[index] paths, and mappings at or
// beyond the depth limit are stored verbatim. Excluded and buffer-suppressed
// keys are pruned before returning.
func (f *Flattener) Flatten(doc model.Document) model.FlatDocument {
	flat := make(model.FlatDocument)
	f.flattenMapping("", doc, 1, flat)

	suppressed := 0
	for path := range flat {
		if f.shouldSuppress(path) {
			delete(flat, path)
			suppressed++
		}
	}
	if suppressed > 0 {
		f.logger.Debug("Suppressed flattened keys",
			zap.Int("count", suppressed))
	}

	return flat
}

// flattenMapping walks one mapping level. Terminal values are written before
// nested mappings are recursed so that a recursed child key wins any
// collision with a literal dotted key. Keys are visited in sorted order to
// keep output deterministic.
func (f *Flattener) flattenMapping(prefix string, m map[string]interface{}, depth int, out model.FlatDocument) {
	keys := make([]string, 0, len(m))
	for key := range m {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	var nested []string
	for _, key := range keys {
		if _, ok := asMapping(m[key]); ok && depth < f.config.MaxDepth {
			nested = append(nested, key)
			continue
		}
		f.flattenValue(joinPath(prefix, key), m[key], depth, out)
	}
	for _, key := range nested {
		f.flattenValue(joinPath(prefix, key), m[key], depth, out)
	}
}

func (f *Flattener) flattenValue(path string, value interface{}, depth int, out model.FlatDocument) {
	if value == nil {
		out[path] = nil
		return
	}

	if m, ok := asMapping(value); ok {
		if depth >= f.config.MaxDepth {
			f.logger.Debug("Depth limit reached, storing subtree verbatim",
				zap.String("path", path),
				zap.Int("depth", depth))
			out[path] = value
			return
		}
		f.flattenMapping(path, m, depth+1, out)
		return
	}

	if arr, ok := value.([]interface{}); ok {
		if containsMapping(arr) {
			for i, element := range arr {
				f.flattenValue(fmt.Sprintf("%s[%d]", path, i), element, depth, out)
			}
			return
		}
		// empty arrays and arrays of scalars are terminal values
		out[path] = value
		return
	}

	out[path] = value
}

func (f *Flattener) shouldSuppress(path string) bool {
	if _, excluded := f.exclude[path]; excluded {
		return true
	}
	if !f.config.PreserveBufferFields && IsBufferPath(path) {
		return true
	}
	return false
}

func joinPath(prefix, key string) string {
	if prefix == "" {
		return key
	}
	return prefix + "." + key
}

// bufferPathPattern matches trailing binary-buffer segments such as
// "avatar.buffer" or "avatar.buffer.0"
var bufferPathPattern = regexp.MustCompile(`\.buffer(\.[0-9]+)?$`)

// IsBufferPath reports whether a flattened path addresses binary buffer
// content
func IsBufferPath(path string) bool {
	return bufferPathPattern.MatchString(path)
}

func containsMapping(arr []interface{}) bool {
	for _, element := range arr {
		if _, ok := asMapping(element); ok {
			return true
		}
	}
	return false
}
