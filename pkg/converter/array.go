// pkg/converter/array.go
package converter

import (
	"strings"

	"doctab/pkg/model"
)

// toArray converts a value to a value slice. Arrays pass through, text
// splits on the separator (falling back to the configured default) with
// whitespace-trimmed pieces, nil becomes an empty array and any other
// scalar becomes a single-element array.
func (t *Transformer) toArray(value interface{}, separator string) []interface{} {
	if separator == "" {
		separator = t.config.DefaultArraySeparator
	}

	switch v := value.(type) {
	case nil:
		return []interface{}{}
	case []interface{}:
		return v
	case string:
		pieces := strings.Split(v, separator)
		out := make([]interface{}, len(pieces))
		for i, piece := range pieces {
			out[i] = strings.TrimSpace(piece)
		}
		return out
	default:
		return []interface{}{v}
	}
}

// toObject converts a value to a mapping. Mappings pass through, nil stays
// null and anything else is wrapped under a "value" key.
func (t *Transformer) toObject(value interface{}) interface{} {
	switch v := value.(type) {
	case nil:
		return nil
	case map[string]interface{}:
		return v
	case model.Document:
		return map[string]interface{}(v)
	default:
		return map[string]interface{}{"value": v}
	}
}
