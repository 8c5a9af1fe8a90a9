// pkg/converter/values.go
package converter

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// toString converts a value to text. Mappings and arrays are JSON-serialized,
// times rendered RFC 3339, nil becomes the empty string.
func (t *Transformer) toString(value interface{}) string {
	switch v := value.(type) {
	case string:
		return v
	case []byte:
		return string(v)
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64, float32, float64, bool:
		return fmt.Sprintf("%v", v)
	case time.Time:
		return v.Format(time.RFC3339)
	case nil:
		return ""
	default:
		// JSON marshaling covers mappings, arrays and anything nested
		jsonBytes, err := json.Marshal(v)
		if err != nil {
			return fmt.Sprintf("%v", v)
		}
		return string(jsonBytes)
	}
}

// toNumber coerces a value to a float64. Non-numeric input yields NaN,
// propagated as a value rather than an error.
func (t *Transformer) toNumber(value interface{}) float64 {
	switch v := value.(type) {
	case nil:
		return math.NaN()
	case float64:
		return v
	case float32:
		return float64(v)
	case int:
		return float64(v)
	case int8:
		return float64(v)
	case int16:
		return float64(v)
	case int32:
		return float64(v)
	case int64:
		return float64(v)
	case uint:
		return float64(v)
	case uint8:
		return float64(v)
	case uint16:
		return float64(v)
	case uint32:
		return float64(v)
	case uint64:
		return float64(v)
	case bool:
		if v {
			return 1
		}
		return 0
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return math.NaN()
		}
		return parsed
	case json.Number:
		parsed, err := v.Float64()
		if err != nil {
			return math.NaN()
		}
		return parsed
	default:
		return math.NaN()
	}
}

// truthyStrings are the only text values that convert to true
var truthyStrings = []string{"true", "1", "yes"}

// toBoolean converts a value to a bool. Text is matched case-insensitively
// against the truthy set and everything else is false; numbers are true when
// non-zero; remaining non-nil values (arrays, mappings) are truthy.
func (t *Transformer) toBoolean(value interface{}) bool {
	switch v := value.(type) {
	case nil:
		return false
	case bool:
		return v
	case string:
		v = strings.ToLower(strings.TrimSpace(v))
		for _, truthy := range truthyStrings {
			if v == truthy {
				return true
			}
		}
		return false
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64, float32, float64:
		n := t.toNumber(v)
		return n != 0 && !math.IsNaN(n)
	default:
		return true
	}
}
