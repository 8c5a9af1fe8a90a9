// pkg/flattener/accessor.go
package flattener

import (
	"strings"

	"doctab/pkg/model"
)

// ValueAtPath resolves a dotted path such as "user.address.city" against a
// nested document by successive key lookups. The second return is false when
// any segment is missing or an intermediate value is not a mapping; the
// lookup never panics.
func ValueAtPath(doc map[string]interface{}, path string) (interface{}, bool) {
	if doc == nil || path == "" {
		return nil, false
	}

	segments := strings.Split(path, ".")
	current := doc
	for i, segment := range segments {
		value, ok := current[segment]
		if !ok {
			return nil, false
		}
		if i == len(segments)-1 {
			return value, true
		}
		next, ok := asMapping(value)
		if !ok {
			return nil, false
		}
		current = next
	}
	return nil, false
}

// asMapping normalizes the two mapping shapes a document can carry
func asMapping(value interface{}) (map[string]interface{}, bool) {
	switch m := value.(type) {
	case map[string]interface{}:
		return m, true
	case model.Document:
		return m, true
	}
	return nil, false
}
