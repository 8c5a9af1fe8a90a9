// pkg/flattener/expand.go
package flattener

import (
	"fmt"
	"strings"

	"doctab/pkg/model"
)

// ExpandByField produces one derived document per element of the array at
// fieldPath. A trailing "[]" marker on the path is accepted. Each derived
// document shares the parent's remaining fields; the array field itself is
// replaced by a single "{path}[]" entry for a scalar element, or by
// "{path}[].{key}" entries hoisting a mapping element's keys. A zero-length
// array yields zero documents and no error. Missing fields and non-array
// values are errors for the caller to classify. The input document is never
// mutated.
func ExpandByField(doc model.Document, fieldPath string) ([]model.Document, error) {
	path := strings.TrimSuffix(fieldPath, "[]")

	value, ok := ValueAtPath(doc, path)
	if !ok {
		return nil, fmt.Errorf("array field %q not found in document", path)
	}
	arr, ok := value.([]interface{})
	if !ok {
		return nil, fmt.Errorf("field %q is not an array (got %T)", path, value)
	}
	if len(arr) == 0 {
		return nil, nil
	}

	segments := strings.Split(path, ".")
	marker := path + "[]"
	derived := make([]model.Document, 0, len(arr))
	for _, element := range arr {
		d := model.Document(copyWithoutPath(doc, segments))
		if m, ok := asMapping(element); ok {
			for key, v := range m {
				d[marker+"."+key] = v
			}
		} else {
			d[marker] = element
		}
		derived = append(derived, d)
	}
	return derived, nil
}

// copyWithoutPath copies a mapping, dropping the value at the given path.
// Mappings along the path are copied; untouched branches are shared.
func copyWithoutPath(m map[string]interface{}, segments []string) map[string]interface{} {
	out := make(map[string]interface{}, len(m))
	for key, value := range m {
		out[key] = value
	}

	head := segments[0]
	if len(segments) == 1 {
		delete(out, head)
		return out
	}
	if child, ok := asMapping(out[head]); ok {
		out[head] = copyWithoutPath(child, segments[1:])
	}
	return out
}
