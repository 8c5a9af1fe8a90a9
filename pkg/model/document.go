// pkg/model/document.go
package model

import "fmt"

// Document is a single semi-structured input record. Values follow the
// JSON object model: nested map[string]interface{}, []interface{}, string,
// float64, bool and nil, plus time.Time for records built in memory.
type Document map[string]interface{}

// identifierKeys are checked in order when attributing failures to a document
var identifierKeys = []string{"_id", "id", "uuid"}

// ID returns the document's identifier field rendered as text
// Returns "" when no identifier field is present
func (d Document) ID() string {
	for _, key := range identifierKeys {
		if value, ok := d[key]; ok && value != nil {
			return fmt.Sprintf("%v", value)
		}
	}
	return ""
}

// FlatDocument is a document collapsed to dotted-path keys. No value is
// itself a plain mapping, down to the flattener's depth limit; beyond the
// limit the remaining subtree is stored verbatim. Arrays of scalars remain
// arrays.
type FlatDocument map[string]interface{}
