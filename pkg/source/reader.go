// pkg/source/reader.go
package source

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"doctab/pkg/model"
)

// ReadDocuments loads documents from a JSON file on disk
func ReadDocuments(path string) ([]model.Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	docs, err := ReadBatch(f)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	return docs, nil
}

// ReadBatch decodes documents from r, preserving input order. Accepted
// shapes: a top-level JSON array of objects, a single top-level object,
// or a stream of top-level objects (NDJSON). Anything else is rejected.
func ReadBatch(r io.Reader) ([]model.Document, error) {
	dec := json.NewDecoder(r)

	var docs []model.Document
	for i := 0; ; i++ {
		var raw interface{}
		if err := dec.Decode(&raw); err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, fmt.Errorf("invalid JSON at value %d: %w", i, err)
		}

		switch v := raw.(type) {
		case map[string]interface{}:
			docs = append(docs, model.Document(v))
		case []interface{}:
			for j, element := range v {
				obj, ok := element.(map[string]interface{})
				if !ok {
					return nil, fmt.Errorf("array element %d is not an object (got %T)", j, element)
				}
				docs = append(docs, model.Document(obj))
			}
		default:
			return nil, fmt.Errorf("top-level value %d is not an object or array (got %T)", i, raw)
		}
	}

	return docs, nil
}
