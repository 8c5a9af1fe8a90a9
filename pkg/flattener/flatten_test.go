package flattener

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"doctab/pkg/model"
)

func TestFlattenNestedMappings(t *testing.T) {
	f := NewFlattener(zap.NewNop())

	flat := f.Flatten(model.Document{
		"name": "Widget",
		"user": map[string]interface{}{
			"email": "w@example.com",
			"address": map[string]interface{}{
				"city": "Oslo",
			},
		},
	})

	assert.Equal(t, model.FlatDocument{
		"name":              "Widget",
		"user.email":        "w@example.com",
		"user.address.city": "Oslo",
	}, flat)
}

func TestFlattenTerminalValues(t *testing.T) {
	f := NewFlattener(zap.NewNop())

	tests := []struct {
		name string
		doc  model.Document
		want model.FlatDocument
	}{
		{
			name: "null stays null",
			doc:  model.Document{"email": nil},
			want: model.FlatDocument{"email": nil},
		},
		{
			name: "array of scalars stays an array",
			doc:  model.Document{"tags": []interface{}{"admin", "dev"}},
			want: model.FlatDocument{"tags": []interface{}{"admin", "dev"}},
		},
		{
			name: "empty array stays an empty array",
			doc:  model.Document{"tags": []interface{}{}},
			want: model.FlatDocument{"tags": []interface{}{}},
		},
		{
			name: "scalars pass through",
			doc:  model.Document{"n": 42.0, "ok": true, "s": "x"},
			want: model.FlatDocument{"n": 42.0, "ok": true, "s": "x"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, f.Flatten(tt.doc))
		})
	}
}

func TestFlattenArrayOfMappings(t *testing.T) {
	f := NewFlattener(zap.NewNop())

	flat := f.Flatten(model.Document{
		"comments": []interface{}{
			map[string]interface{}{"user": "alice", "text": "first"},
			map[string]interface{}{"user": "bob", "text": "second"},
		},
	})

	assert.Equal(t, model.FlatDocument{
		"comments[0].user": "alice",
		"comments[0].text": "first",
		"comments[1].user": "bob",
		"comments[1].text": "second",
	}, flat)
}

func TestFlattenMixedArrayIndexesEveryElement(t *testing.T) {
	f := NewFlattener(zap.NewNop())

	flat := f.Flatten(model.Document{
		"entries": []interface{}{
			"plain",
			map[string]interface{}{"kind": "structured"},
		},
	})

	assert.Equal(t, model.FlatDocument{
		"entries[0]":      "plain",
		"entries[1].kind": "structured",
	}, flat)
}

func TestFlattenDepthLimit(t *testing.T) {
	f := NewFlattenerWithConfig(zap.NewNop(), Config{MaxDepth: 2})

	subtree := map[string]interface{}{
		"c": map[string]interface{}{"d": 1.0},
	}
	flat := f.Flatten(model.Document{
		"a": map[string]interface{}{
			"b": subtree,
		},
	})

	// two mapping levels collapse, the rest is stored verbatim
	require.Len(t, flat, 1)
	assert.Equal(t, subtree, flat["a.b"])
}

func TestFlattenDefaultDepthCoversTypicalDocuments(t *testing.T) {
	f := NewFlattener(zap.NewNop())

	// build a chain nested well past typical document shapes but inside
	// the default limit
	doc := model.Document{}
	current := map[string]interface{}(doc)
	for i := 0; i < 9; i++ {
		child := map[string]interface{}{}
		current["n"] = child
		current = child
	}
	current["leaf"] = "v"

	flat := f.Flatten(doc)
	require.Len(t, flat, 1)
	assert.Equal(t, "v", flat["n.n.n.n.n.n.n.n.n.leaf"])
}

func TestFlattenChildKeyWinsCollision(t *testing.T) {
	f := NewFlattener(zap.NewNop())

	flat := f.Flatten(model.Document{
		"a.b": "literal",
		"a":   map[string]interface{}{"b": "child"},
	})

	assert.Equal(t, model.FlatDocument{"a.b": "child"}, flat)
}

func TestFlattenIdempotent(t *testing.T) {
	f := NewFlattener(zap.NewNop())

	doc := model.Document{
		"user": map[string]interface{}{
			"name": "alice",
			"tags": []interface{}{"a", "b"},
		},
		"active": true,
	}

	once := f.Flatten(doc)
	twice := f.Flatten(model.Document(once))
	assert.Equal(t, once, twice)
}

func TestFlattenNeverEmitsMappingValues(t *testing.T) {
	f := NewFlattener(zap.NewNop())

	flat := f.Flatten(model.Document{
		"a": map[string]interface{}{
			"b": map[string]interface{}{"c": 1.0},
			"d": []interface{}{map[string]interface{}{"e": 2.0}},
		},
		"f": []interface{}{"scalar"},
	})

	for path, value := range flat {
		_, isMapping := value.(map[string]interface{})
		assert.False(t, isMapping, "path %q still holds a mapping", path)
	}
}

func TestFlattenBufferSuppression(t *testing.T) {
	doc := model.Document{
		"name": "doc",
		"avatar": map[string]interface{}{
			"buffer": map[string]interface{}{
				"0": 137.0,
				"1": 80.0,
			},
		},
		"thumb": map[string]interface{}{
			"buffer": []interface{}{1.0, 2.0},
		},
	}

	t.Run("suppressed by default", func(t *testing.T) {
		f := NewFlattener(zap.NewNop())
		flat := f.Flatten(doc)
		assert.Equal(t, model.FlatDocument{"name": "doc"}, flat)
	})

	t.Run("preserved when configured", func(t *testing.T) {
		f := NewFlattenerWithConfig(zap.NewNop(), Config{
			MaxDepth:             10,
			PreserveBufferFields: true,
		})
		flat := f.Flatten(doc)
		assert.Equal(t, 137.0, flat["avatar.buffer.0"])
		assert.Equal(t, 80.0, flat["avatar.buffer.1"])
		assert.Equal(t, []interface{}{1.0, 2.0}, flat["thumb.buffer"])
	})

	t.Run("top level buffer key is kept", func(t *testing.T) {
		f := NewFlattener(zap.NewNop())
		flat := f.Flatten(model.Document{"buffer": "not binary"})
		assert.Equal(t, model.FlatDocument{"buffer": "not binary"}, flat)
	})
}

func TestFlattenExcludeFields(t *testing.T) {
	f := NewFlattenerWithConfig(zap.NewNop(), Config{
		MaxDepth:      10,
		ExcludeFields: []string{"secret.token", "internal"},
	})

	flat := f.Flatten(model.Document{
		"name":     "doc",
		"internal": true,
		"secret":   map[string]interface{}{"token": "abc", "hint": "keep"},
	})

	assert.Equal(t, model.FlatDocument{
		"name":        "doc",
		"secret.hint": "keep",
	}, flat)
}

func TestIsBufferPath(t *testing.T) {
	tests := []struct {
		path string
		want bool
	}{
		{"avatar.buffer", true},
		{"avatar.buffer.0", true},
		{"avatar.buffer.12", true},
		{"buffer", false},
		{"avatar.buffered", false},
		{"avatar.buffer.x", false},
		{"user.name", false},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, IsBufferPath(tt.path), "path %q", tt.path)
	}
}
