// pkg/model/mapping.go
package model

// TransformKind identifies a typed value conversion
type TransformKind string

const (
	TransformString  TransformKind = "string"
	TransformNumber  TransformKind = "number"
	TransformBoolean TransformKind = "boolean"
	TransformDate    TransformKind = "date"
	TransformArray   TransformKind = "array"
	TransformObject  TransformKind = "object"
	TransformCustom  TransformKind = "custom"
)

// TransformFunc is a caller-supplied conversion used by kind "custom"
type TransformFunc func(value interface{}) (interface{}, error)

// TransformSpec selects a conversion for a mapped field. Format carries the
// date serialization selector (iso, unix, date, datetime) or an array-split
// separator override. Kind is resolved when the transform is applied; an
// unsupported kind surfaces as a per-document failure.
type TransformSpec struct {
	Kind   TransformKind `yaml:"kind" json:"kind"`
	Format string        `yaml:"format,omitempty" json:"format,omitempty"`
	Func   TransformFunc `yaml:"-" json:"-"`
}

// FieldMapping routes one flattened source path to an output column
type FieldMapping struct {
	Source    string         `yaml:"source" json:"source"`
	Target    string         `yaml:"target" json:"target"`
	Transform *TransformSpec `yaml:"transform,omitempty" json:"transform,omitempty"`
	Required  bool           `yaml:"required,omitempty" json:"required,omitempty"`
	Default   interface{}    `yaml:"default,omitempty" json:"default,omitempty"`
}
