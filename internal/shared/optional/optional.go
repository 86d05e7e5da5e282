// Package optional distinguishes a JSON field that was omitted from one
// that was explicitly set to null.
package optional

import (
	"bytes"
	"encoding/json"
)

// Field is a tri-state value: omitted (Present=false), null (Present=true,
// Null=true) or set (Present=true, Null=false).
type Field[T any] struct {
	Present bool
	Null    bool
	Value   T
}

func Of[T any](v T) Field[T] {
	return Field[T]{Present: true, Value: v}
}

func Null[T any]() Field[T] {
	return Field[T]{Present: true, Null: true}
}

// IsSet reports whether the field carries a value.
func (f Field[T]) IsSet() bool {
	return f.Present && !f.Null
}

func (f *Field[T]) UnmarshalJSON(data []byte) error {
	f.Present = true
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		f.Null = true
		var zero T
		f.Value = zero
		return nil
	}
	f.Null = false
	return json.Unmarshal(data, &f.Value)
}

func (f Field[T]) MarshalJSON() ([]byte, error) {
	if !f.IsSet() {
		return []byte("null"), nil
	}
	return json.Marshal(f.Value)
}
