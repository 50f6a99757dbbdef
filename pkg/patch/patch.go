// Package patch carries partial-update values that remember whether a field
// was present in the request body.
package patch

import "encoding/json"

// Field is absent when Set is false. A JSON null sets both Set and Null.
type Field[T any] struct {
	Value T
	Set   bool
	Null  bool
}

func Some[T any](v T) Field[T] {
	return Field[T]{Value: v, Set: true}
}

func Null[T any]() Field[T] {
	return Field[T]{Set: true, Null: true}
}

func (f *Field[T]) UnmarshalJSON(data []byte) error {
	f.Set = true
	if string(data) == "null" {
		var zero T
		f.Value = zero
		f.Null = true
		return nil
	}
	f.Null = false
	return json.Unmarshal(data, &f.Value)
}

func (f Field[T]) MarshalJSON() ([]byte, error) {
	if !f.Set || f.Null {
		return []byte("null"), nil
	}
	return json.Marshal(f.Value)
}

// Get returns the value when the field was sent with a non-null value.
func (f Field[T]) Get() (T, bool) {
	if !f.Set || f.Null {
		var zero T
		return zero, false
	}
	return f.Value, true
}
