// Package nullable implements three-state JSON fields for partial updates: a
// field may be absent from the payload, explicitly null, or carry a value.
package nullable

import "encoding/json"

type Field[T any] struct {
	Set   bool
	Value *T
}

func Of[T any](v T) Field[T] {
	return Field[T]{Set: true, Value: &v}
}

func Null[T any]() Field[T] {
	return Field[T]{Set: true}
}

func (f Field[T]) IsNull() bool {
	return f.Set && f.Value == nil
}

// UnmarshalJSON only runs for keys present in the payload, so an absent key
// leaves Set false.
func (f *Field[T]) UnmarshalJSON(data []byte) error {
	f.Set = true
	if string(data) == "null" {
		f.Value = nil
		return nil
	}
	var v T
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	f.Value = &v
	return nil
}

// ApplyTo overwrites dst when the field was present, including with nil.
func (f Field[T]) ApplyTo(dst **T) {
	if f.Set {
		*dst = f.Value
	}
}

// ApplyValue overwrites a non-nullable dst. It reports false, leaving dst
// untouched, when the field was explicitly null.
func (f Field[T]) ApplyValue(dst *T) bool {
	if !f.Set {
		return true
	}
	if f.Value == nil {
		return false
	}
	*dst = *f.Value
	return true
}

func Map[A, B any](f Field[A], fn func(A) B) Field[B] {
	if !f.Set {
		return Field[B]{}
	}
	if f.Value == nil {
		return Null[B]()
	}
	return Of(fn(*f.Value))
}
