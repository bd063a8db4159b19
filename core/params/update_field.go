package params

import "encoding/json"

// UpdateField is a tri-state PATCH field: absent from the body means "leave
// unchanged", an explicit JSON null means "clear", and a value means "set".
// The zero value is the unset state, so absent keys need no custom handling.
type UpdateField[T any] struct {
	set   bool
	null  bool
	value T
}

func (f *UpdateField[T]) UnmarshalJSON(data []byte) error {
	f.set = true
	if string(data) == "null" {
		f.null = true
		return nil
	}
	return json.Unmarshal(data, &f.value)
}

func (f UpdateField[T]) MarshalJSON() ([]byte, error) {
	if !f.set || f.null {
		return []byte("null"), nil
	}
	return json.Marshal(f.value)
}

// IsSet reports whether the field appeared in the request at all.
func (f UpdateField[T]) IsSet() bool { return f.set }

// IsNull reports whether the field was an explicit null.
func (f UpdateField[T]) IsNull() bool { return f.set && f.null }

// Get returns the value and whether a non-null value was provided.
func (f UpdateField[T]) Get() (T, bool) {
	if !f.set || f.null {
		var zero T
		return zero, false
	}
	return f.value, true
}

// SetTo builds a populated field, mainly for tests.
func SetTo[T any](v T) UpdateField[T] {
	return UpdateField[T]{set: true, value: v}
}

// SetNull builds an explicit-null field, mainly for tests.
func SetNull[T any]() UpdateField[T] {
	return UpdateField[T]{set: true, null: true}
}

// ApplyPtr applies the field to a nullable destination column.
func ApplyPtr[T any](f UpdateField[T], dst **T) {
	if !f.set {
		return
	}
	if f.null {
		*dst = nil
		return
	}
	v := f.value
	*dst = &v
}

// ApplyValue applies the field to a non-nullable destination; explicit null
// is ignored.
func ApplyValue[T any](f UpdateField[T], dst *T) {
	if v, ok := f.Get(); ok {
		*dst = v
	}
}
