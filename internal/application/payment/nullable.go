package payment

import (
	"bytes"
	"encoding/json"
)

// Nullable distinguishes a field that was absent from one explicitly set to
// null in a JSON patch body.
type Nullable[T any] struct {
	Set   bool
	Value *T
}

// UnmarshalJSON records that the field was present
func (n *Nullable[T]) UnmarshalJSON(b []byte) error {
	n.Set = true
	if bytes.Equal(bytes.TrimSpace(b), []byte("null")) {
		n.Value = nil
		return nil
	}
	var v T
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	n.Value = &v
	return nil
}

// Of returns a Nullable set to v
func Of[T any](v T) Nullable[T] {
	return Nullable[T]{Set: true, Value: &v}
}

// Null returns a Nullable explicitly set to null
func Null[T any]() Nullable[T] {
	return Nullable[T]{Set: true}
}
