package types

import (
	"bytes"
	"encoding/json"

	"github.com/google/uuid"
)

// Nullable distinguishes an absent field from an explicit null in a PATCH
// body. Set is true whenever the key was present; Value is nil for null.
type Nullable[T any] struct {
	Set   bool
	Value *T
}

func (n *Nullable[T]) UnmarshalJSON(data []byte) error {
	n.Set = true
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		n.Value = nil
		return nil
	}
	var v T
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	n.Value = &v
	return nil
}

// Some builds a Nullable that assigns v.
func Some[T any](v T) Nullable[T] {
	return Nullable[T]{Set: true, Value: &v}
}

// None builds a Nullable that clears the field.
func None[T any]() Nullable[T] {
	return Nullable[T]{Set: true}
}

// NullableUUID is a clearable reference to another row.
type NullableUUID = Nullable[uuid.UUID]

// Null builds a NullableUUID that clears the field.
func Null() NullableUUID {
	return None[uuid.UUID]()
}

// SetUUID builds a NullableUUID that assigns id.
func SetUUID(id uuid.UUID) NullableUUID {
	return Some(id)
}
