package models

import (
	"encoding/json"
	"fmt"
)

// Field is a report value that may be absent from the source row. A missing
// field keeps the human readable reason that consumers see in its place.
type Field[T any] struct {
	value   T
	reason  string
	present bool
}

// Present wraps a value read from the report.
func Present[T any](value T) Field[T] {
	return Field[T]{value: value, present: true}
}

// Missing marks a field as absent with the given reason.
func Missing[T any](reason string) Field[T] {
	return Field[T]{reason: reason}
}

// Value returns the wrapped value and whether it was present.
func (f Field[T]) Value() (T, bool) {
	return f.value, f.present
}

func (f Field[T]) IsMissing() bool {
	return !f.present
}

// Reason is empty for present fields.
func (f Field[T]) Reason() string {
	return f.reason
}

func (f Field[T]) String() string {
	if !f.present {
		return f.reason
	}
	return fmt.Sprint(f.value)
}

// MarshalJSON emits the value itself, or the reason string when missing.
func (f Field[T]) MarshalJSON() ([]byte, error) {
	if !f.present {
		return json.Marshal(f.reason)
	}
	return json.Marshal(f.value)
}

// UnmarshalJSON accepts either a value of type T or a reason string.
func (f *Field[T]) UnmarshalJSON(data []byte) error {
	var value T
	if err := json.Unmarshal(data, &value); err == nil {
		*f = Present(value)
		return nil
	}

	var reason string
	if err := json.Unmarshal(data, &reason); err != nil {
		return fmt.Errorf("field is neither a value nor a missing reason: %s", data)
	}
	*f = Missing[T](reason)
	return nil
}

// orMissing turns a present value whose text equals reason back into a
// missing field. String fields cannot tell the two apart on the wire.
func (f Field[T]) orMissing(reason string) Field[T] {
	if f.present && fmt.Sprint(f.value) == reason {
		return Missing[T](reason)
	}
	return f
}
