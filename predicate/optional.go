package predicate

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Optional a value that may be absent, absence is the "do not filter" signal of a search field.
// The zero value is absent.
type Optional[T any] struct {
	value T
	set   bool
}

// Some a present value.
func Some[T any](v T) Optional[T] {
	return Optional[T]{value: v, set: true}
}

// None an absent value.
func None[T any]() Optional[T] {
	return Optional[T]{}
}

// FromPtr nil is absent.
func FromPtr[T any](p *T) Optional[T] {
	if p == nil {
		return None[T]()
	}
	return Some(*p)
}

// Get the value and whether it is present.
func (o Optional[T]) Get() (T, bool) {
	return o.value, o.set
}

// IsSet reports whether the value is present.
func (o Optional[T]) IsSet() bool {
	return o.set
}

func (o Optional[T]) String() string {
	if !o.set {
		return "none"
	}
	return fmt.Sprint(o.value)
}

// MarshalJSON absent values are encoded as null.
func (o Optional[T]) MarshalJSON() ([]byte, error) {
	if !o.set {
		return []byte("null"), nil
	}
	return json.Marshal(o.value)
}

// UnmarshalJSON null is absent.
func (o *Optional[T]) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		*o = None[T]()
		return nil
	}
	var v T
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*o = Some(v)
	return nil
}
