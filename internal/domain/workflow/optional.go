package workflow

import (
	"bytes"
	"encoding/json"
)

// Optional is a collection that may be absent. Absent and present-but-empty are different
// states and both survive a JSON round trip.
type Optional[T any] struct {
	items   []T
	present bool
}

func Some[T any](items ...T) Optional[T] {
	if items == nil {
		items = []T{}
	}
	return Optional[T]{items: items, present: true}
}

func None[T any]() Optional[T] {
	return Optional[T]{}
}

func (o Optional[T]) Present() bool {
	return o.present
}

func (o Optional[T]) Items() []T {
	return o.items
}

func (o Optional[T]) Len() int {
	return len(o.items)
}

func (o *Optional[T]) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		*o = Optional[T]{}
		return nil
	}
	var items []T
	if err := json.Unmarshal(data, &items); err != nil {
		return err
	}
	*o = Some(items...)
	return nil
}

func (o Optional[T]) MarshalJSON() ([]byte, error) {
	if !o.present {
		return []byte("null"), nil
	}
	return json.Marshal(o.items)
}
