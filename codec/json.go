package codec

import "encoding/json"

// JSON is the default codec. Values must round-trip through encoding/json,
// so unexported fields are dropped. A nil slice encodes as null; list
// lookups store an empty result as a placeholder, never as a value.
type JSON[V any] struct{}

func (JSON[V]) Encode(v V) ([]byte, error) { return json.Marshal(v) }

func (JSON[V]) Decode(b []byte) (V, error) {
	var v V
	err := json.Unmarshal(b, &v)
	return v, err
}
