// Package codec turns loader values into the payload bytes stored inside a
// cache frame. Lists and maps of values are encoded by a codec for the
// stored shape (e.g. JSON[[]User] for a list lookup).
package codec

// Codec encodes/decodes values V to []byte for storage.
type Codec[V any] interface {
	Encode(V) ([]byte, error)
	Decode([]byte) (V, error)
}

// Or returns c, or JSON when c is nil.
func Or[V any](c Codec[V]) Codec[V] {
	if c == nil {
		return JSON[V]{}
	}
	return c
}

// Funcs adapts a pair of functions into a Codec.
type Funcs[V any] struct {
	EncodeFunc func(V) ([]byte, error)
	DecodeFunc func([]byte) (V, error)
}

func (f Funcs[V]) Encode(v V) ([]byte, error) { return f.EncodeFunc(v) }
func (f Funcs[V]) Decode(b []byte) (V, error) { return f.DecodeFunc(b) }
