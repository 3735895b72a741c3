package codec

import (
	"errors"

	"google.golang.org/protobuf/encoding/protowire"
	"google.golang.org/protobuf/proto"
)

var errProtoList = errors.New("codec: malformed protobuf list")

// Protobuf stores a single proto message per entry. Use it for scalar and
// keyed scalar lookups; list lookups take ProtobufList.
type Protobuf[T proto.Message] struct {
	new func() T // e.g. func() *userpb.User { return &userpb.User{} }
}

func NewProtobuf[T proto.Message](ctor func() T) Protobuf[T] {
	return Protobuf[T]{new: ctor}
}

func (c Protobuf[T]) Encode(v T) ([]byte, error) { return proto.Marshal(v) }

func (c Protobuf[T]) Decode(b []byte) (T, error) {
	m := c.new()
	err := proto.Unmarshal(b, m)
	return m, err
}

// ProtobufList stores a slice of messages as consecutive length-delimited
// records.
type ProtobufList[T proto.Message] struct {
	new func() T
}

func NewProtobufList[T proto.Message](ctor func() T) ProtobufList[T] {
	return ProtobufList[T]{new: ctor}
}

func (c ProtobufList[T]) Encode(vs []T) ([]byte, error) {
	var out []byte
	for _, v := range vs {
		b, err := proto.Marshal(v)
		if err != nil {
			return nil, err
		}
		out = protowire.AppendBytes(out, b)
	}
	return out, nil
}

func (c ProtobufList[T]) Decode(b []byte) ([]T, error) {
	out := []T{}
	for len(b) > 0 {
		rec, n := protowire.ConsumeBytes(b)
		if n < 0 {
			return nil, errProtoList
		}
		m := c.new()
		if err := proto.Unmarshal(rec, m); err != nil {
			return nil, err
		}
		out = append(out, m)
		b = b[n:]
	}
	return out, nil
}
