package wire

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
)

const version byte = 1

// Kind tags what a stored frame represents.
type Kind byte

const (
	// KindValue is a real value (scalar or list) encoded by the value codec.
	KindValue Kind = 1
	// KindEmptyObject is a negative placeholder for a scalar lookup. The payload
	// optionally carries the encoded "empty" value of the value type.
	KindEmptyObject Kind = 2
	// KindEmptyList is a negative placeholder for a list lookup. No payload.
	KindEmptyList Kind = 3
)

func (k Kind) String() string {
	switch k {
	case KindValue:
		return "value"
	case KindEmptyObject:
		return "empty_object"
	case KindEmptyList:
		return "empty_list"
	default:
		return fmt.Sprintf("kind(%d)", byte(k))
	}
}

// Negative reports whether k is one of the "confirmed absent" placeholders.
func (k Kind) Negative() bool { return k == KindEmptyObject || k == KindEmptyList }

func (k Kind) valid() bool { return k >= KindValue && k <= KindEmptyList }

var (
	ErrCorrupt = errors.New("cacheaside: corrupt entry")
	magic4     = [...]byte{'C', 'A', 'S', 'E'}
)

const hdr = 4 + 1 + 1 + 4

func hasMagic(b []byte) bool {
	return len(b) >= 4 && bytes.Equal(b[:4], magic4[:])
}

// Entry: magic(4) | ver(1) | kind(1) | vlen(u32 be) | payload(vlen)
func Encode(kind Kind, payload []byte) []byte {
	var buf bytes.Buffer
	buf.Grow(hdr + len(payload))

	buf.Write(magic4[:])
	buf.WriteByte(version)
	buf.WriteByte(byte(kind))

	var u4 [4]byte
	binary.BigEndian.PutUint32(u4[:], uint32(len(payload)))
	buf.Write(u4[:])

	buf.Write(payload)
	return buf.Bytes()
}

// EncodeValue frames a real value.
func EncodeValue(payload []byte) []byte { return Encode(KindValue, payload) }

// EncodeEmptyObject frames a scalar negative placeholder; empty may be nil.
func EncodeEmptyObject(empty []byte) []byte { return Encode(KindEmptyObject, empty) }

// EncodeEmptyList frames a list negative placeholder.
func EncodeEmptyList() []byte { return Encode(KindEmptyList, nil) }

// Decode validates a frame and returns its kind and payload. The payload
// aliases b.
func Decode(b []byte) (Kind, []byte, error) {
	if len(b) < hdr || !hasMagic(b) || b[4] != version {
		return 0, nil, ErrCorrupt
	}
	kind := Kind(b[5])
	if !kind.valid() {
		return 0, nil, ErrCorrupt
	}

	off := 6
	vlen := int(binary.BigEndian.Uint32(b[off : off+4]))
	off += 4
	if vlen < 0 || vlen != len(b)-off { // exact framing, no trailing bytes
		return 0, nil, ErrCorrupt
	}
	if kind == KindEmptyList && vlen != 0 {
		return 0, nil, ErrCorrupt
	}

	return kind, b[off : off+vlen], nil
}
