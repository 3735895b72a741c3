package codec

// Bytes stores []byte values as-is. Decode copies, since the payload it is
// handed may alias a buffer owned by the local tier.
type Bytes struct{}

func (Bytes) Encode(b []byte) ([]byte, error) { return b, nil }

func (Bytes) Decode(b []byte) ([]byte, error) {
	if b == nil {
		return nil, nil
	}
	return append([]byte{}, b...), nil
}

// String stores strings as their raw UTF-8 bytes.
type String struct{}

func (String) Encode(s string) ([]byte, error) { return []byte(s), nil }
func (String) Decode(b []byte) (string, error) { return string(b), nil }
