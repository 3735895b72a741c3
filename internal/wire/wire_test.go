package wire

import (
	"bytes"
	"encoding/binary"
	"testing"
)

func mustDecode(t *testing.T, b []byte) (Kind, []byte) {
	t.Helper()
	k, p, err := Decode(b)
	if err != nil {
		t.Fatalf("Decode error: %v", err)
	}
	return k, p
}

func TestValueRoundTrip(t *testing.T) {
	cases := [][]byte{
		nil,
		[]byte("hello"),
		{0, 1, 2, 3, 4},
		[]byte("[]"), // a real empty list is still a value
	}
	for _, payload := range cases {
		k, p := mustDecode(t, EncodeValue(payload))
		if k != KindValue {
			t.Fatalf("kind: got %v want %v", k, KindValue)
		}
		if !bytes.Equal(p, payload) {
			t.Fatalf("payload mismatch: got %x want %x", p, payload)
		}
	}
}

func TestNegativeKindsDistinct(t *testing.T) {
	obj, _ := mustDecode(t, EncodeEmptyObject(nil))
	list, _ := mustDecode(t, EncodeEmptyList())
	val, _ := mustDecode(t, EncodeValue([]byte("[]")))

	if !obj.Negative() || !list.Negative() {
		t.Fatalf("placeholders must be negative: obj=%v list=%v", obj, list)
	}
	if val.Negative() {
		t.Fatalf("an encoded empty list value must not read as negative")
	}
	if obj == list {
		t.Fatalf("empty object and empty list must differ")
	}
}

func TestEmptyObjectCarriesFactoryPayload(t *testing.T) {
	k, p := mustDecode(t, EncodeEmptyObject([]byte(`{"id":0}`)))
	if k != KindEmptyObject || string(p) != `{"id":0}` {
		t.Fatalf("got kind=%v payload=%q", k, p)
	}
}

func TestRejectsTrailingBytes(t *testing.T) {
	enc := EncodeValue([]byte("x"))
	enc = append(enc, 0xDE, 0xAD)
	if _, _, err := Decode(enc); err == nil {
		t.Fatalf("expected error on trailing bytes")
	}
}

func TestCorruptHeadersAndLengths(t *testing.T) {
	enc := EncodeValue([]byte("abc"))

	badMagic := append([]byte(nil), enc...)
	badMagic[0] = 'X'
	if _, _, err := Decode(badMagic); err == nil {
		t.Fatalf("expected error on bad magic")
	}

	badVer := append([]byte(nil), enc...)
	badVer[4] = version + 1
	if _, _, err := Decode(badVer); err == nil {
		t.Fatalf("expected error on bad version")
	}

	badKind := append([]byte(nil), enc...)
	badKind[5] = 9
	if _, _, err := Decode(badKind); err == nil {
		t.Fatalf("expected error on unknown kind")
	}

	tooLong := append([]byte(nil), enc...)
	// vlen lives at 6..9 (4 magic +1 ver +1 kind)
	binary.BigEndian.PutUint32(tooLong[6:10], uint32(len("abc")+1))
	if _, _, err := Decode(tooLong); err == nil {
		t.Fatalf("expected error on vlen beyond buffer")
	}

	if _, _, err := Decode(enc[:len(enc)-1]); err == nil {
		t.Fatalf("expected error on truncated buffer")
	}

	if _, _, err := Decode([]byte("{}")); err == nil {
		t.Fatalf("expected error on foreign bytes")
	}
}

func TestEmptyListRejectsPayload(t *testing.T) {
	b := Encode(KindEmptyList, []byte("x"))
	if _, _, err := Decode(b); err == nil {
		t.Fatalf("expected error on empty-list frame with payload")
	}
}
