package wasm

import (
	"bytes"
	"testing"
)

func TestAppendUleb128(t *testing.T) {
	cases := []struct {
		value uint64
		want  []byte
	}{
		{0, []byte{0x00}},
		{1, []byte{0x01}},
		{127, []byte{0x7F}},
		{128, []byte{0x80, 0x01}},
		{624485, []byte{0xE5, 0x8E, 0x26}},
	}

	for _, c := range cases {
		if got := AppendUleb128(nil, c.value); !bytes.Equal(got, c.want) {
			t.Errorf("AppendUleb128(%d) = % x; want % x", c.value, got, c.want)
		}
	}
}

func TestAppendSleb128(t *testing.T) {
	cases := []struct {
		value int64
		want  []byte
	}{
		{0, []byte{0x00}},
		{1, []byte{0x01}},
		{-1, []byte{0x7F}},
		{63, []byte{0x3F}},
		{127, []byte{0xFF, 0x00}},
		{-128, []byte{0x80, 0x7F}},
		{-624485, []byte{0x9B, 0xF1, 0x59}},
	}

	for _, c := range cases {
		if got := AppendSleb128(nil, c.value); !bytes.Equal(got, c.want) {
			t.Errorf("AppendSleb128(%d) = % x; want % x", c.value, got, c.want)
		}
	}
}

func TestUleb128RoundTrip(t *testing.T) {
	values := []uint64{0, 1, 127, 128, 255, 624485, 1 << 21, 1<<32 - 1, 1 << 40}

	for _, v := range values {
		enc := AppendUleb128(nil, v)

		got, n := DecodeUleb128(enc)
		if n != len(enc) {
			t.Errorf("DecodeUleb128(% x) consumed %d bytes; want %d", enc, n, len(enc))
		}
		if got != v {
			t.Errorf("DecodeUleb128(% x) = %d; want %d", enc, got, v)
		}
	}
}

func TestSleb128RoundTrip(t *testing.T) {
	values := []int64{0, 1, -1, 63, 64, -64, -65, 127, -128, 624485, -624485, 1 << 31, -(1 << 31)}

	for _, v := range values {
		enc := AppendSleb128(nil, v)

		got, n := DecodeSleb128(enc)
		if n != len(enc) {
			t.Errorf("DecodeSleb128(% x) consumed %d bytes; want %d", enc, n, len(enc))
		}
		if got != v {
			t.Errorf("DecodeSleb128(% x) = %d; want %d", enc, got, v)
		}
	}
}

func TestDecodeTruncated(t *testing.T) {
	if _, n := DecodeUleb128([]byte{0x80}); n != 0 {
		t.Errorf("DecodeUleb128 of a truncated encoding consumed %d bytes; want 0", n)
	}

	if _, n := DecodeSleb128([]byte{0xFF}); n != 0 {
		t.Errorf("DecodeSleb128 of a truncated encoding consumed %d bytes; want 0", n)
	}
}
