package wasm

// This file implements the LEB128 variable length integer codec used by every
// number in the binary module format: unsigned for counts and indices, signed
// for integer literal constants.

// AppendUleb128 appends the unsigned LEB128 encoding of v to dst.
func AppendUleb128(dst []byte, v uint64) []byte {
	for v >= 0x80 {
		dst = append(dst, byte(v&0x7F)|0x80)
		v >>= 7
	}

	return append(dst, byte(v))
}

// AppendSleb128 appends the signed LEB128 encoding of v to dst.
func AppendSleb128(dst []byte, v int64) []byte {
	for {
		b := byte(v & 0x7F)
		v >>= 7

		if (v == 0 && b&0x40 == 0) || (v == -1 && b&0x40 != 0) {
			return append(dst, b)
		}

		dst = append(dst, b|0x80)
	}
}

// DecodeUleb128 decodes an unsigned LEB128 value from the front of b,
// returning the value and the number of bytes consumed.  A consumed count of
// zero indicates a truncated encoding.
func DecodeUleb128(b []byte) (uint64, int) {
	var v uint64
	var shift uint

	for i, c := range b {
		v |= uint64(c&0x7F) << shift

		if c&0x80 == 0 {
			return v, i + 1
		}

		shift += 7
	}

	return 0, 0
}

// DecodeSleb128 decodes a signed LEB128 value from the front of b, returning
// the value and the number of bytes consumed.  A consumed count of zero
// indicates a truncated encoding.
func DecodeSleb128(b []byte) (int64, int) {
	var v int64
	var shift uint

	for i, c := range b {
		v |= int64(c&0x7F) << shift
		shift += 7

		if c&0x80 == 0 {
			// Sign-extend if the sign bit of the final byte is set.
			if shift < 64 && c&0x40 != 0 {
				v |= -1 << shift
			}

			return v, i + 1
		}
	}

	return 0, 0
}
