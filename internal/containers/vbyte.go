package containers

import (
	"fmt"
	"io"
)

// HDT variable-byte encoding: seven value bits per byte, least significant
// group first, high bit set on the final byte.

// AppendVByte appends the vbyte encoding of v to dst
func AppendVByte(dst []byte, v uint64) []byte {
	for v > 127 {
		dst = append(dst, byte(v&127))
		v >>= 7
	}
	return append(dst, byte(v)|0x80)
}

// ReadVByte reads one vbyte-encoded value from r
func ReadVByte(r io.ByteReader) (uint64, error) {
	var v uint64
	var shift uint
	for {
		b, err := r.ReadByte()
		if err != nil {
			return 0, err
		}
		if shift > 63 {
			return 0, fmt.Errorf("vbyte value overflows 64 bits")
		}
		if b&0x80 != 0 {
			return v | uint64(b&0x7f)<<shift, nil
		}
		v |= uint64(b) << shift
		shift += 7
	}
}

// DecodeVByte decodes one vbyte-encoded value from the start of b,
// returning the value and the number of bytes consumed
func DecodeVByte(b []byte) (uint64, int, error) {
	var v uint64
	var shift uint
	for i, c := range b {
		if shift > 63 {
			return 0, 0, fmt.Errorf("vbyte value overflows 64 bits")
		}
		if c&0x80 != 0 {
			return v | uint64(c&0x7f)<<shift, i + 1, nil
		}
		v |= uint64(c) << shift
		shift += 7
	}
	return 0, 0, fmt.Errorf("truncated vbyte value")
}
