package containers

import "encoding/binary"

// Bit-packed payloads are laid out LSB-first inside little-endian 64-bit
// words and truncated to whole bytes on disk.

func setBits(words []uint64, pos, width int, v uint64) {
	if width == 0 {
		return
	}
	w, off := pos/64, pos%64
	words[w] |= v << off
	if off+width > 64 {
		words[w+1] |= v >> (64 - off)
	}
}

func getBits(words []uint64, pos, width int) uint64 {
	if width == 0 {
		return 0
	}
	w, off := pos/64, pos%64
	v := words[w] >> off
	if off+width > 64 {
		v |= words[w+1] << (64 - off)
	}
	if width == 64 {
		return v
	}
	return v & (1<<width - 1)
}

// wordsToBytes serializes words little-endian, truncated to numBytes
func wordsToBytes(words []uint64, numBytes int) []byte {
	buf := make([]byte, (len(words))*8)
	for i, w := range words {
		binary.LittleEndian.PutUint64(buf[i*8:], w)
	}
	return buf[:numBytes]
}

// bytesToWords widens a little-endian byte payload back into 64-bit words
func bytesToWords(b []byte) []uint64 {
	words := make([]uint64, (len(b)+7)/8)
	var padded []byte
	if len(b)%8 == 0 {
		padded = b
	} else {
		padded = make([]byte, len(words)*8)
		copy(padded, b)
	}
	for i := range words {
		words[i] = binary.LittleEndian.Uint64(padded[i*8:])
	}
	return words
}
