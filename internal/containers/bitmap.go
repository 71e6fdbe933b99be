package containers

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
)

const bitmapTypePlain = 1

// Bitmap is a plain bit sequence (BitSequence375 on disk): CRC-8 header,
// LSB-first packed bits, CRC-32 over the payload.
type Bitmap struct {
	n     int
	words []uint64
}

// NewBitmap creates an empty bitmap
func NewBitmap() *Bitmap {
	return &Bitmap{}
}

// Append adds one bit at the end
func (b *Bitmap) Append(bit bool) {
	if b.n%64 == 0 {
		b.words = append(b.words, 0)
	}
	if bit {
		b.words[b.n/64] |= 1 << (b.n % 64)
	}
	b.n++
}

// Set sets bit i
func (b *Bitmap) Set(i int) {
	b.words[i/64] |= 1 << (i % 64)
}

// Get returns bit i
func (b *Bitmap) Get(i int) bool {
	return b.words[i/64]&(1<<(i%64)) != 0
}

// Len returns the number of bits
func (b *Bitmap) Len() int {
	return b.n
}

// Save writes the bitmap to w
func (b *Bitmap) Save(w io.Writer) error {
	header := []byte{bitmapTypePlain}
	header = AppendVByte(header, uint64(b.n))
	header = append(header, Checksum8(header))
	if _, err := w.Write(header); err != nil {
		return err
	}

	payload := wordsToBytes(b.words, (b.n+7)/8)
	if _, err := w.Write(payload); err != nil {
		return err
	}
	return binary.Write(w, binary.LittleEndian, Checksum32(payload))
}

// ReadBitmap reads and validates a bitmap from r
func ReadBitmap(r *bufio.Reader) (*Bitmap, error) {
	tr := NewTrackedReader(r)
	kind, err := tr.ReadByte()
	if err != nil {
		return nil, err
	}
	if kind != bitmapTypePlain {
		return nil, fmt.Errorf("%w: unknown bitmap type %d", ErrFormat, kind)
	}
	n, err := ReadVByte(tr)
	if err != nil {
		return nil, err
	}
	if err := tr.Verify8(); err != nil {
		return nil, fmt.Errorf("%w: bitmap header", ErrChecksum)
	}

	payload := make([]byte, (n+7)/8)
	if _, err := io.ReadFull(r, payload); err != nil {
		return nil, err
	}
	var stored uint32
	if err := binary.Read(r, binary.LittleEndian, &stored); err != nil {
		return nil, err
	}
	if stored != Checksum32(payload) {
		return nil, fmt.Errorf("%w: bitmap payload", ErrChecksum)
	}

	return &Bitmap{n: int(n), words: bytesToWords(payload)}, nil
}
