package containers

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
	"math/bits"
)

const seqTypeLog = 1

// Sequence is a LogSequence2: a list of unsigned integers stored with just
// enough bits per entry for the largest value. On disk it carries a
// CRC-8 header and a CRC-32 over the packed payload.
type Sequence struct {
	values []uint64
}

// NewSequence creates a sequence over the given values. The slice is not
// copied; the sequence takes ownership.
func NewSequence(values []uint64) *Sequence {
	return &Sequence{values: values}
}

// Len returns the number of entries
func (s *Sequence) Len() int {
	return len(s.values)
}

// Get returns entry i
func (s *Sequence) Get(i int) uint64 {
	return s.values[i]
}

// Values returns the underlying entries
func (s *Sequence) Values() []uint64 {
	return s.values
}

func (s *Sequence) bitsPerEntry() int {
	var max uint64
	for _, v := range s.values {
		if v > max {
			max = v
		}
	}
	return bits.Len64(max)
}

// Save writes the sequence to w
func (s *Sequence) Save(w io.Writer) error {
	width := s.bitsPerEntry()

	header := []byte{seqTypeLog, byte(width)}
	header = AppendVByte(header, uint64(len(s.values)))
	header = append(header, Checksum8(header))
	if _, err := w.Write(header); err != nil {
		return err
	}

	totalBits := width * len(s.values)
	words := make([]uint64, (totalBits+63)/64)
	for i, v := range s.values {
		setBits(words, i*width, width, v)
	}
	payload := wordsToBytes(words, (totalBits+7)/8)
	if _, err := w.Write(payload); err != nil {
		return err
	}
	return binary.Write(w, binary.LittleEndian, Checksum32(payload))
}

// ReadSequence reads and validates a sequence from r
func ReadSequence(r *bufio.Reader) (*Sequence, error) {
	tr := NewTrackedReader(r)
	kind, err := tr.ReadByte()
	if err != nil {
		return nil, err
	}
	if kind != seqTypeLog {
		return nil, fmt.Errorf("%w: unknown sequence type %d", ErrFormat, kind)
	}
	width, err := tr.ReadByte()
	if err != nil {
		return nil, err
	}
	if width > 64 {
		return nil, fmt.Errorf("%w: sequence entry width %d", ErrFormat, width)
	}
	entries, err := ReadVByte(tr)
	if err != nil {
		return nil, err
	}
	if err := tr.Verify8(); err != nil {
		return nil, fmt.Errorf("%w: sequence header", ErrChecksum)
	}

	totalBits := int(width) * int(entries)
	payload := make([]byte, (totalBits+7)/8)
	if _, err := io.ReadFull(r, payload); err != nil {
		return nil, err
	}
	var stored uint32
	if err := binary.Read(r, binary.LittleEndian, &stored); err != nil {
		return nil, err
	}
	if stored != Checksum32(payload) {
		return nil, fmt.Errorf("%w: sequence payload", ErrChecksum)
	}

	words := bytesToWords(payload)
	values := make([]uint64, entries)
	for i := range values {
		values[i] = getBits(words, i*int(width), int(width))
	}
	return &Sequence{values: values}, nil
}

// TrackedReader records every byte it hands out so container headers can be
// checksummed exactly as they appear on disk
type TrackedReader struct {
	r   *bufio.Reader
	raw []byte
}

// NewTrackedReader wraps r
func NewTrackedReader(r *bufio.Reader) *TrackedReader {
	return &TrackedReader{r: r}
}

func (t *TrackedReader) ReadByte() (byte, error) {
	b, err := t.r.ReadByte()
	if err == nil {
		t.raw = append(t.raw, b)
	}
	return b, err
}

// Verify8 consumes one CRC-8 byte and checks it against the bytes read so far
func (t *TrackedReader) Verify8() error {
	stored, err := t.r.ReadByte()
	if err != nil {
		return err
	}
	if stored != Checksum8(t.raw) {
		return ErrChecksum
	}
	return nil
}
