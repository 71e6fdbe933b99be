package dictionary

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"

	"github.com/aleksaelezovic/gohdt/internal/containers"
)

// CSD_PFC on disk: type byte, term count, packed length and block size as
// vbytes, CRC-8 over those, a block-offset sequence, the packed blocks,
// CRC-32 over the packed bytes. Inside a block the first term is verbatim
// and every later term is vbyte(shared prefix with its predecessor) plus
// the remaining suffix, each term NUL-terminated.

const pfcType = 2

func commonPrefixLen(a, b string) int {
	n := min(len(a), len(b))
	for i := 0; i < n; i++ {
		if a[i] != b[i] {
			return i
		}
	}
	return n
}

// encodeBlocks front-codes sorted terms into packed bytes plus block byte
// offsets. The offsets include a trailing entry for the end of the data.
func encodeBlocks(terms []string, blockSize int) ([]byte, []uint64) {
	var packed []byte
	var offsets []uint64
	prev := ""
	for i, term := range terms {
		if i%blockSize == 0 {
			offsets = append(offsets, uint64(len(packed)))
			packed = append(packed, term...)
		} else {
			shared := commonPrefixLen(prev, term)
			packed = containers.AppendVByte(packed, uint64(shared))
			packed = append(packed, term[shared:]...)
		}
		packed = append(packed, 0)
		prev = term
	}
	offsets = append(offsets, uint64(len(packed)))
	return packed, offsets
}

// decodeBlocks reconstructs the sorted term list from packed block bytes.
// Decoding is exact: the result is byte-for-byte the encoder's input.
func decodeBlocks(packed []byte, offsets []uint64, numTerms, blockSize int) ([]string, error) {
	terms := make([]string, 0, numTerms)
	numBlocks := len(offsets) - 1
	for b := 0; b < numBlocks && len(terms) < numTerms; b++ {
		pos := int(offsets[b])
		end := int(offsets[b+1])
		if pos > end || end > len(packed) {
			return nil, fmt.Errorf("%w: block %d offsets out of range", containers.ErrFormat, b)
		}
		prev := ""
		for k := 0; k < blockSize && len(terms) < numTerms; k++ {
			var shared uint64
			if k > 0 {
				var n int
				var err error
				shared, n, err = containers.DecodeVByte(packed[pos:end])
				if err != nil {
					return nil, fmt.Errorf("%w: block %d term %d: %v", containers.ErrFormat, b, k, err)
				}
				pos += n
				if shared > uint64(len(prev)) {
					return nil, fmt.Errorf("%w: block %d term %d shares %d bytes of a %d byte predecessor", containers.ErrFormat, b, k, shared, len(prev))
				}
			}
			nul := -1
			for i := pos; i < end; i++ {
				if packed[i] == 0 {
					nul = i
					break
				}
			}
			if nul < 0 {
				return nil, fmt.Errorf("%w: block %d term %d is unterminated", containers.ErrFormat, b, k)
			}
			term := prev[:shared] + string(packed[pos:nul])
			terms = append(terms, term)
			prev = term
			pos = nul + 1
		}
	}
	if len(terms) != numTerms {
		return nil, fmt.Errorf("%w: expected %d terms, decoded %d", containers.ErrFormat, numTerms, len(terms))
	}
	return terms, nil
}

// Save writes the section as a front-coded CSD_PFC container
func (s *Section) Save(w io.Writer, blockSize int) error {
	packed, offsets := encodeBlocks(s.terms, blockSize)

	header := []byte{pfcType}
	header = containers.AppendVByte(header, uint64(len(s.terms)))
	header = containers.AppendVByte(header, uint64(len(packed)))
	header = containers.AppendVByte(header, uint64(blockSize))
	header = append(header, containers.Checksum8(header))
	if _, err := w.Write(header); err != nil {
		return err
	}

	if err := containers.NewSequence(offsets).Save(w); err != nil {
		return err
	}
	if _, err := w.Write(packed); err != nil {
		return err
	}
	return binary.Write(w, binary.LittleEndian, containers.Checksum32(packed))
}

// ReadSection reads and validates a front-coded section from r, returning
// the section and the block size it was encoded with
func ReadSection(r *bufio.Reader) (*Section, int, error) {
	tr := containers.NewTrackedReader(r)
	kind, err := tr.ReadByte()
	if err != nil {
		return nil, 0, err
	}
	if kind != pfcType {
		return nil, 0, fmt.Errorf("%w: unknown dictionary section type %d", containers.ErrFormat, kind)
	}
	numTerms, err := containers.ReadVByte(tr)
	if err != nil {
		return nil, 0, err
	}
	packedLen, err := containers.ReadVByte(tr)
	if err != nil {
		return nil, 0, err
	}
	blockSize, err := containers.ReadVByte(tr)
	if err != nil {
		return nil, 0, err
	}
	if blockSize < 1 {
		return nil, 0, fmt.Errorf("%w: dictionary section block size %d", containers.ErrFormat, blockSize)
	}
	if err := tr.Verify8(); err != nil {
		return nil, 0, fmt.Errorf("%w: dictionary section header", containers.ErrChecksum)
	}

	seq, err := containers.ReadSequence(r)
	if err != nil {
		return nil, 0, err
	}

	packed := make([]byte, packedLen)
	if _, err := io.ReadFull(r, packed); err != nil {
		return nil, 0, err
	}
	var stored uint32
	if err := binary.Read(r, binary.LittleEndian, &stored); err != nil {
		return nil, 0, err
	}
	if stored != containers.Checksum32(packed) {
		return nil, 0, fmt.Errorf("%w: dictionary section data", containers.ErrChecksum)
	}

	terms, err := decodeBlocks(packed, seq.Values(), int(numTerms), int(blockSize))
	if err != nil {
		return nil, 0, err
	}
	ids := make(map[string]uint64, len(terms))
	for i, t := range terms {
		ids[t] = uint64(i + 1)
	}
	return &Section{terms: terms, ids: ids}, int(blockSize), nil
}
