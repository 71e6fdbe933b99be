package dictionary

import (
	"bufio"
	"bytes"
	"fmt"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aleksaelezovic/gohdt/internal/containers"
)

func TestEncodeBlocks_KnownBytes(t *testing.T) {
	terms := []string{"alpha", "alphabet", "beta"}
	packed, offsets := encodeBlocks(terms, 2)

	// block 0: "alpha" verbatim, then vbyte(5) + "bet"; block 1: "beta"
	want := []byte("alpha\x00\x85bet\x00beta\x00")
	assert.Equal(t, want, packed)
	assert.Equal(t, []uint64{0, 11, 16}, offsets)
}

func TestEncodeBlocks_Empty(t *testing.T) {
	packed, offsets := encodeBlocks(nil, 16)
	assert.Empty(t, packed)
	assert.Equal(t, []uint64{0}, offsets)
}

func TestDecodeBlocks_RoundTrip(t *testing.T) {
	terms := []string{
		"_:b0",
		`"chat"@en`,
		`"chat"@fr`,
		"http://example.org/a",
		"http://example.org/ab",
		"http://example.org/abc",
		"http://example.org/b",
		"http://other.org/x",
	}
	for _, blockSize := range []int{1, 2, 3, 16} {
		t.Run(fmt.Sprintf("blockSize=%d", blockSize), func(t *testing.T) {
			packed, offsets := encodeBlocks(terms, blockSize)
			got, err := decodeBlocks(packed, offsets, len(terms), blockSize)
			require.NoError(t, err)
			assert.Equal(t, terms, got)
		})
	}
}

func TestDecodeBlocks_RejectsCorruptPrefix(t *testing.T) {
	packed, offsets := encodeBlocks([]string{"ab", "abc"}, 2)
	// inflate the shared-prefix length beyond the predecessor
	packed[3] = 0x90
	_, err := decodeBlocks(packed, offsets, 2, 2)
	require.ErrorIs(t, err, containers.ErrFormat)
}

func TestDecodeBlocks_RejectsUnterminatedTerm(t *testing.T) {
	packed, offsets := encodeBlocks([]string{"ab"}, 16)
	packed = packed[:len(packed)-1]
	offsets[len(offsets)-1]--
	_, err := decodeBlocks(packed, offsets, 1, 16)
	require.ErrorIs(t, err, containers.ErrFormat)
}

func TestSection_SaveReadRoundTrip(t *testing.T) {
	terms := []string{
		"http://example.org/a",
		"http://example.org/ab",
		"http://example.org/b",
		`"plain"`,
		`"typed"^^<http://www.w3.org/2001/XMLSchema#integer>`,
	}
	sort.Strings(terms)
	sec := NewSection(append([]string(nil), terms...))

	for _, blockSize := range []int{1, 2, 16} {
		t.Run(fmt.Sprintf("blockSize=%d", blockSize), func(t *testing.T) {
			var buf bytes.Buffer
			require.NoError(t, sec.Save(&buf, blockSize))

			got, gotBlockSize, err := ReadSection(bufio.NewReader(&buf))
			require.NoError(t, err)
			assert.Equal(t, blockSize, gotBlockSize)
			assert.Equal(t, terms, got.Terms())

			id, ok := got.ID(terms[2])
			require.True(t, ok)
			assert.Equal(t, uint64(3), id)
		})
	}
}

func TestSection_SaveReadEmpty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewSection(nil).Save(&buf, DefaultBlockSize))

	got, _, err := ReadSection(bufio.NewReader(&buf))
	require.NoError(t, err)
	assert.Equal(t, 0, got.Len())
}

func TestReadSection_DetectsDataCorruption(t *testing.T) {
	var buf bytes.Buffer
	sec := NewSection([]string{"http://example.org/a", "http://example.org/b"})
	require.NoError(t, sec.Save(&buf, 16))

	raw := buf.Bytes()
	raw[len(raw)-5] ^= 0x01 // last packed byte, just before the CRC-32
	_, _, err := ReadSection(bufio.NewReader(bytes.NewReader(raw)))
	require.ErrorIs(t, err, containers.ErrChecksum)
}

func TestReadSection_DetectsHeaderCorruption(t *testing.T) {
	var buf bytes.Buffer
	sec := NewSection([]string{"http://example.org/a"})
	require.NoError(t, sec.Save(&buf, 16))

	raw := buf.Bytes()
	raw[1] ^= 0x01 // term count vbyte
	_, _, err := ReadSection(bufio.NewReader(bytes.NewReader(raw)))
	require.ErrorIs(t, err, containers.ErrChecksum)
}
