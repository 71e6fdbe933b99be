package containers

import (
	"bufio"
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"
)

func roundTripSequence(t *testing.T, values []uint64) *Sequence {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, NewSequence(values).Save(&buf))

	got, err := ReadSequence(bufio.NewReader(&buf))
	require.NoError(t, err)
	return got
}

func TestSequence_RoundTrip(t *testing.T) {
	cases := [][]uint64{
		nil,
		{0},
		{1},
		{0, 0, 0},
		{1, 2, 3, 4, 5},
		{127, 128, 1 << 20, 1<<40 + 17},
		{1<<64 - 1, 0, 1<<64 - 1},
	}
	for _, values := range cases {
		got := roundTripSequence(t, values)
		require.Equal(t, len(values), got.Len())
		for i, v := range values {
			require.Equal(t, v, got.Get(i), "entry %d", i)
		}
	}
}

func TestSequence_WidthIsMinimal(t *testing.T) {
	// 65 one-bit entries: payload must be ceil(65/8) = 9 bytes
	values := make([]uint64, 65)
	for i := range values {
		values[i] = uint64(i % 2)
	}
	var buf bytes.Buffer
	require.NoError(t, NewSequence(values).Save(&buf))

	// type, width, vbyte(65), crc8, payload, crc32
	require.Equal(t, 1+1+1+1+9+4, buf.Len())
	require.Equal(t, byte(seqTypeLog), buf.Bytes()[0])
	require.Equal(t, byte(1), buf.Bytes()[1])
}

func TestSequence_HeaderChecksumDetected(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewSequence([]uint64{9, 8, 7}).Save(&buf))

	corrupted := buf.Bytes()
	corrupted[1] ^= 0x01 // flip the entry width
	_, err := ReadSequence(bufio.NewReader(bytes.NewReader(corrupted)))
	require.ErrorIs(t, err, ErrChecksum)
}

func TestSequence_PayloadChecksumDetected(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewSequence([]uint64{9, 8, 7}).Save(&buf))

	corrupted := buf.Bytes()
	corrupted[len(corrupted)-5] ^= 0x01 // flip a payload bit
	_, err := ReadSequence(bufio.NewReader(bytes.NewReader(corrupted)))
	require.ErrorIs(t, err, ErrChecksum)
}
