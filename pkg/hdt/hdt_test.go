package hdt

import (
	"bytes"
	"fmt"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aleksaelezovic/gohdt/pkg/rdf"
)

func iri(s string) *rdf.NamedNode { return rdf.NewNamedNode("http://example.org/" + s) }

func tr(s, p, o string) *rdf.Triple {
	return rdf.NewTriple(iri(s), iri(p), iri(o))
}

// a chain dataset: b sits in both the subject and object role
func chainTriples() []*rdf.Triple {
	return []*rdf.Triple{
		tr("a", "p", "b"),
		tr("b", "p", "c"),
		tr("b", "q", "c"),
	}
}

func TestBuild_SectionPartition(t *testing.T) {
	h, err := Build(chainTriples(), Options{})
	require.NoError(t, err)

	assert.Equal(t, []string{"http://example.org/b"}, h.Dict.Shared.Terms())
	assert.Equal(t, []string{"http://example.org/a"}, h.Dict.Subjects.Terms())
	assert.Equal(t, []string{"http://example.org/c"}, h.Dict.Objects.Terms())
	assert.Equal(t, []string{"http://example.org/p", "http://example.org/q"}, h.Dict.Predicates.Terms())
	assert.Equal(t, uint64(3), h.NumTriples())
}

func TestBuild_DeduplicatesAndOrders(t *testing.T) {
	ts := append(chainTriples(), tr("a", "p", "b"), tr("b", "p", "c"))
	h, err := Build(ts, Options{})
	require.NoError(t, err)
	assert.Equal(t, uint64(3), h.NumTriples())

	got, err := h.Triples()
	require.NoError(t, err)
	require.Len(t, got, 3)
	// ID order: shared subject b (ID 1) before subject-only a (ID 2)
	assert.Equal(t, "<http://example.org/b> <http://example.org/p> <http://example.org/c> .", got[0].String())
	assert.Equal(t, "<http://example.org/b> <http://example.org/q> <http://example.org/c> .", got[1].String())
	assert.Equal(t, "<http://example.org/a> <http://example.org/p> <http://example.org/b> .", got[2].String())
}

func TestBuild_RejectsBadBlockSize(t *testing.T) {
	_, err := Build(nil, Options{BlockSize: -1})
	require.ErrorIs(t, err, ErrInput)
}

func TestBuild_RejectsUncanonicalizableTerm(t *testing.T) {
	ts := []*rdf.Triple{rdf.NewTriple(rdf.NewNamedNode(""), iri("p"), iri("o"))}
	_, err := Build(ts, Options{})
	require.ErrorIs(t, err, ErrInput)
}

func allTermKindsTriples() []*rdf.Triple {
	return []*rdf.Triple{
		tr("a", "p", "b"),
		tr("b", "p", "c"),
		rdf.NewTriple(iri("a"), iri("name"), rdf.NewLiteral("Alice")),
		rdf.NewTriple(iri("a"), iri("label"), rdf.NewLiteralWithLanguage("chat", "fr")),
		rdf.NewTriple(iri("a"), iri("age"), rdf.NewIntegerLiteral(30)),
		rdf.NewTriple(rdf.NewBlankNode("b0"), iri("p"), rdf.NewBlankNode("b1")),
		rdf.NewTriple(rdf.NewBlankNode("b1"), iri("p"), iri("a")),
	}
}

func TestSaveReadRoundTrip(t *testing.T) {
	for _, blockSize := range []int{1, 2, 16} {
		t.Run(fmt.Sprintf("blockSize=%d", blockSize), func(t *testing.T) {
			h, err := Build(allTermKindsTriples(), Options{BlockSize: blockSize})
			require.NoError(t, err)

			var buf bytes.Buffer
			require.NoError(t, h.Save(&buf))
			assert.Equal(t, []byte("$HDT"), buf.Bytes()[:4])

			got, err := Read(bytes.NewReader(buf.Bytes()))
			require.NoError(t, err)
			assert.Equal(t, h.NumTriples(), got.NumTriples())
			assert.Equal(t, blockSize, got.Dict.BlockSize)
			assert.NotEmpty(t, got.RawHeader)

			want, err := h.Triples()
			require.NoError(t, err)
			gotTriples, err := got.Triples()
			require.NoError(t, err)
			require.Len(t, gotTriples, len(want))
			for i := range want {
				assert.Equal(t, want[i].String(), gotTriples[i].String())
			}
		})
	}
}

func TestSaveReadEmptyDataset(t *testing.T) {
	h, err := Build(nil, Options{})
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, h.Save(&buf))

	got, err := Read(bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)
	assert.Equal(t, uint64(0), got.NumTriples())
	assert.Equal(t, uint64(0), got.Dict.NumEntries())
}

func TestRead_RejectsCorruption(t *testing.T) {
	h, err := Build(chainTriples(), Options{})
	require.NoError(t, err)
	var buf bytes.Buffer
	require.NoError(t, h.Save(&buf))
	raw := buf.Bytes()

	// the plain-text header body carries no checksum of its own, so flip
	// bytes only in checksummed regions: the global control block and the
	// trailing sequence checksum
	for _, pos := range []int{5, len(raw) - 3} {
		mutated := append([]byte(nil), raw...)
		mutated[pos] ^= 0x01
		_, err := Read(bytes.NewReader(mutated))
		assert.Error(t, err, "corruption at byte %d must be detected", pos)
	}
}

func TestRead_RejectsNonHDT(t *testing.T) {
	_, err := Read(bytes.NewReader([]byte("not an hdt file at all")))
	require.Error(t, err)
}

func TestWrite_PublishesFile(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, fs.MkdirAll("out", 0o755))
	h, err := Build(chainTriples(), Options{})
	require.NoError(t, err)

	require.NoError(t, Write(fs, h, "out/dataset.hdt"))

	got, err := ReadFile(fs, "out/dataset.hdt")
	require.NoError(t, err)
	assert.Equal(t, uint64(3), got.NumTriples())

	// no temp files left behind
	entries, err := afero.ReadDir(fs, "out")
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "dataset.hdt", entries[0].Name())
}

func TestWrite_FailureLeavesNoDestination(t *testing.T) {
	fs := afero.NewReadOnlyFs(afero.NewMemMapFs())
	h, err := Build(chainTriples(), Options{})
	require.NoError(t, err)

	require.Error(t, Write(fs, h, "dataset.hdt"))
	exists, err := afero.Exists(fs, "dataset.hdt")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestConvert_EndToEnd(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "data.nt", []byte(`
<http://example.org/a> <http://example.org/p> <http://example.org/b> .
<http://example.org/b> <http://example.org/p> <http://example.org/c> .
<http://example.org/a> <http://example.org/p> <http://example.org/b> .
`), 0o644))

	h, err := Convert(fs, []string{"data.nt"}, "data.hdt", Options{})
	require.NoError(t, err)
	assert.Equal(t, uint64(2), h.NumTriples())
	assert.Equal(t, "file://data.hdt", h.BaseURI)

	got, err := ReadFile(fs, "data.hdt")
	require.NoError(t, err)
	assert.Equal(t, uint64(2), got.NumTriples())
}

func TestConvert_NoInputs(t *testing.T) {
	_, err := Convert(afero.NewMemMapFs(), nil, "out.hdt", Options{})
	require.ErrorIs(t, err, ErrInput)
}

func TestConvert_BadInput(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "bad.nt", []byte("garbage\n"), 0o644))

	_, err := Convert(fs, []string{"bad.nt"}, "out.hdt", Options{})
	require.ErrorIs(t, err, ErrInput)

	exists, err := afero.Exists(fs, "out.hdt")
	require.NoError(t, err)
	assert.False(t, exists)
}
