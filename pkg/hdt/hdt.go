// Package hdt builds and serializes HDT (Header-Dictionary-Triples) files:
// a compact binary exchange format for RDF datasets with a front-coded term
// dictionary and a bitmap-indexed triple structure. The on-disk layout
// follows the published HDT format so files interoperate with independent
// readers.
package hdt

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/aleksaelezovic/gohdt/internal/dictionary"
	"github.com/aleksaelezovic/gohdt/internal/triples"
	"github.com/aleksaelezovic/gohdt/pkg/rdf"
)

// DefaultBlockSize is the default front-coding block size
const DefaultBlockSize = dictionary.DefaultBlockSize

// Options configures a conversion
type Options struct {
	// BlockSize is the dictionary front-coding block size; 0 means
	// DefaultBlockSize. Smaller blocks trade compression for cheaper
	// term access in downstream readers.
	BlockSize int

	// BaseURI names the dataset in the file header. Defaults to a
	// file:// URI derived from the output path.
	BaseURI string
}

// HDT is a fully built dataset, ready to serialize
type HDT struct {
	Dict    *dictionary.Dictionary
	Index   *triples.BitmapTriples
	BaseURI string

	// RawHeader holds the verbatim header metadata block of a file parsed
	// with Read; it is regenerated on Save.
	RawHeader []byte
}

// Build runs the in-memory conversion pipeline over a materialized triple
// list: classify terms, build the dictionary, map triples to IDs, build the
// bitmap index. The input need not be deduplicated or sorted.
func Build(ts []*rdf.Triple, opts Options) (*HDT, error) {
	blockSize := opts.BlockSize
	if blockSize == 0 {
		blockSize = DefaultBlockSize
	}
	if blockSize < 1 {
		return nil, fmt.Errorf("%w: front-coding block size must be >= 1, got %d", ErrInput, blockSize)
	}

	start := time.Now()
	classifier := dictionary.NewClassifier()
	for _, t := range ts {
		if err := classifier.Add(t); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInput, err)
		}
	}
	partition := classifier.Partition()
	slog.Debug("classified terms",
		"shared", len(partition.Shared),
		"subjects", len(partition.Subjects),
		"objects", len(partition.Objects),
		"predicates", len(partition.Predicates),
		"elapsed", time.Since(start))

	phase := time.Now()
	dict, err := dictionary.Build(partition, blockSize)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInput, err)
	}
	slog.Debug("built dictionary", "entries", dict.NumEntries(), "elapsed", time.Since(phase))

	// Classification validated every term, so any failure past this point
	// is a pipeline defect.
	phase = time.Now()
	ids, err := triples.Map(ts, dict)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInternal, err)
	}
	slog.Debug("mapped triples", "triples", len(ids), "elapsed", time.Since(phase))

	phase = time.Now()
	index := triples.BuildBitmap(ids)
	slog.Debug("built triple index", "elapsed", time.Since(phase))

	baseURI := opts.BaseURI
	if baseURI == "" {
		baseURI = "file://dataset.hdt"
	}
	slog.Debug("hdt build finished", "triples", index.NumTriples(), "elapsed", time.Since(start))
	return &HDT{Dict: dict, Index: index, BaseURI: baseURI}, nil
}

// NumTriples returns the number of distinct triples in the dataset
func (h *HDT) NumTriples() uint64 {
	return h.Index.NumTriples()
}

// Triples decodes the dataset back into a triple list, sorted by ID order.
// Failures here mean the structure is inconsistent, not that input was bad.
func (h *HDT) Triples() ([]*rdf.Triple, error) {
	ids := h.Index.Triples()
	out := make([]*rdf.Triple, 0, len(ids))
	for _, id := range ids {
		s, ok := h.Dict.SubjectTerm(id.S)
		if !ok {
			return nil, fmt.Errorf("%w: subject ID %d out of range", ErrInternal, id.S)
		}
		p, ok := h.Dict.PredicateTerm(id.P)
		if !ok {
			return nil, fmt.Errorf("%w: predicate ID %d out of range", ErrInternal, id.P)
		}
		o, ok := h.Dict.ObjectTerm(id.O)
		if !ok {
			return nil, fmt.Errorf("%w: object ID %d out of range", ErrInternal, id.O)
		}

		subject, err := rdf.FromCanonical(s)
		if err != nil {
			return nil, fmt.Errorf("%w: subject %d: %w", ErrInternal, id.S, err)
		}
		predicate, err := rdf.FromCanonical(p)
		if err != nil {
			return nil, fmt.Errorf("%w: predicate %d: %w", ErrInternal, id.P, err)
		}
		object, err := rdf.FromCanonical(o)
		if err != nil {
			return nil, fmt.Errorf("%w: object %d: %w", ErrInternal, id.O, err)
		}
		out = append(out, rdf.NewTriple(subject, predicate, object))
	}
	return out, nil
}
