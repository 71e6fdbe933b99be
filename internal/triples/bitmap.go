package triples

import (
	"bufio"
	"fmt"
	"io"

	"github.com/aleksaelezovic/gohdt/internal/containers"
)

// SPO component order, the only one this writer produces
const orderSPO = 1

// BitmapTriples is the two-level grouped adjacency index: ArrayY holds each
// subject's distinct predicates (boundary marked in BitmapY), ArrayZ holds
// each (subject, predicate) pair's objects (boundary marked in BitmapZ).
type BitmapTriples struct {
	BitmapY *containers.Bitmap
	BitmapZ *containers.Bitmap
	ArrayY  []uint64
	ArrayZ  []uint64
}

// BuildBitmap builds the index from a deduplicated ID-triple list sorted
// ascending by (subject, predicate, object). One linear scan: a new array
// entry whenever the grouping key changes, a boundary bit on the previous
// entry whenever its group closes.
func BuildBitmap(sorted []TripleID) *BitmapTriples {
	bt := &BitmapTriples{
		BitmapY: containers.NewBitmap(),
		BitmapZ: containers.NewBitmap(),
	}
	for i, t := range sorted {
		newSubject := i == 0 || t.S != sorted[i-1].S
		newPair := newSubject || t.P != sorted[i-1].P

		if newSubject && i > 0 {
			bt.BitmapY.Set(len(bt.ArrayY) - 1)
		}
		if newPair {
			if i > 0 {
				bt.BitmapZ.Set(len(bt.ArrayZ) - 1)
			}
			bt.ArrayY = append(bt.ArrayY, t.P)
			bt.BitmapY.Append(false)
		}
		bt.ArrayZ = append(bt.ArrayZ, t.O)
		bt.BitmapZ.Append(false)
	}
	if len(sorted) > 0 {
		bt.BitmapY.Set(len(bt.ArrayY) - 1)
		bt.BitmapZ.Set(len(bt.ArrayZ) - 1)
	}
	return bt
}

// NumTriples returns the number of encoded triples
func (bt *BitmapTriples) NumTriples() uint64 {
	return uint64(len(bt.ArrayZ))
}

// Triples re-expands the index into the sorted ID-triple list
func (bt *BitmapTriples) Triples() []TripleID {
	out := make([]TripleID, 0, len(bt.ArrayZ))
	subject := uint64(1)
	y := 0
	for z, object := range bt.ArrayZ {
		out = append(out, TripleID{S: subject, P: bt.ArrayY[y], O: object})
		if bt.BitmapZ.Get(z) {
			if bt.BitmapY.Get(y) {
				subject++
			}
			y++
		}
	}
	return out
}

// Save writes the triples control block followed by the two bitmaps and the
// two ID sequences.
func (bt *BitmapTriples) Save(w io.Writer) error {
	ci := containers.NewControlInfo(containers.ControlTriples, containers.FormatTriplesBitmap)
	ci.SetUint("order", orderSPO)
	if err := ci.Save(w); err != nil {
		return err
	}

	if err := bt.BitmapY.Save(w); err != nil {
		return err
	}
	if err := bt.BitmapZ.Save(w); err != nil {
		return err
	}
	if err := containers.NewSequence(bt.ArrayY).Save(w); err != nil {
		return err
	}
	return containers.NewSequence(bt.ArrayZ).Save(w)
}

// ReadBitmapTriples reads and validates a bitmap triple index from r
func ReadBitmapTriples(r *bufio.Reader) (*BitmapTriples, error) {
	ci, err := containers.ReadControlInfo(r)
	if err != nil {
		return nil, err
	}
	if ci.Kind != containers.ControlTriples {
		return nil, fmt.Errorf("%w: expected triples control block, got kind %d", containers.ErrFormat, ci.Kind)
	}
	if ci.Format != containers.FormatTriplesBitmap {
		return nil, fmt.Errorf("%w: unsupported triples format %q", containers.ErrFormat, ci.Format)
	}
	if order, ok := ci.Uint("order"); !ok || order != orderSPO {
		return nil, fmt.Errorf("%w: unsupported triple order", containers.ErrFormat)
	}

	bt := &BitmapTriples{}
	if bt.BitmapY, err = containers.ReadBitmap(r); err != nil {
		return nil, err
	}
	if bt.BitmapZ, err = containers.ReadBitmap(r); err != nil {
		return nil, err
	}
	seqY, err := containers.ReadSequence(r)
	if err != nil {
		return nil, err
	}
	seqZ, err := containers.ReadSequence(r)
	if err != nil {
		return nil, err
	}
	bt.ArrayY = seqY.Values()
	bt.ArrayZ = seqZ.Values()

	if bt.BitmapY.Len() != len(bt.ArrayY) || bt.BitmapZ.Len() != len(bt.ArrayZ) {
		return nil, fmt.Errorf("%w: bitmap and array lengths disagree", containers.ErrFormat)
	}
	return bt, nil
}
