package dictionary

import (
	"bufio"
	"fmt"
	"io"
	"sync"

	"github.com/aleksaelezovic/gohdt/internal/containers"
)

// DefaultBlockSize is the front-coding block size used when none is given
const DefaultBlockSize = 16

// mapping 2: subject and object ID spaces both start with the shared section
const mapping = 2

// Dictionary is the HDT four-section dictionary. Subject IDs cover the
// shared section (1..|shared|) followed by subject-only terms; object IDs
// cover the shared section followed by object-only terms; predicate IDs
// are an independent space.
type Dictionary struct {
	Shared     *Section
	Subjects   *Section
	Predicates *Section
	Objects    *Section
	BlockSize  int
}

// Build sorts the four partitions and assigns their IDs. The section sorts
// are independent and run in parallel.
func Build(p *Partition, blockSize int) (*Dictionary, error) {
	if blockSize < 1 {
		return nil, fmt.Errorf("front-coding block size must be >= 1, got %d", blockSize)
	}

	d := &Dictionary{BlockSize: blockSize}
	var wg sync.WaitGroup
	for dst, terms := range map[**Section][]string{
		&d.Shared:     p.Shared,
		&d.Subjects:   p.Subjects,
		&d.Predicates: p.Predicates,
		&d.Objects:    p.Objects,
	} {
		wg.Add(1)
		go func(dst **Section, terms []string) {
			defer wg.Done()
			*dst = NewSection(terms)
		}(dst, terms)
	}
	wg.Wait()
	return d, nil
}

// SubjectID resolves a canonical term in the subject ID space
func (d *Dictionary) SubjectID(term string) (uint64, bool) {
	if id, ok := d.Shared.ID(term); ok {
		return id, true
	}
	if id, ok := d.Subjects.ID(term); ok {
		return uint64(d.Shared.Len()) + id, true
	}
	return 0, false
}

// ObjectID resolves a canonical term in the object ID space
func (d *Dictionary) ObjectID(term string) (uint64, bool) {
	if id, ok := d.Shared.ID(term); ok {
		return id, true
	}
	if id, ok := d.Objects.ID(term); ok {
		return uint64(d.Shared.Len()) + id, true
	}
	return 0, false
}

// PredicateID resolves a canonical term in the predicate ID space
func (d *Dictionary) PredicateID(term string) (uint64, bool) {
	return d.Predicates.ID(term)
}

// SubjectTerm returns the canonical term for a subject ID
func (d *Dictionary) SubjectTerm(id uint64) (string, bool) {
	if id <= uint64(d.Shared.Len()) {
		return d.Shared.Term(id)
	}
	return d.Subjects.Term(id - uint64(d.Shared.Len()))
}

// ObjectTerm returns the canonical term for an object ID
func (d *Dictionary) ObjectTerm(id uint64) (string, bool) {
	if id <= uint64(d.Shared.Len()) {
		return d.Shared.Term(id)
	}
	return d.Objects.Term(id - uint64(d.Shared.Len()))
}

// PredicateTerm returns the canonical term for a predicate ID
func (d *Dictionary) PredicateTerm(id uint64) (string, bool) {
	return d.Predicates.Term(id)
}

// NumEntries returns the total number of dictionary terms
func (d *Dictionary) NumEntries() uint64 {
	return uint64(d.Shared.Len() + d.Subjects.Len() + d.Predicates.Len() + d.Objects.Len())
}

// SizeStrings returns the total byte length of all dictionary terms
func (d *Dictionary) SizeStrings() uint64 {
	return d.Shared.SizeStrings() + d.Subjects.SizeStrings() + d.Predicates.SizeStrings() + d.Objects.SizeStrings()
}

// Save writes the dictionary control block followed by the four sections
// in the published order: shared, subjects, predicates, objects.
func (d *Dictionary) Save(w io.Writer) error {
	ci := containers.NewControlInfo(containers.ControlDictionary, containers.FormatDictionaryFour)
	ci.SetUint("mapping", mapping)
	ci.SetUint("sizeStrings", d.SizeStrings())
	ci.SetUint("numEntries", d.NumEntries())
	if err := ci.Save(w); err != nil {
		return err
	}

	for _, s := range []*Section{d.Shared, d.Subjects, d.Predicates, d.Objects} {
		if err := s.Save(w, d.BlockSize); err != nil {
			return err
		}
	}
	return nil
}

// Read reads and validates a four-section dictionary from r
func Read(r *bufio.Reader) (*Dictionary, error) {
	ci, err := containers.ReadControlInfo(r)
	if err != nil {
		return nil, err
	}
	if ci.Kind != containers.ControlDictionary {
		return nil, fmt.Errorf("%w: expected dictionary control block, got kind %d", containers.ErrFormat, ci.Kind)
	}
	if ci.Format != containers.FormatDictionaryFour {
		return nil, fmt.Errorf("%w: unsupported dictionary format %q", containers.ErrFormat, ci.Format)
	}
	if m, ok := ci.Uint("mapping"); ok && m != mapping {
		return nil, fmt.Errorf("%w: unsupported dictionary mapping %d", containers.ErrFormat, m)
	}

	d := &Dictionary{BlockSize: DefaultBlockSize}
	for _, dst := range []**Section{&d.Shared, &d.Subjects, &d.Predicates, &d.Objects} {
		s, blockSize, err := ReadSection(r)
		if err != nil {
			return nil, err
		}
		*dst = s
		if dst == &d.Shared {
			d.BlockSize = blockSize
		}
	}
	return d, nil
}
