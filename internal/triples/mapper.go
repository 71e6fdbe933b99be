package triples

import (
	"errors"
	"fmt"
	"sort"

	"github.com/aleksaelezovic/gohdt/internal/dictionary"
	"github.com/aleksaelezovic/gohdt/pkg/rdf"
)

// ErrDictLookup reports a term that classification saw but the finished
// dictionary cannot resolve. This is a defect in the build pipeline, never
// bad input.
var ErrDictLookup = errors.New("dictionary lookup miss")

// TripleID is a triple expressed as dictionary IDs
type TripleID struct {
	S, P, O uint64
}

// Less orders ID triples by (subject, predicate, object)
func (t TripleID) Less(o TripleID) bool {
	if t.S != o.S {
		return t.S < o.S
	}
	if t.P != o.P {
		return t.P < o.P
	}
	return t.O < o.O
}

// Map resolves every triple against the finished dictionary, deduplicates
// the result and sorts it ascending by (subject, predicate, object).
func Map(ts []*rdf.Triple, dict *dictionary.Dictionary) ([]TripleID, error) {
	ids := make([]TripleID, 0, len(ts))
	for _, triple := range ts {
		id, err := mapOne(triple, dict)
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}

	sort.Slice(ids, func(i, j int) bool { return ids[i].Less(ids[j]) })

	// dedup in place; RDF graphs are sets
	out := ids[:0]
	for i, id := range ids {
		if i == 0 || id != ids[i-1] {
			out = append(out, id)
		}
	}
	return out, nil
}

func mapOne(triple *rdf.Triple, dict *dictionary.Dictionary) (TripleID, error) {
	s, err := resolve(triple.Subject, dictionary.RoleSubject, dict.SubjectID)
	if err != nil {
		return TripleID{}, err
	}
	p, err := resolve(triple.Predicate, dictionary.RolePredicate, dict.PredicateID)
	if err != nil {
		return TripleID{}, err
	}
	o, err := resolve(triple.Object, dictionary.RoleObject, dict.ObjectID)
	if err != nil {
		return TripleID{}, err
	}
	return TripleID{S: s, P: p, O: o}, nil
}

func resolve(term rdf.Term, role string, lookup func(string) (uint64, bool)) (uint64, error) {
	canonical, err := rdf.Canonical(term)
	if err != nil {
		return 0, fmt.Errorf("mapping %s term: %w", role, err)
	}
	id, ok := lookup(canonical)
	if !ok {
		return 0, fmt.Errorf("%w: %s term %q missing from its section", ErrDictLookup, role, canonical)
	}
	return id, nil
}
