package dictionary

import "sort"

// Section is one dictionary partition: a byte-order sorted, deduplicated
// term list with dense IDs 1..Len assigned in sort order.
type Section struct {
	terms []string
	ids   map[string]uint64
}

// NewSection sorts the given canonical terms and assigns their IDs.
// The slice is taken over and must not contain duplicates.
func NewSection(terms []string) *Section {
	sort.Strings(terms)
	ids := make(map[string]uint64, len(terms))
	for i, t := range terms {
		ids[t] = uint64(i + 1)
	}
	return &Section{terms: terms, ids: ids}
}

// Len returns the number of terms
func (s *Section) Len() int {
	return len(s.terms)
}

// ID returns the 1-based ID of a term
func (s *Section) ID(term string) (uint64, bool) {
	id, ok := s.ids[term]
	return id, ok
}

// Term returns the term with the given 1-based ID
func (s *Section) Term(id uint64) (string, bool) {
	if id < 1 || id > uint64(len(s.terms)) {
		return "", false
	}
	return s.terms[id-1], true
}

// Terms returns the sorted term list
func (s *Section) Terms() []string {
	return s.terms
}

// SizeStrings returns the total byte length of all terms
func (s *Section) SizeStrings() uint64 {
	var size uint64
	for _, t := range s.terms {
		size += uint64(len(t))
	}
	return size
}
