package dictionary

import (
	"fmt"

	"github.com/aleksaelezovic/gohdt/pkg/rdf"
)

// Term roles, used for error context
const (
	RoleSubject   = "subject"
	RolePredicate = "predicate"
	RoleObject    = "object"
)

// Classifier partitions the terms of a triple stream into the four
// dictionary roles. It needs the whole stream before Partition is called:
// whether a term is shared depends on every triple in the dataset.
type Classifier struct {
	subjects   map[string]struct{}
	objects    map[string]struct{}
	predicates map[string]struct{}
}

// NewClassifier creates an empty classifier
func NewClassifier() *Classifier {
	return &Classifier{
		subjects:   make(map[string]struct{}),
		objects:    make(map[string]struct{}),
		predicates: make(map[string]struct{}),
	}
}

// Add records the terms of one triple. An error means a term could not be
// canonicalized; the whole conversion must abort in that case.
func (c *Classifier) Add(triple *rdf.Triple) error {
	s, err := rdf.Canonical(triple.Subject)
	if err != nil {
		return fmt.Errorf("classifying %s term: %w", RoleSubject, err)
	}
	p, err := rdf.Canonical(triple.Predicate)
	if err != nil {
		return fmt.Errorf("classifying %s term: %w", RolePredicate, err)
	}
	o, err := rdf.Canonical(triple.Object)
	if err != nil {
		return fmt.Errorf("classifying %s term: %w", RoleObject, err)
	}

	c.subjects[s] = struct{}{}
	c.predicates[p] = struct{}{}
	c.objects[o] = struct{}{}
	return nil
}

// Partition holds the four disjoint term sets in canonical form, unsorted
type Partition struct {
	Shared     []string
	Subjects   []string
	Objects    []string
	Predicates []string
}

// Partition computes the role partition: Shared = subjects ∩ objects,
// Subjects and Objects keep only their exclusive terms, Predicates is an
// independent set.
func (c *Classifier) Partition() *Partition {
	p := &Partition{}
	for term := range c.subjects {
		if _, ok := c.objects[term]; ok {
			p.Shared = append(p.Shared, term)
		} else {
			p.Subjects = append(p.Subjects, term)
		}
	}
	for term := range c.objects {
		if _, ok := c.subjects[term]; !ok {
			p.Objects = append(p.Objects, term)
		}
	}
	for term := range c.predicates {
		p.Predicates = append(p.Predicates, term)
	}
	return p
}
