package hdt

import "errors"

var (
	// ErrInput marks failures caused by the input data: unreadable or
	// malformed RDF, terms that cannot be canonicalized, bad options.
	ErrInput = errors.New("invalid input")

	// ErrInternal marks failures caused by the conversion pipeline itself,
	// such as a dictionary lookup miss for a term classification saw.
	// These are defects, not user errors.
	ErrInternal = errors.New("internal invariant violation")
)
