package rdf

import (
	"fmt"
	"strings"
)

// Canonical returns the HDT dictionary form of a term: the bare IRI for
// named nodes, "_:label" for blank nodes, and the quoted lexical form with
// an optional "@lang" or "^^<datatype>" suffix for literals. Dictionary
// sections are sorted and stored by the byte order of this form.
//
// An error means the term cannot be canonicalized (empty IRI, empty blank
// node label, literal with an empty datatype reference); this is an input
// error and aborts a conversion.
func Canonical(term Term) (string, error) {
	switch t := term.(type) {
	case *NamedNode:
		if t.IRI == "" {
			return "", fmt.Errorf("cannot canonicalize named node with empty IRI")
		}
		return t.IRI, nil
	case *BlankNode:
		if t.ID == "" {
			return "", fmt.Errorf("cannot canonicalize blank node with empty label")
		}
		return "_:" + t.ID, nil
	case *Literal:
		return canonicalLiteral(t)
	default:
		return "", fmt.Errorf("cannot canonicalize term of type %T", term)
	}
}

func canonicalLiteral(lit *Literal) (string, error) {
	var builder strings.Builder
	builder.WriteByte('"')
	builder.WriteString(lit.Value)
	builder.WriteByte('"')

	if lit.Language != "" {
		if lit.Datatype != nil && lit.Datatype.IRI != RDFLangString.IRI {
			return "", fmt.Errorf("cannot canonicalize literal with both language %q and datatype <%s>", lit.Language, lit.Datatype.IRI)
		}
		builder.WriteByte('@')
		builder.WriteString(lit.Language)
		return builder.String(), nil
	}

	// xsd:string is the implicit datatype and is never written out
	if lit.Datatype != nil && lit.Datatype.IRI != XSDString.IRI {
		if lit.Datatype.IRI == "" {
			return "", fmt.Errorf("cannot canonicalize literal %q with empty datatype reference", lit.Value)
		}
		builder.WriteString("^^<")
		builder.WriteString(lit.Datatype.IRI)
		builder.WriteByte('>')
	}
	return builder.String(), nil
}

// RDFLangString is the implicit datatype of language-tagged literals
var RDFLangString = NewNamedNode("http://www.w3.org/1999/02/22-rdf-syntax-ns#langString")

// FromCanonical parses a dictionary-form string back into a term.
// It is the inverse of Canonical for every string Canonical can produce.
func FromCanonical(s string) (Term, error) {
	if s == "" {
		return nil, fmt.Errorf("empty dictionary string")
	}
	if strings.HasPrefix(s, "_:") {
		label := s[2:]
		if label == "" {
			return nil, fmt.Errorf("blank node with empty label")
		}
		return NewBlankNode(label), nil
	}
	if s[0] == '"' {
		return literalFromCanonical(s)
	}
	return NewNamedNode(s), nil
}

func literalFromCanonical(s string) (Term, error) {
	// The lexical form sits between the first and the last quote; language
	// tags and datatype IRIs cannot contain quotes.
	end := strings.LastIndexByte(s, '"')
	if end == 0 {
		return nil, fmt.Errorf("unterminated literal %q", s)
	}
	value := s[1:end]
	rest := s[end+1:]

	switch {
	case rest == "":
		return NewLiteral(value), nil
	case rest[0] == '@':
		if len(rest) == 1 {
			return nil, fmt.Errorf("literal %q has an empty language tag", s)
		}
		return NewLiteralWithLanguage(value, rest[1:]), nil
	case strings.HasPrefix(rest, "^^<") && strings.HasSuffix(rest, ">"):
		iri := rest[3 : len(rest)-1]
		if iri == "" {
			return nil, fmt.Errorf("literal %q has an empty datatype reference", s)
		}
		return NewLiteralWithDatatype(value, NewNamedNode(iri)), nil
	default:
		return nil, fmt.Errorf("malformed literal suffix in %q", s)
	}
}
