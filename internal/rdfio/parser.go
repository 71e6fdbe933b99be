// Package rdfio loads RDF source files into the in-memory triple model.
// Syntax handling is delegated to the knakk/rdf decoders; this package only
// picks the format, converts terms and deduplicates triples.
package rdfio

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	knakk "github.com/knakk/rdf"
	"github.com/spf13/afero"
	"github.com/zeebo/xxh3"

	"github.com/aleksaelezovic/gohdt/pkg/rdf"
)

// FormatForPath picks the decoder format from the file extension
func FormatForPath(path string) (knakk.Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".nt":
		return knakk.NTriples, nil
	case ".ttl":
		return knakk.Turtle, nil
	case ".rdf", ".xml":
		return knakk.RDFXML, nil
	default:
		return knakk.NTriples, fmt.Errorf("unsupported RDF file extension %q in %s", filepath.Ext(path), path)
	}
}

// LoadFiles parses every input file and merges the results into one
// deduplicated triple list. Blank node labels share one namespace across
// files, the same as concatenating the inputs into a single document.
func LoadFiles(fs afero.Fs, paths []string) ([]*rdf.Triple, error) {
	var out []*rdf.Triple
	seen := make(map[xxh3.Uint128]struct{})
	for _, path := range paths {
		if err := loadFile(fs, path, seen, &out); err != nil {
			return nil, err
		}
	}
	return out, nil
}

func loadFile(fs afero.Fs, path string, seen map[xxh3.Uint128]struct{}, out *[]*rdf.Triple) error {
	format, err := FormatForPath(path)
	if err != nil {
		return err
	}

	f, err := fs.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	dec := knakk.NewTripleDecoder(f, format)
	for {
		triple, err := dec.Decode()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return fmt.Errorf("failed to parse %s: %w", path, err)
		}

		converted, key, err := convertTriple(triple)
		if err != nil {
			return fmt.Errorf("failed to parse %s: %w", path, err)
		}
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		*out = append(*out, converted)
	}
}

// convertTriple maps a decoded triple into the local term model and returns
// a 128-bit dedup key over its canonical form
func convertTriple(t knakk.Triple) (*rdf.Triple, xxh3.Uint128, error) {
	subject, err := convertTerm(t.Subj)
	if err != nil {
		return nil, xxh3.Uint128{}, err
	}
	predicate, err := convertTerm(t.Pred)
	if err != nil {
		return nil, xxh3.Uint128{}, err
	}
	object, err := convertTerm(t.Obj)
	if err != nil {
		return nil, xxh3.Uint128{}, err
	}

	triple := rdf.NewTriple(subject, predicate, object)

	s, err := rdf.Canonical(subject)
	if err != nil {
		return nil, xxh3.Uint128{}, err
	}
	p, err := rdf.Canonical(predicate)
	if err != nil {
		return nil, xxh3.Uint128{}, err
	}
	o, err := rdf.Canonical(object)
	if err != nil {
		return nil, xxh3.Uint128{}, err
	}
	key := xxh3.HashString128(s + "\x00" + p + "\x00" + o)
	return triple, key, nil
}

func convertTerm(t knakk.Term) (rdf.Term, error) {
	switch t.Type() {
	case knakk.TermIRI:
		return rdf.NewNamedNode(t.String()), nil
	case knakk.TermBlank:
		return rdf.NewBlankNode(strings.TrimPrefix(t.String(), "_:")), nil
	case knakk.TermLiteral:
		return convertLiteral(t.(knakk.Literal)), nil
	default:
		return nil, fmt.Errorf("unsupported term type %v", t.Type())
	}
}

func convertLiteral(lit knakk.Literal) rdf.Term {
	if lang := lit.Lang(); lang != "" {
		return rdf.NewLiteralWithLanguage(lit.String(), lang)
	}
	if dt := lit.DataType.String(); dt != "" && dt != rdf.XSDString.IRI {
		return rdf.NewLiteralWithDatatype(lit.String(), rdf.NewNamedNode(dt))
	}
	return rdf.NewLiteral(lit.String())
}
