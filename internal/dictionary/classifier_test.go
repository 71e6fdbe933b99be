package dictionary

import (
	"sort"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/aleksaelezovic/gohdt/pkg/rdf"
)

func iri(s string) *rdf.NamedNode { return rdf.NewNamedNode("http://example.org/" + s) }

func sorted(ss []string) []string {
	out := append([]string(nil), ss...)
	sort.Strings(out)
	return out
}

func TestClassifier_Partition(t *testing.T) {
	c := NewClassifier()
	// a -> b -> c: b is both subject and object
	require.NoError(t, c.Add(rdf.NewTriple(iri("a"), iri("p"), iri("b"))))
	require.NoError(t, c.Add(rdf.NewTriple(iri("b"), iri("p"), iri("c"))))

	p := c.Partition()
	require.Equal(t, []string{"http://example.org/b"}, p.Shared)
	require.Equal(t, []string{"http://example.org/a"}, p.Subjects)
	require.Equal(t, []string{"http://example.org/c"}, p.Objects)
	require.Equal(t, []string{"http://example.org/p"}, p.Predicates)
}

func TestClassifier_SetsAreDisjoint(t *testing.T) {
	c := NewClassifier()
	nodes := []string{"a", "b", "c", "d", "e"}
	for _, s := range nodes {
		for _, o := range nodes {
			if s != o {
				require.NoError(t, c.Add(rdf.NewTriple(iri(s), iri("p"), iri(o))))
			}
		}
	}
	// every node appears as both subject and object
	p := c.Partition()
	require.Len(t, p.Shared, len(nodes))
	require.Empty(t, p.Subjects)
	require.Empty(t, p.Objects)
	require.Equal(t, []string{"http://example.org/p"}, p.Predicates)
}

func TestClassifier_PredicateSpaceIsIndependent(t *testing.T) {
	c := NewClassifier()
	// the same IRI appears as subject, predicate and object
	require.NoError(t, c.Add(rdf.NewTriple(iri("x"), iri("x"), iri("x"))))

	p := c.Partition()
	require.Equal(t, []string{"http://example.org/x"}, p.Shared)
	require.Equal(t, []string{"http://example.org/x"}, p.Predicates)
	require.Empty(t, p.Subjects)
	require.Empty(t, p.Objects)
}

func TestClassifier_MixedTermKinds(t *testing.T) {
	c := NewClassifier()
	require.NoError(t, c.Add(rdf.NewTriple(rdf.NewBlankNode("b0"), iri("name"), rdf.NewLiteral("Alice"))))
	require.NoError(t, c.Add(rdf.NewTriple(iri("a"), iri("knows"), rdf.NewBlankNode("b0"))))

	p := c.Partition()
	require.Equal(t, []string{"_:b0"}, p.Shared)
	require.Equal(t, []string{"http://example.org/a"}, p.Subjects)
	require.Equal(t, []string{`"Alice"`}, p.Objects)
	require.Equal(t,
		[]string{"http://example.org/knows", "http://example.org/name"},
		sorted(p.Predicates))
}

func TestClassifier_CanonicalizationFailureIsFatal(t *testing.T) {
	c := NewClassifier()
	bad := rdf.NewTriple(iri("a"), iri("p"), rdf.NewLiteralWithDatatype("v", rdf.NewNamedNode("")))
	require.Error(t, c.Add(bad))
}
