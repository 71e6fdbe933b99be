package hdt

import (
	"fmt"
	"strings"
)

// HDT and VoID vocabulary used in the file header
const (
	nsRDF    = "http://www.w3.org/1999/02/22-rdf-syntax-ns#"
	nsHDT    = "http://purl.org/HDT/hdt#"
	nsVoid   = "http://rdfs.org/ns/void#"
	nsDCTerm = "http://purl.org/dc/terms/"
)

// headerBody renders the N-Triples metadata block carried inside the file:
// the dataset identity, the per-section and triple counts, and the format
// description readers use to identify the dictionary and triple encodings.
func (h *HDT) headerBody() []byte {
	var b strings.Builder
	base := "<" + h.BaseURI + ">"

	line := func(s, p, o string) {
		fmt.Fprintf(&b, "%s %s %s .\n", s, p, o)
	}
	lit := func(v uint64) string {
		return fmt.Sprintf("\"%d\"", v)
	}

	line(base, "<"+nsRDF+"type>", "<"+nsHDT+"Dataset>")
	line(base, "<"+nsRDF+"type>", "<"+nsVoid+"Dataset>")
	line(base, "<"+nsVoid+"triples>", lit(h.Index.NumTriples()))
	line(base, "<"+nsVoid+"properties>", lit(uint64(h.Dict.Predicates.Len())))
	line(base, "<"+nsVoid+"distinctSubjects>", lit(uint64(h.Dict.Shared.Len()+h.Dict.Subjects.Len())))
	line(base, "<"+nsVoid+"distinctObjects>", lit(uint64(h.Dict.Shared.Len()+h.Dict.Objects.Len())))
	line(base, "<"+nsHDT+"formatInformation>", "_:format")
	line(base, "<"+nsHDT+"statisticalInformation>", "_:statistics")

	line("_:format", "<"+nsDCTerm+"format>", "<"+nsHDT+"HDTv1>")
	line("_:format", "<"+nsHDT+"dictionary>", "_:dictionary")
	line("_:format", "<"+nsHDT+"triples>", "_:triples")

	line("_:dictionary", "<"+nsDCTerm+"format>", "<"+nsHDT+"dictionaryFour>")
	line("_:dictionary", "<"+nsHDT+"dictionarynumSharedSubjectObject>", lit(uint64(h.Dict.Shared.Len())))
	line("_:dictionary", "<"+nsHDT+"dictionarynumSubjects>", lit(uint64(h.Dict.Subjects.Len())))
	line("_:dictionary", "<"+nsHDT+"dictionarynumObjects>", lit(uint64(h.Dict.Objects.Len())))
	line("_:dictionary", "<"+nsHDT+"dictionarynumProperties>", lit(uint64(h.Dict.Predicates.Len())))
	line("_:dictionary", "<"+nsHDT+"dictionarysizeStrings>", lit(h.Dict.SizeStrings()))
	line("_:dictionary", "<"+nsHDT+"dictionaryblockSize>", lit(uint64(h.Dict.BlockSize)))

	line("_:triples", "<"+nsDCTerm+"format>", "<"+nsHDT+"triplesBitmap>")
	line("_:triples", "<"+nsHDT+"triplesnumTriples>", lit(h.Index.NumTriples()))
	line("_:triples", "<"+nsHDT+"triplesOrder>", "\"SPO\"")

	line("_:statistics", "<"+nsHDT+"dictionarysizeStrings>", lit(h.Dict.SizeStrings()))

	return []byte(b.String())
}
