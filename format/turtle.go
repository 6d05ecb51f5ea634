package format

import (
	"fmt"
	"strings"

	"github.com/German-BioImaging/omero-rdf/rdf"
	"github.com/German-BioImaging/omero-rdf/vocabulary"
)

// Turtle is the buffered graph-document format. The accumulated graph is
// serialized once, with the registered vocabulary prefixes bound and IRIs
// abbreviated to qnames where possible.
type Turtle struct {
	bufferingFormat
	prefixes []vocabulary.Prefix
}

// NewTurtle returns the buffered Turtle format with the standard prefix
// bindings.
func NewTurtle() *Turtle {
	return &Turtle{
		bufferingFormat: newBufferingFormat(),
		prefixes:        vocabulary.Prefixes(),
	}
}

// Name implements Format.
func (*Turtle) Name() string { return "turtle" }

// SerializeGraph implements Format.
func (t *Turtle) SerializeGraph() (string, error) {
	var b strings.Builder

	for _, p := range t.prefixes {
		fmt.Fprintf(&b, "@prefix %s: <%s> .\n", p.Prefix, p.Namespace)
	}
	b.WriteString("\n")

	for _, subject := range t.graph.Subjects() {
		triples := t.graph.BySubject(subject)
		b.WriteString(t.term(subject))
		for i, tr := range triples {
			if i > 0 {
				b.WriteString(" ;\n   ")
			}
			b.WriteString(" ")
			b.WriteString(t.term(tr.Predicate))
			b.WriteString(" ")
			b.WriteString(t.term(tr.Object))
		}
		b.WriteString(" .\n\n")
	}

	return strings.TrimRight(b.String(), "\n"), nil
}

// term renders a term in Turtle surface form, abbreviating IRIs against the
// bound prefixes.
func (t *Turtle) term(term rdf.Term) string {
	iri, ok := term.(rdf.IRI)
	if !ok {
		return term.N3()
	}
	for _, p := range t.prefixes {
		if !strings.HasPrefix(iri.Value, p.Namespace) {
			continue
		}
		local := strings.TrimPrefix(iri.Value, p.Namespace)
		if validLocalName(local) {
			return p.Prefix + ":" + local
		}
	}
	return iri.N3()
}

// validLocalName reports whether the string can stand as the local part of
// a Turtle qname without escaping.
func validLocalName(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z':
		case r >= 'A' && r <= 'Z':
		case r >= '0' && r <= '9':
		case r == '_' || r == '-':
		default:
			return false
		}
	}
	return true
}
