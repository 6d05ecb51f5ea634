package rdf

import (
	"fmt"
	"strings"
)

// TermKind identifies RDF term types.
type TermKind uint8

const (
	// TermIRI represents an IRI term.
	TermIRI TermKind = iota
	// TermBlankNode represents a blank node term.
	TermBlankNode
	// TermLiteral represents a literal term.
	TermLiteral
)

// Term is a value that can appear in RDF statements.
type Term interface {
	Kind() TermKind
	// String returns a stable identity for the term, used for
	// visited-set bookkeeping and graph deduplication.
	String() string
	// N3 returns the N-Triples surface form of the term.
	N3() string
}

// IRI represents an RDF IRI.
type IRI struct {
	// Value is the IRI string value.
	Value string
}

// Kind returns TermIRI.
func (i IRI) Kind() TermKind { return TermIRI }

// String returns the IRI value.
func (i IRI) String() string { return i.Value }

// N3 returns the IRI wrapped in angle brackets.
func (i IRI) N3() string { return "<" + i.Value + ">" }

// BlankNode represents an RDF blank node, scoped to one export run.
type BlankNode struct {
	// ID is the blank node identifier without the "_:" prefix.
	ID string
}

// Kind returns TermBlankNode.
func (b BlankNode) Kind() TermKind { return TermBlankNode }

// String returns the blank node identifier prefixed with "_:".
func (b BlankNode) String() string { return "_:" + b.ID }

// N3 returns the blank node in N-Triples form.
func (b BlankNode) N3() string { return "_:" + b.ID }

// Literal represents an RDF literal carrying a typed scalar value.
type Literal struct {
	// Lexical is the lexical form of the literal.
	Lexical string
	// Datatype is the datatype IRI, empty for plain string literals.
	Datatype string
}

// Kind returns TermLiteral.
func (l Literal) Kind() TermKind { return TermLiteral }

// String returns a readable representation of the literal.
func (l Literal) String() string {
	if l.Datatype != "" {
		return fmt.Sprintf("%q^^<%s>", l.Lexical, l.Datatype)
	}
	return fmt.Sprintf("%q", l.Lexical)
}

// N3 returns the N-Triples surface form of the literal, with the lexical
// form escaped per the N-Triples grammar.
func (l Literal) N3() string {
	quoted := `"` + escapeLexical(l.Lexical) + `"`
	if l.Datatype != "" {
		return quoted + "^^<" + l.Datatype + ">"
	}
	return quoted
}

// escapeLexical escapes the characters N-Triples requires escaping inside a
// quoted literal.
func escapeLexical(s string) string {
	var b strings.Builder
	for _, r := range s {
		switch r {
		case '\\':
			b.WriteString(`\\`)
		case '"':
			b.WriteString(`\"`)
		case '\n':
			b.WriteString(`\n`)
		case '\r':
			b.WriteString(`\r`)
		case '\t':
			b.WriteString(`\t`)
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}

// Triple represents a semantic statement following the
// subject-predicate-object pattern.
//
//   - Subject: an IRI or blank node identifying the entity described.
//   - Predicate: always an IRI, drawn from the vocabulary package.
//   - Object: an IRI, blank node, or literal value.
type Triple struct {
	Subject   Term `json:"subject"`
	Predicate IRI  `json:"predicate"`
	Object    Term `json:"object"`
}

// Complete reports whether every component of the triple is present.
// Partial triples are dropped by the emit path rather than serialized.
func (t Triple) Complete() bool {
	return t.Subject != nil && t.Predicate.Value != "" && t.Object != nil
}

// Key returns a canonical identity for the triple, used for set semantics
// in buffered graphs.
func (t Triple) Key() string {
	return t.Subject.N3() + "\x00" + t.Predicate.N3() + "\x00" + t.Object.N3()
}

// String returns a readable representation of the triple.
func (t Triple) String() string {
	return fmt.Sprintf("%s %s %s", t.Subject, t.Predicate.Value, t.Object)
}
