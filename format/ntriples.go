package format

import (
	"fmt"
	"strings"

	"github.com/German-BioImaging/omero-rdf/rdf"
)

// NTriples is the streaming line-based format: one tab-separated triple per
// line, terminated with " .". The object position is escaped so the output
// stays pure ASCII.
type NTriples struct {
	streamingFormat
}

// NewNTriples returns the streaming N-Triples format.
func NewNTriples() *NTriples {
	return &NTriples{}
}

// Name implements Format.
func (*NTriples) Name() string { return "ntriples" }

// SerializeTriple implements Format.
func (*NTriples) SerializeTriple(t rdf.Triple) (string, error) {
	return fmt.Sprintf("%s\t%s\t%s .", t.Subject.N3(), t.Predicate.N3(), escapeNonASCII(t.Object.N3())), nil
}

// escapeNonASCII replaces every character outside the ASCII range with its
// \uXXXX or \UXXXXXXXX escape.
func escapeNonASCII(s string) string {
	var b strings.Builder
	for _, r := range s {
		switch {
		case r < 0x80:
			b.WriteRune(r)
		case r <= 0xFFFF:
			fmt.Fprintf(&b, `\u%04X`, r)
		default:
			fmt.Fprintf(&b, `\U%08X`, r)
		}
	}
	return b.String()
}
