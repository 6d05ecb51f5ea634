package format

import (
	"encoding/json"

	"github.com/piprate/json-gold/ld"

	"github.com/German-BioImaging/omero-rdf/errors"
	"github.com/German-BioImaging/omero-rdf/rdf"
	"github.com/German-BioImaging/omero-rdf/vocabulary"
)

// JSONLD is the buffered linked-data format: the accumulated graph is
// flattened and compacted against the fixed vocabulary context.
type JSONLD struct {
	bufferingFormat
}

// NewJSONLD returns the buffered JSON-LD format.
func NewJSONLD() *JSONLD {
	return &JSONLD{bufferingFormat: newBufferingFormat()}
}

// Name implements Format.
func (*JSONLD) Name() string { return "jsonld" }

// Context returns the JSON-LD context the graph is compacted against.
func (*JSONLD) Context() map[string]any {
	return vocabulary.Context()
}

// SerializeGraph implements Format.
func (f *JSONLD) SerializeGraph() (string, error) {
	doc, err := compactGraph(f.graph, f.Context())
	if err != nil {
		return "", err
	}
	return marshalIndented(doc)
}

// expandGraph converts the graph into expanded JSON-LD form: one node map
// per subject, in first-seen order.
func expandGraph(g *rdf.Graph) []any {
	var nodes []any
	for _, subject := range g.Subjects() {
		node := map[string]any{"@id": subject.String()}
		for _, t := range g.BySubject(subject) {
			if t.Predicate.Value == vocabulary.RDFType && t.Object.Kind() == rdf.TermIRI {
				types, _ := node["@type"].([]any)
				node["@type"] = append(types, t.Object.String())
				continue
			}
			values, _ := node[t.Predicate.Value].([]any)
			node[t.Predicate.Value] = append(values, objectValue(t.Object))
		}
		nodes = append(nodes, node)
	}
	return nodes
}

func objectValue(term rdf.Term) map[string]any {
	switch o := term.(type) {
	case rdf.Literal:
		if o.Datatype != "" {
			return map[string]any{"@value": o.Lexical, "@type": o.Datatype}
		}
		return map[string]any{"@value": o.Lexical}
	default:
		return map[string]any{"@id": term.String()}
	}
}

// compactGraph flattens the graph and compacts it against the context.
func compactGraph(g *rdf.Graph, context map[string]any) (map[string]any, error) {
	proc := ld.NewJsonLdProcessor()
	opts := ld.NewJsonLdOptions("")

	flattened, err := proc.Flatten(expandGraph(g), nil, opts)
	if err != nil {
		return nil, errors.Wrap(err, "JSONLD", "SerializeGraph", "flattening")
	}
	compacted, err := proc.Compact(flattened, map[string]any{"@context": context}, opts)
	if err != nil {
		return nil, errors.Wrap(err, "JSONLD", "SerializeGraph", "compaction")
	}
	return compacted, nil
}

func marshalIndented(doc map[string]any) (string, error) {
	out, err := json.MarshalIndent(doc, "", "    ")
	if err != nil {
		return "", errors.Wrap(err, "JSONLD", "SerializeGraph", "marshaling")
	}
	return string(out), nil
}
