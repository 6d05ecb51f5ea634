package format

import (
	"github.com/German-BioImaging/omero-rdf/vocabulary"
)

// ROCrate is the packaged research-object format: the JSON-LD document with
// the RO-Crate packaging vocabulary added to the context and two synthetic
// descriptor nodes prepended to the graph array, describing the package
// root and the metadata document's self-reference.
type ROCrate struct {
	JSONLD
}

// NewROCrate returns the buffered RO-Crate format.
func NewROCrate() *ROCrate {
	return &ROCrate{JSONLD: *NewJSONLD()}
}

// Name implements Format.
func (*ROCrate) Name() string { return "ro-crate" }

// Context implements the packaged context: the linked-data context extended
// with the RO-Crate vocabulary.
func (f *ROCrate) Context() map[string]any {
	ctx := f.JSONLD.Context()
	ctx["rocrate"] = vocabulary.ROCrate + "#"
	return ctx
}

// SerializeGraph implements Format.
func (f *ROCrate) SerializeGraph() (string, error) {
	doc, err := compactGraph(f.graph, f.Context())
	if err != nil {
		return "", err
	}

	// Compaction inlines a single node at the top level; packaging always
	// needs the @graph array form.
	graph, ok := doc["@graph"].([]any)
	if !ok {
		node := make(map[string]any, len(doc))
		for k, v := range doc {
			if k != "@context" {
				node[k] = v
				delete(doc, k)
			}
		}
		if len(node) > 0 {
			graph = []any{node}
		}
	}

	descriptors := []any{
		map[string]any{
			"@id":             "./",
			"@type":           "Dataset",
			"rocrate:license": "https://creativecommons.org/licenses/by/4.0/",
		},
		map[string]any{
			"@id":                "ro-crate-metadata.json",
			"@type":              "CreativeWork",
			"rocrate:conformsTo": map[string]any{"@id": "https://w3id.org/ro/crate/1.1"},
			"rocrate:about":      map[string]any{"@id": "./"},
		},
	}
	doc["@graph"] = append(descriptors, graph...)

	return marshalIndented(doc)
}
