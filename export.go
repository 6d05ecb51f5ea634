package omerordf

import (
	"context"

	"github.com/German-BioImaging/omero-rdf/format"
	"github.com/German-BioImaging/omero-rdf/gateway"
	"github.com/German-BioImaging/omero-rdf/handler"
	"github.com/German-BioImaging/omero-rdf/rdf"
)

// Export runs a traversal over the given targets and returns the resulting
// graph, for callers that want to post-process triples instead of writing a
// serialization. Options.Format is ignored; the graph carries the triples
// unrendered.
func Export(ctx context.Context, gw gateway.Gateway, opts handler.Options,
	targets ...gateway.ObjectRef) (*rdf.Graph, error) {

	sink := &graphSink{graph: rdf.NewGraph()}
	h, err := handler.New(ctx, gw, sink, opts)
	if err != nil {
		return nil, err
	}
	if err := h.Export(ctx, targets...); err != nil {
		return nil, err
	}
	return sink.graph, nil
}

// graphSink buffers triples into a graph instead of serializing them.
type graphSink struct {
	graph *rdf.Graph
}

var _ format.Sink = (*graphSink)(nil)

func (s *graphSink) Emit(t rdf.Triple) error { s.graph.Add(t); return nil }
func (*graphSink) Streaming() bool           { return false }
func (*graphSink) Close() error              { return nil }
