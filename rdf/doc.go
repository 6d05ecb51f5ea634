// Package rdf provides the RDF term model, literal coercion, and the
// in-memory graph used by buffered output formats.
//
// # Overview
//
// Terms follow the standard RDF model: IRIs for globally identified
// resources, blank nodes for substructures without a server identity, and
// typed literals for scalar values. Every term renders itself in N-Triples
// surface form through N3(), which the streaming format and the graph
// serializers build on.
//
// Literal coercion applies two opt-in data-quality policies: ellipsis
// shortening for human preview formats, and whitespace trimming. Untrimmed
// whitespace is warned about but never silently altered.
//
// # Quick Start
//
//	subj := rdf.IRI{Value: "https://example.org/Image/1"}
//	pred := rdf.IRI{Value: vocabulary.OME + "Name"}
//	obj := rdf.Coerce("6-well plate", rdf.CoerceOptions{})
//
//	g := rdf.NewGraph()
//	g.Add(rdf.Triple{Subject: subj, Predicate: pred, Object: obj})
package rdf
