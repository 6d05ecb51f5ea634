// Package vocabulary defines the namespace IRIs, well-known terms, and prefix
// bindings used throughout the RDF export.
//
// # Overview
//
// The exporter maps encoded OMERO objects into two primary namespaces: the
// OME core ontology (plain keys) and the OMERO server namespace (keys with
// the "omero:" prefix). Containment edges use Dublin Core terms, and the IDR
// annotation handler reshapes map annotations into Wikidata statements.
//
// # Quick Start
//
// Map an encoded key to its predicate IRI:
//
//	pred := vocabulary.Predicate("Name")          // OME core namespace
//	pred = vocabulary.Predicate("omero:details")  // OMERO namespace
//
// Bind the standard prefixes on a buffered serialization:
//
//	for _, p := range vocabulary.Prefixes() {
//	    graph.Bind(p.Prefix, p.Namespace)
//	}
package vocabulary
