// Package handler contains the core of the exporter: the recursive triple
// generator and the containment traversal.
//
// # Overview
//
// A Handler binds a server gateway to an output sink. Handle expands one
// encoded object into triples; Descend walks a container hierarchy (Project
// to Dataset to Image, Screen to Plate to Well to Image) and links every
// parent/child pair with bidirectional dcterms:isPartOf / dcterms:hasPart
// edges; Export runs Descend over a list of command-line targets.
//
// Subject identities follow the https://{host}/{Type}/{id} scheme, with the
// server's trailing-I type suffix stripped (ImageI becomes Image; ROI keeps
// its name). A per-run visited set guarantees an object shared between
// several parents is expanded exactly once, while anonymous substructures
// hang off fresh blank nodes.
//
// # Quick Start
//
//	h, err := handler.New(ctx, gw, sink, handler.Options{Descent: handler.DescentRecursive})
//	if err != nil {
//		return err
//	}
//	target, err := gateway.ParseTarget("Image:123")
//	if err != nil {
//		return err
//	}
//	if err := h.Export(ctx, target); err != nil {
//		return err
//	}
//	return sink.Close()
//
// Annotation payloads are routed through the annotation handler chain before
// the generic expansion; the package's built-in default handler terminates
// the chain and maps unclaimed annotations onto provisional AnnotationTBD
// identities.
package handler
