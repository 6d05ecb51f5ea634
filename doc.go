// Package omerordf exports microscopy metadata from an OMERO server as RDF
// triples.
//
// # Architecture
//
// The export pipeline has four stages:
//
//	┌─────────────────────────────────────┐
//	│            Gateway                  │  OMERO.web JSON API,
//	│   (encode, children, annotations)   │  or any other backend
//	└─────────────────────────────────────┘
//	           ↓ encoded objects
//	┌─────────────────────────────────────┐
//	│            Handler                  │  Identity allocation,
//	│   (descend, generate, dedup)        │  containment traversal
//	└─────────────────────────────────────┘
//	           ↓ annotation payloads
//	┌─────────────────────────────────────┐
//	│         Annotation chain            │  IDR reshaping, default
//	│   (claim or fall through)           │  AnnotationTBD mapping
//	└─────────────────────────────────────┘
//	           ↓ triples
//	┌─────────────────────────────────────┐
//	│         Format / Sink               │  ntriples, turtle,
//	│   (stream or buffer, file or NATS)  │  jsonld, ro-crate
//	└─────────────────────────────────────┘
//
// Every object reachable under a target (Project, Dataset, Screen, Plate,
// Well, Image, plus pixels, regions of interest, and shapes) becomes a
// subject of the form https://{host}/{Type}/{id}, linked to its container
// with bidirectional dcterms:isPartOf / dcterms:hasPart edges. Annotation
// payloads run through a pluggable handler chain before the generic
// expansion.
//
// # Quick Start
//
// The command line tool lives in cmd/omero-rdf. Programmatic callers can
// export into an in-memory graph:
//
//	gw, err := gateway.NewWebClient(gateway.WebClientConfig{
//		BaseURL: "https://idr.openmicroscopy.org",
//	})
//	if err != nil {
//		return err
//	}
//	target, err := gateway.ParseTarget("Image:123")
//	if err != nil {
//		return err
//	}
//	graph, err := omerordf.Export(ctx, gw, handler.Options{}, target)
//
// See the format package for serializing the graph afterwards.
package omerordf
