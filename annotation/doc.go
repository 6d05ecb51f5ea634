// Package annotation implements the pluggable annotation handler chain.
//
// # Overview
//
// Every annotation payload the generator encounters is offered to an ordered
// chain of handlers. A handler may reinterpret payloads it recognizes into
// custom triples and report that it claimed the payload; payloads nobody
// claims fall through to the generator's default mapping (identity, generic
// annotation link, recursion).
//
// Handlers are explicit values injected at startup - there is no runtime
// plugin discovery. The chain must never be empty: the generator appends its
// own default handler when it is constructed.
//
// Dispatch follows registration order. For standalone annotation payloads
// the whole chain is offered unless first-handler-wins mode short-circuits
// at the first claim; for annotations linked to a parent object the first
// claim always ends the chain for that entry.
//
// # IDR handler
//
// IDRHandler reshapes IDR map annotations (Organism, Pathology, Organism
// Part, Sex, Age, gene and antibody identifiers) into Wikidata-style direct
// statements, optionally resolving entity values against a SPARQL endpoint
// through WikidataClient. Lookups are cached per run and can be disabled.
package annotation
