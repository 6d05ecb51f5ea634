// Package format implements the output serialization strategies for an
// export run.
//
// # Overview
//
// Formats split into two families. Streaming formats (ntriples) render each
// triple the moment it is produced, so arbitrarily large graphs export with
// bounded memory. Buffering formats (turtle, jsonld, ro-crate) accumulate
// triples into an in-memory graph and serialize exactly once at the end.
// Calling a buffering method on a streaming format, or vice versa, is a
// programming-contract violation and fails with ErrUnsupportedOperation.
//
// The generator and traversal layers never see a Format directly: they
// depend on the Sink contract (Emit, Close, and a Streaming flag), and
// NewWriterSink adapts any Format to an io.Writer. Whatever format is
// chosen, the set of triples is identical; only the representation changes.
//
// # Quick Start
//
//	f, err := format.New("turtle")
//	if err != nil {
//	    return err
//	}
//	sink := format.NewWriterSink(f, os.Stdout)
//	defer sink.Close()
package format
