// Package format implements the RDF serialization strategies for an export.
package format

import (
	"fmt"
	"io"
	"sort"

	"github.com/German-BioImaging/omero-rdf/errors"
	"github.com/German-BioImaging/omero-rdf/rdf"
)

// Format renders triples in a target serialization. Output mechanisms split
// into two families:
//
//   - streaming: SerializeTriple renders one triple immediately; Add and
//     SerializeGraph reject calls.
//   - buffering: Add accumulates into a graph and SerializeGraph renders it
//     once; SerializeTriple rejects calls.
type Format interface {
	// Name returns the CLI name of the format, e.g. "ntriples".
	Name() string
	// Streaming reports whether the format renders triple-by-triple.
	Streaming() bool
	// SerializeTriple returns the rendered line for one triple.
	// Buffering formats return ErrUnsupportedOperation.
	SerializeTriple(t rdf.Triple) (string, error)
	// Add stores a triple for later serialization.
	// Streaming formats return ErrUnsupportedOperation.
	Add(t rdf.Triple) error
	// SerializeGraph renders the accumulated graph.
	// Streaming formats return ErrUnsupportedOperation.
	SerializeGraph() (string, error)
}

// New returns the format registered under the given name.
func New(name string) (Format, error) {
	switch name {
	case "ntriples":
		return NewNTriples(), nil
	case "turtle":
		return NewTurtle(), nil
	case "jsonld":
		return NewJSONLD(), nil
	case "ro-crate":
		return NewROCrate(), nil
	default:
		return nil, errors.WrapInvalid(
			fmt.Errorf("unknown format %q (choose one of %v)", name, Names()),
			"format", "New", "format selection")
	}
}

// Names returns the registered format names in stable order.
func Names() []string {
	names := []string{"ntriples", "jsonld", "turtle", "ro-crate"}
	sort.Strings(names)
	return names
}

// streamingFormat provides the rejected buffering methods for streaming
// formats.
type streamingFormat struct{}

func (streamingFormat) Streaming() bool { return true }

func (streamingFormat) Add(rdf.Triple) error {
	return errors.WrapUnsupported(errors.ErrUnsupportedOperation,
		"Format", "Add", "adding during streaming")
}

func (streamingFormat) SerializeGraph() (string, error) {
	return "", errors.WrapUnsupported(errors.ErrUnsupportedOperation,
		"Format", "SerializeGraph", "graph serialization during streaming")
}

// bufferingFormat accumulates triples into a graph with the bound prefixes
// and provides the rejected streaming method.
type bufferingFormat struct {
	graph *rdf.Graph
}

func newBufferingFormat() bufferingFormat {
	return bufferingFormat{graph: rdf.NewGraph()}
}

func (bufferingFormat) Streaming() bool { return false }

func (b bufferingFormat) Add(t rdf.Triple) error {
	b.graph.Add(t)
	return nil
}

func (bufferingFormat) SerializeTriple(rdf.Triple) (string, error) {
	return "", errors.WrapUnsupported(errors.ErrUnsupportedOperation,
		"Format", "SerializeTriple", "triple serialization while buffering")
}

// Graph exposes the accumulated graph, for programmatic use.
func (b bufferingFormat) Graph() *rdf.Graph {
	return b.graph
}

// Sink is the two-method contract the generator and traversal layers depend
// on: triples go in through Emit, and Close finishes the output. The
// Streaming flag tells the caller whether Close performs a final render.
type Sink interface {
	Emit(t rdf.Triple) error
	Streaming() bool
	Close() error
}

// writerSink adapts a Format to an io.Writer.
type writerSink struct {
	format Format
	w      io.Writer
}

// NewWriterSink returns a Sink that renders through the format and writes
// to w. Streaming formats write one line per triple as it arrives;
// buffering formats write the serialized graph once on Close.
func NewWriterSink(f Format, w io.Writer) Sink {
	return &writerSink{format: f, w: w}
}

func (s *writerSink) Streaming() bool { return s.format.Streaming() }

func (s *writerSink) Emit(t rdf.Triple) error {
	if s.format.Streaming() {
		line, err := s.format.SerializeTriple(t)
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(s.w, line)
		return err
	}
	return s.format.Add(t)
}

func (s *writerSink) Close() error {
	if s.format.Streaming() {
		return nil
	}
	doc, err := s.format.SerializeGraph()
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(s.w, doc)
	return err
}
