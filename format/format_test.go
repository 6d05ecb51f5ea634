package format

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/German-BioImaging/omero-rdf/errors"
	"github.com/German-BioImaging/omero-rdf/rdf"
	"github.com/German-BioImaging/omero-rdf/vocabulary"
)

func imageTriple() rdf.Triple {
	return rdf.Triple{
		Subject:   rdf.IRI{Value: "https://omero.example.org/Image/123"},
		Predicate: rdf.IRI{Value: vocabulary.RDFType},
		Object:    rdf.IRI{Value: vocabulary.OMEXML + "Image"},
	}
}

func nameTriple(name string) rdf.Triple {
	return rdf.Triple{
		Subject:   rdf.IRI{Value: "https://omero.example.org/Image/123"},
		Predicate: rdf.IRI{Value: vocabulary.OME + "Name"},
		Object:    rdf.Literal{Lexical: name},
	}
}

func TestNew(t *testing.T) {
	for _, name := range Names() {
		f, err := New(name)
		require.NoError(t, err, name)
		assert.Equal(t, name, f.Name())
	}

	_, err := New("rdfxml")
	require.Error(t, err)
	assert.True(t, errors.IsInvalid(err))
}

func TestStreamingFamilyContract(t *testing.T) {
	f := NewNTriples()
	assert.True(t, f.Streaming())

	err := f.Add(imageTriple())
	require.Error(t, err)
	assert.True(t, errors.IsUnsupported(err))

	_, err = f.SerializeGraph()
	require.Error(t, err)
	assert.True(t, errors.IsUnsupported(err))
}

func TestBufferingFamilyContract(t *testing.T) {
	for _, name := range []string{"turtle", "jsonld", "ro-crate"} {
		f, err := New(name)
		require.NoError(t, err)
		assert.False(t, f.Streaming(), name)

		_, err = f.SerializeTriple(imageTriple())
		require.Error(t, err, name)
		assert.True(t, errors.IsUnsupported(err), name)
	}
}

func TestNTriplesLine(t *testing.T) {
	f := NewNTriples()
	line, err := f.SerializeTriple(nameTriple("test.tiff"))
	require.NoError(t, err)

	parts := strings.Split(line, "\t")
	require.Len(t, parts, 3)
	assert.Equal(t, "<https://omero.example.org/Image/123>", parts[0])
	assert.Equal(t, "<"+vocabulary.OME+"Name>", parts[1])
	assert.Equal(t, `"test.tiff" .`, parts[2])
}

func TestNTriplesEscapesNonASCII(t *testing.T) {
	f := NewNTriples()
	line, err := f.SerializeTriple(nameTriple("μm résolution"))
	require.NoError(t, err)

	assert.NotContains(t, line, "μ")
	assert.Contains(t, line, `\u03BC`)
	assert.Contains(t, line, `\u00E9`)

	line, err = f.SerializeTriple(nameTriple("emoji \U0001F52C"))
	require.NoError(t, err)
	assert.Contains(t, line, `\U0001F52C`)
}

func TestTurtleSerialization(t *testing.T) {
	f := NewTurtle()
	require.NoError(t, f.Add(imageTriple()))
	require.NoError(t, f.Add(nameTriple("test.tiff")))

	out, err := f.SerializeGraph()
	require.NoError(t, err)

	assert.Contains(t, out, "@prefix ome: <"+vocabulary.OME+"> .")
	assert.Contains(t, out, "@prefix omero: <"+vocabulary.OMERO+"> .")
	assert.Contains(t, out, "ome:Name")
	assert.Contains(t, out, `"test.tiff"`)
	assert.Contains(t, out, "<https://omero.example.org/Image/123>")
}

func TestTurtleGroupsSubjects(t *testing.T) {
	f := NewTurtle()
	require.NoError(t, f.Add(imageTriple()))
	require.NoError(t, f.Add(nameTriple("a")))

	out, err := f.SerializeGraph()
	require.NoError(t, err)
	assert.Equal(t, 1, strings.Count(out, "<https://omero.example.org/Image/123>"),
		"triples of one subject are grouped")
	assert.Contains(t, out, ";")
}

func TestJSONLDSerialization(t *testing.T) {
	f := NewJSONLD()
	require.NoError(t, f.Add(imageTriple()))
	require.NoError(t, f.Add(nameTriple("test.tiff")))

	out, err := f.SerializeGraph()
	require.NoError(t, err)

	var doc map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &doc))
	require.Contains(t, doc, "@context")

	ctx, ok := doc["@context"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, vocabulary.OME, ctx["ome"])
	assert.Equal(t, vocabulary.OMERO, ctx["omero"])
}

func TestROCrateDescriptors(t *testing.T) {
	f := NewROCrate()
	require.NoError(t, f.Add(imageTriple()))
	require.NoError(t, f.Add(nameTriple("test.tiff")))
	// A second subject guarantees a @graph array in the compacted output.
	require.NoError(t, f.Add(rdf.Triple{
		Subject:   rdf.IRI{Value: "https://omero.example.org/Pixels/123"},
		Predicate: rdf.IRI{Value: vocabulary.RDFType},
		Object:    rdf.IRI{Value: vocabulary.OMEXML + "Pixels"},
	}))

	out, err := f.SerializeGraph()
	require.NoError(t, err)

	var doc map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &doc))

	graph, ok := doc["@graph"].([]any)
	require.True(t, ok)
	require.GreaterOrEqual(t, len(graph), 2)

	root, ok := graph[0].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "./", root["@id"])
	assert.Equal(t, "Dataset", root["@type"])

	meta, ok := graph[1].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "ro-crate-metadata.json", meta["@id"])
}

func TestWriterSinkStreaming(t *testing.T) {
	var buf bytes.Buffer
	sink := NewWriterSink(NewNTriples(), &buf)
	assert.True(t, sink.Streaming())

	require.NoError(t, sink.Emit(imageTriple()))
	assert.NotEmpty(t, buf.String(), "streaming sinks write immediately")

	before := buf.Len()
	require.NoError(t, sink.Close())
	assert.Equal(t, before, buf.Len(), "streaming close is a no-op")
}

func TestWriterSinkBuffering(t *testing.T) {
	var buf bytes.Buffer
	sink := NewWriterSink(NewTurtle(), &buf)
	assert.False(t, sink.Streaming())

	require.NoError(t, sink.Emit(imageTriple()))
	assert.Empty(t, buf.String(), "buffering sinks hold triples until close")

	require.NoError(t, sink.Close())
	assert.Contains(t, buf.String(), "@prefix")
}
