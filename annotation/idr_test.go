package annotation

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/German-BioImaging/omero-rdf/encode"
	"github.com/German-BioImaging/omero-rdf/rdf"
	"github.com/German-BioImaging/omero-rdf/vocabulary"
)

func mapAnnotation(t *testing.T, pairs []any) *encode.Object {
	t.Helper()
	obj, err := encode.FromMap(map[string]any{
		"@type": "http://www.openmicroscopy.org/Schemas/OME/2016-06#MapAnnotation",
		"@id":   float64(77),
		"Value": pairs,
	})
	require.NoError(t, err)
	return obj
}

func collectEmit(out *[]rdf.Triple) EmitFunc {
	return func(tr rdf.Triple) error {
		*out = append(*out, tr)
		return nil
	}
}

func TestIDRHandlerSkipsNonMapAnnotations(t *testing.T) {
	h := NewIDRHandler(nil, nil)
	obj, err := encode.FromMap(map[string]any{
		"@type": "#TagAnnotation",
		"@id":   float64(1),
	})
	require.NoError(t, err)

	claimed, err := h.HandleAnnotation(context.Background(), &stubAllocator{}, nil, nil, obj, noEmit)
	require.NoError(t, err)
	assert.False(t, claimed)
}

func TestIDRHandlerReshapesMapAnnotation(t *testing.T) {
	lookup := func(_ context.Context, query, variable string) (string, bool, error) {
		if strings.Contains(query, "Homo sapiens") {
			assert.Equal(t, "taxon", variable)
			return vocabulary.Wikidata + "Q15978631", true, nil
		}
		return "", false, nil
	}

	h := NewIDRHandler(lookup, nil)
	container := rdf.IRI{Value: "https://test.example.org/Image/1"}
	pred := rdf.IRI{Value: vocabulary.OMEAnnotation}

	var triples []rdf.Triple
	claimed, err := h.HandleAnnotation(context.Background(), &stubAllocator{}, container, &pred,
		mapAnnotation(t, []any{
			[]any{"Organism", "Homo sapiens"},
			[]any{"Sex", "Female"},
			[]any{"Age", "42"},
			[]any{"Gene Symbol", "TP53"},
		}), collectEmit(&triples))
	require.NoError(t, err)
	assert.True(t, claimed)

	thing := rdf.IRI{Value: "https://test.example.org/MapAnnotation/77"}
	assert.Contains(t, triples, rdf.Triple{
		Subject:   container,
		Predicate: rdf.IRI{Value: wdpDepicts},
		Object:    thing,
	})
	assert.Contains(t, triples, rdf.Triple{
		Subject:   thing,
		Predicate: rdf.IRI{Value: vocabulary.RDFType},
		Object:    rdf.IRI{Value: wdThing},
	})
	assert.Contains(t, triples, rdf.Triple{
		Subject:   thing,
		Predicate: rdf.IRI{Value: wdpFoundInTaxon},
		Object:    rdf.IRI{Value: vocabulary.Wikidata + "Q15978631"},
	})
	assert.Contains(t, triples, rdf.Triple{
		Subject:   thing,
		Predicate: rdf.IRI{Value: wdpSex},
		Object:    rdf.IRI{Value: wdFemale},
	})
	assert.Contains(t, triples, rdf.Triple{
		Subject:   thing,
		Predicate: rdf.IRI{Value: wdpAge},
		Object:    rdf.Literal{Lexical: "42"},
	})
	assert.Contains(t, triples, rdf.Triple{
		Subject:   thing,
		Predicate: rdf.IRI{Value: wdpGeneSymbol},
		Object:    rdf.Literal{Lexical: "TP53"},
	})
}

func TestIDRHandlerCachesLookups(t *testing.T) {
	calls := 0
	lookup := func(_ context.Context, _, _ string) (string, bool, error) {
		calls++
		return vocabulary.Wikidata + "Q15978631", true, nil
	}

	h := NewIDRHandler(lookup, nil)
	var triples []rdf.Triple
	for i := 0; i < 3; i++ {
		_, err := h.HandleAnnotation(context.Background(), &stubAllocator{}, nil, nil,
			mapAnnotation(t, []any{[]any{"Organism", "Homo sapiens"}}), collectEmit(&triples))
		require.NoError(t, err)
	}
	assert.Equal(t, 1, calls, "resolved values are cached per run")
}

func TestIDRHandlerMissingLookupEmitsNothing(t *testing.T) {
	lookup := func(_ context.Context, _, _ string) (string, bool, error) {
		return "", false, nil
	}

	h := NewIDRHandler(lookup, nil)
	var triples []rdf.Triple
	claimed, err := h.HandleAnnotation(context.Background(), &stubAllocator{}, nil, nil,
		mapAnnotation(t, []any{[]any{"Organism", "Unknownium"}}), collectEmit(&triples))
	require.NoError(t, err)
	assert.True(t, claimed)

	for _, tr := range triples {
		assert.NotEqual(t, wdpFoundInTaxon, tr.Predicate.Value,
			"unresolved values must not produce statements")
	}
}

func TestIDRHandlerIdentifierURLs(t *testing.T) {
	h := NewIDRHandler(nil, nil)
	var triples []rdf.Triple
	_, err := h.HandleAnnotation(context.Background(), &stubAllocator{}, nil, nil,
		mapAnnotation(t, []any{
			[]any{"Antibody Identifier URL", "https://www.proteinatlas.org/ENSG1"},
			[]any{"Pathology Identifier", "M-80103"},
		}), collectEmit(&triples))
	require.NoError(t, err)

	thing := rdf.IRI{Value: "https://test.example.org/MapAnnotation/77"}
	assert.Contains(t, triples, rdf.Triple{
		Subject:   thing,
		Predicate: rdf.IRI{Value: vocabulary.DCIdentifier},
		Object:    rdf.IRI{Value: "https://www.proteinatlas.org/ENSG1"},
	})
	assert.Contains(t, triples, rdf.Triple{
		Subject:   thing,
		Predicate: rdf.IRI{Value: wdpMedicalCondition},
		Object:    rdf.IRI{Value: vocabulary.SNMI + "M-80103"},
	})
}

func TestIDRHandlerBlankNodeWithoutID(t *testing.T) {
	h := NewIDRHandler(nil, nil)
	obj, err := encode.FromMap(map[string]any{
		"@type": "#MapAnnotation",
		"Value": []any{[]any{"Age", "3"}},
	})
	require.NoError(t, err)

	var triples []rdf.Triple
	claimed, err := h.HandleAnnotation(context.Background(), &stubAllocator{}, nil, nil, obj,
		collectEmit(&triples))
	require.NoError(t, err)
	assert.True(t, claimed)
	require.NotEmpty(t, triples)
	assert.Equal(t, rdf.TermBlankNode, triples[0].Subject.Kind())
}
