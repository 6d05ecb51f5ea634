package handler_test

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/German-BioImaging/omero-rdf/errors"
	"github.com/German-BioImaging/omero-rdf/format"
	"github.com/German-BioImaging/omero-rdf/gateway"
	"github.com/German-BioImaging/omero-rdf/gateway/gatewaytest"
	"github.com/German-BioImaging/omero-rdf/handler"
	"github.com/German-BioImaging/omero-rdf/vocabulary"
)

// projectFixture builds Project:1 -> Dataset:2 -> Image:3.
func projectFixture() (*gatewaytest.Fake, gateway.ObjectRef) {
	fake := gatewaytest.New()
	project := fake.AddObject("Project", 1, map[string]any{"Name": "idr0001"})
	dataset := fake.AddObject("Dataset", 2, map[string]any{"Name": "plate-a"})
	image := fake.AddObject("Image", 3, map[string]any{"Name": "well-1.tiff"})
	fake.AddChild(project, dataset)
	fake.AddChild(dataset, image)
	return fake, project
}

func TestExportImage(t *testing.T) {
	fake := gatewaytest.New()
	image := fake.AddObject("Image", 123, map[string]any{"Name": "test.tiff"})
	fake.Pixels[image.String()] = map[string]any{
		"@type": vocabulary.OMEXML + "Pixels",
		"@id":   float64(123),
		"SizeX": float64(64),
	}
	fake.AddAnnotation(image, map[string]any{
		"@type":     vocabulary.OMEXML + "CommentAnnotation",
		"@id":       float64(7),
		"TextValue": "reviewed",
	})
	fake.ROIObjects[image.String()] = []map[string]any{{
		"@type": vocabulary.OMEXML + "ROI",
		"@id":   float64(5),
	}}
	fake.ShapeBodies["ROI:5"] = []map[string]any{{
		"@type": vocabulary.OMEXML + "Rectangle",
		"@id":   float64(8),
		"Width": float64(10),
	}}
	fake.AddAnnotation(gateway.ObjectRef{Type: "ROI", ID: 5}, map[string]any{
		"@type":     vocabulary.OMEXML + "CommentAnnotation",
		"@id":       float64(11),
		"TextValue": "roi note",
	})
	fake.AddAnnotation(gateway.ObjectRef{Type: "Rectangle", ID: 8}, map[string]any{
		"@type":     vocabulary.OMEXML + "CommentAnnotation",
		"@id":       float64(12),
		"TextValue": "shape note",
	})

	h, sink := newTestHandler(t, fake, handler.Options{})
	require.NoError(t, h.Export(context.Background(), image))

	img := "https://omero.example.org/Image/123"
	pixels := "https://omero.example.org/Pixels/123"
	roi := "https://omero.example.org/ROI/5"
	shape := "https://omero.example.org/Rectangle/8"

	assert.True(t, sink.has(img, vocabulary.RDFType, vocabulary.OMEXML+"Image"))
	assert.True(t, sink.has(pixels, vocabulary.DCTermsIsPartOf, img))
	assert.True(t, sink.has(img, vocabulary.DCTermsHasPart, pixels))
	assert.True(t, sink.has(img, vocabulary.OMEAnnotation, "https://omero.example.org/AnnotationTBD/7"))
	assert.True(t, sink.has(roi, vocabulary.DCTermsIsPartOf, pixels),
		"regions of interest hang off the pixel set")
	assert.True(t, sink.has(pixels, vocabulary.DCTermsHasPart, roi))
	assert.True(t, sink.has(shape, vocabulary.DCTermsIsPartOf, roi))
	assert.True(t, sink.has(roi, vocabulary.DCTermsHasPart, shape))
	assert.True(t, sink.has(shape, vocabulary.OME+"Width", `"10"^^<`+vocabulary.XSDInteger+`>`))

	assert.True(t, sink.has(roi, vocabulary.OMEAnnotation, "https://omero.example.org/AnnotationTBD/11"))
	assert.True(t, sink.has(shape, vocabulary.OMEAnnotation, "https://omero.example.org/AnnotationTBD/12"))
	assert.True(t, sink.has("https://omero.example.org/AnnotationTBD/11", vocabulary.OME+"TextValue", `"roi note"`))
}

func TestExportImageWithoutPixelsAttachesROIsToImage(t *testing.T) {
	fake := gatewaytest.New()
	image := fake.AddObject("Image", 50, map[string]any{"Name": "no-pixels.tiff"})
	fake.ROIObjects[image.String()] = []map[string]any{{
		"@type": vocabulary.OMEXML + "ROI",
		"@id":   float64(6),
	}}

	h, sink := newTestHandler(t, fake, handler.Options{})
	require.NoError(t, h.Export(context.Background(), image))

	img := "https://omero.example.org/Image/50"
	roi := "https://omero.example.org/ROI/6"
	assert.True(t, sink.has(roi, vocabulary.DCTermsIsPartOf, img))
	assert.True(t, sink.has(img, vocabulary.DCTermsHasPart, roi))
}

func TestExportProjectRecursive(t *testing.T) {
	fake, project := projectFixture()

	h, sink := newTestHandler(t, fake, handler.Options{Descent: handler.DescentRecursive})
	require.NoError(t, h.Export(context.Background(), project))

	proj := "https://omero.example.org/Project/1"
	ds := "https://omero.example.org/Dataset/2"
	img := "https://omero.example.org/Image/3"

	assert.True(t, sink.has(proj, vocabulary.RDFType, vocabulary.OMEXML+"Project"))
	assert.True(t, sink.has(ds, vocabulary.DCTermsIsPartOf, proj))
	assert.True(t, sink.has(proj, vocabulary.DCTermsHasPart, ds))
	assert.True(t, sink.has(img, vocabulary.DCTermsIsPartOf, ds))
	assert.True(t, sink.has(ds, vocabulary.DCTermsHasPart, img))
	assert.True(t, sink.has(img, vocabulary.OME+"Name", `"well-1.tiff"`))
}

func TestExportProjectFlat(t *testing.T) {
	fake, project := projectFixture()
	fake.AddAnnotation(project, map[string]any{
		"@type":     vocabulary.OMEXML + "CommentAnnotation",
		"@id":       float64(9),
		"TextValue": "study notes",
	})

	h, sink := newTestHandler(t, fake, handler.Options{Descent: handler.DescentFlat})
	require.NoError(t, h.Export(context.Background(), project))

	proj := "https://omero.example.org/Project/1"
	assert.True(t, sink.has(proj, vocabulary.RDFType, vocabulary.OMEXML+"Project"))
	assert.True(t, sink.has(proj, vocabulary.OMEAnnotation, "https://omero.example.org/AnnotationTBD/9"),
		"the target's own annotations are still processed")

	for _, tr := range sink.triples {
		assert.NotContains(t, tr.Subject.String(), "/Dataset/", "flat descent never enters children")
		assert.NotContains(t, tr.Subject.String(), "/Image/")
	}
}

func TestAnnotationsLinkedWithContainmentEdges(t *testing.T) {
	fake, project := projectFixture()
	fake.AddAnnotation(project, map[string]any{
		"@type":     vocabulary.OMEXML + "CommentAnnotation",
		"@id":       float64(7),
		"TextValue": "needs review",
	})

	h, sink := newTestHandler(t, fake, handler.Options{})
	require.NoError(t, h.Export(context.Background(), project))

	proj := "https://omero.example.org/Project/1"
	ann := "https://omero.example.org/AnnotationTBD/7"
	assert.True(t, sink.has(proj, vocabulary.DCTermsHasPart, ann),
		"a container owns the annotations attached to it")
	assert.True(t, sink.has(ann, vocabulary.DCTermsIsPartOf, proj))
	assert.True(t, sink.has(proj, vocabulary.OMEAnnotation, ann))
}

func TestExportScreenHierarchy(t *testing.T) {
	fake := gatewaytest.New()
	screen := fake.AddObject("Screen", 1, map[string]any{"Name": "screen-a"})
	plate := fake.AddObject("Plate", 2, map[string]any{"Name": "plate-1"})
	well := fake.AddObject("Well", 3, map[string]any{"Column": float64(4)})
	image := fake.AddObject("Image", 4, map[string]any{"Name": "field-1.tiff"})
	fake.AddChild(screen, plate)
	fake.AddChild(plate, well)
	fake.AddChild(well, image)

	h, sink := newTestHandler(t, fake, handler.Options{})
	require.NoError(t, h.Export(context.Background(), screen))

	scr := "https://omero.example.org/Screen/1"
	plt := "https://omero.example.org/Plate/2"
	wll := "https://omero.example.org/Well/3"
	img := "https://omero.example.org/Image/4"

	assert.True(t, sink.has(plt, vocabulary.DCTermsIsPartOf, scr))
	assert.True(t, sink.has(wll, vocabulary.DCTermsIsPartOf, plt))
	assert.True(t, sink.has(img, vocabulary.DCTermsIsPartOf, wll))
	assert.True(t, sink.has(wll, vocabulary.DCTermsHasPart, img))
	assert.True(t, sink.has(wll, vocabulary.OME+"Column", `"4"^^<`+vocabulary.XSDInteger+`>`))
}

func TestExportUnknownTargetType(t *testing.T) {
	h, sink := newTestHandler(t, gatewaytest.New(), handler.Options{})

	err := h.Export(context.Background(), gateway.ObjectRef{Type: "Fileset", ID: 1})
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrUnknownTarget))
	assert.Equal(t, errors.StatusUnknownTarget, errors.ExitStatus(err))
	assert.Empty(t, sink.triples)
}

func TestExportMissingTarget(t *testing.T) {
	h, sink := newTestHandler(t, gatewaytest.New(), handler.Options{})

	err := h.Export(context.Background(), gateway.ObjectRef{Type: gateway.TypeImage, ID: 999})
	require.Error(t, err)
	assert.True(t, errors.IsNotFound(err))
	assert.Equal(t, errors.StatusNotFound, errors.ExitStatus(err))
	assert.Empty(t, sink.triples)
}

func TestExportSharedObjectEmittedOnce(t *testing.T) {
	fake := gatewaytest.New()
	ds1 := fake.AddObject("Dataset", 1, map[string]any{"Name": "a"})
	ds2 := fake.AddObject("Dataset", 2, map[string]any{"Name": "b"})
	image := fake.AddObject("Image", 3, map[string]any{"Name": "shared.tiff"})
	fake.AddChild(ds1, image)
	fake.AddChild(ds2, image)

	h, sink := newTestHandler(t, fake, handler.Options{})
	require.NoError(t, h.Export(context.Background(), ds1, ds2))

	img := "https://omero.example.org/Image/3"
	count := 0
	for _, tr := range sink.triples {
		if tr.Subject.String() == img && tr.Predicate.Value == vocabulary.OME+"Name" {
			count++
		}
	}
	assert.Equal(t, 1, count, "the shared image is expanded once")

	// Containment edges are emitted from both parents regardless.
	assert.True(t, sink.has(img, vocabulary.DCTermsIsPartOf, "https://omero.example.org/Dataset/1"))
	assert.True(t, sink.has(img, vocabulary.DCTermsIsPartOf, "https://omero.example.org/Dataset/2"))
}

func TestStreamingAndBufferedEmitSameTriples(t *testing.T) {
	fake, project := projectFixture()
	h, sink := newTestHandler(t, fake, handler.Options{})
	require.NoError(t, h.Export(context.Background(), project))

	fake2, project2 := projectFixture()
	var buf bytes.Buffer
	ntSink := format.NewWriterSink(format.NewNTriples(), &buf)
	h2, err := handler.New(context.Background(), fake2, ntSink, handler.Options{})
	require.NoError(t, err)
	require.NoError(t, h2.Export(context.Background(), project2))
	require.NoError(t, ntSink.Close())

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")

	nt := format.NewNTriples()
	rendered := make([]string, 0, len(sink.triples))
	for _, tr := range sink.triples {
		line, err := nt.SerializeTriple(tr)
		require.NoError(t, err)
		rendered = append(rendered, line)
	}
	assert.ElementsMatch(t, rendered, lines,
		"both sink families receive the same triples")
}
