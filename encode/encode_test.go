package encode

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/German-BioImaging/omero-rdf/errors"
)

func TestFromMapBasic(t *testing.T) {
	obj, err := FromMap(map[string]any{
		"@type":         "http://www.openmicroscopy.org/Schemas/OME/2016-06#Image",
		"@id":           float64(123),
		"Name":          "test.tiff",
		"omero:details": map[string]any{"group": "private"},
	})
	require.NoError(t, err)

	assert.Equal(t, "Image", obj.ShortType())
	assert.Equal(t, float64(123), obj.ID)
	assert.NotContains(t, obj.Fields, "omero:details", "server bookkeeping is dropped")
	assert.Equal(t, KindScalar, obj.Fields["Name"].Kind)
	assert.Equal(t, "test.tiff", obj.Fields["Name"].Scalar)
}

func TestShortTypeUnknown(t *testing.T) {
	obj := &Object{}
	assert.Equal(t, "UNKNOWN", obj.ShortType())

	obj = &Object{Type: "PlainTypeName"}
	assert.Equal(t, "PlainTypeName", obj.ShortType())
}

func TestFromMapNestedObject(t *testing.T) {
	obj, err := FromMap(map[string]any{
		"@type": "#Image",
		"@id":   float64(1),
		"Pixels": map[string]any{
			"@type": "#Pixels",
			"@id":   float64(1),
			"SizeX": float64(512),
		},
		"PhysicalSize": map[string]any{
			"Value": float64(0.5),
			"Unit":  "MICROMETER",
		},
	})
	require.NoError(t, err)

	pixels := obj.Fields["Pixels"]
	assert.Equal(t, KindObject, pixels.Kind)
	assert.Equal(t, float64(1), pixels.Object.ID)

	size := obj.Fields["PhysicalSize"]
	assert.Equal(t, KindObject, size.Kind)
	assert.Nil(t, size.Object.ID, "inline substructure has no identity")
}

func TestFromMapObjectList(t *testing.T) {
	obj, err := FromMap(map[string]any{
		"@type": "#Roi",
		"@id":   float64(9),
		"Shapes": []any{
			map[string]any{"@type": "#Rectangle", "@id": float64(1)},
			map[string]any{"@type": "#Ellipse", "@id": float64(2)},
		},
	})
	require.NoError(t, err)

	shapes := obj.Fields["Shapes"]
	assert.Equal(t, KindObjectList, shapes.Kind)
	require.Len(t, shapes.Objects, 2)
	assert.Equal(t, "Ellipse", shapes.Objects[1].ShortType())
}

func TestFromMapPairList(t *testing.T) {
	obj, err := FromMap(map[string]any{
		"@type": "#MapAnnotation",
		"@id":   float64(4),
		"Value": []any{
			[]any{"Organism", "Homo sapiens"},
			[]any{"Age", float64(42)},
		},
	})
	require.NoError(t, err)

	pairs := obj.Fields["Value"]
	assert.Equal(t, KindPairList, pairs.Kind)
	require.Len(t, pairs.Pairs, 2)
	assert.Equal(t, "Organism", pairs.Pairs[0].Key)
	assert.Equal(t, "Homo sapiens", pairs.Pairs[0].Value)
}

func TestFromMapAnnotations(t *testing.T) {
	obj, err := FromMap(map[string]any{
		"@type": "#Image",
		"@id":   float64(1),
		"Annotations": []any{
			map[string]any{"@type": "#TagAnnotation", "@id": float64(7), "TextValue": "nucleus"},
		},
	})
	require.NoError(t, err)

	require.Len(t, obj.Annotations, 1)
	assert.Equal(t, "TagAnnotation", obj.Annotations[0].ShortType())
	assert.NotContains(t, obj.Fields, "Annotations")
}

func TestFromMapUnknownListItems(t *testing.T) {
	tests := []struct {
		name string
		list []any
	}{
		{"scalar element", []any{"loose string"}},
		{"object without id", []any{map[string]any{"@type": "#Thing"}}},
		{"triple-element pair", []any{[]any{"a", "b", "c"}}},
		{"mixed shapes", []any{
			map[string]any{"@type": "#Thing", "@id": float64(1)},
			[]any{"k", "v"},
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := FromMap(map[string]any{
				"@type": "#X",
				"@id":   float64(1),
				"Bad":   tt.list,
			})
			require.Error(t, err)
			assert.True(t, errors.Is(err, errors.ErrUnknownListItem))
		})
	}
}

func TestSortedKeysDeterministic(t *testing.T) {
	obj, err := FromMap(map[string]any{
		"@type": "#Image",
		"@id":   float64(1),
		"Zeta":  "z",
		"Alpha": "a",
		"Mid":   "m",
	})
	require.NoError(t, err)

	for i := 0; i < 10; i++ {
		assert.Equal(t, []string{"Alpha", "Mid", "Zeta"}, obj.SortedKeys())
	}
}
