package gateway

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/German-BioImaging/omero-rdf/encode"
	"github.com/German-BioImaging/omero-rdf/errors"
)

func TestParseTarget(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    ObjectRef
		wantErr bool
	}{
		{name: "image target", input: "Image:123", want: ObjectRef{Type: "Image", ID: 123}},
		{name: "project target", input: "Project:1", want: ObjectRef{Type: "Project", ID: 1}},
		{name: "missing id", input: "Image", wantErr: true},
		{name: "empty type", input: ":5", wantErr: true},
		{name: "non-numeric id", input: "Image:abc", wantErr: true},
		{name: "empty string", input: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseTarget(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, errors.Is(err, errors.ErrInvalidTarget))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestObjectRefString(t *testing.T) {
	assert.Equal(t, "Dataset:42", ObjectRef{Type: "Dataset", ID: 42}.String())
}

func TestRefOf(t *testing.T) {
	obj, err := encode.FromMap(map[string]any{
		"@type": "#Image",
		"@id":   float64(5),
	})
	require.NoError(t, err)

	ref, err := RefOf(obj)
	require.NoError(t, err)
	assert.Equal(t, ObjectRef{Type: "Image", ID: 5}, ref)
}

func TestRefOfMissingID(t *testing.T) {
	obj := &encode.Object{Type: "#Image"}
	_, err := RefOf(obj)
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrMissingID))
}
