// Package gatewaytest provides an in-memory Gateway for tests.
package gatewaytest

import (
	"context"
	"fmt"

	"github.com/German-BioImaging/omero-rdf/encode"
	"github.com/German-BioImaging/omero-rdf/errors"
	"github.com/German-BioImaging/omero-rdf/gateway"
)

// Fake is an in-memory Gateway populated by tests. All maps are keyed by
// the "Type:ID" form of an ObjectRef.
type Fake struct {
	// ServerHost is returned by Host. Defaults to "omero.example.org".
	ServerHost string
	// HostErr, when set, makes Host fail.
	HostErr error

	Objects     map[string]map[string]any
	ChildRefs   map[string][]gateway.ObjectRef
	Annotation  map[string][]map[string]any
	Pixels      map[string]map[string]any
	ROIObjects  map[string][]map[string]any
	ShapeBodies map[string][]map[string]any
}

// New returns an empty fake gateway.
func New() *Fake {
	return &Fake{
		ServerHost:  "omero.example.org",
		Objects:     make(map[string]map[string]any),
		ChildRefs:   make(map[string][]gateway.ObjectRef),
		Annotation:  make(map[string][]map[string]any),
		Pixels:      make(map[string]map[string]any),
		ROIObjects:  make(map[string][]map[string]any),
		ShapeBodies: make(map[string][]map[string]any),
	}
}

// AddObject registers an object payload and returns its reference.
func (f *Fake) AddObject(typeName string, id int64, payload map[string]any) gateway.ObjectRef {
	ref := gateway.ObjectRef{Type: typeName, ID: id}
	if _, ok := payload["@type"]; !ok {
		payload["@type"] = "http://www.openmicroscopy.org/Schemas/OME/2016-06#" + typeName
	}
	if _, ok := payload["@id"]; !ok {
		payload["@id"] = float64(id)
	}
	f.Objects[ref.String()] = payload
	return ref
}

// AddChild links a child under a parent container.
func (f *Fake) AddChild(parent, child gateway.ObjectRef) {
	f.ChildRefs[parent.String()] = append(f.ChildRefs[parent.String()], child)
}

// AddAnnotation attaches an annotation payload to an object.
func (f *Fake) AddAnnotation(ref gateway.ObjectRef, payload map[string]any) {
	f.Annotation[ref.String()] = append(f.Annotation[ref.String()], payload)
}

// Host implements Gateway.
func (f *Fake) Host(_ context.Context) (string, error) {
	if f.HostErr != nil {
		return "", f.HostErr
	}
	return f.ServerHost, nil
}

// Encode implements Gateway.
func (f *Fake) Encode(_ context.Context, ref gateway.ObjectRef) (*encode.Object, error) {
	payload, ok := f.Objects[ref.String()]
	if !ok {
		return nil, errors.WrapNotFound(
			fmt.Errorf("%w: no such %s: %d", errors.ErrNotFound, ref.Type, ref.ID),
			"Fake", "Encode", "lookup")
	}
	return encode.FromMap(payload)
}

// Children implements Gateway.
func (f *Fake) Children(_ context.Context, ref gateway.ObjectRef) ([]gateway.ObjectRef, error) {
	return f.ChildRefs[ref.String()], nil
}

// Annotations implements Gateway.
func (f *Fake) Annotations(_ context.Context, ref gateway.ObjectRef) ([]*encode.Object, error) {
	return f.encodeAll(f.Annotation[ref.String()])
}

// PrimaryPixels implements Gateway.
func (f *Fake) PrimaryPixels(_ context.Context, image gateway.ObjectRef) (*encode.Object, error) {
	payload, ok := f.Pixels[image.String()]
	if !ok {
		return nil, nil
	}
	return encode.FromMap(payload)
}

// ROIs implements Gateway.
func (f *Fake) ROIs(_ context.Context, image gateway.ObjectRef) ([]*encode.Object, error) {
	return f.encodeAll(f.ROIObjects[image.String()])
}

// Shapes implements Gateway.
func (f *Fake) Shapes(_ context.Context, roi gateway.ObjectRef) ([]*encode.Object, error) {
	return f.encodeAll(f.ShapeBodies[roi.String()])
}

func (f *Fake) encodeAll(payloads []map[string]any) ([]*encode.Object, error) {
	out := make([]*encode.Object, 0, len(payloads))
	for _, p := range payloads {
		obj, err := encode.FromMap(p)
		if err != nil {
			return nil, err
		}
		out = append(out, obj)
	}
	return out, nil
}
