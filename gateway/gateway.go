// Package gateway defines the boundary to the OMERO data-management server.
package gateway

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/German-BioImaging/omero-rdf/encode"
	"github.com/German-BioImaging/omero-rdf/errors"
)

// Container types an export can target or descend through.
const (
	TypeProject = "Project"
	TypeDataset = "Dataset"
	TypeScreen  = "Screen"
	TypePlate   = "Plate"
	TypeWell    = "Well"
	TypeImage   = "Image"
)

// ObjectRef identifies a domain object by type and numeric id.
type ObjectRef struct {
	Type string
	ID   int64
}

// String returns the "Type:ID" form of the reference.
func (r ObjectRef) String() string {
	return fmt.Sprintf("%s:%d", r.Type, r.ID)
}

// ParseTarget parses a "Type:ID" target reference as given on the command
// line.
func ParseTarget(s string) (ObjectRef, error) {
	parts := strings.SplitN(s, ":", 2)
	if len(parts) != 2 || parts[0] == "" {
		return ObjectRef{}, errors.WrapInvalid(
			fmt.Errorf("%w: %q (want Type:ID)", errors.ErrInvalidTarget, s),
			"gateway", "ParseTarget", "parsing")
	}
	id, err := strconv.ParseInt(parts[1], 10, 64)
	if err != nil {
		return ObjectRef{}, errors.WrapInvalid(
			fmt.Errorf("%w: %q has a non-numeric id", errors.ErrInvalidTarget, s),
			"gateway", "ParseTarget", "parsing")
	}
	return ObjectRef{Type: parts[0], ID: id}, nil
}

// RefOf rebuilds an ObjectRef from an encoded object's type and id.
func RefOf(obj *encode.Object) (ObjectRef, error) {
	if obj.ID == nil {
		return ObjectRef{}, errors.WrapInvalid(errors.ErrMissingID, "gateway", "RefOf", "identity check")
	}
	var id int64
	switch v := obj.ID.(type) {
	case float64:
		id = int64(v)
	case int64:
		id = v
	case int:
		id = int64(v)
	case string:
		parsed, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return ObjectRef{}, errors.WrapInvalid(
				fmt.Errorf("non-numeric @id %q", v), "gateway", "RefOf", "identity check")
		}
		id = parsed
	default:
		return ObjectRef{}, errors.WrapInvalid(
			fmt.Errorf("unsupported @id type %T", obj.ID), "gateway", "RefOf", "identity check")
	}
	return ObjectRef{Type: obj.ShortType(), ID: id}, nil
}

// Gateway is the collaborator interface consumed from the external domain
// server. The core only needs the operations below; rendering, sessions,
// and query construction stay behind the implementation.
//
// Every lookup of an object that does not exist server-side returns an
// error matching errors.ErrNotFound.
type Gateway interface {
	// Host resolves the server host used to build globally unique subject
	// IRIs. Resolved once per traversal; failure is fatal.
	Host(ctx context.Context) (string, error)

	// Encode fetches an object and returns its generic key/value
	// representation.
	Encode(ctx context.Context, ref ObjectRef) (*encode.Object, error)

	// Children enumerates a container's immediate children in
	// server-hierarchy order (Project to Dataset, Dataset to Image,
	// Screen to Plate, Plate to Well, Well to Image).
	Children(ctx context.Context, ref ObjectRef) ([]ObjectRef, error)

	// Annotations enumerates the annotations linked to an object, already
	// encoded.
	Annotations(ctx context.Context, ref ObjectRef) ([]*encode.Object, error)

	// PrimaryPixels returns the encoded primary pixel set of an image, or
	// nil when the image has none.
	PrimaryPixels(ctx context.Context, image ObjectRef) (*encode.Object, error)

	// ROIs returns the encoded regions of interest attached to an image.
	ROIs(ctx context.Context, image ObjectRef) ([]*encode.Object, error)

	// Shapes returns the encoded shapes of a region of interest.
	Shapes(ctx context.Context, roi ObjectRef) ([]*encode.Object, error)
}
