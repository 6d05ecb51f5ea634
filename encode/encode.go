// Package encode models the generic key/value representation an OMERO
// object is marshalled into before triple generation.
package encode

import (
	"fmt"
	"sort"
	"strings"

	"github.com/German-BioImaging/omero-rdf/errors"
)

// Reserved keys of the encoded representation.
const (
	KeyType        = "@type"
	KeyID          = "@id"
	KeyAnnotations = "Annotations"
	KeyDetails     = "omero:details"
)

// Kind identifies the shape of a field value. The shape is decided once,
// when the raw server payload crosses into the core, so the recursive
// generator never re-inspects value types.
type Kind int

const (
	// KindScalar is a plain string, number, or boolean.
	KindScalar Kind = iota
	// KindObject is a single nested encoded object.
	KindObject
	// KindObjectList is a sequence of nested objects, each with its own @id.
	KindObjectList
	// KindPairList is a sequence of 2-element [key, value] pairs
	// representing a map annotation.
	KindPairList
)

// Pair is one [key, value] entry of a map annotation.
type Pair struct {
	Key   any
	Value any
}

// Value is one field of an encoded object, tagged by Kind. Exactly one of
// the payload fields is populated.
type Value struct {
	Kind    Kind
	Scalar  any
	Object  *Object
	Objects []*Object
	Pairs   []Pair
}

// Object is the encoded representation of a domain object: a typed,
// optionally identified bag of fields plus any attached annotations.
// The server bookkeeping under "omero:details" is dropped at the boundary
// and never reaches the generator.
type Object struct {
	// Type is the raw "@type" value, a fully-qualified type IRI-like string.
	Type string
	// ID is the raw "@id" value, nil when the substructure carries no
	// server identity.
	ID any
	// Fields holds every other key. Iteration must use SortedKeys for
	// deterministic output.
	Fields map[string]Value
	// Annotations are the attached metadata objects, in server order.
	Annotations []*Object
}

// ShortType returns the fragment of the type IRI after "#", or "UNKNOWN"
// when no type was encoded.
func (o *Object) ShortType() string {
	if o.Type == "" {
		return "UNKNOWN"
	}
	parts := strings.Split(o.Type, "#")
	return parts[len(parts)-1]
}

// SortedKeys returns the field keys in lexicographic order. Ordering is a
// correctness requirement: re-running an export over unchanged input must
// produce triples in the same order.
func (o *Object) SortedKeys() []string {
	keys := make([]string, 0, len(o.Fields))
	for k := range o.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// FromMap converts a raw decoded payload into an Object, classifying every
// field shape exactly once. Unrecognized list-element shapes violate the
// input contract and fail with ErrUnknownListItem.
func FromMap(data map[string]any) (*Object, error) {
	obj := &Object{Fields: make(map[string]Value)}

	for k, v := range data {
		switch k {
		case KeyType:
			s, ok := v.(string)
			if !ok {
				return nil, errors.WrapInvalid(
					fmt.Errorf("@type must be a string, got %T", v),
					"encode", "FromMap", "type check")
			}
			obj.Type = s
		case KeyID:
			obj.ID = v
		case KeyDetails:
			// Server bookkeeping, always omitted from output.
		case KeyAnnotations:
			anns, err := annotationList(v)
			if err != nil {
				return nil, err
			}
			obj.Annotations = anns
		default:
			val, err := classify(v)
			if err != nil {
				return nil, errors.Wrap(err, "encode", "FromMap", "classifying "+k)
			}
			obj.Fields[k] = val
		}
	}
	return obj, nil
}

func annotationList(v any) ([]*Object, error) {
	items, ok := v.([]any)
	if !ok {
		return nil, errors.WrapInvalid(
			fmt.Errorf("Annotations must be a list, got %T", v),
			"encode", "FromMap", "annotation check")
	}
	anns := make([]*Object, 0, len(items))
	for _, item := range items {
		m, ok := item.(map[string]any)
		if !ok {
			return nil, errors.WrapInvalid(
				fmt.Errorf("annotation must be an object, got %T", item),
				"encode", "FromMap", "annotation check")
		}
		ann, err := FromMap(m)
		if err != nil {
			return nil, err
		}
		anns = append(anns, ann)
	}
	return anns, nil
}

func classify(v any) (Value, error) {
	switch val := v.(type) {
	case map[string]any:
		nested, err := FromMap(val)
		if err != nil {
			return Value{}, err
		}
		return Value{Kind: KindObject, Object: nested}, nil
	case []any:
		return classifyList(val)
	default:
		return Value{Kind: KindScalar, Scalar: v}, nil
	}
}

// classifyList decides between a list of identified objects and a list of
// [key, value] pairs. An element of any other shape, including a nested
// object without an @id, is a fatal input-contract violation.
func classifyList(items []any) (Value, error) {
	objects := make([]*Object, 0, len(items))
	pairs := make([]Pair, 0, len(items))

	for _, item := range items {
		switch elem := item.(type) {
		case map[string]any:
			if _, ok := elem[KeyID]; !ok {
				return Value{}, fmt.Errorf("%w: object element without @id", errors.ErrUnknownListItem)
			}
			nested, err := FromMap(elem)
			if err != nil {
				return Value{}, err
			}
			objects = append(objects, nested)
		case []any:
			if len(elem) != 2 {
				return Value{}, fmt.Errorf("%w: pair of length %d", errors.ErrUnknownListItem, len(elem))
			}
			pairs = append(pairs, Pair{Key: elem[0], Value: elem[1]})
		default:
			return Value{}, fmt.Errorf("%w: %T", errors.ErrUnknownListItem, item)
		}
	}

	if len(objects) > 0 && len(pairs) > 0 {
		return Value{}, fmt.Errorf("%w: mixed object and pair elements", errors.ErrUnknownListItem)
	}
	if len(pairs) > 0 {
		return Value{Kind: KindPairList, Pairs: pairs}, nil
	}
	return Value{Kind: KindObjectList, Objects: objects}, nil
}
