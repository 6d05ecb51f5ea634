// Package annotation provides the pluggable handler chain that can
// reinterpret annotation payloads into custom triples.
package annotation

import (
	"context"

	"github.com/German-BioImaging/omero-rdf/encode"
	"github.com/German-BioImaging/omero-rdf/errors"
	"github.com/German-BioImaging/omero-rdf/rdf"
)

// EmitFunc receives triples as a handler produces them, so output reaches
// the sink incrementally instead of being collected first.
type EmitFunc func(rdf.Triple) error

// Allocator mints subject identities for handlers. The triple generator
// implements it; handlers never build IRIs by hand.
type Allocator interface {
	// Identity returns the subject IRI for a domain type and id.
	Identity(typeName string, id any) rdf.IRI
	// BlankNode mints a fresh anonymous node, unique within the run.
	BlankNode() rdf.BlankNode
}

// Handler is one member of the annotation handler chain.
//
// Container and predicate are nil when the payload is offered as a
// standalone annotation (before identity dedup); they are set when the
// payload was found linked to a parent object. Handlers must be
// side-effect-free on payloads they do not recognize and report
// claimed=false for them.
type Handler interface {
	// Name identifies the handler in logs and metrics.
	Name() string
	// HandleAnnotation offers the payload to the handler. Produced triples
	// go through emit; the claimed flag reports whether the handler took
	// responsibility for the payload.
	HandleAnnotation(ctx context.Context, alloc Allocator, container rdf.Term,
		predicate *rdf.IRI, payload *encode.Object, emit EmitFunc) (claimed bool, err error)
}

// Registry is the ordered handler chain. Handlers are explicit and injected
// at startup; there is no runtime plugin discovery.
type Registry struct {
	handlers []Handler
}

// NewRegistry builds a registry from the given handlers in dispatch order.
// At least one handler must be registered: the generator's default handler
// is always appended by its constructor, so an empty registry indicates a
// wiring bug.
func NewRegistry(handlers ...Handler) (*Registry, error) {
	if len(handlers) == 0 {
		return nil, errors.WrapInvalid(errors.ErrNoHandlers, "Registry", "NewRegistry", "construction")
	}
	return &Registry{handlers: handlers}, nil
}

// Append adds a handler at the end of the chain.
func (r *Registry) Append(h Handler) {
	r.handlers = append(r.handlers, h)
}

// Handlers returns the chain in dispatch order.
func (r *Registry) Handlers() []Handler {
	return r.handlers
}

// OfferAll offers the payload to every handler in registration order.
// When firstWins is set the chain short-circuits at the first claim;
// otherwise every handler sees the payload unconditionally. Returns whether
// any handler claimed it.
func (r *Registry) OfferAll(ctx context.Context, alloc Allocator, container rdf.Term,
	predicate *rdf.IRI, payload *encode.Object, emit EmitFunc, firstWins bool) (bool, error) {

	claimed := false
	for _, h := range r.handlers {
		ok, err := h.HandleAnnotation(ctx, alloc, container, predicate, payload, emit)
		if err != nil {
			return claimed, errors.Wrap(err, "Registry", "OfferAll", h.Name())
		}
		if ok {
			claimed = true
			if firstWins {
				return true, nil
			}
		}
	}
	return claimed, nil
}

// OfferFirst offers the payload to the chain, stopping at the first claim
// regardless of the first-handler-wins setting. Used for annotations linked
// to a parent object, where exactly one handler is responsible per entry.
func (r *Registry) OfferFirst(ctx context.Context, alloc Allocator, container rdf.Term,
	predicate *rdf.IRI, payload *encode.Object, emit EmitFunc) (bool, error) {

	for _, h := range r.handlers {
		ok, err := h.HandleAnnotation(ctx, alloc, container, predicate, payload, emit)
		if err != nil {
			return false, errors.Wrap(err, "Registry", "OfferFirst", h.Name())
		}
		if ok {
			return true, nil
		}
	}
	return false, nil
}
