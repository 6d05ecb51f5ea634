package handler

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/German-BioImaging/omero-rdf/annotation"
	"github.com/German-BioImaging/omero-rdf/encode"
	"github.com/German-BioImaging/omero-rdf/errors"
	"github.com/German-BioImaging/omero-rdf/format"
	"github.com/German-BioImaging/omero-rdf/gateway"
	"github.com/German-BioImaging/omero-rdf/metric"
	"github.com/German-BioImaging/omero-rdf/rdf"
	"github.com/German-BioImaging/omero-rdf/vocabulary"
)

// Descent strategies.
const (
	// DescentRecursive walks the full container hierarchy under a target.
	DescentRecursive = "recursive"
	// DescentFlat emits the target object alone, without entering its
	// children.
	DescentFlat = "flat"
)

// Options configure one export run.
type Options struct {
	// Ellide shortens long string literals. Lossy, for human preview only.
	Ellide bool
	// TrimWhitespace strips leading/trailing whitespace from string values.
	TrimWhitespace bool
	// FirstHandlerWins stops the annotation chain at the first claim when a
	// standalone annotation is offered; otherwise every handler sees it.
	FirstHandlerWins bool
	// Descent selects the traversal strategy, DescentRecursive by default.
	Descent string
	// Format is the output format name, used as a metric label only.
	Format string
	// Logger receives progress and data-quality messages. slog.Default()
	// when nil.
	Logger *slog.Logger
	// Metrics receives run instrumentation. Nil disables it.
	Metrics *metric.Metrics
}

// Handler turns encoded domain objects into triples on a sink. It owns the
// subject identity scheme, the visited set that deduplicates shared objects,
// and the annotation handler chain. A Handler is single-use and not safe for
// concurrent calls.
type Handler struct {
	gw       gateway.Gateway
	sink     format.Sink
	registry *annotation.Registry
	opts     Options
	logger   *slog.Logger
	metrics  *metric.Metrics

	// host anchors every subject IRI, resolved once at construction.
	host string

	seen   map[string]struct{}
	bnodes int
	depth  int
}

// New builds a Handler over the given server gateway and output sink. The
// extra annotation handlers run in the given order, followed by the built-in
// default handler that covers everything the extras leave unclaimed. Host
// resolution happens here; failure is fatal.
func New(ctx context.Context, gw gateway.Gateway, sink format.Sink, opts Options,
	extra ...annotation.Handler) (*Handler, error) {

	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.Descent == "" {
		opts.Descent = DescentRecursive
	}

	host, err := gw.Host(ctx)
	if err != nil {
		return nil, errors.WrapFatal(err, "Handler", "New", "resolving server host")
	}

	h := &Handler{
		gw:      gw,
		sink:    sink,
		opts:    opts,
		logger:  opts.Logger,
		metrics: opts.Metrics,
		host:    host,
		seen:    make(map[string]struct{}),
	}

	chain := make([]annotation.Handler, 0, len(extra)+1)
	for _, ah := range extra {
		chain = append(chain, h.instrumented(ah))
	}
	chain = append(chain, h.instrumented(&defaultAnnotationHandler{h: h}))

	registry, err := annotation.NewRegistry(chain...)
	if err != nil {
		return nil, errors.Wrap(err, "Handler", "New", "building handler chain")
	}
	h.registry = registry
	return h, nil
}

// Identity mints the globally unique subject IRI for a domain type and id.
// A single trailing "I" is an implementation artifact of the server's type
// names (ImageI, ProjectI) and is stripped, except for ROI where the I
// belongs to the acronym.
func (h *Handler) Identity(typeName string, id any) rdf.IRI {
	if typeName != "ROI" && strings.HasSuffix(typeName, "I") {
		typeName = typeName[:len(typeName)-1]
	}
	return rdf.IRI{Value: fmt.Sprintf("https://%s/%s/%s", h.host, typeName, formatID(id))}
}

// formatID renders an @id for use inside an IRI. JSON decoding hands ids
// over as float64; integral values must render as plain integers, never in
// scientific notation.
func formatID(id any) string {
	switch v := id.(type) {
	case float64:
		if v == float64(int64(v)) {
			return strconv.FormatInt(int64(v), 10)
		}
	case float32:
		if float64(v) == float64(int64(v)) {
			return strconv.FormatInt(int64(v), 10)
		}
	}
	return fmt.Sprintf("%v", id)
}

// BlankNode mints a fresh anonymous node, unique within the run.
func (h *Handler) BlankNode() rdf.BlankNode {
	b := rdf.BlankNode{ID: fmt.Sprintf("b%d", h.bnodes)}
	h.bnodes++
	return b
}

// Handle generates the triples for one encoded object and everything
// reachable inside its payload, returning the subject term so callers can
// link it into the containment hierarchy. An object without @id is a
// malformed-input error and produces zero triples.
func (h *Handler) Handle(ctx context.Context, obj *encode.Object) (rdf.Term, error) {
	if obj.ID == nil {
		return nil, errors.WrapInvalid(
			fmt.Errorf("%w: %s", errors.ErrMissingID, obj.ShortType()),
			"Handler", "Handle", "identity check")
	}
	subj := h.Identity(obj.ShortType(), obj.ID)
	if err := h.generate(ctx, subj, obj); err != nil {
		return nil, err
	}
	return subj, nil
}

// generate walks one encoded object. Subjects already expanded in this run
// are skipped; field order is lexicographic so re-running an export over
// unchanged input reproduces the same triples in the same order.
func (h *Handler) generate(ctx context.Context, subj rdf.Term, obj *encode.Object) error {
	shortType := obj.ShortType()

	if strings.Contains(shortType, "Annotation") {
		claimed, err := h.registry.OfferAll(ctx, h, nil, nil, obj, h.emit, h.opts.FirstHandlerWins)
		if err != nil {
			return errors.Wrap(err, "Handler", "generate", "offering annotation")
		}
		if claimed && h.opts.FirstHandlerWins {
			return nil
		}
	}

	key := subj.String()
	if _, ok := h.seen[key]; ok {
		h.logger.Debug("skipping visited subject", "subject", key)
		if h.metrics != nil {
			h.metrics.VisitsSkipped.Inc()
		}
		return nil
	}
	h.seen[key] = struct{}{}
	if h.metrics != nil {
		h.metrics.ObjectsVisited.WithLabelValues(shortType).Inc()
	}

	if obj.Type != "" {
		if err := h.emit(rdf.Triple{
			Subject:   subj,
			Predicate: rdf.IRI{Value: vocabulary.RDFType},
			Object:    rdf.IRI{Value: obj.Type},
		}); err != nil {
			return err
		}
	}

	for _, k := range obj.SortedKeys() {
		pred := rdf.IRI{Value: vocabulary.Predicate(k)}
		if err := h.generateField(ctx, subj, pred, obj.Fields[k]); err != nil {
			return errors.Wrap(err, "Handler", "generate", "field "+k)
		}
	}

	for _, ann := range obj.Annotations {
		if ann.ID != nil {
			if err := h.contains(subj, h.Identity("AnnotationTBD", ann.ID)); err != nil {
				return err
			}
		}
		predicate := rdf.IRI{Value: vocabulary.OMEAnnotation}
		if _, err := h.registry.OfferFirst(ctx, h, subj, &predicate, ann, h.emit); err != nil {
			return errors.Wrap(err, "Handler", "generate", "annotation dispatch")
		}
	}
	return nil
}

func (h *Handler) generateField(ctx context.Context, subj rdf.Term, pred rdf.IRI, v encode.Value) error {
	switch v.Kind {
	case encode.KindObject:
		return h.generateNested(ctx, subj, pred, v.Object)

	case encode.KindObjectList:
		for _, nested := range v.Objects {
			if err := h.generateNested(ctx, subj, pred, nested); err != nil {
				return err
			}
		}
		return nil

	case encode.KindPairList:
		for _, pair := range v.Pairs {
			node := h.BlankNode()
			triples := []rdf.Triple{
				{Subject: subj, Predicate: rdf.IRI{Value: vocabulary.OMEMap}, Object: node},
				{Subject: node, Predicate: rdf.IRI{Value: vocabulary.OMEKey}, Object: h.coerce(pair.Key)},
				{Subject: node, Predicate: rdf.IRI{Value: vocabulary.OMEValue}, Object: h.coerce(pair.Value)},
			}
			for _, t := range triples {
				if err := h.emit(t); err != nil {
					return err
				}
			}
		}
		return nil

	default:
		return h.emit(rdf.Triple{Subject: subj, Predicate: pred, Object: h.coerce(v.Scalar)})
	}
}

// generateNested links a nested object from its parent and expands it. An
// identified substructure gets its own identity and becomes the new root of
// the recursion; an anonymous one hangs off a fresh blank node.
func (h *Handler) generateNested(ctx context.Context, subj rdf.Term, pred rdf.IRI, nested *encode.Object) error {
	var child rdf.Term
	if nested.ID != nil {
		child = h.Identity(nested.ShortType(), nested.ID)
	} else {
		child = h.BlankNode()
	}
	if err := h.emit(rdf.Triple{Subject: subj, Predicate: pred, Object: child}); err != nil {
		return err
	}
	return h.generate(ctx, child, nested)
}

func (h *Handler) coerce(v any) rdf.Literal {
	return rdf.Coerce(v, rdf.CoerceOptions{
		Ellide:         h.opts.Ellide,
		TrimWhitespace: h.opts.TrimWhitespace,
		Logger:         h.logger,
	})
}

// emit forwards one triple to the sink. Triples with a missing component are
// dropped with a debug log entry instead of producing broken output.
func (h *Handler) emit(t rdf.Triple) error {
	if !t.Complete() {
		h.logger.Debug("dropping partial triple", "triple", t.String())
		if h.metrics != nil {
			h.metrics.TriplesDropped.Inc()
		}
		return nil
	}
	if err := h.sink.Emit(t); err != nil {
		return errors.Wrap(err, "Handler", "emit", "writing triple")
	}
	if h.metrics != nil {
		h.metrics.TriplesEmitted.WithLabelValues(h.formatLabel()).Inc()
	}
	return nil
}

func (h *Handler) formatLabel() string {
	if h.opts.Format != "" {
		return h.opts.Format
	}
	return "unknown"
}

// instrumented wraps an annotation handler so claims are counted per handler
// name. A nil metrics sink leaves the handler unwrapped.
func (h *Handler) instrumented(ah annotation.Handler) annotation.Handler {
	if h.metrics == nil {
		return ah
	}
	return &countingHandler{inner: ah, metrics: h.metrics}
}

type countingHandler struct {
	inner   annotation.Handler
	metrics *metric.Metrics
}

func (c *countingHandler) Name() string { return c.inner.Name() }

func (c *countingHandler) HandleAnnotation(ctx context.Context, alloc annotation.Allocator,
	container rdf.Term, predicate *rdf.IRI, payload *encode.Object, emit annotation.EmitFunc) (bool, error) {

	claimed, err := c.inner.HandleAnnotation(ctx, alloc, container, predicate, payload, emit)
	if claimed && err == nil {
		c.metrics.AnnotationsClaimed.WithLabelValues(c.inner.Name()).Inc()
	}
	return claimed, err
}

// defaultAnnotationHandler is the terminal member of the chain: it claims
// every annotation that reaches it linked to a container and runs it through
// the generic expansion. Standalone offers (nil container) fall through so
// the generator's own dedup and expansion take over.
type defaultAnnotationHandler struct {
	h *Handler
}

func (*defaultAnnotationHandler) Name() string { return "default" }

func (d *defaultAnnotationHandler) HandleAnnotation(ctx context.Context, alloc annotation.Allocator,
	container rdf.Term, predicate *rdf.IRI, payload *encode.Object, emit annotation.EmitFunc) (bool, error) {

	if container == nil {
		return false, nil
	}
	if payload.ID == nil {
		return false, errors.WrapInvalid(
			fmt.Errorf("%w: annotation of type %s", errors.ErrMissingID, payload.ShortType()),
			"defaultAnnotationHandler", "HandleAnnotation", "identity check")
	}

	// No handler recognized the payload, so it keeps a provisional identity
	// until a dedicated type exists for it.
	aid := alloc.Identity("AnnotationTBD", payload.ID)
	if err := emit(rdf.Triple{Subject: container, Predicate: *predicate, Object: aid}); err != nil {
		return false, err
	}
	return true, d.h.generate(ctx, aid, payload)
}
