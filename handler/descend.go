package handler

import (
	"context"
	"fmt"
	"time"

	"github.com/German-BioImaging/omero-rdf/errors"
	"github.com/German-BioImaging/omero-rdf/gateway"
	"github.com/German-BioImaging/omero-rdf/rdf"
	"github.com/German-BioImaging/omero-rdf/vocabulary"
)

// Export runs one traversal per target against the shared visited set, so an
// object reachable from two targets is expanded once. The sink stays open;
// closing it is the caller's responsibility.
func (h *Handler) Export(ctx context.Context, targets ...gateway.ObjectRef) error {
	for _, target := range targets {
		h.depth = 0
		start := time.Now()
		_, err := h.Descend(ctx, target)
		if h.metrics != nil {
			h.metrics.ExportDuration.WithLabelValues(target.Type).Observe(time.Since(start).Seconds())
		}
		if err != nil {
			return errors.Wrap(err, "Handler", "Export", "exporting "+target.String())
		}
		h.logger.Info("target exported", "target", target.String(), "duration", time.Since(start))
	}
	return nil
}

// Descend emits the triples of a target object and, under the recursive
// strategy, of everything below it in the container hierarchy. Under the
// flat strategy only the target itself and its annotations are emitted.
func (h *Handler) Descend(ctx context.Context, ref gateway.ObjectRef) (rdf.Term, error) {
	switch ref.Type {
	case gateway.TypeProject, gateway.TypeDataset, gateway.TypeScreen,
		gateway.TypePlate, gateway.TypeWell, gateway.TypeImage:
	default:
		return nil, errors.WrapFatal(
			fmt.Errorf("%w: %q", errors.ErrUnknownTarget, ref.Type),
			"Handler", "Descend", "target check")
	}

	obj, err := h.gw.Encode(ctx, ref)
	if err != nil {
		return nil, errors.Wrap(err, "Handler", "Descend", "encoding "+ref.String())
	}
	subj, err := h.Handle(ctx, obj)
	if err != nil {
		return nil, err
	}
	h.logger.Debug("descending", "target", ref.String(), "depth", h.depth)

	if h.opts.Descent != DescentRecursive {
		return subj, h.annotations(ctx, ref, subj)
	}

	switch ref.Type {
	case gateway.TypeScreen:
		if err := h.children(ctx, ref, subj); err != nil {
			return nil, err
		}
		return subj, h.annotations(ctx, ref, subj)

	case gateway.TypePlate:
		if err := h.annotations(ctx, ref, subj); err != nil {
			return nil, err
		}
		return subj, h.wells(ctx, ref, subj)

	case gateway.TypeProject, gateway.TypeDataset, gateway.TypeWell:
		if err := h.annotations(ctx, ref, subj); err != nil {
			return nil, err
		}
		return subj, h.children(ctx, ref, subj)

	default: // gateway.TypeImage
		return subj, h.image(ctx, ref, subj)
	}
}

// children descends into a container's immediate children and links each one
// back to the parent.
func (h *Handler) children(ctx context.Context, ref gateway.ObjectRef, subj rdf.Term) error {
	refs, err := h.gw.Children(ctx, ref)
	if err != nil {
		return errors.Wrap(err, "Handler", "children", "listing children of "+ref.String())
	}
	for _, child := range refs {
		h.depth++
		csubj, err := h.Descend(ctx, child)
		h.depth--
		if err != nil {
			return err
		}
		if err := h.contains(subj, csubj); err != nil {
			return err
		}
	}
	return nil
}

// wells expands the wells of a plate inline. Wells carry no hierarchy of
// their own beyond their images, so they are handled without a full descent.
func (h *Handler) wells(ctx context.Context, plate gateway.ObjectRef, subj rdf.Term) error {
	wellRefs, err := h.gw.Children(ctx, plate)
	if err != nil {
		return errors.Wrap(err, "Handler", "wells", "listing wells of "+plate.String())
	}
	for _, wellRef := range wellRefs {
		well, err := h.gw.Encode(ctx, wellRef)
		if err != nil {
			return errors.Wrap(err, "Handler", "wells", "encoding "+wellRef.String())
		}
		wsubj, err := h.Handle(ctx, well)
		if err != nil {
			return err
		}
		if err := h.contains(subj, wsubj); err != nil {
			return err
		}
		if err := h.annotations(ctx, wellRef, wsubj); err != nil {
			return err
		}

		imageRefs, err := h.gw.Children(ctx, wellRef)
		if err != nil {
			return errors.Wrap(err, "Handler", "wells", "listing images of "+wellRef.String())
		}
		for _, imageRef := range imageRefs {
			h.depth++
			isubj, err := h.Descend(ctx, imageRef)
			h.depth--
			if err != nil {
				return err
			}
			if err := h.contains(wsubj, isubj); err != nil {
				return err
			}
		}
	}
	return nil
}

// image expands the leaf level: the primary pixel set, the image's
// annotations, and its regions of interest with their shapes.
func (h *Handler) image(ctx context.Context, ref gateway.ObjectRef, subj rdf.Term) error {
	pixels, err := h.gw.PrimaryPixels(ctx, ref)
	if err != nil {
		return errors.Wrap(err, "Handler", "image", "fetching pixels of "+ref.String())
	}
	roiParent := subj
	if pixels != nil {
		psubj, err := h.Handle(ctx, pixels)
		if err != nil {
			return err
		}
		if err := h.contains(subj, psubj); err != nil {
			return err
		}
		// ROIs hang off the pixel set; images without pixels fall back to
		// the image subject.
		roiParent = psubj
	}

	if err := h.annotations(ctx, ref, subj); err != nil {
		return err
	}

	rois, err := h.gw.ROIs(ctx, ref)
	if err != nil {
		return errors.Wrap(err, "Handler", "image", "fetching ROIs of "+ref.String())
	}
	for _, roi := range rois {
		rsubj, err := h.Handle(ctx, roi)
		if err != nil {
			return err
		}
		if err := h.contains(roiParent, rsubj); err != nil {
			return err
		}

		roiRef, err := gateway.RefOf(roi)
		if err != nil {
			return errors.Wrap(err, "Handler", "image", "resolving ROI reference")
		}
		if err := h.annotations(ctx, roiRef, rsubj); err != nil {
			return err
		}
		shapes, err := h.gw.Shapes(ctx, roiRef)
		if err != nil {
			return errors.Wrap(err, "Handler", "image", "fetching shapes of "+roiRef.String())
		}
		for _, shape := range shapes {
			ssubj, err := h.Handle(ctx, shape)
			if err != nil {
				return err
			}
			if err := h.contains(rsubj, ssubj); err != nil {
				return err
			}
			shapeRef, err := gateway.RefOf(shape)
			if err != nil {
				return errors.Wrap(err, "Handler", "image", "resolving shape reference")
			}
			if err := h.annotations(ctx, shapeRef, ssubj); err != nil {
				return err
			}
		}
	}
	return nil
}

// annotations runs the annotations linked to an object through the handler
// chain and ties each one to its container with containment edges.
func (h *Handler) annotations(ctx context.Context, ref gateway.ObjectRef, subj rdf.Term) error {
	anns, err := h.gw.Annotations(ctx, ref)
	if err != nil {
		return errors.Wrap(err, "Handler", "annotations", "listing annotations of "+ref.String())
	}
	for _, ann := range anns {
		if ann.ID != nil {
			if err := h.contains(subj, h.Identity("AnnotationTBD", ann.ID)); err != nil {
				return err
			}
		}
		predicate := rdf.IRI{Value: vocabulary.OMEAnnotation}
		if _, err := h.registry.OfferFirst(ctx, h, subj, &predicate, ann, h.emit); err != nil {
			return errors.Wrap(err, "Handler", "annotations", "annotation dispatch")
		}
	}
	return nil
}

// contains links a parent and child in both directions, so the graph can be
// navigated from either end.
func (h *Handler) contains(parent, child rdf.Term) error {
	if parent == nil || child == nil {
		return nil
	}
	if err := h.emit(rdf.Triple{
		Subject:   child,
		Predicate: rdf.IRI{Value: vocabulary.DCTermsIsPartOf},
		Object:    parent,
	}); err != nil {
		return err
	}
	return h.emit(rdf.Triple{
		Subject:   parent,
		Predicate: rdf.IRI{Value: vocabulary.DCTermsHasPart},
		Object:    child,
	})
}
