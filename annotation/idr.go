package annotation

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/German-BioImaging/omero-rdf/encode"
	"github.com/German-BioImaging/omero-rdf/rdf"
	"github.com/German-BioImaging/omero-rdf/vocabulary"
)

// Wikidata terms used by the IDR mapping.
const (
	wdThing = vocabulary.Wikidata + "Q35120"

	wdpDepicts          = vocabulary.WikidataProp + "P180"
	wdpFoundInTaxon     = vocabulary.WikidataProp + "P703"
	wdpMedicalCondition = vocabulary.WikidataProp + "P1050"
	wdpPartOf           = vocabulary.WikidataProp + "P361"
	wdpSex              = vocabulary.WikidataProp + "P21"
	wdpAge              = vocabulary.WikidataProp + "P3629"
	wdpGeneSymbol       = vocabulary.WikidataProp + "P353"

	wdFemale = vocabulary.Wikidata + "Q6581072"
	wdMale   = vocabulary.Wikidata + "Q6581097"
)

// pathology values awaiting curation upstream; statements for them would be
// misleading, so they are skipped.
var pathologyToCurate = map[string]bool{
	"Malignant lymphoma, non-Hodgkin's type, Low grade": true,
	"Malignant melanoma, NOS":                           true,
	"Malignant melanoma, Metastatic site":               true,
	"Adenocarcinoma, Low grade":                         true,
	"Carcinoid, malignant, NOS":                         true,
	"Normal tissue, NOS":                                true,
}

// IDRHandler reshapes IDR map annotations into searchable Wikidata-style
// statements instead of anonymous Key/Value nodes. Known map keys become
// direct properties; entity values are optionally resolved against a SPARQL
// knowledge base.
type IDRHandler struct {
	lookup LookupFunc
	cache  map[string]rdf.IRI
	logger *slog.Logger
}

// NewIDRHandler returns the IDR map-annotation handler. A nil lookup
// disables knowledge-base resolution; mapped keys with unresolved values
// are then warned about and skipped.
func NewIDRHandler(lookup LookupFunc, logger *slog.Logger) *IDRHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &IDRHandler{
		lookup: lookup,
		cache:  make(map[string]rdf.IRI),
		logger: logger,
	}
}

// Name implements Handler.
func (h *IDRHandler) Name() string { return "idr" }

// HandleAnnotation implements Handler. Only map annotations are claimed;
// everything else falls through to the next handler in the chain.
func (h *IDRHandler) HandleAnnotation(ctx context.Context, alloc Allocator, container rdf.Term,
	predicate *rdf.IRI, payload *encode.Object, emit EmitFunc) (bool, error) {

	if !strings.Contains(payload.Type, "MapAnnotation") {
		h.logger.Debug("skipping non-map annotation", "type", payload.Type)
		return false, nil
	}

	var thing rdf.Term
	if payload.ID == nil {
		thing = alloc.BlankNode()
	} else {
		thing = alloc.Identity("MapAnnotation", payload.ID)
	}

	if container != nil {
		// The container depicts the thing described by the annotation.
		if err := emit(rdf.Triple{
			Subject:   container,
			Predicate: rdf.IRI{Value: wdpDepicts},
			Object:    thing,
		}); err != nil {
			return false, err
		}
	}

	if err := emit(rdf.Triple{
		Subject:   thing,
		Predicate: rdf.IRI{Value: vocabulary.RDFType},
		Object:    rdf.IRI{Value: wdThing},
	}); err != nil {
		return false, err
	}

	value, ok := payload.Fields["Value"]
	if !ok || value.Kind != encode.KindPairList {
		return true, nil
	}

	for _, pair := range value.Pairs {
		name, _ := pair.Key.(string)
		val := fmt.Sprintf("%v", pair.Value)
		if err := h.handlePair(ctx, thing, name, val, emit); err != nil {
			return true, err
		}
	}
	return true, nil
}

func (h *IDRHandler) handlePair(ctx context.Context, thing rdf.Term, name, value string, emit EmitFunc) error {
	switch name {
	case "Organism":
		return h.resolved(ctx, thing, wdpFoundInTaxon, value, taxonQuery(value), "taxon", emit)

	case "Pathology Identifier":
		return emit(rdf.Triple{
			Subject:   thing,
			Predicate: rdf.IRI{Value: wdpMedicalCondition},
			Object:    rdf.IRI{Value: vocabulary.SNMI + value},
		})

	case "Pathology":
		// Fix a typo present in the source data.
		if value == "Carcinoma, endometroid" {
			value = "Carcinoma, endometrioid"
		}
		if pathologyToCurate[value] {
			return nil
		}
		return h.resolved(ctx, thing, wdpMedicalCondition, value, diseaseQuery(value), "disease", emit)

	case "Organism Part Identifier":
		return emit(rdf.Triple{
			Subject:   thing,
			Predicate: rdf.IRI{Value: wdpPartOf},
			Object:    rdf.IRI{Value: vocabulary.SNMI + value},
		})

	case "Organism Part":
		return h.resolved(ctx, thing, wdpPartOf, value, anatomyQuery(value), "anatomical_structure", emit)

	case "Sex":
		switch value {
		case "Female":
			return emit(rdf.Triple{Subject: thing, Predicate: rdf.IRI{Value: wdpSex}, Object: rdf.IRI{Value: wdFemale}})
		case "Male":
			return emit(rdf.Triple{Subject: thing, Predicate: rdf.IRI{Value: wdpSex}, Object: rdf.IRI{Value: wdMale}})
		default:
			h.logger.Warn("unmapped sex value", "value", value)
			return nil
		}

	case "Age":
		return emit(rdf.Triple{Subject: thing, Predicate: rdf.IRI{Value: wdpAge}, Object: rdf.Literal{Lexical: value}})

	case "Antibody Identifier URL", "Gene Identifier URL":
		return emit(rdf.Triple{
			Subject:   thing,
			Predicate: rdf.IRI{Value: vocabulary.DCIdentifier},
			Object:    rdf.IRI{Value: value},
		})

	case "Gene Symbol":
		return emit(rdf.Triple{Subject: thing, Predicate: rdf.IRI{Value: wdpGeneSymbol}, Object: rdf.Literal{Lexical: value}})

	default:
		h.logger.Warn("unknown map annotation key", "key", name)
		return nil
	}
}

// resolved emits (thing, predicate, entity) where entity comes from the
// cache or a knowledge-base lookup. Misses are warned about and dropped.
func (h *IDRHandler) resolved(ctx context.Context, thing rdf.Term, predicate, value, query, variable string, emit EmitFunc) error {
	entity, ok := h.cache[value]
	if !ok {
		if h.lookup == nil {
			h.logger.Debug("knowledge-base lookups disabled", "value", value)
			return nil
		}
		iri, found, err := h.lookup(ctx, query, variable)
		if err != nil {
			return err
		}
		if !found {
			h.logger.Warn("missing in knowledge base", "value", value)
			return nil
		}
		entity = rdf.IRI{Value: iri}
		h.cache[value] = entity
	}
	return emit(rdf.Triple{Subject: thing, Predicate: rdf.IRI{Value: predicate}, Object: entity})
}

func taxonQuery(value string) string {
	return fmt.Sprintf(`SELECT * WHERE { ?taxon wdt:P225 %q }`, value)
}

func diseaseQuery(value string) string {
	value = strings.ToLower(value)
	return fmt.Sprintf(`SELECT * WHERE {
  VALUES ?pathology {wd:Q12136}
  {?disease wdt:P31 ?pathology .}
    UNION
    {?disease wdt:P279 ?pathology .}
    UNION
    {?disease wdt:P279/wdt:P31 ?pathology .}
    UNION
    {?disease wdt:P279+ ?pathology .}
  {?disease rdfs:label %q@en}
  UNION
  {?disease skos:altLabel %q@en}
}`, value, value)
}

func anatomyQuery(value string) string {
	value = strings.ToLower(value)
	return fmt.Sprintf(`SELECT * WHERE {
  VALUES ?organ {wd:Q103812529 wd:Q4936952 wd:Q712378 wd:Q24060765 wd:Q103843025 wd:Q27162596}
  {?anatomical_structure wdt:P31 ?organ .}
    UNION
    {?anatomical_structure wdt:P279 ?organ .}
    UNION
    {?anatomical_structure wdt:P279/wdt:P31 ?organ .}
    UNION
    {?anatomical_structure wdt:P279+ ?organ .}
  {?anatomical_structure rdfs:label %q@en}
  UNION
  {?anatomical_structure skos:altLabel %q@en}
}`, value, value)
}
