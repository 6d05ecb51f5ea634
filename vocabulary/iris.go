// Package vocabulary provides the namespace IRIs and prefix bindings used by
// the RDF export.
package vocabulary

import "strings"

// Base namespace constants for the vocabularies an export can reference.
const (
	// OME is the OME core ontology namespace. Plain (non "omero:" prefixed)
	// keys of an encoded object map into this namespace.
	OME = "http://www.openmicroscopy.org/rdf/2016-06/ome_core/"

	// OMERO is the namespace for server-specific keys, i.e. encoded keys
	// carrying the "omero:" prefix.
	OMERO = "http://www.openmicroscopy.org/TBD/omero/"

	// OMEXML is the OME-XML schema namespace.
	OMEXML = "http://www.openmicroscopy.org/Schemas/OME/2016-06#"

	// RDF is the RDF syntax namespace.
	RDF = "http://www.w3.org/1999/02/22-rdf-syntax-ns#"

	// XSD is the XML Schema datatype namespace.
	XSD = "http://www.w3.org/2001/XMLSchema#"

	// DCTerms is the Dublin Core terms namespace.
	DCTerms = "http://purl.org/dc/terms/"

	// DC is the legacy Dublin Core elements namespace.
	DC = "http://purl.org/dc/elements/1.1/"

	// Wikidata is the Wikidata entity namespace.
	Wikidata = "http://www.wikidata.org/entity/"

	// WikidataProp is the Wikidata direct-property namespace.
	WikidataProp = "http://www.wikidata.org/prop/direct/"

	// SNMI is the SNOMED International bioontology namespace used by IDR
	// pathology and anatomy identifiers.
	SNMI = "http://purl.bioontology.org/ontology/SNMI/"

	// IDR is the Image Data Resource base IRI.
	IDR = "https://idr.openmicroscopy.org/"

	// ROCrate is the RO-Crate 1.1 context IRI.
	ROCrate = "https://w3id.org/ro/crate/1.1/context"
)

// Well-known term IRIs.
const (
	RDFType = RDF + "type"

	DCTermsIsPartOf = DCTerms + "isPartOf"
	DCTermsHasPart  = DCTerms + "hasPart"

	DCIdentifier = DC + "identifier"

	OMEAnnotation = OME + "annotation"
	OMEMap        = OME + "Map"
	OMEKey        = OME + "Key"
	OMEValue      = OME + "Value"

	XSDInteger = XSD + "integer"
	XSDDouble  = XSD + "double"
	XSDBoolean = XSD + "boolean"
	XSDString  = XSD + "string"
)

// KeyPrefixOMERO is the encoded-object key prefix that routes a key into the
// OMERO namespace instead of the OME core namespace.
const KeyPrefixOMERO = "omero:"

// Predicate maps an encoded-object key to its predicate IRI. Keys carrying
// the "omero:" prefix land in the OMERO namespace with the prefix stripped;
// every other key lands in the OME core namespace.
func Predicate(key string) string {
	if strings.HasPrefix(key, KeyPrefixOMERO) {
		return OMERO + strings.TrimPrefix(key, KeyPrefixOMERO)
	}
	return OME + key
}
