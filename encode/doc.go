// Package encode converts raw server payloads into the tagged object model
// consumed by the triple generator.
//
// # Overview
//
// A domain object arrives from the gateway as a generic map. FromMap decides
// the shape of every field exactly once at that boundary: scalar, nested
// object, list of identified objects, or list of [key, value] pairs. The
// recursive generator then switches on Value.Kind instead of re-inspecting
// raw types at every level.
//
// Reserved keys receive special treatment: "@type" and "@id" become Object
// fields, "Annotations" is parsed into nested objects, and "omero:details"
// is dropped entirely.
//
// Malformed payloads - a list element that is neither an identified object
// nor a 2-element pair - are input-contract violations and fail fatally.
package encode
