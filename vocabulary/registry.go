package vocabulary

// Prefix binds a short prefix to a namespace IRI for serialization.
type Prefix struct {
	// Prefix is the short name, e.g. "ome".
	Prefix string
	// Namespace is the full namespace IRI the prefix expands to.
	Namespace string
}

// Prefixes returns the fixed prefix bindings registered on every buffered
// graph. Order is stable so serialized output is reproducible.
func Prefixes() []Prefix {
	return []Prefix{
		{Prefix: "wd", Namespace: WikidataProp},
		{Prefix: "ome", Namespace: OME},
		{Prefix: "ome-xml", Namespace: OMEXML},
		{Prefix: "omero", Namespace: OMERO},
	}
}

// Context returns the JSON-LD context mapping used by the linked-data output
// formats. The returned map is a fresh copy; callers may extend it.
func Context() map[string]any {
	return map[string]any{
		"wd":      WikidataProp,
		"ome":     OME,
		"ome-xml": OMEXML,
		"omero":   OMERO,
		"idr":     IDR,
	}
}
