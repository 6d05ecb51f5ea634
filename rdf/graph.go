package rdf

// Graph is an in-memory triple store with set semantics, used by buffered
// output formats. Insertion order is preserved for subjects and for the
// triples of each subject, so serialization is reproducible.
//
// Graph is not safe for concurrent use; an export run is strictly
// sequential.
type Graph struct {
	triples []Triple
	seen    map[string]struct{}
}

// NewGraph returns an empty graph.
func NewGraph() *Graph {
	return &Graph{seen: make(map[string]struct{})}
}

// Add inserts a triple. Duplicate triples are ignored.
func (g *Graph) Add(t Triple) {
	key := t.Key()
	if _, ok := g.seen[key]; ok {
		return
	}
	g.seen[key] = struct{}{}
	g.triples = append(g.triples, t)
}

// Len returns the number of distinct triples in the graph.
func (g *Graph) Len() int {
	return len(g.triples)
}

// Triples returns the triples in insertion order. The returned slice is a
// copy; mutating it does not affect the graph.
func (g *Graph) Triples() []Triple {
	out := make([]Triple, len(g.triples))
	copy(out, g.triples)
	return out
}

// Subjects returns the distinct subject terms in first-seen order.
func (g *Graph) Subjects() []Term {
	var order []Term
	seen := make(map[string]struct{})
	for _, t := range g.triples {
		key := t.Subject.N3()
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		order = append(order, t.Subject)
	}
	return order
}

// BySubject returns the triples whose subject equals the given term, in
// insertion order.
func (g *Graph) BySubject(subject Term) []Triple {
	var out []Triple
	key := subject.N3()
	for _, t := range g.triples {
		if t.Subject.N3() == key {
			out = append(out, t)
		}
	}
	return out
}

// Has reports whether the graph contains the given triple.
func (g *Graph) Has(t Triple) bool {
	_, ok := g.seen[t.Key()]
	return ok
}
