package dag

import (
	"slices"

	"github.com/vk/usecasegen/internal/catalog"
)

// New creates and returns an initialized, empty Graph whose kinds are
// resolved against cat.
func New(cat *catalog.Catalog) *Graph {
	return &Graph{
		catalog: cat,
		byName:  make(map[string]*Node),
		pairs:   make(map[[2]string]struct{}),
	}
}

// Catalog returns the kind catalog the graph was built against.
func (g *Graph) Catalog() *catalog.Catalog {
	return g.catalog
}

// Close ends the directive stream. It applies default elements to unpinned
// nodes, failing for a node left without any element, validates every node's realized degree against its kind's arity
// contracts and freezes the graph. Closing twice is a no-op.
func (g *Graph) Close() error {
	if g.frozen {
		return nil
	}
	for _, n := range g.nodes {
		if n.Element != "" {
			continue
		}
		el, err := g.catalog.DefaultElement(n.Kind)
		if err != nil {
			return Errorf(ErrSchemaViolation, n.Name, "node %q: %v", n.Name, err)
		}
		if el == "" {
			return Errorf(ErrSchemaViolation, n.Name, "node %q of kind %s has no element and its kind has no default", n.Name, n.Kind)
		}
		n.Element = el
	}
	for _, n := range g.nodes {
		if err := g.checkArity(n); err != nil {
			return err
		}
	}
	g.frozen = true
	return nil
}

// Frozen reports whether Close has succeeded.
func (g *Graph) Frozen() bool {
	return g.frozen
}

// Len returns the number of nodes.
func (g *Graph) Len() int {
	return len(g.nodes)
}

// Nodes returns the nodes in creation order. Callers must not modify them.
func (g *Graph) Nodes() []*Node {
	return slices.Clone(g.nodes)
}

// Node looks a node up by name.
func (g *Graph) Node(name string) (*Node, bool) {
	n, ok := g.byName[name]
	return n, ok
}

// Edges returns a snapshot of the realized edges. Later rewrites do not
// affect a returned snapshot.
func (g *Graph) Edges() []Edge {
	return slices.Clone(g.edges)
}
