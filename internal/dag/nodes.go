package dag

import (
	"errors"

	"github.com/vk/usecasegen/internal/catalog"
)

// CreateNode returns the node called name, creating it with the given kind
// on first reference. Re-creating an existing name with a different kind is
// a schema violation.
func (g *Graph) CreateNode(name, kind string) (*Node, error) {
	if g.frozen {
		return nil, ErrFrozen
	}
	if name == "" {
		return nil, Errorf(ErrSchemaViolation, name, "node name must not be empty")
	}
	if n, ok := g.byName[name]; ok {
		if n.Kind != kind {
			return nil, Errorf(ErrSchemaViolation, name,
				"node %q already exists with kind %s, cannot re-create it as %s", name, n.Kind, kind)
		}
		return n, nil
	}
	if _, ok := g.catalog.Lookup(kind); !ok {
		return nil, Errorf(ErrSchemaViolation, name, "node %q: %v %q", name, catalog.ErrUnknownKind, kind)
	}
	return g.addNode(name, kind, "", false), nil
}

// SetElement pins the named node to el.
func (g *Graph) SetElement(name string, el catalog.Element) error {
	if g.frozen {
		return ErrFrozen
	}
	n, ok := g.byName[name]
	if !ok {
		return Errorf(ErrUnknownNodeReference, name, "cannot set element of undeclared node %q", name)
	}
	if el == "" {
		return Errorf(ErrSchemaViolation, name, "node %q: empty element", name)
	}
	if !g.catalog.Allows(n.Kind, el) {
		allowed, _, _ := g.catalog.AllowedElements(n.Kind)
		return Errorf(ErrElementNotAllowed, name,
			"node %q of kind %s cannot run on %s (allowed: %v)", name, n.Kind, el, allowed)
	}
	n.Element = el
	n.Pinned = true
	return nil
}

func (g *Graph) addNode(name, kind string, el catalog.Element, synthesized bool) *Node {
	n := &Node{
		Index:       len(g.nodes),
		Name:        name,
		Kind:        kind,
		Element:     el,
		Pinned:      el != "",
		Synthesized: synthesized,
	}
	g.nodes = append(g.nodes, n)
	g.byName[name] = n
	return n
}

// checkArity compares the realized degree of n against its kind.
func (g *Graph) checkArity(n *Node) error {
	for _, side := range []struct {
		dir    catalog.Direction
		degree int
	}{
		{catalog.Input, len(n.Inputs)},
		{catalog.Output, len(n.Outputs)},
	} {
		contract, err := g.catalog.ArityOf(n.Kind, side.dir)
		if err != nil {
			if errors.Is(err, catalog.ErrUnknownKind) {
				return Errorf(ErrSchemaViolation, n.Name, "node %q: %v", n.Name, err)
			}
			return err
		}
		if !contract.Allows(side.degree) {
			return Errorf(ErrSchemaViolation, n.Name,
				"node %q (%s) has %d %ss, violates %s %s contract",
				n.Name, n.Kind, side.degree, side.dir, contract, side.dir)
		}
	}
	return nil
}
