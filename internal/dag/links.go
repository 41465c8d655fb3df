package dag

import (
	"fmt"
	"slices"
)

// Connect records the edge producer -> consumer, appending an output slot
// on the producer and an input slot on the consumer. Arity is not checked
// here; Close validates it once the directive stream has ended.
func (g *Graph) Connect(producer, consumer string) (EdgeRef, error) {
	if g.frozen {
		return EdgeRef{}, ErrFrozen
	}
	from, ok := g.byName[producer]
	if !ok {
		return EdgeRef{}, Errorf(ErrUnknownNodeReference, producer,
			"connect %s -> %s: producer %q is not declared", producer, consumer, producer)
	}
	to, ok := g.byName[consumer]
	if !ok {
		return EdgeRef{}, Errorf(ErrUnknownNodeReference, consumer,
			"connect %s -> %s: consumer %q is not declared", producer, consumer, consumer)
	}
	key := [2]string{producer, consumer}
	if _, dup := g.pairs[key]; dup {
		return EdgeRef{}, Errorf(ErrDuplicateEdge, producer,
			"%s -> %s is already connected", producer, consumer)
	}
	g.pairs[key] = struct{}{}

	e := Edge{
		From:     from.Name,
		FromSlot: len(from.Outputs),
		To:       to.Name,
		ToSlot:   len(to.Inputs),
	}
	from.Outputs = append(from.Outputs, Port{Node: to.Name, Slot: e.ToSlot})
	to.Inputs = append(to.Inputs, Port{Node: from.Name, Slot: e.FromSlot})
	g.edges = append(g.edges, e)
	return e.Ref(), nil
}

// Interpose replaces the realized edge ref with a chain through newly
// synthesized nodes, one per hop, in order. The producer keeps its output
// slot and the consumer its input slot; only what they are bound to
// changes. Every hop gets exactly one input and one output. The graph must
// be frozen.
func (g *Graph) Interpose(ref EdgeRef, hops ...Hop) ([]*Node, error) {
	if !g.frozen {
		return nil, fmt.Errorf("interpose %s -> %s: graph is not closed", ref.From, ref.To)
	}
	at := slices.IndexFunc(g.edges, func(e Edge) bool { return e.Ref() == ref })
	if at < 0 {
		return nil, Errorf(ErrUnknownNodeReference, ref.From, "no realized edge %s -> %s", ref.From, ref.To)
	}
	if len(hops) == 0 {
		return nil, nil
	}
	for _, h := range hops {
		if _, taken := g.byName[h.Name]; taken || h.Name == "" {
			return nil, Errorf(ErrSchemaViolation, h.Name, "cannot synthesize node %q: name unavailable", h.Name)
		}
		if _, ok := g.catalog.Lookup(h.Kind); !ok {
			return nil, Errorf(ErrSchemaViolation, h.Name, "cannot synthesize node %q: unknown kind %q", h.Name, h.Kind)
		}
		if h.Element == "" {
			return nil, Errorf(ErrSchemaViolation, h.Name, "cannot synthesize node %q without an element", h.Name)
		}
		if !g.catalog.Allows(h.Kind, h.Element) {
			return nil, Errorf(ErrElementNotAllowed, h.Name,
				"cannot synthesize node %q of kind %s on %s", h.Name, h.Kind, h.Element)
		}
	}

	orig := g.edges[at]
	producer := g.byName[orig.From]
	consumer := g.byName[orig.To]

	created := make([]*Node, 0, len(hops))
	chain := make([]Edge, 0, len(hops)+1)
	prev := Port{Node: producer.Name, Slot: orig.FromSlot}
	for _, h := range hops {
		n := g.addNode(h.Name, h.Kind, h.Element, true)
		created = append(created, n)
		chain = append(chain, Edge{From: prev.Node, FromSlot: prev.Slot, To: n.Name, ToSlot: 0})
		prev = Port{Node: n.Name, Slot: 0}
	}
	chain = append(chain, Edge{From: prev.Node, FromSlot: prev.Slot, To: consumer.Name, ToSlot: orig.ToSlot})

	// Rebind ports along the chain.
	for _, e := range chain {
		from := g.byName[e.From]
		to := g.byName[e.To]
		if from.Synthesized && e.FromSlot == len(from.Outputs) {
			from.Outputs = append(from.Outputs, Port{Node: e.To, Slot: e.ToSlot})
		} else {
			from.Outputs[e.FromSlot] = Port{Node: e.To, Slot: e.ToSlot}
		}
		if to.Synthesized && e.ToSlot == len(to.Inputs) {
			to.Inputs = append(to.Inputs, Port{Node: e.From, Slot: e.FromSlot})
		} else {
			to.Inputs[e.ToSlot] = Port{Node: e.From, Slot: e.FromSlot}
		}
	}

	edges := make([]Edge, 0, len(g.edges)+len(hops))
	edges = append(edges, g.edges[:at]...)
	edges = append(edges, chain...)
	edges = append(edges, g.edges[at+1:]...)
	g.edges = edges
	return created, nil
}

// Producers returns the names feeding node, in input-slot order.
func (g *Graph) Producers(name string) ([]string, error) {
	n, ok := g.byName[name]
	if !ok {
		return nil, Errorf(ErrUnknownNodeReference, name, "node not found: %s", name)
	}
	out := make([]string, 0, len(n.Inputs))
	for _, p := range n.Inputs {
		out = append(out, p.Node)
	}
	return out, nil
}

// Consumers returns the names node feeds, in output-slot order.
func (g *Graph) Consumers(name string) ([]string, error) {
	n, ok := g.byName[name]
	if !ok {
		return nil, Errorf(ErrUnknownNodeReference, name, "node not found: %s", name)
	}
	out := make([]string, 0, len(n.Outputs))
	for _, p := range n.Outputs {
		out = append(out, p.Node)
	}
	return out, nil
}
