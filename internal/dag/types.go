package dag

import (
	"github.com/vk/usecasegen/internal/catalog"
)

// Graph is the link topology of one use case. It is built incrementally by
// directives, frozen by Close and then only extended by Interpose during
// bridging. A Graph belongs to a single compilation and is not safe for
// concurrent mutation.
type Graph struct {
	catalog *catalog.Catalog
	// nodes in creation order; a node's Index is its position here.
	nodes  []*Node
	byName map[string]*Node
	// edges is replaced wholesale on rewrite, never edited in place.
	edges []Edge
	// pairs records every requested producer/consumer pair.
	pairs  map[[2]string]struct{}
	frozen bool
}

// Node is one link instance.
type Node struct {
	Index   int
	Name    string
	Kind    string
	Element catalog.Element
	// Pinned is true when the element was set explicitly rather than
	// inferred from the kind's default.
	Pinned bool
	// Synthesized marks nodes added by a rewrite rather than a directive.
	Synthesized bool

	// Inputs holds, per input slot, the producer port feeding it.
	Inputs []Port
	// Outputs holds, per output slot, the consumer port it feeds.
	Outputs []Port
}

// Port is one end of an edge: a node and a slot index on it.
type Port struct {
	Node string
	Slot int
}

// Edge connects a producer output slot to a consumer input slot.
type Edge struct {
	From     string
	FromSlot int
	To       string
	ToSlot   int
}

// EdgeRef identifies a realized edge by its endpoints.
type EdgeRef struct {
	From string
	To   string
}

// Ref returns the endpoint pair of e.
func (e Edge) Ref() EdgeRef {
	return EdgeRef{From: e.From, To: e.To}
}

// Hop describes a node to synthesize inside an interposed chain.
type Hop struct {
	Name    string
	Kind    string
	Element catalog.Element
}
