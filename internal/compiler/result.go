package compiler

import (
	"slices"

	"github.com/vk/usecasegen/internal/alloc"
	"github.com/vk/usecasegen/internal/bridge"
	"github.com/vk/usecasegen/internal/catalog"
	"github.com/vk/usecasegen/internal/dag"
	"github.com/vk/usecasegen/internal/schedule"
)

// Node is a compiled node: the frozen graph node plus its allocated
// instance and catalog kind.
type Node struct {
	Index       int
	Name        string
	Kind        catalog.Kind
	Element     catalog.Element
	Pinned      bool
	Synthesized bool
	Instance    alloc.Instance
	Inputs      []dag.Port
	Outputs     []dag.Port
}

// Result is the immutable output of one compilation.
type Result struct {
	// Nodes in creation order, bridge nodes last.
	Nodes   []Node
	Edges   []dag.Edge
	Plan    schedule.Plan
	Bridges []bridge.Bridge
	Scopes  []alloc.ScopeCount

	byName map[string]int
}

func newResult(cat *catalog.Catalog, g *dag.Graph, table alloc.Table, plan schedule.Plan,
	report bridge.Report, a *alloc.Allocator,
) *Result {
	nodes := g.Nodes()
	res := &Result{
		Nodes:   make([]Node, 0, len(nodes)),
		Edges:   g.Edges(),
		Plan:    plan,
		Bridges: report.Bridges,
		Scopes:  a.Scopes(),
		byName:  make(map[string]int, len(nodes)),
	}
	for _, n := range nodes {
		kind, _ := cat.Lookup(n.Kind)
		res.byName[n.Name] = len(res.Nodes)
		res.Nodes = append(res.Nodes, Node{
			Index:       n.Index,
			Name:        n.Name,
			Kind:        kind,
			Element:     n.Element,
			Pinned:      n.Pinned,
			Synthesized: n.Synthesized,
			Instance:    table[n.Name],
			Inputs:      slices.Clone(n.Inputs),
			Outputs:     slices.Clone(n.Outputs),
		})
	}
	return res
}

// Node looks a compiled node up by name.
func (r *Result) Node(name string) (Node, bool) {
	i, ok := r.byName[name]
	if !ok {
		return Node{}, false
	}
	return r.Nodes[i], true
}

// Ordered returns the nodes in init order.
func (r *Result) Ordered() []Node {
	out := make([]Node, 0, len(r.Plan.Init))
	for _, e := range r.Plan.Init {
		out = append(out, r.Nodes[r.byName[e.Node]])
	}
	return out
}

// Synthesized returns the names of the nodes added by bridging.
func (r *Result) Synthesized() []string {
	var out []string
	for _, n := range r.Nodes {
		if n.Synthesized {
			out = append(out, n.Name)
		}
	}
	return out
}
