package render

import (
	"context"
	"fmt"
	"io"

	"github.com/vk/usecasegen/internal/lifecycle"
	"gonum.org/v1/gonum/graph"
	"gonum.org/v1/gonum/graph/encoding"
	"gonum.org/v1/gonum/graph/encoding/dot"
	"gonum.org/v1/gonum/graph/simple"
)

// elementColors are the Graphviz fill colors of the SoC cores.
var elementColors = map[string]string{
	"IPU1_0": "lightblue",
	"IPU1_1": "darkturquoise",
	"A15":    "lightsalmon",
	"DSP1":   "palegreen",
	"DSP2":   "darkolivegreen1",
	"EVE1":   "yellow",
	"EVE2":   "gold",
	"EVE3":   "orange",
	"EVE4":   "goldenrod4",
}

// ElementColor returns the fill color for nodes on el.
func ElementColor(el string) string {
	if c, ok := elementColors[el]; ok {
		return c
	}
	return "grey"
}

// DOT writes the bridged graph in Graphviz format.
type DOT struct {
	W io.Writer
}

// Emit implements lifecycle.Emitter.
func (r DOT) Emit(_ context.Context, s *lifecycle.Script) error {
	b, err := dot.Marshal(newDotGraph(s), s.Usecase, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling DOT graph: %w", err)
	}
	if _, err := r.W.Write(append(b, '\n')); err != nil {
		return fmt.Errorf("writing DOT graph: %w", err)
	}
	return nil
}

type dotNode struct {
	id   int64
	node lifecycle.GraphNode
}

func (n dotNode) ID() int64     { return n.id }
func (n dotNode) DOTID() string { return n.node.Name }

func (n dotNode) Attributes() []encoding.Attribute {
	style := "filled"
	if n.node.Synthesized {
		style = "filled,dashed"
	}
	return []encoding.Attribute{
		{Key: "label", Value: n.node.Name + "\n" + n.node.Kind},
		{Key: "style", Value: style},
		{Key: "fillcolor", Value: ElementColor(n.node.Element)},
	}
}

type dotEdge struct {
	from, to dotNode
	attrs    []encoding.Attribute
}

func (e dotEdge) From() graph.Node { return e.from }
func (e dotEdge) To() graph.Node   { return e.to }
func (e dotEdge) ReversedEdge() graph.Edge {
	return dotEdge{from: e.to, to: e.from, attrs: e.attrs}
}
func (e dotEdge) Attributes() []encoding.Attribute { return e.attrs }

type dotGraph struct {
	*simple.DirectedGraph
}

func (dotGraph) DOTAttributers() (g, n, e encoding.Attributer) {
	return attrs{{Key: "rankdir", Value: "LR"}},
		attrs{{Key: "shape", Value: "box"}},
		nil
}

type attrs []encoding.Attribute

func (a attrs) Attributes() []encoding.Attribute { return a }

// newDotGraph builds a gonum graph whose node IDs follow creation order,
// so the marshaled output is stable.
func newDotGraph(s *lifecycle.Script) dotGraph {
	g := dotGraph{simple.NewDirectedGraph()}
	byName := make(map[string]dotNode, len(s.Graph.Nodes))
	for i, n := range s.Graph.Nodes {
		dn := dotNode{id: int64(i), node: n}
		byName[n.Name] = dn
		g.AddNode(dn)
	}
	for _, e := range s.Graph.Edges {
		from, to := byName[e.From], byName[e.To]
		var a []encoding.Attribute
		if from.node.MultiOut {
			a = append(a, encoding.Attribute{Key: "taillabel", Value: fmt.Sprintf("Q%d", e.FromSlot)})
		}
		if to.node.MultiIn {
			a = append(a, encoding.Attribute{Key: "headlabel", Value: fmt.Sprintf("Q%d", e.ToSlot)})
		}
		g.SetEdge(dotEdge{from: from, to: to, attrs: a})
	}
	return g
}
