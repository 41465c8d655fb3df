// Package bridge rewrites every edge whose endpoints run on different
// compute elements into a chain through a synthesized transport pair:
// producer -> IPCOut (producer's element) -> IPCIn (consumer's element) ->
// consumer.
package bridge

import (
	"context"
	"fmt"

	"github.com/vk/usecasegen/internal/catalog"
	"github.com/vk/usecasegen/internal/ctxlog"
	"github.com/vk/usecasegen/internal/dag"
)

// Bridge records the transport pair inserted for one requested edge.
type Bridge struct {
	Producer string
	Consumer string
	Out      string
	In       string
}

// Report lists the bridges a rewrite inserted, in edge order.
type Report struct {
	Bridges []Bridge
}

// Rewrite bridges all crossing edges of the closed graph g. The edge list
// is snapshotted first and each crossing edge of the snapshot produces
// exactly one pair. Running it again on the result inserts nothing.
func Rewrite(ctx context.Context, g *dag.Graph) (Report, error) {
	logger := ctxlog.FromContext(ctx)
	if !g.Frozen() {
		return Report{}, fmt.Errorf("bridge: graph must be closed before bridging")
	}

	snapshot := Crossing(g)
	logger.Debug("Bridging crossing edges.", "edges", len(g.Edges()), "crossing", len(snapshot))

	var report Report
	seq := 0
	for _, e := range snapshot {
		from, _ := g.Node(e.From)
		to, _ := g.Node(e.To)

		outName, inName := pairNames(g, from.Element, to.Element, &seq)
		_, err := g.Interpose(e.Ref(),
			dag.Hop{Name: outName, Kind: catalog.TransportOut, Element: from.Element},
			dag.Hop{Name: inName, Kind: catalog.TransportIn, Element: to.Element},
		)
		if err != nil {
			return Report{}, fmt.Errorf("bridge %s -> %s: %w", e.From, e.To, err)
		}
		logger.Debug("Inserted transport bridge.",
			"producer", e.From, "consumer", e.To,
			"out", outName, "in", inName,
			"from_element", from.Element, "to_element", to.Element)
		report.Bridges = append(report.Bridges, Bridge{Producer: e.From, Consumer: e.To, Out: outName, In: inName})
	}
	return report, nil
}

// Crossing returns the edges of g whose endpoints sit on different elements.
// The IPCOut -> IPCIn link inside a synthesized pair is the transport itself
// and never counts as crossing.
func Crossing(g *dag.Graph) []dag.Edge {
	var out []dag.Edge
	for _, e := range g.Edges() {
		from, ok1 := g.Node(e.From)
		to, ok2 := g.Node(e.To)
		if !ok1 || !ok2 || from.Element == to.Element {
			continue
		}
		if isTransportLink(from, to) {
			continue
		}
		out = append(out, e)
	}
	return out
}

func isTransportLink(from, to *dag.Node) bool {
	return from.Synthesized && from.Kind == catalog.TransportOut &&
		to.Synthesized && to.Kind == catalog.TransportIn
}

// pairNames picks the next free IPCOut/IPCIn names for a src -> dst bridge.
func pairNames(g *dag.Graph, src, dst catalog.Element, seq *int) (string, string) {
	for {
		n := *seq
		*seq++
		out := fmt.Sprintf("%s_%s_%s_%d", catalog.TransportOut, src, dst, n)
		in := fmt.Sprintf("%s_%s_%s_%d", catalog.TransportIn, src, dst, n)
		_, outTaken := g.Node(out)
		_, inTaken := g.Node(in)
		if !outTaken && !inTaken {
			return out, in
		}
	}
}
