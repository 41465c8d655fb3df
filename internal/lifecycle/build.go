package lifecycle

import (
	"fmt"
	"strings"
	"time"

	"github.com/vk/usecasegen/internal/compiler"
)

// Options tunes script generation.
type Options struct {
	Usecase string
	// SettleDelay is inserted between element groups. Zero disables it.
	SettleDelay time.Duration
}

// Build derives the lifecycle script of a compiled use case.
func Build(res *compiler.Result, opts Options) *Script {
	ordered := res.Ordered()
	s := &Script{
		Usecase:       opts.Usecase,
		Fingerprint:   Fingerprint(res).String(),
		SettleDelayMS: opts.SettleDelay.Milliseconds(),
		Declarations:  make([]Declaration, 0, len(ordered)),
		Reset:         make([]Call, 0, len(ordered)),
		Create:        make([]Call, 0, len(ordered)),
		Connections:   []Connection{},
	}

	for _, n := range ordered {
		d := Declaration{
			Node:        n.Name,
			Kind:        n.Kind.Name,
			Element:     string(n.Element),
			ID:          n.Instance.ID,
			LinkID:      LinkID(n),
			Handle:      Handle(n.Name),
			Params:      Params(n.Name),
			Synthesized: n.Synthesized,
		}
		if n.Instance.HasGlobal {
			g := n.Instance.Global
			d.Global = &g
		}
		s.Declarations = append(s.Declarations, d)
		s.Reset = append(s.Reset, call(n))
		s.Create = append(s.Create, call(n))
	}

	for _, n := range ordered {
		for slot, out := range n.Outputs {
			consumer, _ := res.Node(out.Node)
			s.Connections = append(s.Connections, connection(n, slot, consumer, out.Slot))
		}
	}

	groups := groupByElement(ordered, opts.SettleDelay)
	s.Start = groups
	s.Stop = cloneGroups(groups)
	s.Delete = cloneGroups(groups)
	s.Statistics = cloneGroups(groups)
	s.BufferStatistics = cloneGroups(groups)
	s.Graph = describe(res)
	return s
}

// Handle is the name of the variable holding a link's runtime ID.
func Handle(node string) string {
	return node + "LinkID"
}

// Params is the name of a link's create-parameter structure.
func Params(node string) string {
	return node + "Prm"
}

// LinkID renders the runtime link-ID expression of n, e.g.
// SYSTEM_LINK_ID_CAPTURE_0 or IPU1_0_LINK (SYSTEM_LINK_ID_DUP_1).
func LinkID(n compiler.Node) string {
	symbol := n.Kind.Symbol
	if symbol == "" {
		symbol = strings.ToUpper(n.Kind.Name)
	}
	id := "SYSTEM_LINK_ID_" + symbol
	if !n.Kind.Singleton {
		id = fmt.Sprintf("%s_%d", id, n.Instance.ID)
	}
	if n.Kind.ElementPrefixed {
		return fmt.Sprintf("%s_LINK (%s)", n.Element, id)
	}
	return id
}

func call(n compiler.Node) Call {
	return Call{Node: n.Name, Handle: Handle(n.Name), Params: Params(n.Name)}
}

func connection(producer compiler.Node, outSlot int, consumer compiler.Node, inSlot int) Connection {
	out := Params(producer.Name) + ".outQueParams"
	if producer.Kind.MultiOut {
		out = fmt.Sprintf("%s[%d]", out, outSlot)
	}
	in := Params(consumer.Name) + ".inQueParams"
	if consumer.Kind.MultiIn {
		in = fmt.Sprintf("%s[%d]", in, inSlot)
	}
	return Connection{
		Producer:      producer.Name,
		Consumer:      consumer.Name,
		OutQueue:      out + ".nextLink",
		NextLink:      Handle(consumer.Name),
		InQueue:       in,
		PrevLinkID:    Handle(producer.Name),
		PrevLinkQueID: outSlot,
	}
}

// groupByElement walks ordered in reverse and starts a new group whenever
// the element changes.
func groupByElement(ordered []compiler.Node, settle time.Duration) []Group {
	var groups []Group
	for i := len(ordered) - 1; i >= 0; i-- {
		n := ordered[i]
		el := string(n.Element)
		if len(groups) == 0 || groups[len(groups)-1].Element != el {
			if len(groups) > 0 {
				groups[len(groups)-1].SettleAfterMS = settle.Milliseconds()
			}
			groups = append(groups, Group{Element: el})
		}
		last := &groups[len(groups)-1]
		last.Calls = append(last.Calls, Call{Node: n.Name, Handle: Handle(n.Name)})
	}
	return groups
}

func cloneGroups(groups []Group) []Group {
	out := make([]Group, len(groups))
	for i, g := range groups {
		out[i] = g
		out[i].Calls = append([]Call(nil), g.Calls...)
	}
	return out
}

func describe(res *compiler.Result) Graph {
	g := Graph{
		Nodes: make([]GraphNode, 0, len(res.Nodes)),
		Edges: make([]GraphEdge, 0, len(res.Edges)),
	}
	seen := map[string]bool{}
	for _, n := range res.Nodes {
		el := string(n.Element)
		if !seen[el] {
			seen[el] = true
			g.Elements = append(g.Elements, el)
		}
		g.Nodes = append(g.Nodes, GraphNode{
			Name:        n.Name,
			Kind:        n.Kind.Name,
			Element:     el,
			Synthesized: n.Synthesized,
			MultiIn:     n.Kind.MultiIn,
			MultiOut:    n.Kind.MultiOut,
		})
	}
	for _, e := range res.Edges {
		g.Edges = append(g.Edges, GraphEdge{From: e.From, FromSlot: e.FromSlot, To: e.To, ToSlot: e.ToSlot})
	}
	return g
}
