// Package schedule computes the initialization order of a bridged graph.
//
// The order is a forward walk. The lowest-creation-index node whose direct
// producers are all scheduled is taken as a root, and from there the walk
// descends into the lowest-creation-index child that has become ready, so
// a chain is laid out before its siblings. A node is never scheduled ahead
// of any of its producers. Teardown is the exact reverse.
package schedule

import (
	"context"
	"slices"

	"github.com/vk/usecasegen/internal/ctxlog"
	"github.com/vk/usecasegen/internal/dag"
)

type state uint8

const (
	unscheduled state = iota
	inProgress
	scheduled
)

// Entry is one position in a schedule.
type Entry struct {
	Node     string
	Position int
}

// Plan holds the init order and its reverse.
type Plan struct {
	Init     []Entry
	Teardown []Entry

	positions map[string]int
}

// Position returns the init position of node, or -1 if it is not scheduled.
func (p Plan) Position(node string) int {
	if pos, ok := p.positions[node]; ok {
		return pos
	}
	return -1
}

// Names returns the init order as node names.
func (p Plan) Names() []string {
	out := make([]string, len(p.Init))
	for i, e := range p.Init {
		out[i] = e.Node
	}
	return out
}

// frame is one level of the explicit walk stack.
type frame struct {
	node     *dag.Node
	children []*dag.Node
	next     int
}

// Order schedules every node of g. A dependency cycle fails with
// dag.ErrCyclicGraph naming the cycle, and no plan is returned.
func Order(ctx context.Context, g *dag.Graph) (Plan, error) {
	logger := ctxlog.FromContext(ctx)
	nodes := g.Nodes()
	states := make(map[string]state, len(nodes))
	plan := Plan{
		Init:      make([]Entry, 0, len(nodes)),
		positions: make(map[string]int, len(nodes)),
	}
	emit := func(n *dag.Node) {
		states[n.Name] = inProgress
		plan.positions[n.Name] = len(plan.Init)
		plan.Init = append(plan.Init, Entry{Node: n.Name, Position: len(plan.Init)})
	}
	ready := func(n *dag.Node) bool {
		for _, p := range distinct(g, n.Inputs) {
			if states[p.Name] == unscheduled {
				return false
			}
		}
		return true
	}

	for _, root := range nodes {
		if states[root.Name] != unscheduled || !ready(root) {
			continue
		}
		emit(root)
		stack := []*frame{{node: root, children: distinct(g, root.Outputs)}}

		for len(stack) > 0 {
			top := stack[len(stack)-1]
			if top.next < len(top.children) {
				c := top.children[top.next]
				top.next++
				switch states[c.Name] {
				case scheduled:
				case inProgress:
					return Plan{}, dag.CycleError(backEdge(stack, c.Name))
				default:
					if ready(c) {
						emit(c)
						stack = append(stack, &frame{node: c, children: distinct(g, c.Outputs)})
					}
				}
				continue
			}
			states[top.node.Name] = scheduled
			stack = stack[:len(stack)-1]
		}
	}

	if len(plan.Init) < len(nodes) {
		return Plan{}, dag.CycleError(findCycle(g, nodes, states))
	}

	plan.Teardown = make([]Entry, len(plan.Init))
	for i, e := range plan.Init {
		plan.Teardown[len(plan.Init)-1-i] = e
	}
	logger.Debug("Scheduled graph.", "nodes", len(plan.Init))
	return plan, nil
}

// distinct resolves the nodes behind ports, without repeats, sorted by
// creation index.
func distinct(g *dag.Graph, ports []dag.Port) []*dag.Node {
	seen := make(map[string]struct{}, len(ports))
	out := make([]*dag.Node, 0, len(ports))
	for _, p := range ports {
		if _, dup := seen[p.Node]; dup {
			continue
		}
		seen[p.Node] = struct{}{}
		if n, ok := g.Node(p.Node); ok {
			out = append(out, n)
		}
	}
	slices.SortFunc(out, func(a, b *dag.Node) int { return a.Index - b.Index })
	return out
}

// findCycle traces producers back from the first node the walk could not
// reach. Every such node has an unscheduled producer, so the trace closes
// on itself.
func findCycle(g *dag.Graph, nodes []*dag.Node, states map[string]state) []string {
	var cur *dag.Node
	for _, n := range nodes {
		if states[n.Name] == unscheduled {
			cur = n
			break
		}
	}
	onPath := make(map[string]bool)
	var trail []string
	for !onPath[cur.Name] {
		onPath[cur.Name] = true
		trail = append(trail, cur.Name)
		for _, p := range distinct(g, cur.Inputs) {
			if states[p.Name] == unscheduled {
				cur = p
				break
			}
		}
	}
	return cyclePath(trail, cur.Name)
}

// backEdge renders the cycle closed by a walk stack edge into name, which
// is still on the stack.
func backEdge(stack []*frame, name string) []string {
	start := slices.IndexFunc(stack, func(f *frame) bool { return f.node.Name == name })
	path := make([]string, 0, len(stack)-start+1)
	for _, f := range stack[start:] {
		path = append(path, f.node.Name)
	}
	return append(path, name)
}

// cyclePath renders the cycle closed by re-entering name in data-flow
// order, starting and ending at the most recently entered node.
func cyclePath(trail []string, name string) []string {
	start := slices.Index(trail, name)
	path := make([]string, 0, len(trail)-start+1)
	// The trail runs consumer -> producer; reverse it to follow the data.
	for i := len(trail) - 1; i >= start; i-- {
		path = append(path, trail[i])
	}
	return append(path, trail[len(trail)-1])
}
