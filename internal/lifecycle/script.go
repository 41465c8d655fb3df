package lifecycle

import (
	"context"
	"time"
)

// DefaultSettleDelay is the pause between element groups when a use case
// does not configure one.
const DefaultSettleDelay = 500 * time.Millisecond

// Emitter consumes a finished script, e.g. by serializing it.
type Emitter interface {
	Emit(ctx context.Context, s *Script) error
}

// Script is the structured lifecycle of one use case.
type Script struct {
	Usecase       string `yaml:"usecase"`
	Fingerprint   string `yaml:"fingerprint"`
	SettleDelayMS int64  `yaml:"settle_delay_ms"`

	Declarations []Declaration `yaml:"declarations"`
	Reset        []Call        `yaml:"reset"`
	Connections  []Connection  `yaml:"connections"`
	Create       []Call        `yaml:"create"`

	Start            []Group `yaml:"start"`
	Stop             []Group `yaml:"stop"`
	Delete           []Group `yaml:"delete"`
	Statistics       []Group `yaml:"statistics"`
	BufferStatistics []Group `yaml:"buffer_statistics"`

	Graph Graph `yaml:"graph"`
}

// Declaration introduces one link instance.
type Declaration struct {
	Node    string `yaml:"node"`
	Kind    string `yaml:"kind"`
	Element string `yaml:"element"`
	ID      int    `yaml:"id"`
	// Global is set for globally numbered kinds only.
	Global      *int   `yaml:"global,omitempty"`
	LinkID      string `yaml:"link_id"`
	Handle      string `yaml:"handle"`
	Params      string `yaml:"params"`
	Synthesized bool   `yaml:"synthesized,omitempty"`
}

// Call is one lifecycle call on a link.
type Call struct {
	Node   string `yaml:"node"`
	Handle string `yaml:"handle"`
	Params string `yaml:"params,omitempty"`
}

// Connection wires one edge: the producer's output queue points at the
// consumer, and the consumer's input queue points back at the producer.
type Connection struct {
	Producer string `yaml:"producer"`
	Consumer string `yaml:"consumer"`
	// OutQueue is the producer field set to NextLink, e.g.
	// "capturePrm.outQueParams.nextLink".
	OutQueue string `yaml:"out_queue"`
	NextLink string `yaml:"next_link"`
	// InQueue is the consumer queue field prefix, e.g.
	// "mergePrm.inQueParams[1]".
	InQueue       string `yaml:"in_queue"`
	PrevLinkID    string `yaml:"prev_link_id"`
	PrevLinkQueID int    `yaml:"prev_link_que_id"`
}

// Group is a run of calls on one element. SettleAfterMS is the pause
// before the next group; zero on the last group.
type Group struct {
	Element       string `yaml:"element"`
	Calls         []Call `yaml:"calls"`
	SettleAfterMS int64  `yaml:"settle_after_ms,omitempty"`
}

// Graph is the diagram-oriented view of the bridged graph.
type Graph struct {
	Nodes []GraphNode `yaml:"nodes"`
	Edges []GraphEdge `yaml:"edges"`
	// Elements lists the elements in first-use order.
	Elements []string `yaml:"elements"`
}

// GraphNode is one diagram node.
type GraphNode struct {
	Name        string `yaml:"name"`
	Kind        string `yaml:"kind"`
	Element     string `yaml:"element"`
	Synthesized bool   `yaml:"synthesized,omitempty"`
	MultiIn     bool   `yaml:"multi_in,omitempty"`
	MultiOut    bool   `yaml:"multi_out,omitempty"`
}

// GraphEdge is one diagram edge with its slot indices.
type GraphEdge struct {
	From     string `yaml:"from"`
	FromSlot int    `yaml:"from_slot"`
	To       string `yaml:"to"`
	ToSlot   int    `yaml:"to_slot"`
}

// Calls flattens groups into their calls in order.
func Calls(groups []Group) []Call {
	var out []Call
	for _, g := range groups {
		out = append(out, g.Calls...)
	}
	return out
}
