package lifecycle

import (
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/gowebpki/jcs"
	"github.com/vk/usecasegen/internal/compiler"
)

var namespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("usecasegen/topology"))

type canonicalNode struct {
	Name    string `json:"name"`
	Kind    string `json:"kind"`
	Element string `json:"element"`
	ID      int    `json:"id"`
}

type canonicalEdge struct {
	From     string `json:"from"`
	FromSlot int    `json:"from_slot"`
	To       string `json:"to"`
	ToSlot   int    `json:"to_slot"`
}

type canonicalGraph struct {
	Nodes []canonicalNode `json:"nodes"`
	Edges []canonicalEdge `json:"edges"`
	Init  []string        `json:"init"`
}

// Fingerprint returns a UUIDv5 over the RFC 8785 canonical JSON of the
// compiled graph: nodes in creation order with their placement and IDs,
// the realized edges and the init order. Identical graphs always produce
// the same value.
func Fingerprint(res *compiler.Result) uuid.UUID {
	g := canonicalGraph{
		Nodes: make([]canonicalNode, 0, len(res.Nodes)),
		Edges: make([]canonicalEdge, 0, len(res.Edges)),
		Init:  make([]string, 0, len(res.Plan.Init)),
	}
	for _, n := range res.Nodes {
		g.Nodes = append(g.Nodes, canonicalNode{n.Name, n.Kind.Name, string(n.Element), n.Instance.ID})
	}
	for _, e := range res.Edges {
		g.Edges = append(g.Edges, canonicalEdge{e.From, e.FromSlot, e.To, e.ToSlot})
	}
	for _, e := range res.Plan.Init {
		g.Init = append(g.Init, e.Node)
	}

	raw, err := json.Marshal(g)
	if err != nil {
		panic(fmt.Sprintf("fingerprint: marshal canonical graph: %v", err))
	}
	canon, err := jcs.Transform(raw)
	if err != nil {
		panic(fmt.Sprintf("fingerprint: canonicalize graph: %v", err))
	}
	return uuid.NewSHA1(namespace, canon)
}
