// Package alloc assigns dense, deterministic instance identifiers to the
// nodes of a bridged graph.
//
// IDs are scoped per (kind category, compute element) and handed out in
// node creation order starting at 0. Kinds marked globally numbered also
// draw a second identifier from one counter shared by all such kinds,
// independent of the per-element counters. Whole-graph instance ceilings
// are checked against the per-kind total.
//
// All counters live in an Allocator value; there is no package state, so
// independent compilations can allocate in parallel.
package alloc

import (
	"context"
	"sort"

	"github.com/vk/usecasegen/internal/catalog"
	"github.com/vk/usecasegen/internal/ctxlog"
	"github.com/vk/usecasegen/internal/dag"
)

// Scope is one allocation domain.
type Scope struct {
	Category string
	Element  catalog.Element
}

// Instance is the identity assigned to one node.
type Instance struct {
	Scope Scope
	// ID is dense within Scope.
	ID int
	// Global is dense across all globally numbered nodes; valid when
	// HasGlobal is set.
	Global    int
	HasGlobal bool
}

// Table maps node names to their assigned instance.
type Table map[string]Instance

// Allocator holds the counters of one compilation.
type Allocator struct {
	catalog *catalog.Catalog
	scoped  map[Scope]int
	global  int
	perKind map[string]int
}

// New returns an allocator with all counters at zero.
func New(cat *catalog.Catalog) *Allocator {
	return &Allocator{
		catalog: cat,
		scoped:  make(map[Scope]int),
		perKind: make(map[string]int),
	}
}

// Assign numbers nodes in the order given, which callers pass as creation
// order. A kind exceeding its instance ceiling fails the whole allocation.
func (a *Allocator) Assign(ctx context.Context, nodes []*dag.Node) (Table, error) {
	logger := ctxlog.FromContext(ctx)
	table := make(Table, len(nodes))

	for _, n := range nodes {
		kind, ok := a.catalog.Lookup(n.Kind)
		if !ok {
			return nil, dag.Errorf(dag.ErrSchemaViolation, n.Name, "node %q: %v %q", n.Name, catalog.ErrUnknownKind, n.Kind)
		}

		a.perKind[kind.Name]++
		if ceiling, capped := a.catalog.InstanceCeiling(kind.Name); capped && a.perKind[kind.Name] > ceiling {
			return nil, dag.Errorf(dag.ErrAllocationCeiling, n.Name,
				"node %q is instance %d of kind %s, which allows at most %d per graph",
				n.Name, a.perKind[kind.Name], kind.Name, ceiling)
		}

		scope := Scope{Category: kind.Category, Element: n.Element}
		inst := Instance{Scope: scope, ID: a.scoped[scope]}
		a.scoped[scope]++
		if kind.GloballyNumbered {
			inst.Global = a.global
			inst.HasGlobal = true
			a.global++
		}
		table[n.Name] = inst

		logger.Debug("Allocated instance.", "node", n.Name, "kind", n.Kind,
			"category", scope.Category, "element", scope.Element, "id", inst.ID)
	}
	return table, nil
}

// ScopeCount is the number of IDs handed out in one scope.
type ScopeCount struct {
	Scope Scope
	Count int
}

// Scopes reports the per-scope totals, sorted by category then element.
func (a *Allocator) Scopes() []ScopeCount {
	out := make([]ScopeCount, 0, len(a.scoped))
	for s, n := range a.scoped {
		out = append(out, ScopeCount{Scope: s, Count: n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Scope.Category != out[j].Scope.Category {
			return out[i].Scope.Category < out[j].Scope.Category
		}
		return out[i].Scope.Element < out[j].Scope.Element
	})
	return out
}

// GlobalCount returns how many globally numbered IDs were handed out.
func (a *Allocator) GlobalCount() int {
	return a.global
}
