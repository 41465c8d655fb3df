// Package compiler turns a directive stream into a bridged, allocated and
// scheduled link graph.
//
// A Compiler is immutable and may be shared; each Compile call builds its
// own graph, allocator and bridge counter, so independent use cases can be
// compiled concurrently.
package compiler

import (
	"context"
	"fmt"

	"github.com/vk/usecasegen/internal/alloc"
	"github.com/vk/usecasegen/internal/bridge"
	"github.com/vk/usecasegen/internal/catalog"
	"github.com/vk/usecasegen/internal/config"
	"github.com/vk/usecasegen/internal/ctxlog"
	"github.com/vk/usecasegen/internal/dag"
	"github.com/vk/usecasegen/internal/schedule"
)

// Compiler compiles use cases against one kind catalog.
type Compiler struct {
	catalog *catalog.Catalog
}

// New returns a compiler for cat.
func New(cat *catalog.Catalog) *Compiler {
	return &Compiler{catalog: cat}
}

// Catalog returns the catalog the compiler resolves kinds against.
func (c *Compiler) Catalog() *catalog.Catalog {
	return c.catalog
}

// Compile runs the whole pipeline. Any error is fatal for the use case and
// no partial result is returned.
func (c *Compiler) Compile(ctx context.Context, directives []config.Directive) (*Result, error) {
	logger := ctxlog.FromContext(ctx)
	g := dag.New(c.catalog)

	for _, d := range directives {
		if err := apply(g, d); err != nil {
			return nil, wrap(d, err)
		}
	}
	logger.Debug("Directive stream applied.", "directives", len(directives), "nodes", g.Len(), "edges", len(g.Edges()))

	if err := g.Close(); err != nil {
		return nil, err
	}

	report, err := bridge.Rewrite(ctx, g)
	if err != nil {
		return nil, err
	}
	if crossing := bridge.Crossing(g); len(crossing) > 0 {
		e := crossing[0]
		return nil, fmt.Errorf("bridging left %d crossing edges, first %s -> %s", len(crossing), e.From, e.To)
	}
	logger.Debug("Bridging complete.", "bridges", len(report.Bridges), "nodes", g.Len())

	allocator := alloc.New(c.catalog)
	table, err := allocator.Assign(ctx, g.Nodes())
	if err != nil {
		return nil, err
	}

	plan, err := schedule.Order(ctx, g)
	if err != nil {
		return nil, err
	}

	res := newResult(c.catalog, g, table, plan, report, allocator)
	logger.Debug("Compilation complete.", "nodes", len(res.Nodes), "edges", len(res.Edges), "bridges", len(res.Bridges))
	return res, nil
}

func apply(g *dag.Graph, d config.Directive) error {
	switch d.Op {
	case config.OpCreate:
		_, err := g.CreateNode(d.Name, d.Kind)
		return err
	case config.OpSetElement:
		return g.SetElement(d.Name, catalog.Element(d.Element))
	case config.OpConnect:
		_, err := g.Connect(d.Producer, d.Consumer)
		return err
	default:
		return dag.Errorf(dag.ErrSchemaViolation, d.Name, "unknown directive %q", d.Op)
	}
}

func wrap(d config.Directive, err error) error {
	if d.Pos == "" {
		return fmt.Errorf("%s: %w", d, err)
	}
	return fmt.Errorf("%s: %s: %w", d.Pos, d, err)
}
