package render

import (
	"context"
	"fmt"
	"io"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"
	"github.com/vk/usecasegen/internal/lifecycle"
)

// htmlColors mirror the DOT fill colors in a browser-safe form.
var htmlColors = map[string]string{
	"IPU1_0": "#add8e6",
	"IPU1_1": "#00ced1",
	"A15":    "#ffa07a",
	"DSP1":   "#98fb98",
	"DSP2":   "#caff70",
	"EVE1":   "#ffff00",
	"EVE2":   "#ffd700",
	"EVE3":   "#ffa500",
	"EVE4":   "#8b6914",
}

// HTML writes an interactive force-layout diagram with one legend
// category per compute element.
type HTML struct {
	W io.Writer
	// AssetsHost overrides the echarts script location.
	AssetsHost string
}

// Emit implements lifecycle.Emitter.
func (r HTML) Emit(_ context.Context, s *lifecycle.Script) error {
	graph := charts.NewGraph()
	graph.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{
			PageTitle:  s.Usecase,
			ChartID:    "usecase",
			Width:      "1200px",
			Height:     "800px",
			AssetsHost: r.AssetsHost,
		}),
		charts.WithTitleOpts(opts.Title{
			Title:    s.Usecase,
			Subtitle: fmt.Sprintf("nodes=%d edges=%d fingerprint=%s", len(s.Graph.Nodes), len(s.Graph.Edges), s.Fingerprint),
		}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true)}),
	)

	categoryOf := make(map[string]int, len(s.Graph.Elements))
	categories := make([]*opts.GraphCategory, 0, len(s.Graph.Elements))
	for i, el := range s.Graph.Elements {
		categoryOf[el] = i
		cat := &opts.GraphCategory{Name: el}
		if c, ok := htmlColors[el]; ok {
			cat.ItemStyle = &opts.ItemStyle{Color: c}
		}
		categories = append(categories, cat)
	}

	nodes := make([]opts.GraphNode, 0, len(s.Graph.Nodes))
	for _, n := range s.Graph.Nodes {
		size := 40
		symbol := "roundRect"
		if n.Synthesized {
			size = 20
			symbol = "diamond"
		}
		nodes = append(nodes, opts.GraphNode{
			Name:       n.Name,
			Category:   categoryOf[n.Element],
			Symbol:     symbol,
			SymbolSize: size,
		})
	}
	links := make([]opts.GraphLink, 0, len(s.Graph.Edges))
	for _, e := range s.Graph.Edges {
		links = append(links, opts.GraphLink{Source: e.From, Target: e.To})
	}

	graph.AddSeries("links", nodes, links,
		charts.WithGraphChartOpts(opts.GraphChart{
			Layout:         "force",
			Roam:           opts.Bool(true),
			Draggable:      opts.Bool(true),
			EdgeSymbol:     []string{"none", "arrow"},
			EdgeSymbolSize: 8,
			Force:          &opts.GraphForce{Repulsion: 600, EdgeLength: 80},
			Categories:     categories,
		}),
		charts.WithLabelOpts(opts.Label{Show: opts.Bool(true), Position: "right"}),
	)
	if err := graph.Render(r.W); err != nil {
		return fmt.Errorf("rendering HTML graph: %w", err)
	}
	return nil
}
