package bridge

import (
	"context"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vk/usecasegen/internal/catalog"
	"github.com/vk/usecasegen/internal/dag"
)

func testCatalog() *catalog.Catalog {
	return catalog.MustNew(
		catalog.Kind{Name: "Source", Input: catalog.None, Output: catalog.Unbounded, Default: "E0"},
		catalog.Kind{Name: "Transform", Input: catalog.ExactlyOne, Output: catalog.Unbounded, Default: "E0"},
	)
}

type node struct {
	name, kind string
	el         catalog.Element
}

func closedGraph(t *testing.T, nodes []node, edges [][2]string) *dag.Graph {
	t.Helper()
	g := dag.New(testCatalog())
	for _, n := range nodes {
		_, err := g.CreateNode(n.name, n.kind)
		require.NoError(t, err)
		if n.el != "" {
			require.NoError(t, g.SetElement(n.name, n.el))
		}
	}
	for _, e := range edges {
		_, err := g.Connect(e[0], e[1])
		require.NoError(t, err)
	}
	require.NoError(t, g.Close())
	return g
}

func TestRewrite(t *testing.T) {
	ctx := context.Background()

	t.Run("same element needs no bridge", func(t *testing.T) {
		g := closedGraph(t,
			[]node{{"A", "Source", "E0"}, {"B", "Transform", "E0"}},
			[][2]string{{"A", "B"}})

		report, err := Rewrite(ctx, g)
		require.NoError(t, err)
		assert.Empty(t, report.Bridges)
		assert.Equal(t, 2, g.Len())
		assert.Len(t, g.Edges(), 1)
	})

	t.Run("crossing edge gets one pair", func(t *testing.T) {
		g := closedGraph(t,
			[]node{{"A", "Source", "E0"}, {"B", "Transform", "E1"}},
			[][2]string{{"A", "B"}})

		report, err := Rewrite(ctx, g)
		require.NoError(t, err)

		want := []Bridge{{Producer: "A", Consumer: "B", Out: "IPCOut_E0_E1_0", In: "IPCIn_E0_E1_0"}}
		if diff := cmp.Diff(want, report.Bridges); diff != "" {
			t.Errorf("bridges mismatch (-want +got):\n%s", diff)
		}

		out, ok := g.Node("IPCOut_E0_E1_0")
		require.True(t, ok)
		assert.Equal(t, catalog.Element("E0"), out.Element)
		assert.Equal(t, catalog.TransportOut, out.Kind)
		in, ok := g.Node("IPCIn_E0_E1_0")
		require.True(t, ok)
		assert.Equal(t, catalog.Element("E1"), in.Element)

		wantEdges := []dag.Edge{
			{From: "A", FromSlot: 0, To: "IPCOut_E0_E1_0", ToSlot: 0},
			{From: "IPCOut_E0_E1_0", FromSlot: 0, To: "IPCIn_E0_E1_0", ToSlot: 0},
			{From: "IPCIn_E0_E1_0", FromSlot: 0, To: "B", ToSlot: 0},
		}
		if diff := cmp.Diff(wantEdges, g.Edges()); diff != "" {
			t.Errorf("edges mismatch (-want +got):\n%s", diff)
		}
		assert.Empty(t, Crossing(g))
	})

	t.Run("fan-out to several elements", func(t *testing.T) {
		g := closedGraph(t,
			[]node{
				{"src", "Source", "E0"},
				{"local", "Transform", "E0"},
				{"far1", "Transform", "E1"},
				{"far2", "Transform", "E2"},
				{"far3", "Transform", "E1"},
			},
			[][2]string{{"src", "local"}, {"src", "far1"}, {"src", "far2"}, {"src", "far3"}})

		report, err := Rewrite(ctx, g)
		require.NoError(t, err)
		require.Len(t, report.Bridges, 3)
		assert.Equal(t, "IPCOut_E0_E1_0", report.Bridges[0].Out)
		assert.Equal(t, "IPCOut_E0_E2_1", report.Bridges[1].Out)
		assert.Equal(t, "IPCOut_E0_E1_2", report.Bridges[2].Out)
		assert.Equal(t, 5+6, g.Len())
		assert.Len(t, g.Edges(), 1+3*3)
		assert.Empty(t, Crossing(g))

		src, _ := g.Node("src")
		assert.Len(t, src.Outputs, 4, "producer keeps one output slot per requested edge")
	})

	t.Run("idempotent", func(t *testing.T) {
		g := closedGraph(t,
			[]node{{"A", "Source", "E0"}, {"B", "Transform", "E1"}},
			[][2]string{{"A", "B"}})

		_, err := Rewrite(ctx, g)
		require.NoError(t, err)
		nodes, edges := g.Len(), g.Edges()

		report, err := Rewrite(ctx, g)
		require.NoError(t, err)
		assert.Empty(t, report.Bridges)
		assert.Equal(t, nodes, g.Len())
		assert.Equal(t, edges, g.Edges())
	})

	t.Run("user name clash bumps the counter", func(t *testing.T) {
		g := closedGraph(t,
			[]node{{"IPCOut_E0_E1_0", "Source", "E0"}, {"B", "Transform", "E1"}},
			[][2]string{{"IPCOut_E0_E1_0", "B"}})

		report, err := Rewrite(ctx, g)
		require.NoError(t, err)
		require.Len(t, report.Bridges, 1)
		assert.Equal(t, "IPCOut_E0_E1_1", report.Bridges[0].Out)
		assert.Equal(t, "IPCIn_E0_E1_1", report.Bridges[0].In)
	})

	t.Run("open graph is rejected", func(t *testing.T) {
		g := dag.New(testCatalog())
		_, err := Rewrite(ctx, g)
		assert.ErrorContains(t, err, "must be closed")
	})
}

func TestCrossing(t *testing.T) {
	ctx := context.Background()

	t.Run("synthesized pair link is not crossing", func(t *testing.T) {
		g := closedGraph(t,
			[]node{{"A", "Source", "E0"}, {"B", "Transform", "E1"}, {"C", "Transform", "E0"}},
			[][2]string{{"A", "B"}, {"B", "C"}})
		require.Len(t, Crossing(g), 2)

		report, err := Rewrite(ctx, g)
		require.NoError(t, err)
		require.Len(t, report.Bridges, 2)
		assert.Empty(t, Crossing(g))

		var links int
		for _, e := range g.Edges() {
			from, _ := g.Node(e.From)
			to, _ := g.Node(e.To)
			if from.Element != to.Element {
				links++
				assert.Equal(t, catalog.TransportOut, from.Kind)
				assert.Equal(t, catalog.TransportIn, to.Kind)
			}
		}
		assert.Equal(t, 2, links, "each pair keeps its own cross-element link")
	})

	t.Run("user-declared transport nodes still cross", func(t *testing.T) {
		g := closedGraph(t,
			[]node{
				{"A", "Source", "E0"},
				{"o", catalog.TransportOut, "E0"},
				{"i", catalog.TransportIn, "E1"},
				{"B", "Transform", "E1"},
			},
			[][2]string{{"A", "o"}, {"o", "i"}, {"i", "B"}})

		crossing := Crossing(g)
		require.Len(t, crossing, 1)
		assert.Equal(t, "o", crossing[0].From)
		assert.Equal(t, "i", crossing[0].To)
	})
}
