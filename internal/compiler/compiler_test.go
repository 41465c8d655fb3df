package compiler

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"slices"
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vk/usecasegen/internal/alloc"
	"github.com/vk/usecasegen/internal/catalog"
	"github.com/vk/usecasegen/internal/config"
	"github.com/vk/usecasegen/internal/dag"
	"github.com/vk/usecasegen/internal/schedule"
)

func testCatalog() *catalog.Catalog {
	return catalog.MustNew(
		catalog.Kind{Name: "Source", Input: catalog.None, Output: catalog.Unbounded, Default: "E0"},
		catalog.Kind{Name: "Transform", Input: catalog.ExactlyOne, Output: catalog.Unbounded, Default: "E0"},
		catalog.Kind{Name: "Free", Input: catalog.Unbounded, Output: catalog.Unbounded, Default: "E0"},
		catalog.Kind{Name: "Sensor", Input: catalog.None, Output: catalog.Unbounded, Default: "E0", Ceiling: 1},
		catalog.Kind{Name: "Pinned", Input: catalog.Unbounded, Output: catalog.Unbounded, Allowed: []catalog.Element{"E1"}},
	)
}

func compile(t *testing.T, directives ...config.Directive) (*Result, error) {
	t.Helper()
	return New(testCatalog()).Compile(context.Background(), directives)
}

func TestScenarios(t *testing.T) {
	t.Run("same element pair needs no bridge", func(t *testing.T) {
		res, err := compile(t,
			config.Create("A", "Source"), config.SetElement("A", "E0"),
			config.Create("B", "Transform"), config.SetElement("B", "E0"),
			config.Connect("A", "B"),
		)
		require.NoError(t, err)
		assert.Empty(t, res.Bridges)
		assert.Empty(t, res.Synthesized())
		assert.Equal(t, []string{"A", "B"}, res.Plan.Names())
	})

	t.Run("cross element pair is bridged", func(t *testing.T) {
		res, err := compile(t,
			config.Create("A", "Source"), config.SetElement("A", "E0"),
			config.Create("B", "Transform"), config.SetElement("B", "E1"),
			config.Connect("A", "B"),
		)
		require.NoError(t, err)

		synth := res.Synthesized()
		require.Len(t, synth, 2)
		out, _ := res.Node(synth[0])
		in, _ := res.Node(synth[1])
		assert.Equal(t, catalog.TransportOut, out.Kind.Name)
		assert.Equal(t, catalog.Element("E0"), out.Element)
		assert.Equal(t, catalog.TransportIn, in.Kind.Name)
		assert.Equal(t, catalog.Element("E1"), in.Element)

		wantEdges := []dag.Edge{
			{From: "A", To: out.Name},
			{From: out.Name, To: in.Name},
			{From: in.Name, To: "B"},
		}
		if diff := cmp.Diff(wantEdges, res.Edges); diff != "" {
			t.Errorf("edges mismatch (-want +got):\n%s", diff)
		}
		assert.Equal(t, []string{"A", out.Name, in.Name, "B"}, res.Plan.Names())
	})

	t.Run("third producer into exactly-one input", func(t *testing.T) {
		res, err := compile(t,
			config.Create("s1", "Source"), config.Create("s2", "Source"), config.Create("s3", "Source"),
			config.Create("t", "Transform"),
			config.Connect("s1", "t"), config.Connect("s2", "t"), config.Connect("s3", "t"),
		)
		require.Error(t, err)
		assert.Nil(t, res)
		assert.True(t, errors.Is(err, dag.ErrSchemaViolation))
		var ge *dag.GraphError
		require.True(t, errors.As(err, &ge))
		assert.Equal(t, "t", ge.Node)
		assert.Contains(t, err.Error(), "exactly-one input contract")
	})

	t.Run("two node cycle", func(t *testing.T) {
		res, err := compile(t,
			config.Create("A", "Free"), config.Create("B", "Free"),
			config.Connect("A", "B"), config.Connect("B", "A"),
		)
		require.Error(t, err)
		assert.True(t, errors.Is(err, dag.ErrCyclicGraph))
		assert.Nil(t, res, "no order is returned for a cyclic graph")
	})

	t.Run("five nodes pinned to one element", func(t *testing.T) {
		var ds []config.Directive
		for i := range 5 {
			name := fmt.Sprintf("n%d", i)
			ds = append(ds, config.Create(name, "Free"), config.SetElement(name, "E2"))
		}
		res, err := compile(t, ds...)
		require.NoError(t, err)
		for i := range 5 {
			n, ok := res.Node(fmt.Sprintf("n%d", i))
			require.True(t, ok)
			assert.Equal(t, i, n.Instance.ID)
			assert.Equal(t, alloc.Scope{Category: "Free", Element: "E2"}, n.Instance.Scope)
		}
	})

	t.Run("re-create with a different kind", func(t *testing.T) {
		_, err := compile(t,
			config.Create("A", "Source"),
			config.Create("A", "Transform"),
		)
		require.Error(t, err)
		assert.True(t, errors.Is(err, dag.ErrSchemaViolation))
		assert.Contains(t, err.Error(), `node "A" already exists with kind Source, cannot re-create it as Transform`)
	})
}

func TestCompileErrors(t *testing.T) {
	testCases := []struct {
		name       string
		directives []config.Directive
		wantKind   error
		wantMsg    string
	}{
		{
			name:       "unknown producer",
			directives: []config.Directive{config.Create("B", "Free"), config.Connect("A", "B")},
			wantKind:   dag.ErrUnknownNodeReference,
			wantMsg:    `connect A -> B: unknown node reference`,
		},
		{
			name: "duplicate edge",
			directives: []config.Directive{
				config.Create("A", "Free"), config.Create("B", "Free"),
				config.Connect("A", "B"), config.Connect("A", "B"),
			},
			wantKind: dag.ErrDuplicateEdge,
			wantMsg:  "A -> B is already connected",
		},
		{
			name:       "element not allowed",
			directives: []config.Directive{config.Create("p", "Pinned"), config.SetElement("p", "E0")},
			wantKind:   dag.ErrElementNotAllowed,
			wantMsg:    `node "p" of kind Pinned cannot run on E0`,
		},
		{
			name:       "ceiling exceeded",
			directives: []config.Directive{config.Create("s0", "Sensor"), config.Create("s1", "Sensor")},
			wantKind:   dag.ErrAllocationCeiling,
			wantMsg:    "allows at most 1 per graph",
		},
		{
			name:       "unknown kind",
			directives: []config.Directive{config.Create("x", "Nope")},
			wantKind:   dag.ErrSchemaViolation,
			wantMsg:    `unknown kind "Nope"`,
		},
		{
			name:       "unknown directive",
			directives: []config.Directive{{Op: "explode", Name: "x"}},
			wantKind:   dag.ErrSchemaViolation,
			wantMsg:    `unknown directive "explode"`,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			_, err := compile(t, tc.directives...)
			require.Error(t, err)
			assert.True(t, errors.Is(err, tc.wantKind), "got %v", err)
			assert.Contains(t, err.Error(), tc.wantMsg)
		})
	}
}

func TestCompileWrapsDirectivePosition(t *testing.T) {
	d := config.Connect("ghost", "B")
	d.Pos = "usecase.hcl:12"

	_, err := compile(t, config.Create("B", "Free"), d)
	assert.ErrorContains(t, err, "usecase.hcl:12: connect ghost -> B: unknown node reference")
}

func TestCompileFrozenResultIsIndependent(t *testing.T) {
	res, err := compile(t,
		config.Create("A", "Source"), config.SetElement("A", "E0"),
		config.Create("B", "Free"), config.SetElement("B", "E1"),
		config.Connect("A", "B"),
	)
	require.NoError(t, err)

	ordered := res.Ordered()
	require.Len(t, ordered, 4)
	assert.Equal(t, "A", ordered[0].Name)
	assert.True(t, ordered[1].Instance.HasGlobal)
	assert.True(t, ordered[1].Synthesized)
	assert.True(t, ordered[0].Pinned, "A was pinned explicitly")
	_, ok := res.Node("missing")
	assert.False(t, ok)
}

func TestCompileInParallel(t *testing.T) {
	c := New(testCatalog())
	directives := []config.Directive{
		config.Create("cap", "Source"),
		config.Create("alg", "Free"), config.SetElement("alg", "E1"),
		config.Create("disp", "Free"), config.SetElement("disp", "E2"),
		config.Connect("cap", "alg"), config.Connect("alg", "disp"), config.Connect("cap", "disp"),
	}
	want, err := c.Compile(context.Background(), directives)
	require.NoError(t, err)

	var wg sync.WaitGroup
	results := make([]*Result, 16)
	errs := make([]error, 16)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i], errs[i] = c.Compile(context.Background(), directives)
		}(i)
	}
	wg.Wait()

	for i, got := range results {
		require.NoError(t, errs[i])
		if diff := cmp.Diff(want, got, cmp.AllowUnexported(Result{}, schedule.Plan{})); diff != "" {
			t.Fatalf("result %d differs (-want +got):\n%s", i, diff)
		}
	}
}

// randomUsecase generates a directive stream over Free nodes spread across
// three elements with forward-only edges in a random permutation.
func randomUsecase(n int, seed int64) []config.Directive {
	rng := rand.New(rand.NewSource(seed))
	var ds []config.Directive
	names := make([]string, n)
	for i := range names {
		names[i] = fmt.Sprintf("n%d", i)
		ds = append(ds, config.Create(names[i], "Free"))
		if rng.Intn(3) > 0 {
			ds = append(ds, config.SetElement(names[i], fmt.Sprintf("E%d", rng.Intn(3))))
		}
	}
	perm := rng.Perm(n)
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			if rng.Intn(3) == 0 {
				ds = append(ds, config.Connect(names[perm[i]], names[perm[j]]))
			}
		}
	}
	return ds
}

func TestCompileProperties(t *testing.T) {
	ctx := context.Background()
	c := New(testCatalog())
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 150
	properties := gopter.NewProperties(parameters)

	properties.Property("one bridge pair per crossing requested edge", prop.ForAll(
		func(n int, seed int64) bool {
			ds := randomUsecase(n, seed)
			elements := map[string]string{}
			for _, d := range ds {
				if d.Op == config.OpCreate {
					elements[d.Name] = "E0"
				}
				if d.Op == config.OpSetElement {
					elements[d.Name] = d.Element
				}
			}
			crossing := 0
			for _, d := range ds {
				if d.Op == config.OpConnect && elements[d.Producer] != elements[d.Consumer] {
					crossing++
				}
			}

			res, err := c.Compile(ctx, ds)
			if err != nil {
				return false
			}
			for _, e := range res.Edges {
				from, _ := res.Node(e.From)
				to, _ := res.Node(e.To)
				if from.Element != to.Element {
					return false
				}
			}
			return len(res.Bridges) == crossing && len(res.Synthesized()) == 2*crossing
		},
		gen.IntRange(1, 25), gen.Int64(),
	))

	properties.Property("ids are dense per scope", prop.ForAll(
		func(n int, seed int64) bool {
			res, err := c.Compile(ctx, randomUsecase(n, seed))
			if err != nil {
				return false
			}
			byScope := map[alloc.Scope][]int{}
			var globals []int
			for _, node := range res.Nodes {
				byScope[node.Instance.Scope] = append(byScope[node.Instance.Scope], node.Instance.ID)
				if node.Instance.HasGlobal {
					globals = append(globals, node.Instance.Global)
				}
			}
			byScope[alloc.Scope{Category: "global"}] = globals
			for _, ids := range byScope {
				slices.Sort(ids)
				for i, id := range ids {
					if id != i {
						return false
					}
				}
			}
			return true
		},
		gen.IntRange(1, 25), gen.Int64(),
	))

	properties.Property("order is topological over the bridged graph", prop.ForAll(
		func(n int, seed int64) bool {
			res, err := c.Compile(ctx, randomUsecase(n, seed))
			if err != nil || len(res.Plan.Init) != len(res.Nodes) {
				return false
			}
			for _, e := range res.Edges {
				if res.Plan.Position(e.From) >= res.Plan.Position(e.To) {
					return false
				}
			}
			return true
		},
		gen.IntRange(1, 25), gen.Int64(),
	))

	properties.Property("compiling twice is deterministic", prop.ForAll(
		func(n int, seed int64) bool {
			ds := randomUsecase(n, seed)
			r1, err1 := c.Compile(ctx, ds)
			r2, err2 := c.Compile(ctx, ds)
			return err1 == nil && err2 == nil &&
				cmp.Equal(r1, r2, cmp.AllowUnexported(Result{}, schedule.Plan{}))
		},
		gen.IntRange(1, 25), gen.Int64(),
	))

	properties.Property("exactly-one input is satisfied or rejected", prop.ForAll(
		func(producers int, element int) bool {
			ds := []config.Directive{config.Create("t", "Transform"), config.SetElement("t", fmt.Sprintf("E%d", element))}
			for i := range producers {
				name := fmt.Sprintf("s%d", i)
				ds = append(ds, config.Create(name, "Source"), config.Connect(name, "t"))
			}
			res, err := c.Compile(ctx, ds)
			if producers != 1 {
				return errors.Is(err, dag.ErrSchemaViolation)
			}
			if err != nil {
				return false
			}
			node, _ := res.Node("t")
			return len(node.Inputs) == 1
		},
		gen.IntRange(0, 4), gen.IntRange(0, 2),
	))

	properties.TestingRun(t)
}
