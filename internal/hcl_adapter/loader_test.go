package hcl_adapter

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vk/usecasegen/internal/config"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
	require.NoError(t, os.WriteFile(p, []byte(content), 0o644))
	return p
}

func TestLoadUsecase(t *testing.T) {
	// Arrange
	dir := t.TempDir()
	path := writeFile(t, dir, "surround.hcl", `
usecase "surround_view" {
  settle_delay_ms = 250

  node "Capture" "capture" {}
  node "Alg_EdgeDetect" "edges" { element = "EVE1" }
  node "Display" "display" {}

  connect { path = ["capture", "edges", "display"] }
  connect {
    from = "capture"
    to   = "display"
  }
}
`)

	// Act
	m, err := NewLoader().Load(context.Background(), path)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, "surround_view", m.Usecase)
	require.NotNil(t, m.SettleDelay)
	assert.Equal(t, 250*time.Millisecond, *m.SettleDelay)

	want := []config.Directive{
		{Op: config.OpCreate, Name: "capture", Kind: "Capture", Pos: path + ":5"},
		{Op: config.OpCreate, Name: "edges", Kind: "Alg_EdgeDetect", Pos: path + ":6"},
		{Op: config.OpSetElement, Name: "edges", Element: "EVE1", Pos: path + ":6"},
		{Op: config.OpCreate, Name: "display", Kind: "Display", Pos: path + ":7"},
		{Op: config.OpConnect, Producer: "capture", Consumer: "edges", Pos: path + ":9"},
		{Op: config.OpConnect, Producer: "edges", Consumer: "display", Pos: path + ":9"},
		{Op: config.OpConnect, Producer: "capture", Consumer: "display", Pos: path + ":10"},
	}
	if diff := cmp.Diff(want, m.Directives); diff != "" {
		t.Errorf("directives mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadKinds(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "kinds/filter.hcl", `
kind "Alg_MyFilter" {
  category         = "Alg"
  input            = "exactly-one"
  output           = "exactly-one"
  elements         = ["DSP1", "DSP2"]
  default          = "DSP1"
  ceiling          = 2
  symbol           = "ALG"
  element_prefixed = true
}
`)
	writeFile(t, dir, "usecase.hcl", `
usecase "demo" {
  node "Alg_MyFilter" "f" {}
}
`)

	m, err := NewLoader().Load(context.Background(), dir)
	require.NoError(t, err)
	assert.Equal(t, "demo", m.Usecase)
	assert.Nil(t, m.SettleDelay)
	require.Len(t, m.Kinds, 1)

	k := m.Kinds[0]
	k.Pos = ""
	assert.Equal(t, config.KindSpec{
		Name: "Alg_MyFilter", Category: "Alg", Input: "exactly-one", Output: "exactly-one",
		Elements: []string{"DSP1", "DSP2"}, Default: "DSP1", Ceiling: 2, Symbol: "ALG", ElementPrefixed: true,
	}, k)

	kind, err := m.Kinds[0].ToKind()
	require.NoError(t, err)
	assert.Equal(t, "Alg", kind.Category)
}

func TestLoadErrors(t *testing.T) {
	testCases := []struct {
		name    string
		files   map[string]string
		wantErr string
	}{
		{
			name:    "syntax error",
			files:   map[string]string{"a.hcl": `usecase "x" {`},
			wantErr: "failed to parse HCL file",
		},
		{
			name:    "unknown attribute",
			files:   map[string]string{"a.hcl": `usecase "x" { colour = "red" }`},
			wantErr: "failed to decode HCL file",
		},
		{
			name:    "two usecases in one file",
			files:   map[string]string{"a.hcl": "usecase \"x\" {}\nusecase \"y\" {}\n"},
			wantErr: "at most one usecase block per file, found 2",
		},
		{
			name: "usecases across files",
			files: map[string]string{
				"a.hcl": `usecase "x" {}`,
				"b.hcl": `usecase "y" {}`,
			},
			wantErr: `multiple use cases defined: "x" and "y"`,
		},
		{
			name:    "path and pair together",
			files:   map[string]string{"a.hcl": "usecase \"x\" {\n  connect {\n    path = [\"a\", \"b\"]\n    from = \"a\"\n  }\n}\n"},
			wantErr: "connect takes either path or from/to, not both",
		},
		{
			name:    "half a pair",
			files:   map[string]string{"a.hcl": "usecase \"x\" {\n  connect { from = \"a\" }\n}\n"},
			wantErr: "connect needs both from and to, or a path",
		},
		{
			name:    "short path",
			files:   map[string]string{"a.hcl": "usecase \"x\" {\n  connect { path = [\"a\"] }\n}\n"},
			wantErr: "connect path needs at least two nodes, got 1",
		},
		{
			name:    "path of numbers and lists",
			files:   map[string]string{"a.hcl": "usecase \"x\" {\n  connect { path = [[\"a\"], \"b\"] }\n}\n"},
			wantErr: "connect path",
		},
		{
			name:    "negative settle delay",
			files:   map[string]string{"a.hcl": "usecase \"x\" {\n  settle_delay_ms = -5\n}\n"},
			wantErr: "settle_delay_ms must not be negative, got -5",
		},
		{
			name:    "fractional settle delay",
			files:   map[string]string{"a.hcl": "usecase \"x\" {\n  settle_delay_ms = 1.5\n}\n"},
			wantErr: "settle_delay_ms",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			dir := t.TempDir()
			for name, content := range tc.files {
				writeFile(t, dir, name, content)
			}
			_, err := NewLoader().Load(context.Background(), dir)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.wantErr)
		})
	}
}

func TestLoadMissingPath(t *testing.T) {
	_, err := NewLoader().Load(context.Background(), filepath.Join(t.TempDir(), "missing.hcl"))
	assert.ErrorContains(t, err, "error accessing path")
}

func TestFindAllHCLFilesDeduplicates(t *testing.T) {
	dir := t.TempDir()
	a := writeFile(t, dir, "a.hcl", "")
	writeFile(t, dir, "notes.txt", "")

	files, err := findAllHCLFiles([]string{a, dir})
	require.NoError(t, err)
	assert.Equal(t, []string{a}, files)
}
