// Package testutil holds helpers shared by the app, CLI and entrypoint tests.
package testutil

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/vk/usecasegen/internal/app"
)

// SafeBuffer is a thread-safe buffer for capturing log output in tests.
type SafeBuffer struct {
	b  bytes.Buffer
	mu sync.Mutex
}

// Write implements the io.Writer interface for SafeBuffer.
func (b *SafeBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.b.Write(p)
}

// String implements the fmt.Stringer interface for SafeBuffer.
func (b *SafeBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.b.String()
}

// WriteFiles writes files (relative path -> content) under a fresh temp
// directory and returns its root.
func WriteFiles(t *testing.T, files map[string]string) string {
	t.Helper()
	root := t.TempDir()
	for name, content := range files {
		p := filepath.Join(root, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
		require.NoError(t, os.WriteFile(p, []byte(content), 0o644))
	}
	return root
}

// HarnessResult holds the outcome of one app run.
type HarnessResult struct {
	Output string
	Err    error
	OutDir string
	App    *app.App
}

// ReadOutput returns the content of a file the run wrote, or "" if absent.
func (r *HarnessResult) ReadOutput(t *testing.T, name string) string {
	t.Helper()
	b, err := os.ReadFile(filepath.Join(r.OutDir, name))
	if os.IsNotExist(err) {
		return ""
	}
	require.NoError(t, err)
	return string(b)
}

// RunUsecase writes files to a temp directory and runs the app over it.
// cfg.UsecasePath and cfg.OutDir default to that directory and a sibling
// "out" directory. A relative cfg.KindsPath is resolved against the root.
func RunUsecase(t *testing.T, files map[string]string, cfg app.Config) *HarnessResult {
	t.Helper()
	return RunUsecaseWithContext(context.Background(), t, files, cfg)
}

// RunUsecaseWithContext is RunUsecase with a caller-provided context.
func RunUsecaseWithContext(ctx context.Context, t *testing.T, files map[string]string, cfg app.Config) *HarnessResult {
	t.Helper()

	root := WriteFiles(t, files)
	if cfg.UsecasePath == "" {
		cfg.UsecasePath = filepath.Join(root, "usecase")
	} else if !filepath.IsAbs(cfg.UsecasePath) {
		cfg.UsecasePath = filepath.Join(root, cfg.UsecasePath)
	}
	if cfg.KindsPath != "" && !filepath.IsAbs(cfg.KindsPath) {
		cfg.KindsPath = filepath.Join(root, cfg.KindsPath)
	}
	if cfg.OutDir == "" {
		cfg.OutDir = filepath.Join(root, "out")
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = "debug"
	}

	validated, err := app.NewConfig(cfg)
	require.NoError(t, err)

	buf := &SafeBuffer{}
	result := &HarnessResult{OutDir: validated.OutDir}

	a, err := app.NewApp(buf, validated, app.DefaultLoader())
	if err != nil {
		result.Err = err
		result.Output = buf.String()
		return result
	}
	result.App = a
	result.Err = a.Run(ctx)
	result.Output = buf.String()
	return result
}
