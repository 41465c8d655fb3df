package config

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/vk/usecasegen/internal/ctxlog"
	"github.com/vk/usecasegen/internal/fsutil"
)

// Loader is the interface for a format-specific use-case loader.
type Loader interface {
	// Load reads the given files and translates them into one Model.
	Load(ctx context.Context, paths ...string) (*Model, error)
}

// ExtLoader dispatches files to format loaders by extension. Directory
// arguments are searched recursively for every registered extension.
type ExtLoader struct {
	byExt map[string]Loader
}

// NewExtLoader returns a loader for the given extension table, e.g.
// {".hcl": hclLoader, ".yaml": yamlLoader}.
func NewExtLoader(byExt map[string]Loader) *ExtLoader {
	return &ExtLoader{byExt: byExt}
}

// Load expands paths, loads each format's files with its loader and merges
// the results.
func (l *ExtLoader) Load(ctx context.Context, paths ...string) (*Model, error) {
	logger := ctxlog.FromContext(ctx)

	grouped := make(map[string][]string)
	for _, p := range paths {
		info, err := os.Stat(p)
		if err != nil {
			return nil, fmt.Errorf("failed to stat path %s: %w", p, err)
		}
		if !info.IsDir() {
			ext := filepath.Ext(p)
			if _, ok := l.byExt[ext]; !ok {
				return nil, fmt.Errorf("unsupported file type %q: %s", ext, p)
			}
			grouped[ext] = append(grouped[ext], p)
			continue
		}
		for ext := range l.byExt {
			found, err := fsutil.FindFiles(p, ext)
			if err != nil {
				return nil, fmt.Errorf("failed to search for %s files in %s: %w", ext, p, err)
			}
			grouped[ext] = append(grouped[ext], found...)
		}
	}

	exts := make([]string, 0, len(grouped))
	for ext := range grouped {
		exts = append(exts, ext)
	}
	sort.Strings(exts)

	models := make([]*Model, 0, len(exts))
	for _, ext := range exts {
		files := grouped[ext]
		if len(files) == 0 {
			continue
		}
		sort.Strings(files)
		logger.Debug("Loading use-case files.", "format", ext, "files", len(files))
		m, err := l.byExt[ext].Load(ctx, files...)
		if err != nil {
			return nil, err
		}
		models = append(models, m)
	}
	if len(models) == 0 {
		return nil, fmt.Errorf("no use-case files found in %v", paths)
	}
	return Merge(models...)
}
