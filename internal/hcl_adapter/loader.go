// Package hcl_adapter is the HCL front end: it decodes `usecase` and `kind`
// blocks into the format-agnostic config.Model.
package hcl_adapter

import (
	"context"
	"fmt"
	"os"

	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/vk/usecasegen/internal/config"
	"github.com/vk/usecasegen/internal/ctxlog"
	"github.com/vk/usecasegen/internal/fsutil"
)

// Loader is the HCL-specific implementation of the config.Loader interface.
type Loader struct{}

// NewLoader creates a new HCL use-case loader.
func NewLoader() *Loader {
	return &Loader{}
}

// Load parses every .hcl file in paths (directories are searched
// recursively) and merges them into one model.
func (l *Loader) Load(ctx context.Context, paths ...string) (*config.Model, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("HCL loader started.", "path_count", len(paths))

	files, err := findAllHCLFiles(paths)
	if err != nil {
		return nil, err
	}
	logger.Debug("Discovered HCL files.", "count", len(files))

	parser := hclparse.NewParser()
	models := make([]*config.Model, 0, len(files))
	for _, file := range files {
		hclFile, diags := parser.ParseHCLFile(file)
		if diags.HasErrors() {
			return nil, fmt.Errorf("failed to parse HCL file %s: %w", file, diags)
		}

		var root fileRoot
		diags = gohcl.DecodeBody(hclFile.Body, nil, &root)
		if diags.HasErrors() {
			return nil, fmt.Errorf("failed to decode HCL file %s: %w", file, diags)
		}
		if len(root.Usecases) > 1 {
			return nil, fmt.Errorf("%s: at most one usecase block per file, found %d", file, len(root.Usecases))
		}

		m := &config.Model{}
		for _, k := range root.Kinds {
			m.Kinds = append(m.Kinds, translateKind(k))
		}
		if len(root.Usecases) == 1 {
			if err := translateUsecase(ctx, root.Usecases[0], m); err != nil {
				return nil, err
			}
		}
		models = append(models, m)
	}

	model, err := config.Merge(models...)
	if err != nil {
		return nil, err
	}
	logger.Debug("HCL loading complete.", "usecase", model.Usecase, "kinds", len(model.Kinds), "directives", len(model.Directives))
	return model, nil
}

// findAllHCLFiles expands directories and de-duplicates paths, keeping the
// given order.
func findAllHCLFiles(paths []string) ([]string, error) {
	var all []string
	seen := make(map[string]struct{})
	add := func(p string) {
		if _, ok := seen[p]; !ok {
			seen[p] = struct{}{}
			all = append(all, p)
		}
	}

	for _, path := range paths {
		info, err := os.Stat(path)
		if err != nil {
			return nil, fmt.Errorf("error accessing path %s: %w", path, err)
		}
		if !info.IsDir() {
			add(path)
			continue
		}
		found, err := fsutil.FindFiles(path, ".hcl")
		if err != nil {
			return nil, err
		}
		for _, f := range found {
			add(f)
		}
	}
	return all, nil
}
