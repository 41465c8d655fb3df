package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/vk/usecasegen/internal/catalog"
	"github.com/vk/usecasegen/internal/config"
	"github.com/vk/usecasegen/internal/ctxlog"
	"github.com/vk/usecasegen/internal/hcl_adapter"
	"github.com/vk/usecasegen/internal/yaml_adapter"
)

// App encapsulates the application's dependencies, configuration, and lifecycle.
type App struct {
	outW    io.Writer
	logger  *slog.Logger
	config  *Config
	model   *config.Model
	catalog *catalog.Catalog
}

// DefaultLoader dispatches .hcl files to the HCL front end and .yaml/.yml
// files to the YAML one.
func DefaultLoader() config.Loader {
	yamlLoader := yaml_adapter.NewLoader()
	return config.NewExtLoader(map[string]config.Loader{
		".hcl":  hcl_adapter.NewLoader(),
		".yaml": yamlLoader,
		".yml":  yamlLoader,
	})
}

// NewApp loads the use case and the kind catalog. The returned App owns an
// isolated logger writing to outW.
func NewApp(outW io.Writer, cfg *Config, loader config.Loader) (*App, error) {
	logger := newLogger(cfg.LogLevel, cfg.LogFormat, outW)
	ctx := ctxlog.WithLogger(context.Background(), logger)
	logger.Debug("Logger configured successfully.")

	paths := []string{cfg.UsecasePath}
	if cfg.KindsPath != "" {
		paths = append(paths, cfg.KindsPath)
	}

	model, err := loader.Load(ctx, paths...)
	if err != nil {
		return nil, fmt.Errorf("failed to load use case: %w", err)
	}
	if model.Usecase == "" {
		return nil, fmt.Errorf("no usecase defined in %s", cfg.UsecasePath)
	}
	logger.Debug("Use case loaded.", "usecase", model.Usecase, "directives", len(model.Directives), "kinds", len(model.Kinds))

	cat, err := model.Catalog(catalog.Builtin())
	if err != nil {
		return nil, fmt.Errorf("failed to build kind catalog: %w", err)
	}
	logger.Debug("Kind catalog ready.", "kinds", cat.Len())

	return &App{
		outW:    outW,
		logger:  logger,
		config:  cfg,
		model:   model,
		catalog: cat,
	}, nil
}

// Catalog returns the kind catalog the use case compiles against.
func (a *App) Catalog() *catalog.Catalog {
	return a.catalog
}

// Usecase returns the loaded use-case name.
func (a *App) Usecase() string {
	return a.model.Usecase
}
