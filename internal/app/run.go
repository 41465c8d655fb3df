package app

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/vk/usecasegen/internal/compiler"
	"github.com/vk/usecasegen/internal/ctxlog"
	"github.com/vk/usecasegen/internal/lifecycle"
	"github.com/vk/usecasegen/internal/render"
	"golang.org/x/sync/errgroup"
)

// output is one file the app may write next to the others.
type output struct {
	suffix  string
	enabled bool
	emitter func(w io.Writer) lifecycle.Emitter
}

// Run compiles the loaded use case and writes the selected outputs
// concurrently. Nothing is written unless compilation succeeds.
func (a *App) Run(ctx context.Context) error {
	ctx = ctxlog.With(ctxlog.WithLogger(ctx, a.logger), "usecase", a.model.Usecase)
	logger := ctxlog.FromContext(ctx)
	logger.Debug("App.Run method started.")

	res, err := compiler.New(a.catalog).Compile(ctx, a.model.Directives)
	if err != nil {
		return fmt.Errorf("failed to compile use case %q: %w", a.model.Usecase, err)
	}
	logger.Info("Use case compiled.",
		"nodes", len(res.Nodes),
		"edges", len(res.Edges),
		"bridges", len(res.Bridges))
	for _, sc := range res.Scopes {
		logger.Info("Allocation scope.", "category", sc.Scope.Category, "element", sc.Scope.Element, "count", sc.Count)
	}

	script := lifecycle.Build(res, lifecycle.Options{
		Usecase:     a.model.Usecase,
		SettleDelay: a.settleDelay(),
	})
	logger.Info("Lifecycle script built.",
		"fingerprint", script.Fingerprint,
		"start_groups", len(script.Start),
		"connections", len(script.Connections))

	outputs := []output{
		{".script.yaml", a.config.WriteScript, func(w io.Writer) lifecycle.Emitter { return render.ScriptYAML{W: w} }},
		{".dot", a.config.WriteDOT, func(w io.Writer) lifecycle.Emitter { return render.DOT{W: w} }},
		{".html", a.config.WriteHTML, func(w io.Writer) lifecycle.Emitter { return render.HTML{W: w} }},
	}
	if err := os.MkdirAll(a.config.OutDir, 0o755); err != nil {
		return fmt.Errorf("failed to create output directory %s: %w", a.config.OutDir, err)
	}
	g, gctx := errgroup.WithContext(ctx)
	for _, o := range outputs {
		if !o.enabled {
			continue
		}
		g.Go(func() error { return a.write(gctx, script, o) })
	}
	if err := g.Wait(); err != nil {
		return err
	}

	if err := script.WriteSummary(a.outW); err != nil {
		return fmt.Errorf("failed to write summary: %w", err)
	}
	logger.Debug("App.Run method finished.")
	return nil
}

// settleDelay resolves the flag, then the file, then the default.
func (a *App) settleDelay() time.Duration {
	switch {
	case a.config.SettleDelaySet:
		return a.config.SettleDelay
	case a.model.SettleDelay != nil:
		return *a.model.SettleDelay
	default:
		return lifecycle.DefaultSettleDelay
	}
}

func (a *App) write(ctx context.Context, script *lifecycle.Script, o output) (err error) {
	logger := ctxlog.FromContext(ctx)
	path := filepath.Join(a.config.OutDir, script.Usecase+o.suffix)

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("failed to close %s: %w", path, cerr)
		}
	}()

	if err := o.emitter(f).Emit(ctx, script); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	logger.Info("Output written.", "path", path)
	return nil
}
