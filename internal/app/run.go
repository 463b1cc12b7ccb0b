package app

import (
	"context"
	"fmt"

	"github.com/vk/passgrid/internal/build"
	"github.com/vk/passgrid/internal/ctxlog"
	"github.com/vk/passgrid/internal/manifest"
	"github.com/vk/passgrid/internal/render"
	"github.com/vk/passgrid/internal/resolver"
)

// Resolve loads the configured manifests and resolves them.
func (a *App) Resolve(ctx context.Context) (*resolver.Resolver, *manifest.Result, error) {
	ctx = ctxlog.WithLogger(ctx, a.logger)

	res, err := manifest.NewLoader(a.handlers).Load(ctx, a.config.PluginPaths...)
	if err != nil {
		return nil, nil, err
	}
	if len(res.Plugins) == 0 {
		a.logger.Warn("No plugins found in manifests.", "paths", a.config.PluginPaths)
	}

	r, err := resolver.New(res.PluginList(),
		resolver.WithLogger(a.logger),
		resolver.WithCatalog(res.Catalog),
	)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to resolve passes: %w", err)
	}
	a.logger.Info("Execution plan resolved.", "plugins", len(res.Plugins), "passes", r.Plan().PassCount())
	return r, res, nil
}

// Run resolves the plan, prints it and runs it if configured to.
func (a *App) Run(ctx context.Context) error {
	ctx = ctxlog.WithLogger(ctx, a.logger)
	a.logger.Debug("App.Run method started.")

	r, res, err := a.Resolve(ctx)
	if err != nil {
		return err
	}

	switch {
	case a.config.DumpGraph:
		err = render.DOT(a.outW, r.Graphs()...)
	case a.config.Format == FormatYAML:
		err = render.YAML(a.outW, r.Plan())
	default:
		err = render.Text(a.outW, r.Plan())
	}
	if err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}

	if a.config.Execute {
		if err := build.Run(ctx, build.NewEnvironment(res.Catalog), r.Plan()); err != nil {
			return fmt.Errorf("execution failed: %w", err)
		}
	}

	a.logger.Debug("App.Run method finished.")
	return nil
}
