package build

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/vk/passgrid/internal/ctxlog"
	"github.com/vk/passgrid/internal/plan"
)

// Run executes every pass of p against env in order.
func Run(ctx context.Context, env *Environment, p *plan.ExecutionPlan) error {
	logger := ctxlog.FromContext(ctx)
	logger.Info("Starting build.", "passes", p.PassCount())
	start := time.Now()

	if err := runPhases(ctx, env, p); err != nil {
		if closeErrs := env.closeAll(ctx); len(closeErrs) > 0 {
			err = errors.Join(append([]error{err}, closeErrs...)...)
		}
		logger.Error("Build failed.", "error", err)
		return err
	}

	if open := env.Active(); len(open) > 0 {
		logger.Warn("Extensions still active after the last phase, closing them.", "extensions", open)
		if closeErrs := env.closeAll(ctx); len(closeErrs) > 0 {
			return errors.Join(closeErrs...)
		}
	}
	logger.Info("Build finished.", "duration", time.Since(start))
	return nil
}

func runPhases(ctx context.Context, env *Environment, p *plan.ExecutionPlan) error {
	for _, entry := range p.Phases() {
		phaseCtx := ctxlog.With(ctx, "phase", entry.Phase().String())
		ctxlog.FromContext(phaseCtx).Debug("Entering phase.", "passes", entry.Len())

		for _, pass := range entry.Passes() {
			if err := ctx.Err(); err != nil {
				return fmt.Errorf("build cancelled before pass %s: %w", pass.Key(), err)
			}
			if err := runPass(ctxlog.With(phaseCtx, "pass", pass.Key().String()), env, pass); err != nil {
				return err
			}
		}
	}
	return nil
}

func runPass(ctx context.Context, env *Environment, pass *plan.ConcretePass) error {
	logger := ctxlog.FromContext(ctx)

	for _, id := range pass.Deactivate() {
		if err := env.deactivate(ctx, id); err != nil {
			return fmt.Errorf("pass %s: %w", pass.Key(), err)
		}
	}
	for _, id := range pass.Activate() {
		if err := env.activate(ctx, id); err != nil {
			return fmt.Errorf("pass %s: %w", pass.Key(), err)
		}
	}

	logger.Debug("Executing pass.", "plugin", pass.PluginName())
	if err := pass.Execute(ctx, env); err != nil {
		return fmt.Errorf("pass %s failed: %w", pass.Key(), err)
	}
	return nil
}
