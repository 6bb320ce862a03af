// Package app implements the application layer for mason.
package app

import (
	"context"
	"fmt"
	"runtime"
	"strings"

	"go.trai.ch/mason/internal/core/domain"
	"go.trai.ch/mason/internal/core/ports"
	"go.trai.ch/mason/internal/engine/actiongraph"
	"go.trai.ch/zerr"
	"golang.org/x/sync/errgroup"
)

// App represents the main application logic.
type App struct {
	loader ports.GraphLoader
	cache  *actiongraph.Cache
	logger ports.Logger
}

// New creates a new App instance.
func New(loader ports.GraphLoader, cache *actiongraph.Cache, logger ports.Logger) *App {
	return &App{
		loader: loader,
		cache:  cache,
		logger: logger,
	}
}

// PlanOptions configuration for the Plan method.
type PlanOptions struct {
	// Quiet suppresses the per-rule plan listing.
	Quiet bool
}

// Plan loads the target declarations, obtains the action graph for this
// generation (reusing the previous one where sound), realizes the requested
// targets, and reports the resulting rules.
func (a *App) Plan(ctx context.Context, targetNames []string, opts PlanOptions) error {
	if len(targetNames) == 0 {
		return domain.ErrNoTargetsSpecified
	}

	graph, err := a.loader.Load(".")
	if err != nil {
		return zerr.Wrap(err, "failed to load target declarations")
	}

	targets := make([]domain.TargetID, 0, len(targetNames))
	for _, name := range targetNames {
		id, err := domain.ParseTargetID(name)
		if err != nil {
			return err
		}
		if _, ok := graph.Node(id); !ok {
			return zerr.With(domain.ErrTargetNotFound, "target", id.String())
		}
		targets = append(targets, id)
	}

	index, err := a.cache.ActionGraph(ctx, graph)
	if err != nil {
		return err
	}

	if err := a.realize(ctx, index, targets); err != nil {
		return err
	}

	if err := a.resolveRuntimeDeps(ctx, index); err != nil {
		return err
	}

	return a.report(index, opts)
}

// realize constructs (or surfaces reused) rules for the requested targets.
func (a *App) realize(ctx context.Context, index *actiongraph.Index, targets []domain.TargetID) error {
	eg, ctx := errgroup.WithContext(ctx)
	eg.SetLimit(runtime.NumCPU())
	for _, id := range targets {
		eg.Go(func() error {
			_, err := index.Require(ctx, id)
			return err
		})
	}
	return eg.Wait()
}

// resolveRuntimeDeps re-resolves runtime dependencies against the current
// index. Runtime deps are never cached across generations, and never within
// one: the provider is queried fresh on every generation, reused rule or not.
func (a *App) resolveRuntimeDeps(ctx context.Context, index *actiongraph.Index) error {
	rules, err := index.Rules()
	if err != nil {
		return err
	}

	for _, rule := range rules {
		provider, ok := rule.(domain.RuntimeDepsProvider)
		if !ok {
			continue
		}
		deps, err := provider.RuntimeDeps(ctx, index)
		if err != nil {
			return zerr.With(zerr.Wrap(err, "failed to resolve runtime deps"), "target", rule.ID().String())
		}
		for _, dep := range deps {
			if _, err := index.Require(ctx, dep); err != nil {
				return zerr.With(zerr.Wrap(err, "runtime dep not realized"), "target", rule.ID().String())
			}
		}
	}
	return nil
}

func (a *App) report(index *actiongraph.Index, opts PlanOptions) error {
	rules, err := index.Rules()
	if err != nil {
		return err
	}

	if !opts.Quiet {
		for _, rule := range rules {
			line := rule.ID().String()
			if outs := rule.Outputs(); len(outs) > 0 {
				line += " -> " + strings.Join(outs, ", ")
			}
			a.logger.Info(line)
		}
	}

	a.logger.Info(fmt.Sprintf(
		"planned %d rules (%d reused from generation %d)",
		len(rules), index.ReusedCount(), index.Generation()-1,
	))
	return nil
}
