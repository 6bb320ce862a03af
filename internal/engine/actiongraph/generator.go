package actiongraph

import (
	"context"
	"fmt"
	"runtime"

	"go.trai.ch/mason/internal/core/domain"
	"go.trai.ch/mason/internal/core/ports"
	"golang.org/x/sync/errgroup"
)

// Generator produces the rule index for a new generation, seeding it with
// every rule from the previous generation that is still sound to reuse.
//
// Soundness: a rule is never reused when any node in its transitive
// dependency closure changed value or is uncacheable. Efficiency: a rule is
// never rebuilt when that closure is unchanged. Both are decided in one
// bottom-up pass over the target graph.
type Generator struct {
	factories   ports.FactoryRegistry
	logger      ports.Logger
	telemetry   ports.Telemetry
	parallelism int
}

// NewGenerator creates a Generator.
func NewGenerator(factories ports.FactoryRegistry, logger ports.Logger, telemetry ports.Telemetry) *Generator {
	return &Generator{
		factories:   factories,
		logger:      logger,
		telemetry:   telemetry,
		parallelism: runtime.NumCPU(),
	}
}

// WithParallelism overrides the number of concurrent workers per level batch.
func (g *Generator) WithParallelism(n int) *Generator {
	if n > 0 {
		g.parallelism = n
	}
	return g
}

// Populate returns a new index for the target graph, pre-populated with the
// subset of the previous generation's rules that is safe to reuse. The
// previous index is retired before returning; downstream consumers treat the
// result exactly as a freshly constructed index.
//
// The generator performs no I/O and has no recoverable failure mode of its
// own; errors indicate precondition violations or interruption.
func (g *Generator) Populate(ctx context.Context, graph *domain.TargetGraph, previous *Index) (*Index, error) {
	generation := uint64(1)
	if previous != nil {
		generation = previous.Generation() + 1
	}
	next := NewIndex(graph, g.factories, generation)

	if previous == nil {
		g.logger.Debug("no previous generation, starting with an empty action graph")
		return next, nil
	}

	ctx, vertex := g.telemetry.Record(ctx, fmt.Sprintf("action graph generation %d", generation))
	err := g.populateFromPrevious(ctx, graph, previous, next)
	vertex.Complete(err)
	if err != nil {
		return nil, err
	}

	// Single visible transition: from here on, every access to the previous
	// generation fails loudly.
	previous.Retire()

	g.logger.Info(fmt.Sprintf(
		"action graph generation %d: reused %d rules across %d targets",
		generation, next.ReusedCount(), graph.Len(),
	))
	return next, nil
}

func (g *Generator) populateFromPrevious(
	ctx context.Context,
	graph *domain.TargetGraph,
	previous, next *Index,
) error {
	dirty, err := g.invalidate(ctx, graph, previous)
	if err != nil {
		return err
	}
	return g.copyCleanGroups(ctx, graph, previous, next, dirty)
}

// invalidate runs the bottom-up clean/dirty pass. Levels are processed in
// topological batches; nodes within a batch only read decisions written by
// earlier batches, so they can be decided concurrently.
func (g *Generator) invalidate(
	ctx context.Context,
	graph *domain.TargetGraph,
	previous *Index,
) (map[domain.TargetID]bool, error) {
	prevGraph := previous.Graph()

	// Decisions land in per-node slots; identities within a level are
	// disjoint, so concurrent writers never share a slot.
	slot := make(map[domain.TargetID]*bool, graph.Len())
	for node := range graph.Nodes() {
		d := new(bool)
		slot[node.ID()] = d
	}

	for _, level := range graph.Levels() {
		eg, _ := errgroup.WithContext(ctx)
		eg.SetLimit(g.parallelism)
		for _, id := range level {
			eg.Go(func() error {
				node, _ := graph.Node(id)
				*slot[id] = g.isDirty(node, prevGraph, previous, slot)
				return nil
			})
		}
		if err := eg.Wait(); err != nil {
			return nil, err
		}
		if err := ctx.Err(); err != nil {
			return nil, err
		}
	}

	dirty := make(map[domain.TargetID]bool, len(slot))
	for id, d := range slot {
		dirty[id] = *d
	}
	return dirty, nil
}

// isDirty decides one node, reading only decisions from earlier levels.
func (g *Generator) isDirty(
	node domain.TargetNode,
	prevGraph *domain.TargetGraph,
	previous *Index,
	slot map[domain.TargetID]*bool,
) bool {
	id := node.ID()

	// A node with no previously constructed rule has nothing to reuse; a
	// new target is dirty, never an error.
	if _, err := previous.Get(id); err != nil {
		return true
	}

	// Uncacheable nodes are rebuilt unconditionally every generation.
	if !node.Cacheable() {
		return true
	}

	// Value inequality against the node that built the cached rule.
	prevNode, ok := prevGraph.Node(id)
	if !ok || !node.Equal(prevNode) {
		return true
	}

	// Mandatory upward invalidation: any dirty dependency, in any of the
	// three classes, dirties this node regardless of its own value.
	for _, dep := range node.AllDeps() {
		if d, ok := slot[dep]; ok && *d {
			return true
		}
	}
	return false
}

// copyCleanGroups copies reusable rules into the new index, one base
// identity group at a time. A group is adopted only when every target node
// sharing the base identity is clean, and carries every rule the group's
// construction caused to exist, including flavor-derived children with no
// target node of their own.
func (g *Generator) copyCleanGroups(
	ctx context.Context,
	graph *domain.TargetGraph,
	previous, next *Index,
	dirty map[domain.TargetID]bool,
) error {
	groupClean := make(map[domain.TargetID]bool)
	for node := range graph.Nodes() {
		base := node.ID().Base()
		clean, seen := groupClean[base]
		if !seen {
			clean = true
		}
		groupClean[base] = clean && !dirty[node.ID()]
	}

	bases := make([]domain.TargetID, 0, len(groupClean))
	for base, clean := range groupClean {
		if clean {
			bases = append(bases, base)
		}
	}

	// Groups touch disjoint identities, so adoption parallelizes cleanly.
	eg, ctx := errgroup.WithContext(ctx)
	eg.SetLimit(g.parallelism)
	for _, base := range bases {
		eg.Go(func() error {
			rules := previous.groupRules(base)
			if len(rules) == 0 {
				return nil
			}
			if err := next.adoptGroup(rules); err != nil {
				return err
			}
			_, vertex := g.telemetry.Record(ctx, base.String())
			vertex.Cached()
			vertex.Complete(nil)
			return nil
		})
	}
	return eg.Wait()
}
