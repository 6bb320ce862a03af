package actiongraph

import (
	"context"
	"fmt"
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"
	"go.trai.ch/mason/internal/core/domain"
	"go.trai.ch/mason/internal/core/ports"
)

// Generation pairs a populated index with the target graph it was built for.
type Generation struct {
	Graph *domain.TargetGraph
	Index *Index
}

// Cache keeps a bounded set of recent generations keyed by target-graph
// fingerprint. A build whose target graph is value-identical to a cached one
// reuses that generation's index outright; otherwise the most recent
// generation seeds an incremental populate and is retired by it.
type Cache struct {
	generator *Generator
	logger    ports.Logger

	mu      sync.Mutex
	entries *lru.Cache[uint64, *Generation]
	recent  *Generation
}

// NewCache creates a Cache holding at most maxEntries generations. Evicted
// generations are retired so stale references fail loudly.
func NewCache(generator *Generator, logger ports.Logger, maxEntries int) (*Cache, error) {
	entries, err := lru.NewWithEvict(maxEntries, func(_ uint64, gen *Generation) {
		gen.Index.Retire()
	})
	if err != nil {
		return nil, err
	}
	return &Cache{
		generator: generator,
		logger:    logger,
		entries:   entries,
	}, nil
}

// ActionGraph returns the rule index for the target graph, reusing or
// incrementally regenerating a previous generation when one exists.
func (c *Cache) ActionGraph(ctx context.Context, graph *domain.TargetGraph) (*Index, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	fingerprint := graph.Fingerprint()
	if gen, ok := c.entries.Get(fingerprint); ok && !gen.Index.Retired() {
		c.logger.Debug(fmt.Sprintf("action graph cache hit for generation %d", gen.Index.Generation()))
		c.recent = gen
		return gen.Index, nil
	}

	var previous *Index
	if c.recent != nil && !c.recent.Index.Retired() {
		previous = c.recent.Index
	}

	next, err := c.generator.Populate(ctx, graph, previous)
	if err != nil {
		return nil, err
	}

	if previous != nil {
		// Populate retired the previous index; drop it so the slot is not
		// served as a future exact hit.
		c.entries.Remove(previous.Graph().Fingerprint())
	}

	gen := &Generation{Graph: graph, Index: next}
	c.entries.Add(fingerprint, gen)
	c.recent = gen
	return next, nil
}

// Len returns the number of live cached generations.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.entries.Len()
}
