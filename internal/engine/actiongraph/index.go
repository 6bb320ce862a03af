// Package actiongraph realizes the target graph into build rules and reuses
// rules across generations when their transitive inputs are unchanged.
package actiongraph

import (
	"context"
	"slices"
	"strings"
	"sync"
	"sync/atomic"

	"go.trai.ch/mason/internal/core/domain"
	"go.trai.ch/mason/internal/core/ports"
	"go.trai.ch/zerr"
)

// Index is the generation-scoped map from target identity to constructed
// rule. It exposes idempotent get-or-create semantics: concurrent first
// requires for the same identity construct exactly once, later callers
// receive the same instance.
//
// Once a newer generation supersedes it, the index is retired; any further
// access fails with ErrIndexRetired rather than returning stale rules.
type Index struct {
	generation uint64
	graph      *domain.TargetGraph
	factories  ports.FactoryRegistry

	mu      sync.Mutex
	entries map[domain.TargetID]*entry

	// groups collects, per base (unflavored) identity, every rule identity
	// registered under it, including factory-synthesized flavored children.
	// The next generation copies reusable rules group by group.
	groups map[domain.TargetID][]domain.TargetID

	reused  int
	retired atomic.Bool
}

// entry is the per-identity construction state machine: absent (no entry),
// building (done open), present (done closed, rule or err set).
type entry struct {
	rule domain.Rule
	err  error
	done chan struct{}
}

// NewIndex creates an empty index for one generation of the given graph.
func NewIndex(graph *domain.TargetGraph, factories ports.FactoryRegistry, generation uint64) *Index {
	return &Index{
		generation: generation,
		graph:      graph,
		factories:  factories,
		entries:    make(map[domain.TargetID]*entry),
		groups:     make(map[domain.TargetID][]domain.TargetID),
	}
}

// Generation returns the generation number of this index.
func (idx *Index) Generation() uint64 { return idx.generation }

// Graph returns the target graph this generation was built against. The
// next generation compares its node values against this graph.
func (idx *Index) Graph() *domain.TargetGraph { return idx.graph }

// Retire transitions the index to its terminal state. Idempotent.
func (idx *Index) Retire() { idx.retired.Store(true) }

// Retired reports whether the index has been superseded.
func (idx *Index) Retired() bool { return idx.retired.Load() }

func (idx *Index) checkLive() error {
	if idx.retired.Load() {
		return zerr.With(domain.ErrIndexRetired, "generation", idx.generation)
	}
	return nil
}

// Get is a non-creating lookup. Rules still under construction are not
// visible.
func (idx *Index) Get(id domain.TargetID) (domain.Rule, error) {
	if err := idx.checkLive(); err != nil {
		return nil, err
	}

	idx.mu.Lock()
	e, ok := idx.entries[id]
	idx.mu.Unlock()
	if !ok {
		return nil, zerr.With(domain.ErrRuleNotFound, "target", id.String())
	}

	select {
	case <-e.done:
	default:
		return nil, zerr.With(domain.ErrRuleNotFound, "target", id.String())
	}
	if e.err != nil {
		return nil, e.err
	}
	return e.rule, nil
}

// Require returns the rule for an identity, constructing it through the
// registered factory if absent.
func (idx *Index) Require(ctx context.Context, id domain.TargetID) (domain.Rule, error) {
	if err := idx.checkLive(); err != nil {
		return nil, err
	}

	if path := constructionPath(ctx); slices.Contains(path, id) {
		return nil, cycleError(path, id)
	}

	idx.mu.Lock()
	if e, ok := idx.entries[id]; ok {
		idx.mu.Unlock()
		return awaitEntry(ctx, e)
	}

	e := &entry{done: make(chan struct{})}
	idx.entries[id] = e
	idx.mu.Unlock()

	rule, err := idx.construct(withConstruction(ctx, id), id)

	idx.mu.Lock()
	e.rule, e.err = rule, err
	if err == nil {
		idx.recordGroupLocked(id)
	}
	idx.mu.Unlock()
	close(e.done)

	return rule, err
}

// construct builds the rule for an identity that has a target node.
func (idx *Index) construct(ctx context.Context, id domain.TargetID) (domain.Rule, error) {
	node, ok := idx.graph.Node(id)
	if !ok {
		return nil, zerr.With(domain.ErrTargetNotFound, "target", id.String())
	}

	factory, err := idx.factories.ForKind(node.Kind())
	if err != nil {
		return nil, err
	}

	// Factory failures propagate opaquely; the index neither interprets nor
	// retries them.
	rule, err := factory.CreateRule(ctx, node, idx)
	if err != nil {
		return nil, err
	}
	rule.BindResolver(idx)
	return rule, nil
}

// Add inserts a rule constructed directly by a factory. Idempotent when the
// same instance is already registered under the identity.
func (idx *Index) Add(rule domain.Rule) (domain.Rule, error) {
	if err := idx.checkLive(); err != nil {
		return nil, err
	}

	id := rule.ID()

	idx.mu.Lock()
	defer idx.mu.Unlock()

	if e, ok := idx.entries[id]; ok {
		select {
		case <-e.done:
		default:
			return nil, zerr.With(zerr.With(domain.ErrRuleConflict, "target", id.String()), "reason", "under construction")
		}
		if e.err == nil && e.rule == rule {
			return e.rule, nil
		}
		return nil, zerr.With(domain.ErrRuleConflict, "target", id.String())
	}

	e := &entry{rule: rule, done: make(chan struct{})}
	close(e.done)
	idx.entries[id] = e
	idx.recordGroupLocked(id)
	rule.BindResolver(idx)
	return rule, nil
}

// awaitEntry blocks until an in-flight construction finishes.
func awaitEntry(ctx context.Context, e *entry) (domain.Rule, error) {
	select {
	case <-e.done:
	case <-ctx.Done():
		return nil, ctx.Err()
	}
	if e.err != nil {
		return nil, e.err
	}
	return e.rule, nil
}

func (idx *Index) recordGroupLocked(id domain.TargetID) {
	base := id.Base()
	idx.groups[base] = append(idx.groups[base], id)
}

// groupRules returns the built rules registered under a base identity.
// Read-only once the generation is populated; the next generation reads it
// during its copy pass.
func (idx *Index) groupRules(base domain.TargetID) []domain.Rule {
	idx.mu.Lock()
	defer idx.mu.Unlock()

	ids := idx.groups[base]
	rules := make([]domain.Rule, 0, len(ids))
	for _, id := range ids {
		e := idx.entries[id]
		select {
		case <-e.done:
			if e.err == nil {
				rules = append(rules, e.rule)
			}
		default:
		}
	}
	return rules
}

// adoptGroup copies a reused rule group from the previous generation in a
// single locked batch, so a node's reuse either completes wholly or not at
// all. Every adopted rule is rebound to this index.
func (idx *Index) adoptGroup(rules []domain.Rule) error {
	if err := idx.checkLive(); err != nil {
		return err
	}

	idx.mu.Lock()
	defer idx.mu.Unlock()

	for _, rule := range rules {
		if _, ok := idx.entries[rule.ID()]; ok {
			return zerr.With(zerr.With(domain.ErrRuleConflict, "target", rule.ID().String()), "reason", "reuse copy collision")
		}
	}
	for _, rule := range rules {
		e := &entry{rule: rule, done: make(chan struct{})}
		close(e.done)
		idx.entries[rule.ID()] = e
		idx.recordGroupLocked(rule.ID())
		rule.BindResolver(idx)
		idx.reused++
	}
	return nil
}

// Rules returns a snapshot of all constructed rules, ordered by identity.
func (idx *Index) Rules() ([]domain.Rule, error) {
	if err := idx.checkLive(); err != nil {
		return nil, err
	}

	idx.mu.Lock()
	defer idx.mu.Unlock()

	rules := make([]domain.Rule, 0, len(idx.entries))
	for _, e := range idx.entries {
		select {
		case <-e.done:
			if e.err == nil {
				rules = append(rules, e.rule)
			}
		default:
		}
	}
	slices.SortFunc(rules, func(a, b domain.Rule) int { return a.ID().Compare(b.ID()) })
	return rules, nil
}

// Size returns the number of registered identities.
func (idx *Index) Size() int {
	idx.mu.Lock()
	defer idx.mu.Unlock()
	return len(idx.entries)
}

// ReusedCount returns how many rules were carried over from the previous
// generation.
func (idx *Index) ReusedCount() int {
	idx.mu.Lock()
	defer idx.mu.Unlock()
	return idx.reused
}

// constructionKey carries the chain of identities under construction on the
// current call path, for fail-fast cycle detection.
type constructionKey struct{}

func constructionPath(ctx context.Context) []domain.TargetID {
	path, _ := ctx.Value(constructionKey{}).([]domain.TargetID)
	return path
}

func withConstruction(ctx context.Context, id domain.TargetID) context.Context {
	path := constructionPath(ctx)
	next := make([]domain.TargetID, len(path)+1)
	copy(next, path)
	next[len(path)] = id
	return context.WithValue(ctx, constructionKey{}, next)
}

func cycleError(path []domain.TargetID, id domain.TargetID) error {
	var b strings.Builder
	start := slices.Index(path, id)
	for i := start; i >= 0 && i < len(path); i++ {
		b.WriteString(path[i].String())
		b.WriteString(" -> ")
	}
	b.WriteString(id.String())
	return zerr.With(domain.ErrRuleCycle, "cycle", b.String())
}
