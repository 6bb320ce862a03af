package actiongraph_test

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
	"go.trai.ch/mason/internal/core/domain"
	"go.trai.ch/mason/internal/core/ports"
	"go.trai.ch/mason/internal/core/ports/mocks"
	"go.trai.ch/mason/internal/engine/actiongraph"
	"go.uber.org/mock/gomock"
)

const testKind = "test"

// testRule is the rule produced by countingFactory. It records which node
// value it was built from so tests can tell rebuilds from reuse.
type testRule struct {
	*domain.BaseRule

	builtFrom   domain.TargetNode
	runtimeDeps []domain.TargetID
}

func (r *testRule) RuntimeDeps(_ context.Context, _ domain.RuleResolver) ([]domain.TargetID, error) {
	return r.runtimeDeps, nil
}

// countingFactory builds testRules, requiring every static dep first, and
// counts constructions per identity.
type countingFactory struct {
	mu     sync.Mutex
	counts map[domain.TargetID]int

	// onCreate, when set, runs instead of the default construction.
	onCreate func(ctx context.Context, node domain.TargetNode, resolver domain.RuleResolver) (domain.Rule, error)
}

func newCountingFactory() *countingFactory {
	return &countingFactory{counts: make(map[domain.TargetID]int)}
}

func (f *countingFactory) CreateRule(ctx context.Context, node domain.TargetNode, resolver domain.RuleResolver) (domain.Rule, error) {
	f.mu.Lock()
	f.counts[node.ID()]++
	f.mu.Unlock()

	if f.onCreate != nil {
		return f.onCreate(ctx, node, resolver)
	}

	for _, dep := range node.StaticDeps() {
		if _, err := resolver.Require(ctx, dep); err != nil {
			return nil, err
		}
	}
	return &testRule{
		BaseRule:  domain.NewBaseRule(node.ID(), node.StaticDeps(), nil),
		builtFrom: node,
	}, nil
}

func (f *countingFactory) count(id domain.TargetID) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.counts[id]
}

// singleKindRegistry dispatches every kind to one factory.
type singleKindRegistry struct {
	factory ports.RuleFactory
}

func (r singleKindRegistry) ForKind(_ domain.InternedString) (ports.RuleFactory, error) {
	return r.factory, nil
}

type nopTelemetry struct{}

func (nopTelemetry) Record(ctx context.Context, _ string) (context.Context, ports.Vertex) {
	return ctx, nopVertex{}
}
func (nopTelemetry) Close() error { return nil }

type nopVertex struct{}

func (nopVertex) Complete(error) {}
func (nopVertex) Cached()        {}

func quietLogger(t *testing.T) ports.Logger {
	t.Helper()
	ctrl := gomock.NewController(t)
	log := mocks.NewMockLogger(ctrl)
	log.EXPECT().Debug(gomock.Any()).AnyTimes()
	log.EXPECT().Info(gomock.Any()).AnyTimes()
	log.EXPECT().Warn(gomock.Any()).AnyTimes()
	log.EXPECT().Error(gomock.Any()).AnyTimes()
	return log
}

func target(name string) domain.TargetID {
	return domain.NewTargetID("pkg", name)
}

type nodeSpec struct {
	name      string
	cacheable bool
	declared  []string
	extra     []string
	graphOnly []string
	args      map[string]any
}

func specNode(spec nodeSpec) domain.TargetNode {
	toIDs := func(names []string) []domain.TargetID {
		ids := make([]domain.TargetID, 0, len(names))
		for _, n := range names {
			ids = append(ids, target(n))
		}
		return ids
	}
	return domain.NewTargetNode(
		target(spec.name), testKind, spec.cacheable,
		toIDs(spec.declared), toIDs(spec.extra), toIDs(spec.graphOnly),
		spec.args,
	)
}

// cacheableNode declares a plain cacheable node with declared deps only.
func cacheableNode(name string, deps ...string) domain.TargetNode {
	return specNode(nodeSpec{name: name, cacheable: true, declared: deps})
}

func mustGraph(t *testing.T, nodes ...domain.TargetNode) *domain.TargetGraph {
	t.Helper()
	g, err := domain.NewTargetGraph(nodes)
	require.NoError(t, err)
	return g
}

// populateAll generates a new index from the previous one and realizes every
// node in the graph, the way a full build invocation would.
func populateAll(
	t *testing.T,
	gen *actiongraph.Generator,
	graph *domain.TargetGraph,
	previous *actiongraph.Index,
) *actiongraph.Index {
	t.Helper()
	idx, err := gen.Populate(t.Context(), graph, previous)
	require.NoError(t, err)
	for node := range graph.Nodes() {
		_, err := idx.Require(t.Context(), node.ID())
		require.NoError(t, err)
	}
	return idx
}
