package rules_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/mason/internal/adapters/rules"
	"go.trai.ch/mason/internal/core/domain"
	"go.trai.ch/zerr"
)

// fakeResolver is a minimal in-memory RuleResolver for factory tests.
type fakeResolver struct {
	rules map[domain.TargetID]domain.Rule
}

func newFakeResolver() *fakeResolver {
	return &fakeResolver{rules: make(map[domain.TargetID]domain.Rule)}
}

func (r *fakeResolver) Get(id domain.TargetID) (domain.Rule, error) {
	rule, ok := r.rules[id]
	if !ok {
		return nil, zerr.With(domain.ErrRuleNotFound, "target", id.String())
	}
	return rule, nil
}

func (r *fakeResolver) Require(_ context.Context, id domain.TargetID) (domain.Rule, error) {
	return r.Get(id)
}

func (r *fakeResolver) Add(rule domain.Rule) (domain.Rule, error) {
	r.rules[rule.ID()] = rule
	rule.BindResolver(r)
	return rule, nil
}

func depRule(r *fakeResolver, id domain.TargetID) {
	r.rules[id] = &rules.GenericRule{BaseRule: domain.NewBaseRule(id, nil, nil)}
}

func TestRegistry_ForKind(t *testing.T) {
	registry := rules.NewRegistry()

	factory, err := registry.ForKind(domain.NewInternedString(rules.KindGenrule))
	require.NoError(t, err)
	assert.IsType(t, &rules.GenericFactory{}, factory)

	factory, err = registry.ForKind(domain.NewInternedString(rules.KindBundle))
	require.NoError(t, err)
	assert.IsType(t, &rules.BundleFactory{}, factory)

	_, err = registry.ForKind(domain.NewInternedString("exotic"))
	require.ErrorIs(t, err, domain.ErrUnknownKind)
}

func TestGenericFactory_CreateRule(t *testing.T) {
	dep := domain.NewTargetID("lib", "dep")
	node := domain.NewTargetNode(
		domain.NewTargetID("lib", "core"), rules.KindGenrule, true,
		[]domain.TargetID{dep}, nil, nil,
		map[string]any{"outs": []any{"core.o", "core.h"}},
	)

	resolver := newFakeResolver()
	depRule(resolver, dep)

	rule, err := (&rules.GenericFactory{}).CreateRule(t.Context(), node, resolver)
	require.NoError(t, err)

	assert.Equal(t, node.ID(), rule.ID())
	assert.Equal(t, []domain.TargetID{dep}, rule.Deps())
	assert.Equal(t, []string{"core.o", "core.h"}, rule.Outputs())
}

func TestGenericFactory_MissingDepFails(t *testing.T) {
	node := domain.NewTargetNode(
		domain.NewTargetID("lib", "core"), rules.KindGenrule, true,
		[]domain.TargetID{domain.NewTargetID("lib", "ghost")}, nil, nil, nil,
	)

	_, err := (&rules.GenericFactory{}).CreateRule(t.Context(), node, newFakeResolver())
	require.ErrorIs(t, err, domain.ErrRuleNotFound)
}

func TestBundleFactory_CreateRule(t *testing.T) {
	dep := domain.NewTargetID("lib", "core")
	node := domain.NewTargetNode(
		domain.NewTargetID("app", "bin"), rules.KindBundle, true,
		[]domain.TargetID{dep}, nil, nil,
		map[string]any{"outs": []any{"bin.tar"}},
	)

	resolver := newFakeResolver()
	depRule(resolver, dep)

	rule, err := (&rules.BundleFactory{}).CreateRule(t.Context(), node, resolver)
	require.NoError(t, err)
	assert.Equal(t, []string{"bin.tar"}, rule.Outputs())

	// The factory synthesized a flavored metadata child under the bundle's
	// identity and registered it with the resolver.
	childID := node.ID().WithFlavors(rules.MetadataFlavor)
	child, err := resolver.Get(childID)
	require.NoError(t, err)
	assert.Equal(t, []string{"bin.manifest"}, child.Outputs())

	// The child is the bundle's runtime dependency.
	provider, ok := rule.(domain.RuntimeDepsProvider)
	require.True(t, ok)
	deps, err := provider.RuntimeDeps(t.Context(), resolver)
	require.NoError(t, err)
	assert.Equal(t, []domain.TargetID{childID}, deps)
}
