package domain

import (
	"context"
	"sync"
)

// RuleResolver resolves target identities to constructed rules. The
// generation-scoped rule index is the only implementation; factories and
// downstream consumers see it through this interface.
type RuleResolver interface {
	// Get is a non-creating lookup. It returns ErrRuleNotFound when the
	// identity has no constructed rule, and ErrIndexRetired when the
	// resolver has been superseded by a newer generation.
	Get(id TargetID) (Rule, error)

	// Require returns the rule for an identity, constructing it through the
	// rule factory if absent. Concurrent and repeated calls for the same
	// identity return the same instance.
	Require(ctx context.Context, id TargetID) (Rule, error)

	// Add inserts a rule constructed directly by a factory, typically a
	// child rule with no standalone target node. Idempotent when the same
	// instance is already present under that identity.
	Add(rule Rule) (Rule, error)
}

// Rule is one constructed, executable unit of the action graph.
type Rule interface {
	// ID returns the identity the rule is registered under.
	ID() TargetID

	// Outputs returns the root-relative paths the rule produces.
	Outputs() []string

	// Deps returns the identities of the rule's static dependencies.
	Deps() []TargetID

	// Resolver returns the rule index that currently owns the rule.
	Resolver() RuleResolver

	// BindResolver rebinds the rule to the index owning it. The generator
	// calls this for every rule it carries into a new generation.
	BindResolver(r RuleResolver)
}

// RuntimeDepsProvider is implemented by rules with dependencies discoverable
// only after construction. Runtime deps never participate in the cache
// validity decision and must be re-resolved against the current resolver on
// every generation, reused rule or not.
type RuntimeDepsProvider interface {
	RuntimeDeps(ctx context.Context, resolver RuleResolver) ([]TargetID, error)
}

// BaseRule implements the bookkeeping shared by every rule: identity,
// outputs, static deps, and the mutable owning-resolver slot. Concrete rules
// embed it.
type BaseRule struct {
	id      TargetID
	outputs []string
	deps    []TargetID

	mu       sync.RWMutex
	resolver RuleResolver
}

// NewBaseRule creates a BaseRule.
func NewBaseRule(id TargetID, deps []TargetID, outputs []string) *BaseRule {
	return &BaseRule{
		id:      id,
		outputs: outputs,
		deps:    normalizeDeps(deps),
	}
}

// ID returns the rule's identity.
func (r *BaseRule) ID() TargetID { return r.id }

// Outputs returns the rule's declared outputs.
func (r *BaseRule) Outputs() []string { return r.outputs }

// Deps returns the rule's static dependency identities.
func (r *BaseRule) Deps() []TargetID { return r.deps }

// Resolver returns the index that currently owns the rule.
func (r *BaseRule) Resolver() RuleResolver {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.resolver
}

// BindResolver rebinds the rule to a new owning index.
func (r *BaseRule) BindResolver(resolver RuleResolver) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.resolver = resolver
}
