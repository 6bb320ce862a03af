package rules

import (
	"context"

	"go.trai.ch/mason/internal/core/domain"
	"go.trai.ch/zerr"
)

const (
	// KindGenrule is the description kind for plain command rules.
	KindGenrule = "genrule"

	// KindBundle is the description kind for rules that package their
	// target's outputs together with a synthesized metadata child rule.
	KindBundle = "bundle"
)

// GenericRule is the rule produced for plain targets: outputs taken from the
// node's "outs" argument, static deps resolved through the owning index.
type GenericRule struct {
	*domain.BaseRule
}

// GenericFactory builds GenericRules. It requires every static dependency
// through the resolver so that dependency rules exist before the dependent.
type GenericFactory struct{}

// CreateRule implements ports.RuleFactory.
func (f *GenericFactory) CreateRule(
	ctx context.Context,
	node domain.TargetNode,
	resolver domain.RuleResolver,
) (domain.Rule, error) {
	deps := node.StaticDeps()
	for _, dep := range deps {
		if _, err := resolver.Require(ctx, dep); err != nil {
			return nil, zerr.Wrap(err, "failed to require dependency")
		}
	}
	return &GenericRule{
		BaseRule: domain.NewBaseRule(node.ID(), deps, outsArg(node)),
	}, nil
}

// outsArg reads the declared output paths from the node arguments.
func outsArg(node domain.TargetNode) []string {
	raw, ok := node.Arg("outs")
	if !ok {
		return nil
	}
	items, ok := raw.([]any)
	if !ok {
		return nil
	}
	outs := make([]string, 0, len(items))
	for _, item := range items {
		if s, ok := item.(string); ok {
			outs = append(outs, s)
		}
	}
	return outs
}
