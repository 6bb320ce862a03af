// Package ports defines the core interfaces for the application.
package ports

import (
	"context"

	"go.trai.ch/mason/internal/core/domain"
)

// RuleFactory constructs the build rule for one target node. One factory
// exists per description kind.
//
//go:generate mockgen -source=factory.go -destination=mocks/mock_factory.go -package=mocks
type RuleFactory interface {
	// CreateRule builds the rule for the node. It is called only when the
	// resolver has no rule for the node's identity, and may call back into
	// the resolver to require dependency rules or add child rules under
	// synthesized flavored identities. It must be deterministic given the
	// same node and transitively resolved dependency rules.
	CreateRule(ctx context.Context, node domain.TargetNode, resolver domain.RuleResolver) (domain.Rule, error)
}

// FactoryRegistry dispatches rule construction by description kind.
type FactoryRegistry interface {
	// ForKind returns the factory for a description kind.
	// Returns ErrUnknownKind if no factory is registered.
	ForKind(kind domain.InternedString) (RuleFactory, error)
}
