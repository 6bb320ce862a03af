// Package rules provides the built-in rule factories and their registry.
package rules

import (
	"go.trai.ch/mason/internal/core/domain"
	"go.trai.ch/mason/internal/core/ports"
	"go.trai.ch/zerr"
)

// Registry dispatches rule construction by description kind.
type Registry struct {
	factories map[domain.InternedString]ports.RuleFactory
}

// NewRegistry creates a registry with the built-in factories registered.
func NewRegistry() *Registry {
	r := &Registry{
		factories: make(map[domain.InternedString]ports.RuleFactory),
	}
	r.Register(KindGenrule, &GenericFactory{})
	r.Register(KindBundle, &BundleFactory{})
	return r
}

// Register binds a factory to a description kind, replacing any previous one.
func (r *Registry) Register(kind string, factory ports.RuleFactory) {
	r.factories[domain.NewInternedString(kind)] = factory
}

// ForKind returns the factory for a description kind.
func (r *Registry) ForKind(kind domain.InternedString) (ports.RuleFactory, error) {
	factory, ok := r.factories[kind]
	if !ok {
		return nil, zerr.With(domain.ErrUnknownKind, "kind", kind.String())
	}
	return factory, nil
}
