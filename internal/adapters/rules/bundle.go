package rules

import (
	"context"

	"go.trai.ch/mason/internal/core/domain"
	"go.trai.ch/zerr"
)

// MetadataFlavor tags the synthesized child rule a bundle creates for its
// manifest. The child has no standalone target node; it exists only in the
// realized action graph.
const MetadataFlavor = "metadata"

// BundleRule packages the outputs of its dependencies. Its manifest child is
// a runtime dependency: it is discoverable only after construction and is
// re-resolved against the current index every generation.
type BundleRule struct {
	*domain.BaseRule

	metadataID domain.TargetID
}

// RuntimeDeps implements domain.RuntimeDepsProvider.
func (r *BundleRule) RuntimeDeps(_ context.Context, _ domain.RuleResolver) ([]domain.TargetID, error) {
	return []domain.TargetID{r.metadataID}, nil
}

// BundleFactory builds BundleRules plus their flavored metadata child.
type BundleFactory struct{}

// CreateRule implements ports.RuleFactory.
func (f *BundleFactory) CreateRule(
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

	metadataID := node.ID().WithFlavors(MetadataFlavor)
	metadata := &GenericRule{
		BaseRule: domain.NewBaseRule(metadataID, nil, []string{metadataID.Name() + ".manifest"}),
	}
	if _, err := resolver.Add(metadata); err != nil {
		return nil, zerr.Wrap(err, "failed to add metadata rule")
	}

	return &BundleRule{
		BaseRule:   domain.NewBaseRule(node.ID(), deps, outsArg(node)),
		metadataID: metadataID,
	}, nil
}
