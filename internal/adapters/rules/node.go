package rules

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/mason/internal/core/ports"
)

// NodeID is the unique identifier for the rule factory registry Graft node.
const NodeID graft.ID = "adapter.rules"

func init() {
	graft.Register(graft.Node[ports.FactoryRegistry]{
		ID:        NodeID,
		Cacheable: true,
		Run: func(_ context.Context) (ports.FactoryRegistry, error) {
			return NewRegistry(), nil
		},
	})
}
