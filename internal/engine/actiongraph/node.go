package actiongraph

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/mason/internal/adapters/logger"    //nolint:depguard // Wired in engine wiring
	"go.trai.ch/mason/internal/adapters/rules"     //nolint:depguard // Wired in engine wiring
	"go.trai.ch/mason/internal/adapters/telemetry" //nolint:depguard // Wired in engine wiring
	"go.trai.ch/mason/internal/core/domain"
	"go.trai.ch/mason/internal/core/ports"
)

// NodeID is the unique identifier for the action graph cache Graft node.
const NodeID graft.ID = "engine.actiongraph"

func init() {
	graft.Register(graft.Node[*Cache]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{rules.NodeID, logger.NodeID, telemetry.NodeID},
		Run: func(ctx context.Context) (*Cache, error) {
			factories, err := graft.Dep[ports.FactoryRegistry](ctx)
			if err != nil {
				return nil, err
			}
			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}
			tel, err := graft.Dep[ports.Telemetry](ctx)
			if err != nil {
				return nil, err
			}
			return NewCache(NewGenerator(factories, log, tel), log, domain.DefaultGenerationCacheSize)
		},
	})
}
