package app

import (
	"go.trai.ch/mason/internal/core/ports"
	"go.trai.ch/mason/internal/engine/actiongraph"
)

// Components contains all the initialized application components.
// This struct provides controlled access to components needed by the CLI layer.
type Components struct {
	App       *App
	Logger    ports.Logger
	Loader    ports.GraphLoader
	Cache     *actiongraph.Cache
	Telemetry ports.Telemetry
}
