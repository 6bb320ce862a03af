package ports

import "go.trai.ch/mason/internal/core/domain"

// GraphLoader defines the interface for loading target declarations.
//
//go:generate mockgen -source=graph_loader.go -destination=mocks/mock_graph_loader.go -package=mocks
type GraphLoader interface {
	// Load reads the target declarations starting from the given working
	// directory and returns the validated target graph.
	Load(cwd string) (*domain.TargetGraph, error)
}
