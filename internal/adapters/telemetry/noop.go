package telemetry

import (
	"context"

	"go.trai.ch/mason/internal/core/ports"
)

// Noop is a ports.Telemetry implementation that records nothing.
type Noop struct{}

// NewNoop creates a no-op telemetry implementation.
func NewNoop() *Noop { return &Noop{} }

// Record implements ports.Telemetry.
func (n *Noop) Record(ctx context.Context, _ string) (context.Context, ports.Vertex) {
	return ctx, noopVertex{}
}

// Close implements ports.Telemetry.
func (n *Noop) Close() error { return nil }

type noopVertex struct{}

func (noopVertex) Complete(error) {}
func (noopVertex) Cached()        {}
