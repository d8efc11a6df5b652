package engine

import (
	"context"

	"github.com/wovenflow/loom/pkg/graph"
)

// passthrough stands in for unrecognized node types. It logs a warning on
// every arrival and returns its input unchanged so downstream nodes still
// fire.
type passthrough struct {
	id   string
	kind string
}

func newPassthrough(desc graph.NodeDescriptor) *passthrough {
	return &passthrough{id: desc.ID, kind: desc.Kind}
}

func (p *passthrough) ID() string   { return p.id }
func (p *passthrough) Kind() string { return p.kind }

func (p *passthrough) Execute(ctx context.Context, run *Run, input interface{}) (interface{}, error) {
	run.Context().Logf("node %s: unknown type %q, passing input through", p.id, p.kind)
	return input, nil
}
