// Package conditional implements the branch-selection node: it evaluates a
// configured predicate against the input and routes execution through the
// matching "trueHandle" or "falseHandle" edges only.
package conditional

import (
	"context"

	"github.com/wovenflow/loom/pkg/engine"
	"github.com/wovenflow/loom/pkg/graph"
)

// Kind is the registry type tag.
const Kind = "conditional"

// Branch handles on outgoing edges.
const (
	TrueHandle  = "trueHandle"
	FalseHandle = "falseHandle"
)

// Node evaluates a predicate and selects the matching branch.
type Node struct {
	id string
}

// New creates a conditional node bound to a node id.
func New(id string) *Node {
	return &Node{id: id}
}

func (n *Node) ID() string   { return n.id }
func (n *Node) Kind() string { return Kind }

// Execute evaluates the configured predicate. Evaluation failures are
// swallowed and treated as false so execution continues down the false
// branch. The result carries the original input, the taken path and the raw
// predicate outcome.
func (n *Node) Execute(ctx context.Context, run *engine.Run, input interface{}) (interface{}, error) {
	cfg := normalizeConfig(run.Config(n.id))

	met, err := evaluate(cfg, input)
	if err != nil {
		run.Context().Logf("node %s: condition %s evaluation failed, treating as false: %v",
			n.id, cfg.ConditionType, err)
		met = false
	}

	path := "false"
	if met {
		path = "true"
	}
	return map[string]interface{}{
		"input":           input,
		"path":            path,
		"conditionResult": met,
	}, nil
}

// SelectChildren overrides child resolution: only the edges whose handle
// matches the evaluated path fire.
func (n *Node) SelectChildren(g *graph.Graph, result interface{}) []graph.NodeDescriptor {
	handle := FalseHandle
	if payload, ok := result.(map[string]interface{}); ok {
		if path, ok := payload["path"].(string); ok && path == "true" {
			handle = TrueHandle
		}
	}
	return g.ChildrenByHandle(n.id, handle)
}

var (
	_ engine.Node          = (*Node)(nil)
	_ engine.ChildSelector = (*Node)(nil)
)
