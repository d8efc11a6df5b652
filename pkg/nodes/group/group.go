// Package group implements the sub-pipeline node: it executes the subgraph
// of nodes owned by the group (ParentID == group id) and collects the
// accumulated outputs of the internal leaves into one flat result.
package group

import (
	"context"
	"sync"

	"github.com/wovenflow/loom/pkg/engine"
	"github.com/wovenflow/loom/pkg/graph"
)

// Kind is the registry type tag.
const Kind = "group"

// Node executes an isolated sub-pipeline.
type Node struct {
	id string
}

// New creates a group node bound to a node id.
func New(id string) *Node {
	return &Node{id: id}
}

func (n *Node) ID() string   { return n.id }
func (n *Node) Kind() string { return Kind }

// Execute partitions the full graph into the group's subgraph, drives every
// internal root concurrently with the group's input, waits for the whole
// traversal, then concatenates the entire accumulated output lists of the
// internal leaves. The collection is returned as engine.Collection so the
// lifecycle stores one output entry per collected element under the group id.
//
// An empty subgraph or zero internal roots is not an error: the group
// returns an empty collection. Failures of internal nodes are marked on
// those nodes only; collection proceeds with whatever leaf outputs exist.
func (n *Node) Execute(ctx context.Context, run *engine.Run, input interface{}) (interface{}, error) {
	sub := run.FullGraph().Partition(n.id)
	roots := sub.Roots()

	collected := make([]interface{}, 0)
	if len(sub.Nodes) == 0 || len(roots) == 0 {
		return engine.Collection(collected), nil
	}

	scoped := run.Scoped(sub)
	var wg sync.WaitGroup
	for _, root := range roots {
		wg.Add(1)
		go func(desc graph.NodeDescriptor) {
			defer wg.Done()
			scoped.Process(ctx, desc, input)
		}(root)
	}
	wg.Wait()

	for _, leaf := range sub.Leaves() {
		collected = append(collected, run.Context().Output(leaf.ID)...)
	}
	run.Context().Logf("node %s: group collected %d item(s) from %d leaf/leaves",
		n.id, len(collected), len(sub.Leaves()))
	return engine.Collection(collected), nil
}

var _ engine.Node = (*Node)(nil)
