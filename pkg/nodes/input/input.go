// Package input implements the item-collection node. It records everything
// it receives into a chaining history, maintains a "common" list shared
// across iterations and an "element" list of per-unit items, and emits them
// either as one batch array or as a sequential foreach over fresh iteration
// contexts.
package input

import (
	"context"
	"fmt"
	"sync"

	"github.com/wovenflow/loom/pkg/engine"
	"github.com/wovenflow/loom/pkg/graph"
)

// Kind is the registry type tag.
const Kind = "input"

// Node holds the three item collections for the lifetime of the instance.
type Node struct {
	id string

	mu       sync.Mutex
	chaining []interface{}
	common   []interface{}
	element  []interface{}
}

// New creates an input node bound to a node id.
func New(id string) *Node {
	return &Node{id: id}
}

func (n *Node) ID() string   { return n.id }
func (n *Node) Kind() string { return Kind }

// accumulationKey namespaces the once-per-context marker in the context's
// dedup set, away from the traversal dedup entries which use bare node ids.
func (n *Node) accumulationKey() string {
	return n.id + ":accumulated"
}

// Execute records the arrival (subject to the accumulation mode), then either
// returns the concatenated [common..., element...] array in batch mode, or
// drives its children once per item in foreach mode and returns nil so the
// base lifecycle does not fan the whole collection out a second time.
func (n *Node) Execute(ctx context.Context, run *engine.Run, input interface{}) (interface{}, error) {
	cfg, err := parseConfig(run.Config(n.id))
	if err != nil {
		return nil, fmt.Errorf("node %s: invalid input config: %w", n.id, err)
	}

	if input != nil {
		n.record(run, cfg, input)
	}

	items := n.snapshot()

	if cfg.Mode == ModeForeach {
		n.forEach(ctx, run, items)
		return nil, nil
	}
	return items, nil
}

// record appends the arrival to the chaining history and updates the common
// or element list per the chaining update mode. The accumulation mode guards
// the whole update: "oncePerContext" uses the context dedup set so a node
// reached multiple times in one run does not accumulate duplicates.
func (n *Node) record(run *engine.Run, cfg Config, input interface{}) {
	switch cfg.Accumulation {
	case AccumulateNone:
		return
	case AccumulateOncePerContext:
		if !run.Context().TryMarkNodeExecuted(n.accumulationKey()) {
			return
		}
	}

	n.mu.Lock()
	defer n.mu.Unlock()
	n.chaining = append(n.chaining, input)
	switch cfg.ChainingUpdate {
	case UpdateCommon:
		n.common = append(n.common, input)
	case UpdateReplaceCommon:
		n.common = []interface{}{input}
	case UpdateElement:
		n.element = append(n.element, input)
	case UpdateReplaceElement:
		n.element = []interface{}{input}
	case UpdateNone:
	}
}

// snapshot returns [common..., element...] in that deterministic order.
func (n *Node) snapshot() []interface{} {
	n.mu.Lock()
	defer n.mu.Unlock()
	items := make([]interface{}, 0, len(n.common)+len(n.element))
	items = append(items, n.common...)
	items = append(items, n.element...)
	return items
}

// forEach drives every directly connected child once per item. Each item gets
// a fresh iteration context carrying (index, total, item); items run strictly
// sequentially to keep ordering deterministic, while the children of one item
// run concurrently and are awaited before the next item starts.
func (n *Node) forEach(ctx context.Context, run *engine.Run, items []interface{}) {
	children := run.Graph().Children(n.id)
	if len(children) == 0 || len(items) == 0 {
		return
	}

	for i, item := range items {
		iterRun := run.Iteration(i, len(items), item)
		var wg sync.WaitGroup
		for _, child := range children {
			wg.Add(1)
			go func(desc graph.NodeDescriptor, value interface{}) {
				defer wg.Done()
				iterRun.Process(ctx, desc, value)
			}(child, item)
		}
		wg.Wait()
	}
}

// Chaining returns a copy of the raw arrival history.
func (n *Node) Chaining() []interface{} {
	n.mu.Lock()
	defer n.mu.Unlock()
	out := make([]interface{}, len(n.chaining))
	copy(out, n.chaining)
	return out
}

// Seed replaces the common and element lists. Intended for drivers that
// preload collections before triggering a run.
func (n *Node) Seed(common, element []interface{}) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.common = append([]interface{}(nil), common...)
	n.element = append([]interface{}(nil), element...)
}

// Reset clears all three collections.
func (n *Node) Reset() {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.chaining = nil
	n.common = nil
	n.element = nil
}

var _ engine.Node = (*Node)(nil)
