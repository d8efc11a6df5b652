// Package engine implements the node lifecycle interpreter: it instantiates
// nodes through a registry, runs the recursive process lifecycle
// (mark running, execute, store output, fan out to children, fan in), and
// isolates failures per branch.
package engine

import (
	"context"

	"github.com/wovenflow/loom/pkg/graph"
)

// Node is the contract every node kind implements. Execute is the pure
// transform: it receives the propagated input and returns the output value to
// store and forward, nil to end the branch, or an error. It must not mutate
// other nodes' statuses; run-level bookkeeping belongs to the lifecycle.
//
// Returning (nil, nil) is the reserved stop-propagation sentinel: the node is
// marked successful but its children are not invoked. It must never be
// conflated with a legitimate falsy value such as false, 0 or "".
type Node interface {
	// ID returns the node id this instance is bound to.
	ID() string
	// Kind returns the type tag the instance was created for.
	Kind() string
	// Execute computes the node's output for one arrival of input.
	Execute(ctx context.Context, run *Run, input interface{}) (interface{}, error)
}

// ChildSelector narrows which outgoing edges fire after a successful
// execution. Nodes that do not implement it propagate to every child.
// Conditional nodes use it to follow only the matching branch handle.
type ChildSelector interface {
	SelectChildren(g *graph.Graph, result interface{}) []graph.NodeDescriptor
}

// Collection marks a result whose elements are stored individually: the
// lifecycle appends one output entry per element under the emitting node's
// id, marks the node successful with the full slice as display result, and
// propagates the full slice to children. Group nodes return their collected
// leaf outputs this way.
type Collection []interface{}
