// Package graph defines the workflow graph model: node descriptors, edges and
// the dynamic resolver that derives children, roots, leaves and group
// subgraphs from the node/edge lists at call time. Nothing is cached, so the
// graph can be edited between runs without rebuilding anything.
package graph

// NodeDescriptor describes one node of the workflow graph. Descriptors are
// owned by the graph and treated as read-only for the duration of a run.
type NodeDescriptor struct {
	// ID is the unique identifier of the node within the graph.
	ID string `json:"id"`
	// Kind is the type tag used to look up the node constructor.
	Kind string `json:"type"`
	// Config is the node-specific configuration bag. It acts as the fallback
	// when the configuration store has no entry for the node.
	Config map[string]interface{} `json:"config,omitempty"`
	// ParentID, when set, marks this node as part of the group node with that
	// id. Group membership is recomputed on every partition, never cached.
	ParentID string `json:"parentId,omitempty"`
}

// Edge is a directed connection between two nodes. SourceHandle is only used
// by branch-producing nodes (e.g. "trueHandle"/"falseHandle") to select a
// subset of outgoing edges.
type Edge struct {
	Source       string `json:"source"`
	Target       string `json:"target"`
	SourceHandle string `json:"sourceHandle,omitempty"`
}

// Graph is the full node/edge set for one workflow.
type Graph struct {
	Nodes []NodeDescriptor `json:"nodes"`
	Edges []Edge           `json:"edges"`
}

// New creates a graph from nodes and edges.
func New(nodes []NodeDescriptor, edges []Edge) *Graph {
	return &Graph{Nodes: nodes, Edges: edges}
}

// Node returns the descriptor with the given id.
func (g *Graph) Node(id string) (NodeDescriptor, bool) {
	for _, n := range g.Nodes {
		if n.ID == id {
			return n, true
		}
	}
	return NodeDescriptor{}, false
}

func (g *Graph) contains(id string) bool {
	_, ok := g.Node(id)
	return ok
}
