package graph

// validEdges yields the edges whose endpoints both exist in the node set.
// Edges referencing missing nodes are dropped at resolution time.
func (g *Graph) validEdges() []Edge {
	edges := make([]Edge, 0, len(g.Edges))
	for _, e := range g.Edges {
		if g.contains(e.Source) && g.contains(e.Target) {
			edges = append(edges, e)
		}
	}
	return edges
}

// Children returns the descriptors of all nodes reachable over one outgoing
// edge of the node with the given id, regardless of handle.
func (g *Graph) Children(id string) []NodeDescriptor {
	var children []NodeDescriptor
	for _, e := range g.validEdges() {
		if e.Source != id {
			continue
		}
		if child, ok := g.Node(e.Target); ok {
			children = append(children, child)
		}
	}
	return children
}

// ChildrenByHandle returns the children connected through edges carrying the
// given source handle. Used by branch-producing nodes to follow only the
// matching branch.
func (g *Graph) ChildrenByHandle(id, handle string) []NodeDescriptor {
	var children []NodeDescriptor
	for _, e := range g.validEdges() {
		if e.Source != id || e.SourceHandle != handle {
			continue
		}
		if child, ok := g.Node(e.Target); ok {
			children = append(children, child)
		}
	}
	return children
}

// Roots returns the top-level nodes with no incoming edge. Nodes owned by a
// group are excluded; they are driven by their group node.
func (g *Graph) Roots() []NodeDescriptor {
	incoming := g.incomingCounts()
	var roots []NodeDescriptor
	for _, n := range g.Nodes {
		if n.ParentID == "" && incoming[n.ID] == 0 {
			roots = append(roots, n)
		}
	}
	return roots
}

// Leaves returns the top-level nodes with no outgoing edge.
func (g *Graph) Leaves() []NodeDescriptor {
	outgoing := map[string]int{}
	for _, e := range g.validEdges() {
		outgoing[e.Source]++
	}
	var leaves []NodeDescriptor
	for _, n := range g.Nodes {
		if n.ParentID == "" && outgoing[n.ID] == 0 {
			leaves = append(leaves, n)
		}
	}
	return leaves
}

func (g *Graph) incomingCounts() map[string]int {
	incoming := map[string]int{}
	for _, e := range g.validEdges() {
		incoming[e.Target]++
	}
	return incoming
}

// Partition extracts the subgraph owned by the group node with the given id:
// the nodes whose ParentID equals parentID plus the edges connecting two of
// those nodes. The extracted nodes are promoted to top level within the
// returned graph so Roots and Leaves apply uniformly; nodes of nested groups
// keep their own ParentID. The partition is recomputed on every call.
func (g *Graph) Partition(parentID string) *Graph {
	members := map[string]bool{}
	var nodes []NodeDescriptor
	for _, n := range g.Nodes {
		if n.ParentID != parentID {
			continue
		}
		members[n.ID] = true
		promoted := n
		promoted.ParentID = ""
		nodes = append(nodes, promoted)
	}

	var edges []Edge
	for _, e := range g.Edges {
		if members[e.Source] && members[e.Target] {
			edges = append(edges, e)
		}
	}
	return &Graph{Nodes: nodes, Edges: edges}
}
