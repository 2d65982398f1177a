package graph

import (
	"errors"
)

var (
	// ErrDuplicateNodeID is returned by [Graph.AddNode] when a node with the
	// same identifier already exists. Identifiers must be unique because they
	// are the only link between a node and its position record.
	ErrDuplicateNodeID = errors.New("duplicate node ID")

	// ErrUnknownSourceNode is returned by [Graph.AddEdge] when the From node
	// does not exist in the graph.
	ErrUnknownSourceNode = errors.New("unknown source node")

	// ErrUnknownTargetNode is returned by [Graph.AddEdge] when the To node
	// does not exist in the graph.
	ErrUnknownTargetNode = errors.New("unknown target node")
)

// Node is a vertex with a stable integer identifier and a mutable position.
//
// The identifier survives the text round trip through the layout engine, so
// it must be unique within a graph. X and Y are overwritten by layout passes.
type Node struct {
	ID    int     // Unique identifier
	Label string  // Display label; may contain any characters
	X     float64 // Horizontal position
	Y     float64 // Vertical position
}

// Edge connects two nodes by identifier.
type Edge struct {
	From     int     // Source node ID
	To       int     // Target node ID
	Directed bool    // Rendered as "->" when true, "--" otherwise
	Weight   float64 // Layout weight hint
}

// View is the read side of a graph as seen by a layout pass.
//
// Nodes returns pointers so that a pass can write positions back; the pass
// never adds or removes nodes. Order is irrelevant to the layout core.
type View interface {
	Nodes() []*Node
	Edges() []Edge
}

// Graph is an in-memory [View] that keeps nodes in insertion order and
// indexes them by identifier.
//
// The zero value is not usable - use New to create a valid Graph instance.
type Graph struct {
	nodes []*Node
	index map[int]*Node
	edges []Edge
}

// New creates an empty graph.
func New() *Graph {
	return &Graph{index: make(map[int]*Node)}
}

// AddNode adds a copy of n to the graph.
// Returns ErrDuplicateNodeID if a node with the same ID already exists.
func (g *Graph) AddNode(n Node) error {
	if _, exists := g.index[n.ID]; exists {
		return ErrDuplicateNodeID
	}
	node := &n
	g.nodes = append(g.nodes, node)
	g.index[node.ID] = node
	return nil
}

// AddEdge adds an edge between two existing nodes.
// Returns ErrUnknownSourceNode or ErrUnknownTargetNode when an endpoint is
// missing. Parallel edges and self-loops are allowed.
func (g *Graph) AddEdge(e Edge) error {
	if _, ok := g.index[e.From]; !ok {
		return ErrUnknownSourceNode
	}
	if _, ok := g.index[e.To]; !ok {
		return ErrUnknownTargetNode
	}
	g.edges = append(g.edges, e)
	return nil
}

// Node returns the node with the given identifier.
func (g *Graph) Node(id int) (*Node, bool) {
	n, ok := g.index[id]
	return n, ok
}

// Nodes returns the nodes in insertion order.
// The slice is a copy; the nodes are shared with the graph.
func (g *Graph) Nodes() []*Node {
	out := make([]*Node, len(g.nodes))
	copy(out, g.nodes)
	return out
}

// Edges returns a copy of the edge list.
func (g *Graph) Edges() []Edge {
	out := make([]Edge, len(g.edges))
	copy(out, g.edges)
	return out
}

// NodeCount returns the number of nodes.
func (g *Graph) NodeCount() int { return len(g.nodes) }

// EdgeCount returns the number of edges.
func (g *Graph) EdgeCount() int { return len(g.edges) }

// Clone returns a deep copy of the graph. Positions written to the clone do
// not affect the original.
func (g *Graph) Clone() *Graph {
	c := &Graph{
		nodes: make([]*Node, 0, len(g.nodes)),
		index: make(map[int]*Node, len(g.nodes)),
		edges: make([]Edge, len(g.edges)),
	}
	for _, n := range g.nodes {
		cp := *n
		c.nodes = append(c.nodes, &cp)
		c.index[cp.ID] = &cp
	}
	copy(c.edges, g.edges)
	return c
}

// Ensure Graph implements View.
var _ View = (*Graph)(nil)
