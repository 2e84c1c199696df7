package models

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Default appearance for nodes and edges created without explicit styling
const (
	DefaultNodeSize  float32 = 25.0
	DefaultNodeColor         = "#5FB49C"
	DefaultEdgeColor         = "#00FF00"
	DefaultLineWidth float32 = 10.0
)

// NewNode creates a node at pos with default appearance
func NewNode(label string, pos Vec3) Node {
	return Node{
		Position: pos,
		Size:     DefaultNodeSize,
		Color:    DefaultNodeColor,
		Label:    label,
	}
}

// NewGraph creates a new graph with a unique ID and timestamps
func NewGraph(name string) *Graph {
	now := time.Now()
	return &Graph{
		ID:        uuid.New().String(),
		Name:      name,
		Nodes:     []Node{},
		Edges:     []Edge{},
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// AddNode appends a node and returns its index
func (g *Graph) AddNode(node Node) uint32 {
	g.Nodes = append(g.Nodes, node)
	g.UpdatedAt = time.Now()
	return uint32(len(g.Nodes) - 1)
}

// AddEdge connects nodes a and b and returns the new edge's index. The
// endpoint caches are seeded from the current node positions.
func (g *Graph) AddEdge(a, b uint32) (uint32, error) {
	if !g.HasNode(a) {
		return 0, fmt.Errorf("source node %d does not exist in the graph", a)
	}
	if !g.HasNode(b) {
		return 0, fmt.Errorf("target node %d does not exist in the graph", b)
	}

	g.Edges = append(g.Edges, Edge{
		A:         a,
		B:         b,
		ACenter:   g.Nodes[a].Position,
		BCenter:   g.Nodes[b].Position,
		Color:     DefaultEdgeColor,
		LineWidth: DefaultLineWidth,
	})
	g.UpdatedAt = time.Now()
	return uint32(len(g.Edges) - 1), nil
}

// HasNode reports whether id indexes a node in the graph
func (g *Graph) HasNode(id uint32) bool {
	return int(id) < len(g.Nodes)
}

// SetAppearance sets the visual properties of a node
func (n *Node) SetAppearance(size float32, color string) {
	n.Size = size
	n.Color = color
}

// SetAppearance sets the visual properties of an edge
func (e *Edge) SetAppearance(color string, lineWidth float32) {
	e.Color = color
	e.LineWidth = lineWidth
}

// Clone returns a deep copy of the graph
func (g *Graph) Clone() *Graph {
	c := *g
	c.Nodes = append([]Node(nil), g.Nodes...)
	c.Edges = append([]Edge(nil), g.Edges...)
	return &c
}

// Validate checks that every edge references existing nodes
func (g *Graph) Validate() error {
	for i, e := range g.Edges {
		if !g.HasNode(e.A) || !g.HasNode(e.B) {
			return fmt.Errorf("edge %d references missing node (%d -> %d, %d nodes)", i, e.A, e.B, len(g.Nodes))
		}
	}
	return nil
}
