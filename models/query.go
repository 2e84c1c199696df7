package models

import (
	"fmt"
)

// NodeFilter is a function type used to filter nodes in queries
type NodeFilter func(id uint32, node *Node) bool

// EdgeFilter is a function type used to filter edges in queries
type EdgeFilter func(id uint32, edge *Edge) bool

// Node returns the node with the given index
func (g *Graph) Node(id uint32) (*Node, error) {
	if !g.HasNode(id) {
		return nil, fmt.Errorf("node %d not found", id)
	}
	return &g.Nodes[id], nil
}

// IncidentEdges returns the indexes of all edges touching a node, in
// creation order
func (g *Graph) IncidentEdges(id uint32) []uint32 {
	var result []uint32
	for i, e := range g.Edges {
		if e.A == id || e.B == id {
			result = append(result, uint32(i))
		}
	}
	return result
}

// Neighbors returns the distinct nodes directly connected to a node, in
// order of first appearance
func (g *Graph) Neighbors(id uint32) []uint32 {
	var result []uint32
	seen := make(map[uint32]bool)
	for _, e := range g.Edges {
		if e.A != id && e.B != id {
			continue
		}
		other := e.Other(id)
		if other == id || seen[other] {
			continue
		}
		seen[other] = true
		result = append(result, other)
	}
	return result
}

// Degree returns the number of edge endpoints at a node. A self-loop
// counts twice.
func (g *Graph) Degree(id uint32) int {
	n := 0
	for _, e := range g.Edges {
		if e.A == id {
			n++
		}
		if e.B == id {
			n++
		}
	}
	return n
}

// FilterNodes returns the indexes of nodes that match the filter
func (g *Graph) FilterNodes(filter NodeFilter) []uint32 {
	var result []uint32
	for i := range g.Nodes {
		if filter(uint32(i), &g.Nodes[i]) {
			result = append(result, uint32(i))
		}
	}
	return result
}

// FilterEdges returns the indexes of edges that match the filter
func (g *Graph) FilterEdges(filter EdgeFilter) []uint32 {
	var result []uint32
	for i := range g.Edges {
		if filter(uint32(i), &g.Edges[i]) {
			result = append(result, uint32(i))
		}
	}
	return result
}
