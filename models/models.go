// Package models provides data structures for the forcefield application.
// It defines the node, edge and graph entities that the layout simulation
// writes into and that renderers read from.
package models

import (
	"time"
)

// Vec3 is a point or displacement in layout space
type Vec3 struct {
	X float32 `json:"x" yaml:"x"`
	Y float32 `json:"y" yaml:"y"`
	Z float32 `json:"z" yaml:"z"`
}

// Add returns v + o
func (v Vec3) Add(o Vec3) Vec3 {
	return Vec3{X: v.X + o.X, Y: v.Y + o.Y, Z: v.Z + o.Z}
}

// Sub returns v - o
func (v Vec3) Sub(o Vec3) Vec3 {
	return Vec3{X: v.X - o.X, Y: v.Y - o.Y, Z: v.Z - o.Z}
}

// Node represents a node in the graph. Its array index is its identifier.
//
// Position is a cache of the simulation's authoritative position and is
// overwritten on every sync while a simulation owns the graph.
type Node struct {
	Position Vec3    `json:"position"`
	Size     float32 `json:"size"`
	Color    string  `json:"color"`
	Label    string  `json:"label"`

	// Unplaced marks a node whose source gave no position. Its Position is
	// a placeholder until an initial placement assigns one.
	Unplaced bool `json:"-"`
}

// Edge connects two nodes by index. ACenter and BCenter are copies of the
// endpoint positions, refreshed by the simulation after each tick.
type Edge struct {
	A         uint32  `json:"a"`
	B         uint32  `json:"b"`
	ACenter   Vec3    `json:"a_center"`
	BCenter   Vec3    `json:"b_center"`
	Color     string  `json:"color"`
	LineWidth float32 `json:"line_width"`
}

// Other returns the endpoint of e that is not id. For a self-loop it
// returns id.
func (e *Edge) Other(id uint32) uint32 {
	if e.A == id {
		return e.B
	}
	return e.A
}

// Graph represents a collection of nodes and edges. Both collections are
// append-only while a layout session is running.
type Graph struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Nodes     []Node    `json:"nodes"`
	Edges     []Edge    `json:"edges"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
