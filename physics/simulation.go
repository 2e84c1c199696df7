// Package physics implements the force-directed layout simulation.
//
// A Simulation owns a Store of point masses that mirrors the graph's nodes
// one-to-one, and an AdjacencyIndex over the graph's edges. Each frame the
// caller runs Tick (repulsion, then springs) followed by Apply, which copies
// the new positions back into the graph's nodes and edge endpoint caches.
//
// A Simulation is not safe for concurrent use. Mutations such as AddNode,
// AddEdge and SetPosition must happen between ticks on the goroutine that
// drives the frames.
package physics

import (
	"fmt"
	"math"

	"github.com/TFMV/forcefield/models"
)

// Report summarises one tick
type Report struct {
	Moved      float64 `json:"moved"`      // summed magnitude of every displacement applied
	Evaluated  int     `json:"evaluated"`  // repulsion pairs that applied a force
	CutOff     int     `json:"cutoff"`     // repulsion pairs at or beyond MaxDist
	Degenerate int     `json:"degenerate"` // pairs skipped for zero, NaN or non-finite distance
	Springs    int     `json:"springs"`    // springs that pulled
	Resting    int     `json:"resting"`    // springs at or within MinDist
}

// Simulation is a force-directed layout over one graph
type Simulation struct {
	cfg   Config
	store *Store
	index *AdjacencyIndex
	alpha float64
	ticks uint64
}

// NewSimulation builds the simulation state for g. g's nodes and edges may
// be appended to later only through AddNode and AddEdge.
func NewSimulation(cfg Config, g *models.Graph) (*Simulation, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid physics config: %w", err)
	}
	if err := g.Validate(); err != nil {
		return nil, fmt.Errorf("invalid graph: %w", err)
	}

	return &Simulation{
		cfg:   cfg,
		store: BuildStore(g.Nodes, cfg.DefaultStrength),
		index: BuildAdjacency(g.Edges),
		alpha: 1,
	}, nil
}

// GetName returns the name of the layout algorithm
func (s *Simulation) GetName() string {
	return "Force-Directed Layout"
}

// Config returns the simulation's parameters
func (s *Simulation) Config() Config {
	return s.cfg
}

// Store returns the authoritative object array
func (s *Simulation) Store() *Store {
	return s.store
}

// Index returns the node to edge index
func (s *Simulation) Index() *AdjacencyIndex {
	return s.index
}

// Ticks returns the number of completed ticks
func (s *Simulation) Ticks() uint64 {
	return s.ticks
}

// Alpha returns the cooling coefficient springs were scaled by on the
// last tick
func (s *Simulation) Alpha() float64 {
	if !s.cfg.Cooling {
		return 1
	}
	return s.alpha
}

// Tick advances the layout by one step. The pinned node keeps its
// position but still repels and anchors springs for everyone else.
func (s *Simulation) Tick(g *models.Graph, pinned Pinned) Report {
	s.checkAligned("tick", g)

	var rep Report
	s.repel(pinned, &rep)
	s.attract(g.Edges, pinned, float32(s.coolStep()), &rep)
	s.ticks++
	return rep
}

// coolStep advances the schedule and returns the alpha springs use this tick
func (s *Simulation) coolStep() float64 {
	s.alpha += (s.cfg.AlphaTarget - s.alpha) * s.cfg.AlphaDecay
	if s.alpha < s.cfg.AlphaMin {
		s.alpha = s.cfg.AlphaMin
	}
	return s.Alpha()
}

// Apply copies object positions into g's nodes, then refreshes the
// endpoint caches of every edge.
func (s *Simulation) Apply(g *models.Graph) {
	s.checkAligned("apply", g)

	for i := range s.store.objs {
		g.Nodes[i].Position = s.store.objs[i].Position()
	}

	s.index.Each(func(node uint32, incident []uint32) bool {
		pos := g.Nodes[node].Position
		for _, edgeID := range incident {
			e := edgeAt(g.Edges, edgeID)
			if e.A == node {
				e.ACenter = pos
			}
			if e.B == node {
				e.BCenter = pos
			}
		}
		return true
	})
}

// AddNode appends node to g and a matching object to the store, keeping
// both collections index-aligned. It returns the new id.
func (s *Simulation) AddNode(g *models.Graph, node models.Node) uint32 {
	s.checkAligned("add node", g)

	id := s.store.Push(node.Position, s.cfg.DefaultStrength)
	if gid := g.AddNode(node); gid != id {
		panic(integrityf("add node", "graph assigned id %d, store assigned %d", gid, id))
	}
	return id
}

// AddEdge connects a and b in g and indexes the new edge
func (s *Simulation) AddEdge(g *models.Graph, a, b uint32) (uint32, error) {
	id, err := g.AddEdge(a, b)
	if err != nil {
		return 0, err
	}
	s.index.Add(id, a, b)
	return id, nil
}

// SetPosition moves object id directly. The node cache follows on the
// next Apply.
func (s *Simulation) SetPosition(id uint32, p models.Vec3) error {
	if int(id) >= s.store.Len() {
		return fmt.Errorf("node %d not found", id)
	}
	if !finite32(p.X) || !finite32(p.Y) || !finite32(p.Z) {
		return fmt.Errorf("position %v is not finite", p)
	}
	s.store.SetPosition(id, p)
	return nil
}

func (s *Simulation) object(op string, id uint32) *Object {
	if int(id) >= len(s.store.objs) {
		panic(integrityf(op, "object %d out of range (%d objects)", id, len(s.store.objs)))
	}
	return &s.store.objs[id]
}

func (s *Simulation) checkAligned(op string, g *models.Graph) {
	if len(g.Nodes) != s.store.Len() {
		panic(integrityf(op, "%d nodes but %d objects", len(g.Nodes), s.store.Len()))
	}
}

// Settled reports whether a tick moved less than the stabilization threshold
func (s *Simulation) Settled(rep Report) bool {
	return rep.Moved < s.cfg.StabilizationThreshold && !math.IsNaN(rep.Moved)
}
