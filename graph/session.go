// Package graph drives an interactive layout session: it owns a graph and
// its simulation, applies user edits between frames and steps the frames.
package graph

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/TFMV/forcefield/ingest"
	"github.com/TFMV/forcefield/logging"
	"github.com/TFMV/forcefield/metrics"
	"github.com/TFMV/forcefield/models"
	"github.com/TFMV/forcefield/physics"
	"github.com/google/uuid"
)

// DragKind says what a pointer press started
type DragKind int

const (
	// DragNone means no press is in progress
	DragNone DragKind = iota
	// DragNode means a node is held and follows the pointer
	DragNode
	// DragEdge means an edge is being drawn from a node
	DragEdge
	// Added means the press landed on empty space and created a node.
	// It is a press outcome only, never a held state.
	Added
)

func (k DragKind) String() string {
	switch k {
	case DragNode:
		return "node"
	case DragEdge:
		return "edge"
	case Added:
		return "added"
	default:
		return "none"
	}
}

// Session serialises edits and frames over one graph. All methods are
// safe for concurrent use; edits always land between two frames.
type Session struct {
	ID string

	mu       sync.Mutex
	graph    *models.Graph
	sim      *physics.Simulation
	dragKind DragKind
	dragID   uint32
	colors   *ingest.ColorCycle
	frames   uint64
	last     physics.Report

	logger *slog.Logger
	trace  *logging.FrameTrace
}

// Option configures a Session
type Option func(*Session)

// WithLogger sets the session logger
func WithLogger(l *slog.Logger) Option {
	return func(s *Session) { s.logger = l }
}

// WithPalette sets the palette new nodes take their colors from
func WithPalette(p *ingest.Palette) Option {
	return func(s *Session) { s.colors = ingest.NewColorCycle(p) }
}

// WithFrameTrace records every frame's report to ft
func WithFrameTrace(ft *logging.FrameTrace) Option {
	return func(s *Session) { s.trace = ft }
}

// NewSession takes ownership of g and builds its simulation
func NewSession(g *models.Graph, cfg physics.Config, opts ...Option) (*Session, error) {
	sim, err := physics.NewSimulation(cfg, g)
	if err != nil {
		return nil, fmt.Errorf("failed to create simulation: %w", err)
	}

	s := &Session{
		ID:     uuid.New().String(),
		graph:  g,
		sim:    sim,
		colors: ingest.NewColorCycle(nil),
		logger: logging.Discard(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.logger = s.logger.With("session", s.ID)
	s.updateGauges()

	s.logger.Info("session started",
		"graph", g.Name,
		"nodes", len(g.Nodes),
		"edges", len(g.Edges),
		"cooling", cfg.Cooling,
	)
	return s, nil
}

// AddNode creates a node at pos with the next palette color and returns
// its id
func (s *Session) AddNode(pos models.Vec3, label string) uint32 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.addNode(pos, label)
}

func (s *Session) addNode(pos models.Vec3, label string) uint32 {
	node := models.NewNode(label, pos)
	node.Color = s.colors.Next()
	id := s.sim.AddNode(s.graph, node)
	s.updateGauges()
	s.logger.Debug("node added", "node", id, "x", pos.X, "y", pos.Y)
	return id
}

// AddEdge connects a and b
func (s *Session) AddEdge(a, b uint32) (uint32, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.addEdge(a, b)
}

func (s *Session) addEdge(a, b uint32) (uint32, error) {
	id, err := s.sim.AddEdge(s.graph, a, b)
	if err != nil {
		return 0, fmt.Errorf("failed to add edge: %w", err)
	}
	s.updateGauges()
	s.logger.Debug("edge added", "edge", id, "a", a, "b", b)
	return id, nil
}

// Drag pins node id so the simulation stops moving it
func (s *Session) Drag(id uint32) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.graph.HasNode(id) {
		return fmt.Errorf("node %d not found", id)
	}
	s.dragKind, s.dragID = DragNode, id
	s.logger.Debug("drag started", "node", id)
	return nil
}

// Release ends any drag. An edge being drawn is abandoned.
func (s *Session) Release() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.release()
}

func (s *Session) release() {
	if s.dragKind != DragNone {
		s.logger.Debug("drag released", "kind", s.dragKind.String(), "node", s.dragID)
	}
	s.dragKind, s.dragID = DragNone, 0
}

// DragBy moves the held node by (dx, dy)
func (s *Session) DragBy(dx, dy float32) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.dragKind != DragNode {
		return fmt.Errorf("no node is being dragged")
	}
	pos := s.sim.Store().Position(s.dragID)
	return s.sim.SetPosition(s.dragID, models.Vec3{X: pos.X + dx, Y: pos.Y + dy, Z: pos.Z})
}

// DragTo moves the held node to (x, y), keeping its z
func (s *Session) DragTo(x, y float32) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.dragKind != DragNode {
		return fmt.Errorf("no node is being dragged")
	}
	pos := s.sim.Store().Position(s.dragID)
	return s.sim.SetPosition(s.dragID, models.Vec3{X: x, Y: y, Z: pos.Z})
}

// Dragging returns the current drag and the node it started on
func (s *Session) Dragging() (DragKind, uint32) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.dragKind, s.dragID
}

// NodeAt returns the first node whose disc contains (x, y). A node's disc
// has the larger of its size and radius as its radius.
func (s *Session) NodeAt(x, y, radius float32) (uint32, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.nodeAt(x, y, radius)
}

func (s *Session) nodeAt(x, y, radius float32) (uint32, bool) {
	for i := range s.graph.Nodes {
		n := &s.graph.Nodes[i]
		r := max(n.Size, radius)
		dx := n.Position.X - x
		dy := n.Position.Y - y
		if dx*dx+dy*dy <= r*r {
			return uint32(i), true
		}
	}
	return 0, false
}

// Press handles a pointer press at (x, y). On a node it starts dragging
// that node, or drawing an edge from it when withModifier is set. On empty
// space it adds a node there. The returned id is the node pressed or added.
func (s *Session) Press(x, y, radius float32, withModifier bool) (DragKind, uint32) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if id, ok := s.nodeAt(x, y, radius); ok {
		if withModifier {
			s.dragKind, s.dragID = DragEdge, id
		} else {
			s.dragKind, s.dragID = DragNode, id
		}
		s.logger.Debug("drag started", "kind", s.dragKind.String(), "node", id)
		return s.dragKind, id
	}
	s.release()
	if withModifier {
		return DragNone, 0
	}
	return Added, s.addNode(models.Vec3{X: x, Y: y}, "")
}

// ReleaseAt ends a press at (x, y). An edge drag that ends on a different
// node connects the two; the new edge id is returned with ok set.
func (s *Session) ReleaseAt(x, y, radius float32) (edge uint32, ok bool, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	defer s.release()

	if s.dragKind != DragEdge {
		return 0, false, nil
	}
	target, hit := s.nodeAt(x, y, radius)
	if !hit || target == s.dragID {
		return 0, false, nil
	}
	id, err := s.addEdge(s.dragID, target)
	if err != nil {
		return 0, false, err
	}
	return id, true, nil
}

func (s *Session) pinned() physics.Pinned {
	if s.dragKind == DragNode {
		return physics.Pin(s.dragID)
	}
	return physics.Pinned{}
}

// Frame runs one tick and syncs the graph
func (s *Session) Frame() physics.Report {
	s.mu.Lock()
	defer s.mu.Unlock()

	start := time.Now()
	rep := s.sim.Tick(s.graph, s.pinned())
	s.sim.Apply(s.graph)
	elapsed := time.Since(start)

	s.frames++
	s.last = rep

	metrics.FramesTotal.WithLabelValues(s.ID).Inc()
	metrics.FrameDuration.Observe(elapsed.Seconds())
	metrics.ObserveReport(rep)

	s.logger.Log(context.Background(), logging.LevelTrace, "frame",
		"frame", s.frames,
		"moved", rep.Moved,
		"evaluated", rep.Evaluated,
		"springs", rep.Springs,
		"duration", elapsed,
	)
	s.trace.Log(map[string]any{
		"session":    s.ID,
		"frame":      s.frames,
		"moved":      rep.Moved,
		"evaluated":  rep.Evaluated,
		"cutoff":     rep.CutOff,
		"degenerate": rep.Degenerate,
		"springs":    rep.Springs,
		"resting":    rep.Resting,
		"alpha":      s.sim.Alpha(),
	})
	return rep
}

// RunResult summarises a headless run
type RunResult struct {
	Frames  int
	Settled bool
	Last    physics.Report
}

// Run steps frames until the layout settles, maxFrames have run, or ctx
// is done. maxFrames <= 0 means no limit.
func (s *Session) Run(ctx context.Context, maxFrames int) (RunResult, error) {
	var res RunResult
	for maxFrames <= 0 || res.Frames < maxFrames {
		if err := ctx.Err(); err != nil {
			return res, err
		}
		res.Last = s.Frame()
		res.Frames++
		if s.sim.Settled(res.Last) {
			res.Settled = true
			break
		}
	}

	level := slog.LevelInfo
	if !res.Settled {
		level = slog.LevelWarn
	}
	s.logger.Log(ctx, level, "layout run finished",
		"frames", res.Frames,
		"settled", res.Settled,
		"moved", res.Last.Moved,
	)
	return res, nil
}

// Snapshot returns a deep copy of the graph as of the last frame
func (s *Session) Snapshot() *models.Graph {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.graph.Clone()
}

// Stats measures the current layout
func (s *Session) Stats() physics.Stats {
	s.mu.Lock()
	defer s.mu.Unlock()
	return physics.Measure(s.graph)
}

// Status reports frame counters alongside the simulation state
type Status struct {
	Frames  uint64         `json:"frames"`
	Alpha   float64        `json:"alpha"`
	Dragged *uint32        `json:"dragged,omitempty"`
	Last    physics.Report `json:"last"`
}

// Status returns the session's counters
func (s *Session) Status() Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	st := Status{
		Frames: s.frames,
		Alpha:  s.sim.Alpha(),
		Last:   s.last,
	}
	if s.dragKind == DragNode {
		id := s.dragID
		st.Dragged = &id
	}
	return st
}

func (s *Session) updateGauges() {
	metrics.Nodes.WithLabelValues(s.ID).Set(float64(len(s.graph.Nodes)))
	metrics.Edges.WithLabelValues(s.ID).Set(float64(len(s.graph.Edges)))
}
