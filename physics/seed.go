package physics

import (
	"math"

	"github.com/TFMV/forcefield/models"
	opensimplex "github.com/ojrac/opensimplex-go"
)

const goldenAngle = 2.39996322972865332

// Scatter places nodes that arrive without a position. Coincident nodes
// never separate, since the repulsion pass skips zero distances, so every
// node needs its own starting point.
//
// Points follow a sunflower spiral, spacing units apart, with simplex noise
// jitter of at most a quarter spacing on each axis.
type Scatter struct {
	noise   opensimplex.Noise
	spacing float64
}

// NewScatter returns a Scatter with the given spacing between neighbours.
// The same seed always yields the same placement.
func NewScatter(seed int64, spacing float32) *Scatter {
	return &Scatter{
		noise:   opensimplex.New(seed),
		spacing: float64(spacing),
	}
}

// Place returns the starting position for the i-th node
func (s *Scatter) Place(i int) models.Vec3 {
	r := s.spacing * math.Sqrt(float64(i)+1)
	theta := float64(i) * goldenAngle

	t := float64(i) * 0.1
	jx := s.noise.Eval3(t, 0.5, 0.25) * s.spacing * 0.25
	jy := s.noise.Eval3(t+100, 0.5, 0.25) * s.spacing * 0.25

	return models.Vec3{
		X: float32(r*math.Cos(theta) + jx),
		Y: float32(r*math.Sin(theta) + jy),
	}
}

// PlaceMissing gives every unplaced node a scattered position, clears its
// Unplaced mark and refreshes the edge caches. Nodes with a position, even
// one at the origin, are left alone. It reports how many nodes moved.
func (s *Scatter) PlaceMissing(g *models.Graph) int {
	moved := 0
	for i := range g.Nodes {
		n := &g.Nodes[i]
		if !n.Unplaced {
			continue
		}
		n.Position = s.Place(i)
		n.Unplaced = false
		moved++
	}
	if moved > 0 {
		for i := range g.Edges {
			e := &g.Edges[i]
			e.ACenter = g.Nodes[e.A].Position
			e.BCenter = g.Nodes[e.B].Position
		}
	}
	return moved
}
