package physics

import (
	"github.com/TFMV/forcefield/models"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/spatial/r3"
	"gonum.org/v1/gonum/stat"
)

// Stats describes the shape of a layout
type Stats struct {
	Nodes          int         `json:"nodes"`
	Edges          int         `json:"edges"`
	Centroid       models.Vec3 `json:"centroid"`
	MeanRadius     float64     `json:"mean_radius"`
	StdDevRadius   float64     `json:"stddev_radius"`
	MaxRadius      float64     `json:"max_radius"`
	MeanEdgeLength float64     `json:"mean_edge_length"`
	MaxEdgeLength  float64     `json:"max_edge_length"`
}

// Measure computes layout statistics from g's node positions and edge
// endpoint caches
func Measure(g *models.Graph) Stats {
	st := Stats{Nodes: len(g.Nodes), Edges: len(g.Edges)}
	if len(g.Nodes) == 0 {
		return st
	}

	var sum r3.Vec
	for i := range g.Nodes {
		sum = r3.Add(sum, toR3(g.Nodes[i].Position))
	}
	centroid := r3.Scale(1/float64(len(g.Nodes)), sum)
	st.Centroid = models.Vec3{X: float32(centroid.X), Y: float32(centroid.Y), Z: float32(centroid.Z)}

	radii := make([]float64, len(g.Nodes))
	for i := range g.Nodes {
		radii[i] = r3.Norm(r3.Sub(toR3(g.Nodes[i].Position), centroid))
	}
	st.MeanRadius = stat.Mean(radii, nil)
	st.MaxRadius = floats.Max(radii)
	if len(radii) > 1 {
		st.StdDevRadius = stat.StdDev(radii, nil)
	}

	if len(g.Edges) > 0 {
		lengths := make([]float64, len(g.Edges))
		for i := range g.Edges {
			e := &g.Edges[i]
			lengths[i] = r3.Norm(r3.Sub(toR3(e.ACenter), toR3(e.BCenter)))
		}
		st.MeanEdgeLength = stat.Mean(lengths, nil)
		st.MaxEdgeLength = floats.Max(lengths)
	}
	return st
}

func toR3(v models.Vec3) r3.Vec {
	return r3.Vec{X: float64(v.X), Y: float64(v.Y), Z: float64(v.Z)}
}
