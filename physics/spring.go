package physics

import (
	"github.com/TFMV/forcefield/models"
)

// attract pulls each node toward the other end of each of its edges. The
// pull grows with the square of the separation and stops at MinDist.
// Like repel, updates are applied in place in ascending node order.
func (s *Simulation) attract(edges []models.Edge, pinned Pinned, alpha float32, rep *Report) {
	minDist := s.cfg.MinDist
	springScale := s.cfg.SpringScale

	s.index.Each(func(node uint32, incident []uint32) bool {
		if pinned.Is(node) {
			return true
		}
		a := s.object("spring", node)
		for _, edgeID := range incident {
			e := edgeAt(edges, edgeID)
			b := s.object("spring", e.Other(node))

			dx := a.X - b.X
			dy := a.Y - b.Y
			dz := a.Z - b.Z
			dist := sqrt32(dx*dx + dy*dy + dz*dz)
			if isNaN32(dist) {
				rep.Degenerate++
				continue
			}
			if dist <= minDist {
				rep.Resting++
				continue
			}

			scaled := dist * springScale
			force := -a.Strength * scaled * alpha
			mx := force * dx * scaled
			my := force * dy * scaled
			mz := force * dz * scaled
			if !finite32(mx) || !finite32(my) || !finite32(mz) {
				rep.Degenerate++
				continue
			}

			a.X -= mx
			a.Y -= my
			a.Z -= mz
			rep.Springs++
			rep.Moved += magnitude(mx, my, mz)
		}
		return true
	})
}

func edgeAt(edges []models.Edge, id uint32) *models.Edge {
	if int(id) >= len(edges) {
		panic(integrityf("spring", "edge %d out of range (%d edges)", id, len(edges)))
	}
	return &edges[id]
}
