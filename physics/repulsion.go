package physics

import (
	"math"
)

// repel pushes every object away from every other object within MaxDist.
//
// Objects are updated in place while the loop runs: object i reads its own
// coordinates fresh for every j, and later objects see the already moved
// positions of earlier ones. The result depends on index order.
func (s *Simulation) repel(pinned Pinned, rep *Report) {
	objs := s.store.objs
	maxDist := s.cfg.MaxDist

	for i := range objs {
		if pinned.Is(uint32(i)) {
			continue
		}
		for j := range objs {
			if i == j {
				continue
			}
			a := &objs[i]
			b := &objs[j]

			dx := a.X - b.X
			dy := a.Y - b.Y
			dz := a.Z - b.Z
			dist := sqrt32(dx*dx + dy*dy + dz*dz)
			if isNaN32(dist) || dist == 0 {
				rep.Degenerate++
				continue
			}
			if dist >= maxDist {
				rep.CutOff++
				continue
			}

			force := b.Strength / dist
			fx := force * dx / dist
			fy := force * dy / dist
			fz := force * dz / dist
			if !finite32(fx) || !finite32(fy) || !finite32(fz) {
				rep.Degenerate++
				continue
			}

			a.X -= fx
			a.Y -= fy
			a.Z -= fz
			rep.Evaluated++
			rep.Moved += magnitude(fx, fy, fz)
		}
	}
}

func sqrt32(v float32) float32 {
	return float32(math.Sqrt(float64(v)))
}

func isNaN32(v float32) bool {
	return v != v
}

func finite32(v float32) bool {
	return !math.IsNaN(float64(v)) && !math.IsInf(float64(v), 0)
}

func magnitude(x, y, z float32) float64 {
	return math.Sqrt(float64(x)*float64(x) + float64(y)*float64(y) + float64(z)*float64(z))
}
