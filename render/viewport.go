package render

import (
	"math"

	"github.com/TFMV/forcefield/models"
)

// Viewport maps world x/y onto an output surface. World y grows upward,
// surface y grows downward. Z is ignored.
type Viewport struct {
	CenterX, CenterY float64 // world point drawn at the surface center
	ScaleX, ScaleY   float64 // surface units per world unit
	Width, Height    float64 // surface size
}

// Fit returns a viewport that shows every node of g inside a width by
// height surface with padding left free on each side
func Fit(g *models.Graph, width, height, padding float64) Viewport {
	return FitAspect(g, width, height, padding, 1)
}

// FitAspect is Fit for surfaces whose cells are not square. aspect is the
// ratio ScaleY / ScaleX; a terminal cell twice as tall as wide uses 0.5.
func FitAspect(g *models.Graph, width, height, padding, aspect float64) Viewport {
	v := Viewport{ScaleX: 1, ScaleY: aspect, Width: width, Height: height}
	if len(g.Nodes) == 0 {
		return v
	}

	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)
	for i := range g.Nodes {
		p := g.Nodes[i].Position
		x, y := float64(p.X), float64(p.Y)
		if math.IsNaN(x) || math.IsNaN(y) || math.IsInf(x, 0) || math.IsInf(y, 0) {
			continue
		}
		minX, maxX = math.Min(minX, x), math.Max(maxX, x)
		minY, maxY = math.Min(minY, y), math.Max(maxY, y)
	}
	if minX > maxX {
		return v
	}

	v.CenterX = (minX + maxX) / 2
	v.CenterY = (minY + maxY) / 2

	availW := math.Max(width-2*padding, 1)
	availH := math.Max(height-2*padding, 1)
	spanX := math.Max(maxX-minX, 1)
	spanY := math.Max(maxY-minY, 1)

	scale := math.Min(availW/spanX, availH/(spanY*aspect))
	v.ScaleX = scale
	v.ScaleY = scale * aspect
	return v
}

// Project returns the surface coordinates of p
func (v Viewport) Project(p models.Vec3) (x, y float64) {
	x = v.Width/2 + (float64(p.X)-v.CenterX)*v.ScaleX
	y = v.Height/2 - (float64(p.Y)-v.CenterY)*v.ScaleY
	return x, y
}

// Unproject returns the world x/y drawn at surface point (x, y)
func (v Viewport) Unproject(x, y float64) (wx, wy float32) {
	wx = float32(v.CenterX + (x-v.Width/2)/v.ScaleX)
	wy = float32(v.CenterY - (y-v.Height/2)/v.ScaleY)
	return wx, wy
}

// Zoom returns v with both scales multiplied by factor
func (v Viewport) Zoom(factor float64) Viewport {
	v.ScaleX *= factor
	v.ScaleY *= factor
	return v
}

// Pan returns v with its center moved by (dx, dy) surface units
func (v Viewport) Pan(dx, dy float64) Viewport {
	v.CenterX += dx / v.ScaleX
	v.CenterY -= dy / v.ScaleY
	return v
}
