package render

import (
	"bytes"
	"fmt"
	"html"
	"time"

	"github.com/TFMV/forcefield/models"
)

// SVGRenderer outputs SVG format
type SVGRenderer struct{}

// Name returns the name of the renderer
func (r *SVGRenderer) Name() string {
	return "SVG Renderer"
}

// Description returns a description of the renderer
func (r *SVGRenderer) Description() string {
	return "Renders graphs as Scalable Vector Graphics (SVG) for high-quality vector output"
}

// Render creates an SVG representation of the graph
func (r *SVGRenderer) Render(graph *models.Graph, options *OutputOptions) ([]byte, error) {
	var buf bytes.Buffer
	vp := Fit(graph, options.Width, options.Height, options.Padding)

	fmt.Fprintf(&buf, `<?xml version="1.0" encoding="UTF-8" standalone="no"?>
<svg width="%g" height="%g" viewBox="0 0 %g %g" xmlns="http://www.w3.org/2000/svg">
<title>%s</title>
<rect width="100%%" height="100%%" fill="%s"/>
`, options.Width, options.Height, options.Width, options.Height,
		html.EscapeString(title(graph, options)), options.Background)

	// Edges first so nodes are drawn over them
	buf.WriteString("<g class=\"edges\">\n")
	for i := range graph.Edges {
		e := &graph.Edges[i]
		x1, y1 := vp.Project(e.ACenter)
		x2, y2 := vp.Project(e.BCenter)

		color := e.Color
		if color == "" {
			color = models.DefaultEdgeColor
		}
		width := float64(e.LineWidth) * vp.ScaleX
		if width < 0.5 {
			width = 0.5
		}

		fmt.Fprintf(&buf, `<line x1="%.2f" y1="%.2f" x2="%.2f" y2="%.2f" stroke="%s" stroke-width="%.2f" stroke-linecap="round"/>
`, x1, y1, x2, y2, color, width)
	}
	buf.WriteString("</g>\n<g class=\"nodes\">\n")

	for i := range graph.Nodes {
		n := &graph.Nodes[i]
		x, y := vp.Project(n.Position)

		color := n.Color
		if color == "" {
			color = models.DefaultNodeColor
		}
		radius := float64(n.Size) * vp.ScaleX
		if radius < 1 {
			radius = 1
		}

		fmt.Fprintf(&buf, `<circle cx="%.2f" cy="%.2f" r="%.2f" fill="%s" stroke="rgba(0,0,0,0.3)" stroke-width="0.5"/>
`, x, y, radius, color)

		if options.ShowLabels && n.Label != "" {
			labelY := y + radius + options.FontSize + 2
			fmt.Fprintf(&buf, `<text x="%.2f" y="%.2f" font-family="sans-serif" font-size="%g" fill="#CCCCCC" text-anchor="middle">%s</text>
`, x, labelY, options.FontSize, html.EscapeString(n.Label))
		}
	}
	buf.WriteString("</g>\n")

	if options.Timestamp {
		fmt.Fprintf(&buf, `<text x="5" y="%g" font-family="sans-serif" font-size="8" fill="#808080">%s</text>
`, options.Height-5, time.Now().Format("2006-01-02 15:04:05"))
	}

	buf.WriteString("</svg>\n")
	return buf.Bytes(), nil
}
