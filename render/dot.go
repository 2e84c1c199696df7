package render

import (
	"bytes"
	"fmt"
	"strconv"

	"github.com/TFMV/forcefield/models"
)

// DOTRenderer outputs Graphviz DOT format
type DOTRenderer struct{}

// Name returns the name of the renderer
func (r *DOTRenderer) Name() string {
	return "DOT Renderer"
}

// Description returns a description of the renderer
func (r *DOTRenderer) Description() string {
	return "Renders graph in Graphviz DOT format with pinned positions for neato -n"
}

// Render creates a DOT representation of the graph. Edges are undirected;
// positions are in points, one point per world unit divided by 100.
func (r *DOTRenderer) Render(graph *models.Graph, options *OutputOptions) ([]byte, error) {
	var buf bytes.Buffer

	fmt.Fprintf(&buf, "graph %s {\n", strconv.Quote(title(graph, options)))
	fmt.Fprintf(&buf, "  graph [bgcolor=%q, size=\"%g,%g\"];\n",
		options.Background, options.Width/72.0, options.Height/72.0)
	fmt.Fprintf(&buf, "  node [shape=circle, style=filled, fontname=\"Arial\", fontsize=%g];\n", options.FontSize)

	for i := range graph.Nodes {
		n := &graph.Nodes[i]
		color := n.Color
		if color == "" {
			color = models.DefaultNodeColor
		}
		label := n.Label
		if label == "" || !options.ShowLabels {
			label = strconv.Itoa(i)
		}
		fmt.Fprintf(&buf, "  n%d [label=%s, fillcolor=%q, width=%g, pos=\"%g,%g!\"];\n",
			i, strconv.Quote(label), color, n.Size/50, n.Position.X/100, n.Position.Y/100)
	}

	for i := range graph.Edges {
		e := &graph.Edges[i]
		color := e.Color
		if color == "" {
			color = models.DefaultEdgeColor
		}
		fmt.Fprintf(&buf, "  n%d -- n%d [color=%q, penwidth=%g];\n", e.A, e.B, color, e.LineWidth/5)
	}

	buf.WriteString("}\n")
	return buf.Bytes(), nil
}
