package render

import (
	"encoding/json"
	"time"

	"github.com/TFMV/forcefield/models"
)

// JSONRenderer outputs raw JSON format
type JSONRenderer struct{}

// Name returns the name of the renderer
func (r *JSONRenderer) Name() string {
	return "JSON Renderer"
}

// Description returns a description of the renderer
func (r *JSONRenderer) Description() string {
	return "Renders graph as JSON data for machine consumption or custom visualizations"
}

// JSONNode is one node of the JSON output
type JSONNode struct {
	ID    uint32      `json:"id"`
	Label string      `json:"label,omitempty"`
	Pos   models.Vec3 `json:"pos"`
	Size  float32     `json:"size"`
	Color string      `json:"color"`
}

// JSONEdge is one edge of the JSON output. From and To are the endpoint
// caches.
type JSONEdge struct {
	ID        uint32      `json:"id"`
	Source    uint32      `json:"source"`
	Target    uint32      `json:"target"`
	From      models.Vec3 `json:"from"`
	To        models.Vec3 `json:"to"`
	Color     string      `json:"color"`
	LineWidth float32     `json:"line_width"`
}

// JSONGraph is the document the JSON renderer writes
type JSONGraph struct {
	ID       string         `json:"id"`
	Name     string         `json:"name"`
	Nodes    []JSONNode     `json:"nodes"`
	Edges    []JSONEdge     `json:"edges"`
	Metadata map[string]any `json:"metadata"`
}

// NewJSONGraph converts graph into its JSON document
func NewJSONGraph(graph *models.Graph) JSONGraph {
	doc := JSONGraph{
		ID:    graph.ID,
		Name:  graph.Name,
		Nodes: make([]JSONNode, 0, len(graph.Nodes)),
		Edges: make([]JSONEdge, 0, len(graph.Edges)),
		Metadata: map[string]any{
			"node_count": len(graph.Nodes),
			"edge_count": len(graph.Edges),
		},
	}

	for i := range graph.Nodes {
		n := &graph.Nodes[i]
		doc.Nodes = append(doc.Nodes, JSONNode{
			ID:    uint32(i),
			Label: n.Label,
			Pos:   n.Position,
			Size:  n.Size,
			Color: n.Color,
		})
	}

	for i := range graph.Edges {
		e := &graph.Edges[i]
		doc.Edges = append(doc.Edges, JSONEdge{
			ID:        uint32(i),
			Source:    e.A,
			Target:    e.B,
			From:      e.ACenter,
			To:        e.BCenter,
			Color:     e.Color,
			LineWidth: e.LineWidth,
		})
	}
	return doc
}

// Render creates a JSON representation of the graph
func (r *JSONRenderer) Render(graph *models.Graph, options *OutputOptions) ([]byte, error) {
	doc := NewJSONGraph(graph)
	doc.Metadata["width"] = options.Width
	doc.Metadata["height"] = options.Height
	doc.Metadata["background"] = options.Background
	if options.Timestamp {
		doc.Metadata["timestamp"] = time.Now().Format(time.RFC3339)
	}
	return json.MarshalIndent(doc, "", "  ")
}
