// Package render draws a laid-out graph as SVG, ASCII art, JSON or
// Graphviz DOT. Renderers read node positions and the edge endpoint
// caches; they never look nodes up to draw an edge.
package render

import (
	"fmt"
	"strings"

	"github.com/TFMV/forcefield/models"
)

// OutputOptions defines rendering configuration options
type OutputOptions struct {
	Format     string  // Output format (svg, ascii, json, dot)
	Width      float64 // Width of the output
	Height     float64 // Height of the output
	Padding    float64 // Margin kept free around the fitted layout
	Background string  // Background color
	Timestamp  bool    // Include timestamp in visualization
	FontSize   float64 // Font size for labels
	ShowLabels bool    // Show node labels
	Title      string  // Title line, defaults to the graph name
}

// Renderer interface defines methods that all rendering backends must implement
type Renderer interface {
	// Render creates a visualization of the graph using the provided options
	Render(graph *models.Graph, options *OutputOptions) ([]byte, error)

	// Name returns the name of the renderer
	Name() string

	// Description returns a description of the renderer
	Description() string
}

// NewDefaultOptions creates a default set of output options
func NewDefaultOptions(format string) *OutputOptions {
	return &OutputOptions{
		Format:     format,
		Width:      800,
		Height:     600,
		Padding:    40,
		Background: "#1A1A1A",
		Timestamp:  false,
		FontSize:   10.0,
		ShowLabels: true,
	}
}

// Formats lists the supported output formats
var Formats = []string{"svg", "ascii", "json", "dot"}

// GetRenderer returns the appropriate renderer based on format
func GetRenderer(format string) (Renderer, error) {
	switch strings.ToLower(format) {
	case "svg":
		return &SVGRenderer{}, nil
	case "ascii", "txt":
		return &ASCIIRenderer{}, nil
	case "json":
		return &JSONRenderer{}, nil
	case "dot", "gv":
		return &DOTRenderer{}, nil
	default:
		return nil, fmt.Errorf("unsupported output format: %s", format)
	}
}

// Render draws graph with the renderer named by options.Format
func Render(graph *models.Graph, options *OutputOptions) ([]byte, error) {
	if options == nil {
		options = NewDefaultOptions("svg")
	}
	renderer, err := GetRenderer(options.Format)
	if err != nil {
		return nil, err
	}
	out, err := renderer.Render(graph, options)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", renderer.Name(), err)
	}
	return out, nil
}

// ContentType returns the MIME type of a format's output
func ContentType(format string) string {
	switch strings.ToLower(format) {
	case "svg":
		return "image/svg+xml"
	case "json":
		return "application/json"
	case "dot", "gv":
		return "text/vnd.graphviz"
	default:
		return "text/plain; charset=utf-8"
	}
}

func title(graph *models.Graph, options *OutputOptions) string {
	if options.Title != "" {
		return options.Title
	}
	if graph.Name != "" {
		return graph.Name
	}
	return "forcefield"
}
