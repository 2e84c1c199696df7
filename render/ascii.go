package render

import (
	"math"
	"strings"
	"time"

	"github.com/TFMV/forcefield/models"
)

// ASCIIRenderer outputs ASCII art format
type ASCIIRenderer struct{}

// Name returns the name of the renderer
func (r *ASCIIRenderer) Name() string {
	return "ASCII Renderer"
}

// Description returns a description of the renderer
func (r *ASCIIRenderer) Description() string {
	return "Renders graphs as ASCII art for terminal or text-based output"
}

var nodeSymbols = []rune{'O', '@', '#', 'X', '*', '%'}

// Render creates an ASCII representation of the graph. One character
// stands for 10x20 output units.
func (r *ASCIIRenderer) Render(graph *models.Graph, options *OutputOptions) ([]byte, error) {
	width := max(int(options.Width/10), 40)
	height := max(int(options.Height/20), 20)

	grid := make([][]rune, height)
	for i := range grid {
		grid[i] = []rune(strings.Repeat(" ", width))
	}

	for i := 0; i < width; i++ {
		grid[0][i] = '-'
		grid[height-1][i] = '-'
	}
	for i := 0; i < height; i++ {
		grid[i][0] = '|'
		grid[i][width-1] = '|'
	}
	grid[0][0], grid[0][width-1] = '+', '+'
	grid[height-1][0], grid[height-1][width-1] = '+', '+'

	// Leave the border, the title row and the timestamp row free
	vp := FitAspect(graph, float64(width), float64(height), 2, 0.5)
	cell := func(p models.Vec3) (int, int, bool) {
		fx, fy := vp.Project(p)
		if math.IsNaN(fx) || math.IsNaN(fy) {
			return 0, 0, false
		}
		return clamp(int(math.Round(fx)), 1, width-2), clamp(int(math.Round(fy)), 1, height-2), true
	}

	for i := range graph.Edges {
		e := &graph.Edges[i]
		x1, y1, ok1 := cell(e.ACenter)
		x2, y2, ok2 := cell(e.BCenter)
		if !ok1 || !ok2 {
			continue
		}
		Line(x1, y1, x2, y2, func(x, y int) {
			grid[y][x] = '.'
		})
	}

	for i := range graph.Nodes {
		n := &graph.Nodes[i]
		x, y, ok := cell(n.Position)
		if !ok {
			continue
		}
		grid[y][x] = nodeSymbols[i%len(nodeSymbols)]

		if options.ShowLabels && n.Label != "" && y+1 < height-1 {
			label := []rune(n.Label)
			for j := 0; j < len(label) && x+j < width-1; j++ {
				grid[y+1][x+j] = label[j]
			}
		}
	}

	if t := []rune(title(graph, options)); len(t) < width-4 {
		copy(grid[1][2:], t)
	}

	if options.Timestamp && height > 4 {
		ts := []rune(time.Now().Format("2006-01-02 15:04"))
		if len(ts) < width-4 {
			copy(grid[height-2][2:], ts)
		}
	}

	var result strings.Builder
	for _, row := range grid {
		result.WriteString(string(row))
		result.WriteRune('\n')
	}
	return []byte(result.String()), nil
}
