package render

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/TFMV/forcefield/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleGraph(t *testing.T) *models.Graph {
	t.Helper()
	g := models.NewGraph("sample")
	g.AddNode(models.NewNode("left", models.Vec3{X: -100}))
	g.AddNode(models.NewNode("<b>", models.Vec3{X: 100}))
	g.AddNode(models.NewNode("", models.Vec3{Y: 80}))
	_, err := g.AddEdge(0, 1)
	require.NoError(t, err)
	_, err = g.AddEdge(1, 2)
	require.NoError(t, err)
	return g
}

func TestGetRenderer(t *testing.T) {
	for _, format := range Formats {
		r, err := GetRenderer(format)
		require.NoError(t, err, format)
		assert.NotEmpty(t, r.Name())
		assert.NotEmpty(t, r.Description())
	}
	_, err := GetRenderer("png")
	assert.Error(t, err)
}

func TestRenderDispatch(t *testing.T) {
	_, err := Render(sampleGraph(t), &OutputOptions{Format: "webgl"})
	assert.Error(t, err)

	out, err := Render(sampleGraph(t), nil)
	require.NoError(t, err)
	assert.Contains(t, string(out), "<svg")
}

func TestFit(t *testing.T) {
	g := models.NewGraph("fit")
	g.AddNode(models.NewNode("", models.Vec3{X: -100}))
	g.AddNode(models.NewNode("", models.Vec3{X: 100}))

	vp := Fit(g, 800, 600, 40)

	x, y := vp.Project(models.Vec3{X: -100})
	assert.InDelta(t, 40, x, 1e-9)
	assert.InDelta(t, 300, y, 1e-9)
	x, _ = vp.Project(models.Vec3{X: 100})
	assert.InDelta(t, 760, x, 1e-9)

	wx, wy := vp.Unproject(400, 300)
	assert.InDelta(t, 0, wx, 1e-4)
	assert.InDelta(t, 0, wy, 1e-4)

	_, up := vp.Project(models.Vec3{Y: 10})
	assert.Less(t, up, 300.0, "world y grows upward")
}

func TestFitEmptyAndAspect(t *testing.T) {
	vp := Fit(models.NewGraph("empty"), 100, 50, 5)
	x, y := vp.Project(models.Vec3{})
	assert.Equal(t, 50.0, x)
	assert.Equal(t, 25.0, y)

	vp = FitAspect(sampleGraph(t), 80, 30, 2, 0.5)
	assert.InDelta(t, vp.ScaleX*0.5, vp.ScaleY, 1e-12)
}

func TestViewportZoomAndPan(t *testing.T) {
	vp := Viewport{ScaleX: 2, ScaleY: 1, Width: 100, Height: 100}

	z := vp.Zoom(2)
	assert.Equal(t, 4.0, z.ScaleX)
	assert.Equal(t, 2.0, z.ScaleY)

	p := vp.Pan(10, 10)
	x, y := p.Project(models.Vec3{X: 5, Y: -10})
	assert.InDelta(t, 50, x, 1e-9)
	assert.InDelta(t, 50, y, 1e-9)
}

func TestSVGRenderer(t *testing.T) {
	g := sampleGraph(t)
	out, err := (&SVGRenderer{}).Render(g, NewDefaultOptions("svg"))
	require.NoError(t, err)

	svg := string(out)
	assert.True(t, strings.HasPrefix(svg, "<?xml"))
	assert.Equal(t, 3, strings.Count(svg, "<circle"))
	assert.Equal(t, 2, strings.Count(svg, "<line"))
	assert.Contains(t, svg, "&lt;b&gt;")
	assert.NotContains(t, svg, "<b>")
	assert.Contains(t, svg, "<title>sample</title>")
}

func TestASCIIRenderer(t *testing.T) {
	g := sampleGraph(t)
	out, err := (&ASCIIRenderer{}).Render(g, NewDefaultOptions("ascii"))
	require.NoError(t, err)

	rows := strings.Split(strings.TrimSuffix(string(out), "\n"), "\n")
	require.Len(t, rows, 30)
	for _, row := range rows {
		assert.Len(t, []rune(row), 80)
	}
	assert.True(t, strings.HasPrefix(rows[0], "+---"))
	text := string(out)
	assert.Contains(t, text, "sample")
	assert.Contains(t, text, "O")
	assert.Contains(t, text, "@")
	assert.Contains(t, text, "#")
	assert.Contains(t, text, ".")
}

func TestJSONRenderer(t *testing.T) {
	g := sampleGraph(t)
	out, err := (&JSONRenderer{}).Render(g, NewDefaultOptions("json"))
	require.NoError(t, err)

	var doc JSONGraph
	require.NoError(t, json.Unmarshal(out, &doc))
	assert.Equal(t, g.ID, doc.ID)
	require.Len(t, doc.Nodes, 3)
	require.Len(t, doc.Edges, 2)
	assert.Equal(t, models.Vec3{X: -100}, doc.Nodes[0].Pos)
	assert.Equal(t, g.Edges[1].ACenter, doc.Edges[1].From)
	assert.Equal(t, g.Edges[1].BCenter, doc.Edges[1].To)
	assert.Equal(t, uint32(2), doc.Edges[1].Target)
	assert.NotContains(t, doc.Metadata, "timestamp")
}

func TestDOTRenderer(t *testing.T) {
	out, err := (&DOTRenderer{}).Render(sampleGraph(t), NewDefaultOptions("dot"))
	require.NoError(t, err)

	dot := string(out)
	assert.True(t, strings.HasPrefix(dot, `graph "sample" {`))
	assert.Contains(t, dot, "n0 -- n1")
	assert.Contains(t, dot, "n1 -- n2")
	assert.Contains(t, dot, `label="left"`)
	assert.Contains(t, dot, `n2 [label="2"`)
	assert.True(t, strings.HasSuffix(dot, "}\n"))
}

func TestLine(t *testing.T) {
	var cells [][2]int
	Line(0, 0, 3, 1, func(x, y int) { cells = append(cells, [2]int{x, y}) })

	require.Len(t, cells, 4)
	assert.Equal(t, [2]int{0, 0}, cells[0])
	assert.Equal(t, [2]int{3, 1}, cells[3])

	cells = cells[:0]
	Line(2, 2, 2, 2, func(x, y int) { cells = append(cells, [2]int{x, y}) })
	assert.Equal(t, [][2]int{{2, 2}}, cells)
}

func TestContentType(t *testing.T) {
	assert.Equal(t, "image/svg+xml", ContentType("svg"))
	assert.Equal(t, "application/json", ContentType("JSON"))
	assert.Equal(t, "text/plain; charset=utf-8", ContentType("ascii"))
}
