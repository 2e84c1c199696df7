// Package terminal is an interactive tcell front-end for a layout session.
//
// Mouse: press on a node and drag to move it, press on empty space to add a
// node, hold the edge modifier while pressing on a node and release over
// another node to connect them. The wheel or + and - zoom, arrows pan,
// p pauses, q or Esc quits.
package terminal

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/TFMV/forcefield/config"
	"github.com/TFMV/forcefield/graph"
	"github.com/TFMV/forcefield/ingest"
	"github.com/TFMV/forcefield/logging"
	"github.com/TFMV/forcefield/models"
	"github.com/TFMV/forcefield/render"
	"github.com/gdamore/tcell/v2"
)

const (
	nodeRune = '●'
	edgeRune = '·'

	// terminal cells are roughly twice as tall as they are wide
	cellAspect = 0.5
	zoomStep   = 1.25
	minZoom    = 0.01
	maxZoom    = 256
	panCells   = 4
)

// Options configures a Viewer
type Options struct {
	FPS          int
	Scale        float64 // world units per cell at zoom 1
	HitRadius    float32
	EdgeModifier tcell.ModMask
	Labels       bool
	Palette      *ingest.Palette
}

// OptionsFromConfig converts the view section of the application config
func OptionsFromConfig(cfg config.ViewConfig) Options {
	mod := tcell.ModCtrl
	if cfg.EdgeModifier == "alt" {
		mod = tcell.ModAlt
	}
	return Options{
		FPS:          cfg.FPS,
		Scale:        cfg.Scale,
		HitRadius:    cfg.HitRadius,
		EdgeModifier: mod,
		Labels:       true,
	}
}

// Viewer draws a session to a terminal screen and feeds pointer input back
// into it
type Viewer struct {
	session *graph.Session
	screen  tcell.Screen
	opts    Options
	logger  *slog.Logger

	view    render.Viewport
	zoom    float64
	paused  bool
	held    bool
	pointer [2]int
}

// Open creates and initialises the terminal screen
func Open() (tcell.Screen, error) {
	screen, err := tcell.NewScreen()
	if err != nil {
		return nil, fmt.Errorf("failed to create screen: %w", err)
	}
	if err := screen.Init(); err != nil {
		return nil, fmt.Errorf("failed to initialize screen: %w", err)
	}
	return screen, nil
}

// New returns a viewer over an initialised screen. The caller owns the
// screen and calls Fini on it.
func New(session *graph.Session, screen tcell.Screen, opts Options, logger *slog.Logger) *Viewer {
	if opts.FPS <= 0 {
		opts.FPS = 60
	}
	if opts.Scale <= 0 {
		opts.Scale = 40
	}
	if opts.EdgeModifier == 0 {
		opts.EdgeModifier = tcell.ModCtrl
	}
	if opts.Palette == nil {
		opts.Palette = ingest.DefaultPalette()
	}
	if logger == nil {
		logger = logging.Discard()
	}

	v := &Viewer{
		session: session,
		screen:  screen,
		opts:    opts,
		logger:  logger,
		zoom:    1,
		view: render.Viewport{
			ScaleX: 1 / opts.Scale,
			ScaleY: cellAspect / opts.Scale,
		},
	}
	v.resize()
	screen.EnableMouse()
	return v
}

// Run steps and draws frames until ctx is done or the user quits
func (v *Viewer) Run(ctx context.Context) error {
	ticker := time.NewTicker(time.Second / time.Duration(v.opts.FPS))
	defer ticker.Stop()

	eventChan := make(chan tcell.Event, 100)
	go pumpEvents(ctx, v.screen.PollEvent, eventChan)

	v.logger.Info("viewer started", "fps", v.opts.FPS)
	for {
		select {
		case <-ctx.Done():
			return nil
		case ev := <-eventChan:
			if !v.handleEvent(ev) {
				v.logger.Info("viewer closed", "frames", v.session.Status().Frames)
				return nil
			}
		case <-ticker.C:
			v.step()
		}
	}
}

// pumpEvents forwards polled events to out until poll returns nil or ctx is
// done
func pumpEvents(ctx context.Context, poll func() tcell.Event, out chan<- tcell.Event) {
	for {
		ev := poll()
		if ev == nil {
			// screen finalised
			return
		}
		select {
		case out <- ev:
		case <-ctx.Done():
			return
		}
	}
}

func (v *Viewer) step() {
	if !v.paused {
		v.session.Frame()
	}
	v.draw()
}

func (v *Viewer) resize() {
	w, h := v.screen.Size()
	v.view.Width = float64(w)
	v.view.Height = float64(h)
}

// handleEvent applies one input event and reports whether the viewer
// should keep running
func (v *Viewer) handleEvent(ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		return v.handleKey(ev)
	case *tcell.EventMouse:
		v.handleMouse(ev)
	case *tcell.EventResize:
		v.resize()
		v.screen.Sync()
	}
	return true
}

func (v *Viewer) handleKey(ev *tcell.EventKey) bool {
	switch ev.Key() {
	case tcell.KeyEscape, tcell.KeyCtrlC:
		return false
	case tcell.KeyLeft:
		v.view = v.view.Pan(-panCells, 0)
	case tcell.KeyRight:
		v.view = v.view.Pan(panCells, 0)
	case tcell.KeyUp:
		v.view = v.view.Pan(0, -panCells)
	case tcell.KeyDown:
		v.view = v.view.Pan(0, panCells)
	case tcell.KeyRune:
		switch ev.Rune() {
		case 'q':
			return false
		case '+', '=':
			v.zoomBy(zoomStep)
		case '-':
			v.zoomBy(1 / zoomStep)
		case 'p':
			v.paused = !v.paused
			v.logger.Debug("pause toggled", "paused", v.paused)
		}
	}
	return true
}

func (v *Viewer) handleMouse(ev *tcell.EventMouse) {
	x, y := ev.Position()
	v.pointer = [2]int{x, y}
	wx, wy := v.view.Unproject(float64(x), float64(y))
	buttons := ev.Buttons()
	switch {
	case buttons&tcell.WheelUp != 0:
		v.zoomBy(zoomStep)
		return
	case buttons&tcell.WheelDown != 0:
		v.zoomBy(1 / zoomStep)
		return
	}
	pressed := buttons&tcell.Button1 != 0

	switch {
	case pressed && !v.held:
		v.held = true
		withModifier := ev.Modifiers()&v.opts.EdgeModifier != 0
		kind, id := v.session.Press(wx, wy, v.opts.HitRadius, withModifier)
		if kind == graph.DragNone {
			v.held = false
		}
		v.logger.Debug("press", "kind", kind.String(), "node", id, "x", wx, "y", wy)

	case pressed && v.held:
		if kind, _ := v.session.Dragging(); kind == graph.DragNode {
			if err := v.session.DragTo(wx, wy); err != nil {
				v.logger.Warn("drag failed", "error", err)
			}
		}

	case !pressed && v.held:
		v.held = false
		edge, ok, err := v.session.ReleaseAt(wx, wy, v.opts.HitRadius)
		if err != nil {
			v.logger.Warn("edge not added", "error", err)
			return
		}
		if ok {
			v.logger.Debug("edge added", "edge", edge)
		}
	}
}

// zoomBy scales the view around its center, keeping the zoom level
// within [minZoom, maxZoom]
func (v *Viewer) zoomBy(factor float64) {
	next := math.Min(math.Max(v.zoom*factor, minZoom), maxZoom)
	v.view = v.view.Zoom(next / v.zoom)
	v.zoom = next
}

func (v *Viewer) cell(p models.Vec3) (int, int) {
	x, y := v.view.Project(p)
	return int(math.Floor(x)), int(math.Floor(y))
}

func (v *Viewer) draw() {
	g := v.session.Snapshot()
	w, h := v.screen.Size()
	bg := v.color(v.opts.Palette.Background, tcell.ColorBlack)
	base := tcell.StyleDefault.Background(bg)

	v.screen.SetStyle(base)
	v.screen.Clear()

	put := func(x, y int, r rune, style tcell.Style) {
		if x >= 0 && x < w && y >= 0 && y < h-1 {
			v.screen.SetContent(x, y, r, nil, style)
		}
	}

	for i := range g.Edges {
		e := &g.Edges[i]
		style := base.Foreground(v.color(e.Color, tcell.ColorGreen))
		x1, y1 := v.cell(e.ACenter)
		x2, y2 := v.cell(e.BCenter)
		render.Line(x1, y1, x2, y2, func(x, y int) { put(x, y, edgeRune, style) })
	}

	if kind, id := v.session.Dragging(); kind == graph.DragEdge && int(id) < len(g.Nodes) {
		style := base.Foreground(tcell.ColorWhite).Dim(true)
		x1, y1 := v.cell(g.Nodes[id].Position)
		render.Line(x1, y1, v.pointer[0], v.pointer[1], func(x, y int) { put(x, y, edgeRune, style) })
	}

	for i := range g.Nodes {
		n := &g.Nodes[i]
		style := base.Foreground(v.color(n.Color, tcell.ColorWhite))
		x, y := v.cell(n.Position)
		put(x, y, nodeRune, style)
		if v.opts.Labels && n.Label != "" {
			for j, r := range []rune(n.Label) {
				put(x+2+j, y, r, style)
			}
		}
	}

	v.drawStatus(g, w, h, base)
	v.screen.Show()
}

func (v *Viewer) drawStatus(g *models.Graph, w, h int, base tcell.Style) {
	st := v.session.Status()
	line := fmt.Sprintf(" %s  nodes %d  edges %d  frame %d  moved %.2f",
		g.Name, len(g.Nodes), len(g.Edges), st.Frames, st.Last.Moved)
	if v.paused {
		line += "  [paused]"
	}
	runes := []rune(line)
	style := base.Reverse(true)
	for x := 0; x < w; x++ {
		r := ' '
		if x < len(runes) {
			r = runes[x]
		}
		v.screen.SetContent(x, h-1, r, nil, style)
	}
}

func (v *Viewer) color(hex string, fallback tcell.Color) tcell.Color {
	r, g, b, err := ingest.ParseHexColor(hex)
	if err != nil {
		return fallback
	}
	return tcell.NewRGBColor(int32(r), int32(g), int32(b))
}
