package terminal

import (
	"context"
	"testing"
	"time"

	"github.com/TFMV/forcefield/config"
	"github.com/TFMV/forcefield/graph"
	"github.com/TFMV/forcefield/models"
	"github.com/TFMV/forcefield/physics"
	"github.com/gdamore/tcell/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newTestViewer puts nodes on an 80x24 simulation screen where world
// (0, 0) is cell (40, 12) and one cell is 40 world units wide.
func newTestViewer(t *testing.T, opts Options, positions ...models.Vec3) (*Viewer, *graph.Session, tcell.SimulationScreen) {
	t.Helper()
	g := models.NewGraph("viewer")
	for _, p := range positions {
		g.AddNode(models.NewNode("", p))
	}
	s, err := graph.NewSession(g, physics.DefaultConfig())
	require.NoError(t, err)

	screen := tcell.NewSimulationScreen("UTF-8")
	require.NoError(t, screen.Init())
	screen.SetSize(80, 24)
	t.Cleanup(screen.Fini)

	opts.Scale = 40
	opts.HitRadius = 60
	return New(s, screen, opts, nil), s, screen
}

func press(v *Viewer, x, y int, mod tcell.ModMask) {
	v.handleEvent(tcell.NewEventMouse(x, y, tcell.Button1, mod))
}

func release(v *Viewer, x, y int, mod tcell.ModMask) {
	v.handleEvent(tcell.NewEventMouse(x, y, tcell.ButtonNone, mod))
}

func TestOptionsFromConfig(t *testing.T) {
	cfg := config.Default().View
	opts := OptionsFromConfig(cfg)
	assert.Equal(t, tcell.ModCtrl, opts.EdgeModifier)
	assert.Equal(t, cfg.FPS, opts.FPS)

	cfg.EdgeModifier = "alt"
	assert.Equal(t, tcell.ModAlt, OptionsFromConfig(cfg).EdgeModifier)
}

func TestDragNodeWithMouse(t *testing.T) {
	v, s, _ := newTestViewer(t, Options{}, models.Vec3{}, models.Vec3{X: 4000})

	press(v, 40, 12, tcell.ModNone)
	kind, id := s.Dragging()
	require.Equal(t, graph.DragNode, kind)
	assert.Equal(t, uint32(0), id)

	press(v, 45, 12, tcell.ModNone)
	v.step()
	pos := s.Snapshot().Nodes[0].Position
	assert.InDelta(t, 200, pos.X, 1e-3)
	assert.InDelta(t, 0, pos.Y, 1e-3)

	release(v, 45, 12, tcell.ModNone)
	kind, _ = s.Dragging()
	assert.Equal(t, graph.DragNone, kind)
}

func TestClickEmptySpaceAddsNode(t *testing.T) {
	v, s, _ := newTestViewer(t, Options{}, models.Vec3{})

	press(v, 10, 5, tcell.ModNone)
	release(v, 10, 5, tcell.ModNone)

	nodes := s.Snapshot().Nodes
	require.Len(t, nodes, 2)
	assert.InDelta(t, -1200, nodes[1].Position.X, 1e-3)
	assert.InDelta(t, 560, nodes[1].Position.Y, 1e-3)
}

func TestModifierDragCreatesEdge(t *testing.T) {
	v, s, _ := newTestViewer(t, Options{}, models.Vec3{}, models.Vec3{X: 400})

	press(v, 40, 12, tcell.ModCtrl)
	kind, _ := s.Dragging()
	require.Equal(t, graph.DragEdge, kind)

	press(v, 48, 12, tcell.ModCtrl)
	release(v, 50, 12, tcell.ModCtrl)

	edges := s.Snapshot().Edges
	require.Len(t, edges, 1)
	assert.Equal(t, uint32(0), edges[0].A)
	assert.Equal(t, uint32(1), edges[0].B)
}

func TestAltEdgeModifier(t *testing.T) {
	v, s, _ := newTestViewer(t, Options{EdgeModifier: tcell.ModAlt}, models.Vec3{}, models.Vec3{X: 400})

	press(v, 40, 12, tcell.ModCtrl)
	kind, _ := s.Dragging()
	assert.Equal(t, graph.DragNode, kind, "ctrl is not the edge modifier here")
	release(v, 40, 12, tcell.ModNone)

	press(v, 40, 12, tcell.ModAlt)
	kind, _ = s.Dragging()
	assert.Equal(t, graph.DragEdge, kind)
}

func TestKeys(t *testing.T) {
	v, s, _ := newTestViewer(t, Options{}, models.Vec3{}, models.Vec3{X: 100})
	scale := v.view.ScaleX

	assert.True(t, v.handleEvent(tcell.NewEventKey(tcell.KeyRune, '+', tcell.ModNone)))
	assert.InDelta(t, scale*zoomStep, v.view.ScaleX, 1e-12)
	assert.True(t, v.handleEvent(tcell.NewEventKey(tcell.KeyRune, '-', tcell.ModNone)))
	assert.InDelta(t, scale, v.view.ScaleX, 1e-12)

	assert.True(t, v.handleEvent(tcell.NewEventKey(tcell.KeyRune, 'p', tcell.ModNone)))
	v.step()
	assert.Zero(t, s.Status().Frames, "paused viewer does not step")
	v.handleEvent(tcell.NewEventKey(tcell.KeyRune, 'p', tcell.ModNone))
	v.step()
	assert.Equal(t, uint64(1), s.Status().Frames)

	assert.False(t, v.handleEvent(tcell.NewEventKey(tcell.KeyRune, 'q', tcell.ModNone)))
	assert.False(t, v.handleEvent(tcell.NewEventKey(tcell.KeyEscape, 0, tcell.ModNone)))
	assert.False(t, v.handleEvent(tcell.NewEventKey(tcell.KeyCtrlC, 0, tcell.ModNone)))
}

func TestWheelZoomIsClamped(t *testing.T) {
	v, _, _ := newTestViewer(t, Options{})
	scale := v.view.ScaleX

	v.handleEvent(tcell.NewEventMouse(0, 0, tcell.WheelUp, tcell.ModNone))
	assert.InDelta(t, scale*zoomStep, v.view.ScaleX, 1e-12)

	for i := 0; i < 100; i++ {
		v.handleEvent(tcell.NewEventMouse(0, 0, tcell.WheelUp, tcell.ModNone))
	}
	assert.Equal(t, float64(maxZoom), v.zoom)
	assert.InDelta(t, scale*maxZoom, v.view.ScaleX, 1e-9)

	for i := 0; i < 100; i++ {
		v.handleEvent(tcell.NewEventMouse(0, 0, tcell.WheelDown, tcell.ModNone))
	}
	assert.Equal(t, minZoom, v.zoom)
}

func TestResize(t *testing.T) {
	v, _, screen := newTestViewer(t, Options{})
	screen.SetSize(120, 40)
	v.handleEvent(tcell.NewEventResize(120, 40))
	assert.Equal(t, 120.0, v.view.Width)
	assert.Equal(t, 40.0, v.view.Height)
}

func TestDraw(t *testing.T) {
	v, s, screen := newTestViewer(t, Options{}, models.Vec3{}, models.Vec3{X: 400})
	_, err := s.AddEdge(0, 1)
	require.NoError(t, err)

	v.draw()

	r, _, _, _ := screen.GetContent(40, 12)
	assert.Equal(t, nodeRune, r)
	r, _, _, _ = screen.GetContent(50, 12)
	assert.Equal(t, nodeRune, r)
	for x := 41; x < 50; x++ {
		r, _, _, _ = screen.GetContent(x, 12)
		assert.Equal(t, edgeRune, r, "cell %d", x)
	}

	var status []rune
	for x := 0; x < 20; x++ {
		r, _, _, _ = screen.GetContent(x, 23)
		status = append(status, r)
	}
	assert.Equal(t, " viewer  nodes 2  ed", string(status))
}

func TestRunStopsOnContext(t *testing.T) {
	v, s, _ := newTestViewer(t, Options{FPS: 200}, models.Vec3{}, models.Vec3{X: 100})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- v.Run(ctx) }()

	require.Eventually(t, func() bool { return s.Status().Frames > 0 }, time.Second, 5*time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("viewer did not stop")
	}
}

func TestPumpEventsStopsWhenNobodyReads(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	out := make(chan tcell.Event)
	polled := make(chan struct{}, 1)
	poll := func() tcell.Event {
		select {
		case polled <- struct{}{}:
		default:
		}
		return tcell.NewEventResize(1, 1)
	}

	done := make(chan struct{})
	go func() {
		pumpEvents(ctx, poll, out)
		close(done)
	}()

	<-polled
	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("pump stayed blocked on a channel nobody reads")
	}
}

func TestPumpEventsStopsOnFinalisedScreen(t *testing.T) {
	out := make(chan tcell.Event, 2)
	events := []tcell.Event{tcell.NewEventResize(2, 2), nil}
	poll := func() tcell.Event {
		ev := events[0]
		events = events[1:]
		return ev
	}

	pumpEvents(context.Background(), poll, out)
	require.Len(t, out, 1)
	_, ok := (<-out).(*tcell.EventResize)
	assert.True(t, ok)
}
