package server

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/TFMV/forcefield/graph"
	"github.com/TFMV/forcefield/metrics"
	"github.com/TFMV/forcefield/models"
	"github.com/TFMV/forcefield/physics"
	"github.com/TFMV/forcefield/render"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T) (*Server, *graph.Session, *httptest.Server) {
	t.Helper()
	g := models.NewGraph("api")
	g.AddNode(models.NewNode("a", models.Vec3{}))
	g.AddNode(models.NewNode("b", models.Vec3{X: 100}))

	session, err := graph.NewSession(g, physics.DefaultConfig())
	require.NoError(t, err)

	s := New(session, Config{FrameInterval: time.Millisecond}, nil)
	ts := httptest.NewServer(s.Handler())
	t.Cleanup(ts.Close)
	return s, session, ts
}

func do(t *testing.T, method, url string, body any) *http.Response {
	t.Helper()
	var r io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		r = bytes.NewReader(data)
	}
	req, err := http.NewRequest(method, url, r)
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func decodeBody(t *testing.T, resp *http.Response, v any) {
	t.Helper()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(v))
}

func TestGetGraph(t *testing.T) {
	_, _, ts := newTestServer(t)

	resp := do(t, http.MethodGet, ts.URL+"/api/graph", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/json", resp.Header.Get("Content-Type"))

	var doc render.JSONGraph
	decodeBody(t, resp, &doc)
	assert.Equal(t, "api", doc.Name)
	assert.Len(t, doc.Nodes, 2)
}

func TestAddNodeAndEdge(t *testing.T) {
	_, session, ts := newTestServer(t)

	resp := do(t, http.MethodPost, ts.URL+"/api/nodes", NodeRequest{X: 50, Y: 400, Label: "c"})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var node IDResponse
	decodeBody(t, resp, &node)
	assert.Equal(t, uint32(2), node.ID)

	resp = do(t, http.MethodPost, ts.URL+"/api/edges", EdgeRequest{Source: 0, Target: node.ID})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var edge IDResponse
	decodeBody(t, resp, &edge)
	assert.Equal(t, uint32(0), edge.ID)

	resp = do(t, http.MethodPost, ts.URL+"/api/edges", EdgeRequest{Source: 0, Target: 99})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	snap := session.Snapshot()
	assert.Len(t, snap.Nodes, 3)
	assert.Len(t, snap.Edges, 1)
	assert.Equal(t, "c", snap.Nodes[2].Label)
}

func TestDragLifecycle(t *testing.T) {
	_, session, ts := newTestServer(t)

	resp := do(t, http.MethodPost, ts.URL+"/api/drag", DragRequest{ID: 7})
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp = do(t, http.MethodPost, ts.URL+"/api/drag/move", map[string]float32{"dx": 1})
	assert.Equal(t, http.StatusConflict, resp.StatusCode, "nothing held")

	resp = do(t, http.MethodPost, ts.URL+"/api/drag", DragRequest{ID: 0})
	require.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp = do(t, http.MethodPost, ts.URL+"/api/drag/move", map[string]float32{"x": -40, "y": 25})
	require.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp = do(t, http.MethodPost, ts.URL+"/api/frame", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var rep physics.Report
	decodeBody(t, resp, &rep)
	assert.Equal(t, 1, rep.Evaluated, "only the free node is pushed")

	assert.Equal(t, models.Vec3{X: -40, Y: 25}, session.Snapshot().Nodes[0].Position)

	resp = do(t, http.MethodPost, ts.URL+"/api/drag/move", map[string]float32{})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = do(t, http.MethodDelete, ts.URL+"/api/drag", nil)
	require.Equal(t, http.StatusNoContent, resp.StatusCode)
	kind, _ := session.Dragging()
	assert.Equal(t, graph.DragNone, kind)
}

func TestStats(t *testing.T) {
	_, session, ts := newTestServer(t)
	session.Frame()

	resp := do(t, http.MethodGet, ts.URL+"/api/stats", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var stats StatsResponse
	decodeBody(t, resp, &stats)
	assert.Equal(t, session.ID, stats.Session)
	assert.Equal(t, uint64(1), stats.Status.Frames)
	assert.Equal(t, 2, stats.Layout.Nodes)
	assert.Equal(t, 1.0, stats.Status.Alpha)
}

func TestVisualize(t *testing.T) {
	_, _, ts := newTestServer(t)

	resp := do(t, http.MethodGet, ts.URL+"/visualize", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "image/svg+xml", resp.Header.Get("Content-Type"))
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), "<svg")

	resp = do(t, http.MethodGet, ts.URL+"/visualize?format=dot", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	body, err = io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(body), "graph "))

	resp = do(t, http.MethodGet, ts.URL+"/visualize?format=webgl", nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestMethodsAndBodies(t *testing.T) {
	_, _, ts := newTestServer(t)

	tests := []struct {
		method string
		path   string
		body   string
		want   int
	}{
		{http.MethodPost, "/api/graph", "", http.StatusMethodNotAllowed},
		{http.MethodGet, "/api/nodes", "", http.StatusMethodNotAllowed},
		{http.MethodPut, "/api/drag", "", http.StatusMethodNotAllowed},
		{http.MethodPost, "/api/nodes", "{", http.StatusBadRequest},
		{http.MethodPost, "/api/edges", `{"source": 0, "target": 1, "weight": 2}`, http.StatusBadRequest},
		{http.MethodGet, "/nope", "", http.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			req, err := http.NewRequest(tt.method, ts.URL+tt.path, strings.NewReader(tt.body))
			require.NoError(t, err)
			resp, err := http.DefaultClient.Do(req)
			require.NoError(t, err)
			defer resp.Body.Close()
			assert.Equal(t, tt.want, resp.StatusCode)
		})
	}
}

func TestIndexAndMetrics(t *testing.T) {
	_, session, ts := newTestServer(t)
	session.Frame()

	resp := do(t, http.MethodGet, ts.URL+"/", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), "/visualize?format=svg")

	resp = do(t, http.MethodGet, ts.URL+"/metrics", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	body, err = io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), "forcefield_frames_total")
}

func requestCount(t *testing.T, method, route, status string) float64 {
	t.Helper()
	var m dto.Metric
	require.NoError(t, metrics.HTTPRequestsTotal.WithLabelValues(method, route, status).Write(&m))
	return m.GetCounter().GetValue()
}

func TestRequestMetricsUseRoutes(t *testing.T) {
	_, _, ts := newTestServer(t)

	other := requestCount(t, http.MethodGet, "other", "404")
	graphs := requestCount(t, http.MethodGet, "/api/graph", "200")

	for _, path := range []string{"/nope-a", "/nope-b/deeper"} {
		resp := do(t, http.MethodGet, ts.URL+path, nil)
		require.Equal(t, http.StatusNotFound, resp.StatusCode)
	}
	resp := do(t, http.MethodGet, ts.URL+"/api/graph", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	// counters are bumped after the handler returns
	assert.Eventually(t, func() bool {
		return requestCount(t, http.MethodGet, "other", "404") == other+2 &&
			requestCount(t, http.MethodGet, "/api/graph", "200") == graphs+1
	}, time.Second, 5*time.Millisecond)
	assert.False(t, metrics.HTTPRequestsTotal.DeleteLabelValues(http.MethodGet, "/nope-a", "404"),
		"unknown paths get no series of their own")
}

func TestRunFramesStepsSession(t *testing.T) {
	s, session, _ := newTestServer(t)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		s.RunFrames(ctx)
		close(done)
	}()

	assert.Eventually(t, func() bool {
		return session.Status().Frames >= 3
	}, 2*time.Second, 5*time.Millisecond)

	cancel()
	<-done
}

func TestRunShutsDownOnCancel(t *testing.T) {
	l, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := l.Addr().String()
	require.NoError(t, l.Close())

	session, err := graph.NewSession(models.NewGraph("run"), physics.DefaultConfig())
	require.NoError(t, err)
	s := New(session, Config{Addr: addr, FrameInterval: time.Millisecond}, nil)

	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() { errCh <- s.Run(ctx) }()

	require.Eventually(t, func() bool {
		resp, err := http.Get("http://" + addr + "/api/stats")
		if err != nil {
			return false
		}
		resp.Body.Close()
		return resp.StatusCode == http.StatusOK
	}, 2*time.Second, 10*time.Millisecond)

	cancel()
	select {
	case err := <-errCh:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down")
	}
}
