package server

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/TFMV/forcefield/graph"
	"github.com/TFMV/forcefield/models"
	"github.com/TFMV/forcefield/physics"
	"github.com/TFMV/forcefield/render"
)

const maxBodyBytes = 1 << 20

func (s *Server) registerHandlers(mux *http.ServeMux) {
	mux.HandleFunc("/", s.handleIndex)
	mux.HandleFunc("/api/graph", s.handleGraph)
	mux.HandleFunc("/api/stats", s.handleStats)
	mux.HandleFunc("/api/nodes", s.handleNodes)
	mux.HandleFunc("/api/edges", s.handleEdges)
	mux.HandleFunc("/api/drag", s.handleDrag)
	mux.HandleFunc("/api/drag/move", s.handleDragMove)
	mux.HandleFunc("/api/frame", s.handleFrame)
	mux.HandleFunc("/visualize", s.handleVisualize)
}

func writeJSON(w http.ResponseWriter, statusCode int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, statusCode int, message string) {
	writeJSON(w, statusCode, map[string]string{"error": message})
}

func allow(w http.ResponseWriter, r *http.Request, methods ...string) bool {
	for _, m := range methods {
		if r.Method == m {
			return true
		}
	}
	writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	return false
}

func decode(w http.ResponseWriter, r *http.Request, v any) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return false
	}
	return true
}

// handleIndex serves a page that keeps redrawing the SVG render
func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		writeError(w, http.StatusNotFound, "not found")
		return
	}
	if !allow(w, r, http.MethodGet) {
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	fmt.Fprint(w, `<!DOCTYPE html>
<html>
<head>
  <meta charset="UTF-8">
  <title>forcefield</title>
  <style>
    body { margin: 0; background: #1A1A1A; }
    img { display: block; margin: 0 auto; max-width: 100vw; max-height: 100vh; }
  </style>
</head>
<body>
  <img id="view" src="/visualize?format=svg" alt="layout">
  <script>
    const view = document.getElementById("view");
    setInterval(() => { view.src = "/visualize?format=svg&t=" + Date.now(); }, 100);
  </script>
</body>
</html>
`)
}

func (s *Server) handleGraph(w http.ResponseWriter, r *http.Request) {
	if !allow(w, r, http.MethodGet) {
		return
	}
	writeJSON(w, http.StatusOK, render.NewJSONGraph(s.session.Snapshot()))
}

// StatsResponse is the body of GET /api/stats
type StatsResponse struct {
	Session string        `json:"session"`
	Status  graph.Status  `json:"status"`
	Layout  physics.Stats `json:"layout"`
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	if !allow(w, r, http.MethodGet) {
		return
	}
	writeJSON(w, http.StatusOK, StatsResponse{
		Session: s.session.ID,
		Status:  s.session.Status(),
		Layout:  s.session.Stats(),
	})
}

// NodeRequest is the body of POST /api/nodes
type NodeRequest struct {
	X     float32 `json:"x"`
	Y     float32 `json:"y"`
	Z     float32 `json:"z"`
	Label string  `json:"label"`
}

// EdgeRequest is the body of POST /api/edges
type EdgeRequest struct {
	Source uint32 `json:"source"`
	Target uint32 `json:"target"`
}

// DragRequest is the body of POST /api/drag
type DragRequest struct {
	ID uint32 `json:"id"`
}

// MoveRequest is the body of POST /api/drag/move. Set either the relative
// dx/dy pair or the absolute x/y pair.
type MoveRequest struct {
	DX *float32 `json:"dx,omitempty"`
	DY *float32 `json:"dy,omitempty"`
	X  *float32 `json:"x,omitempty"`
	Y  *float32 `json:"y,omitempty"`
}

// IDResponse carries the id of a created node or edge
type IDResponse struct {
	ID uint32 `json:"id"`
}

func (s *Server) handleNodes(w http.ResponseWriter, r *http.Request) {
	if !allow(w, r, http.MethodPost) {
		return
	}
	var req NodeRequest
	if !decode(w, r, &req) {
		return
	}
	id := s.session.AddNode(models.Vec3{X: req.X, Y: req.Y, Z: req.Z}, req.Label)
	writeJSON(w, http.StatusCreated, IDResponse{ID: id})
}

func (s *Server) handleEdges(w http.ResponseWriter, r *http.Request) {
	if !allow(w, r, http.MethodPost) {
		return
	}
	var req EdgeRequest
	if !decode(w, r, &req) {
		return
	}
	id, err := s.session.AddEdge(req.Source, req.Target)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, http.StatusCreated, IDResponse{ID: id})
}

func (s *Server) handleDrag(w http.ResponseWriter, r *http.Request) {
	if !allow(w, r, http.MethodPost, http.MethodDelete) {
		return
	}
	if r.Method == http.MethodDelete {
		s.session.Release()
		w.WriteHeader(http.StatusNoContent)
		return
	}

	var req DragRequest
	if !decode(w, r, &req) {
		return
	}
	if err := s.session.Drag(req.ID); err != nil {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleDragMove(w http.ResponseWriter, r *http.Request) {
	if !allow(w, r, http.MethodPost) {
		return
	}
	var req MoveRequest
	if !decode(w, r, &req) {
		return
	}

	var err error
	switch {
	case req.X != nil && req.Y != nil:
		err = s.session.DragTo(*req.X, *req.Y)
	case req.DX != nil || req.DY != nil:
		var dx, dy float32
		if req.DX != nil {
			dx = *req.DX
		}
		if req.DY != nil {
			dy = *req.DY
		}
		err = s.session.DragBy(dx, dy)
	default:
		writeError(w, http.StatusBadRequest, "set dx/dy or x/y")
		return
	}
	if err != nil {
		writeError(w, http.StatusConflict, err.Error())
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleFrame steps one frame immediately and returns its report
func (s *Server) handleFrame(w http.ResponseWriter, r *http.Request) {
	if !allow(w, r, http.MethodPost) {
		return
	}
	writeJSON(w, http.StatusOK, s.session.Frame())
}

func (s *Server) handleVisualize(w http.ResponseWriter, r *http.Request) {
	if !allow(w, r, http.MethodGet) {
		return
	}

	options := s.cfg.Render
	q := r.URL.Query()
	if format := q.Get("format"); format != "" {
		options.Format = format
	}
	if v, err := strconv.Atoi(q.Get("width")); err == nil && v > 0 {
		options.Width = float64(v)
	}
	if v, err := strconv.Atoi(q.Get("height")); err == nil && v > 0 {
		options.Height = float64(v)
	}

	renderer, err := render.GetRenderer(options.Format)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	output, err := renderer.Render(s.session.Snapshot(), &options)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "error generating visualization: "+err.Error())
		return
	}

	w.Header().Set("Content-Type", render.ContentType(options.Format))
	w.Write(output)
}
