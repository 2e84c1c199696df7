// Package metrics defines the Prometheus collectors for forcefield.
// Collectors are registered on the default registry by promauto.
package metrics

import (
	"github.com/TFMV/forcefield/physics"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// FramesTotal counts simulated frames per session.
	FramesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "forcefield_frames_total",
			Help: "Total number of simulated frames",
		},
		[]string{"session"},
	)

	// FrameDuration measures how long one tick plus sync takes.
	FrameDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "forcefield_frame_duration_seconds",
			Help:    "Duration of one simulation frame in seconds",
			Buckets: []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.016, 0.033, 0.1, 0.5},
		},
	)

	// Nodes tracks the node count per session.
	Nodes = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "forcefield_nodes",
			Help: "Number of nodes in the simulated graph",
		},
		[]string{"session"},
	)

	// Edges tracks the edge count per session.
	Edges = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "forcefield_edges",
			Help: "Number of edges in the simulated graph",
		},
		[]string{"session"},
	)

	// SkippedPairs counts force evaluations that were skipped, by reason.
	SkippedPairs = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "forcefield_skipped_pairs_total",
			Help: "Force evaluations skipped by the simulation",
		},
		[]string{"reason"},
	)

	// HTTPRequestsTotal counts API requests by method, route and status.
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "forcefield_http_requests_total",
			Help: "Total number of HTTP requests processed",
		},
		[]string{"method", "route", "status"},
	)
)

// ObserveReport records the skip counters of one tick
func ObserveReport(rep physics.Report) {
	SkippedPairs.WithLabelValues("cutoff").Add(float64(rep.CutOff))
	SkippedPairs.WithLabelValues("degenerate").Add(float64(rep.Degenerate))
	SkippedPairs.WithLabelValues("resting").Add(float64(rep.Resting))
}
