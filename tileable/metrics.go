package tileable

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics counts what graph builds produce.
type Metrics struct {
	NodesCreated  *prometheus.CounterVec
	EdgesCreated  *prometheus.CounterVec
	GSBsBuilt     prometheus.Counter
	VIBSkipped    prometheus.Counter
	BuildsTotal   *prometheus.CounterVec
	BuildDuration prometheus.Histogram
	UniqueSBs     prometheus.Gauge
	ChannelWidth  prometheus.Gauge
}

// NewMetrics registers the builder metrics with reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)

	return &Metrics{
		NodesCreated: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "tileablerr_nodes_created_total",
				Help: "Number of routing-resource nodes created",
			},
			[]string{"type"},
		),
		EdgesCreated: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "tileablerr_edges_created_total",
				Help: "Number of routing-resource edges created",
			},
			[]string{"kind"},
		),
		GSBsBuilt: f.NewCounter(
			prometheus.CounterOpts{
				Name: "tileablerr_gsbs_built_total",
				Help: "Number of general switch blocks built",
			},
		),
		VIBSkipped: f.NewCounter(
			prometheus.CounterOpts{
				Name: "tileablerr_vib_connections_skipped_total",
				Help: "Number of VIB pins skipped because they have no node",
			},
		),
		BuildsTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "tileablerr_builds_total",
				Help: "Number of graph builds",
			},
			[]string{"status"},
		),
		BuildDuration: f.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "tileablerr_build_duration_seconds",
				Help:    "Graph build duration in seconds",
				Buckets: []float64{0.001, 0.01, 0.1, 0.5, 1, 5, 30},
			},
		),
		UniqueSBs: f.NewGauge(
			prometheus.GaugeOpts{
				Name: "tileablerr_unique_switch_blocks",
				Help: "Number of distinct switch blocks in the last build",
			},
		),
		ChannelWidth: f.NewGauge(
			prometheus.GaugeOpts{
				Name: "tileablerr_channel_width",
				Help: "Corrected channel width of the last build",
			},
		),
	}
}

// RecordBuild records the outcome of one build.
func (m *Metrics) RecordBuild(status string, duration time.Duration) {
	if m == nil {
		return
	}

	m.BuildsTotal.WithLabelValues(status).Inc()
	m.BuildDuration.Observe(duration.Seconds())
}

// RecordStats publishes the statistics of a finished build.
func (m *Metrics) RecordStats(s Stats) {
	if m == nil {
		return
	}

	for typ, n := range s.NodesByType {
		m.NodesCreated.WithLabelValues(typ.String()).Add(float64(n))
	}

	for kind, n := range s.EdgesByKind {
		m.EdgesCreated.WithLabelValues(string(kind)).Add(float64(n))
	}

	m.GSBsBuilt.Add(float64(s.GSBs))
	m.VIBSkipped.Add(float64(s.VIBSkipped))
	m.UniqueSBs.Set(float64(s.UniqueSBs))
	m.ChannelWidth.Set(float64(s.ChannelWidth))
}
