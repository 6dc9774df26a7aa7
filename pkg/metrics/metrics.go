package metrics

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
)

// LatencyBuckets are the upper bounds, in milliseconds, of every latency histogram. Requests
// and dashboard computations both land well under a second; the tail covers slow SQL.
var LatencyBuckets = []float64{1, 2.5, 5, 10, 25, 50, 100, 250, 500, 1000, 2500, 5000, 10000, 30000}

type MetricType string

const (
	CounterVec   MetricType = "counter_vec"
	HistogramVec MetricType = "histogram_vec"
	SummaryVec   MetricType = "summary_vec"
)

// Metric describes one labelled collector.
type Metric struct {
	ID          string
	Name        string
	Description string
	Type        MetricType
	Args        []string
}

// NewMetric builds the collector for m. Histograms observe milliseconds on LatencyBuckets.
func NewMetric(m *Metric, subsystem string) prometheus.Collector {
	switch m.Type {
	case CounterVec:
		return prometheus.NewCounterVec(prometheus.CounterOpts{
			Subsystem: subsystem,
			Name:      m.Name,
			Help:      m.Description,
		}, m.Args)
	case HistogramVec:
		return prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Subsystem: subsystem,
			Name:      m.Name,
			Help:      m.Description,
			Buckets:   LatencyBuckets,
		}, m.Args)
	case SummaryVec:
		return prometheus.NewSummaryVec(prometheus.SummaryOpts{
			Subsystem: subsystem,
			Name:      m.Name,
			Help:      m.Description,
		}, m.Args)
	}
	panic(fmt.Sprintf("metrics: unsupported metric type %q for %s", m.Type, m.Name))
}

var businessProcess = &Metric{
	ID:          "bpDur",
	Name:        "bp_dur",
	Description: "Business process latency in milliseconds, partitioned by type and subtype.",
	Type:        HistogramVec,
	Args:        []string{"type", "subtype"},
}

// RefererKey is the request header copied into the "ref" label of the HTTP metrics.
const RefererKey = "X-Referer"
