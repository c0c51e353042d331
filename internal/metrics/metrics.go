// Package metrics holds the prometheus collectors of the merge service.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics groups the collectors registered on one registry.
type Metrics struct {
	Requests      *prometheus.CounterVec
	MergeDuration prometheus.Histogram
	MergedRows    *prometheus.CounterVec
	Template      prometheus.Gauge
}

// New registers the service collectors on reg.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		Requests: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "exmerge_requests_total",
				Help: "Total number of handled requests by operation and result code",
			},
			[]string{"operation", "code"},
		),
		MergeDuration: factory.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "exmerge_merge_duration_seconds",
				Help:    "Duration of merge operations in seconds",
				Buckets: prometheus.DefBuckets,
			},
		),
		MergedRows: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "exmerge_merged_rows_total",
				Help: "Total number of rows copied into templates by source",
			},
			[]string{"source"},
		),
		Template: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "exmerge_template_loaded",
				Help: "1 when a template is stored, 0 otherwise",
			},
		),
	}
}

// ObserveRequest counts one request. An empty code counts as "OK".
func (m *Metrics) ObserveRequest(operation, code string) {
	if code == "" {
		code = "OK"
	}
	m.Requests.WithLabelValues(operation, code).Inc()
}

// ObserveMerge records a successful merge.
func (m *Metrics) ObserveMerge(elapsed time.Duration, rows1, rows2 int) {
	m.MergeDuration.Observe(elapsed.Seconds())
	m.MergedRows.WithLabelValues("file1").Add(float64(rows1))
	m.MergedRows.WithLabelValues("file2").Add(float64(rows2))
}

// SetTemplateLoaded updates the template gauge.
func (m *Metrics) SetTemplateLoaded(loaded bool) {
	if loaded {
		m.Template.Set(1)
		return
	}
	m.Template.Set(0)
}
