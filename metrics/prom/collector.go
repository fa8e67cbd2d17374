// Package prom exports engine metrics to Prometheus.
//
// Collector implements relax.MetricsCollector. Metrics are registered on the
// collector's own registry, so several engines or tests never collide on the
// global default registerer.
//
//	c := prom.NewCollector("relax")
//	eng := relax.New(relax.WithMetricsCollector(c))
//	http.Handle("/metrics", c.Handler())
package prom

import (
	"net/http"
	"time"

	"github.com/hupe1980/relax"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var _ relax.MetricsCollector = (*Collector)(nil)

// Collector holds the engine's Prometheus metrics.
type Collector struct {
	registry *prometheus.Registry

	relaxRuns       *prometheus.CounterVec
	relaxDuration   *prometheus.HistogramVec
	relaxIterations *prometheus.HistogramVec
	relaxPoints     *prometheus.HistogramVec

	batchJobs     *prometheus.CounterVec
	batchDuration prometheus.Histogram

	snapshotOps      *prometheus.CounterVec
	snapshotBytes    *prometheus.CounterVec
	snapshotDuration *prometheus.HistogramVec
}

// NewCollector creates a collector whose metric names carry namespace.
func NewCollector(namespace string) *Collector {
	c := &Collector{
		registry: prometheus.NewRegistry(),
		relaxRuns: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "relax_runs_total",
			Help:      "Relaxation runs by mode and status",
		}, []string{"mode", "status"}),
		relaxDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "relax_duration_seconds",
			Help:      "Relaxation run latency",
			Buckets:   prometheus.ExponentialBuckets(0.0005, 4, 10),
		}, []string{"mode"}),
		relaxIterations: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "relax_iterations",
			Help:      "Iterations performed per successful run",
			Buckets:   prometheus.ExponentialBuckets(1, 4, 8),
		}, []string{"mode"}),
		relaxPoints: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "relax_points",
			Help:      "Points per relaxation problem",
			Buckets:   prometheus.ExponentialBuckets(1, 4, 10),
		}, []string{"mode"}),
		batchJobs: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "batch_jobs_total",
			Help:      "Batch jobs by status",
		}, []string{"status"}),
		batchDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "batch_duration_seconds",
			Help:      "Wall time of RunBatch calls",
			Buckets:   prometheus.DefBuckets,
		}),
		snapshotOps: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "snapshot_operations_total",
			Help:      "Snapshot saves and loads by status",
		}, []string{"op", "status"}),
		snapshotBytes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "snapshot_bytes_total",
			Help:      "Encoded snapshot bytes written or read",
		}, []string{"op"}),
		snapshotDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "snapshot_duration_seconds",
			Help:      "Snapshot operation latency",
			Buckets:   prometheus.DefBuckets,
		}, []string{"op"}),
	}

	c.registry.MustRegister(
		c.relaxRuns,
		c.relaxDuration,
		c.relaxIterations,
		c.relaxPoints,
		c.batchJobs,
		c.batchDuration,
		c.snapshotOps,
		c.snapshotBytes,
		c.snapshotDuration,
	)
	return c
}

// Registry returns the registry the metrics live in.
func (c *Collector) Registry() *prometheus.Registry { return c.registry }

// Handler serves the collector's registry in the Prometheus text format.
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}

func status(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}

// RecordRelax implements relax.MetricsCollector.
func (c *Collector) RecordRelax(mode relax.Mode, points, iterations int, duration time.Duration, err error) {
	m := mode.String()
	c.relaxRuns.WithLabelValues(m, status(err)).Inc()
	c.relaxDuration.WithLabelValues(m).Observe(duration.Seconds())
	c.relaxPoints.WithLabelValues(m).Observe(float64(points))
	if err == nil {
		c.relaxIterations.WithLabelValues(m).Observe(float64(iterations))
	}
}

// RecordBatch implements relax.MetricsCollector.
func (c *Collector) RecordBatch(count, failed int, duration time.Duration) {
	c.batchJobs.WithLabelValues("ok").Add(float64(count - failed))
	c.batchJobs.WithLabelValues("error").Add(float64(failed))
	c.batchDuration.Observe(duration.Seconds())
}

// RecordSave implements relax.MetricsCollector.
func (c *Collector) RecordSave(bytes int, duration time.Duration, err error) {
	c.recordSnapshot("save", bytes, duration, err)
}

// RecordLoad implements relax.MetricsCollector.
func (c *Collector) RecordLoad(bytes int, duration time.Duration, err error) {
	c.recordSnapshot("load", bytes, duration, err)
}

func (c *Collector) recordSnapshot(op string, bytes int, duration time.Duration, err error) {
	c.snapshotOps.WithLabelValues(op, status(err)).Inc()
	c.snapshotDuration.WithLabelValues(op).Observe(duration.Seconds())
	if err == nil {
		c.snapshotBytes.WithLabelValues(op).Add(float64(bytes))
	}
}
