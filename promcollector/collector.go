// Package promcollector exports kdalloc mapping metrics to Prometheus.
package promcollector

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/hupe1980/kdalloc"
)

var _ kdalloc.MetricsCollector = (*Collector)(nil)

// Collector implements kdalloc.MetricsCollector on Prometheus metrics.
type Collector struct {
	maps       *prometheus.CounterVec
	unmaps     prometheus.Counter
	clears     *prometheus.CounterVec
	violations *prometheus.CounterVec
	latency    *prometheus.HistogramVec
	liveBytes  prometheus.Gauge
}

// New creates a Collector and registers its metrics on reg.
// namespace prefixes every metric name ("kdalloc" if empty).
func New(reg prometheus.Registerer, namespace string) (*Collector, error) {
	if namespace == "" {
		namespace = "kdalloc"
	}

	c := &Collector{
		maps: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "maps_total",
			Help:      "Mapping construction attempts",
		}, []string{"placement", "status"}),
		unmaps: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "unmaps_total",
			Help:      "Regions released",
		}),
		clears: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "clears_total",
			Help:      "Regions reset to zero-filled contents",
		}, []string{"mode"}),
		violations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "integrity_violations_total",
			Help:      "Fatal address-space integrity violations",
		}, []string{"op"}),
		latency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "operation_latency_seconds",
			Help:      "Latency of mapping system calls",
			Buckets:   prometheus.ExponentialBuckets(1e-6, 4, 10),
		}, []string{"op"}),
		liveBytes: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "live_bytes",
			Help:      "Bytes currently owned by valid mappings",
		}),
	}

	for _, col := range []prometheus.Collector{c.maps, c.unmaps, c.clears, c.violations, c.latency, c.liveBytes} {
		if err := reg.Register(col); err != nil {
			return nil, fmt.Errorf("promcollector: register: %w", err)
		}
	}
	return c, nil
}

// RecordMap implements kdalloc.MetricsCollector.
func (c *Collector) RecordMap(fixed bool, size uintptr, duration time.Duration, err error) {
	placement := "any"
	if fixed {
		placement = "fixed"
	}
	status := "ok"
	if err != nil {
		status = "error"
	}
	c.maps.WithLabelValues(placement, status).Inc()
	c.latency.WithLabelValues("map").Observe(duration.Seconds())
	if err == nil {
		c.liveBytes.Add(float64(size))
	}
}

// RecordUnmap implements kdalloc.MetricsCollector.
func (c *Collector) RecordUnmap(size uintptr, duration time.Duration) {
	c.unmaps.Inc()
	c.latency.WithLabelValues("unmap").Observe(duration.Seconds())
	c.liveBytes.Sub(float64(size))
}

// RecordClear implements kdalloc.MetricsCollector.
func (c *Collector) RecordClear(inPlace bool, size uintptr, duration time.Duration) {
	mode := "in_place"
	if !inPlace {
		mode = "remap"
	}
	c.clears.WithLabelValues(mode).Inc()
	c.latency.WithLabelValues("clear").Observe(duration.Seconds())
}

// RecordIntegrityViolation implements kdalloc.MetricsCollector.
func (c *Collector) RecordIntegrityViolation(op string) {
	c.violations.WithLabelValues(op).Inc()
}
