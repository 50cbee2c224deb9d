package kdalloc

import (
	"sync/atomic"
	"time"
)

// MetricsCollector defines an interface for collecting mapping metrics.
// Implement this interface to integrate with monitoring systems; package
// promcollector provides a Prometheus implementation.
//
// Implementations must be safe for concurrent use: distinct mappings may be
// created and released from different goroutines.
type MetricsCollector interface {
	// RecordMap is called after each construction attempt.
	// fixed is true for NewAt, err is nil if a valid mapping was produced.
	RecordMap(fixed bool, size uintptr, duration time.Duration, err error)

	// RecordUnmap is called after a region has been released.
	RecordUnmap(size uintptr, duration time.Duration)

	// RecordClear is called after a successful Clear.
	// inPlace is false when the region had to be released and re-placed.
	RecordClear(inPlace bool, size uintptr, duration time.Duration)

	// RecordIntegrityViolation is called right before a fatal panic.
	RecordIntegrityViolation(op string)
}

// NoopMetricsCollector is a no-op implementation of MetricsCollector.
// Use this when metrics collection is not needed.
type NoopMetricsCollector struct{}

func (NoopMetricsCollector) RecordMap(bool, uintptr, time.Duration, error) {}
func (NoopMetricsCollector) RecordUnmap(uintptr, time.Duration) {}
func (NoopMetricsCollector) RecordClear(bool, uintptr, time.Duration) {}
func (NoopMetricsCollector) RecordIntegrityViolation(string) {}

// BasicMetricsCollector provides simple in-memory metrics collection.
// Useful for debugging and basic monitoring without external dependencies.
type BasicMetricsCollector struct {
	MapCount            atomic.Int64
	MapFixedCount       atomic.Int64
	MapErrors           atomic.Int64
	MapTotalNanos       atomic.Int64
	UnmapCount          atomic.Int64
	ClearCount          atomic.Int64
	ClearRemapCount     atomic.Int64
	IntegrityViolations atomic.Int64
	LiveBytes           atomic.Int64
}

// RecordMap implements MetricsCollector.
func (b *BasicMetricsCollector) RecordMap(fixed bool, size uintptr, duration time.Duration, err error) {
	b.MapCount.Add(1)
	b.MapTotalNanos.Add(duration.Nanoseconds())
	if fixed {
		b.MapFixedCount.Add(1)
	}
	if err != nil {
		b.MapErrors.Add(1)
		return
	}
	b.LiveBytes.Add(int64(size)) //nolint:gosec // sizes are bounded by the address space
}

// RecordUnmap implements MetricsCollector.
func (b *BasicMetricsCollector) RecordUnmap(size uintptr, duration time.Duration) {
	b.UnmapCount.Add(1)
	b.LiveBytes.Add(-int64(size)) //nolint:gosec // sizes are bounded by the address space
}

// RecordClear implements MetricsCollector.
func (b *BasicMetricsCollector) RecordClear(inPlace bool, size uintptr, duration time.Duration) {
	b.ClearCount.Add(1)
	if !inPlace {
		b.ClearRemapCount.Add(1)
	}
}

// RecordIntegrityViolation implements MetricsCollector.
func (b *BasicMetricsCollector) RecordIntegrityViolation(op string) {
	b.IntegrityViolations.Add(1)
}

// GetStats returns a snapshot of current metrics.
func (b *BasicMetricsCollector) GetStats() BasicMetricsStats {
	return BasicMetricsStats{
		MapCount:            b.MapCount.Load(),
		MapFixedCount:       b.MapFixedCount.Load(),
		MapErrors:           b.MapErrors.Load(),
		MapAvgNanos:         b.getAvgMapNanos(),
		UnmapCount:          b.UnmapCount.Load(),
		ClearCount:          b.ClearCount.Load(),
		ClearRemapCount:     b.ClearRemapCount.Load(),
		IntegrityViolations: b.IntegrityViolations.Load(),
		LiveBytes:           b.LiveBytes.Load(),
	}
}

func (b *BasicMetricsCollector) getAvgMapNanos() int64 {
	count := b.MapCount.Load()
	if count == 0 {
		return 0
	}
	return b.MapTotalNanos.Load() / count
}

// BasicMetricsStats is a snapshot of BasicMetricsCollector.
type BasicMetricsStats struct {
	MapCount            int64
	MapFixedCount       int64
	MapErrors           int64
	MapAvgNanos         int64
	UnmapCount          int64
	ClearCount          int64
	ClearRemapCount     int64
	IntegrityViolations int64
	LiveBytes           int64
}
