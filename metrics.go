package relax

import (
	"sync/atomic"
	"time"
)

// MetricsCollector defines an interface for collecting operational metrics.
// Implement this interface to integrate with monitoring systems; see
// metrics/prom for a Prometheus adapter.
type MetricsCollector interface {
	// RecordRelax is called after each relaxation run.
	// points is the number of points in the problem, err is nil if successful.
	RecordRelax(mode Mode, points, iterations int, duration time.Duration, err error)

	// RecordBatch is called after each RunBatch call.
	// count is the number of jobs submitted, failed the number that failed
	// or were canceled.
	RecordBatch(count, failed int, duration time.Duration)

	// RecordSave is called after each snapshot write. bytes is the encoded
	// snapshot size.
	RecordSave(bytes int, duration time.Duration, err error)

	// RecordLoad is called after each snapshot read.
	RecordLoad(bytes int, duration time.Duration, err error)
}

// NoopMetricsCollector is a no-op implementation of MetricsCollector.
// Use this when metrics collection is not needed.
type NoopMetricsCollector struct{}

func (NoopMetricsCollector) RecordRelax(Mode, int, int, time.Duration, error) {}
func (NoopMetricsCollector) RecordBatch(int, int, time.Duration)              {}
func (NoopMetricsCollector) RecordSave(int, time.Duration, error)             {}
func (NoopMetricsCollector) RecordLoad(int, time.Duration, error)             {}

// BasicMetricsCollector provides simple in-memory metrics collection.
// Useful for debugging and basic monitoring without external dependencies.
type BasicMetricsCollector struct {
	RelaxCount      atomic.Int64
	RelaxErrors     atomic.Int64
	RelaxIterations atomic.Int64
	RelaxTotalNanos atomic.Int64
	SpringsRuns     atomic.Int64
	EvenDistRuns    atomic.Int64
	BatchCount      atomic.Int64
	BatchJobs       atomic.Int64
	BatchFailed     atomic.Int64
	SaveCount       atomic.Int64
	SaveErrors      atomic.Int64
	SaveBytes       atomic.Int64
	LoadCount       atomic.Int64
	LoadErrors      atomic.Int64
	LoadBytes       atomic.Int64
}

// RecordRelax implements MetricsCollector.
func (b *BasicMetricsCollector) RecordRelax(mode Mode, _, iterations int, duration time.Duration, err error) {
	b.RelaxCount.Add(1)
	b.RelaxTotalNanos.Add(duration.Nanoseconds())
	if err != nil {
		b.RelaxErrors.Add(1)
		return
	}
	b.RelaxIterations.Add(int64(iterations))
	switch mode {
	case ModeSprings:
		b.SpringsRuns.Add(1)
	case ModeEvenDistribution:
		b.EvenDistRuns.Add(1)
	}
}

// RecordBatch implements MetricsCollector.
func (b *BasicMetricsCollector) RecordBatch(count, failed int, _ time.Duration) {
	b.BatchCount.Add(1)
	b.BatchJobs.Add(int64(count))
	b.BatchFailed.Add(int64(failed))
}

// RecordSave implements MetricsCollector.
func (b *BasicMetricsCollector) RecordSave(bytes int, _ time.Duration, err error) {
	b.SaveCount.Add(1)
	if err != nil {
		b.SaveErrors.Add(1)
		return
	}
	b.SaveBytes.Add(int64(bytes))
}

// RecordLoad implements MetricsCollector.
func (b *BasicMetricsCollector) RecordLoad(bytes int, _ time.Duration, err error) {
	b.LoadCount.Add(1)
	if err != nil {
		b.LoadErrors.Add(1)
		return
	}
	b.LoadBytes.Add(int64(bytes))
}

// GetStats returns a snapshot of current metrics.
func (b *BasicMetricsCollector) GetStats() BasicMetricsStats {
	return BasicMetricsStats{
		RelaxCount:      b.RelaxCount.Load(),
		RelaxErrors:     b.RelaxErrors.Load(),
		RelaxIterations: b.RelaxIterations.Load(),
		RelaxAvgNanos:   b.getAvgRelaxNanos(),
		SpringsRuns:     b.SpringsRuns.Load(),
		EvenDistRuns:    b.EvenDistRuns.Load(),
		BatchCount:      b.BatchCount.Load(),
		BatchJobs:       b.BatchJobs.Load(),
		BatchFailed:     b.BatchFailed.Load(),
		SaveCount:       b.SaveCount.Load(),
		SaveErrors:      b.SaveErrors.Load(),
		SaveBytes:       b.SaveBytes.Load(),
		LoadCount:       b.LoadCount.Load(),
		LoadErrors:      b.LoadErrors.Load(),
		LoadBytes:       b.LoadBytes.Load(),
	}
}

func (b *BasicMetricsCollector) getAvgRelaxNanos() int64 {
	count := b.RelaxCount.Load()
	if count == 0 {
		return 0
	}
	return b.RelaxTotalNanos.Load() / count
}

// BasicMetricsStats is a snapshot of BasicMetricsCollector state.
type BasicMetricsStats struct {
	RelaxCount      int64
	RelaxErrors     int64
	RelaxIterations int64
	RelaxAvgNanos   int64
	SpringsRuns     int64
	EvenDistRuns    int64
	BatchCount      int64
	BatchJobs       int64
	BatchFailed     int64
	SaveCount       int64
	SaveErrors      int64
	SaveBytes       int64
	LoadCount       int64
	LoadErrors      int64
	LoadBytes       int64
}
