// Package resource bounds how much relaxation work runs at once.
package resource

import (
	"context"
	"sync/atomic"

	"golang.org/x/sync/semaphore"
	"golang.org/x/time/rate"
)

// Config holds resource limits.
type Config struct {
	// MaxConcurrentJobs is the maximum number of jobs running at once.
	// If 0, defaults to 1.
	MaxConcurrentJobs int64

	// JobsPerSecond limits how fast new jobs may start.
	// If 0, unlimited.
	JobsPerSecond float64

	// JobBurst is the number of jobs that may start back to back before
	// JobsPerSecond applies. Defaults to 1.
	JobBurst int

	// MaxCoordinates caps the sum of len(points)*dimension over all running
	// jobs. If 0, no hard limit is enforced (only tracking).
	MaxCoordinates int64
}

// Controller admits relaxation jobs.
type Controller struct {
	cfg Config

	jobSem *semaphore.Weighted

	// Working set
	coordSem  *semaphore.Weighted // nil if unlimited
	coordUsed atomic.Int64

	limiter *rate.Limiter // nil if unlimited

	running atomic.Int64
}

// NewController creates a new resource controller.
func NewController(cfg Config) *Controller {
	if cfg.MaxConcurrentJobs <= 0 {
		cfg.MaxConcurrentJobs = 1
	}
	if cfg.JobBurst <= 0 {
		cfg.JobBurst = 1
	}

	c := &Controller{
		cfg:    cfg,
		jobSem: semaphore.NewWeighted(cfg.MaxConcurrentJobs),
	}

	if cfg.MaxCoordinates > 0 {
		c.coordSem = semaphore.NewWeighted(cfg.MaxCoordinates)
	}

	if cfg.JobsPerSecond > 0 {
		c.limiter = rate.NewLimiter(rate.Limit(cfg.JobsPerSecond), cfg.JobBurst)
	}

	return c
}

// Config returns the effective limits.
func (c *Controller) Config() Config {
	return c.cfg
}

// Acquire blocks until a job of the given size (in coordinates) may start,
// or ctx is canceled. On success the returned func must be called exactly
// once when the job ends.
//
// A job larger than MaxCoordinates is clamped to the limit, so it still runs
// but only on its own.
func (c *Controller) Acquire(ctx context.Context, coords int64) (func(), error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, err
		}
	}

	if err := c.jobSem.Acquire(ctx, 1); err != nil {
		return nil, err
	}

	coords = c.clamp(coords)
	if c.coordSem != nil && coords > 0 {
		if err := c.coordSem.Acquire(ctx, coords); err != nil {
			c.jobSem.Release(1)
			return nil, err
		}
	}

	return c.admit(coords), nil
}

// TryAcquire is Acquire without blocking. It ignores the start rate.
func (c *Controller) TryAcquire(coords int64) (func(), bool) {
	if !c.jobSem.TryAcquire(1) {
		return nil, false
	}
	coords = c.clamp(coords)
	if c.coordSem != nil && coords > 0 && !c.coordSem.TryAcquire(coords) {
		c.jobSem.Release(1)
		return nil, false
	}

	return c.admit(coords), true
}

// Running returns the number of admitted jobs that have not released yet.
func (c *Controller) Running() int64 {
	return c.running.Load()
}

// CoordinatesInUse returns the summed size of running jobs.
func (c *Controller) CoordinatesInUse() int64 {
	return c.coordUsed.Load()
}

func (c *Controller) clamp(coords int64) int64 {
	if coords < 0 {
		return 0
	}
	if c.coordSem != nil && coords > c.cfg.MaxCoordinates {
		return c.cfg.MaxCoordinates
	}
	return coords
}

// admit records a started job and returns its release func.
func (c *Controller) admit(coords int64) func() {
	c.coordUsed.Add(coords)
	c.running.Add(1)

	var released atomic.Bool
	return func() {
		if !released.CompareAndSwap(false, true) {
			return
		}
		c.running.Add(-1)
		c.coordUsed.Add(-coords)
		if c.coordSem != nil && coords > 0 {
			c.coordSem.Release(coords)
		}
		c.jobSem.Release(1)
	}
}
