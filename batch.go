package relax

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/hupe1980/relax/evendist"
	"github.com/hupe1980/relax/layout"
	"github.com/hupe1980/relax/springs"
	"github.com/hupe1980/relax/vecmath"
	"golang.org/x/sync/errgroup"
)

// Job is one independent relaxation in a batch.
type Job struct {
	// ID names the job in logs and errors. Empty IDs are replaced with a
	// random UUID.
	ID     string
	Layout *layout.Layout
	Mode   Mode

	// Springs and EvenDistribution tune the solver selected by Mode.
	Springs          []springs.Option
	EvenDistribution []evendist.Option
}

// JobResult is the outcome of a successful job.
type JobResult struct {
	ID         string
	Layout     *layout.Layout
	Iterations int
	// Converged is always true for ModeSprings, which runs a fixed
	// iteration count.
	Converged bool
	Duration  time.Duration
}

// RunBatch runs independent jobs concurrently, bounded by the engine's
// concurrency, rate and size limits. Results are returned in job order.
//
// Every job draws from its own random source, so a seeded engine produces
// the same results regardless of scheduling. The first failing job cancels
// the remaining ones; its error is returned as a *JobError together with the
// results of jobs that had already finished.
func (e *Engine) RunBatch(ctx context.Context, jobs []Job) ([]JobResult, error) {
	start := time.Now()
	jobs = append([]Job(nil), jobs...)
	results := make([]JobResult, len(jobs))

	// Seeds are drawn up front so they do not depend on goroutine order.
	sources := make([]vecmath.Source, len(jobs))
	for i := range jobs {
		sources[i] = e.jobSource(i)
		if jobs[i].ID == "" {
			jobs[i].ID = uuid.NewString()
		}
	}

	var done atomic.Int64
	g, gctx := errgroup.WithContext(ctx)
	for i := range jobs {
		job := jobs[i]
		g.Go(func() error {
			release, err := e.ctrl.Acquire(gctx, jobSize(job.Layout))
			if err != nil {
				return &JobError{Index: i, ID: job.ID, cause: err}
			}
			defer release()

			res, err := e.runJob(gctx, sources[i], job)
			if err != nil {
				e.opts.logger.WithJob(job.ID).WarnContext(gctx, "job failed", "index", i, "error", err)
				return &JobError{Index: i, ID: job.ID, cause: err}
			}
			results[i] = res
			done.Add(1)
			return nil
		})
	}

	err := g.Wait()
	took := time.Since(start)
	failed := len(jobs) - int(done.Load())

	e.opts.metrics.RecordBatch(len(jobs), failed, took)
	e.opts.logger.LogBatch(ctx, len(jobs), failed, took)
	return results, err
}

func (e *Engine) jobSource(i int) vecmath.Source {
	if e.opts.seeded {
		return vecmath.NewSource(e.opts.seed + int64(i))
	}
	return e.nextSource()
}

func jobSize(l *layout.Layout) int64 {
	if l == nil {
		return 0
	}
	return int64(len(l.Points)) * int64(max(l.Dimension, 1))
}
