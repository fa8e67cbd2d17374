package relax

import (
	"context"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/hupe1980/relax/evendist"
	"github.com/hupe1980/relax/layout"
	"github.com/hupe1980/relax/resource"
	"github.com/hupe1980/relax/springs"
	"github.com/hupe1980/relax/vecmath"
)

// Mode selects the relaxation algorithm applied to a layout.
type Mode int

const (
	// ModeSprings runs the ball-of-springs solver over the layout's
	// constraints. Pinned points stay fixed.
	ModeSprings Mode = iota
	// ModeEvenDistribution spreads the unpinned points inside the layout's
	// box. Pinned points repel but never move.
	ModeEvenDistribution
)

func (m Mode) String() string {
	switch m {
	case ModeSprings:
		return "springs"
	case ModeEvenDistribution:
		return "evendist"
	default:
		return fmt.Sprintf("Mode(%d)", int(m))
	}
}

// Engine runs relaxations with shared logging, metrics, admission control
// and optional snapshot storage. It is safe for concurrent use.
type Engine struct {
	opts options
	ctrl *resource.Controller

	mu  sync.Mutex
	rng *rand.Rand // derives per-call seeds; guarded by mu
}

// New creates an Engine.
func New(optFns ...Option) *Engine {
	o := applyOptions(optFns)

	seed := time.Now().UnixNano()
	if o.seeded {
		seed = o.seed
	}

	return &Engine{
		opts: o,
		ctrl: resource.NewController(resource.Config{
			MaxConcurrentJobs: int64(o.maxConcurrency),
			JobsPerSecond:     o.jobRate,
			JobBurst:          o.jobBurst,
			MaxCoordinates:    o.maxCoordinates,
		}),
		rng: vecmath.NewSource(seed),
	}
}

// Logger returns the engine's logger.
func (e *Engine) Logger() *Logger {
	return e.opts.logger
}

// nextSource returns a fresh source for one call. Sequential calls on a
// seeded engine are reproducible.
func (e *Engine) nextSource() vecmath.Source {
	e.mu.Lock()
	defer e.mu.Unlock()
	return vecmath.NewSource(e.rng.Int63())
}

// Springs relaxes positions under distance constraints.
// Options passed here override the engine's random source.
func (e *Engine) Springs(ctx context.Context, positions [][]float64, constraints []springs.Constraint, optFns ...springs.Option) ([][]float64, error) {
	out, _, err := e.springs(ctx, e.nextSource(), positions, constraints, optFns)
	return out, err
}

func (e *Engine) springs(ctx context.Context, src vecmath.Source, positions [][]float64, constraints []springs.Constraint, optFns []springs.Option) ([][]float64, int, error) {
	optFns = append([]springs.Option{springs.WithSource(src)}, optFns...)

	// Iterations are only known after the options are applied.
	o := springs.DefaultOptions()
	for _, fn := range optFns {
		if fn != nil {
			fn(&o)
		}
	}

	start := time.Now()
	out, err := springs.Relax(ctx, positions, constraints, optFns...)
	took := time.Since(start)

	e.opts.metrics.RecordRelax(ModeSprings, len(positions), o.Iterations, took, err)
	e.opts.logger.LogRelax(ctx, ModeSprings, len(positions), o.Iterations, err == nil, took, err)
	return out, o.Iterations, err
}

// Distribute spreads points evenly inside a box.
// Options passed here override the engine's random source.
func (e *Engine) Distribute(ctx context.Context, in evendist.Input, optFns ...evendist.Option) (*evendist.Result, error) {
	return e.distribute(ctx, e.nextSource(), in, optFns)
}

func (e *Engine) distribute(ctx context.Context, src vecmath.Source, in evendist.Input, optFns []evendist.Option) (*evendist.Result, error) {
	optFns = append([]evendist.Option{evendist.WithSource(src)}, optFns...)

	points := in.Count + len(in.Static)
	if in.Initial != nil {
		points = len(in.Initial) + len(in.Static)
	}

	start := time.Now()
	res, err := evendist.Distribute(ctx, in, optFns...)
	took := time.Since(start)

	var (
		iterations int
		converged  bool
	)
	if res != nil {
		iterations, converged = res.Iterations, res.Converged
	}
	e.opts.metrics.RecordRelax(ModeEvenDistribution, points, iterations, took, err)
	e.opts.logger.LogRelax(ctx, ModeEvenDistribution, points, iterations, converged, took, err)
	return res, err
}

// RelaxLayout relaxes a copy of l with default solver settings and returns
// the copy. l is not modified.
func (e *Engine) RelaxLayout(ctx context.Context, l *layout.Layout, mode Mode) (*layout.Layout, error) {
	res, err := e.runJob(ctx, e.nextSource(), Job{Layout: l, Mode: mode})
	if err != nil {
		return nil, err
	}
	return res.Layout, nil
}

func (e *Engine) runJob(ctx context.Context, src vecmath.Source, job Job) (JobResult, error) {
	res := JobResult{ID: job.ID}
	if job.Layout == nil {
		return res, fmt.Errorf("%w: nil layout", ErrInvalidLayout)
	}
	if err := job.Layout.Validate(); err != nil {
		return res, err
	}

	out := job.Layout.Clone()
	start := time.Now()

	switch job.Mode {
	case ModeSprings:
		optFns := job.Springs
		if out.Pinned != nil && !out.Pinned.IsEmpty() {
			optFns = append([]springs.Option{springs.WithFixed(out.Pinned)}, optFns...)
		}
		pos, iterations, err := e.springs(ctx, src, out.Points, out.Constraints, optFns)
		if err != nil {
			return res, err
		}
		out.Points = pos
		res.Iterations = iterations
		res.Converged = true

	case ModeEvenDistribution:
		box, err := out.Bounds()
		if err != nil {
			return res, fmt.Errorf("%w: %w", ErrInvalidLayout, err)
		}
		split := out.Split()
		in := evendist.Input{
			Initial: split.Movable,
			Static:  split.Static,
			Box:     box,
		}
		if out.Multipliers != nil {
			in.MovableMultipliers = split.MovableMultipliers
			in.StaticMultipliers = split.StaticMultipliers
		}
		r, err := e.distribute(ctx, src, in, job.EvenDistribution)
		if err != nil {
			return res, err
		}
		for k, idx := range split.MovableIndex {
			out.Points[idx] = r.Positions[k]
		}
		res.Iterations = r.Iterations
		res.Converged = r.Converged

	default:
		return res, fmt.Errorf("%w: %v", ErrInvalidMode, job.Mode)
	}

	res.Layout = out
	res.Duration = time.Since(start)
	return res, nil
}
