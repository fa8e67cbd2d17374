package springs

import (
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/hupe1980/relax/vecmath"
	"gonum.org/v1/gonum/floats"
)

// ErrInvalidConstraint is returned for constraints referencing missing
// points or carrying a negative distance.
var ErrInvalidConstraint = errors.New("invalid distance constraint")

// Constraint asks for points A and B to be Distance apart.
type Constraint struct {
	A        int     `json:"a"`
	B        int     `json:"b"`
	Distance float64 `json:"distance"`
}

// Relax runs the configured number of iterations over a copy of positions
// and returns the relaxed copy.
func Relax(ctx context.Context, positions [][]float64, constraints []Constraint, optFns ...Option) ([][]float64, error) {
	opts, err := applyOptions(optFns)
	if err != nil {
		return nil, err
	}

	s, err := newSolver(positions, constraints, opts)
	if err != nil {
		return nil, err
	}

	for iter := 0; iter < opts.Iterations; iter++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		s.step()
	}

	return s.pos, nil
}

// Step performs a single iteration on a copy of positions.
// It is meant for callers that drive relaxation from their own loop.
func Step(positions [][]float64, constraints []Constraint, optFns ...Option) ([][]float64, error) {
	opts, err := applyOptions(optFns)
	if err != nil {
		return nil, err
	}

	s, err := newSolver(positions, constraints, opts)
	if err != nil {
		return nil, err
	}
	s.step()
	return s.pos, nil
}

type solver struct {
	opts        Options
	dim         int
	pos         [][]float64
	moves       [][]float64
	line        []float64
	center      []float64
	constraints []Constraint
}

func newSolver(positions [][]float64, constraints []Constraint, opts Options) (*solver, error) {
	dim := 0
	if len(positions) > 0 {
		dim = len(positions[0])
	}
	if err := vecmath.CheckDimensions(positions, dim); err != nil {
		return nil, err
	}

	for i, c := range constraints {
		if c.A < 0 || c.A >= len(positions) || c.B < 0 || c.B >= len(positions) {
			return nil, fmt.Errorf("%w: constraint %d references (%d, %d) with %d points", ErrInvalidConstraint, i, c.A, c.B, len(positions))
		}
		if c.Distance < 0 || math.IsNaN(c.Distance) {
			return nil, fmt.Errorf("%w: constraint %d has distance %v", ErrInvalidConstraint, i, c.Distance)
		}
	}

	moves := make([][]float64, len(positions))
	for i := range moves {
		moves[i] = make([]float64, dim)
	}

	return &solver{
		opts:        opts,
		dim:         dim,
		pos:         vecmath.Clone(positions),
		moves:       moves,
		line:        make([]float64, dim),
		center:      make([]float64, dim),
		constraints: constraints,
	}, nil
}

func (s *solver) isFixed(i int) bool {
	return s.opts.Fixed != nil && s.opts.Fixed.Contains(uint32(i))
}

func (s *solver) step() {
	if len(s.pos) == 0 {
		return
	}

	for _, m := range s.moves {
		clear(m)
	}

	for _, c := range s.constraints {
		line := floats.SubTo(s.line, s.pos[c.B], s.pos[c.A])
		length := vecmath.Length(line)
		difference := (c.Distance - length) * s.opts.StepMultiplier

		var dir []float64
		if vecmath.IsNearZero(length) {
			if vecmath.IsNearZero(difference) {
				continue
			}
			dir = vecmath.RandomUnit(s.opts.Source, s.dim)
		} else {
			floats.Scale(1/length, line)
			dir = line
		}

		// A moves toward B when the spring is too long and away from it
		// when too short; B receives the opposite move.
		mag := math.Abs(difference)
		if difference > 0 {
			mag = -mag
		}
		floats.AddScaled(s.moves[c.A], mag, dir)
		floats.AddScaled(s.moves[c.B], -mag, dir)
	}

	// Without anchors the cloud is free to drift; pull its centroid back
	// toward the origin. Pinned points already anchor it.
	pull := s.opts.Fixed == nil || s.opts.Fixed.IsEmpty()
	if pull {
		clear(s.center)
		for _, p := range s.pos {
			floats.Add(s.center, p)
		}
		floats.Scale(s.opts.StepMultiplier*centerPull/float64(len(s.pos)), s.center)
	}

	maxSq := s.opts.MaxSpeed * s.opts.MaxSpeed
	for i, m := range s.moves {
		if s.isFixed(i) {
			continue
		}
		if pull {
			floats.Add(m, s.center)
		}
		if lsq := vecmath.LengthSquared(m); lsq > maxSq {
			floats.Scale(s.opts.MaxSpeed/math.Sqrt(lsq), m)
		}
		floats.Add(s.pos[i], m)
	}
}
