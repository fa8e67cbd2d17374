package evendist

import (
	"errors"

	"github.com/hupe1980/relax/vecmath"
)

const (
	DefaultMaxIterations     = 1000
	DefaultMovePercent       = 0.1
	DefaultStopRadiusPercent = 0.004
)

// ErrInvalidOptions is returned for negative iteration counts or percents.
var ErrInvalidOptions = errors.New("invalid evendist options")

// Options tunes the relaxation loop.
type Options struct {
	MaxIterations     int
	MovePercent       float64
	StopRadiusPercent float64

	// Source seeds random placement and coincident-point separation.
	// If nil, a clock-seeded source is created per call.
	Source vecmath.Source
}

// DefaultOptions returns the defaults used by Distribute.
func DefaultOptions() Options {
	return Options{
		MaxIterations:     DefaultMaxIterations,
		MovePercent:       DefaultMovePercent,
		StopRadiusPercent: DefaultStopRadiusPercent,
	}
}

// Option configures Options.
type Option func(*Options)

// WithMaxIterations caps the number of iterations.
func WithMaxIterations(n int) Option {
	return func(o *Options) {
		o.MaxIterations = n
	}
}

// WithMovePercent sets the fraction of the tightest pair's gap to the
// average that the pair moves per iteration.
func WithMovePercent(p float64) Option {
	return func(o *Options) {
		o.MovePercent = p
	}
}

// WithStopRadiusPercent sets the stop radius as a fraction of the box's
// half diagonal. Relaxation converges once no point moves farther. Zero
// runs until the points stop moving or the budget is spent.
func WithStopRadiusPercent(p float64) Option {
	return func(o *Options) {
		o.StopRadiusPercent = p
	}
}

// WithSource sets the random source.
func WithSource(src vecmath.Source) Option {
	return func(o *Options) {
		o.Source = src
	}
}

func applyOptions(optFns []Option) (Options, error) {
	o := DefaultOptions()
	for _, fn := range optFns {
		if fn != nil {
			fn(&o)
		}
	}

	if o.MaxIterations < 0 || o.MovePercent < 0 || o.StopRadiusPercent < 0 {
		return o, ErrInvalidOptions
	}
	if o.Source == nil {
		o.Source = vecmath.NewTimeSource()
	}
	return o, nil
}
