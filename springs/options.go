package springs

import (
	"errors"

	"github.com/RoaringBitmap/roaring/v2"
	"github.com/hupe1980/relax/vecmath"
)

// ErrInvalidOptions is returned for non-positive speeds or negative counts.
var ErrInvalidOptions = errors.New("invalid springs options")

const (
	DefaultIterations     = 1000
	DefaultStepMultiplier = 0.005
	DefaultMaxSpeed       = 0.05

	// centerPull scales StepMultiplier into the per-iteration fraction of
	// the centroid offset that is removed from every point.
	centerPull = -5
)

// Options configures a relaxation run.
type Options struct {
	// Iterations is the fixed number of steps Relax performs.
	Iterations int

	// StepMultiplier scales the distance error of a spring into a move.
	StepMultiplier float64

	// MaxSpeed caps the length of a point's net move per step.
	MaxSpeed float64

	// Source provides randomness for separating coincident points.
	// If nil, a clock-seeded source is created per call.
	Source vecmath.Source

	// Fixed holds indices of points that never move.
	Fixed *roaring.Bitmap
}

// DefaultOptions returns the defaults used by Relax.
func DefaultOptions() Options {
	return Options{
		Iterations:     DefaultIterations,
		StepMultiplier: DefaultStepMultiplier,
		MaxSpeed:       DefaultMaxSpeed,
	}
}

// Option configures Options.
type Option func(*Options)

// WithIterations sets the number of steps.
func WithIterations(n int) Option {
	return func(o *Options) {
		o.Iterations = n
	}
}

// WithStepMultiplier sets the spring step multiplier.
func WithStepMultiplier(m float64) Option {
	return func(o *Options) {
		o.StepMultiplier = m
	}
}

// WithMaxSpeed sets the per-step move cap.
func WithMaxSpeed(s float64) Option {
	return func(o *Options) {
		o.MaxSpeed = s
	}
}

// WithSource sets the random source.
func WithSource(src vecmath.Source) Option {
	return func(o *Options) {
		o.Source = src
	}
}

// WithFixed pins the points whose indices are in fixed.
// Pinned points still pull on their partners.
func WithFixed(fixed *roaring.Bitmap) Option {
	return func(o *Options) {
		o.Fixed = fixed
	}
}

func applyOptions(optFns []Option) (Options, error) {
	o := DefaultOptions()
	for _, fn := range optFns {
		if fn != nil {
			fn(&o)
		}
	}

	if o.Iterations < 0 || o.StepMultiplier < 0 || o.MaxSpeed <= 0 {
		return o, ErrInvalidOptions
	}
	if o.Source == nil {
		o.Source = vecmath.NewTimeSource()
	}
	return o, nil
}
