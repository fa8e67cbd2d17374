package vecmath

import (
	"math"
	"math/rand"
	"time"
)

// Source supplies uniform samples in [0, 1).
// *math/rand.Rand satisfies it. A Source is not assumed to be safe for
// concurrent use; give each goroutine its own.
type Source interface {
	Float64() float64
}

// NewSource returns a seeded Source.
func NewSource(seed int64) *rand.Rand {
	return rand.New(rand.NewSource(seed)) // nolint gosec
}

// NewTimeSource returns a Source seeded from the wall clock.
func NewTimeSource() *rand.Rand {
	return NewSource(time.Now().UnixNano())
}

// RandomInBox returns a vector whose i-th coordinate is uniform in
// [min[i], max[i]).
func RandomInBox(src Source, min, max []float64) ([]float64, error) {
	if err := sameDim(min, max); err != nil {
		return nil, err
	}
	out := make([]float64, len(min))
	for i := range out {
		out[i] = min[i] + src.Float64()*(max[i]-min[i])
	}
	return out, nil
}

// maxUnitAttempts bounds RandomUnit's rejection sampling.
const maxUnitAttempts = 32

// RandomUnit returns a random direction of length 1.
//
// Circles (dim 2) and spheres (dim 3) are sampled uniformly. Other
// dimensions sample the [-1, 1) cube and normalize, which over-weights the
// cube's corners. That bias is kept as is; relaxation results depend on it.
// A source that keeps landing on the cube's center yields the first axis.
func RandomUnit(src Source, dim int) []float64 {
	switch {
	case dim <= 0:
		return []float64{}
	case dim == 1:
		if src.Float64() < 0.5 {
			return []float64{-1}
		}
		return []float64{1}
	case dim == 2:
		theta := src.Float64() * 2 * math.Pi
		return []float64{math.Cos(theta), math.Sin(theta)}
	case dim == 3:
		z := src.Float64()*2 - 1
		phi := src.Float64() * 2 * math.Pi
		r := math.Sqrt(1 - z*z)
		return []float64{r * math.Cos(phi), r * math.Sin(phi), z}
	}

	v := make([]float64, dim)
	for range maxUnitAttempts {
		for i := range v {
			v[i] = src.Float64()*2 - 1
		}
		if l := Length(v); !IsNearZero(l) {
			for i := range v {
				v[i] /= l
			}
			return v
		}
	}

	clear(v)
	v[0] = 1
	return v
}
