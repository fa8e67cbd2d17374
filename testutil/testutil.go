package testutil

import (
	"math"
	"math/rand"
	"sync"
)

// RNG struct encapsulates the random number generator and seed.
// It is thread-safe.
type RNG struct {
	rand *rand.Rand
	seed int64
	mu   sync.Mutex
}

// NewRNG creates a new RNG instance with the specified seed.
func NewRNG(seed int64) *RNG {
	return &RNG{
		rand: rand.New(rand.NewSource(seed)), // nolint gosec
		seed: seed,
	}
}

// Reset resets the RNG to its initial seed.
func (r *RNG) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rand.Seed(r.seed)
}

// Seed returns the initial seed.
func (r *RNG) Seed() int64 {
	return r.seed
}

// Intn returns a non-negative pseudo-random number in [0,n).
func (r *RNG) Intn(n int) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rand.Intn(n)
}

// Float64 returns a pseudo-random number in [0.0,1.0).
func (r *RNG) Float64() float64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rand.Float64()
}

// UniformPoints generates points with coordinates in [0, 1).
// Uses a single backing array for efficiency.
func (r *RNG) UniformPoints(num, dim int) [][]float64 {
	r.mu.Lock()
	defer r.mu.Unlock()

	data := make([]float64, num*dim)
	points := make([][]float64, num)
	for i := range num {
		p := data[i*dim : (i+1)*dim : (i+1)*dim]
		for j := range p {
			p[j] = r.rand.Float64()
		}
		points[i] = p
	}
	return points
}

// BoxPoints generates points uniformly inside [minVal, maxVal) per axis.
func (r *RNG) BoxPoints(num int, minVal, maxVal []float64) [][]float64 {
	r.mu.Lock()
	defer r.mu.Unlock()

	points := make([][]float64, num)
	for i := range num {
		p := make([]float64, len(minVal))
		for j := range p {
			p[j] = minVal[j] + r.rand.Float64()*(maxVal[j]-minVal[j])
		}
		points[i] = p
	}
	return points
}

// UnitVector generates a single random direction of unit length.
func (r *RNG) UnitVector(dim int) []float64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.unitVectorLocked(dim)
}

func (r *RNG) unitVectorLocked(dim int) []float64 {
	v := make([]float64, dim)
	var norm float64
	for j := range v {
		v[j] = r.rand.NormFloat64()
		norm += v[j] * v[j]
	}
	if norm == 0 {
		norm = 1
	}
	inv := 1 / math.Sqrt(norm)
	for j := range v {
		v[j] *= inv
	}
	return v
}

// ClusteredPoints generates points around random centers in [0, 1)^dim.
// spread is the standard deviation of the Gaussian noise.
func (r *RNG) ClusteredPoints(num, dim, clusters int, spread float64) [][]float64 {
	centers := r.UniformPoints(clusters, dim)

	r.mu.Lock()
	defer r.mu.Unlock()

	points := make([][]float64, num)
	for i := range num {
		c := centers[i%clusters]
		p := make([]float64, dim)
		for j := range p {
			p[j] = c[j] + r.rand.NormFloat64()*spread
		}
		points[i] = p
	}
	return points
}

// GridPoints lays num points on a regular lattice with the given spacing,
// filling axis 0 first. It draws no random numbers.
func (r *RNG) GridPoints(num, dim int, spacing float64) [][]float64 {
	side := 1
	if dim > 0 {
		side = int(math.Ceil(math.Pow(float64(num), 1/float64(dim))))
	}
	points := make([][]float64, num)
	for i := range num {
		p := make([]float64, dim)
		k := i
		for j := range p {
			p[j] = float64(k%side) * spacing
			k /= side
		}
		points[i] = p
	}
	return points
}

// MinPairDistance returns the smallest distance between any two points,
// or +Inf for fewer than two points.
func MinPairDistance(points [][]float64) float64 {
	best := math.Inf(1)
	for i := range points {
		for j := i + 1; j < len(points); j++ {
			var sum float64
			for k := range points[i] {
				d := points[i][k] - points[j][k]
				sum += d * d
			}
			best = math.Min(best, math.Sqrt(sum))
		}
	}
	return best
}

// AllInBox reports whether every point lies inside [minVal, maxVal].
func AllInBox(points [][]float64, minVal, maxVal []float64) bool {
	for _, p := range points {
		for k, v := range p {
			if v < minVal[k] || v > maxVal[k] {
				return false
			}
		}
	}
	return true
}
