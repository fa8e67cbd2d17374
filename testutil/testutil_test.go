package testutil

import (
	"math"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestUniformPoints(t *testing.T) {
	rng := NewRNG(4711)

	p := rng.UniformPoints(8, 3)

	assert.Len(t, p, 8)
	assert.Len(t, p[0], 3)
	assert.True(t, AllInBox(p, []float64{0, 0, 0}, []float64{1, 1, 1}))

	// Rows share a backing array but must not alias on append.
	p[0] = append(p[0], 9)
	assert.NotEqual(t, 9.0, p[1][0])
}

func TestBoxPoints(t *testing.T) {
	rng := NewRNG(4711)
	minVal, maxVal := []float64{-2, 10}, []float64{-1, 20}

	p := rng.BoxPoints(50, minVal, maxVal)
	assert.Len(t, p, 50)
	assert.True(t, AllInBox(p, minVal, maxVal))
}

func TestUnitVector(t *testing.T) {
	rng := NewRNG(4711)
	for _, dim := range []int{1, 2, 7} {
		v := rng.UnitVector(dim)
		var sum float64
		for _, x := range v {
			sum += x * x
		}
		assert.InDelta(t, 1.0, sum, 1e-12)
	}
}

func TestClusteredPoints(t *testing.T) {
	rng := NewRNG(4711)
	p := rng.ClusteredPoints(100, 2, 5, 0.01)
	assert.Len(t, p, 100)
	assert.Len(t, p[0], 2)
}

func TestGridPoints(t *testing.T) {
	rng := NewRNG(1)
	p := rng.GridPoints(9, 2, 0.5)
	assert.Equal(t, []float64{0, 0}, p[0])
	assert.Equal(t, []float64{0.5, 0}, p[1])
	assert.Equal(t, []float64{0, 0.5}, p[3])
	assert.Equal(t, []float64{1, 1}, p[8])
	assert.InDelta(t, 0.5, MinPairDistance(p), 1e-12)
}

func TestMinPairDistance(t *testing.T) {
	assert.True(t, math.IsInf(MinPairDistance(nil), 1))
	assert.True(t, math.IsInf(MinPairDistance([][]float64{{1}}), 1))
	assert.InDelta(t, 5.0, MinPairDistance([][]float64{{0, 0}, {3, 4}, {10, 10}}), 1e-12)
}

func TestReset(t *testing.T) {
	rng := NewRNG(4711)
	p1 := rng.UniformPoints(1, 10)

	rng.Reset()
	p2 := rng.UniformPoints(1, 10)

	assert.Equal(t, p1, p2)
	assert.Equal(t, int64(4711), rng.Seed())
}

func TestConcurrentUse(t *testing.T) {
	rng := NewRNG(4711)

	var wg sync.WaitGroup
	for range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for range 100 {
				f := rng.Float64()
				assert.True(t, f >= 0 && f < 1)
				_ = rng.Intn(10)
			}
		}()
	}
	wg.Wait()
}
