package vecmath

import (
	"math"

	"gonum.org/v1/gonum/floats"
)

// Epsilon is the tolerance used by IsNearZero and IsNearValue.
const Epsilon = 1e-9

// IsNearZero reports whether x is within Epsilon of zero.
func IsNearZero(x float64) bool {
	return math.Abs(x) <= Epsilon
}

// IsNearValue reports whether x and y differ by at most Epsilon.
func IsNearValue(x, y float64) bool {
	return math.Abs(x-y) <= Epsilon
}

// Length returns the Euclidean norm of v.
func Length(v []float64) float64 {
	if len(v) == 0 {
		return 0
	}
	return floats.Norm(v, 2)
}

// LengthSquared returns the squared Euclidean norm of v.
// Prefer it over Length when only comparing magnitudes.
func LengthSquared(v []float64) float64 {
	return floats.Dot(v, v)
}

// Distance returns the Euclidean distance between a and b.
func Distance(a, b []float64) (float64, error) {
	if err := sameDim(a, b); err != nil {
		return 0, err
	}
	if len(a) == 0 {
		return 0, nil
	}
	return floats.Distance(a, b, 2), nil
}

// DistanceSquared returns the squared Euclidean distance between a and b.
func DistanceSquared(a, b []float64) (float64, error) {
	if err := sameDim(a, b); err != nil {
		return 0, err
	}
	var sum float64
	for i := range a {
		d := a[i] - b[i]
		sum += d * d
	}
	return sum, nil
}

// Dot returns the dot product of a and b.
func Dot(a, b []float64) (float64, error) {
	if err := sameDim(a, b); err != nil {
		return 0, err
	}
	return floats.Dot(a, b), nil
}

// Add returns a + b.
func Add(a, b []float64) ([]float64, error) {
	if err := sameDim(a, b); err != nil {
		return nil, err
	}
	return floats.AddTo(make([]float64, len(a)), a, b), nil
}

// Subtract returns a - b.
func Subtract(a, b []float64) ([]float64, error) {
	if err := sameDim(a, b); err != nil {
		return nil, err
	}
	return floats.SubTo(make([]float64, len(a)), a, b), nil
}

// MultiplyScalar returns v * s.
func MultiplyScalar(v []float64, s float64) []float64 {
	return floats.ScaleTo(make([]float64, len(v)), s, v)
}

// DivideScalar returns v / s. Division by zero follows IEEE 754.
func DivideScalar(v []float64, s float64) []float64 {
	out := make([]float64, len(v))
	for i, x := range v {
		out[i] = x / s
	}
	return out
}

// Negate returns -v.
func Negate(v []float64) []float64 {
	return floats.ScaleTo(make([]float64, len(v)), -1, v)
}

// ToUnit returns v scaled to length 1.
//
// A zero, NaN or infinite length has no direction. In that case the result
// is all-NaN when nanIfInvalid is true and the zero vector otherwise.
func ToUnit(v []float64, nanIfInvalid bool) []float64 {
	out := make([]float64, len(v))
	l := Length(v)
	if IsNearZero(l) || math.IsNaN(l) || math.IsInf(l, 0) {
		if nanIfInvalid {
			for i := range out {
				out[i] = math.NaN()
			}
		}
		return out
	}
	return floats.ScaleTo(out, 1/l, v)
}

// Clone returns a copy of every point in points.
func Clone(points [][]float64) [][]float64 {
	if points == nil {
		return nil
	}
	out := make([][]float64, len(points))
	for i, p := range points {
		out[i] = append([]float64(nil), p...)
	}
	return out
}
