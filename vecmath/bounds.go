package vecmath

import (
	"math"

	"gonum.org/v1/gonum/floats"
)

// Box is an axis-aligned bounding box. Min[i] <= Max[i] is assumed.
type Box struct {
	Min []float64 `json:"min"`
	Max []float64 `json:"max"`
}

// NewBox returns a box spanning min and max.
func NewBox(min, max []float64) (Box, error) {
	if err := sameDim(min, max); err != nil {
		return Box{}, err
	}
	return Box{
		Min: append([]float64(nil), min...),
		Max: append([]float64(nil), max...),
	}, nil
}

// Dimension returns the number of coordinates of the box.
func (b Box) Dimension() int {
	return len(b.Min)
}

// Size returns Max - Min.
func (b Box) Size() []float64 {
	return floats.SubTo(make([]float64, len(b.Min)), b.Max, b.Min)
}

// Diagonal returns the length of the box diagonal.
func (b Box) Diagonal() float64 {
	return Length(b.Size())
}

// Contains reports whether v lies inside the box, bounds included.
func (b Box) Contains(v []float64) bool {
	if len(v) != len(b.Min) {
		return false
	}
	for i, x := range v {
		if x < b.Min[i] || x > b.Max[i] {
			return false
		}
	}
	return true
}

// Clamp returns a copy of v with each coordinate limited to the box.
func (b Box) Clamp(v []float64) []float64 {
	out := append([]float64(nil), v...)
	b.ClampInPlace(out)
	return out
}

// ClampInPlace limits each coordinate of v to the box and reports whether
// anything changed.
func (b Box) ClampInPlace(v []float64) bool {
	changed := false
	for i := range v {
		switch {
		case v[i] < b.Min[i]:
			v[i] = b.Min[i]
			changed = true
		case v[i] > b.Max[i]:
			v[i] = b.Max[i]
			changed = true
		}
	}
	return changed
}

// AxisAlignedBounds returns the per-coordinate min and max of points.
func AxisAlignedBounds(points [][]float64) (Box, error) {
	if len(points) == 0 {
		return Box{}, ErrEmptyInput
	}
	dim := len(points[0])
	if err := CheckDimensions(points, dim); err != nil {
		return Box{}, err
	}

	min := make([]float64, dim)
	max := make([]float64, dim)
	for i := range min {
		min[i] = math.Inf(1)
		max[i] = math.Inf(-1)
	}
	for _, p := range points {
		for i, x := range p {
			min[i] = math.Min(min[i], x)
			max[i] = math.Max(max[i], x)
		}
	}
	return Box{Min: min, Max: max}, nil
}

// Center returns the arithmetic mean of points.
func Center(points [][]float64) ([]float64, error) {
	if len(points) == 0 {
		return nil, ErrEmptyInput
	}
	dim := len(points[0])
	if err := CheckDimensions(points, dim); err != nil {
		return nil, err
	}

	sum := make([]float64, dim)
	for _, p := range points {
		floats.Add(sum, p)
	}
	floats.Scale(1/float64(len(points)), sum)
	return sum, nil
}
