// Package vecmath provides arithmetic over N-dimensional float64 vectors.
//
// Vectors are plain []float64 slices; the dimension is the slice length and
// must match across every operand of one call. Operations return new slices
// and never mutate their inputs.
//
// # Usage
//
//	d, _ := vecmath.Distance(a, b)
//	u := vecmath.ToUnit(v, false)
//	box, _ := vecmath.AxisAlignedBounds(points)
//	p, _ := vecmath.RandomInBox(src, box.Min, box.Max)
//
// Randomness is always drawn from an explicit Source so callers can seed
// it for reproducible runs.
package vecmath
