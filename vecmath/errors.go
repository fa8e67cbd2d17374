package vecmath

import (
	"errors"
	"fmt"
)

// ErrEmptyInput is returned when an operation needs at least one point.
var ErrEmptyInput = errors.New("empty point set")

// ErrDimensionMismatch indicates operands of different lengths.
type ErrDimensionMismatch struct {
	Expected int
	Actual   int
}

func (e *ErrDimensionMismatch) Error() string {
	return fmt.Sprintf("dimension mismatch: expected %d, got %d", e.Expected, e.Actual)
}

func sameDim(a, b []float64) error {
	if len(a) != len(b) {
		return &ErrDimensionMismatch{Expected: len(a), Actual: len(b)}
	}
	return nil
}

// CheckDimensions verifies that every point has exactly dim coordinates.
func CheckDimensions(points [][]float64, dim int) error {
	for _, p := range points {
		if len(p) != dim {
			return &ErrDimensionMismatch{Expected: dim, Actual: len(p)}
		}
	}
	return nil
}
