// Package layout defines the persisted form of a relaxation problem.
//
// A Layout carries point positions together with everything either
// relaxation needs: pinned (static) indices, repulsion multipliers, spring
// constraints and an optional bounding box.
package layout

import (
	"errors"
	"fmt"

	"github.com/RoaringBitmap/roaring/v2"
	"github.com/hupe1980/relax/codec"
	"github.com/hupe1980/relax/springs"
	"github.com/hupe1980/relax/vecmath"
)

// ErrInvalidLayout is returned by Validate.
var ErrInvalidLayout = errors.New("invalid layout")

// Layout is a point set plus relaxation parameters.
type Layout struct {
	Dimension   int
	Points      [][]float64
	Pinned      *roaring.Bitmap
	Multipliers []float64
	Constraints []springs.Constraint
	Box         *vecmath.Box
	Meta        map[string]string
}

// New returns a layout over a copy of points.
func New(points [][]float64) (*Layout, error) {
	dim := 0
	if len(points) > 0 {
		dim = len(points[0])
	}
	if err := vecmath.CheckDimensions(points, dim); err != nil {
		return nil, err
	}
	return &Layout{
		Dimension: dim,
		Points:    vecmath.Clone(points),
		Pinned:    roaring.New(),
	}, nil
}

// Pin marks points as static.
func (l *Layout) Pin(indices ...int) {
	if l.Pinned == nil {
		l.Pinned = roaring.New()
	}
	for _, i := range indices {
		l.Pinned.Add(uint32(i))
	}
}

// IsPinned reports whether point i is static.
func (l *Layout) IsPinned(i int) bool {
	return l.Pinned != nil && l.Pinned.Contains(uint32(i))
}

// Multiplier returns the repulsion multiplier of point i (1 if unset).
func (l *Layout) Multiplier(i int) float64 {
	if l.Multipliers == nil {
		return 1
	}
	return l.Multipliers[i]
}

// Validate checks dimensions, indices and multiplier lengths.
func (l *Layout) Validate() error {
	if err := vecmath.CheckDimensions(l.Points, l.Dimension); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidLayout, err)
	}
	if l.Multipliers != nil && len(l.Multipliers) != len(l.Points) {
		return fmt.Errorf("%w: %d multipliers for %d points", ErrInvalidLayout, len(l.Multipliers), len(l.Points))
	}
	for i, m := range l.Multipliers {
		if m < 0 {
			return fmt.Errorf("%w: multiplier %d is negative", ErrInvalidLayout, i)
		}
	}
	if l.Pinned != nil && !l.Pinned.IsEmpty() && int(l.Pinned.Maximum()) >= len(l.Points) {
		return fmt.Errorf("%w: pinned index %d out of range", ErrInvalidLayout, l.Pinned.Maximum())
	}
	for i, c := range l.Constraints {
		if c.A < 0 || c.A >= len(l.Points) || c.B < 0 || c.B >= len(l.Points) || c.Distance < 0 {
			return fmt.Errorf("%w: constraint %d", ErrInvalidLayout, i)
		}
	}
	if l.Box != nil {
		if len(l.Box.Min) != l.Dimension || len(l.Box.Max) != l.Dimension {
			return fmt.Errorf("%w: box dimension %d, layout dimension %d", ErrInvalidLayout, len(l.Box.Min), l.Dimension)
		}
	}
	return nil
}

// Bounds returns Box when set, otherwise the bounds of the points.
func (l *Layout) Bounds() (vecmath.Box, error) {
	if l.Box != nil {
		return *l.Box, nil
	}
	return vecmath.AxisAlignedBounds(l.Points)
}

// Split separates movable from pinned points. The index slices map each
// returned point back to its position in Points.
type Split struct {
	Movable            [][]float64
	MovableIndex       []int
	MovableMultipliers []float64
	Static             [][]float64
	StaticIndex        []int
	StaticMultipliers  []float64
}

// Split partitions the layout by its pinned set.
func (l *Layout) Split() Split {
	var s Split
	for i, p := range l.Points {
		if l.IsPinned(i) {
			s.Static = append(s.Static, p)
			s.StaticIndex = append(s.StaticIndex, i)
			s.StaticMultipliers = append(s.StaticMultipliers, l.Multiplier(i))
			continue
		}
		s.Movable = append(s.Movable, p)
		s.MovableIndex = append(s.MovableIndex, i)
		s.MovableMultipliers = append(s.MovableMultipliers, l.Multiplier(i))
	}
	return s
}

// Clone returns a deep copy.
func (l *Layout) Clone() *Layout {
	out := &Layout{
		Dimension:   l.Dimension,
		Points:      vecmath.Clone(l.Points),
		Constraints: append([]springs.Constraint(nil), l.Constraints...),
	}
	if l.Pinned != nil {
		out.Pinned = l.Pinned.Clone()
	}
	if l.Multipliers != nil {
		out.Multipliers = append([]float64(nil), l.Multipliers...)
	}
	if l.Box != nil {
		box, _ := vecmath.NewBox(l.Box.Min, l.Box.Max)
		out.Box = &box
	}
	if l.Meta != nil {
		out.Meta = make(map[string]string, len(l.Meta))
		for k, v := range l.Meta {
			out.Meta[k] = v
		}
	}
	return out
}

type document struct {
	Dimension   int                  `json:"dimension"`
	Points      [][]float64          `json:"points"`
	Pinned      []byte               `json:"pinned,omitempty"`
	Multipliers []float64            `json:"multipliers,omitempty"`
	Constraints []springs.Constraint `json:"constraints,omitempty"`
	Box         *vecmath.Box         `json:"box,omitempty"`
	Meta        map[string]string    `json:"meta,omitempty"`
}

// Marshal encodes the layout with c. The pinned set is stored in roaring's
// portable binary format.
func (l *Layout) Marshal(c codec.Codec) ([]byte, error) {
	doc := document{
		Dimension:   l.Dimension,
		Points:      l.Points,
		Multipliers: l.Multipliers,
		Constraints: l.Constraints,
		Box:         l.Box,
		Meta:        l.Meta,
	}
	if l.Pinned != nil && !l.Pinned.IsEmpty() {
		pinned, err := l.Pinned.ToBytes()
		if err != nil {
			return nil, err
		}
		doc.Pinned = pinned
	}
	return c.Marshal(doc)
}

// Unmarshal decodes a layout written by Marshal.
func Unmarshal(c codec.Codec, data []byte) (*Layout, error) {
	var doc document
	if err := c.Unmarshal(data, &doc); err != nil {
		return nil, err
	}

	l := &Layout{
		Dimension:   doc.Dimension,
		Points:      doc.Points,
		Pinned:      roaring.New(),
		Multipliers: doc.Multipliers,
		Constraints: doc.Constraints,
		Box:         doc.Box,
		Meta:        doc.Meta,
	}
	if len(doc.Pinned) > 0 {
		if err := l.Pinned.UnmarshalBinary(doc.Pinned); err != nil {
			return nil, fmt.Errorf("%w: pinned set: %w", ErrInvalidLayout, err)
		}
	}
	return l, nil
}
