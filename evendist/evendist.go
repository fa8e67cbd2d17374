package evendist

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sort"

	"github.com/hupe1980/relax/vecmath"
	"gonum.org/v1/gonum/floats"
)

// ErrInvalidInput is returned for malformed inputs such as a negative count,
// a missing box or a negative multiplier.
var ErrInvalidInput = errors.New("invalid evendist input")

// ErrMultiplierMismatch indicates a multiplier slice whose length differs
// from the point set it weights.
type ErrMultiplierMismatch struct {
	Set      string // "movable" or "static"
	Expected int
	Actual   int
}

func (e *ErrMultiplierMismatch) Error() string {
	return fmt.Sprintf("%s multipliers: expected %d, got %d", e.Set, e.Expected, e.Actual)
}

// Input describes one distribution problem.
type Input struct {
	// Count is the number of movable points to place at random.
	// Ignored when Initial is set, unless it disagrees with len(Initial).
	Count int

	// Initial seeds the movable points. Nil means random placement.
	Initial [][]float64

	// Static points repel but never move. They are not returned.
	Static [][]float64

	// Box bounds every point.
	Box vecmath.Box

	// MovableMultipliers and StaticMultipliers weight repulsion per point.
	// Nil means 1 for every point.
	MovableMultipliers []float64
	StaticMultipliers  []float64
}

// Result holds the relaxed movable points in input order.
type Result struct {
	Positions  [][]float64
	Iterations int
	Converged  bool
	// MaxMove is the largest single displacement of the last iteration.
	MaxMove float64
}

type point struct {
	pos    []float64
	static bool
	mult   float64
}

type pair struct {
	i, j   int
	length float64
	ratio  float64
	dir    []float64 // unit vector from i to j, nil when coincident
}

// Distribute spreads the movable points of in until they converge or the
// iteration budget is spent.
func Distribute(ctx context.Context, in Input, optFns ...Option) (*Result, error) {
	opts, err := applyOptions(optFns)
	if err != nil {
		return nil, err
	}

	points, movable, err := setup(in, opts.Source)
	if err != nil {
		return nil, err
	}

	diag := in.Box.Diagonal()
	d := &distributor{
		opts:       opts,
		box:        in.Box,
		points:     points,
		stopRadius: opts.StopRadiusPercent * diag / 2,
		// Coincident points need a push that does not vanish with a zero
		// stop radius. Only a zero-size box can still hold them together.
		separation: math.Max(opts.StopRadiusPercent*diag, DefaultStopRadiusPercent*diag),
	}

	res := &Result{}
	if movable > 0 {
		for res.Iterations < opts.MaxIterations {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			res.Iterations++

			maxMove, coincident := d.iterate()
			res.MaxMove = maxMove
			if !coincident && (maxMove == 0 || maxMove < d.stopRadius) {
				res.Converged = true
				break
			}
		}
	} else {
		res.Converged = true
	}

	res.Positions = make([][]float64, movable)
	for i := range res.Positions {
		res.Positions[i] = points[i].pos
	}
	return res, nil
}

func setup(in Input, src vecmath.Source) ([]point, int, error) {
	dim := in.Box.Dimension()
	if dim == 0 {
		return nil, 0, fmt.Errorf("%w: box is required", ErrInvalidInput)
	}
	if len(in.Box.Max) != dim {
		return nil, 0, &vecmath.ErrDimensionMismatch{Expected: dim, Actual: len(in.Box.Max)}
	}

	movable := in.Count
	if in.Initial != nil {
		if in.Count != 0 && in.Count != len(in.Initial) {
			return nil, 0, fmt.Errorf("%w: count %d disagrees with %d initial points", ErrInvalidInput, in.Count, len(in.Initial))
		}
		movable = len(in.Initial)
	}
	if movable < 0 {
		return nil, 0, fmt.Errorf("%w: negative count %d", ErrInvalidInput, movable)
	}

	if in.MovableMultipliers != nil && len(in.MovableMultipliers) != movable {
		return nil, 0, &ErrMultiplierMismatch{Set: "movable", Expected: movable, Actual: len(in.MovableMultipliers)}
	}
	if in.StaticMultipliers != nil && len(in.StaticMultipliers) != len(in.Static) {
		return nil, 0, &ErrMultiplierMismatch{Set: "static", Expected: len(in.Static), Actual: len(in.StaticMultipliers)}
	}
	if err := vecmath.CheckDimensions(in.Initial, dim); err != nil {
		return nil, 0, err
	}
	if err := vecmath.CheckDimensions(in.Static, dim); err != nil {
		return nil, 0, err
	}

	points := make([]point, 0, movable+len(in.Static))
	for i := 0; i < movable; i++ {
		var pos []float64
		if in.Initial != nil {
			pos = append([]float64(nil), in.Initial[i]...)
		} else {
			var err error
			if pos, err = vecmath.RandomInBox(src, in.Box.Min, in.Box.Max); err != nil {
				return nil, 0, err
			}
		}
		m, err := multiplier(in.MovableMultipliers, i)
		if err != nil {
			return nil, 0, err
		}
		points = append(points, point{pos: pos, mult: m})
	}
	for i, s := range in.Static {
		m, err := multiplier(in.StaticMultipliers, i)
		if err != nil {
			return nil, 0, err
		}
		points = append(points, point{pos: append([]float64(nil), s...), static: true, mult: m})
	}

	for _, p := range points {
		in.Box.ClampInPlace(p.pos)
	}
	return points, movable, nil
}

func multiplier(mults []float64, i int) (float64, error) {
	if mults == nil {
		return 1, nil
	}
	m := mults[i]
	if m < 0 || math.IsNaN(m) || math.IsInf(m, 0) {
		return 0, fmt.Errorf("%w: multiplier %d is %v", ErrInvalidInput, i, m)
	}
	return m, nil
}

type distributor struct {
	opts       Options
	box        vecmath.Box
	points     []point
	stopRadius float64
	separation float64
}

// closestPairs returns, for every point, the partner with the smallest
// weighted separation. A pair found from both ends is returned once.
func (d *distributor) closestPairs() []pair {
	n := len(d.points)
	best := make([]int, n)
	bestRatio := make([]float64, n)
	bestLen := make([]float64, n)
	for i := range best {
		best[i] = -1
		bestRatio[i] = math.Inf(1)
	}

	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			if d.points[i].static && d.points[j].static {
				continue
			}
			avgMult := (d.points[i].mult + d.points[j].mult) / 2
			if avgMult <= 0 {
				continue
			}
			length := floats.Distance(d.points[i].pos, d.points[j].pos, 2)
			ratio := length / avgMult

			if ratio < bestRatio[i] {
				best[i], bestRatio[i], bestLen[i] = j, ratio, length
			}
			if ratio < bestRatio[j] {
				best[j], bestRatio[j], bestLen[j] = i, ratio, length
			}
		}
	}

	seen := make(map[[2]int]struct{}, n)
	pairs := make([]pair, 0, n)
	for i, j := range best {
		if j < 0 {
			continue
		}
		a, b := min(i, j), max(i, j)
		if _, ok := seen[[2]int{a, b}]; ok {
			continue
		}
		seen[[2]int{a, b}] = struct{}{}

		p := pair{i: a, j: b, length: bestLen[i], ratio: bestRatio[i]}
		if !vecmath.IsNearZero(p.length) {
			p.dir = floats.SubTo(make([]float64, len(d.box.Min)), d.points[b].pos, d.points[a].pos)
			floats.Scale(1/p.length, p.dir)
		}
		pairs = append(pairs, p)
	}
	return pairs
}

// iterate moves every below-average pair apart once. It returns the
// largest displacement applied and whether a coincident pair was seen.
func (d *distributor) iterate() (float64, bool) {
	pairs := d.closestPairs()
	if len(pairs) == 0 {
		return 0, false
	}

	sort.Slice(pairs, func(a, b int) bool {
		return pairs[a].ratio < pairs[b].ratio
	})

	var avg float64
	for _, p := range pairs {
		avg += p.ratio
	}
	avg /= float64(len(pairs))

	tightestGap := avg - pairs[0].ratio
	tightestMove := tightestGap * d.opts.MovePercent

	var maxMove float64
	coincident := false
	for _, p := range pairs {
		isCoincident := p.dir == nil
		// Sorted ascending: nothing after the first average pair moves.
		if p.ratio >= avg && !isCoincident {
			break
		}

		move := 0.0
		if tightestGap > 0 {
			move = tightestMove * (avg - p.ratio) / tightestGap
		}

		dir := p.dir
		if isCoincident {
			coincident = true
			dir = vecmath.RandomUnit(d.opts.Source, len(d.box.Min))
			move = math.Max(move, d.separation)
		}
		if move <= 0 {
			continue
		}

		shareI, shareJ := d.split(p.i, p.j)
		maxMove = math.Max(maxMove, d.displace(p.i, dir, -move*shareI))
		maxMove = math.Max(maxMove, d.displace(p.j, dir, move*shareJ))
	}
	return maxMove, coincident
}

// split divides a pair's move by the partner's multiplier. A static point
// keeps its place and its partner takes the whole move.
func (d *distributor) split(i, j int) (float64, float64) {
	pi, pj := d.points[i], d.points[j]
	switch {
	case pi.static:
		return 0, 1
	case pj.static:
		return 1, 0
	}
	sum := pi.mult + pj.mult
	if sum <= 0 {
		return 0.5, 0.5
	}
	return pj.mult / sum, pi.mult / sum
}

// displace moves point i by dist along dir, clamps it into the box and
// returns the distance actually travelled.
func (d *distributor) displace(i int, dir []float64, dist float64) float64 {
	p := d.points[i]
	if p.static || dist == 0 {
		return 0
	}
	before := append([]float64(nil), p.pos...)
	floats.AddScaled(p.pos, dist, dir)
	d.box.ClampInPlace(p.pos)
	return floats.Distance(before, p.pos, 2)
}
