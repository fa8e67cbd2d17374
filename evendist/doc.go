// Package evendist spreads points evenly inside an axis-aligned box.
//
// Movable points repel each other and a set of optional static points.
// Each iteration only the locally tightest pair around every point is
// considered; pairs tighter than the average are pushed apart, the rest are
// left alone. The run stops once the largest move of an iteration drops
// below StopRadiusPercent of half the box diagonal, or after MaxIterations.
//
// Repulsion multipliers weight the spacing: a pair's separation is divided
// by the average multiplier of its two points, and a point with a larger
// multiplier pushes its partner further.
package evendist
