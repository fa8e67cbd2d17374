// Package testutil provides testing utilities for relax.
//
// This package is intended for use in tests and benchmarks only.
// It provides seeded point generators and geometric checks used when
// asserting relaxation results.
//
// # Point Generation
//
//	rng := testutil.NewRNG(seed)
//	pts := rng.UniformPoints(100, 3)           // uniform in [0, 1)^3
//	pts = rng.ClusteredPoints(100, 2, 4, 0.05) // tight blobs
//
// RNG implements vecmath.Source, so it can seed the solvers directly:
//
//	springs.Relax(ctx, pts, cs, springs.WithSource(rng))
//
// # Checks
//
//	d := testutil.MinPairDistance(pts)
//	ok := testutil.AllInBox(pts, min, max)
package testutil
