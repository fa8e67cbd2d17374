// Package springs relaxes a point cloud toward a set of pairwise target
// distances.
//
// Every Constraint acts as a spring between two points. Each iteration
// computes all spring corrections from the current positions, caps every
// point's net move at MaxSpeed and then applies the moves together, so the
// order of points and constraints never influences a single step.
//
//	out, err := springs.Relax(ctx, positions, []springs.Constraint{
//	    {A: 0, B: 1, Distance: 5},
//	}, springs.WithIterations(2000))
package springs
