// Package relax relaxes N-dimensional point sets.
//
// Two solvers do the work:
//
//   - springs: a ball-of-springs model that moves points until pairwise
//     distance constraints hold
//   - evendist: a repulsion model that spreads points evenly inside a box
//
// Both live in their own packages and can be used directly. The Engine in
// this package adds structured logging, metrics, bounded concurrent batches
// and versioned snapshot storage on top.
//
// # Quick Start
//
//	eng := relax.New(relax.WithSeed(42))
//
//	out, err := eng.Springs(ctx,
//	    [][]float64{{0, 0}, {0.01, 0}},
//	    []springs.Constraint{{A: 0, B: 1, Distance: 5}},
//	)
//
// # Layouts
//
// A layout.Layout bundles points, pinned indices, multipliers, constraints
// and a box. RelaxLayout runs either solver over a copy:
//
//	l, _ := layout.New(points)
//	l.Pin(0)
//	relaxed, err := eng.RelaxLayout(ctx, l, relax.ModeEvenDistribution)
//
// # Batches
//
// RunBatch relaxes many layouts concurrently. Each job gets its own random
// source, so a seeded engine is reproducible regardless of scheduling:
//
//	results, err := eng.RunBatch(ctx, []relax.Job{
//	    {Layout: a, Mode: relax.ModeSprings},
//	    {Layout: b, Mode: relax.ModeEvenDistribution},
//	})
//
// # Persistence
//
// With a blob store configured, layouts are saved as compressed,
// checksummed snapshots under layouts/<name>/ and a CURRENT blob points at
// the latest one:
//
//	eng := relax.New(relax.WithStore(blobstore.NewLocalStore("./data")))
//	key, err := eng.Save(ctx, "grid", relaxed)
//	latest, err := eng.Load(ctx, "grid")
//
// Any blobstore.BlobStore works, including s3.Store, s3.DDBCommitStore (for
// several concurrent writers) and minio.Store.
package relax
