package relax_test

import (
	"context"
	"fmt"
	"log"

	"github.com/hupe1980/relax"
	"github.com/hupe1980/relax/blobstore"
	"github.com/hupe1980/relax/layout"
	"github.com/hupe1980/relax/springs"
	"github.com/hupe1980/relax/vecmath"
)

// ExampleEngine_Springs pulls two nearby points apart to a target distance.
func ExampleEngine_Springs() {
	eng := relax.New(relax.WithSeed(42))

	out, err := eng.Springs(context.Background(),
		[][]float64{{0, 0}, {0.01, 0}},
		[]springs.Constraint{{A: 0, B: 1, Distance: 5}},
	)
	if err != nil {
		log.Fatal(err)
	}

	d, _ := vecmath.Distance(out[0], out[1])
	fmt.Printf("distance: %.1f\n", d)
	// Output: distance: 5.0
}

// ExampleEngine_Save stores two versions of a layout and reads back the latest.
func ExampleEngine_Save() {
	ctx := context.Background()
	eng := relax.New(relax.WithStore(blobstore.NewMemoryStore()))

	l, err := layout.New([][]float64{{0, 0}, {1, 1}})
	if err != nil {
		log.Fatal(err)
	}
	if _, err := eng.Save(ctx, "demo", l); err != nil {
		log.Fatal(err)
	}

	l.Points = append(l.Points, []float64{2, 2})
	if _, err := eng.Save(ctx, "demo", l); err != nil {
		log.Fatal(err)
	}

	latest, err := eng.Load(ctx, "demo")
	if err != nil {
		log.Fatal(err)
	}
	versions, _ := eng.Versions(ctx, "demo")

	fmt.Println("points:", len(latest.Points))
	fmt.Println("versions:", len(versions))
	// Output:
	// points: 3
	// versions: 2
}
