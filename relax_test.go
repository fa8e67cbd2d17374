package relax

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/hupe1980/relax/blobstore"
	"github.com/hupe1980/relax/codec"
	"github.com/hupe1980/relax/evendist"
	"github.com/hupe1980/relax/layout"
	"github.com/hupe1980/relax/snapshot"
	"github.com/hupe1980/relax/springs"
	"github.com/hupe1980/relax/testutil"
	"github.com/hupe1980/relax/vecmath"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func unitBox(t *testing.T) *vecmath.Box {
	t.Helper()
	box, err := vecmath.NewBox([]float64{0, 0}, []float64{1, 1})
	require.NoError(t, err)
	return &box
}

func springLayout(t *testing.T) *layout.Layout {
	t.Helper()
	l, err := layout.New([][]float64{{0, 0}, {0.01, 0}, {0, 0.02}})
	require.NoError(t, err)
	l.Constraints = []springs.Constraint{
		{A: 0, B: 1, Distance: 1},
		{A: 0, B: 2, Distance: 1},
	}
	return l
}

func crowdLayout(t *testing.T) *layout.Layout {
	t.Helper()
	l, err := layout.New([][]float64{{0.5, 0.5}, {0.5, 0.51}, {0.52, 0.5}, {0.49, 0.49}, {0.51, 0.52}})
	require.NoError(t, err)
	l.Pin(0)
	l.Box = unitBox(t)
	return l
}

func TestEngine_Springs(t *testing.T) {
	m := &BasicMetricsCollector{}
	eng := New(WithSeed(1), WithMetricsCollector(m))

	out, err := eng.Springs(context.Background(),
		[][]float64{{0, 0}, {0.01, 0}},
		[]springs.Constraint{{A: 0, B: 1, Distance: 5}},
	)
	require.NoError(t, err)

	d, err := vecmath.Distance(out[0], out[1])
	require.NoError(t, err)
	assert.InDelta(t, 5.0, d, 0.05)

	stats := m.GetStats()
	assert.Equal(t, int64(1), stats.RelaxCount)
	assert.Equal(t, int64(1), stats.SpringsRuns)
	assert.Equal(t, int64(springs.DefaultIterations), stats.RelaxIterations)
}

func TestEngine_SpringsOptionsOverride(t *testing.T) {
	m := &BasicMetricsCollector{}
	eng := New(WithMetricsCollector(m))

	_, err := eng.Springs(context.Background(),
		[][]float64{{0, 0}, {1, 0}},
		[]springs.Constraint{{A: 0, B: 1, Distance: 2}},
		springs.WithIterations(10),
	)
	require.NoError(t, err)
	assert.Equal(t, int64(10), m.GetStats().RelaxIterations)

	_, err = eng.Springs(context.Background(), [][]float64{{0}}, []springs.Constraint{{A: 0, B: 3}})
	assert.ErrorIs(t, err, springs.ErrInvalidConstraint)
	assert.Equal(t, int64(1), m.GetStats().RelaxErrors)
}

func TestEngine_Distribute(t *testing.T) {
	m := &BasicMetricsCollector{}
	eng := New(WithSeed(3), WithMetricsCollector(m))

	box := unitBox(t)
	res, err := eng.Distribute(context.Background(), evendist.Input{Count: 20, Box: *box})
	require.NoError(t, err)
	assert.Len(t, res.Positions, 20)
	assert.True(t, testutil.AllInBox(res.Positions, box.Min, box.Max))
	assert.Equal(t, int64(1), m.GetStats().EvenDistRuns)

	_, err = eng.Distribute(context.Background(), evendist.Input{
		Count:              2,
		Box:                *box,
		MovableMultipliers: []float64{1},
	})
	var mm *evendist.ErrMultiplierMismatch
	assert.ErrorAs(t, err, &mm)
}

func TestEngine_RelaxLayoutSprings(t *testing.T) {
	eng := New(WithSeed(5))
	l := springLayout(t)
	l.Pin(0)

	out, err := eng.RelaxLayout(context.Background(), l, ModeSprings)
	require.NoError(t, err)

	// Pinned points do not move and the input is untouched.
	assert.Equal(t, []float64{0, 0}, out.Points[0])
	assert.Equal(t, []float64{0.01, 0}, l.Points[1])

	for _, c := range out.Constraints {
		d, err := vecmath.Distance(out.Points[c.A], out.Points[c.B])
		require.NoError(t, err)
		assert.InDelta(t, c.Distance, d, 0.05)
	}
}

func TestEngine_RelaxLayoutEvenDistribution(t *testing.T) {
	eng := New(WithSeed(5))
	l := crowdLayout(t)

	out, err := eng.RelaxLayout(context.Background(), l, ModeEvenDistribution)
	require.NoError(t, err)

	assert.Equal(t, []float64{0.5, 0.5}, out.Points[0])
	assert.True(t, testutil.AllInBox(out.Points, l.Box.Min, l.Box.Max))
	assert.Greater(t, testutil.MinPairDistance(out.Points), testutil.MinPairDistance(l.Points))
	assert.True(t, out.IsPinned(0))
}

func TestEngine_RelaxLayoutErrors(t *testing.T) {
	eng := New()
	ctx := context.Background()

	_, err := eng.RelaxLayout(ctx, nil, ModeSprings)
	assert.ErrorIs(t, err, ErrInvalidLayout)

	_, err = eng.RelaxLayout(ctx, springLayout(t), Mode(99))
	assert.ErrorIs(t, err, ErrInvalidMode)

	l := springLayout(t)
	l.Multipliers = []float64{1}
	_, err = eng.RelaxLayout(ctx, l, ModeEvenDistribution)
	assert.ErrorIs(t, err, ErrInvalidLayout)

	cctx, cancel := context.WithCancel(ctx)
	cancel()
	_, err = eng.RelaxLayout(cctx, springLayout(t), ModeSprings)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestEngine_RunBatch(t *testing.T) {
	m := &BasicMetricsCollector{}
	eng := New(WithSeed(11), WithMaxConcurrency(2), WithMetricsCollector(m))

	jobs := []Job{
		{ID: "springs", Layout: springLayout(t), Mode: ModeSprings},
		{Layout: crowdLayout(t), Mode: ModeEvenDistribution},
		{Layout: springLayout(t), Mode: ModeSprings, Springs: []springs.Option{springs.WithIterations(5)}},
	}

	results, err := eng.RunBatch(context.Background(), jobs)
	require.NoError(t, err)
	require.Len(t, results, 3)

	assert.Equal(t, "springs", results[0].ID)
	assert.NotEmpty(t, results[1].ID)
	assert.Empty(t, jobs[1].ID, "caller's jobs are not modified")
	assert.Equal(t, 5, results[2].Iterations)
	for _, r := range results {
		require.NotNil(t, r.Layout)
	}

	stats := m.GetStats()
	assert.Equal(t, int64(1), stats.BatchCount)
	assert.Equal(t, int64(3), stats.BatchJobs)
	assert.Equal(t, int64(0), stats.BatchFailed)
}

func TestEngine_RunBatchDeterministic(t *testing.T) {
	// Coincident points force random directions.
	mk := func() []Job {
		jobs := make([]Job, 6)
		for i := range jobs {
			l, err := layout.New([][]float64{{0, 0}, {0, 0}, {0, 0}})
			require.NoError(t, err)
			l.Constraints = []springs.Constraint{{A: 0, B: 1, Distance: 1}, {A: 1, B: 2, Distance: 1}}
			jobs[i] = Job{Layout: l, Mode: ModeSprings, Springs: []springs.Option{springs.WithIterations(50)}}
		}
		return jobs
	}

	serial, err := New(WithSeed(99), WithMaxConcurrency(1)).RunBatch(context.Background(), mk())
	require.NoError(t, err)
	parallel, err := New(WithSeed(99), WithMaxConcurrency(6)).RunBatch(context.Background(), mk())
	require.NoError(t, err)

	for i := range serial {
		assert.Equal(t, serial[i].Layout.Points, parallel[i].Layout.Points, "job %d", i)
	}
}

func TestEngine_RunBatchFailure(t *testing.T) {
	m := &BasicMetricsCollector{}
	eng := New(WithMetricsCollector(m))

	jobs := []Job{
		{Layout: springLayout(t), Mode: ModeSprings},
		{ID: "broken", Layout: nil, Mode: ModeSprings},
	}

	_, err := eng.RunBatch(context.Background(), jobs)
	require.Error(t, err)

	var je *JobError
	require.ErrorAs(t, err, &je)
	assert.Equal(t, 1, je.Index)
	assert.Equal(t, "broken", je.ID)
	assert.ErrorIs(t, err, ErrInvalidLayout)
	assert.GreaterOrEqual(t, m.GetStats().BatchFailed, int64(1))
}

func TestEngine_SaveLoad(t *testing.T) {
	ctx := context.Background()
	store := blobstore.NewMemoryStore()
	m := &BasicMetricsCollector{}
	eng := New(WithStore(store), WithMetricsCollector(m), WithCodec(codec.JSON{}), WithCompression(snapshot.CompressionLZ4))

	l := crowdLayout(t)
	l.Meta = map[string]string{"run": "1"}

	k1, err := eng.Save(ctx, "crowd", l)
	require.NoError(t, err)
	assert.Regexp(t, `^layouts/crowd/[0-9a-f-]{36}\.rlx$`, k1)

	l2 := l.Clone()
	l2.Meta["run"] = "2"
	k2, err := eng.Save(ctx, "crowd", l2)
	require.NoError(t, err)

	versions, err := eng.Versions(ctx, "crowd")
	require.NoError(t, err)
	assert.Equal(t, []string{k1, k2}, versions)

	latest, err := eng.Load(ctx, "crowd")
	require.NoError(t, err)
	assert.Equal(t, "2", latest.Meta["run"])
	assert.Equal(t, l.Points, latest.Points)
	assert.True(t, latest.IsPinned(0))

	first, err := eng.LoadVersion(ctx, k1)
	require.NoError(t, err)
	assert.Equal(t, "1", first.Meta["run"])

	stats := m.GetStats()
	assert.Equal(t, int64(2), stats.SaveCount)
	assert.Equal(t, int64(2), stats.LoadCount)
	assert.Positive(t, stats.SaveBytes)
}

func TestEngine_PersistenceErrors(t *testing.T) {
	ctx := context.Background()

	_, err := New().Save(ctx, "x", crowdLayout(t))
	assert.ErrorIs(t, err, ErrNoStore)
	_, err = New().Load(ctx, "x")
	assert.ErrorIs(t, err, ErrNoStore)

	store := blobstore.NewMemoryStore()
	eng := New(WithStore(store))

	for _, name := range []string{"", "a/b", `a\b`, ".."} {
		_, err = eng.Save(ctx, name, crowdLayout(t))
		assert.ErrorIs(t, err, ErrInvalidName, name)
	}

	_, err = eng.Load(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)

	bad := crowdLayout(t)
	bad.Multipliers = []float64{1}
	_, err = eng.Save(ctx, "bad", bad)
	assert.ErrorIs(t, err, ErrInvalidLayout)

	// A CURRENT pointing at garbage surfaces as corruption.
	require.NoError(t, store.Put(ctx, "layouts/junk/x.rlx", []byte("not a snapshot")))
	require.NoError(t, store.Put(ctx, "layouts/junk/CURRENT", []byte("layouts/junk/x.rlx")))
	_, err = eng.Load(ctx, "junk")
	assert.ErrorIs(t, err, ErrCorrupt)

	// A CURRENT pointing at a deleted snapshot is not found.
	require.NoError(t, store.Put(ctx, "layouts/gone/CURRENT", []byte("layouts/gone/y.rlx")))
	_, err = eng.Load(ctx, "gone")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestEngine_LocalStore(t *testing.T) {
	ctx := context.Background()
	eng := New(WithStore(blobstore.NewLocalStore(t.TempDir())))

	l := springLayout(t)
	_, err := eng.Save(ctx, "local", l)
	require.NoError(t, err)

	out, err := eng.Load(ctx, "local")
	require.NoError(t, err)
	assert.Equal(t, l.Points, out.Points)
	assert.Equal(t, l.Constraints, out.Constraints)
}

func TestEngine_Logging(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	eng := New(WithLogger(logger), WithStore(blobstore.NewMemoryStore()))

	_, err := eng.Save(context.Background(), "logged", springLayout(t))
	require.NoError(t, err)
	_, err = eng.RelaxLayout(context.Background(), springLayout(t), ModeSprings)
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, `"msg":"snapshot saved"`)
	assert.Contains(t, out, `"name":"logged"`)
	assert.Contains(t, out, `"msg":"relaxation completed"`)
	assert.Contains(t, out, `"mode":"springs"`)
	assert.Same(t, logger, eng.Logger())
}

func TestMode_String(t *testing.T) {
	assert.Equal(t, "springs", ModeSprings.String())
	assert.Equal(t, "evendist", ModeEvenDistribution.String())
	assert.Equal(t, "Mode(7)", Mode(7).String())
}

func TestJobError(t *testing.T) {
	err := &JobError{Index: 2, ID: "j", cause: context.Canceled}
	assert.Equal(t, "job 2 (j): context canceled", err.Error())
	assert.True(t, errors.Is(err, context.Canceled))
}
