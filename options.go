package relax

import (
	"github.com/hupe1980/relax/blobstore"
	"github.com/hupe1980/relax/codec"
	"github.com/hupe1980/relax/snapshot"
)

// DefaultMaxConcurrency is the number of batch jobs run at once when
// WithMaxConcurrency is not set.
const DefaultMaxConcurrency = 4

type options struct {
	logger         *Logger
	metrics        MetricsCollector
	store          blobstore.BlobStore
	codec          codec.Codec
	compression    snapshot.Compression
	maxConcurrency int
	jobRate        float64
	jobBurst       int
	maxCoordinates int64
	seed           int64
	seeded         bool
}

// Option configures an Engine.
type Option func(*options)

// WithLogger sets the logger. Nil restores the no-op logger.
func WithLogger(l *Logger) Option {
	return func(o *options) {
		o.logger = l
	}
}

// WithMetricsCollector sets the metrics sink. Nil restores the no-op collector.
func WithMetricsCollector(m MetricsCollector) Option {
	return func(o *options) {
		o.metrics = m
	}
}

// WithStore enables Save, Load and Versions on the given store.
func WithStore(s blobstore.BlobStore) Option {
	return func(o *options) {
		o.store = s
	}
}

// WithCodec configures the codec used for new snapshots.
//
// If nil is passed, codec.Default is used. Existing snapshots are always
// read with the codec named in their header.
func WithCodec(c codec.Codec) Option {
	return func(o *options) {
		o.codec = c
	}
}

// WithCompression configures snapshot compression. Default: ZSTD.
func WithCompression(c snapshot.Compression) Option {
	return func(o *options) {
		o.compression = c
	}
}

// WithMaxConcurrency bounds how many batch jobs run at once.
func WithMaxConcurrency(n int) Option {
	return func(o *options) {
		o.maxConcurrency = n
	}
}

// WithJobRate limits how many batch jobs start per second. burst jobs may
// start back to back. A rate of 0 disables the limit.
func WithJobRate(perSecond float64, burst int) Option {
	return func(o *options) {
		o.jobRate = perSecond
		o.jobBurst = burst
	}
}

// WithMaxCoordinates caps the combined size (points times dimension) of
// concurrently running batch jobs.
func WithMaxCoordinates(n int64) Option {
	return func(o *options) {
		o.maxCoordinates = n
	}
}

// WithSeed makes every random choice of the engine reproducible.
// Batch job i draws from a source seeded with seed+i, independent of
// scheduling order.
func WithSeed(seed int64) Option {
	return func(o *options) {
		o.seed = seed
		o.seeded = true
	}
}

func applyOptions(optFns []Option) options {
	o := options{
		compression:    snapshot.CompressionZSTD,
		maxConcurrency: DefaultMaxConcurrency,
	}
	for _, fn := range optFns {
		if fn != nil {
			fn(&o)
		}
	}

	if o.logger == nil {
		o.logger = NoopLogger()
	}
	if o.metrics == nil {
		o.metrics = NoopMetricsCollector{}
	}
	if o.codec == nil {
		o.codec = codec.Default
	}
	if o.maxConcurrency <= 0 {
		o.maxConcurrency = DefaultMaxConcurrency
	}
	return o
}
