// Package config holds the process-wide tuning knobs that are threaded
// into the distributor, transform, and transpose paths, built with
// functional options. Of its fields, only DefaultLibrary is read by
// another package (basis, to pick a transform backend); the rest are
// stored and carried along without changing behavior.
package config

// FFTRigor selects the planning effort a transform backend spends building
// a cached plan, mirroring FFTW's planner rigor flags.
type FFTRigor int

const (
	// RigorEstimate builds a plan quickly using heuristics, no measurement.
	RigorEstimate FFTRigor = iota
	// RigorMeasure times several candidate plans and keeps the fastest.
	RigorMeasure
	// RigorPatient spends substantially more time searching plans.
	RigorPatient
)

// Library selects which backend a Basis uses for its forward/backward
// transforms.
type Library int

const (
	// LibraryFFTW selects a plan-caching backend (algo-fft), favoring reuse
	// across repeated calls with the same shape and dtype.
	LibraryFFTW Library = iota
	// LibraryScipy selects a stateless backend (gonum/fourier), favoring
	// simplicity over amortized plan cost.
	LibraryScipy
)

func (l Library) String() string {
	switch l {
	case LibraryFFTW:
		return "fftw"
	case LibraryScipy:
		return "scipy"
	default:
		return "unknown"
	}
}

// Config collects the runtime flags threaded through the distributor,
// transform, and transpose paths.
type Config struct {
	// InPlace records whether Transform and Transpose steps may reuse the
	// field's own buffer as scratch space. No step reads it: every step
	// allocates its own temporaries.
	InPlace bool

	// FFTWRigor records the planning rigor for FFTW-backed bases. The
	// algo-fft plan cache does not read it.
	FFTWRigor FFTRigor

	// GroupTransforms records whether the Transform step is batched across
	// fields sharing a layout pair. No step reads it: fields are always
	// transformed one at a time.
	GroupTransforms bool

	// GroupTransposes records whether the Transpose step is batched across
	// fields sharing a layout pair. No step reads it: fields are always
	// transposed one at a time.
	GroupTransposes bool

	// SyncTransposes records whether a collective barrier accompanies each
	// Transpose step. No step reads it, and Transpose never calls Barrier.
	SyncTransposes bool

	// DefaultLibrary is the backend new Basis values use when none is
	// specified explicitly.
	DefaultLibrary Library

	// Workers records a goroutine worker pool size for simulated-rank
	// concurrency (0 for runtime.GOMAXPROCS). SimulatedComm does not read
	// it: Alltoall starts one goroutine per rank.
	Workers int
}

// Option is a function that modifies a Config.
type Option func(*Config)

// Default returns the default runtime configuration.
func Default() Config {
	return Config{
		InPlace:         false,
		FFTWRigor:       RigorEstimate,
		GroupTransforms: true,
		GroupTransposes: true,
		SyncTransposes:  false,
		DefaultLibrary:  LibraryFFTW,
		Workers:         0,
	}
}

// WithInPlace toggles in-place buffer reuse for Transform/Transpose steps.
func WithInPlace(inPlace bool) Option {
	return func(c *Config) { c.InPlace = inPlace }
}

// WithFFTWRigor sets the planning rigor for FFTW-backed bases.
func WithFFTWRigor(r FFTRigor) Option {
	return func(c *Config) { c.FFTWRigor = r }
}

// WithGroupTransforms toggles batching of the Transform step.
func WithGroupTransforms(enabled bool) Option {
	return func(c *Config) { c.GroupTransforms = enabled }
}

// WithGroupTransposes toggles batching of the Transpose step.
func WithGroupTransposes(enabled bool) Option {
	return func(c *Config) { c.GroupTransposes = enabled }
}

// WithSyncTransposes toggles the post-transpose collective barrier.
func WithSyncTransposes(enabled bool) Option {
	return func(c *Config) { c.SyncTransposes = enabled }
}

// WithDefaultLibrary sets the backend new Basis values use by default.
func WithDefaultLibrary(lib Library) Option {
	return func(c *Config) { c.DefaultLibrary = lib }
}

// WithWorkers sets the goroutine worker pool size for simulated ranks.
func WithWorkers(n int) Option {
	return func(c *Config) { c.Workers = n }
}

// Apply folds a list of options onto a base Config.
func Apply(base Config, opts ...Option) Config {
	for _, opt := range opts {
		opt(&base)
	}

	return base
}
