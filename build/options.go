package build

// Options configures a Driver. Use the With* functional options to
// override individual fields; defaultOptions supplies the rest.
type Options struct {
	// Debug requests debug info be kept in the compiled bytecode.
	Debug bool

	// ExternalDebugSymbols requests debug info be extracted into a
	// separate PDB blob rather than left embedded in the bytecode.
	ExternalDebugSymbols bool

	// OptimizationLevel is one of -1 (skip optimization), 0, 1, 2, 3.
	OptimizationLevel int

	// Workers is the size of the compilation worker pool. 0 means
	// GOMAXPROCS.
	Workers int
}

// Option configures a Driver during construction.
//
// Example:
//
//	d := build.NewDriver(c, build.WithDebugSymbols(true, true), build.WithWorkers(8))
type Option func(*Options)

func defaultOptions() Options {
	return Options{OptimizationLevel: 2}
}

// WithDebugSymbols configures whether debug info is kept (debug) and
// whether it is extracted into a sidecar PDB blob (external).
func WithDebugSymbols(debug, external bool) Option {
	return func(o *Options) {
		o.Debug = debug
		o.ExternalDebugSymbols = external
	}
}

// WithOptimizationLevel sets the optimization level, one of -1..3.
func WithOptimizationLevel(level int) Option {
	return func(o *Options) {
		o.OptimizationLevel = level
	}
}

// WithWorkers sets the compilation worker pool size. A value <= 0 means
// GOMAXPROCS.
func WithWorkers(n int) Option {
	return func(o *Options) {
		o.Workers = n
	}
}
