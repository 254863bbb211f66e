package postprocess

import "github.com/rs/zerolog"

// ChainOption is a functional option for configuring a Chain.
type ChainOption func(*chain)

// WithLogger sets the logger used by the chain.
func WithLogger(logger zerolog.Logger) ChainOption {
	return func(c *chain) {
		c.logger = logger
	}
}

// WithWorkers splits every pass across n row bands on a worker pool. n <= 1 keeps the
// chain on the calling goroutine.
//
// Parameters:
//   - n: the number of workers
//
// Returns:
//   - ChainOption: option function to apply
func WithWorkers(n int) ChainOption {
	return func(c *chain) {
		c.rows = newPoolRows(n)
	}
}

// WithRowRunner replaces the row scheduler.
func WithRowRunner(r RowRunner) ChainOption {
	return func(c *chain) {
		if r != nil {
			c.rows = r
		}
	}
}

// WithBloom sets the initial bloom parameters.
func WithBloom(p BloomParams) ChainOption {
	return func(c *chain) {
		c.bloom.params = p.Clamped()
	}
}

// WithAntiAlias sets the initial anti-alias preset.
func WithAntiAlias(p Preset) ChainOption {
	return func(c *chain) {
		c.antiAlias.preset = p.Clamped()
	}
}

// WithToneMap sets the initial tone-map parameters.
func WithToneMap(p ToneMapParams) ChainOption {
	return func(c *chain) {
		c.toneMap.params = p.Clamped()
	}
}

// WithPassObserver registers a callback timing each pass, typically a profiler.
func WithPassObserver(o PassObserver) ChainOption {
	return func(c *chain) {
		c.observer = o
	}
}
