package swraster

import "runtime"

// Option configures a Renderer during creation.
//
// Example:
//
//	r := swraster.NewRenderer[uint32](
//	    swraster.WithThreads(4),
//	    swraster.WithMemoryLimit(64<<20))
type Option func(*options)

type options struct {
	threads     int
	colorTable  bool
	memoryLimit int64
	antiAlias   bool
	rampCache   int
}

func defaultOptions() options {
	return options{
		threads:   1,
		antiAlias: true,
		rampCache: 64,
	}
}

// WithThreads sets the number of prepare slots and blur workers. Values
// below 1 select GOMAXPROCS.
func WithThreads(n int) Option {
	return func(o *options) {
		if n < 1 {
			n = runtime.GOMAXPROCS(0)
		}
		o.threads = n
	}
}

// WithColorTable forces gradients through 256-entry color tables instead
// of evaluating stops per pixel.
func WithColorTable(enabled bool) Option {
	return func(o *options) {
		o.colorTable = enabled
	}
}

// WithMemoryLimit caps the bytes held by intermediate compositor buffers.
// Opening a compositor past the limit fails with ErrOutOfMemory. Zero
// means unlimited.
func WithMemoryLimit(bytes int64) Option {
	return func(o *options) {
		o.memoryLimit = max(bytes, 0)
	}
}

// WithAntiAlias enables or disables anti-aliased coverage. When disabled,
// every pixel is either fully covered or not at all.
func WithAntiAlias(enabled bool) Option {
	return func(o *options) {
		o.antiAlias = enabled
	}
}

// WithRampCache sets how many gradient color tables are kept for reuse.
// Zero disables the cache.
func WithRampCache(tables int) Option {
	return func(o *options) {
		o.rampCache = max(tables, 0)
	}
}
