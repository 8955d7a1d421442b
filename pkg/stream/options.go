package stream

// StreamConfig holds configuration for stream sources.
type StreamConfig struct {
	// BatchSize is the number of elements per vector. Zero selects the
	// source's default partitioning.
	BatchSize int
	// SizeHint is the expected number of elements. When BatchSize is unset, sources
	// that cannot see their length up front use it to pick a partition size.
	SizeHint int
}

// Option is a functional option for configuring stream sources.
type Option func(*StreamConfig)

// DefaultConfig returns the default configuration.
func DefaultConfig() StreamConfig {
	return StreamConfig{}
}

// WithBatchSize sets the batch size (vector capacity) for the source.
// Non-positive sizes are ignored.
func WithBatchSize(size int) Option {
	return func(c *StreamConfig) {
		if size > 0 {
			c.BatchSize = size
		}
	}
}

// WithSizeHint tells a source how many elements to expect, so it can partition
// them across workers the way FromSlice does.
func WithSizeHint(n int) Option {
	return func(c *StreamConfig) {
		if n > 0 {
			c.SizeHint = n
		}
	}
}

// ApplyOptions applies the given options to the default configuration.
func ApplyOptions(opts ...Option) StreamConfig {
	config := DefaultConfig()
	for _, opt := range opts {
		opt(&config)
	}
	return config
}
