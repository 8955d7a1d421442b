package stream

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// ============================================================================
// SOURCE OPERATORS
// ============================================================================

// FromGenerator creates a source stream from a user-provided generator function.
// The generator function receives an 'emit' callback to push individual items into the stream.
// The generator runs in its own goroutine and should return nil on success or an error to fail the stream.
//
// Parameters:
//   gen: A function that generates data. It receives an `emit` function to output data and returns an error if generation fails.
//   opts: Source options such as WithBatchSize or WithSizeHint. The default batch size is VectorSize.
//
// Returns:
//   Stream[T]: A new stream containing the generated items.
func FromGenerator[T any](gen func(emit func(T)) error, opts ...Option) Stream[T] {
	size := batchSize(ApplyOptions(opts...))

	return Stream[T]{
		pipe: func(ctx context.Context) (<-chan *Vector[T], Execution) {
			out := make(chan *Vector[T], ChannelBuffer)
			pool := newVecPool[T](size)

			// Use errgroup for structured concurrency.
			g, gCtx := errgroup.WithContext(ctx)

			g.Go(func() error {
				defer close(out)
				var seq uint64
				batch := pool.Get()
				var opErr error

				send := func() error {
					batch.Seq = seq
					select {
					case out <- batch:
						seq++
						batch = pool.Get() // Ownership transferred.
						return nil
					case <-gCtx.Done():
						return gCtx.Err()
					}
				}

				// Emitter function (Continuation-Passing Style)
				emit := func(item T) {
					// Stop emitting if an error occurred or context is cancelled.
					if opErr != nil || gCtx.Err() != nil {
						return
					}

					batch.Data = append(batch.Data, item)
					if len(batch.Data) == size {
						opErr = send()
					}
				}

				genErr := gen(emit)

				// Handle cleanup of the final batch.
				if genErr != nil || opErr != nil {
					batch.Release()
					if genErr != nil {
						return genErr
					}
					return opErr
				}

				// Flush remaining items.
				if len(batch.Data) > 0 {
					if err := send(); err != nil {
						batch.Release()
						return err
					}
				}
				batch.Release()
				return nil
			})

			return out, executionFromErrGroup(g)
		},
	}
}

// FromSlice creates a source stream that partitions a slice into vectors.
// Each vector receives the sequence number of its partition, starting at 0.
//
// Without WithBatchSize, the slice is split so that every available worker gets
// several partitions, which lets even small inputs be processed in parallel.
// The slice must not be modified while the stream runs.
//
// Parameters:
//   items: The elements to stream.
//   opts: Source options such as WithBatchSize.
//
// Returns:
//   Stream[T]: A new stream containing the elements of items, in order.
func FromSlice[T any](items []T, opts ...Option) Stream[T] {
	size := ApplyOptions(opts...).BatchSize
	if size <= 0 {
		size = splitSize(len(items))
	}

	return Stream[T]{
		pipe: func(ctx context.Context) (<-chan *Vector[T], Execution) {
			out := make(chan *Vector[T], ChannelBuffer)
			pool := newVecPool[T](size)
			g, gCtx := errgroup.WithContext(ctx)

			g.Go(func() error {
				defer close(out)
				var seq uint64
				for start := 0; start < len(items); start += size {
					end := min(start+size, len(items))
					vec := pool.Get()
					vec.Data = append(vec.Data, items[start:end]...)
					vec.Seq = seq
					select {
					case out <- vec:
						seq++
					case <-gCtx.Done():
						vec.Release()
						return gCtx.Err()
					}
				}
				return nil
			})

			return out, executionFromErrGroup(g)
		},
	}
}

// FromIterator creates a source stream that drains an Iterator.
//
// The iterator's Err is evaluated once every downstream stage has finished with the
// elements, so failures detected at the end of a traversal (such as a fail-fast
// collection noticing it was modified) are reported by the terminal operator.
//
// Parameters:
//   it: The iterator to drain. It is consumed by a single goroutine.
//   opts: Source options such as WithBatchSize or WithSizeHint. The default batch size is VectorSize.
//
// Returns:
//   Stream[T]: A new stream containing the iterated elements.
func FromIterator[T any](it Iterator[T], opts ...Option) Stream[T] {
	gen := FromGenerator(func(emit func(T)) error {
		for {
			item, ok := it.Next()
			if !ok {
				return nil
			}
			emit(item)
		}
	}, opts...)

	return Stream[T]{
		pipe: func(ctx context.Context) (<-chan *Vector[T], Execution) {
			out, exec := gen.pipe(ctx)
			return out, executionWithCheck(exec, it.Err)
		},
	}
}

// batchSize resolves the vector size of a generator-style source.
func batchSize(config StreamConfig) int {
	switch {
	case config.BatchSize > 0:
		return config.BatchSize
	case config.SizeHint > 0:
		return splitSize(config.SizeHint)
	default:
		return VectorSize
	}
}
