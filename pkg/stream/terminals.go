package stream

import (
	"context"
	"errors"
	"sync"

	"golang.org/x/sync/errgroup"
)

// ============================================================================
// TERMINALS (SINKS / FOLDS)
// ============================================================================

// Integer is the set of element types Average accepts.
type Integer interface {
	~int | ~int8 | ~int16 | ~int32 | ~int64 |
		~uint | ~uint8 | ~uint16 | ~uint32 | ~uint64
}

// Reduce consumes the entire stream and folds the results into a single accumulator using the provided function.
// Elements are folded in arrival order, which is not source order after a parallel stage.
// It blocks until the stream is exhausted, the context is cancelled, or an error occurs.
//
// Parameters:
//   ctx: The context for cancellation.
//   s: The stream to reduce.
//   init: The initial value of the accumulator.
//   fn: The reduction function that combines the accumulator and the next element.
//
// Returns:
//   Acc: The final accumulated value.
//   error: An error if the pipeline fails or is cancelled.
func Reduce[T, Acc any](
	ctx context.Context,
	s Stream[T],
	init Acc,
	fn func(Acc, T) Acc,
) (Acc, error) {
	acc := init
	err := consume(ctx, s, func(batch *Vector[T]) error {
		defer batch.Release()
		for _, item := range batch.Data {
			acc = fn(acc, item)
		}
		return nil
	})
	return acc, err
}

// ForEachOrdered calls fn for every element in source order, even when upstream stages
// processed vectors out of order. Vectors that arrive early are held back until every
// vector before them has been delivered.
//
// Parameters:
//   ctx: The context for cancellation.
//   s: The stream to traverse.
//   fn: The function called for each element, from a single goroutine.
//
// Returns:
//   error: An error if the pipeline fails or is cancelled.
func ForEachOrdered[T any](ctx context.Context, s Stream[T], fn func(T)) error {
	pending := make(map[uint64]*Vector[T])
	var next uint64

	defer func() {
		for _, vec := range pending {
			vec.Release()
		}
	}()

	return consume(ctx, s, func(batch *Vector[T]) error {
		pending[batch.Seq] = batch
		for {
			vec, ok := pending[next]
			if !ok {
				return nil
			}
			delete(pending, next)
			for _, item := range vec.Data {
				fn(item)
			}
			vec.Release()
			next++
		}
	})
}

// Collect gathers every element of the stream into a slice, in source order.
func Collect[T any](ctx context.Context, s Stream[T]) ([]T, error) {
	var out []T
	err := ForEachOrdered(ctx, s, func(item T) {
		out = append(out, item)
	})
	return out, err
}

// ReduceOrdered combines the elements of the stream in source order without an identity
// value. It reports false when the stream is empty.
//
// Parameters:
//   ctx: The context for cancellation.
//   s: The stream to reduce.
//   fn: The combining function, applied as fn(fn(fn(e0, e1), e2), ...).
//
// Returns:
//   T: The reduced value.
//   bool: Whether the stream had at least one element.
//   error: An error if the pipeline fails or is cancelled.
func ReduceOrdered[T any](ctx context.Context, s Stream[T], fn func(T, T) T) (T, bool, error) {
	var acc T
	var seen bool
	err := ForEachOrdered(ctx, s, func(item T) {
		if !seen {
			acc, seen = item, true
			return
		}
		acc = fn(acc, item)
	})
	if err != nil {
		var zero T
		return zero, false, err
	}
	return acc, seen, nil
}

// ForEach calls fn for every element on dop concurrent workers. No ordering is guaranteed,
// neither between elements of different vectors nor relative to the source.
//
// Parameters:
//   ctx: The context for cancellation.
//   s: The stream to traverse.
//   dop: The degree of parallelism.
//   fn: The function called for each element. It must be safe for concurrent use.
//
// Returns:
//   error: An error if the pipeline fails or is cancelled.
func ForEach[T any](ctx context.Context, s Stream[T], dop int, fn func(T)) error {
	return consumeParallel(ctx, s, dop, func(_ int, batch *Vector[T]) error {
		for _, item := range batch.Data {
			fn(item)
		}
		return nil
	})
}

// Aggregate performs an associative parallel reduction. Each of dop workers folds the
// vectors it receives into a private accumulator created by identity; the accumulators
// are then merged with combine. For an associative combine with a neutral identity,
// the result does not depend on how the input was partitioned.
//
// Parameters:
//   ctx: The context for cancellation.
//   s: The stream to aggregate.
//   dop: The degree of parallelism.
//   identity: Creates an empty accumulator.
//   accumulate: Folds one element into an accumulator.
//   combine: Merges two accumulators.
//
// Returns:
//   Acc: The merged accumulator.
//   error: An error if the pipeline fails or is cancelled.
func Aggregate[T, Acc any](
	ctx context.Context,
	s Stream[T],
	dop int,
	identity func() Acc,
	accumulate func(Acc, T) Acc,
	combine func(Acc, Acc) Acc,
) (Acc, error) {
	dop = sanitizeDOP(dop)
	partials := make([]Acc, dop)
	for i := range partials {
		partials[i] = identity()
	}

	err := consumeParallel(ctx, s, dop, func(worker int, batch *Vector[T]) error {
		acc := partials[worker]
		for _, item := range batch.Data {
			acc = accumulate(acc, item)
		}
		partials[worker] = acc
		return nil
	})
	if err != nil {
		return identity(), err
	}

	result := identity()
	for _, partial := range partials {
		result = combine(result, partial)
	}
	return result, nil
}

// Count returns the number of elements in the stream.
func Count[T any](ctx context.Context, s Stream[T], dop int) (int, error) {
	return Aggregate(ctx, s, dop,
		func() int { return 0 },
		func(n int, _ T) int { return n + 1 },
		func(a, b int) int { return a + b },
	)
}

type averageAcc struct {
	sum   float64
	count int
}

// Average computes the arithmetic mean of an integer stream with a parallel reduction.
// It reports false when the stream is empty.
func Average[T Integer](ctx context.Context, s Stream[T], dop int) (float64, bool, error) {
	acc, err := Aggregate(ctx, s, dop,
		func() averageAcc { return averageAcc{} },
		func(a averageAcc, item T) averageAcc {
			a.sum += float64(item)
			a.count++
			return a
		},
		func(a, b averageAcc) averageAcc {
			return averageAcc{sum: a.sum + b.sum, count: a.count + b.count}
		},
	)
	if err != nil || acc.count == 0 {
		return 0, false, err
	}
	return acc.sum / float64(acc.count), true, nil
}

// GroupByConcurrent groups the elements of the stream by key. All dop workers insert into
// one shared, mutex-guarded map. The set of members of each group is deterministic; the
// order of members within a group is not.
//
// Parameters:
//   ctx: The context for cancellation.
//   s: The stream to group.
//   dop: The degree of parallelism.
//   key: Classifies an element.
//
// Returns:
//   map[K][]T: The groups, keyed by classification.
//   error: An error if the pipeline fails or is cancelled.
func GroupByConcurrent[T any, K comparable](
	ctx context.Context,
	s Stream[T],
	dop int,
	key func(T) K,
) (map[K][]T, error) {
	groups := make(map[K][]T)
	var mu sync.Mutex

	err := consumeParallel(ctx, s, dop, func(_ int, batch *Vector[T]) error {
		for _, item := range batch.Data {
			k := key(item)
			mu.Lock()
			groups[k] = append(groups[k], item)
			mu.Unlock()
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return groups, nil
}

// ============================================================================
// CONSUMPTION LOOPS
// ============================================================================

// consume materializes the stream and hands every vector to fn from the calling goroutine.
// fn takes ownership of the vector and must release it.
// It blocks until the stream is exhausted, the context is cancelled, or fn fails.
func consume[T any](ctx context.Context, s Stream[T], fn func(*Vector[T]) error) error {
	// Create a cancellable context for the execution. If the processing loop is cancelled
	// externally, we must ensure the pipeline shuts down gracefully.
	execCtx, cancelExec := context.WithCancel(ctx)
	defer cancelExec() // Ensures pipeline shutdown if consume returns prematurely.

	dataCh, exec := s.pipe(execCtx)
	var consumerErr error

	// Processing loop
loop:
	for {
		select {
		case batch, ok := <-dataCh:
			if !ok {
				break loop // Data stream finished.
			}
			if err := fn(batch); err != nil {
				consumerErr = err
				cancelExec()
				break loop
			}
		case <-ctx.Done():
			// External cancellation occurred.
			cancelExec()
			break loop
		}
	}

	// Wait for the entire pipeline execution to fully complete and check for errors.
	<-exec.Done
	return resolveErr(ctx, exec.Err(), consumerErr)
}

// consumeParallel materializes the stream and hands vectors to fn on dop workers.
// The worker index passed to fn is stable for the lifetime of a worker, in [0, dop).
// Vectors are released after fn returns.
func consumeParallel[T any](
	ctx context.Context,
	s Stream[T],
	dop int,
	fn func(worker int, batch *Vector[T]) error,
) error {
	dop = sanitizeDOP(dop)

	execCtx, cancelExec := context.WithCancel(ctx)
	defer cancelExec()

	dataCh, exec := s.pipe(execCtx)
	g, gCtx := errgroup.WithContext(execCtx)

	for w := 0; w < dop; w++ {
		g.Go(func() error {
			for {
				select {
				case batch, ok := <-dataCh:
					if !ok {
						return nil
					}
					err := fn(w, batch)
					batch.Release()
					if err != nil {
						return err
					}
				case <-gCtx.Done():
					return gCtx.Err()
				}
			}
		})
	}

	consumerErr := g.Wait()
	if consumerErr != nil {
		// Stop the producers; nobody is reading anymore.
		cancelExec()
	}

	<-exec.Done
	return resolveErr(ctx, exec.Err(), consumerErr)
}

// resolveErr picks the error a terminal reports.
// A consumer failure is the root cause when present. Otherwise an internal pipeline
// failure (e.g., a ParMap error) takes priority over an external cancellation signal.
func resolveErr(ctx context.Context, pipelineErr, consumerErr error) error {
	if consumerErr != nil && !isContextErr(consumerErr) {
		return consumerErr
	}
	if pipelineErr != nil {
		if ctx.Err() == nil || !isContextErr(pipelineErr) {
			return pipelineErr
		}
	}
	// If externally cancelled and no internal error occurred.
	return ctx.Err()
}

func isContextErr(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}
