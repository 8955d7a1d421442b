package stream

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"
)

// ============================================================================
// TRANSFORMATION OPERATORS (FUNCTORS)
// ============================================================================

// ParMap applies a mapper function to each element of the parent stream concurrently.
// It is optimized for CPU-bound tasks by processing vectors in parallel across multiple workers.
// Vectors may leave the stage in any order; each output vector keeps the sequence number of
// its input vector, so ordered terminals still observe source order.
//
// Parameters:
//   parent: The input stream to transform.
//   dop: The degree of parallelism (number of concurrent workers). 1 yields a sequential stage.
//   mapper: The function to apply to each element. It returns the transformed element or an error.
//
// Returns:
//   Stream[Out]: A new stream containing the transformed elements.
func ParMap[In, Out any](
	parent Stream[In],
	dop int,
	mapper func(In) (Out, error),
) Stream[Out] {
	return parallelStage(parent, dop, func(batchIn *Vector[In], batchOut *Vector[Out]) error {
		// Pre-size the output vector to avoid appends/reallocations.
		if cap(batchOut.Data) < len(batchIn.Data) {
			batchOut.Data = make([]Out, len(batchIn.Data))
		} else {
			batchOut.Data = batchOut.Data[:len(batchIn.Data)]
		}
		for i, item := range batchIn.Data {
			mappedItem, err := mapper(item)
			if err != nil {
				return fmt.Errorf("ParMap error: %w", err)
			}
			batchOut.Data[i] = mappedItem // Direct assignment, no append.
		}
		return nil
	})
}

// ParFilter keeps the elements of the parent stream that satisfy the predicate,
// evaluating it concurrently.
// A vector whose elements are all rejected is still forwarded (empty) so that the
// sequence numbers seen by ordered terminals stay contiguous.
//
// Parameters:
//   parent: The input stream.
//   dop: The degree of parallelism.
//   predicate: The function deciding whether an element is kept.
//
// Returns:
//   Stream[T]: A new stream containing the accepted elements.
func ParFilter[T any](parent Stream[T], dop int, predicate func(T) bool) Stream[T] {
	return parallelStage(parent, dop, func(batchIn *Vector[T], batchOut *Vector[T]) error {
		for _, item := range batchIn.Data {
			if predicate(item) {
				batchOut.Data = append(batchOut.Data, item)
			}
		}
		return nil
	})
}

// Peek invokes fn for every element as it flows through the stage and passes the
// element on unchanged. fn runs on the stage's workers and must be safe for
// concurrent use when dop is greater than 1.
//
// Parameters:
//   parent: The input stream.
//   dop: The degree of parallelism.
//   fn: The side effect to run for each element.
//
// Returns:
//   Stream[T]: A stream with the same elements as parent.
func Peek[T any](parent Stream[T], dop int, fn func(T)) Stream[T] {
	return ParMap(parent, dop, func(item T) (T, error) {
		fn(item)
		return item, nil
	})
}

// Parallel inserts a stage that hands the parent's vectors to dop workers without
// changing them. Downstream stages then observe vectors in completion order; an
// ordered terminal restores source order.
func Parallel[T any](parent Stream[T], dop int) Stream[T] {
	return parallelStage(parent, dop, func(batchIn *Vector[T], batchOut *Vector[T]) error {
		batchOut.Data = append(batchOut.Data, batchIn.Data...)
		return nil
	})
}

// parallelStage runs process for each vector of the parent on dop workers.
// It owns the lifecycle of the stage: workers, output channel, and draining of
// the input when the stage stops early.
func parallelStage[In, Out any](
	parent Stream[In],
	dop int,
	process func(batchIn *Vector[In], batchOut *Vector[Out]) error,
) Stream[Out] {
	dop = sanitizeDOP(dop)

	return Stream[Out]{
		pipe: func(ctx context.Context) (<-chan *Vector[Out], Execution) {
			// 1. Initialize parent stream and resources.
			in, parentExec := parent.pipe(ctx)
			out := make(chan *Vector[Out], ChannelBuffer)
			pool := newVecPool[Out](1) // Output vectors grow to the size of their input.

			g, gCtx := errgroup.WithContext(ctx)

			// 2. Start workers.
			for i := 0; i < dop; i++ {
				g.Go(func() error {
					return stageWorker(gCtx, in, out, pool, process)
				})
			}

			workerExec := executionFromErrGroup(g)

			// 3. Orchestration and Draining.
			// We must ensure 'in' is drained if workers stop prematurely (error/cancellation).
			drainerDone := make(chan struct{})
			go func() {
				defer close(drainerDone)
				<-workerExec.Done
				// If context is cancelled (or error occurred), workers stopped. Drain 'in'.
				if gCtx.Err() != nil {
					drain(in)
				}
				// Otherwise, workers finished normally because 'in' was closed.
			}()

			// 4. Combine executions.
			cleanup := func() { close(out) }
			exec := combineExecutions(workerExec, cleanup, parentExec, executionFromChan(drainerDone))

			return out, exec
		},
	}
}

// stageWorker implements the batch-level processing loop shared by the parallel operators.
// It consumes vectors from the input channel, processes them into pooled output vectors
// carrying the same sequence number, and sends them to the output channel.
//
// Parameters:
//   ctx: The context for cancellation.
//   in: The input channel of vectors.
//   out: The output channel for processed vectors.
//   pool: The pool for allocating output vectors.
//   process: The per-vector transformation.
//
// Returns:
//   error: An error if processing fails or the context is cancelled.
func stageWorker[In, Out any](
	ctx context.Context,
	in <-chan *Vector[In],
	out chan<- *Vector[Out],
	pool *vecPool[Out],
	process func(*Vector[In], *Vector[Out]) error,
) error {
	for {
		select {
		case batchIn, ok := <-in:
			if !ok {
				return nil // Input closed normally.
			}

			batchOut := pool.Get()
			batchOut.Seq = batchIn.Seq

			// Process the batch (CPU-bound part).
			err := process(batchIn, batchOut)

			// Release input batch.
			batchIn.Release()

			if err != nil {
				// Release output batch and return. Drainer handles 'in'.
				batchOut.Release()
				return err
			}

			// Send the processed batch downstream.
			select {
			case out <- batchOut:
			case <-ctx.Done():
				// Cancelled during send. Release buffer and return. Drainer handles 'in'.
				batchOut.Release()
				return ctx.Err()
			}

		case <-ctx.Done():
			return ctx.Err() // Cancelled while waiting. Drainer handles 'in'.
		}
	}
}
