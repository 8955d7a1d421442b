package stream

import "context"

// ============================================================================
// VECTOR
// ============================================================================

// Vector holds a slice of data and a reference to its origin pool.
// It is the fundamental unit of data transport in the pipeline.
//
// Seq is the position of the partition in its source. Operators that transform
// a vector carry Seq over to the output vector so that ordered terminals can
// reassemble the original sequence.
type Vector[T any] struct {
	Data []T
	Seq  uint64
	pool *vecPool[T]
}

// Release returns the vector to its origin pool.
// It must be called exactly once by the consumer when the data is no longer needed.
func (v *Vector[T]) Release() {
	if v == nil {
		return
	}
	if v.pool != nil {
		p := v.pool
		v.pool = nil
		p.Put(v)
	}
}

// ============================================================================
// STREAM & EXECUTION
// ============================================================================

// Stream is a lazy blueprint of a pipeline stage.
// Nothing runs until a terminal operator materializes it by calling pipe.
type Stream[T any] struct {
	pipe func(ctx context.Context) (<-chan *Vector[T], Execution)
}

// Execution is a handle on the running goroutines of one or more stages.
// Done is closed once every goroutine has returned. Err must only be called
// after Done is closed.
type Execution struct {
	Done <-chan struct{}
	Err  func() error
}

// Iterator is a pull-based source of elements.
//
// Err is consulted after the whole pipeline has finished with the iterator, so
// an implementation may report conditions that only become visible at the end
// of a traversal (for example a structural modification of the underlying
// collection).
type Iterator[T any] interface {
	// Next returns the next element, or false when the iterator is exhausted
	// or has failed.
	Next() (T, bool)
	// Err returns the error that stopped the traversal, if any.
	Err() error
}
