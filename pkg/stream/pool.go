package stream

import "sync"

// vecPool manages a pool of Vector objects to minimize memory allocations.
// It wraps sync.Pool to provide type-safe access to Vector[T].
type vecPool[T any] struct {
	// pool is the underlying sync.Pool used for storing vectors.
	pool sync.Pool
	// size is the initial capacity of vectors created by the pool.
	size int
}

// newVecPool creates a new pool whose vectors start with the given capacity.
//
// Parameters:
//   size: The initial capacity of new vectors. Values <= 0 select VectorSize.
//
// Returns:
//   *vecPool[T]: A pointer to the newly created vector pool.
func newVecPool[T any](size int) *vecPool[T] {
	if size <= 0 {
		size = VectorSize
	}
	p := &vecPool[T]{size: size}
	p.pool.New = func() any {
		return &Vector[T]{
			Data: make([]T, 0, p.size),
		}
	}
	return p
}

// Get retrieves a vector from the pool or creates a new one if the pool is empty.
// It sets the vector's pool reference to this pool to enable proper recycling.
//
// Returns:
//   *Vector[T]: An empty vector ready for use.
func (p *vecPool[T]) Get() *Vector[T] {
	v := p.pool.Get().(*Vector[T])
	v.pool = p // Restore pool reference for recycled vectors
	return v
}

// Put returns a vector to the pool for reuse.
// It resets the vector's data slice length to 0 to clear it while preserving capacity.
//
// Parameters:
//   vec: The vector to return to the pool.
func (p *vecPool[T]) Put(vec *Vector[T]) {
	// Clear references so pooled vectors do not pin user data.
	clear(vec.Data)
	vec.Data = vec.Data[:0]
	vec.Seq = 0
	p.pool.Put(vec)
}
