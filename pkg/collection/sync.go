package collection

import (
	"sync"

	"go-parallelism/pkg/stream"
)

// SyncList is a List whose every operation is serialized by a mutex.
// Its iterators are still fail-fast: modifying the list during a traversal is
// memory-safe but reported as ErrConcurrentModification.
type SyncList[T any] struct {
	mu   sync.Mutex
	list *List[T]
}

// Synchronized wraps list. The caller must not use list directly afterwards.
func Synchronized[T any](list *List[T]) *SyncList[T] {
	return &SyncList[T]{list: list}
}

// Add appends item to the end of the list.
func (s *SyncList[T]) Add(item T) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.list.Add(item)
}

// Len returns the number of elements.
func (s *SyncList[T]) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.list.Len()
}

// Values returns a copy of the elements, in order.
func (s *SyncList[T]) Values() []T {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.list.Values()
}

// Sort sorts the list in place using cmp.
func (s *SyncList[T]) Sort(cmp func(a, b T) int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.list.Sort(cmp)
}

// Iterator returns a fail-fast iterator whose steps hold the list's lock.
func (s *SyncList[T]) Iterator() stream.Iterator[T] {
	s.mu.Lock()
	defer s.mu.Unlock()
	return &syncIterator[T]{mu: &s.mu, it: s.list.Iterator()}
}

// Stream returns a stream over the elements of the list, partitioned for parallel stages.
func (s *SyncList[T]) Stream(opts ...stream.Option) stream.Stream[T] {
	opts = append([]stream.Option{stream.WithSizeHint(s.Len())}, opts...)
	return stream.FromIterator(s.Iterator(), opts...)
}

type syncIterator[T any] struct {
	mu *sync.Mutex
	it stream.Iterator[T]
}

func (it *syncIterator[T]) Next() (T, bool) {
	it.mu.Lock()
	defer it.mu.Unlock()
	return it.it.Next()
}

func (it *syncIterator[T]) Err() error {
	it.mu.Lock()
	defer it.mu.Unlock()
	return it.it.Err()
}
