package collection

import (
	"errors"
	"fmt"
	"slices"

	"go-parallelism/pkg/stream"
)

var (
	// ErrConcurrentModification is reported by an iterator whose list was structurally
	// modified after the iterator was created.
	ErrConcurrentModification = errors.New("concurrent modification")
	// ErrUnsupportedOperation is returned when growing a fixed-size list.
	ErrUnsupportedOperation = errors.New("unsupported operation")
)

// List is an ordered, growable sequence of elements.
//
// A List is not safe for concurrent use; wrap it with Synchronized when several
// goroutines share it. Iterators are fail-fast: once the list is structurally modified,
// every iterator created before the modification reports ErrConcurrentModification.
type List[T any] struct {
	items    []T
	modCount uint64
	fixed    bool
}

// NewList returns a growable list holding a copy of items.
func NewList[T any](items ...T) *List[T] {
	return &List[T]{items: slices.Clone(items)}
}

// AsList returns a fixed-size list backed by items. Elements can be reordered
// but Add fails with ErrUnsupportedOperation. Sorting the list reorders items.
func AsList[T any](items ...T) *List[T] {
	return &List[T]{items: items, fixed: true}
}

// Add appends item to the end of the list.
func (l *List[T]) Add(item T) error {
	if l.fixed {
		return fmt.Errorf("%w: cannot add to a fixed-size list", ErrUnsupportedOperation)
	}
	l.items = append(l.items, item)
	l.modCount++
	return nil
}

// Len returns the number of elements.
func (l *List[T]) Len() int {
	return len(l.items)
}

// Values returns a copy of the elements, in order.
func (l *List[T]) Values() []T {
	return slices.Clone(l.items)
}

// Sort sorts the list in place using cmp. The sort is stable.
func (l *List[T]) Sort(cmp func(a, b T) int) {
	slices.SortStableFunc(l.items, cmp)
	l.modCount++
}

// Iterator returns a fail-fast iterator positioned before the first element.
func (l *List[T]) Iterator() stream.Iterator[T] {
	return &listIterator[T]{list: l, expected: l.modCount}
}

// Stream returns a stream over the elements of the list, partitioned for parallel
// stages. The list must not be modified until the terminal operation returns;
// a modification makes the terminal fail with ErrConcurrentModification.
func (l *List[T]) Stream(opts ...stream.Option) stream.Stream[T] {
	opts = append([]stream.Option{stream.WithSizeHint(l.Len())}, opts...)
	return stream.FromIterator(l.Iterator(), opts...)
}

type listIterator[T any] struct {
	list     *List[T]
	pos      int
	expected uint64
	err      error
}

func (it *listIterator[T]) Next() (T, bool) {
	var zero T
	if it.err != nil {
		return zero, false
	}
	if err := it.check(); err != nil {
		it.err = err
		return zero, false
	}
	if it.pos >= len(it.list.items) {
		return zero, false
	}
	item := it.list.items[it.pos]
	it.pos++
	return item, true
}

// Err also re-checks the list, so a modification made after the last element was
// handed out is still reported.
func (it *listIterator[T]) Err() error {
	if it.err != nil {
		return it.err
	}
	return it.check()
}

func (it *listIterator[T]) check() error {
	if it.list.modCount != it.expected {
		return fmt.Errorf("%w: list changed from modification %d to %d during iteration",
			ErrConcurrentModification, it.expected, it.list.modCount)
	}
	return nil
}

// Reversed returns a comparator imposing the reverse ordering of cmp.
func Reversed[T any](cmp func(a, b T) int) func(a, b T) int {
	return func(a, b T) int {
		return cmp(b, a)
	}
}
