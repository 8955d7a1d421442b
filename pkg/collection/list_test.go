package collection

import (
	"cmp"
	"context"
	"sort"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go-parallelism/pkg/stream"
)

func TestListAddAndValues(t *testing.T) {
	l := NewList(1, 2)
	require.NoError(t, l.Add(3))

	assert.Equal(t, 3, l.Len())
	assert.Equal(t, []int{1, 2, 3}, l.Values())

	// Values is a copy.
	v := l.Values()
	v[0] = 100
	assert.Equal(t, []int{1, 2, 3}, l.Values())
}

func TestAsListIsFixedSize(t *testing.T) {
	backing := []string{"one", "two"}
	l := AsList(backing...)

	err := l.Add("three")
	require.ErrorIs(t, err, ErrUnsupportedOperation)
	assert.Equal(t, []string{"one", "two"}, l.Values())
}

func TestSortDescending(t *testing.T) {
	l := AsList(1, 2, 3, 4, 5, 6, 7, 8)
	l.Sort(Reversed(cmp.Compare[int]))

	assert.Equal(t, []int{8, 7, 6, 5, 4, 3, 2, 1}, l.Values())
}

func TestIteratorFailFast(t *testing.T) {
	l := NewList("one", "two")
	it := l.Iterator()

	first, ok := it.Next()
	require.True(t, ok)
	assert.Equal(t, "one", first)

	require.NoError(t, l.Add("three"))

	_, ok = it.Next()
	assert.False(t, ok)
	assert.ErrorIs(t, it.Err(), ErrConcurrentModification)
}

func TestIteratorReportsModificationAfterExhaustion(t *testing.T) {
	l := NewList("one", "two")
	it := l.Iterator()

	for {
		if _, ok := it.Next(); !ok {
			break
		}
	}
	require.NoError(t, it.Err())

	require.NoError(t, l.Add("three"))
	assert.ErrorIs(t, it.Err(), ErrConcurrentModification)
}

func TestListStream(t *testing.T) {
	ctx := context.Background()
	l := NewList(1, 2, 3, 4, 5, 6, 7, 8)

	got, err := stream.Collect(ctx, stream.ParMap(l.Stream(), 4, func(i int) (int, error) {
		return i * 10, nil
	}))
	require.NoError(t, err)
	assert.Equal(t, []int{10, 20, 30, 40, 50, 60, 70, 80}, got)
}

func TestStreamInterference(t *testing.T) {
	ctx := context.Background()
	l := Synchronized(NewList("one", "two"))

	s := stream.ParMap(l.Stream(), 1, func(e string) (string, error) {
		return e, l.Add("three")
	})
	_, _, err := stream.ReduceOrdered(ctx, s, func(a, b string) string { return a + " " + b })

	require.ErrorIs(t, err, ErrConcurrentModification)
}

func TestStreamInterferenceFixedSize(t *testing.T) {
	ctx := context.Background()
	l := AsList("one", "two")

	s := stream.ParMap(l.Stream(), 1, func(e string) (string, error) {
		return e, l.Add("three")
	})
	_, _, err := stream.ReduceOrdered(ctx, s, func(a, b string) string { return a + " " + b })

	require.ErrorIs(t, err, ErrUnsupportedOperation)
}

func TestSyncListConcurrentAdd(t *testing.T) {
	l := Synchronized(NewList[int]())

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				assert.NoError(t, l.Add(i*100+j))
			}
		}()
	}
	wg.Wait()

	values := l.Values()
	require.Len(t, values, 800)
	sort.Ints(values)
	for i, v := range values {
		assert.Equal(t, i, v)
	}
}

func TestSyncListSortAndStream(t *testing.T) {
	ctx := context.Background()
	l := Synchronized(NewList(3, 1, 2))
	l.Sort(cmp.Compare[int])

	got, err := stream.Collect(ctx, l.Stream())
	require.NoError(t, err)
	assert.Equal(t, []int{1, 2, 3}, got)
	assert.Equal(t, 3, l.Len())
}
