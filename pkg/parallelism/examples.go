package parallelism

import (
	"cmp"
	"context"
	"sort"
	"time"

	"go-parallelism/pkg/collection"
	"go-parallelism/pkg/roster"
	"go-parallelism/pkg/stream"
)

// SampleIntegers returns the integer sequence used by the ordering examples.
func SampleIntegers() []int {
	return []int{1, 2, 3, 4, 5, 6, 7, 8}
}

// AverageAge computes the average age of the members of one gender with a
// filter, map and average pipeline running on dop workers. It reports false
// when no member has that gender.
func AverageAge(
	ctx context.Context,
	people []roster.Person,
	gender roster.Gender,
	asOf time.Time,
	dop int,
	opts ...stream.Option,
) (float64, bool, error) {
	members := stream.ParFilter(stream.FromSlice(people, opts...), dop, func(p roster.Person) bool {
		return p.Gender == gender
	})
	ages := stream.ParMap(members, dop, func(p roster.Person) (int, error) {
		return p.Age(asOf), nil
	})
	return stream.Average(ctx, ages, dop)
}

// GroupByGender partitions the roster by gender with a concurrent grouping.
// The order of members within a group is unspecified.
func GroupByGender(ctx context.Context, people []roster.Person, dop int, opts ...stream.Option) (map[roster.Gender][]roster.Person, error) {
	return stream.GroupByConcurrent(ctx, stream.FromSlice(people, opts...), dop, func(p roster.Person) roster.Gender {
		return p.Gender
	})
}

// sortedGenders returns the keys of groups in declaration order.
func sortedGenders(groups map[roster.Gender][]roster.Person) []roster.Gender {
	genders := make([]roster.Gender, 0, len(groups))
	for g := range groups {
		genders = append(genders, g)
	}
	sort.Slice(genders, func(i, j int) bool { return genders[i] < genders[j] })
	return genders
}

// SortDescending sorts the list in place, largest first.
func SortDescending(list *collection.List[int]) {
	list.Sort(collection.Reversed(cmp.Compare[int]))
}

// Concatenate joins the strings of list with single spaces while, for every element
// traversed, appending "three" to the very list being traversed.
//
// Don't do this! The traversal interferes with its own source. It always fails,
// typically with collection.ErrConcurrentModification.
func Concatenate(ctx context.Context, list *collection.SyncList[string]) (string, error) {
	// The stage is sequential, so addErr is only touched by one goroutine.
	var addErr error
	interfering := stream.Peek(list.Stream(), 1, func(string) {
		if err := list.Add("three"); err != nil && addErr == nil {
			addErr = err
		}
	})

	joined, _, err := stream.ReduceOrdered(ctx, interfering, func(a, b string) string {
		return a + " " + b
	})
	if err != nil {
		return "", err
	}
	if addErr != nil {
		return "", addErr
	}
	return joined, nil
}

// CaptureSerial maps values through a sequential stage whose mapper appends every
// element to storage, and hands each element to visit in order.
//
// Don't do this! The mapper is stateful. It only works because the stage is
// sequential and storage is never touched by two goroutines at once.
func CaptureSerial(ctx context.Context, values []int, storage *collection.List[int], visit func(int)) error {
	captured := stream.ParMap(stream.FromSlice(values), 1, func(e int) (int, error) {
		return e, storage.Add(e)
	})
	return stream.ForEachOrdered(ctx, captured, visit)
}

// CaptureParallel maps values on dop workers whose mapper appends every element to
// a synchronized list, and hands each element to visit in source order. The list
// holds every element, in whatever order the workers reached them.
//
// Don't do this either! The mapper is still stateful; synchronization only makes it
// memory-safe.
func CaptureParallel(
	ctx context.Context,
	values []int,
	dop int,
	visit func(int),
	opts ...stream.Option,
) (*collection.SyncList[int], error) {
	storage := collection.Synchronized(collection.NewList[int]())
	captured := stream.ParMap(stream.FromSlice(values, opts...), dop, func(e int) (int, error) {
		return e, storage.Add(e)
	})
	if err := stream.ForEachOrdered(ctx, captured, visit); err != nil {
		return nil, err
	}
	return storage, nil
}
