package stream_test

import (
	"context"
	"fmt"
	"strings"

	"go-parallelism/pkg/stream"
)

// Types for the example
type SensorData struct {
	ID     int
	Region string
}

func ExampleForEachOrdered() {
	ctx := context.Background()

	// Every element is its own partition, so eight workers race each other.
	squares := stream.ParMap(stream.FromSlice([]int{1, 2, 3, 4, 5, 6, 7, 8}, stream.WithBatchSize(1)), 8,
		func(i int) (int, error) { return i * i, nil })

	_ = stream.ForEachOrdered(ctx, squares, func(i int) { fmt.Print(i, " ") })
	fmt.Println()
	// Output: 1 4 9 16 25 36 49 64
}

func ExampleAverage() {
	ctx := context.Background()

	readings := []SensorData{{1, "US"}, {2, "EU"}, {3, "US"}, {4, "US"}}
	us := stream.ParFilter(stream.FromSlice(readings), 0, func(d SensorData) bool { return d.Region == "US" })
	ids := stream.ParMap(us, 0, func(d SensorData) (int, error) { return d.ID, nil })

	avg, ok, err := stream.Average(ctx, ids, 0)
	fmt.Println(avg, ok, err)
	// Output: 2.6666666666666665 true <nil>
}

func ExampleGroupByConcurrent() {
	ctx := context.Background()

	readings := []SensorData{{1, "US"}, {2, "EU"}, {3, "US"}}
	byRegion, err := stream.GroupByConcurrent(ctx, stream.FromSlice(readings), 0, func(d SensorData) string {
		return d.Region
	})
	if err != nil {
		fmt.Println(err)
		return
	}
	fmt.Println(len(byRegion["US"]), len(byRegion["EU"]))
	// Output: 2 1
}

func ExampleReduceOrdered() {
	ctx := context.Background()

	words := stream.ParMap(stream.FromSlice([]string{"a", "b", "c"}), 0, func(s string) (string, error) {
		return strings.ToUpper(s), nil
	})
	joined, _, _ := stream.ReduceOrdered(ctx, words, func(a, b string) string { return a + " " + b })
	fmt.Println(joined)
	// Output: A B C
}
