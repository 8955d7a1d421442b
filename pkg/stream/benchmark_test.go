package stream

import (
	"context"
	"testing"
)

func BenchmarkThroughput_Sequential(b *testing.B) {
	ctx := context.Background()

	// Generator that yields b.N items
	gen := func(emit func(int)) error {
		for i := 0; i < b.N; i++ {
			emit(i)
		}
		return nil
	}

	// Pipeline: Source -> Map -> Filter -> Reduce
	pipeline := ParFilter(
		ParMap(FromGenerator(gen), 1, func(i int) (int, error) { return i * 2, nil }),
		1,
		func(int) bool { return true },
	)

	b.ResetTimer()
	if _, err := Reduce(ctx, pipeline, 0, func(acc, _ int) int { return acc + 1 }); err != nil {
		b.Fatalf("Reduce failed: %v", err)
	}
}

func BenchmarkThroughput_Parallel(b *testing.B) {
	ctx := context.Background()

	gen := func(emit func(int)) error {
		for i := 0; i < b.N; i++ {
			emit(i)
		}
		return nil
	}

	// Pipeline: Source -> ParMap -> Aggregate
	pipeline := ParMap(FromGenerator(gen), 0, func(i int) (int, error) { return i * 2, nil })

	b.ResetTimer()
	if _, err := Count(ctx, pipeline, 0); err != nil {
		b.Fatalf("Count failed: %v", err)
	}
}

func BenchmarkForEachOrdered(b *testing.B) {
	ctx := context.Background()
	items := make([]int, b.N)

	pipeline := ParMap(FromSlice(items, WithBatchSize(256)), 0, func(i int) (int, error) { return i + 1, nil })

	b.ResetTimer()
	if err := ForEachOrdered(ctx, pipeline, func(int) {}); err != nil {
		b.Fatalf("ForEachOrdered failed: %v", err)
	}
}
