// Package stream provides a vectorized, concurrent collection-processing framework.
//
// It leverages Go generics to offer type-safe data pipelines. Sources partition their
// input into vectors (batches); parallel operators process vectors on a pool of workers
// and terminals merge the results. Every vector carries the sequence number of its
// partition, so a terminal can choose between an unordered merge (results are delivered
// as workers finish) and an order-preserving merge (results are delivered in source order).
//
// Key features include:
//   - Vector pooling to amortize allocation and channel costs.
//   - Structured concurrency for robust error handling and cancellation.
//   - Parallel operators (ParMap, ParFilter, Peek) with an explicit degree of parallelism;
//     a degree of 1 is a sequential stream.
//   - Associative parallel reductions (Aggregate, Average, GroupByConcurrent) whose result
//     does not depend on how the input was partitioned.
//   - Ordered (ForEachOrdered, Collect, ReduceOrdered) and unordered (ForEach) traversal.
//
// Basic usage involves creating a source, applying transformations, and consuming the
// result with a terminal operator.
package stream
