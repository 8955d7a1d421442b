// Package parallelism demonstrates parallel collection processing on top of the
// stream package: parallel aggregation, concurrent grouping, ordered versus unordered
// traversal, interference with a stream's own source, and stateful mappers.
//
// Two of the demonstrations are deliberate negative examples. Concatenate mutates the
// list it is traversing and always fails; CaptureSerial and CaptureParallel use mappers
// with side effects. They are kept as they are to show what goes wrong, not fixed.
//
// A third negative example exists only in prose: appending to an unsynchronized
// collection.List from a parallel stage is a data race. Elements can be lost and the
// race detector reports it, so it is never executed here.
package parallelism
