package stream

import "runtime"

// ============================================================================
// SYSTEM CONFIGURATION
// ============================================================================

// VectorSize defines the default capacity and flush threshold for data batches (vectors)
// produced by generator and iterator sources.
// A larger size improves throughput by reducing channel overhead, but increases latency.
const VectorSize = 8192

// ChannelBuffer defines the buffer size for the channels connecting pipeline stages.
// It provides backpressure to prevent faster stages from overwhelming slower ones.
const ChannelBuffer = 1024 // Default backpressure buffer size

// partitionsPerWorker is how many vectors FromSlice aims to hand each worker
// when no batch size is configured.
const partitionsPerWorker = 4

// sanitizeDOP ensures the Degree of Parallelism (dop) is a valid positive integer.
//
// If dop is less than or equal to 0, it defaults to the number of logical CPUs available (GOMAXPROCS).
//
// Parameters:
//   dop: The requested degree of parallelism.
//
// Returns:
//   int: The sanitized degree of parallelism.
func sanitizeDOP(dop int) int {
	if dop <= 0 {
		return runtime.GOMAXPROCS(0)
	}
	return dop
}

// splitSize picks the vector size used to partition n elements so that every
// one of GOMAXPROCS workers receives several partitions.
func splitSize(n int) int {
	parts := sanitizeDOP(0) * partitionsPerWorker
	size := (n + parts - 1) / parts
	if size < 1 {
		return 1
	}
	if size > VectorSize {
		return VectorSize
	}
	return size
}
