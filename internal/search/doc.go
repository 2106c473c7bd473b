// Package search owns the parallel recovery search.
//
// Ownership boundary:
// - static partitioning of the outer digit across workers
// - worker lifecycle: running -> exhausted | matched | cancelled
// - progress aggregation and throughput telemetry
// - shared cancellation on match, timeout or interrupt
//
// Each worker owns its odometer, assembler and verifier. The only shared
// mutable state is the progress channel and the cancellation context.
package search
