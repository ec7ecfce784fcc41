// Package batch walks a catalog through the entry processor.
//
// Each entry runs in its own fault-isolated scope: errors and panics become
// Diagnostics and never stop the batch. Entries are processed on a clone, so
// a failed entry contributes nothing to the output and the caller's slice is
// never modified.
//
// With more than one worker, entries are fanned out over a fixed pool. Every
// worker writes only its own slot of a pre-sized result slice, and the slice
// is compacted afterwards, so output order always equals input order.
//
// Cancelling the parent context stops dispatch; entries that never started
// are reported with kind "canceled".
package batch
