// Package logging assembles structured slog loggers and formatting helpers used
// across cadence.
//
// It owns the console and JSON handlers, centralizes level and output
// plumbing, and exposes context-aware helpers so pipeline code automatically
// tags log lines with the batch run ID, the entry position and title, and the
// active stage. Handlers built by New also pick those fields up from the
// context passed to InfoContext and friends. A no-op logger is provided for
// tests and wiring code that cannot fail.
package logging
