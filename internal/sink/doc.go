// Package sink persists the processed collection.
//
// Two formats are supported, both holding a single flat collection that is
// replaced wholesale on every write:
//   - json: a JSON array written atomically under an advisory file lock
//   - sqlite: one row per entry in a fresh SQLite database
//
// Use New to pick a sink from the configured output format.
package sink
