// Package services defines shared utilities consumed by the enrichment
// pipeline components and the batch runner.
//
// Key responsibilities:
//   - Context helpers that stamp run IDs, entry indexes, entry titles, and
//     stage names for logging.
//   - Structured error markers plus the Wrap helper that tag failures so the
//     batch runner can report a consistent skip reason per entry.
//
// Components return wrapped errors immediately; only the batch runner turns
// them into diagnostics via Classify.
package services
