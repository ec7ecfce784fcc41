// Package config loads, normalizes, and validates cadence configuration data.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, and honours environment fallbacks such as
// CADENCE_MUSIC_DIR. The Config type centralizes every knob the CLI and the
// enrichment pipeline need: where the catalog and audio live, how strict
// filename matching is, the analysis frame geometry, batch concurrency, and
// the output sink.
//
// Always obtain settings through this package so downstream code receives
// sanitized paths, canonical formats, and clear validation errors.
package config
