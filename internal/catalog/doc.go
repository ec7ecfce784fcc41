// Package catalog models the music metadata entries flowing through cadence.
//
// An Entry is a JSON object that remembers its key order and carries every
// field it was loaded with, known or not, byte-for-byte. Features are merged
// with Set, which overwrites existing keys in place and appends new ones, so
// the enriched output reads like the input with extra fields at the end.
//
// Load and Decode read the input catalog: a JSON array of objects. An element
// that is not an object does not fail the whole catalog; it becomes an Entry
// whose Err reports the problem so the batch can skip it alone.
package catalog
