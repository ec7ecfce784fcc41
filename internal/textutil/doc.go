// Package textutil provides text processing utilities for title matching.
//
// The primary use cases are:
//   - Normalizing titles and filenames so case, accents, and spacing do not
//     affect comparison
//   - Scoring two strings with a longest-matching-blocks similarity ratio
//   - Showing where a title and a filename differ
//
// Ratio follows the Ratcliff/Obershelp "gestalt pattern matching" rule: find
// the longest common block, recurse on the unmatched text to either side, and
// report 2*M/T where M is the matched length and T the combined length.
// Comparison is over runes, so multi-byte characters count once.
package textutil
