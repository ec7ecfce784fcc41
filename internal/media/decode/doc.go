// Package decode turns audio files into mono sample streams.
//
// Key types:
//   - Signal: mono float64 samples in [-1, 1] at the file's native rate
//   - Format: the container detected for a file (wav, mp3, flac)
//
// Primary entry point:
//   - File: sniffs the container, decodes it, and downmixes to mono
//
// The container is detected from the file header and falls back to the
// extension when the header is inconclusive. Files are opened read-only.
// A missing file is reported as services.ErrNotFound; every other failure
// (unknown container, corrupt stream, no samples) is services.ErrDecode.
package decode
