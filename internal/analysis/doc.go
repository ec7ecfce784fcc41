// Package analysis extracts musical features from decoded audio.
//
// An Extractor decodes a file (see media/decode), computes a centred
// short-time power spectrogram, and derives three features from it:
//   - duration in seconds at the native sample rate
//   - global tempo in BPM from the autocorrelation of an onset envelope
//   - the mean 12-bin chroma vector and its ranked note list
//
// All outputs are plain float64 values. Extraction is deterministic: the same
// file always yields identical features.
package analysis
