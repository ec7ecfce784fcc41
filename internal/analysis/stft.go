package analysis

import (
	"context"
	"math/cmplx"

	"gonum.org/v1/gonum/dsp/fourier"
	"gonum.org/v1/gonum/dsp/window"
)

// cancelCheckFrames is how often long loops poll the context.
const cancelCheckFrames = 64

// powerSpectrogram returns |STFT|^2 frames of fftSize/2+1 bins. Frames are
// centred: the signal is reflect-padded by fftSize/2 on both sides.
func powerSpectrogram(ctx context.Context, samples []float64, fftSize, hop int) ([][]float64, error) {
	padded := centrePad(samples, fftSize/2)
	frames := 1 + (len(padded)-fftSize)/hop

	win := make([]float64, fftSize)
	for i := range win {
		win[i] = 1
	}
	win = window.Hann(win)

	fft := fourier.NewFFT(fftSize)
	buf := make([]float64, fftSize)
	coeffs := make([]complex128, fftSize/2+1)
	out := make([][]float64, frames)
	for f := range frames {
		if f%cancelCheckFrames == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}
		start := f * hop
		for i := range buf {
			buf[i] = padded[start+i] * win[i]
		}
		coeffs = fft.Coefficients(coeffs, buf)
		power := make([]float64, len(coeffs))
		for k, c := range coeffs {
			a := cmplx.Abs(c)
			power[k] = a * a
		}
		out[f] = power
	}
	return out, nil
}

// centrePad mirrors the signal around its edges (excluding the edge sample).
// Signals too short to mirror are zero padded instead.
func centrePad(samples []float64, pad int) []float64 {
	n := len(samples)
	out := make([]float64, n+2*pad)
	copy(out[pad:], samples)
	if n <= pad {
		return out
	}
	for i := range pad {
		out[i] = samples[pad-i]
		out[pad+n+i] = samples[n-2-i]
	}
	return out
}
