package analysis

import (
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"cadence/internal/pitchclass"
)

// chromaMinHz is C1; lower bins are too coarse to assign a pitch class.
const chromaMinHz = 32.70319566257483

// chromaFilters builds a [bin][class] weight table. Each bin spreads its
// energy over the pitch classes with a Gaussian in semitone distance whose
// width grows with the bin spacing; weights per bin sum to 1. Bins below C1
// and the DC bin carry no weight (nil row).
func chromaFilters(sampleRate, fftSize int, tuningA4 float64) [][]float64 {
	bins := fftSize/2 + 1
	binHz := float64(sampleRate) / float64(fftSize)
	filters := make([][]float64, bins)
	for k := 1; k < bins; k++ {
		freq := float64(k) * binHz
		if freq < chromaMinHz {
			continue
		}
		midi := 69 + 12*math.Log2(freq/tuningA4)
		spacing := 12 * math.Log2((freq+binHz)/freq)
		sigma := math.Max(0.5, spacing/2)

		row := make([]float64, pitchclass.Count)
		for class := range row {
			d := math.Mod(midi-60-float64(class), 12)
			if d < 0 {
				d += 12
			}
			if d >= 6 {
				d -= 12
			}
			row[class] = math.Exp(-0.5 * (d / sigma) * (d / sigma))
		}
		floats.Scale(1/floats.Sum(row), row)
		filters[k] = row
	}
	return filters
}

// meanChroma projects every power frame onto the pitch classes, normalises
// each frame by its loudest class, and averages over frames. Silent frames
// stay zero, so silence yields twelve zeros.
func meanChroma(power [][]float64, filters [][]float64) [pitchclass.Count]float64 {
	var mean [pitchclass.Count]float64
	if len(power) == 0 {
		return mean
	}
	columns := make([][]float64, pitchclass.Count)
	for c := range columns {
		columns[c] = make([]float64, len(power))
	}
	frame := make([]float64, pitchclass.Count)
	for t, spectrum := range power {
		for c := range frame {
			frame[c] = 0
		}
		for k, row := range filters {
			if row == nil || k >= len(spectrum) || spectrum[k] == 0 {
				continue
			}
			floats.AddScaled(frame, spectrum[k], row)
		}
		if peak := floats.Max(frame); peak > 0 {
			floats.Scale(1/peak, frame)
		}
		for c, v := range frame {
			columns[c][t] = v
		}
	}
	for c := range mean {
		mean[c] = stat.Mean(columns[c], nil)
	}
	return mean
}
