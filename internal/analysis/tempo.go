package analysis

import (
	"math"

	"gonum.org/v1/gonum/floats"
)

const (
	// amin and topDB bound the log-power spectrogram like a standard dB
	// conversion: floor at -100 dB and at most 80 dB below the peak.
	amin  = 1e-10
	topDB = 80.0
)

// onsetEnvelope is the half-wave rectified spectral flux of the log-power
// spectrogram, averaged over bins. The first frame is always 0.
func onsetEnvelope(power [][]float64) []float64 {
	if len(power) == 0 {
		return nil
	}
	db := make([][]float64, len(power))
	peak := math.Inf(-1)
	for t, frame := range power {
		row := make([]float64, len(frame))
		for k, p := range frame {
			row[k] = 10 * math.Log10(math.Max(p, amin))
		}
		peak = math.Max(peak, floats.Max(row))
		db[t] = row
	}
	floor := peak - topDB
	for _, row := range db {
		for k, v := range row {
			if v < floor {
				row[k] = floor
			}
		}
	}

	onset := make([]float64, len(db))
	for t := 1; t < len(db); t++ {
		sum := 0.0
		for k, v := range db[t] {
			if d := v - db[t-1][k]; d > 0 {
				sum += d
			}
		}
		onset[t] = sum / float64(len(db[t]))
	}
	return onset
}

// estimateTempo picks the onset autocorrelation lag in [minBPM, maxBPM] with
// the highest score under a log-normal prior centred on startBPM with a one
// octave deviation, refined by parabolic interpolation. It returns 0 when
// the envelope carries no onset energy or is too short to span a beat.
func estimateTempo(onset []float64, frameRate float64, p Params) float64 {
	if len(onset) == 0 || floats.Sum(onset) == 0 {
		return 0
	}
	minLag := max(1, int(math.Floor(frameRate*60/p.MaxBPM)))
	maxLag := min(int(math.Ceil(frameRate*60/p.MinBPM)), len(onset)-2)
	if maxLag < minLag {
		return 0
	}

	lo := max(1, minLag-1)
	hi := maxLag + 1
	scores := make([]float64, hi+1)
	for lag := lo; lag <= hi; lag++ {
		scores[lag] = autocorrelation(onset, lag) * tempoPrior(60*frameRate/float64(lag), p.StartBPM)
	}

	best := minLag
	for lag := minLag + 1; lag <= maxLag; lag++ {
		if scores[lag] > scores[best] {
			best = lag
		}
	}
	if scores[best] <= 0 {
		return 0
	}

	offset := 0.0
	if best-1 >= lo && best+1 <= hi {
		a, b, c := scores[best-1], scores[best], scores[best+1]
		if den := a - 2*b + c; den != 0 {
			offset = 0.5 * (a - c) / den
		}
	}
	return 60 * frameRate / (float64(best) + offset)
}

// autocorrelation is the unbiased lagged product mean of x.
func autocorrelation(x []float64, lag int) float64 {
	n := len(x) - lag
	if n <= 0 {
		return 0
	}
	return floats.Dot(x[:n], x[lag:]) / float64(n)
}

func tempoPrior(bpm, start float64) float64 {
	octaves := math.Log2(bpm / start)
	return math.Exp(-0.5 * octaves * octaves)
}
