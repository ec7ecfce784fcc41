package decode

import "time"

// Signal is a decoded mono audio stream.
type Signal struct {
	Samples    []float64
	SampleRate int
	// Channels is the channel count of the source before downmixing.
	Channels int
	Format   Format
}

// Seconds returns the signal length in seconds, or 0 when the rate is unknown.
func (s Signal) Seconds() float64 {
	if s.SampleRate <= 0 {
		return 0
	}
	return float64(len(s.Samples)) / float64(s.SampleRate)
}

// Duration returns the signal length as a time.Duration.
func (s Signal) Duration() time.Duration {
	return time.Duration(s.Seconds() * float64(time.Second))
}

// downmixer accumulates interleaved frames into mono samples.
type downmixer struct {
	channels int
	scale    float64
	out      []float64
}

func newDownmixer(channels int, fullScale float64, capacity int) *downmixer {
	if channels < 1 {
		channels = 1
	}
	return &downmixer{
		channels: channels,
		scale:    1 / (fullScale * float64(channels)),
		out:      make([]float64, 0, capacity),
	}
}

// addInterleaved appends frames from interleaved integer samples. A trailing
// partial frame is dropped.
func (m *downmixer) addInterleaved(data []int) {
	frames := len(data) / m.channels
	for f := range frames {
		sum := 0
		base := f * m.channels
		for ch := range m.channels {
			sum += data[base+ch]
		}
		m.out = append(m.out, clamp(float64(sum)*m.scale))
	}
}

func clamp(v float64) float64 {
	switch {
	case v > 1:
		return 1
	case v < -1:
		return -1
	default:
		return v
	}
}
