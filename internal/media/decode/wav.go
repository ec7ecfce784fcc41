package decode

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
)

const (
	wavFormatPCM   = 1
	wavFormatFloat = 3
	wavChunkFrames = 8192
)

func decodeWAV(ctx context.Context, r io.ReadSeeker) (Signal, error) {
	d := wav.NewDecoder(r)
	if !d.IsValidFile() {
		return Signal{}, errors.New("invalid wav header")
	}
	if err := d.FwdToPCM(); err != nil {
		return Signal{}, fmt.Errorf("locate pcm chunk: %w", err)
	}

	channels := int(d.NumChans)
	depth := int(d.BitDepth)
	if channels < 1 || d.SampleRate == 0 {
		return Signal{}, errors.New("wav header missing channel count or sample rate")
	}
	format := int(d.WavAudioFormat)
	if format != wavFormatPCM && !(format == wavFormatFloat && depth == 32) {
		return Signal{}, fmt.Errorf("unsupported wav encoding %d/%d-bit", format, depth)
	}

	mix := newDownmixer(channels, fullScale(format, depth), 0)
	buf := &audio.IntBuffer{
		Format: &audio.Format{NumChannels: channels, SampleRate: int(d.SampleRate)},
		Data:   make([]int, wavChunkFrames*channels),
	}
	for {
		if err := ctx.Err(); err != nil {
			return Signal{}, err
		}
		n, err := d.PCMBuffer(buf)
		if err != nil && !errors.Is(err, io.EOF) {
			return Signal{}, fmt.Errorf("read pcm: %w", err)
		}
		if n == 0 {
			break
		}
		chunk := buf.Data[:n]
		switch {
		case format == wavFormatFloat:
			mix.addFloat32Bits(chunk)
		case depth == 8:
			// 8-bit wav is unsigned.
			for i := range chunk {
				chunk[i] -= 128
			}
			mix.addInterleaved(chunk)
		default:
			mix.addInterleaved(chunk)
		}
		if err != nil {
			break
		}
	}

	return Signal{Samples: mix.out, SampleRate: int(d.SampleRate), Channels: channels}, nil
}

func fullScale(format, depth int) float64 {
	if format == wavFormatFloat {
		return 1
	}
	return math.Ldexp(1, depth-1)
}

// addFloat32Bits appends frames whose integer samples carry IEEE float bits.
func (m *downmixer) addFloat32Bits(data []int) {
	frames := len(data) / m.channels
	for f := range frames {
		sum := 0.0
		base := f * m.channels
		for ch := range m.channels {
			sum += float64(math.Float32frombits(uint32(int32(data[base+ch]))))
		}
		m.out = append(m.out, clamp(sum*m.scale))
	}
}
