package decode

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math"

	"github.com/mewkiz/flac"
)

func decodeFLAC(ctx context.Context, r io.Reader) (Signal, error) {
	stream, err := flac.New(r)
	if err != nil {
		return Signal{}, fmt.Errorf("open flac stream: %w", err)
	}

	channels := int(stream.Info.NChannels)
	if channels < 1 || stream.Info.SampleRate == 0 {
		return Signal{}, errors.New("flac stream info missing channel count or sample rate")
	}
	mix := newDownmixer(channels, math.Ldexp(1, int(stream.Info.BitsPerSample)-1), int(stream.Info.NSamples))

	var interleaved []int
	for {
		if err := ctx.Err(); err != nil {
			return Signal{}, err
		}
		frame, err := stream.ParseNext()
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return Signal{}, fmt.Errorf("parse flac frame: %w", err)
		}
		if len(frame.Subframes) != channels {
			return Signal{}, fmt.Errorf("flac frame has %d subframes, want %d", len(frame.Subframes), channels)
		}
		blockSize := int(frame.BlockSize)
		interleaved = interleaved[:0]
		for i := range blockSize {
			for ch := range channels {
				interleaved = append(interleaved, int(frame.Subframes[ch].Samples[i]))
			}
		}
		mix.addInterleaved(interleaved)
	}

	return Signal{Samples: mix.out, SampleRate: int(stream.Info.SampleRate), Channels: channels}, nil
}
