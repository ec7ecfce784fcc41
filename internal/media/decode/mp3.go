package decode

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/hajimehoshi/go-mp3"
)

// go-mp3 always emits 16-bit little-endian stereo.
const (
	mp3Channels    = 2
	mp3BytesFrame  = 4
	mp3ReadBufSize = 16 * 1024
)

func decodeMP3(ctx context.Context, r io.Reader) (Signal, error) {
	decoder, err := mp3.NewDecoder(r)
	if err != nil {
		return Signal{}, fmt.Errorf("open mp3 stream: %w", err)
	}

	capacity := 0
	if length := decoder.Length(); length > 0 {
		capacity = int(length / mp3BytesFrame)
	}
	mix := newDownmixer(mp3Channels, 32768, capacity)

	buf := make([]byte, mp3ReadBufSize)
	pending := make([]byte, 0, mp3BytesFrame)
	frame := make([]int, 0, mp3ReadBufSize/2)
	for {
		if err := ctx.Err(); err != nil {
			return Signal{}, err
		}
		n, readErr := decoder.Read(buf)
		if n > 0 {
			data := buf[:n]
			if len(pending) > 0 {
				data = append(pending, data...)
				pending = pending[:0]
			}
			usable := len(data) - len(data)%mp3BytesFrame
			frame = frame[:0]
			for i := 0; i+1 < usable; i += 2 {
				frame = append(frame, int(int16(data[i])|int16(data[i+1])<<8))
			}
			mix.addInterleaved(frame)
			pending = append(pending, data[usable:]...)
		}
		if readErr != nil {
			if errors.Is(readErr, io.EOF) {
				break
			}
			return Signal{}, fmt.Errorf("read mp3 stream: %w", readErr)
		}
	}

	return Signal{Samples: mix.out, SampleRate: decoder.SampleRate(), Channels: mp3Channels}, nil
}
