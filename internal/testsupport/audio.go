package testsupport

import (
	"bytes"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
	"github.com/mewkiz/flac"
	"github.com/mewkiz/flac/frame"
	"github.com/mewkiz/flac/meta"
)

// FixtureRate is the sample rate used by generated fixtures.
const FixtureRate = 22050

// WAV encodings accepted by WriteWAVEncoded.
const (
	WAVPCM   = 1
	WAVFloat = 3
)

// WriteWAV encodes mono samples in [-1, 1] as a 16-bit PCM wav file. With
// channels > 1 every channel carries the same signal.
func WriteWAV(t testing.TB, path string, samples []float64, sampleRate, channels int) {
	t.Helper()
	WriteWAVEncoded(t, path, samples, sampleRate, channels, 16, WAVPCM)
}

// WriteWAVEncoded is WriteWAV with an explicit bit depth and encoding.
// 8-bit PCM is written unsigned; WAVFloat requires a depth of 32.
func WriteWAVEncoded(t testing.TB, path string, samples []float64, sampleRate, channels, depth, encoding int) {
	t.Helper()

	if channels < 1 {
		channels = 1
	}
	data := make([]int, 0, len(samples)*channels)
	for _, s := range samples {
		s = math.Max(-1, math.Min(1, s))
		var v int
		switch {
		case encoding == WAVFloat:
			v = int(int32(math.Float32bits(float32(s))))
		case depth == 8:
			v = int(math.Round(s*127)) + 128
		default:
			v = int(math.Round(s * (math.Ldexp(1, depth-1) - 1)))
		}
		for range channels {
			data = append(data, v)
		}
	}

	f := createFixture(t, path)
	defer f.Close()
	enc := wav.NewEncoder(f, sampleRate, depth, channels, encoding)
	buf := &audio.IntBuffer{
		Format:         &audio.Format{NumChannels: channels, SampleRate: sampleRate},
		Data:           data,
		SourceBitDepth: depth,
	}
	if err := enc.Write(buf); err != nil {
		t.Fatalf("encode %s: %v", path, err)
	}
	if err := enc.Close(); err != nil {
		t.Fatalf("finalize %s: %v", path, err)
	}
}

// WriteFLAC encodes a 16-bit stereo FLAC file from separate channel samples
// in [-1, 1], using verbatim subframes of flacBlockSize samples.
func WriteFLAC(t testing.TB, path string, left, right []float64, sampleRate int) {
	t.Helper()

	if len(left) != len(right) {
		t.Fatalf("flac channels differ in length: %d vs %d", len(left), len(right))
	}
	info := &meta.StreamInfo{
		BlockSizeMin:  flacBlockSize,
		BlockSizeMax:  flacBlockSize,
		SampleRate:    uint32(sampleRate),
		NChannels:     2,
		BitsPerSample: 16,
		NSamples:      uint64(len(left)),
	}
	var out bytes.Buffer
	enc, err := flac.NewEncoder(&out, info)
	if err != nil {
		t.Fatalf("new flac encoder: %v", err)
	}
	for start := 0; start < len(left); start += flacBlockSize {
		end := min(start+flacBlockSize, len(left))
		f := &frame.Frame{
			Header: frame.Header{
				HasFixedBlockSize: true,
				BlockSize:         uint16(end - start),
				SampleRate:        uint32(sampleRate),
				Channels:          frame.ChannelsLR,
				BitsPerSample:     16,
			},
			Subframes: []*frame.Subframe{
				verbatimSubframe(left[start:end]),
				verbatimSubframe(right[start:end]),
			},
		}
		if err := enc.WriteFrame(f); err != nil {
			t.Fatalf("write flac frame at %d: %v", start, err)
		}
	}
	if err := enc.Close(); err != nil {
		t.Fatalf("finalize flac: %v", err)
	}

	f := createFixture(t, path)
	defer f.Close()
	if _, err := f.Write(out.Bytes()); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

const flacBlockSize = 4096

func verbatimSubframe(samples []float64) *frame.Subframe {
	out := make([]int32, len(samples))
	for i, s := range samples {
		out[i] = int32(math.Round(math.Max(-1, math.Min(1, s)) * 32767))
	}
	return &frame.Subframe{
		SubHeader: frame.SubHeader{Pred: frame.PredVerbatim},
		Samples:   out,
		NSamples:  len(out),
	}
}

// MP3FrameSamples is the number of samples per channel in one MPEG-1 Layer
// III frame.
const MP3FrameSamples = 1152

// WriteSilentMP3 writes frames MPEG-1 Layer III frames (44.1 kHz, 128 kbps,
// mono) whose side information and main data are all zero, which decode to
// silence.
func WriteSilentMP3(t testing.TB, path string, frames int) {
	t.Helper()

	// 144 * bitrate / sample rate, no padding.
	const frameLen = 144 * 128000 / 44100
	header := []byte{0xFF, 0xFB, 0x90, 0xC0}
	data := make([]byte, 0, frames*frameLen)
	for range frames {
		data = append(data, header...)
		data = append(data, make([]byte, frameLen-len(header))...)
	}

	f := createFixture(t, path)
	defer f.Close()
	if _, err := f.Write(data); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

func createFixture(t testing.TB, path string) *os.File {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir for %s: %v", path, err)
	}
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("create %s: %v", path, err)
	}
	return f
}

// Tone returns a sine wave at freq Hz.
func Tone(freq, seconds float64, sampleRate int, amplitude float64) []float64 {
	n := int(seconds * float64(sampleRate))
	out := make([]float64, n)
	for i := range out {
		out[i] = amplitude * math.Sin(2*math.Pi*freq*float64(i)/float64(sampleRate))
	}
	return out
}

// ClickTrack returns short decaying 1 kHz bursts repeated at bpm.
func ClickTrack(bpm, seconds float64, sampleRate int) []float64 {
	n := int(seconds * float64(sampleRate))
	out := make([]float64, n)
	period := 60 / bpm * float64(sampleRate)
	clickLen := int(0.03 * float64(sampleRate))
	for beat := 0.0; int(beat) < n; beat += period {
		start := int(beat)
		for j := 0; j < clickLen && start+j < n; j++ {
			decay := math.Exp(-float64(j) / (0.005 * float64(sampleRate)))
			out[start+j] = 0.9 * decay * math.Sin(2*math.Pi*1000*float64(j)/float64(sampleRate))
		}
	}
	return out
}

// Silence returns seconds of zero samples.
func Silence(seconds float64, sampleRate int) []float64 {
	return make([]float64, int(seconds*float64(sampleRate)))
}
