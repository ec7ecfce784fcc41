package analysis

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"time"

	"cadence/internal/logging"
	"cadence/internal/media/decode"
	"cadence/internal/pitchclass"
	"cadence/internal/services"
)

const component = "analysis"

// Features are the musical descriptors merged into a catalog entry.
type Features struct {
	Duration    float64                    `json:"duration"`
	Tempo       float64                    `json:"tempo"`
	ChromaMean  [pitchclass.Count]float64  `json:"chroma_mean"`
	ChromaNotes []pitchclass.NoteIntensity `json:"chroma_notes"`
}

// DominantNote returns the most intense pitch class.
func (f Features) DominantNote() string {
	return pitchclass.Dominant(f.ChromaNotes)
}

// DecodeFunc loads an audio file as a mono signal.
type DecodeFunc func(ctx context.Context, path string) (decode.Signal, error)

// Extractor computes Features for audio files.
type Extractor struct {
	params Params
	decode DecodeFunc
	logger *slog.Logger
}

// Option customises an Extractor.
type Option func(*Extractor)

// WithDecoder replaces the file decoder.
func WithDecoder(fn DecodeFunc) Option {
	return func(e *Extractor) {
		if fn != nil {
			e.decode = fn
		}
	}
}

// WithLogger attaches a logger; debug timings are emitted per file.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Extractor) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// NewExtractor constructs an Extractor with the given parameters.
func NewExtractor(params Params, opts ...Option) *Extractor {
	e := &Extractor{
		params: params,
		decode: decode.File,
		logger: logging.NewNop(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Extract decodes the file at path and analyses it. The file is only read.
func (e *Extractor) Extract(ctx context.Context, path string) (Features, error) {
	started := time.Now()
	sig, err := e.decode(ctx, path)
	if err != nil {
		return Features{}, err
	}
	features, err := e.Analyze(ctx, sig)
	if err != nil {
		return Features{}, err
	}
	logging.WithContext(ctx, e.logger).Debug("features extracted",
		logging.String("path", path),
		logging.String("format", string(sig.Format)),
		logging.Int("sample_rate", sig.SampleRate),
		logging.Float64("duration", features.Duration),
		logging.Float64("tempo", features.Tempo),
		logging.String("dominant_note", features.DominantNote()),
		logging.Duration("elapsed", time.Since(started)),
	)
	return features, nil
}

// Analyze computes Features for an already decoded signal.
func (e *Extractor) Analyze(ctx context.Context, sig decode.Signal) (Features, error) {
	if len(sig.Samples) == 0 || sig.SampleRate <= 0 {
		return Features{}, services.Wrap(services.ErrDecode, component, "analyze", "empty signal", nil)
	}
	p := e.params
	if p.FFTSize <= 0 || p.HopLength <= 0 {
		return Features{}, services.Wrap(services.ErrConfiguration, component, "analyze",
			fmt.Sprintf("invalid frame geometry %d/%d", p.FFTSize, p.HopLength), nil)
	}

	power, err := powerSpectrogram(ctx, sig.Samples, p.FFTSize, p.HopLength)
	if err != nil {
		return Features{}, err
	}
	if err := ctx.Err(); err != nil {
		return Features{}, err
	}

	frameRate := float64(sig.SampleRate) / float64(p.HopLength)
	tempo := estimateTempo(onsetEnvelope(power), frameRate, p)
	mean := meanChroma(power, chromaFilters(sig.SampleRate, p.FFTSize, p.TuningA4))

	features := Features{
		Duration:    sig.Seconds(),
		Tempo:       tempo,
		ChromaMean:  mean,
		ChromaNotes: pitchclass.Translate(mean),
	}
	if !features.finite() {
		return Features{}, services.Wrap(services.ErrDecode, component, "analyze", "non-finite feature value", nil)
	}
	return features, nil
}

func (f Features) finite() bool {
	values := append([]float64{f.Duration, f.Tempo}, f.ChromaMean[:]...)
	for _, v := range values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}
