package analysis

import "cadence/internal/config"

// Params controls the analysis frame geometry and tempo search.
type Params struct {
	FFTSize   int
	HopLength int
	MinBPM    float64
	MaxBPM    float64
	StartBPM  float64
	TuningA4  float64
}

// DefaultParams mirrors the repository defaults in config.Default.
func DefaultParams() Params {
	return ParamsFromConfig(config.Default().Analysis)
}

// ParamsFromConfig converts the [analysis] config section.
func ParamsFromConfig(a config.Analysis) Params {
	return Params{
		FFTSize:   a.FFTSize,
		HopLength: a.HopLength,
		MinBPM:    a.MinBPM,
		MaxBPM:    a.MaxBPM,
		StartBPM:  a.StartBPM,
		TuningA4:  a.TuningA4,
	}
}
