package config

import (
	"errors"
	"fmt"
	"strings"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validatePaths(); err != nil {
		return err
	}
	if err := c.validateMatching(); err != nil {
		return err
	}
	if err := c.validateAnalysis(); err != nil {
		return err
	}
	if err := c.validateBatch(); err != nil {
		return err
	}
	if err := c.validateOutput(); err != nil {
		return err
	}
	return c.validateLogging()
}

func (c *Config) validatePaths() error {
	if strings.TrimSpace(c.Paths.MusicDir) == "" {
		return errors.New("paths.music_dir must be set")
	}
	if strings.TrimSpace(c.Paths.Output) == "" {
		return errors.New("paths.output must be set")
	}
	return nil
}

func (c *Config) validateMatching() error {
	if c.Matching.Threshold < 0 || c.Matching.Threshold >= 1 {
		return errors.New("matching.threshold must be in [0, 1)")
	}
	return nil
}

func (c *Config) validateAnalysis() error {
	a := c.Analysis
	if a.FFTSize < minFFTSize || a.FFTSize&(a.FFTSize-1) != 0 {
		return fmt.Errorf("analysis.fft_size must be a power of two >= %d", minFFTSize)
	}
	if a.HopLength <= 0 || a.HopLength > a.FFTSize {
		return errors.New("analysis.hop_length must be positive and no larger than analysis.fft_size")
	}
	if a.MinBPM <= 0 || a.MaxBPM <= a.MinBPM {
		return errors.New("analysis.min_bpm must be positive and below analysis.max_bpm")
	}
	if a.StartBPM < a.MinBPM || a.StartBPM > a.MaxBPM {
		return errors.New("analysis.start_bpm must lie within [min_bpm, max_bpm]")
	}
	if a.TuningA4 <= 0 {
		return errors.New("analysis.tuning_a4 must be positive")
	}
	return nil
}

func (c *Config) validateBatch() error {
	if c.Batch.Workers < 1 || c.Batch.Workers > maxWorkers {
		return fmt.Errorf("batch.workers must be between 1 and %d", maxWorkers)
	}
	if c.Batch.EntryTimeoutSeconds < 0 || c.Batch.EntryTimeoutSeconds > maxEntryTimeoutSeconds {
		return fmt.Errorf("batch.entry_timeout_seconds must be between 0 and %d", maxEntryTimeoutSeconds)
	}
	return nil
}

func (c *Config) validateOutput() error {
	switch c.Output.Format {
	case outputFormatJSON, outputFormatSQLite:
	default:
		return fmt.Errorf("output.format must be %q or %q, got %q", outputFormatJSON, outputFormatSQLite, c.Output.Format)
	}
	if c.Output.Indent < 0 || c.Output.Indent > maxOutputIndent {
		return fmt.Errorf("output.indent must be between 0 and %d", maxOutputIndent)
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format must be console or json, got %q", c.Logging.Format)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level must be debug, info, warn, or error, got %q", c.Logging.Level)
	}
	return nil
}
