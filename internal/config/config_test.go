package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/pelletier/go-toml/v2"

	"cadence/internal/config"
)

func TestLoadDefaultConfigExpandsPaths(t *testing.T) {
	tempHome := t.TempDir()
	t.Setenv("HOME", tempHome)
	t.Chdir(t.TempDir())

	cfg, resolved, exists, err := config.Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if resolved != filepath.Join(tempHome, ".config", "cadence", "config.toml") {
		t.Fatalf("unexpected resolved path %q", resolved)
	}
	if exists {
		t.Fatal("expected config file to be absent in temp HOME")
	}
	if !filepath.IsAbs(cfg.Paths.MusicDir) || filepath.Base(cfg.Paths.MusicDir) != "Music" {
		t.Fatalf("unexpected music dir: %q", cfg.Paths.MusicDir)
	}
	if filepath.Base(cfg.Paths.Input) != "youtube_links.json" {
		t.Fatalf("unexpected input: %q", cfg.Paths.Input)
	}
	if filepath.Base(cfg.Paths.Output) != "processed_music.json" {
		t.Fatalf("unexpected output: %q", cfg.Paths.Output)
	}
	if cfg.Matching.Threshold != 0.3 {
		t.Fatalf("unexpected threshold: %v", cfg.Matching.Threshold)
	}
	if cfg.Analysis.FFTSize != 2048 || cfg.Analysis.HopLength != 512 {
		t.Fatalf("unexpected analysis geometry: %+v", cfg.Analysis)
	}
	if cfg.Output.Format != "json" || cfg.Output.Indent != 4 {
		t.Fatalf("unexpected output settings: %+v", cfg.Output)
	}
	if cfg.EntryTimeout() != 0 {
		t.Fatalf("expected timeout disabled, got %v", cfg.EntryTimeout())
	}
}

func TestLoadCustomConfigOverrides(t *testing.T) {
	tempHome := t.TempDir()
	t.Setenv("HOME", tempHome)

	configPath := filepath.Join(t.TempDir(), "config.toml")
	content := `
[paths]
music_dir = "~/audio"
output = "~/out/collection.db"

[matching]
threshold = 0.5
match_tags = true

[batch]
workers = 4
entry_timeout_seconds = 30

[output]
format = "SQLite"

[logging]
level = "DEBUG"
`
	if err := os.WriteFile(configPath, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, resolved, exists, err := config.Load(configPath)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if !exists || resolved != configPath {
		t.Fatalf("expected explicit config to be used, got %q exists=%v", resolved, exists)
	}
	if cfg.Paths.MusicDir != filepath.Join(tempHome, "audio") {
		t.Fatalf("unexpected music dir: %q", cfg.Paths.MusicDir)
	}
	if cfg.Paths.Output != filepath.Join(tempHome, "out", "collection.db") {
		t.Fatalf("unexpected output: %q", cfg.Paths.Output)
	}
	if cfg.Matching.Threshold != 0.5 || !cfg.Matching.MatchTags {
		t.Fatalf("unexpected matching: %+v", cfg.Matching)
	}
	if cfg.Batch.Workers != 4 {
		t.Fatalf("unexpected workers: %d", cfg.Batch.Workers)
	}
	if cfg.EntryTimeout() != 30*time.Second {
		t.Fatalf("unexpected entry timeout: %v", cfg.EntryTimeout())
	}
	if cfg.Output.Format != "sqlite" {
		t.Fatalf("expected format normalized to sqlite, got %q", cfg.Output.Format)
	}
	if cfg.Logging.Level != "debug" {
		t.Fatalf("expected level normalized to debug, got %q", cfg.Logging.Level)
	}
}

func TestLoadProjectConfigFallback(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	project := t.TempDir()
	t.Chdir(project)

	if err := os.WriteFile(filepath.Join(project, "cadence.toml"), []byte("[matching]\nthreshold = 0.6\n"), 0o644); err != nil {
		t.Fatalf("write project config: %v", err)
	}

	cfg, resolved, exists, err := config.Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if !exists || filepath.Base(resolved) != "cadence.toml" {
		t.Fatalf("expected project config, got %q exists=%v", resolved, exists)
	}
	if cfg.Matching.Threshold != 0.6 {
		t.Fatalf("unexpected threshold: %v", cfg.Matching.Threshold)
	}
}

func TestLoadEnvironmentOverridesPaths(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	music := t.TempDir()
	t.Setenv("CADENCE_MUSIC_DIR", music)
	t.Setenv("CADENCE_INPUT", filepath.Join(music, "links.json"))

	cfg, _, _, err := config.Load(filepath.Join(t.TempDir(), "missing.toml"))
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.Paths.MusicDir != music {
		t.Fatalf("expected env music dir, got %q", cfg.Paths.MusicDir)
	}
	if cfg.Paths.Input != filepath.Join(music, "links.json") {
		t.Fatalf("expected env input, got %q", cfg.Paths.Input)
	}
}

func TestLoadRejectsUnknownFields(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	configPath := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(configPath, []byte("[matching]\ncutoff = 0.3\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	if _, _, _, err := config.Load(configPath); err == nil {
		t.Fatal("expected unknown field to be rejected")
	}
}

func TestValidateRejectsBadValues(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*config.Config)
		want   string
	}{
		{"threshold", func(c *config.Config) { c.Matching.Threshold = 1 }, "matching.threshold"},
		{"negative threshold", func(c *config.Config) { c.Matching.Threshold = -0.1 }, "matching.threshold"},
		{"fft size", func(c *config.Config) { c.Analysis.FFTSize = 1000 }, "analysis.fft_size"},
		{"hop", func(c *config.Config) { c.Analysis.HopLength = 4096 }, "analysis.hop_length"},
		{"bpm range", func(c *config.Config) { c.Analysis.MaxBPM = 20 }, "analysis.min_bpm"},
		{"start bpm", func(c *config.Config) { c.Analysis.StartBPM = 400 }, "analysis.start_bpm"},
		{"workers", func(c *config.Config) { c.Batch.Workers = 0 }, "batch.workers"},
		{"timeout", func(c *config.Config) { c.Batch.EntryTimeoutSeconds = -1 }, "batch.entry_timeout_seconds"},
		{"format", func(c *config.Config) { c.Output.Format = "csv" }, "output.format"},
		{"log level", func(c *config.Config) { c.Logging.Level = "verbose" }, "logging.level"},
		{"music dir", func(c *config.Config) { c.Paths.MusicDir = "" }, "paths.music_dir"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.Default()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if err == nil {
				t.Fatal("expected validation error")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Fatalf("expected error mentioning %q, got %v", tt.want, err)
			}
		})
	}
}

func TestDefaultConfigValidates(t *testing.T) {
	cfg := config.Default()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config invalid: %v", err)
	}
}

func TestCreateSampleMatchesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.toml")
	if err := config.CreateSample(path); err != nil {
		t.Fatalf("CreateSample returned error: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read sample: %v", err)
	}

	var parsed config.Config
	if err := toml.Unmarshal(data, &parsed); err != nil {
		t.Fatalf("sample config does not parse: %v", err)
	}
	defaults := config.Default()
	if parsed != defaults {
		t.Fatalf("sample config drifted from defaults:\n got %+v\nwant %+v", parsed, defaults)
	}
}

func TestEncodeRoundTrip(t *testing.T) {
	cfg := config.Default()
	cfg.Batch.Workers = 3
	encoded, err := cfg.Encode()
	if err != nil {
		t.Fatalf("Encode returned error: %v", err)
	}
	var parsed config.Config
	if err := toml.Unmarshal([]byte(encoded), &parsed); err != nil {
		t.Fatalf("decode encoded config: %v", err)
	}
	if parsed.Batch.Workers != 3 {
		t.Fatalf("expected workers 3 after round trip, got %d", parsed.Batch.Workers)
	}
}
