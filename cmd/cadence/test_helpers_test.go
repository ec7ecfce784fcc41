package main

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"cadence/internal/config"
	"cadence/internal/testsupport"
)

type cliTestEnv struct {
	cfg        *config.Config
	configPath string
	baseDir    string
}

func setupCLITestEnv(t *testing.T, opts ...testsupport.ConfigOption) *cliTestEnv {
	t.Helper()

	cfg := testsupport.NewConfig(t, opts...)
	base := testsupport.BaseDir(cfg)
	home := filepath.Join(base, "home")
	if err := os.MkdirAll(home, 0o755); err != nil {
		t.Fatalf("mkdir home: %v", err)
	}
	t.Setenv("HOME", home)
	for _, key := range []string{"CADENCE_MUSIC_DIR", "CADENCE_INPUT", "CADENCE_OUTPUT"} {
		t.Setenv(key, "")
	}

	configPath := filepath.Join(base, "cadence.toml")
	writeTestConfig(t, configPath, cfg)

	return &cliTestEnv{cfg: cfg, configPath: configPath, baseDir: base}
}

func runCLI(t *testing.T, args []string, configPath string) (string, string, error) {
	t.Helper()
	cmd := newRootCommand()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	var flags []string
	if configPath != "" {
		flags = append(flags, "--config", configPath)
	}
	cmd.SetArgs(append(flags, args...))
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func writeTestConfig(t *testing.T, path string, cfg *config.Config) {
	t.Helper()
	content := fmt.Sprintf(
		"[paths]\nmusic_dir = %q\ninput = %q\noutput = %q\n\n[matching]\nthreshold = %v\n\n[batch]\nworkers = %d\n\n[output]\nformat = %q\n",
		cfg.Paths.MusicDir,
		cfg.Paths.Input,
		cfg.Paths.Output,
		cfg.Matching.Threshold,
		cfg.Batch.Workers,
		cfg.Output.Format,
	)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
}

// seedLibrary writes an A440 tone and a 120 BPM click track into the music
// directory and a three-entry catalog whose middle title matches nothing.
func seedLibrary(t *testing.T, cfg *config.Config) {
	t.Helper()
	rate := testsupport.FixtureRate
	testsupport.WriteWAV(t, filepath.Join(cfg.Paths.MusicDir, "Imagine.wav"),
		testsupport.Tone(440, 2, rate, 0.5), rate, 1)
	testsupport.WriteWAV(t, filepath.Join(cfg.Paths.MusicDir, "Click Track.wav"),
		testsupport.ClickTrack(120, 8, rate), rate, 2)
	testsupport.WriteCatalog(t, cfg.Paths.Input, `[
  {"title": "imagine", "url": "https://example.com/a"},
  {"title": "zzz_nonexistent_zzz", "url": "https://example.com/b"},
  {"title": "click track", "url": "https://example.com/c"}
]`)
}

func requireContains(t *testing.T, output, substr string) {
	t.Helper()
	if !strings.Contains(output, substr) {
		t.Fatalf("expected %q to contain %q", output, substr)
	}
}
