package main

import (
	"encoding/json"
	"errors"
	"path/filepath"
	"testing"

	"cadence/internal/services"
	"cadence/internal/testsupport"
)

func TestAnalyzeJSON(t *testing.T) {
	env := setupCLITestEnv(t)
	path := filepath.Join(env.baseDir, "c4.wav")
	testsupport.WriteWAV(t, path, testsupport.Tone(261.63, 1.5, testsupport.FixtureRate, 0.5), testsupport.FixtureRate, 1)

	out, _, err := runCLI(t, []string{"analyze", path, "--json"}, env.configPath)
	if err != nil {
		t.Fatalf("analyze: %v", err)
	}
	var report struct {
		Path        string    `json:"path"`
		Duration    float64   `json:"duration"`
		ChromaMean  []float64 `json:"chroma_mean"`
		ChromaNotes []struct {
			Note      string  `json:"note"`
			Intensity float64 `json:"intensity"`
		} `json:"chroma_notes"`
	}
	if err := json.Unmarshal([]byte(out), &report); err != nil {
		t.Fatalf("decode: %v\n%s", err, out)
	}
	if report.Path != path {
		t.Fatalf("path = %q", report.Path)
	}
	if report.Duration < 1.49 || report.Duration > 1.51 {
		t.Fatalf("duration = %.3f, want 1.5", report.Duration)
	}
	if len(report.ChromaMean) != 12 || len(report.ChromaNotes) != 12 {
		t.Fatalf("expected 12 chroma values, got %d/%d", len(report.ChromaMean), len(report.ChromaNotes))
	}
	if report.ChromaNotes[0].Note != "C" {
		t.Fatalf("dominant note = %q, want C", report.ChromaNotes[0].Note)
	}
}

func TestAnalyzeTable(t *testing.T) {
	env := setupCLITestEnv(t)
	path := filepath.Join(env.baseDir, "silence.wav")
	testsupport.WriteWAV(t, path, testsupport.Silence(1, testsupport.FixtureRate), testsupport.FixtureRate, 1)

	out, _, err := runCLI(t, []string{"analyze", path}, env.configPath)
	if err != nil {
		t.Fatalf("analyze: %v", err)
	}
	requireContains(t, out, "no pulse detected")
	requireContains(t, out, "Intensity")
	requireContains(t, out, "0.000")
}

func TestAnalyzeMissingFile(t *testing.T) {
	env := setupCLITestEnv(t)
	_, _, err := runCLI(t, []string{"analyze", filepath.Join(env.baseDir, "missing.wav")}, env.configPath)
	if !errors.Is(err, services.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
