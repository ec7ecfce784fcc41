package main

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"cadence/internal/catalog"
	"cadence/internal/services"
	"cadence/internal/sink"
	"cadence/internal/testsupport"
)

func TestProcessWritesSuccessesInInputOrder(t *testing.T) {
	env := setupCLITestEnv(t)
	seedLibrary(t, env.cfg)

	out, _, err := runCLI(t, []string{"process"}, env.configPath)
	if err != nil {
		t.Fatalf("process: %v", err)
	}
	requireContains(t, out, "2 of 3 entries")
	requireContains(t, out, "not_found=1")
	requireContains(t, out, "zzz_nonexistent_zzz")

	data, err := os.ReadFile(env.cfg.Paths.Output)
	if err != nil {
		t.Fatalf("read output: %v", err)
	}
	var written []map[string]any
	if err := json.Unmarshal(data, &written); err != nil {
		t.Fatalf("decode output: %v", err)
	}
	if len(written) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(written))
	}
	if written[0]["title"] != "imagine" || written[1]["title"] != "click track" {
		t.Fatalf("unexpected order: %v, %v", written[0]["title"], written[1]["title"])
	}
	if written[0]["url"] != "https://example.com/a" {
		t.Fatalf("extra field lost: %v", written[0])
	}
	for _, key := range []string{"duration", "tempo", "chroma_mean", "chroma_notes"} {
		if _, ok := written[0][key]; !ok {
			t.Fatalf("missing %s in %v", key, written[0])
		}
	}
	notes, _ := written[0]["chroma_notes"].([]any)
	if len(notes) != 12 {
		t.Fatalf("expected 12 chroma notes, got %d", len(notes))
	}
	if top, _ := notes[0].(map[string]any); top["note"] != "A" {
		t.Fatalf("expected A to dominate the 440 Hz tone, got %v", notes[0])
	}
}

func TestProcessJSONSummaryAndFlagOverrides(t *testing.T) {
	env := setupCLITestEnv(t)
	seedLibrary(t, env.cfg)
	output := filepath.Join(env.baseDir, "alt", "enriched.db")

	out, _, err := runCLI(t, []string{
		"process", "--json", "--workers", "3", "--format", "sqlite", "--output", output,
	}, env.configPath)
	if err != nil {
		t.Fatalf("process: %v", err)
	}

	var report runReport
	if err := json.Unmarshal([]byte(out), &report); err != nil {
		t.Fatalf("decode summary: %v\n%s", err, out)
	}
	if report.Total != 3 || report.Processed != 2 || report.Skipped != 1 {
		t.Fatalf("unexpected counts: %+v", report)
	}
	if report.RunID == "" {
		t.Fatal("expected a run id")
	}
	if report.Output != output {
		t.Fatalf("output = %q, want %q", report.Output, output)
	}
	if len(report.Diagnostics) != 1 || report.Diagnostics[0].Index != 1 || report.Diagnostics[0].Kind != services.KindNotFound {
		t.Fatalf("unexpected diagnostics: %+v", report.Diagnostics)
	}
	if report.Entries[0].DominantNote != "A" {
		t.Fatalf("dominant note = %q, want A", report.Entries[0].DominantNote)
	}
	if tempo := report.Entries[1].Tempo; tempo < 118 || tempo > 122 {
		t.Fatalf("click track tempo = %.2f, want about 120", tempo)
	}

	entries, err := sink.NewSQLite(output).Read(context.Background())
	if err != nil {
		t.Fatalf("read sqlite: %v", err)
	}
	if len(entries) != 2 || entries[0].Title() != "imagine" || entries[1].Title() != "click track" {
		t.Fatalf("unexpected sqlite contents: %v", entries)
	}
	var url string
	if err := entries[1].Decode("url", &url); err != nil || url != "https://example.com/c" {
		t.Fatalf("url = %q, err %v", url, err)
	}
}

func TestProcessHonoursConfiguredSink(t *testing.T) {
	env := setupCLITestEnv(t, testsupport.WithOutputFormat("sqlite"), testsupport.WithThreshold(0.5))
	seedLibrary(t, env.cfg)

	out, _, err := runCLI(t, []string{"process"}, env.configPath)
	if err != nil {
		t.Fatalf("process: %v", err)
	}
	requireContains(t, out, env.cfg.Paths.Output)

	entries, err := sink.NewSQLite(env.cfg.Paths.Output).Read(context.Background())
	if err != nil {
		t.Fatalf("read sqlite: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}
}

func TestProcessMusicDirFlagOverridesConfig(t *testing.T) {
	env := setupCLITestEnv(t)
	seedLibrary(t, env.cfg)
	empty := filepath.Join(env.baseDir, "empty")
	if err := os.MkdirAll(empty, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}

	out, _, err := runCLI(t, []string{"process", "--music-dir", empty}, env.configPath)
	if err != nil {
		t.Fatalf("process: %v", err)
	}
	requireContains(t, out, "0 of 3 entries")
	requireContains(t, out, "not_found=3")

	entries, err := catalog.Load(env.cfg.Paths.Output)
	if err != nil {
		t.Fatalf("load output: %v", err)
	}
	if len(entries) != 0 {
		t.Fatalf("expected empty output, got %d entries", len(entries))
	}
}

func TestProcessRejectsInvalidOverrides(t *testing.T) {
	env := setupCLITestEnv(t)
	seedLibrary(t, env.cfg)

	for _, args := range [][]string{
		{"process", "--threshold", "1"},
		{"process", "--workers", "0"},
		{"process", "--format", "xml"},
	} {
		if _, _, err := runCLI(t, args, env.configPath); err == nil {
			t.Fatalf("%v: expected error", args)
		}
	}
	if _, err := os.Stat(env.cfg.Paths.Output); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("expected no output after rejected runs, stat err %v", err)
	}
}

func TestProcessMissingCatalog(t *testing.T) {
	env := setupCLITestEnv(t)

	_, _, err := runCLI(t, []string{"process"}, env.configPath)
	if !errors.Is(err, services.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestProcessCanceledContextStillWritesOutput(t *testing.T) {
	env := setupCLITestEnv(t, testsupport.WithWorkers(2))
	seedLibrary(t, env.cfg)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	cmd := newRootCommand()
	cmd.SetOut(&discard{})
	cmd.SetErr(&discard{})
	cmd.SetArgs([]string{"--config", env.configPath, "process"})
	err := cmd.ExecuteContext(ctx)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	entries, err := catalog.Load(env.cfg.Paths.Output)
	if err != nil {
		t.Fatalf("load output: %v", err)
	}
	if len(entries) != 0 {
		t.Fatalf("expected no processed entries, got %d", len(entries))
	}
}

type discard struct{}

func (discard) Write(p []byte) (int, error) { return len(p), nil }

func TestProcessNullCatalogKeepsExistingOutput(t *testing.T) {
	env := setupCLITestEnv(t)
	testsupport.WriteCatalog(t, env.cfg.Paths.Input, "null")
	testsupport.WriteCatalog(t, env.cfg.Paths.Output, `[{"title":"kept"}]`)

	_, _, err := runCLI(t, []string{"process"}, env.configPath)
	if !errors.Is(err, services.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
	entries, err := catalog.Load(env.cfg.Paths.Output)
	if err != nil {
		t.Fatalf("load output: %v", err)
	}
	if len(entries) != 1 || entries[0].Title() != "kept" {
		t.Fatalf("previous output was replaced: %v", entries)
	}
}
