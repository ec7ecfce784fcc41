package main

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"cadence/internal/analysis"
	"cadence/internal/batch"
	"cadence/internal/catalog"
	"cadence/internal/config"
	"cadence/internal/enrich"
	"cadence/internal/logging"
	"cadence/internal/pitchclass"
	"cadence/internal/resolver"
	"cadence/internal/sink"
)

type processFlags struct {
	input      string
	musicDir   string
	output     string
	format     string
	workers    int
	threshold  float64
	jsonOutput bool
	noProgress bool
}

func newProcessCommand(ctx *commandContext) *cobra.Command {
	var flags processFlags

	cmd := &cobra.Command{
		Use:   "process",
		Short: "Match catalog titles to audio files and write the enriched catalog",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			base, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			cfg, err := applyProcessFlags(cmd, *base, flags)
			if err != nil {
				return err
			}
			return runProcess(cmd, ctx, cfg, flags)
		},
	}

	cmd.Flags().StringVar(&flags.input, "input", "", "Catalog JSON file to enrich")
	cmd.Flags().StringVar(&flags.musicDir, "music-dir", "", "Directory holding the audio files")
	cmd.Flags().StringVar(&flags.output, "output", "", "Destination for the enriched catalog")
	cmd.Flags().StringVar(&flags.format, "format", "", "Output format (json, sqlite)")
	cmd.Flags().IntVar(&flags.workers, "workers", 0, "Entries processed concurrently")
	cmd.Flags().Float64Var(&flags.threshold, "threshold", 0, "Minimum filename similarity (exclusive)")
	cmd.Flags().BoolVar(&flags.jsonOutput, "json", false, "Print the run summary as JSON")
	cmd.Flags().BoolVar(&flags.noProgress, "no-progress", false, "Disable the progress bar")
	return cmd
}

// applyProcessFlags layers explicitly set flags over the loaded config and
// re-validates the result.
func applyProcessFlags(cmd *cobra.Command, cfg config.Config, flags processFlags) (*config.Config, error) {
	changed := cmd.Flags().Changed
	if changed("input") {
		cfg.Paths.Input = flags.input
	}
	if changed("music-dir") {
		cfg.Paths.MusicDir = flags.musicDir
	}
	if changed("output") {
		cfg.Paths.Output = flags.output
	}
	if changed("format") {
		cfg.Output.Format = strings.ToLower(strings.TrimSpace(flags.format))
	}
	if changed("workers") {
		cfg.Batch.Workers = flags.workers
	}
	if changed("threshold") {
		cfg.Matching.Threshold = flags.threshold
	}
	if err := cfg.ExpandPaths(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func runProcess(cmd *cobra.Command, ctx *commandContext, cfg *config.Config, flags processFlags) error {
	entries, err := catalog.Load(cfg.Paths.Input)
	if err != nil {
		return fmt.Errorf("load catalog: %w", err)
	}
	writer, err := sink.New(cfg.Output.Format, cfg.Paths.Output, cfg.Output.Indent)
	if err != nil {
		return err
	}

	stderr := cmd.ErrOrStderr()
	showProgress := !flags.noProgress && isTerminal(stderr)
	logger, err := ctx.logger(cmd, showProgress)
	if err != nil {
		return err
	}

	resolverOpts := []resolver.Option{resolver.WithLogger(logger)}
	if cfg.Matching.MatchTags {
		resolverOpts = append(resolverOpts, resolver.WithTagTitles(nil))
	}
	processor := enrich.NewProcessor(
		resolver.New(cfg.Matching.Threshold, resolverOpts...),
		analysis.NewExtractor(analysis.ParamsFromConfig(cfg.Analysis), analysis.WithLogger(logger)),
		logger,
	)

	logger.Debug("run configured",
		logging.String("input", cfg.Paths.Input),
		logging.String("output", writer.Path()),
		logging.Float64("threshold", cfg.Matching.Threshold),
		logging.Bool("match_tags", cfg.Matching.MatchTags),
		logging.Int("workers", cfg.Batch.Workers),
	)

	bar := newProgress(stderr, len(entries), showProgress)
	runner := batch.NewRunner(processor, batch.Options{
		Workers:      cfg.Batch.Workers,
		EntryTimeout: cfg.EntryTimeout(),
		Logger:       logger,
		OnEntryDone:  bar.done,
	})
	result := runner.Run(cmd.Context(), entries, cfg.Paths.MusicDir)
	bar.wait()

	// An interrupted run still saves what finished.
	if err := writer.Write(context.WithoutCancel(cmd.Context()), result.Processed); err != nil {
		logging.ErrorWithContext(logger, "output write failed", "output_failed",
			logging.String("output", writer.Path()),
			logging.String(logging.FieldErrorHint, "check the output directory is writable and not locked by another run"),
			logging.Error(err),
		)
		return fmt.Errorf("write output: %w", err)
	}

	if flags.jsonOutput {
		if err := writeJSON(cmd, newRunReport(result, writer.Path())); err != nil {
			return err
		}
	} else {
		printRunSummary(cmd.OutOrStdout(), result, writer.Path(), shouldColorize(cmd.OutOrStdout()))
	}

	if err := cmd.Context().Err(); err != nil {
		return err
	}
	return nil
}

type runReport struct {
	RunID       string             `json:"run_id"`
	Output      string             `json:"output"`
	Total       int                `json:"total"`
	Processed   int                `json:"processed"`
	Skipped     int                `json:"skipped"`
	ElapsedMS   int64              `json:"elapsed_ms"`
	Entries     []entryReport      `json:"entries"`
	Diagnostics []batch.Diagnostic `json:"diagnostics"`
}

type entryReport struct {
	Title        string  `json:"title"`
	Duration     float64 `json:"duration"`
	Tempo        float64 `json:"tempo"`
	DominantNote string  `json:"dominant_note"`
}

func newRunReport(result batch.Result, output string) runReport {
	report := runReport{
		RunID:       result.RunID,
		Output:      output,
		Total:       result.Total,
		Processed:   len(result.Processed),
		Skipped:     result.Skipped(),
		ElapsedMS:   result.Elapsed.Milliseconds(),
		Entries:     make([]entryReport, 0, len(result.Processed)),
		Diagnostics: result.Diagnostics,
	}
	if report.Diagnostics == nil {
		report.Diagnostics = []batch.Diagnostic{}
	}
	for _, entry := range result.Processed {
		report.Entries = append(report.Entries, summarizeEntry(entry))
	}
	return report
}

func summarizeEntry(entry catalog.Entry) entryReport {
	report := entryReport{Title: entry.Title()}
	_ = entry.Decode(catalog.FieldDuration, &report.Duration)
	_ = entry.Decode(catalog.FieldTempo, &report.Tempo)
	var notes []pitchclass.NoteIntensity
	if err := entry.Decode(catalog.FieldChromaNotes, &notes); err == nil {
		report.DominantNote = pitchclass.Dominant(notes)
	}
	return report
}

func printRunSummary(out io.Writer, result batch.Result, output string, colorize bool) {
	summary := result.Summary()

	processedKind := statusOK
	if summary.Processed == 0 && summary.Total > 0 {
		processedKind = statusError
	}
	fmt.Fprintln(out, renderStatusLine("Run", statusInfo, result.RunID, colorize))
	fmt.Fprintln(out, renderStatusLine("Processed", processedKind,
		fmt.Sprintf("%d of %d entries in %s", summary.Processed, summary.Total, result.Elapsed.Round(time.Millisecond)), colorize))
	skippedKind := statusOK
	if summary.Skipped > 0 {
		skippedKind = statusWarn
	}
	fmt.Fprintln(out, renderStatusLine("Skipped", skippedKind, skippedDetail(summary), colorize))
	fmt.Fprintln(out, renderStatusLine("Output", statusInfo, output, colorize))

	if len(result.Processed) > 0 {
		rows := make([][]string, 0, len(result.Processed))
		for i, entry := range result.Processed {
			e := summarizeEntry(entry)
			rows = append(rows, []string{
				strconv.Itoa(i + 1),
				e.Title,
				formatSeconds(e.Duration),
				strconv.FormatFloat(e.Tempo, 'f', 1, 64),
				fallback(e.DominantNote, "-"),
			})
		}
		fmt.Fprintln(out)
		fmt.Fprintln(out, renderTable(
			[]string{"#", "Title", "Duration", "BPM", "Dominant note"},
			rows,
			[]columnAlignment{alignRight, alignLeft, alignRight, alignRight, alignLeft},
		))
	}

	if len(result.Diagnostics) > 0 {
		rows := make([][]string, 0, len(result.Diagnostics))
		for _, d := range result.Diagnostics {
			rows = append(rows, []string{strconv.Itoa(d.Index + 1), d.Title, string(d.Kind), d.Reason})
		}
		fmt.Fprintln(out)
		fmt.Fprintln(out, renderTable(
			[]string{"Entry", "Title", "Kind", "Reason"},
			rows,
			[]columnAlignment{alignRight},
		))
	}
}

func skippedDetail(summary batch.Summary) string {
	if summary.Skipped == 0 {
		return "0"
	}
	parts := make([]string, 0, len(summary.ByKind))
	for _, kc := range summary.ByKind {
		parts = append(parts, fmt.Sprintf("%s=%d", kc.Kind, kc.Count))
	}
	return fmt.Sprintf("%d (%s)", summary.Skipped, strings.Join(parts, ", "))
}

func formatSeconds(seconds float64) string {
	d := time.Duration(seconds * float64(time.Second)).Round(time.Second)
	minutes := int(d / time.Minute)
	return fmt.Sprintf("%d:%02d", minutes, int((d%time.Minute)/time.Second))
}

func fallback(value, alt string) string {
	if strings.TrimSpace(value) == "" {
		return alt
	}
	return value
}
