package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"cadence/internal/analysis"
	"cadence/internal/config"
	"cadence/internal/media/tags"
)

type analyzeReport struct {
	Path   string `json:"path"`
	Title  string `json:"title,omitempty"`
	Artist string `json:"artist,omitempty"`
	Album  string `json:"album,omitempty"`
	analysis.Features
}

func newAnalyzeCommand(ctx *commandContext) *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "analyze <file>",
		Short: "Extract duration, tempo, and pitch-class energy from one audio file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			path, err := config.ExpandPath(args[0])
			if err != nil {
				return err
			}
			logger, err := ctx.logger(cmd, false)
			if err != nil {
				return err
			}

			extractor := analysis.NewExtractor(analysis.ParamsFromConfig(cfg.Analysis), analysis.WithLogger(logger))
			features, err := extractor.Extract(cmd.Context(), path)
			if err != nil {
				return err
			}
			report := analyzeReport{Path: path, Features: features}
			if meta, err := tags.Read(path); err == nil {
				report.Title = meta.Title
				report.Artist = meta.Artist
				report.Album = meta.Album
			}

			if jsonOutput {
				return writeJSON(cmd, report)
			}
			printAnalysis(cmd, report)
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Print features as JSON")
	return cmd
}

func printAnalysis(cmd *cobra.Command, report analyzeReport) {
	out := cmd.OutOrStdout()
	colorize := shouldColorize(out)
	fmt.Fprintln(out, renderStatusLine("File", statusInfo, report.Path, colorize))
	if report.Title != "" {
		fmt.Fprintln(out, renderStatusLine("Title", statusInfo, report.Title, colorize))
	}
	if report.Artist != "" {
		fmt.Fprintln(out, renderStatusLine("Artist", statusInfo, report.Artist, colorize))
	}
	fmt.Fprintln(out, renderStatusLine("Duration", statusOK,
		fmt.Sprintf("%s (%.3fs)", formatSeconds(report.Duration), report.Duration), colorize))
	tempo := strconv.FormatFloat(report.Tempo, 'f', 1, 64) + " BPM"
	tempoKind := statusOK
	if report.Tempo == 0 {
		tempo = "no pulse detected"
		tempoKind = statusWarn
	}
	fmt.Fprintln(out, renderStatusLine("Tempo", tempoKind, tempo, colorize))
	fmt.Fprintln(out, renderStatusLine("Dominant", statusOK, fallback(report.DominantNote(), "-"), colorize))

	rows := make([][]string, 0, len(report.ChromaNotes))
	for i, n := range report.ChromaNotes {
		rows = append(rows, []string{strconv.Itoa(i + 1), n.Note, strconv.FormatFloat(n.Intensity, 'f', 3, 64)})
	}
	fmt.Fprintln(out)
	fmt.Fprintln(out, renderTable([]string{"Rank", "Note", "Intensity"}, rows, []columnAlignment{alignRight, alignLeft, alignRight}))
}
