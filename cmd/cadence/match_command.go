package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"cadence/internal/config"
	"cadence/internal/resolver"
	"cadence/internal/services"
	"cadence/internal/textutil"
)

func newMatchCommand(ctx *commandContext) *cobra.Command {
	var musicDir string
	var threshold float64
	var limit int
	var jsonOutput bool
	var explain bool

	cmd := &cobra.Command{
		Use:   "match <title>",
		Short: "Rank the audio files that could match a catalog title",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			dir := cfg.Paths.MusicDir
			if cmd.Flags().Changed("music-dir") {
				if dir, err = config.ExpandPath(musicDir); err != nil {
					return err
				}
			}
			if !cmd.Flags().Changed("threshold") {
				threshold = cfg.Matching.Threshold
			}
			logger, err := ctx.logger(cmd, false)
			if err != nil {
				return err
			}

			opts := []resolver.Option{resolver.WithLogger(logger)}
			if cfg.Matching.MatchTags {
				opts = append(opts, resolver.WithTagTitles(nil))
			}
			r := resolver.New(threshold, opts...)
			title := args[0]
			candidates, err := r.Candidates(cmd.Context(), title, dir)
			if err != nil {
				return err
			}
			if limit > 0 && len(candidates) > limit {
				candidates = candidates[:limit]
			}
			accepted := len(candidates) > 0 && candidates[0].Score > threshold

			if jsonOutput {
				if candidates == nil {
					candidates = []resolver.Match{}
				}
				if err := writeJSON(cmd, candidates); err != nil {
					return err
				}
			} else {
				printCandidates(cmd, candidates, threshold)
				if explain && len(candidates) > 0 {
					printExplanation(cmd, title, candidates[0])
				}
			}
			if !accepted {
				return services.Wrap(services.ErrNotFound, "match", "resolve",
					fmt.Sprintf("no file matches %q above %.2f", title, threshold), nil)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&musicDir, "music-dir", "", "Directory holding the audio files")
	cmd.Flags().Float64Var(&threshold, "threshold", 0, "Minimum filename similarity (exclusive)")
	cmd.Flags().IntVar(&limit, "limit", 10, "Maximum candidates to list (0 for all)")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Print candidates as JSON")
	cmd.Flags().BoolVar(&explain, "explain", false, "Show how the title differs from the top filename")
	return cmd
}

func printCandidates(cmd *cobra.Command, candidates []resolver.Match, threshold float64) {
	out := cmd.OutOrStdout()
	if len(candidates) == 0 {
		fmt.Fprintln(out, "No audio files found")
		return
	}
	rows := make([][]string, 0, len(candidates))
	for i, c := range candidates {
		rows = append(rows, []string{
			strconv.Itoa(i + 1),
			c.Name,
			strconv.FormatFloat(c.Score, 'f', 3, 64),
			c.Source,
			yesNo(i == 0 && c.Score > threshold),
		})
	}
	fmt.Fprintln(out, renderTable(
		[]string{"Rank", "File", "Score", "Source", "Selected"},
		rows,
		[]columnAlignment{alignRight, alignLeft, alignRight},
	))
}

// printExplanation aligns the normalised title with the top candidate's
// normalised stem. Text only in the title is shown as [-x-], text only in
// the filename as {+x+}.
func printExplanation(cmd *cobra.Command, title string, top resolver.Match) {
	out := cmd.OutOrStdout()
	colorize := shouldColorize(out)
	query := textutil.Normalize(title)
	stem := textutil.Normalize(textutil.Stem(top.Name))

	var b strings.Builder
	for _, seg := range textutil.Diff(query, stem) {
		switch seg.Op {
		case textutil.EditDelete:
			b.WriteString(markEdit("[-", seg.Text, "-]", ansiRed, colorize))
		case textutil.EditInsert:
			b.WriteString(markEdit("{+", seg.Text, "+}", ansiGreen, colorize))
		default:
			b.WriteString(seg.Text)
		}
	}
	fmt.Fprintln(out)
	fmt.Fprintln(out, renderStatusLine("Title", statusInfo, query, false))
	fmt.Fprintln(out, renderStatusLine("File", statusInfo, stem, false))
	fmt.Fprintln(out, renderStatusLine("Diff", statusInfo, b.String(), false))
	if top.Source == resolver.SourceTag {
		fmt.Fprintln(out, "Score came from the embedded title tag, not the filename")
	}
}

func markEdit(prefix, text, suffix, color string, colorize bool) string {
	if colorize {
		return color + text + ansiReset
	}
	return prefix + text + suffix
}
