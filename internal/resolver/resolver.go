// Package resolver locates the audio file that best matches a catalog title.
//
// The directory is listed fresh on every call and candidates are sorted
// lexically before scoring, so equal scores always resolve to the same file.
package resolver

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"cadence/internal/logging"
	"cadence/internal/media/decode"
	"cadence/internal/media/tags"
	"cadence/internal/services"
	"cadence/internal/textutil"
)

const component = "resolver"

// Match sources.
const (
	SourceFilename = "filename"
	SourceTag      = "tag"
)

// Match is a scored candidate audio file.
type Match struct {
	Path   string  `json:"path"`
	Name   string  `json:"name"`
	Score  float64 `json:"score"`
	Source string  `json:"source"`
}

// TitleReader returns the embedded title of an audio file, or "".
type TitleReader func(path string) string

// Resolver scores catalog titles against audio filenames.
type Resolver struct {
	threshold float64
	readTitle TitleReader
	logger    *slog.Logger
}

// Option customises a Resolver.
type Option func(*Resolver)

// WithTagTitles also scores the title embedded in each file and keeps the
// better of the filename and tag scores. A nil reader uses tags.Title.
func WithTagTitles(reader TitleReader) Option {
	return func(r *Resolver) {
		if reader == nil {
			reader = tags.Title
		}
		r.readTitle = reader
	}
}

// WithLogger attaches a logger for debug scoring output.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Resolver) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// New constructs a Resolver accepting candidates whose score exceeds
// threshold.
func New(threshold float64, opts ...Option) *Resolver {
	r := &Resolver{threshold: threshold, logger: logging.NewNop()}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Threshold reports the acceptance threshold.
func (r *Resolver) Threshold() float64 {
	return r.threshold
}

// Resolve returns the highest scoring audio file in dir whose score is
// strictly greater than the threshold.
func (r *Resolver) Resolve(ctx context.Context, title, dir string) (Match, error) {
	candidates, err := r.Candidates(ctx, title, dir)
	if err != nil {
		return Match{}, err
	}
	if len(candidates) == 0 {
		return Match{}, services.Wrap(services.ErrNotFound, component, "resolve",
			fmt.Sprintf("no audio files in %s", dir), nil)
	}
	best := candidates[0]
	if best.Score <= r.threshold {
		return Match{}, services.Wrap(services.ErrNotFound, component, "resolve",
			fmt.Sprintf("no file matches %q above %.2f (best %q at %.3f)", title, r.threshold, best.Name, best.Score), nil)
	}
	logging.WithContext(ctx, r.logger).Debug("asset resolved",
		logging.String("file", best.Name),
		logging.Float64("score", best.Score),
		logging.String("source", best.Source),
	)
	return best, nil
}

// Candidates scores every audio file in dir against title and returns them
// ordered by descending score. Equal scores keep lexical filename order.
func (r *Resolver) Candidates(ctx context.Context, title, dir string) ([]Match, error) {
	query := textutil.Normalize(title)
	if query == "" {
		return nil, services.Wrap(services.ErrInvalidInput, component, "resolve", "title is blank", nil)
	}
	names, err := listAudio(dir)
	if err != nil {
		return nil, err
	}

	matches := make([]Match, 0, len(names))
	for _, name := range names {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		path := filepath.Join(dir, name)
		m := Match{
			Path:   path,
			Name:   name,
			Score:  textutil.Ratio(query, textutil.Normalize(textutil.Stem(name))),
			Source: SourceFilename,
		}
		if r.readTitle != nil {
			if embedded := textutil.Normalize(r.readTitle(path)); embedded != "" {
				if score := textutil.Ratio(query, embedded); score > m.Score {
					m.Score = score
					m.Source = SourceTag
				}
			}
		}
		matches = append(matches, m)
	}
	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Score > matches[j].Score
	})
	return matches, nil
}

// listAudio returns the audio filenames in dir, sorted lexically.
func listAudio(dir string) ([]string, error) {
	if strings.TrimSpace(dir) == "" {
		return nil, services.Wrap(services.ErrInvalidInput, component, "list", "directory is blank", nil)
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, services.Wrap(services.ErrNotFound, component, "list", dir, err)
	}
	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() || !decode.IsAudioFile(entry.Name()) {
			continue
		}
		names = append(names, entry.Name())
	}
	sort.Strings(names)
	return names, nil
}
