// Package enrich merges audio features into a single catalog entry.
//
// The Processor resolves the entry's title to an audio file, extracts
// features from it, and only then writes the feature fields. Any failure
// leaves the entry exactly as it was.
package enrich

import (
	"context"
	"log/slog"

	"cadence/internal/analysis"
	"cadence/internal/catalog"
	"cadence/internal/logging"
	"cadence/internal/resolver"
	"cadence/internal/services"
)

const component = "enrich"

// AssetResolver finds the audio file for a title.
type AssetResolver interface {
	Resolve(ctx context.Context, title, dir string) (resolver.Match, error)
}

// FeatureExtractor computes features for an audio file.
type FeatureExtractor interface {
	Extract(ctx context.Context, path string) (analysis.Features, error)
}

// Processor enriches entries one at a time. It holds no per-entry state and
// is safe for concurrent use when its collaborators are.
type Processor struct {
	resolver  AssetResolver
	extractor FeatureExtractor
	logger    *slog.Logger
}

// NewProcessor wires a Processor. A nil logger disables logging.
func NewProcessor(r AssetResolver, x FeatureExtractor, logger *slog.Logger) *Processor {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Processor{resolver: r, extractor: x, logger: logger}
}

// Process enriches entry in place with duration, tempo, chroma_mean, and
// chroma_notes. Existing fields with those names are overwritten.
func (p *Processor) Process(ctx context.Context, entry *catalog.Entry, dir string) (resolver.Match, error) {
	if entry == nil {
		return resolver.Match{}, services.Wrap(services.ErrInvalidInput, component, "process", "nil entry", nil)
	}
	if err := entry.Err(); err != nil {
		return resolver.Match{}, err
	}

	ctx = services.WithStage(ctx, "resolve")
	match, err := p.resolver.Resolve(ctx, entry.Title(), dir)
	if err != nil {
		return resolver.Match{}, err
	}

	ctx = services.WithStage(ctx, "extract")
	features, err := p.extractor.Extract(ctx, match.Path)
	if err != nil {
		return match, err
	}

	merged := entry.Clone()
	if err := Merge(&merged, features); err != nil {
		return match, err
	}
	*entry = merged

	logging.WithContext(ctx, p.logger).Debug("entry enriched",
		logging.String("file", match.Name),
		logging.Float64("score", match.Score),
	)
	return match, nil
}

// Merge writes the feature fields onto entry.
func Merge(entry *catalog.Entry, f analysis.Features) error {
	fields := []struct {
		key   string
		value any
	}{
		{catalog.FieldDuration, f.Duration},
		{catalog.FieldTempo, f.Tempo},
		{catalog.FieldChromaMean, f.ChromaMean},
		{catalog.FieldChromaNotes, f.ChromaNotes},
	}
	for _, field := range fields {
		if err := entry.Set(field.key, field.value); err != nil {
			return services.Wrap(services.ErrDecode, component, "merge", field.key, err)
		}
	}
	return nil
}
