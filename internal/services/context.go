package services

import "context"

type contextKey string

const (
	runIDKey      contextKey = "run_id"
	entryIndexKey contextKey = "entry_index"
	entryTitleKey contextKey = "entry_title"
	stageKey      contextKey = "stage"
)

// WithRunID annotates context with the batch run identifier.
func WithRunID(ctx context.Context, id string) context.Context {
	if id == "" {
		return ctx
	}
	return context.WithValue(ctx, runIDKey, id)
}

// RunIDFromContext extracts the batch run identifier if present.
func RunIDFromContext(ctx context.Context) (string, bool) {
	if v, ok := ctx.Value(runIDKey).(string); ok && v != "" {
		return v, true
	}
	return "", false
}

// WithEntry annotates context with the 1-based position and title of the
// catalog entry being processed.
func WithEntry(ctx context.Context, index int, title string) context.Context {
	ctx = context.WithValue(ctx, entryIndexKey, index)
	if title != "" {
		ctx = context.WithValue(ctx, entryTitleKey, title)
	}
	return ctx
}

// EntryIndexFromContext extracts the entry position if present.
func EntryIndexFromContext(ctx context.Context) (int, bool) {
	v := ctx.Value(entryIndexKey)
	if v == nil {
		return 0, false
	}
	switch val := v.(type) {
	case int:
		return val, true
	case int64:
		return int(val), true
	default:
		return 0, false
	}
}

// EntryTitleFromContext returns the entry title if present.
func EntryTitleFromContext(ctx context.Context) (string, bool) {
	if v, ok := ctx.Value(entryTitleKey).(string); ok && v != "" {
		return v, true
	}
	return "", false
}

// WithStage annotates context with the pipeline stage name.
func WithStage(ctx context.Context, stage string) context.Context {
	if stage == "" {
		return ctx
	}
	return context.WithValue(ctx, stageKey, stage)
}

// StageFromContext returns the stage name if present.
func StageFromContext(ctx context.Context) (string, bool) {
	v := ctx.Value(stageKey)
	if str, ok := v.(string); ok && str != "" {
		return str, true
	}
	return "", false
}
