package logging

import (
	"context"
	"log/slog"

	"cadence/internal/services"
)

const (
	// FieldComponent is the standardized structured logging key for component names.
	FieldComponent = "component"
	// FieldRunID identifies one batch run across all of its log lines.
	FieldRunID = "run_id"
	// FieldEntryIndex is the 1-based position of the catalog entry being processed.
	FieldEntryIndex = "entry"
	// FieldEntryTitle is the title of the catalog entry being processed.
	FieldEntryTitle = "title"
	// FieldStage is the standardized structured logging key for pipeline stage names.
	FieldStage = "stage"
	// FieldEventType classifies a log line for filtering (entry_processed, entry_skipped, ...).
	FieldEventType = "event_type"
	// FieldErrorHint carries a short operator-facing next step.
	FieldErrorHint = "error_hint"
)

// ContextFields extracts standardized slog attributes from the provided context.
func ContextFields(ctx context.Context) []slog.Attr {
	if ctx == nil {
		return nil
	}
	fields := make([]slog.Attr, 0, 4)
	if id, ok := services.RunIDFromContext(ctx); ok {
		fields = append(fields, slog.String(FieldRunID, id))
	}
	if idx, ok := services.EntryIndexFromContext(ctx); ok {
		fields = append(fields, slog.Int(FieldEntryIndex, idx))
	}
	if title, ok := services.EntryTitleFromContext(ctx); ok {
		fields = append(fields, slog.String(FieldEntryTitle, title))
	}
	if stage, ok := services.StageFromContext(ctx); ok {
		fields = append(fields, slog.String(FieldStage, stage))
	}
	return fields
}

// WithContext returns a logger augmented with structured fields derived from the supplied context.
func WithContext(ctx context.Context, logger *slog.Logger) *slog.Logger {
	if logger == nil {
		logger = NewNop()
	}
	fields := ContextFields(ctx)
	if len(fields) == 0 {
		return logger
	}
	args := make([]any, 0, len(fields))
	for _, f := range fields {
		args = append(args, f)
	}
	return logger.With(args...)
}

// contextHandler adds ContextFields(ctx) to records that do not already
// carry them, so LogAttrs/InfoContext calls get run and entry tagging
// without a WithContext logger.
type contextHandler struct {
	slog.Handler
	// bound holds keys already attached through WithAttrs.
	bound []string
}

func (h contextHandler) Handle(ctx context.Context, record slog.Record) error {
	fields := ContextFields(ctx)
	if len(fields) == 0 {
		return h.Handler.Handle(ctx, record)
	}
	present := make(map[string]struct{}, len(h.bound)+record.NumAttrs())
	for _, key := range h.bound {
		present[key] = struct{}{}
	}
	record.Attrs(func(a slog.Attr) bool {
		present[a.Key] = struct{}{}
		return true
	})
	record = record.Clone()
	for _, f := range fields {
		if _, ok := present[f.Key]; !ok {
			record.AddAttrs(f)
		}
	}
	return h.Handler.Handle(ctx, record)
}

func (h contextHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	bound := make([]string, 0, len(h.bound)+len(attrs))
	bound = append(bound, h.bound...)
	for _, a := range attrs {
		bound = append(bound, a.Key)
	}
	return contextHandler{Handler: h.Handler.WithAttrs(attrs), bound: bound}
}

func (h contextHandler) WithGroup(name string) slog.Handler {
	return contextHandler{Handler: h.Handler.WithGroup(name), bound: h.bound}
}
