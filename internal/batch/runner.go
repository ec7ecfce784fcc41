package batch

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"cadence/internal/catalog"
	"cadence/internal/logging"
	"cadence/internal/resolver"
	"cadence/internal/services"
)

const component = "batch"

// EntryProcessor enriches a single entry in place.
type EntryProcessor interface {
	Process(ctx context.Context, entry *catalog.Entry, dir string) (resolver.Match, error)
}

// Options tunes a Runner.
type Options struct {
	// Workers is the number of concurrent entries; values below 1 mean 1.
	Workers int
	// EntryTimeout bounds each entry; 0 disables it.
	EntryTimeout time.Duration
	Logger       *slog.Logger
	// OnEntryDone is called once per entry after it finishes, successfully or
	// not. It may be called from several goroutines at once.
	OnEntryDone func(index int, ok bool)
}

// Runner processes catalogs. A Runner holds no per-run state and can be
// reused.
type Runner struct {
	processor EntryProcessor
	opts      Options
	logger    *slog.Logger
}

// NewRunner constructs a Runner around processor.
func NewRunner(processor EntryProcessor, opts Options) *Runner {
	if opts.Workers < 1 {
		opts.Workers = 1
	}
	logger := opts.Logger
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Runner{
		processor: processor,
		opts:      opts,
		logger:    logging.NewComponentLogger(logger, component),
	}
}

type slot struct {
	entry catalog.Entry
	ok    bool
	diag  Diagnostic
	ran   bool
}

// Run processes entries against the audio files in dir.
func (r *Runner) Run(ctx context.Context, entries []catalog.Entry, dir string) Result {
	started := time.Now()
	runID, ok := services.RunIDFromContext(ctx)
	if !ok {
		runID = uuid.NewString()
		ctx = services.WithRunID(ctx, runID)
	}
	logger := logging.WithContext(ctx, r.logger)
	workers := min(r.opts.Workers, max(1, len(entries)))
	logger.Info("batch started",
		logging.String(logging.FieldEventType, "batch_start"),
		logging.Int("entries", len(entries)),
		logging.Int("workers", workers),
		logging.String("music_dir", dir),
	)

	slots := make([]slot, len(entries))
	jobs := make(chan int)
	var wg sync.WaitGroup
	for range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				slots[i] = r.processOne(ctx, i, entries[i], dir)
				if r.opts.OnEntryDone != nil {
					r.opts.OnEntryDone(i, slots[i].ok)
				}
			}
		}()
	}

dispatch:
	for i := range entries {
		select {
		case <-ctx.Done():
			break dispatch
		case jobs <- i:
		}
	}
	close(jobs)
	wg.Wait()

	result := Result{RunID: runID, Total: len(entries)}
	for i := range slots {
		s := slots[i]
		if !s.ran {
			s = slot{diag: Diagnostic{
				Index:  i,
				Title:  entries[i].Title(),
				Kind:   services.KindCanceled,
				Reason: "batch canceled before entry started",
			}}
			if r.opts.OnEntryDone != nil {
				r.opts.OnEntryDone(i, false)
			}
		}
		if s.ok {
			result.Processed = append(result.Processed, s.entry)
			continue
		}
		result.Diagnostics = append(result.Diagnostics, s.diag)
	}
	result.Elapsed = time.Since(started)

	logger.Info("batch completed",
		logging.String(logging.FieldEventType, "batch_complete"),
		logging.Int("processed", len(result.Processed)),
		logging.Int("skipped", len(result.Diagnostics)),
		logging.Duration("elapsed", result.Elapsed),
	)
	return result
}

func (r *Runner) processOne(ctx context.Context, index int, source catalog.Entry, dir string) (out slot) {
	title := source.Title()
	entryCtx := services.WithEntry(ctx, index+1, title)
	logger := logging.WithContext(entryCtx, r.logger)

	defer func() {
		if rec := recover(); rec != nil {
			logging.ErrorWithContext(logger, "entry panicked", "entry_panic",
				logging.Any("panic", rec),
				logging.String(logging.FieldErrorHint, "report the file that triggered it"),
			)
			out = r.skip(logger, index, title, fmt.Errorf("panic: %v", rec))
		}
	}()

	if err := ctx.Err(); err != nil {
		return r.skip(logger, index, title, err)
	}
	if r.opts.EntryTimeout > 0 {
		var cancel context.CancelFunc
		entryCtx, cancel = context.WithTimeout(entryCtx, r.opts.EntryTimeout)
		defer cancel()
	}

	entry := source.Clone()
	match, err := r.processor.Process(entryCtx, &entry, dir)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) && ctx.Err() == nil {
			err = services.Wrap(services.ErrTimeout, component, "process",
				fmt.Sprintf("entry exceeded %s", r.opts.EntryTimeout), err)
		}
		return r.skip(logger, index, title, err)
	}

	logger.Info("entry processed",
		logging.String(logging.FieldEventType, "entry_processed"),
		logging.String("file", match.Name),
		logging.Float64("score", match.Score),
	)
	return slot{entry: entry, ok: true, ran: true}
}

func (r *Runner) skip(logger *slog.Logger, index int, title string, err error) slot {
	kind := services.Classify(err)
	reason := strings.TrimSpace(err.Error())
	logging.WarnWithContext(logger, "entry skipped", "entry_skipped",
		logging.String("kind", string(kind)),
		logging.String(logging.FieldErrorHint, hintFor(kind)),
		logging.Error(err),
	)
	return slot{
		ran: true,
		diag: Diagnostic{
			Index:  index,
			Title:  title,
			Kind:   kind,
			Reason: reason,
		},
	}
}

func hintFor(kind services.Kind) string {
	switch kind {
	case services.KindInvalidInput:
		return "give the entry a non-empty string title"
	case services.KindNotFound:
		return "add an audio file named like the title or lower matching.threshold"
	case services.KindDecode:
		return "re-encode the file as wav, mp3, or flac"
	case services.KindTimeout:
		return "raise batch.entry_timeout_seconds"
	case services.KindCanceled:
		return "rerun the batch"
	default:
		return "check logs for details"
	}
}
