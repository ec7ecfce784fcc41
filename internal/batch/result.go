package batch

import (
	"sort"
	"time"

	"cadence/internal/catalog"
	"cadence/internal/services"
)

// Diagnostic explains why an entry was skipped.
type Diagnostic struct {
	// Index is the 0-based position of the entry in the input.
	Index  int           `json:"index"`
	Title  string        `json:"title"`
	Kind   services.Kind `json:"kind"`
	Reason string        `json:"reason"`
}

// Result is the outcome of one batch run.
type Result struct {
	RunID       string
	Total       int
	Processed   []catalog.Entry
	Diagnostics []Diagnostic
	Elapsed     time.Duration
}

// Skipped returns the number of entries left out of the output.
func (r Result) Skipped() int {
	return len(r.Diagnostics)
}

// KindCount is the number of skipped entries of one kind.
type KindCount struct {
	Kind  services.Kind
	Count int
}

// Summary condenses a Result for reporting.
type Summary struct {
	Total     int
	Processed int
	Skipped   int
	ByKind    []KindCount
}

// Summary counts processed and skipped entries, grouping skips by kind.
// ByKind is ordered by descending count, then kind name.
func (r Result) Summary() Summary {
	counts := make(map[services.Kind]int)
	for _, d := range r.Diagnostics {
		counts[d.Kind]++
	}
	byKind := make([]KindCount, 0, len(counts))
	for kind, count := range counts {
		byKind = append(byKind, KindCount{Kind: kind, Count: count})
	}
	sort.Slice(byKind, func(i, j int) bool {
		if byKind[i].Count != byKind[j].Count {
			return byKind[i].Count > byKind[j].Count
		}
		return byKind[i].Kind < byKind[j].Kind
	})
	return Summary{
		Total:     r.Total,
		Processed: len(r.Processed),
		Skipped:   len(r.Diagnostics),
		ByKind:    byKind,
	}
}
