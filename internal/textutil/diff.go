package textutil

import (
	"github.com/sergi/go-diff/diffmatchpatch"
)

// EditOp says whether a Segment is shared, only in the first text, or only
// in the second.
type EditOp int

const (
	EditEqual EditOp = iota
	EditDelete
	EditInsert
)

// Segment is a run of characters with one EditOp.
type Segment struct {
	Op   EditOp
	Text string
}

// Diff aligns a against b at character level and merges trivial equalities
// so the result reads as word-sized edits. Concatenating the Equal and
// Delete segments yields a; Equal and Insert yields b.
func Diff(a, b string) []Segment {
	dmp := diffmatchpatch.New()
	diffs := dmp.DiffMain(a, b, false)
	diffs = dmp.DiffCleanupSemantic(diffs)

	segments := make([]Segment, 0, len(diffs))
	for _, d := range diffs {
		if d.Text == "" {
			continue
		}
		op := EditEqual
		switch d.Type {
		case diffmatchpatch.DiffDelete:
			op = EditDelete
		case diffmatchpatch.DiffInsert:
			op = EditInsert
		}
		segments = append(segments, Segment{Op: op, Text: d.Text})
	}
	return segments
}
