package textutil_test

import (
	"strings"
	"testing"

	"cadence/internal/textutil"
)

func TestDiffReconstructsBothSides(t *testing.T) {
	pairs := [][2]string{
		{"imagine", "imagine live"},
		{"shape of you", "shape of my heart"},
		{"let it be", "imagine"},
		{"", "hey jude"},
		{"ação", "acao"},
	}
	for _, p := range pairs {
		var left, right strings.Builder
		for _, seg := range textutil.Diff(p[0], p[1]) {
			switch seg.Op {
			case textutil.EditEqual:
				left.WriteString(seg.Text)
				right.WriteString(seg.Text)
			case textutil.EditDelete:
				left.WriteString(seg.Text)
			case textutil.EditInsert:
				right.WriteString(seg.Text)
			}
		}
		if left.String() != p[0] || right.String() != p[1] {
			t.Fatalf("Diff(%q, %q) rebuilt %q / %q", p[0], p[1], left.String(), right.String())
		}
	}
}

func TestDiffSuffixInsert(t *testing.T) {
	got := textutil.Diff("imagine", "imagine live")
	want := []textutil.Segment{
		{Op: textutil.EditEqual, Text: "imagine"},
		{Op: textutil.EditInsert, Text: " live"},
	}
	if len(got) != len(want) {
		t.Fatalf("Diff = %+v, want %+v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("segment %d = %+v, want %+v", i, got[i], want[i])
		}
	}
}

func TestDiffIdentical(t *testing.T) {
	got := textutil.Diff("hey jude", "hey jude")
	if len(got) != 1 || got[0].Op != textutil.EditEqual {
		t.Fatalf("Diff = %+v", got)
	}
	if got := textutil.Diff("", ""); len(got) != 0 {
		t.Fatalf("Diff of empty strings = %+v", got)
	}
}
