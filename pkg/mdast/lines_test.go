package mdast_test

import (
	"testing"

	"github.com/voughtdq/ex-doc/pkg/mdast"
)

func TestLineIndex_Line(t *testing.T) {
	t.Parallel()

	index := mdast.NewLineIndex([]byte("ab\ncd\r\nef"))

	tests := []struct {
		offset   int
		expected int
	}{
		{-1, 0},
		{0, 1},
		{2, 1},
		{3, 2},
		{5, 2},
		{6, 2},
		{7, 3},
		{8, 3},
		{100, 3},
	}

	for _, testCase := range tests {
		if got := index.Line(testCase.offset); got != testCase.expected {
			t.Errorf("Line(%d) = %d, want %d", testCase.offset, got, testCase.expected)
		}
	}

	if index.LineCount() != 3 {
		t.Errorf("expected 3 lines, got %d", index.LineCount())
	}
}

func TestLineIndex_LineStart(t *testing.T) {
	t.Parallel()

	index := mdast.NewLineIndex([]byte("one\ntwo\n"))

	start, ok := index.LineStart(2)
	if !ok || start != 4 {
		t.Errorf("LineStart(2) = %d, %v; want 4, true", start, ok)
	}

	if _, ok := index.LineStart(0); ok {
		t.Error("LineStart(0) should be out of range")
	}
	if _, ok := index.LineStart(4); ok {
		t.Error("LineStart(4) should be out of range")
	}
}

func TestLineIndex_Empty(t *testing.T) {
	t.Parallel()

	index := mdast.NewLineIndex(nil)
	if index.LineCount() != 1 {
		t.Errorf("expected 1 line for empty content, got %d", index.LineCount())
	}
	if index.Line(0) != 1 {
		t.Errorf("expected line 1, got %d", index.Line(0))
	}
}
