package mdast

import "sort"

// LineIndex maps byte offsets in a source to 1-based line numbers.
type LineIndex struct {
	// starts holds the byte offset at which each line begins.
	starts []int
	size   int
}

// NewLineIndex builds a line index for content.
// It handles both LF (\n) and CRLF (\r\n) line endings; a CR belongs to the
// line it terminates.
func NewLineIndex(content []byte) *LineIndex {
	starts := []int{0}
	for idx, char := range content {
		if char == '\n' {
			starts = append(starts, idx+1)
		}
	}
	return &LineIndex{starts: starts, size: len(content)}
}

// LineCount returns the number of lines in the source.
func (li *LineIndex) LineCount() int {
	if li == nil {
		return 0
	}
	return len(li.starts)
}

// Line converts a byte offset to a 1-based line number.
// Offsets past the end resolve to the last line; negative offsets return 0.
func (li *LineIndex) Line(offset int) int {
	if li == nil || offset < 0 {
		return 0
	}
	if offset > li.size {
		offset = li.size
	}

	// Binary search for the last line starting at or before offset.
	idx := sort.Search(len(li.starts), func(i int) bool {
		return li.starts[i] > offset
	})
	return idx
}

// LineStart returns the byte offset where a 1-based line begins.
func (li *LineIndex) LineStart(line int) (int, bool) {
	if li == nil || line < 1 || line > len(li.starts) {
		return 0, false
	}
	return li.starts[line-1], true
}
