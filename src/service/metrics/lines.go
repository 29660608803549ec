package metrics

import "code-analyzer/src/syntax"

// LineIndex maps byte offsets in one file to 1-based line numbers
type LineIndex struct {
	lines []uint32
}

// NewLineIndex builds the index in one pass. The entry for an offset counts
// every newline up to and including the byte at that offset, so a newline
// byte already belongs to the following line.
func NewLineIndex(text []byte) *LineIndex {
	lines := make([]uint32, len(text)+1)
	current := uint32(1)
	for i := 0; i <= len(text); i++ {
		if i < len(text) && text[i] == '\n' {
			current++
		}
		lines[i] = current
	}
	return &LineIndex{lines: lines}
}

// Line returns the line for an offset, clamped to the text bounds
func (x *LineIndex) Line(offset int) int {
	if offset < 0 {
		offset = 0
	}
	if offset >= len(x.lines) {
		offset = len(x.lines) - 1
	}
	return int(x.lines[offset])
}

// Lines returns how many lines a span covers. Spans are half-open, so the
// last covered byte is End-1.
func (x *LineIndex) Lines(span syntax.Span) int {
	last := span.End - 1
	if last < span.Start {
		last = span.Start
	}
	return 1 + x.Line(last) - x.Line(span.Start)
}

// Range returns the first and last line of a span
func (x *LineIndex) Range(span syntax.Span) (int, int) {
	last := span.End - 1
	if last < span.Start {
		last = span.Start
	}
	return x.Line(span.Start), x.Line(last)
}
