package logstream

import "strings"

// Buffer is an ordered, append-only sequence of raw log lines
type Buffer struct {
	lines []string
}

// NewBuffer returns an empty buffer
func NewBuffer() *Buffer {
	return &Buffer{}
}

// Append adds one line at the end
func (b *Buffer) Append(line string) {
	b.lines = append(b.lines, line)
}

// Len returns the number of lines
func (b *Buffer) Len() int {
	return len(b.lines)
}

// Lines returns a copy of the lines in receipt order
func (b *Buffer) Lines() []string {
	out := make([]string, len(b.lines))
	copy(out, b.lines)
	return out
}

// String joins the lines with newlines
func (b *Buffer) String() string {
	return strings.Join(b.lines, "\n")
}
