package log

import (
	"bytes"
	"fmt"
	"io"
	"strings"
	"sync"
)

// Buffer is an [io.Writer] that keeps the most recent log lines. When the
// buffer is full, the oldest line is dropped. It is safe for concurrent use.
type Buffer struct {
	lines   []string
	partial []byte
	limit   int
	dropped int
	mu      sync.Mutex
}

// NewBuffer creates a new [Buffer] that keeps up to limit lines. A limit of
// zero or less defaults to 100.
func NewBuffer(limit int) *Buffer {
	if limit <= 0 {
		limit = 100
	}

	return &Buffer{limit: limit}
}

// Write splits p into lines. A trailing partial line is kept until it is
// completed by a later write.
func (b *Buffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	data := append(b.partial, p...)

	for {
		i := bytes.IndexByte(data, '\n')
		if i < 0 {
			break
		}

		b.push(string(data[:i]))
		data = data[i+1:]
	}

	b.partial = bytes.Clone(data)

	return len(p), nil
}

func (b *Buffer) push(line string) {
	if len(b.lines) == b.limit {
		b.lines = b.lines[1:]
		b.dropped++
	}

	b.lines = append(b.lines, line)
}

// Lines returns the kept lines, oldest first.
func (b *Buffer) Lines() []string {
	b.mu.Lock()
	defer b.mu.Unlock()

	out := make([]string, len(b.lines), len(b.lines)+1)
	copy(out, b.lines)

	if len(b.partial) > 0 {
		out = append(out, string(b.partial))
	}

	return out
}

// Len returns the number of complete lines kept.
func (b *Buffer) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()

	return len(b.lines)
}

// Limit returns the maximum number of lines kept.
func (b *Buffer) Limit() int {
	return b.limit
}

// Dropped returns the number of lines dropped because the buffer was full.
func (b *Buffer) Dropped() int {
	b.mu.Lock()
	defer b.mu.Unlock()

	return b.dropped
}

// Reset removes every line.
func (b *Buffer) Reset() {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.lines = nil
	b.partial = nil
	b.dropped = 0
}

// WriteTo writes the kept lines to w. It implements [io.WriterTo].
func (b *Buffer) WriteTo(w io.Writer) (int64, error) {
	lines := b.Lines()
	if len(lines) == 0 {
		return 0, nil
	}

	n, err := io.WriteString(w, strings.Join(lines, "\n")+"\n")
	if err != nil {
		return int64(n), fmt.Errorf("write log lines: %w", err)
	}

	return int64(n), nil
}
