// Package stream renders markdown while it is still arriving. Chunks are
// accumulated in a Buffer, the incomplete tail is repaired with the autoclose
// package, and the repaired snapshot is re-rendered in place.
package stream

import (
	"strings"
	"sync"

	"github.com/samsaffron/comark/internal/autoclose"
)

// Buffer accumulates streamed markdown. It is safe for concurrent use: one
// goroutine may append while others take snapshots.
type Buffer struct {
	mu     sync.Mutex
	raw    strings.Builder
	tables bool
}

// NewBuffer returns an empty buffer. When tables is set, snapshots also
// complete the last markdown table.
func NewBuffer(tables bool) *Buffer {
	return &Buffer{tables: tables}
}

// Append adds a chunk.
func (b *Buffer) Append(chunk string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.raw.WriteString(chunk)
}

// Raw returns everything appended so far, unrepaired.
func (b *Buffer) Raw() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.raw.String()
}

// Len returns the number of raw bytes appended.
func (b *Buffer) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.raw.Len()
}

// Snapshot returns the buffered text with its tail repaired so that it renders
// as well-formed markdown.
func (b *Buffer) Snapshot() string {
	return Repair(b.Raw(), b.tables)
}

// Repair closes unterminated markup in text and, when tables is set, completes
// its last table. Trailing line breaks are set aside first so that the line
// being repaired is the last one with content; they are appended again after
// the closers.
func Repair(text string, tables bool) string {
	body, breaks := SplitTrailingBreaks(text)
	out := autoclose.CloseMarkup(body) + breaks
	if tables {
		out = autoclose.CloseTable(out)
	}
	return out
}

// SplitTrailingBreaks splits text into its content and the run of "\n" and
// "\r" bytes that ends it.
func SplitTrailingBreaks(text string) (body, breaks string) {
	body = strings.TrimRight(text, "\r\n")
	return body, text[len(body):]
}
