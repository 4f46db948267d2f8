package stream

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"

	"github.com/samsaffron/comark/internal/render"
)

// RenderFunc turns repaired markdown into output text.
type RenderFunc func(markdown string) (string, error)

// TerminalRenderFunc renders with glamour at the given width and style.
func TerminalRenderFunc(width int, style string) RenderFunc {
	return func(markdown string) (string, error) {
		return render.Terminal(markdown, width, style)
	}
}

// Option configures a Renderer.
type Option func(*Renderer)

// WithTerminalWidth enables in-place re-rendering. Without a width the
// renderer has no way to erase what it wrote and only renders once, on Close.
func WithTerminalWidth(width int) Option {
	return func(r *Renderer) {
		r.width = width
	}
}

// WithTables also completes the last markdown table of every snapshot.
func WithTables(enabled bool) Option {
	return func(r *Renderer) {
		r.tables = enabled
	}
}

// Renderer is an io.WriteCloser that accepts markdown chunks and keeps the
// rendered, repaired document on screen.
type Renderer struct {
	mu     sync.Mutex
	out    io.Writer
	render RenderFunc
	width  int
	tables bool

	buf    *Buffer
	screen *screen

	shown   string // snapshot currently on screen
	rows    int    // terminal rows it occupies
	renders int
	closed  bool
}

// NewRenderer returns a renderer writing to w.
func NewRenderer(w io.Writer, fn RenderFunc, opts ...Option) *Renderer {
	r := &Renderer{out: w, render: fn}
	for _, opt := range opts {
		opt(r)
	}
	r.buf = NewBuffer(r.tables)
	if r.width > 0 {
		r.screen = &screen{out: w, width: r.width}
	}
	return r
}

// Write appends p and, in terminal mode, re-renders when the repaired
// snapshot changed.
func (r *Renderer) Write(p []byte) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return 0, errors.New("stream: write to closed renderer")
	}
	r.buf.Append(string(p))
	if r.screen == nil {
		return len(p), nil
	}
	if err := r.redraw(r.buf.Snapshot()); err != nil {
		return len(p), err
	}
	return len(p), nil
}

// Close renders the final snapshot. Further writes fail.
func (r *Renderer) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return nil
	}
	r.closed = true

	snap := r.buf.Snapshot()
	if r.screen != nil {
		return r.redraw(snap)
	}
	if snap == "" {
		return nil
	}
	rendered, err := r.render(snap)
	if err != nil {
		return fmt.Errorf("render final output: %w", err)
	}
	r.renders++
	_, err = io.WriteString(r.out, terminated(rendered))
	return err
}

// Snapshot returns the repaired markdown buffered so far.
func (r *Renderer) Snapshot() string {
	return r.buf.Snapshot()
}

// Renders returns how many times output was rendered.
func (r *Renderer) Renders() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.renders
}

// Resize changes the terminal width and redraws the current snapshot. It is
// a no-op unless the renderer was created with a width.
func (r *Renderer) Resize(width int) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.screen == nil || width <= 0 || width == r.screen.width {
		return nil
	}
	// rows were counted at the old width
	if err := r.screen.erase(r.rows); err != nil {
		return err
	}
	r.rows = 0
	r.screen.width = width
	r.width = width
	snap := r.shown
	r.shown = ""
	return r.redraw(snap)
}

// redraw replaces what is on screen with the rendering of snap. The caller
// holds r.mu.
func (r *Renderer) redraw(snap string) error {
	if snap == r.shown {
		return nil
	}
	rendered, err := r.render(snap)
	if err != nil {
		return fmt.Errorf("render snapshot: %w", err)
	}
	rendered = terminated(rendered)

	if err := r.screen.erase(r.rows); err != nil {
		return fmt.Errorf("erase previous output: %w", err)
	}
	if _, err := io.WriteString(r.out, rendered); err != nil {
		return err
	}

	r.shown = snap
	r.rows = r.screen.height(rendered)
	r.renders++
	slog.Debug("stream redraw", "bytes", len(snap), "rows", r.rows, "renders", r.renders)
	return nil
}

// terminated trims trailing newlines and ends s with exactly one, so the
// cursor sits at the start of the row below the output.
func terminated(s string) string {
	s = strings.TrimRight(s, "\n")
	if s == "" {
		return ""
	}
	return s + "\n"
}
