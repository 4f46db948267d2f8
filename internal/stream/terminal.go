package stream

import (
	"io"
	"strings"

	"github.com/charmbracelet/x/ansi"
)

// screen erases and measures output on a terminal of a known width.
type screen struct {
	out   io.Writer
	width int
}

// erase moves the cursor to the start of the line n lines up and clears
// everything below it.
func (s *screen) erase(n int) error {
	if n <= 0 {
		return nil
	}
	seq := ansi.CursorUp(n) + ansi.CursorHorizontalAbsolute(1) + ansi.EraseDisplay(0)
	_, err := io.WriteString(s.out, seq)
	return err
}

// height returns how many terminal rows rendered occupies once soft wrapped.
// Escape sequences take no space and a trailing newline does not start a row.
func (s *screen) height(rendered string) int {
	if rendered == "" {
		return 0
	}
	rows := 0
	lines := strings.Split(strings.TrimSuffix(rendered, "\n"), "\n")
	for _, line := range lines {
		w := ansi.StringWidth(line)
		if w == 0 || s.width <= 0 {
			rows++
			continue
		}
		rows += (w + s.width - 1) / s.width
	}
	return rows
}
