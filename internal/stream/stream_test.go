package stream

import (
	"bytes"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"

	"github.com/charmbracelet/x/ansi"
)

func bracket(md string) (string, error) {
	return "[" + md + "]", nil
}

func eraseSeq(n int) string {
	return ansi.CursorUp(n) + ansi.CursorHorizontalAbsolute(1) + ansi.EraseDisplay(0)
}

func TestBufferSnapshot(t *testing.T) {
	tests := []struct {
		name   string
		chunks []string
		tables bool
		want   string
	}{
		{"bold", []string{"**bo", "ld"}, false, "**bold**"},
		{"component", []string{"::note\n", "hi"}, false, "::note\nhi\n::"},
		{"table off", []string{"| a | b"}, false, "| a | b"},
		{"table on", []string{"| a ", "| b"}, true, "| a | b |\n| --- | --- |"},
		{"empty", nil, true, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := NewBuffer(tt.tables)
			for _, c := range tt.chunks {
				b.Append(c)
			}
			if got := b.Snapshot(); got != tt.want {
				t.Fatalf("Snapshot()=%q, want %q", got, tt.want)
			}
			if got, want := b.Raw(), strings.Join(tt.chunks, ""); got != want {
				t.Fatalf("Raw()=%q, want %q", got, want)
			}
		})
	}
}

func TestRepairTrailingBreaks(t *testing.T) {
	tests := []struct {
		name   string
		text   string
		tables bool
		want   string
	}{
		{"bold", "**bold\n", false, "**bold**\n"},
		{"code", "`code\n\n", false, "`code`\n\n"},
		{"crlf", "*it\r\n", false, "*it*\r\n"},
		{"props", "::card{title=\"Hi\n", false, "::card{title=\"Hi\"}\n::\n"},
		{"component", ":::a\n", false, ":::a\n:::\n"},
		{"code block", "```go\nx := 1\n", false, "```go\nx := 1\n```\n"},
		{"inline and table", "| a | b\n| **x\n", true, "| a | b |\n| --- | --- |\n| **x** |   |\n"},
		{"balanced", "# Done\n\n**bold**\n", true, "# Done\n\n**bold**\n"},
		{"only breaks", "\n\n", true, "\n\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Repair(tt.text, tt.tables)
			if got != tt.want {
				t.Fatalf("Repair(%q)=%q, want %q", tt.text, got, tt.want)
			}
			if again := Repair(got, tt.tables); again != got {
				t.Errorf("Repair not idempotent: %q -> %q", got, again)
			}
		})
	}
}

func TestRendererFlowingModeRendersOnClose(t *testing.T) {
	var out bytes.Buffer
	r := NewRenderer(&out, bracket)

	for _, c := range []string{"Some ", "**bo", "ld"} {
		if _, err := r.Write([]byte(c)); err != nil {
			t.Fatalf("Write: %v", err)
		}
	}
	if out.Len() != 0 {
		t.Fatalf("flowing mode wrote before Close: %q", out.String())
	}
	if err := r.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if got, want := out.String(), "[Some **bold**]\n"; got != want {
		t.Fatalf("output=%q, want %q", got, want)
	}
	if r.Renders() != 1 {
		t.Fatalf("got %d renders, want 1", r.Renders())
	}
}

func TestRendererRedrawsInPlace(t *testing.T) {
	var out bytes.Buffer
	r := NewRenderer(&out, bracket, WithTerminalWidth(80))

	r.Write([]byte("**a"))
	if got, want := out.String(), "[**a**]\n"; got != want {
		t.Fatalf("after first write output=%q, want %q", got, want)
	}

	out.Reset()
	r.Write([]byte("b"))
	if got, want := out.String(), eraseSeq(1)+"[**ab**]\n"; got != want {
		t.Fatalf("after second write output=%q, want %q", got, want)
	}

	// a chunk that does not change the repaired snapshot is not redrawn
	out.Reset()
	r.Write([]byte("**"))
	r.Write(nil)
	if out.Len() != 0 {
		t.Fatalf("unexpected output %q", out.String())
	}

	out.Reset()
	if err := r.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if out.Len() != 0 {
		t.Fatalf("Close redrew an unchanged snapshot: %q", out.String())
	}
}

func TestRendererSkipsUnchangedSnapshots(t *testing.T) {
	var out bytes.Buffer
	r := NewRenderer(&out, bracket, WithTerminalWidth(80))
	r.Write([]byte("hello"))
	r.Write([]byte(""))
	r.Write([]byte(""))
	if r.Renders() != 1 {
		t.Fatalf("got %d renders, want 1", r.Renders())
	}
}

func TestRendererErasesWrappedRows(t *testing.T) {
	var out bytes.Buffer
	r := NewRenderer(&out, bracket, WithTerminalWidth(4))
	r.Write([]byte("abcdef"))
	out.Reset()
	r.Write([]byte("g"))
	// "[abcdef]" is 8 columns wide: two rows at width 4
	if !strings.HasPrefix(out.String(), eraseSeq(2)) {
		t.Fatalf("expected a two row erase, got %q", out.String())
	}
}

func TestRendererTables(t *testing.T) {
	var out bytes.Buffer
	r := NewRenderer(&out, bracket, WithTables(true))
	r.Write([]byte("| a | b"))
	r.Close()
	if got, want := out.String(), "[| a | b |\n| --- | --- |]\n"; got != want {
		t.Fatalf("output=%q, want %q", got, want)
	}
}

func TestRendererErrors(t *testing.T) {
	boom := errors.New("boom")
	r := NewRenderer(&bytes.Buffer{}, func(string) (string, error) { return "", boom }, WithTerminalWidth(80))
	if _, err := r.Write([]byte("x")); !errors.Is(err, boom) {
		t.Fatalf("Write error=%v, want wrapped %v", err, boom)
	}

	ok := NewRenderer(&bytes.Buffer{}, bracket)
	ok.Close()
	if _, err := ok.Write([]byte("x")); err == nil {
		t.Fatal("expected an error writing after Close")
	}
	if err := ok.Close(); err != nil {
		t.Fatalf("second Close: %v", err)
	}
}

func TestRendererResize(t *testing.T) {
	var out bytes.Buffer
	r := NewRenderer(&out, bracket, WithTerminalWidth(80))
	r.Write([]byte("*x"))
	out.Reset()

	if err := r.Resize(40); err != nil {
		t.Fatalf("Resize: %v", err)
	}
	if got, want := out.String(), eraseSeq(1)+"[*x*]\n"; got != want {
		t.Fatalf("output=%q, want %q", got, want)
	}

	out.Reset()
	r.Resize(40)
	if out.Len() != 0 {
		t.Fatalf("resize to the same width redrew: %q", out.String())
	}
}

func TestScreenHeight(t *testing.T) {
	tests := []struct {
		width    int
		rendered string
		want     int
	}{
		{80, "", 0},
		{80, "a", 1},
		{80, "a\n", 1},
		{80, "a\n\nb", 3},
		{4, "abcdef", 2},
		{4, "abcd", 1},
		{4, "\x1b[1mab\x1b[0m", 1},
		{0, "a very long line", 1},
	}
	for _, tt := range tests {
		s := &screen{width: tt.width}
		if got := s.height(tt.rendered); got != tt.want {
			t.Errorf("height(%q) at width %d = %d, want %d", tt.rendered, tt.width, got, tt.want)
		}
	}
}

func TestRendererConcurrentWrites(t *testing.T) {
	var out bytes.Buffer
	r := NewRenderer(&out, bracket)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				fmt.Fprintf(r, "%d", i)
				_ = r.Snapshot()
			}
		}(i)
	}
	wg.Wait()
	if got := len(r.buf.Raw()); got != 8*50 {
		t.Fatalf("got %d bytes, want %d", got, 8*50)
	}
}
