package cmd

import (
	"context"
	"fmt"
	"slices"
	"time"
	"unicode/utf8"

	"github.com/samsaffron/comark/internal/config"
	"github.com/samsaffron/comark/internal/render"
	"github.com/samsaffron/comark/internal/signal"
	"github.com/samsaffron/comark/internal/stream"
	"github.com/spf13/cobra"
)

var (
	streamChunk    int
	streamInterval time.Duration
	streamFormat   string
)

var streamFormats = []string{"terminal", "html"}

var streamCmd = &cobra.Command{
	Use:   "stream [file]",
	Short: "Replay a document chunk by chunk, re-rendering as it grows",
	Long: `Feed the input to the streaming renderer a few characters at a time, the way
generated text arrives, and show the repaired document after every chunk.
On a terminal the output is redrawn in place; otherwise only the final render
is written. Ctrl-C stops the replay and renders what was received.

Examples:
  comark stream post.md
  comark stream --chunk 1 --interval 10ms post.md
  comark stream --format html post.md > post.html`,
	Args: cobra.MaximumNArgs(1),
	RunE: runStream,
}

func init() {
	streamCmd.Flags().IntVarP(&streamChunk, "chunk", "n", 0, "Characters per chunk (default from config)")
	streamCmd.Flags().DurationVarP(&streamInterval, "interval", "i", 0, "Delay between chunks (default from config)")
	streamCmd.Flags().StringVarP(&streamFormat, "format", "f", "terminal", "Output format: terminal or html")
	rootCmd.AddCommand(streamCmd)
}

func runStream(cmd *cobra.Command, args []string) error {
	src, err := readInput(cmd, args)
	if err != nil {
		return err
	}
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("chunk") {
		cfg.Stream.ChunkSize = streamChunk
	}
	if cmd.Flags().Changed("interval") {
		cfg.Stream.Interval = streamInterval
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	if !slices.Contains(streamFormats, streamFormat) {
		return fmt.Errorf("stream format %q: must be terminal or html", streamFormat)
	}

	out := cmd.OutOrStdout()
	opts := []stream.Option{stream.WithTables(cfg.Close.Tables)}

	var fn stream.RenderFunc
	switch streamFormat {
	case "terminal":
		width := terminalWidth(cfg.Render.Width)
		fn = stream.TerminalRenderFunc(width, cfg.Render.Style)
		if stdoutIsTerminal(out) {
			opts = append(opts, stream.WithTerminalWidth(width))
		}
	case "html":
		fn = func(md string) (string, error) {
			doc, err := buildDocument(md, cfg)
			if err != nil {
				return "", err
			}
			return render.HTML(doc, render.HTMLOptions{Sanitize: cfg.Render.Sanitize}), nil
		}
	}

	ctx, stop := signal.NotifyContext(cmd.Context())
	defer stop()

	r := stream.NewRenderer(out, fn, opts...)
	replayErr := replay(ctx, r, src, cfg.Stream.ChunkSize, cfg.Stream.Interval)
	if err := r.Close(); err != nil {
		return err
	}
	if replayErr != nil && ctx.Err() == nil {
		return replayErr
	}
	return nil
}

// replay writes src to r in chunks of size runes, pausing between chunks. It
// stops early when ctx is cancelled.
func replay(ctx context.Context, r *stream.Renderer, src string, size int, interval time.Duration) error {
	for _, chunk := range chunkRunes(src, size) {
		if _, err := r.Write([]byte(chunk)); err != nil {
			return err
		}
		if interval <= 0 {
			if err := ctx.Err(); err != nil {
				return err
			}
			continue
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(interval):
		}
	}
	return nil
}

// chunkRunes splits s into pieces of at most n runes without splitting a
// UTF-8 sequence.
func chunkRunes(s string, n int) []string {
	if n <= 0 {
		n = 1
	}
	var chunks []string
	for len(s) > 0 {
		end, count := 0, 0
		for end < len(s) && count < n {
			_, size := utf8.DecodeRuneInString(s[end:])
			end += size
			count++
		}
		chunks = append(chunks, s[:end])
		s = s[end:]
	}
	return chunks
}
