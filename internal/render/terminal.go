package render

import (
	"fmt"
	"strings"
	"sync"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/glamour/styles"
)

// DefaultStyle is the glamour style used when none is configured.
const DefaultStyle = styles.DarkStyle

type rendererKey struct {
	width int
	style string
}

// rendererCache holds one glamour renderer per (width, style). Creating a
// renderer is expensive and stream re-renders happen on every chunk.
var rendererCache sync.Map // map[rendererKey]*glamour.TermRenderer

func getRenderer(width int, style string) (*glamour.TermRenderer, error) {
	key := rendererKey{width: width, style: style}
	if cached, ok := rendererCache.Load(key); ok {
		return cached.(*glamour.TermRenderer), nil
	}

	base, ok := styles.DefaultStyles[style]
	if !ok {
		return nil, fmt.Errorf("unknown terminal style %q", style)
	}
	cfg := *base
	margin := uint(0)
	cfg.Document.Margin = &margin
	cfg.Document.BlockPrefix = ""
	cfg.Document.BlockSuffix = ""
	cfg.CodeBlock.Margin = &margin

	renderer, err := glamour.NewTermRenderer(
		glamour.WithStyles(cfg),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return nil, fmt.Errorf("create terminal renderer: %w", err)
	}

	// another goroutine may have stored one first; either is fine
	actual, _ := rendererCache.LoadOrStore(key, renderer)
	return actual.(*glamour.TermRenderer), nil
}

// Terminal renders markdown with ANSI styling wrapped to width. An empty style
// uses DefaultStyle.
func Terminal(markdown string, width int, style string) (string, error) {
	if markdown == "" {
		return "", nil
	}
	if style == "" {
		style = DefaultStyle
	}
	renderer, err := getRenderer(width, style)
	if err != nil {
		return "", err
	}
	out, err := renderer.Render(markdown)
	if err != nil {
		return "", fmt.Errorf("render markdown: %w", err)
	}
	return strings.TrimSpace(out), nil
}
