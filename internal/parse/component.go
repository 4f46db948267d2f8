package parse

import (
	"strings"

	"github.com/samsaffron/comark/internal/ast"
	"github.com/samsaffron/comark/internal/autoclose"
)

// block is either a run of plain markdown or one block component.
type block struct {
	markdown  string
	component *component
}

type component struct {
	name  string
	attrs ast.Attributes
	body  string
}

// splitBlocks cuts lines into markdown runs and top-level components. A
// component opened by `::name{props}` ends at the closing fence that empties
// the fence stack, or at the end of the input. Fences are recognized by the
// same scanner the closers use, so lines inside fenced code blocks never open
// or close components.
func splitBlocks(lines []string) []block {
	var (
		out     []block
		pending []string
		open    *component
		body    []string
		sc      autoclose.Scanner
	)
	flush := func() {
		if len(pending) > 0 {
			out = append(out, block{markdown: strings.Join(pending, "\n")})
			pending = nil
		}
	}
	finish := func() {
		open.body = strings.Join(body, "\n")
		out = append(out, block{component: open})
		open, body = nil, nil
	}

	for _, line := range lines {
		l := sc.Scan(line)
		if open == nil {
			if l.Kind == autoclose.LineOpener {
				flush()
				open = &component{name: l.Name, attrs: parseProps(l.Rest)}
				continue
			}
			pending = append(pending, line)
			continue
		}
		if l.Kind == autoclose.LineCloser && len(sc.Open()) == 0 {
			finish()
			continue
		}
		body = append(body, line)
	}
	if open != nil {
		finish()
	}
	flush()
	return out
}
