// Package autoclose repairs markdown whose tail is incomplete, as happens
// when text is rendered while it is still being generated. Every function is
// total over all strings and appends the smallest suffix it can find that makes
// the trailing syntax well-formed; text that is already balanced comes back
// unchanged.
//
// Only the tail is examined: inline markup on the last line, component fences
// and code blocks across all lines, and the last table block. Earlier content is
// assumed to be complete.
package autoclose

import (
	"strings"
)

// maxPasses bounds how often the pipeline is re-applied to its own output.
// Repairs only append, so the output settles after one or two passes.
const maxPasses = 4

// CloseMarkup runs the auto-closure pipeline: inline markup on the last line
// first, then, if the text contains component fences or an open code block,
// the property block on the last line and the fence stack.
func CloseMarkup(text string) string {
	if strings.TrimSpace(text) == "" {
		return text
	}
	out := closeOnce(text)
	for i := 1; i < maxPasses; i++ {
		next := closeOnce(out)
		if next == out {
			break
		}
		out = next
	}
	return out
}

func closeOnce(text string) string {
	lines := strings.Split(text, "\n")
	last := len(lines) - 1

	// The last line of an unterminated code block is code, not markup.
	inCode := scanLines(lines).InCode()
	if !inCode {
		lines[last] = CloseInline(lines[last])
	}

	// inline closers never add or remove "::"
	if !inCode && !strings.Contains(text, "::") {
		return strings.Join(lines, "\n")
	}

	if !inCode {
		lines[last] = CloseProps(lines[last])
	}
	return strings.Join(CloseComponents(lines), "\n")
}
