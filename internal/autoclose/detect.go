package autoclose

import (
	"regexp"
	"slices"
	"strings"
)

// Labels reported for unclosed inline markup.
const (
	InlineBold          = "**bold**"
	InlineItalic        = "*italic*"
	InlineCode          = "`code`"
	InlineStrikethrough = "~~strikethrough~~"
)

var (
	unclosedBold   = regexp.MustCompile(`\*\*[^*\n]+$`)
	unclosedItalic = regexp.MustCompile(`\*[^*\n]+$`)
	unclosedCode   = regexp.MustCompile("`[^`\\n]+$")
	unclosedStrike = regexp.MustCompile(`~~[^~\n]+$`)
)

// Report describes what CloseMarkup would have to close.
type Report struct {
	HasUnclosed        bool        `json:"hasUnclosed"`
	UnclosedInline     []string    `json:"unclosedInline"`
	UnclosedComponents []Component `json:"unclosedComponents"`
}

// DetectUnclosed reports whether text has unclosed syntax without modifying
// it. Whether anything is unclosed is decided by running CloseMarkup; which
// inline markers are open is a quick look at the last line only and can
// disagree with the closer on unusual input.
func DetectUnclosed(text string) Report {
	r := Report{
		UnclosedInline:     []string{},
		UnclosedComponents: []Component{},
	}
	if CloseMarkup(text) == text {
		return r
	}
	r.HasUnclosed = true

	lines := strings.Split(text, "\n")
	last := lines[len(lines)-1]

	if unclosedBold.MatchString(last) {
		r.UnclosedInline = append(r.UnclosedInline, InlineBold)
	}
	if unclosedItalic.MatchString(last) && !slices.Contains(r.UnclosedInline, InlineBold) {
		r.UnclosedInline = append(r.UnclosedInline, InlineItalic)
	}
	if unclosedCode.MatchString(last) {
		r.UnclosedInline = append(r.UnclosedInline, InlineCode)
	}
	if unclosedStrike.MatchString(last) {
		r.UnclosedInline = append(r.UnclosedInline, InlineStrikethrough)
	}

	if open := UnclosedComponents(lines); len(open) > 0 {
		r.UnclosedComponents = open
	}
	return r
}
