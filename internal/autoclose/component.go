package autoclose

import (
	"strings"
)

// Component is a block component whose opening fence has no matching closer.
type Component struct {
	Depth int    `json:"depth"` // number of ':' in the opening fence
	Name  string `json:"name"`
}

// codeFence is an open ``` or ~~~ code block.
type codeFence struct {
	char byte
	n    int
}

// LineKind classifies a line during fence scanning.
type LineKind int

const (
	LineText   LineKind = iota // ordinary markdown
	LineCode                   // a code fence line or a line inside a code block
	LineOpener                 // opens a component
	LineCloser                 // a line made only of two or more colons
)

// Line is the classification of one scanned line.
type Line struct {
	Kind  LineKind
	Depth int    // colon count of an opener or closer
	Name  string // component name of an opener
	Rest  string // text after the name of an opener, e.g. its property block
}

// Scanner runs the fence-depth stack over lines one at a time. Lines inside a
// code block are literal. A closer pops the innermost component only when its
// depth matches; names are not compared. The zero value is ready to use.
type Scanner struct {
	stack []Component
	code  *codeFence
}

// Scan classifies line and advances the scanner past it.
func (s *Scanner) Scan(line string) Line {
	if s.code != nil {
		if closesCodeFence(line, s.code) {
			s.code = nil
		}
		return Line{Kind: LineCode}
	}
	if cf, ok := opensCodeFence(line); ok {
		s.code = &cf
		return Line{Kind: LineCode}
	}

	trimmed := strings.TrimSpace(line)
	if depth, name, ok := parseComponentOpener(trimmed); ok {
		s.stack = append(s.stack, Component{Depth: depth, Name: name})
		return Line{Kind: LineOpener, Depth: depth, Name: name, Rest: trimmed[depth+len(name):]}
	}
	if depth, ok := parseComponentCloser(trimmed); ok {
		if top := len(s.stack) - 1; top >= 0 && s.stack[top].Depth == depth {
			s.stack = s.stack[:top]
		}
		return Line{Kind: LineCloser, Depth: depth}
	}
	return Line{Kind: LineText}
}

// Open returns the components still open, outermost first.
func (s *Scanner) Open() []Component {
	return s.stack
}

// InCode reports whether the scanner is inside a fenced code block.
func (s *Scanner) InCode() bool {
	return s.code != nil
}

func scanLines(lines []string) *Scanner {
	s := &Scanner{}
	for _, line := range lines {
		s.Scan(line)
	}
	return s
}

// closers renders the lines that close everything still open, innermost
// first: an open code block, then components most recently opened first.
func (s *Scanner) closers() []string {
	var out []string
	if s.code != nil {
		out = append(out, strings.Repeat(string(s.code.char), s.code.n))
	}
	for i := len(s.stack) - 1; i >= 0; i-- {
		out = append(out, fenceCloser(s.stack[i].Depth))
	}
	return out
}

// UnclosedComponents returns the components left open after reading lines,
// outermost first.
func UnclosedComponents(lines []string) []Component {
	return scanLines(lines).Open()
}

// CloseComponents appends one closing fence line per unclosed component,
// innermost first, each using the depth recorded for its opener. An open code
// block is closed before any component.
func CloseComponents(lines []string) []string {
	closers := scanLines(lines).closers()
	if len(closers) == 0 {
		return lines
	}
	out := make([]string, 0, len(lines)+len(closers))
	out = append(out, lines...)
	return append(out, closers...)
}

// CloseProps closes an unterminated inline property block at the end of line,
// e.g. `::alert{type="info` becomes `::alert{type="info"}`. An open quote is
// closed before the brace. Quote state is tracked character by character
// rather than by counting each quote kind, so `{title="it's"` is closed with
// `}` alone.
func CloseProps(line string) string {
	start := strings.LastIndexByte(line, '}') + 1
	open := strings.IndexByte(line[start:], '{')
	if open < 0 {
		return line
	}

	var quote byte
	for i := start + open + 1; i < len(line); i++ {
		c := line[i]
		switch {
		case quote == 0 && (c == '"' || c == '\''):
			quote = c
		case c == quote:
			quote = 0
		}
	}

	var b strings.Builder
	b.Grow(len(line) + 2)
	b.WriteString(line)
	if quote != 0 {
		b.WriteByte(quote)
	}
	b.WriteByte('}')
	return b.String()
}

var fenceClosers = [...]string{"", ":", "::", ":::", "::::", ":::::", "::::::", ":::::::"}

func fenceCloser(depth int) string {
	if depth < len(fenceClosers) {
		return fenceClosers[depth]
	}
	return strings.Repeat(":", depth)
}

// parseComponentOpener matches `::name...` with at least two colons. The name
// starts with a letter or '$' and continues with word characters, '.', '-' or
// '$'.
func parseComponentOpener(trimmed string) (depth int, name string, ok bool) {
	depth = colonRun(trimmed)
	if depth < 2 || depth == len(trimmed) {
		return 0, "", false
	}
	rest := trimmed[depth:]
	if !isNameStart(rest[0]) {
		return 0, "", false
	}
	end := 1
	for end < len(rest) && isNameChar(rest[end]) {
		end++
	}
	return depth, rest[:end], true
}

// parseComponentCloser matches a line made only of two or more colons.
func parseComponentCloser(trimmed string) (depth int, ok bool) {
	depth = colonRun(trimmed)
	if depth < 2 || depth != len(trimmed) {
		return 0, false
	}
	return depth, true
}

func colonRun(s string) int {
	n := 0
	for n < len(s) && s[n] == ':' {
		n++
	}
	return n
}

func isNameStart(c byte) bool {
	return c == '$' || c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z'
}

func isNameChar(c byte) bool {
	return isNameStart(c) || c >= '0' && c <= '9' || c == '_' || c == '.' || c == '-'
}

// opensCodeFence reports whether line starts a fenced code block: up to three
// spaces of indentation, then three or more backticks or tildes. Backtick
// fences may not carry backticks in their info string.
func opensCodeFence(line string) (codeFence, bool) {
	indent := leadingSpaces(line)
	if indent > 3 {
		return codeFence{}, false
	}
	rest := line[indent:]
	if rest == "" || rest[0] != '`' && rest[0] != '~' {
		return codeFence{}, false
	}
	n := runLength(rest, 0)
	if n < 3 {
		return codeFence{}, false
	}
	if rest[0] == '`' && strings.IndexByte(rest[n:], '`') >= 0 {
		return codeFence{}, false
	}
	return codeFence{char: rest[0], n: n}, true
}

// closesCodeFence reports whether line closes cf: same character, at least
// as long, nothing after it but whitespace.
func closesCodeFence(line string, cf *codeFence) bool {
	indent := leadingSpaces(line)
	if indent > 3 {
		return false
	}
	rest := strings.TrimRight(line[indent:], " \t\r")
	if rest == "" || rest[0] != cf.char {
		return false
	}
	n := runLength(rest, 0)
	return n >= cf.n && n == len(rest)
}

func leadingSpaces(s string) int {
	n := 0
	for n < len(s) && s[n] == ' ' {
		n++
	}
	return n
}
