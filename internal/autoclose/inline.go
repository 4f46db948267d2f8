package autoclose

import (
	"strings"
	"unicode"
)

// delimiter is an emphasis or strikethrough run that is still waiting for its
// closing run.
type delimiter struct {
	char byte // '*' or '~'
	n    int  // characters still unmatched
}

// inlineState is the result of scanning one line.
type inlineState struct {
	open []delimiter // outermost first
	code int         // length of an unterminated code span opener, 0 if none
	// codeAtEnd is set when the line ends in a backtick run while a code span
	// is open; appending the closer directly would merge with that run.
	codeAtEnd bool
}

func (s inlineState) balanced() bool {
	return len(s.open) == 0 && s.code == 0
}

// scanInline walks line once, tracking delimiter runs the way an emphasis
// parser would, but only far enough to know what is left open at the end.
//
// Rules:
//   - a backslash before ASCII punctuation makes it literal
//   - a backtick run opens a code span closed only by a run of the same length;
//     everything inside is literal. A run with nothing after it opens nothing.
//   - '~' runs of exactly two and '*' runs of any length are delimiters
//   - a run can close if it is not preceded by whitespace, and can open if it
//     is followed by a non-space character
//   - a closing '*' run consumes open '*' delimiters from the top, partially
//     closing the last one if it is shorter (**bold* still needs one '*')
func scanInline(line string) inlineState {
	var st inlineState
	n := len(line)
	i := 0
	for i < n {
		c := line[i]
		switch c {
		case '\\':
			if i+1 < n && isASCIIPunct(line[i+1]) {
				i += 2
				continue
			}
			i++

		case '`':
			run := runLength(line, i)
			end := i + run
			if end == n {
				// nothing typed after the opener yet
				return st
			}
			if closeAt := findCodeCloser(line, end, run); closeAt >= 0 {
				i = closeAt + run
				continue
			}
			st.code = run
			st.codeAtEnd = line[n-1] == '`'
			return st

		case '*', '~':
			run := runLength(line, i)
			if c == '~' && run != 2 {
				i += run
				continue
			}
			canClose := i > 0 && !isSpaceByte(line[i-1])
			canOpen := i+run < n && !isSpaceByte(line[i+run])

			rem := run
			if canClose {
				rem = st.closeRun(c, rem)
			}
			if rem > 0 && canOpen {
				st.open = append(st.open, delimiter{char: c, n: rem})
			}
			i += run

		default:
			i++
		}
	}
	return st
}

// closeRun matches a closing run of length rem against the open delimiters
// and returns how many characters of the run are left over.
func (st *inlineState) closeRun(c byte, rem int) int {
	for rem > 0 {
		idx := -1
		for j := len(st.open) - 1; j >= 0; j-- {
			if st.open[j].char == c {
				idx = j
				break
			}
		}
		if idx < 0 {
			return rem
		}
		// spans opened after the match can no longer close
		st.open = st.open[:idx+1]
		top := &st.open[idx]
		if c == '~' {
			st.open = st.open[:idx]
			return 0
		}
		if rem >= top.n {
			rem -= top.n
			st.open = st.open[:idx]
		} else {
			top.n -= rem
			rem = 0
		}
	}
	return 0
}

// closingSuffix renders the closers for st, innermost first.
func (st inlineState) closingSuffix() string {
	var b strings.Builder
	if st.code > 0 {
		if st.codeAtEnd {
			b.WriteByte(' ')
		}
		b.WriteString(strings.Repeat("`", st.code))
	}
	for i := len(st.open) - 1; i >= 0; i-- {
		d := st.open[i]
		b.WriteString(strings.Repeat(string(d.char), d.n))
	}
	return b.String()
}

// CloseInline appends the closers needed to balance the inline markup of a
// single line: bold+italic (***), bold (**), strikethrough (~~), code (`) and
// italic (*). Lines that are already balanced are returned unchanged.
//
// Trailing whitespace is trimmed before the closers are appended, unless the
// innermost open construct is a code span, where spaces are content.
func CloseInline(line string) string {
	st := scanInline(line)
	if st.balanced() {
		return line
	}

	base := line
	if st.code == 0 {
		base = strings.TrimRightFunc(line, unicode.IsSpace)
	}
	closed := base + st.closingSuffix()

	// A closer can merge with a literal run at the end of the line and change
	// how the line scans. Only hand back results that are stable.
	if !scanInline(closed).balanced() {
		return line
	}
	return closed
}

// findCodeCloser returns the index of the first backtick run of exactly run
// characters at or after from, or -1.
func findCodeCloser(line string, from, run int) int {
	for i := from; i < len(line); {
		if line[i] != '`' {
			i++
			continue
		}
		l := runLength(line, i)
		if l == run {
			return i
		}
		i += l
	}
	return -1
}

func runLength(s string, i int) int {
	c := s[i]
	j := i
	for j < len(s) && s[j] == c {
		j++
	}
	return j - i
}

func isSpaceByte(b byte) bool {
	switch b {
	case ' ', '\t', '\n', '\r', '\f', '\v':
		return true
	}
	return false
}

func isASCIIPunct(b byte) bool {
	r := rune(b)
	return b < 0x80 && (unicode.IsPunct(r) || unicode.IsSymbol(r))
}
