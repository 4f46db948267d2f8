package parse

import (
	"strings"

	"github.com/samsaffron/comark/internal/ast"
)

// parseProps reads the `{...}` block that may follow a component name:
//
//	{key="value" key='value' key=bare flag .class #id}
//
// Flags become true, .class entries accumulate into "class" and #id sets "id".
// A block missing its closing brace is read to the end of s.
func parseProps(s string) ast.Attributes {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "{") {
		return nil
	}
	s = s[1:]

	var (
		attrs   ast.Attributes
		classes []string
	)
	i := 0
	for i < len(s) {
		c := s[i]
		switch {
		case c == '}':
			i = len(s)
			continue
		case c == ' ' || c == '\t':
			i++
			continue
		case c == '.':
			word, next := readBare(s, i+1)
			if word != "" {
				classes = append(classes, word)
			}
			i = next
			continue
		case c == '#':
			word, next := readBare(s, i+1)
			if word != "" {
				attrs.Set("id", word)
			}
			i = next
			continue
		}

		key, next := readKey(s, i)
		if key == "" {
			// skip a character that cannot start anything
			i++
			continue
		}
		i = next
		if i >= len(s) || s[i] != '=' {
			attrs.Set(key, true)
			continue
		}
		i++

		var value string
		if i < len(s) && (s[i] == '"' || s[i] == '\'') {
			value, i = readQuoted(s, i)
		} else {
			value, i = readBare(s, i)
		}
		attrs.Set(key, value)
	}

	if len(classes) > 0 {
		attrs.Set("class", strings.Join(classes, " "))
	}
	return attrs
}

func readKey(s string, i int) (string, int) {
	start := i
	for i < len(s) {
		c := s[i]
		if c == '=' || c == ' ' || c == '\t' || c == '}' || c == '"' || c == '\'' {
			break
		}
		i++
	}
	return s[start:i], i
}

func readBare(s string, i int) (string, int) {
	start := i
	for i < len(s) && s[i] != ' ' && s[i] != '\t' && s[i] != '}' {
		i++
	}
	return s[start:i], i
}

// readQuoted reads a quoted value starting at the quote at s[i]. A backslash
// escapes the next character. An unterminated value runs to the end of s.
func readQuoted(s string, i int) (string, int) {
	quote := s[i]
	i++
	var b strings.Builder
	for i < len(s) {
		c := s[i]
		switch {
		case c == '\\' && i+1 < len(s):
			b.WriteByte(s[i+1])
			i += 2
		case c == quote:
			return b.String(), i + 1
		default:
			b.WriteByte(c)
			i++
		}
	}
	return b.String(), i
}
