package plugins

import (
	"strings"

	"github.com/samsaffron/comark/internal/ast"
	"github.com/yuin/goldmark-emoji/definition"
)

// Emoji replaces :shortcode: sequences in text with the matching emoji.
// Text anywhere inside code, pre, kbd, script and style is left alone.
type Emoji struct {
	// Emojis overrides the lookup table. The GitHub set is used when nil.
	Emojis definition.Emojis
}

func (Emoji) Name() string { return "emoji" }

func (e Emoji) Apply(doc *ast.Document) {
	table := e.Emojis
	if table == nil {
		table = definition.Github()
	}

	replaceShortcodesIn(doc.Nodes, table)
}

// replaceShortcodesIn rewrites text nodes in list and below, skipping whole
// subtrees under literal elements.
func replaceShortcodesIn(list []ast.Node, table definition.Emojis) {
	for _, n := range list {
		switch n := n.(type) {
		case *ast.Text:
			n.Value = replaceShortcodes(n.Value, table)
		case *ast.Element:
			if !literalTags[n.Tag] {
				replaceShortcodesIn(n.Children, table)
			}
		}
	}
}

var literalTags = map[string]bool{
	"code": true, "pre": true, "kbd": true, "script": true, "style": true,
}

// replaceShortcodes rewrites every :name: whose name is in table.
func replaceShortcodes(s string, table definition.Emojis) string {
	if strings.Count(s, ":") < 2 {
		return s
	}

	var b strings.Builder
	i := 0
	for i < len(s) {
		if s[i] != ':' {
			b.WriteByte(s[i])
			i++
			continue
		}
		end := i + 1
		for end < len(s) && isShortcodeChar(s[end]) {
			end++
		}
		if end < len(s) && s[end] == ':' && end > i+1 {
			if em, ok := table.Get(s[i+1 : end]); ok {
				b.WriteString(string(em.Unicode))
				i = end + 1
				continue
			}
		}
		b.WriteByte(':')
		i++
	}
	return b.String()
}

func isShortcodeChar(c byte) bool {
	return c >= 'a' && c <= 'z' || c >= '0' && c <= '9' || c == '_' || c == '+' || c == '-'
}
