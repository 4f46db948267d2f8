package plugins

import (
	"strings"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"
	"github.com/samsaffron/comark/internal/ast"
)

const languagePrefix = "language-"

// Highlight tokenizes fenced code blocks with a `language-x` class and
// replaces their text with one span per token, classed with chroma's short
// class names (k, s, c1, ...). When Style names a chroma style, each span also
// gets an inline color.
type Highlight struct {
	Style string
}

func (Highlight) Name() string { return "highlight" }

func (h Highlight) Apply(doc *ast.Document) {
	var style *chroma.Style
	if h.Style != "" {
		style = styles.Get(h.Style)
	}

	ast.Visit(doc, isHighlightable, func(n ast.Node) ast.Outcome {
		pre := n.(*ast.Element)
		code := pre.Children[0].(*ast.Element)
		lang := strings.TrimPrefix(languageClass(code), languagePrefix)
		src := ast.TextContent(code, ast.TextOptions{})

		children, ok := highlightCode(lang, src, style)
		if !ok {
			return ast.Keep()
		}

		out := ast.Clone(pre).(*ast.Element)
		out.Attrs.Set("class", strings.TrimSpace(out.Attrs.String("class")+" chroma"))
		outCode := out.Children[0].(*ast.Element)
		outCode.Children = children
		return ast.Replace(out)
	})
}

// isHighlightable matches pre elements wrapping a single code element that
// names its language.
func isHighlightable(n ast.Node) bool {
	pre, ok := n.(*ast.Element)
	if !ok || pre.Tag != "pre" || len(pre.Children) != 1 {
		return false
	}
	code, ok := pre.Children[0].(*ast.Element)
	return ok && code.Tag == "code" && languageClass(code) != ""
}

func languageClass(code *ast.Element) string {
	for _, c := range strings.Fields(code.Attrs.String("class")) {
		if strings.HasPrefix(c, languagePrefix) && len(c) > len(languagePrefix) {
			return c
		}
	}
	return ""
}

// highlightCode tokenizes src. Unknown languages fall back to content
// analysis; ok is false when no lexer applies.
func highlightCode(lang, src string, style *chroma.Style) ([]ast.Node, bool) {
	lexer := lexers.Get(lang)
	if lexer == nil {
		lexer = lexers.Analyse(src)
	}
	if lexer == nil {
		return nil, false
	}
	lexer = chroma.Coalesce(lexer)

	iterator, err := lexer.Tokenise(nil, src)
	if err != nil {
		return nil, false
	}

	var nodes []ast.Node
	for token := iterator(); token != chroma.EOF; token = iterator() {
		if token.Value == "" {
			continue
		}
		class := chroma.StandardTypes[token.Type]
		if class == "" {
			nodes = append(nodes, ast.NewText(token.Value))
			continue
		}
		span := ast.NewElement("span", ast.NewText(token.Value))
		span.Attrs.Set("class", class)
		if style != nil {
			if entry := style.Get(token.Type); entry.Colour.IsSet() {
				span.Attrs.Set("style", "color:"+entry.Colour.String())
			}
		}
		nodes = append(nodes, span)
	}
	return nodes, true
}
