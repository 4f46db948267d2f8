package render

import (
	"strings"

	"github.com/samsaffron/comark/internal/ast"
)

var blockTags = map[string]bool{
	"p": true, "h1": true, "h2": true, "h3": true, "h4": true, "h5": true, "h6": true,
	"ul": true, "ol": true, "li": true, "pre": true, "blockquote": true, "hr": true,
	"table": true, "thead": true, "tbody": true, "tr": true, "div": true, "section": true,
	"details": true, "summary": true, "figure": true,
}

// Text returns the document's text with entities decoded, one block per
// paragraph separated by blank lines. Table cells are separated by tabs.
func Text(doc *ast.Document) string {
	var blocks []string
	collectBlocks(doc.Nodes, &blocks)
	return strings.Join(blocks, "\n\n")
}

func collectBlocks(nodes []ast.Node, blocks *[]string) {
	opts := ast.TextOptions{DecodeEntities: true}
	for _, n := range nodes {
		var s string
		switch v := n.(type) {
		case *ast.Comment:
			continue
		case *ast.Text:
			s = v.Value
		case *ast.Element:
			switch {
			case v.Tag == "tr":
				cells := make([]string, 0, len(v.Children))
				for _, c := range v.Children {
					cells = append(cells, strings.TrimSpace(ast.TextContent(c, opts)))
				}
				s = strings.Join(cells, "\t")
			case hasBlockChild(v):
				collectBlocks(v.Children, blocks)
				continue
			default:
				s = ast.TextContent(v, opts)
			}
		}
		if s = strings.TrimSpace(s); s != "" {
			*blocks = append(*blocks, s)
		}
	}
}

func hasBlockChild(el *ast.Element) bool {
	for _, c := range el.Children {
		if child, ok := c.(*ast.Element); ok && blockTags[child.Tag] {
			return true
		}
	}
	return false
}
