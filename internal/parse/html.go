package parse

import (
	"strings"

	"github.com/samsaffron/comark/internal/ast"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// htmlToNodes parses an HTML fragment as body content and converts it.
func htmlToNodes(src string) ([]ast.Node, error) {
	body := &html.Node{Type: html.ElementNode, Data: "body", DataAtom: atom.Body}
	frag, err := html.ParseFragment(strings.NewReader(src), body)
	if err != nil {
		return nil, err
	}

	var nodes []ast.Node
	for _, n := range frag {
		if c := convertNode(n, false); c != nil {
			nodes = append(nodes, c)
		}
	}
	return nodes, nil
}

// convertNode converts n and its subtree. Whitespace-only text that contains a
// line break is formatting between block tags and is dropped, except inside
// pre where every character counts.
func convertNode(n *html.Node, inPre bool) ast.Node {
	switch n.Type {
	case html.TextNode:
		if !inPre && strings.TrimSpace(n.Data) == "" && strings.Contains(n.Data, "\n") {
			return nil
		}
		return ast.NewText(n.Data)

	case html.CommentNode:
		return ast.NewComment(n.Data)

	case html.ElementNode:
		el := ast.NewElement(n.Data)
		for _, a := range n.Attr {
			key := a.Key
			if a.Namespace != "" {
				key = a.Namespace + ":" + a.Key
			}
			el.Attrs.Set(key, a.Val)
		}
		childPre := inPre || n.DataAtom == atom.Pre
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			if child := convertNode(c, childPre); child != nil {
				el.Children = append(el.Children, child)
			}
		}
		return el
	}
	return nil
}
