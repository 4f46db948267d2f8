// Package render serializes documents to HTML, plain text and JSON, and
// renders markdown for the terminal.
package render

import (
	"fmt"
	"strings"
	"sync"

	"github.com/microcosm-cc/bluemonday"
	"github.com/samsaffron/comark/internal/ast"
	"golang.org/x/net/html"
)

// HTMLOptions controls HTML output.
type HTMLOptions struct {
	// Sanitize runs the output through a user-generated-content policy.
	Sanitize bool
}

var voidElements = map[string]bool{
	"area": true, "base": true, "br": true, "col": true, "embed": true,
	"hr": true, "img": true, "input": true, "link": true, "meta": true,
	"source": true, "track": true, "wbr": true,
}

// rawTextElements hold text that must not be escaped.
var rawTextElements = map[string]bool{"script": true, "style": true}

var ugcPolicy = sync.OnceValue(func() *bluemonday.Policy {
	p := bluemonday.UGCPolicy()
	// keep highlight and component classes
	p.AllowAttrs("class").Matching(bluemonday.SpaceSeparatedTokens).Globally()
	return p
})

// HTML serializes the document's nodes.
func HTML(doc *ast.Document, opts HTMLOptions) string {
	var b strings.Builder
	for _, n := range doc.Nodes {
		writeHTML(&b, n, false)
	}
	out := b.String()
	if opts.Sanitize {
		out = ugcPolicy().Sanitize(out)
	}
	return out
}

// NodeHTML serializes a single node.
func NodeHTML(n ast.Node) string {
	var b strings.Builder
	writeHTML(&b, n, false)
	return b.String()
}

func writeHTML(b *strings.Builder, n ast.Node, raw bool) {
	switch v := n.(type) {
	case *ast.Text:
		if raw {
			b.WriteString(v.Value)
		} else {
			b.WriteString(html.EscapeString(v.Value))
		}
	case *ast.Comment:
		b.WriteString("<!--")
		b.WriteString(v.Value)
		b.WriteString("-->")
	case *ast.Element:
		b.WriteByte('<')
		b.WriteString(v.Tag)
		writeAttrs(b, v.Attrs)
		b.WriteByte('>')
		if voidElements[v.Tag] {
			return
		}
		childRaw := rawTextElements[v.Tag]
		for _, c := range v.Children {
			writeHTML(b, c, childRaw)
		}
		b.WriteString("</")
		b.WriteString(v.Tag)
		b.WriteByte('>')
	}
}

// writeAttrs writes attributes in order. true is written as a bare key and
// false or nil is omitted.
func writeAttrs(b *strings.Builder, attrs ast.Attributes) {
	for _, a := range attrs {
		var value string
		switch v := a.Value.(type) {
		case nil:
			continue
		case bool:
			if !v {
				continue
			}
			b.WriteByte(' ')
			b.WriteString(a.Key)
			continue
		case string:
			value = v
		default:
			value = fmt.Sprint(v)
		}
		b.WriteByte(' ')
		b.WriteString(a.Key)
		b.WriteString(`="`)
		b.WriteString(html.EscapeString(value))
		b.WriteByte('"')
	}
}
