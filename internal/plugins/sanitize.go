package plugins

import (
	"strings"

	"github.com/samsaffron/comark/internal/ast"
)

// DefaultForbidden are the tags Sanitize removes when none are configured.
var DefaultForbidden = []string{
	"script", "style", "iframe", "object", "embed", "frame", "frameset",
	"base", "meta", "link", "form", "template",
}

var urlAttrs = map[string]bool{
	"href": true, "src": true, "action": true, "formaction": true,
	"xlink:href": true, "poster": true, "background": true,
}

// Sanitize strips active content: forbidden elements are removed with their
// subtree, event handler attributes are dropped and javascript:, vbscript:
// and data:text/html URLs are removed.
type Sanitize struct {
	Forbidden []string
}

func (Sanitize) Name() string { return "sanitize" }

func (s Sanitize) Apply(doc *ast.Document) {
	forbidden := s.Forbidden
	if len(forbidden) == 0 {
		forbidden = DefaultForbidden
	}
	deny := make(map[string]bool, len(forbidden))
	for _, tag := range forbidden {
		deny[strings.ToLower(tag)] = true
	}

	ast.Visit(doc, isElement, func(n ast.Node) ast.Outcome {
		el := n.(*ast.Element)
		if deny[strings.ToLower(el.Tag)] {
			return ast.Remove()
		}
		stripUnsafeAttrs(&el.Attrs)
		return ast.Keep()
	})
}

func stripUnsafeAttrs(attrs *ast.Attributes) {
	var drop []string
	for _, a := range *attrs {
		key := strings.ToLower(a.Key)
		if strings.HasPrefix(key, "on") {
			drop = append(drop, a.Key)
			continue
		}
		if v, ok := a.Value.(string); ok && urlAttrs[key] && unsafeURL(v) {
			drop = append(drop, a.Key)
		}
	}
	for _, key := range drop {
		attrs.Delete(key)
	}
}

// unsafeURL reports whether v uses a scheme that runs script. Browsers ignore
// whitespace and control characters inside the scheme, so they are stripped
// before comparing.
func unsafeURL(v string) bool {
	v = strings.Map(func(r rune) rune {
		if r <= ' ' {
			return -1
		}
		return r
	}, strings.ToLower(v))
	return strings.HasPrefix(v, "javascript:") ||
		strings.HasPrefix(v, "vbscript:") ||
		strings.HasPrefix(v, "data:text/html")
}
