// Package plugins transforms parsed documents in place and records derived
// data in Document.Meta.
package plugins

import (
	"log/slog"

	"github.com/samsaffron/comark/internal/ast"
)

// Plugin rewrites or annotates a document in place.
type Plugin interface {
	Name() string
	Apply(doc *ast.Document)
}

// Apply runs plugins over doc in order.
func Apply(doc *ast.Document, plugins ...Plugin) {
	for _, p := range plugins {
		p.Apply(doc)
		slog.Debug("applied plugin", "plugin", p.Name(), "nodes", len(doc.Nodes))
	}
}

// setMeta stores v under key, allocating Meta for documents that were built
// without NewDocument.
func setMeta(doc *ast.Document, key string, v any) {
	if doc.Meta == nil {
		doc.Meta = map[string]any{}
	}
	doc.Meta[key] = v
}

func isElement(n ast.Node) bool {
	_, ok := n.(*ast.Element)
	return ok
}

func hasTag(tags ...string) func(ast.Node) bool {
	return func(n ast.Node) bool {
		el, ok := n.(*ast.Element)
		if !ok {
			return false
		}
		for _, t := range tags {
			if el.Tag == t {
				return true
			}
		}
		return false
	}
}
