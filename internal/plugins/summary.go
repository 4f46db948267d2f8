package plugins

import (
	"strings"

	"github.com/samsaffron/comark/internal/ast"
)

// SummaryKey is the Document.Meta key the summary is stored under.
const SummaryKey = "summary"

// Summary copies the top-level nodes before a `<!-- more -->` comment into
// Document.Meta under SummaryKey. Documents without the marker get no summary.
type Summary struct {
	Delimiter string // comment text, "more" when empty
}

func (Summary) Name() string { return "summary" }

func (s Summary) Apply(doc *ast.Document) {
	delim := s.Delimiter
	if delim == "" {
		delim = "more"
	}

	for i, n := range doc.Nodes {
		c, ok := n.(*ast.Comment)
		if !ok || strings.TrimSpace(c.Value) != delim {
			continue
		}
		summary := make([]ast.Node, i)
		for j := range summary {
			summary[j] = ast.Clone(doc.Nodes[j])
		}
		setMeta(doc, SummaryKey, summary)
		return
	}
}
