package plugins

import (
	"strings"

	"github.com/samsaffron/comark/internal/ast"
)

// TOCKey is the Document.Meta key the table of contents is stored under.
const TOCKey = "toc"

// TOCLink is one heading in the table of contents. Headings of a deeper level
// that follow it are nested under it.
type TOCLink struct {
	ID       string    `json:"id"`
	Depth    int       `json:"depth"`
	Text     string    `json:"text"`
	Children []TOCLink `json:"children,omitempty"`
}

// TableOfContents is stored in Document.Meta under TOCKey.
type TableOfContents struct {
	Title string    `json:"title"`
	Depth int       `json:"depth"`
	Links []TOCLink `json:"links"`
}

// TOC collects h2 through h{Depth} headings that carry an id. The first h1
// becomes the title.
type TOC struct {
	Depth int
}

func (TOC) Name() string { return "toc" }

func (t TOC) Apply(doc *ast.Document) {
	depth := t.Depth
	if depth < 2 || depth > 6 {
		depth = 3
	}

	toc := TableOfContents{Depth: depth, Links: []TOCLink{}}
	ast.Visit(doc, hasTag("h1", "h2", "h3", "h4", "h5", "h6"), func(n ast.Node) ast.Outcome {
		el := n.(*ast.Element)
		level := int(el.Tag[1] - '0')
		text := strings.TrimSpace(ast.TextContent(el, ast.TextOptions{DecodeEntities: true}))

		if level == 1 {
			if toc.Title == "" {
				toc.Title = text
			}
			return ast.Keep()
		}
		id := el.Attrs.String("id")
		if level > depth || id == "" {
			return ast.Keep()
		}
		toc.Links = nestLink(toc.Links, TOCLink{ID: id, Depth: level, Text: text})
		return ast.Keep()
	})

	setMeta(doc, TOCKey, toc)
}

// nestLink appends link to the deepest trailing entry of links that is
// shallower than it.
func nestLink(links []TOCLink, link TOCLink) []TOCLink {
	if n := len(links); n > 0 && links[n-1].Depth < link.Depth {
		links[n-1].Children = nestLink(links[n-1].Children, link)
		return links
	}
	return append(links, link)
}
