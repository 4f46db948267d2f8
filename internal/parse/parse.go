// Package parse turns comark source (markdown with YAML frontmatter and
// block components) into an ast.Document.
package parse

import (
	"bytes"
	"fmt"
	"log/slog"
	"strings"

	"github.com/samsaffron/comark/internal/ast"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	gmhtml "github.com/yuin/goldmark/renderer/html"
)

// Parser converts source text into documents. It is safe for concurrent use.
type Parser struct {
	md goldmark.Markdown
}

type options struct {
	gfm       bool
	headingID bool
}

// Option configures a Parser.
type Option func(*options)

// WithGFM toggles the GitHub Flavored Markdown extensions (tables,
// strikethrough, task lists, autolinks). Enabled by default.
func WithGFM(enabled bool) Option {
	return func(o *options) {
		o.gfm = enabled
	}
}

// WithHeadingIDs toggles generated id attributes on headings. Enabled by
// default; the toc plugin only lists headings that have one.
func WithHeadingIDs(enabled bool) Option {
	return func(o *options) {
		o.headingID = enabled
	}
}

// New returns a Parser.
func New(opts ...Option) *Parser {
	o := options{gfm: true, headingID: true}
	for _, opt := range opts {
		opt(&o)
	}

	var exts []goldmark.Extender
	if o.gfm {
		exts = append(exts, extension.GFM)
	}
	var parserOpts []parser.Option
	if o.headingID {
		parserOpts = append(parserOpts, parser.WithAutoHeadingID())
	}

	return &Parser{
		md: goldmark.New(
			goldmark.WithExtensions(exts...),
			goldmark.WithParserOptions(parserOpts...),
			// raw HTML and comments such as <!-- more --> must survive
			goldmark.WithRendererOptions(gmhtml.WithUnsafe()),
		),
	}
}

// Parse parses src. Unclosed components extend to the end of the input and an
// unterminated frontmatter block is read leniently, so partial streaming
// input always produces a document.
func (p *Parser) Parse(src string) (*ast.Document, error) {
	doc := ast.NewDocument()

	fm, body, err := splitFrontmatter(src)
	if err != nil {
		return nil, err
	}
	if fm != nil {
		doc.Frontmatter = fm
	}

	nodes, err := p.parseBlocks(body)
	if err != nil {
		return nil, err
	}
	doc.Nodes = nodes

	slog.Debug("parsed document", "bytes", len(src), "nodes", len(doc.Nodes), "frontmatter_keys", len(doc.Frontmatter))
	return doc, nil
}

// parseBlocks splits src into markdown runs and component blocks and converts
// each into nodes, in order.
func (p *Parser) parseBlocks(src string) ([]ast.Node, error) {
	var nodes []ast.Node
	for _, b := range splitBlocks(strings.Split(src, "\n")) {
		if b.component == nil {
			converted, err := p.markdown(b.markdown)
			if err != nil {
				return nil, err
			}
			nodes = append(nodes, converted...)
			continue
		}

		children, err := p.parseBlocks(b.component.body)
		if err != nil {
			return nil, fmt.Errorf("component %q: %w", b.component.name, err)
		}
		el := ast.NewElement(b.component.name, children...)
		el.Attrs = b.component.attrs
		nodes = append(nodes, el)
	}
	return nodes, nil
}

// markdown renders a plain markdown run to HTML and reads the HTML back as
// nodes.
func (p *Parser) markdown(src string) ([]ast.Node, error) {
	if strings.TrimSpace(src) == "" {
		return nil, nil
	}
	var buf bytes.Buffer
	if err := p.md.Convert([]byte(src), &buf); err != nil {
		return nil, fmt.Errorf("convert markdown: %w", err)
	}
	nodes, err := htmlToNodes(buf.String())
	if err != nil {
		return nil, fmt.Errorf("read rendered markdown: %w", err)
	}
	return nodes, nil
}

var defaultParser = New()

// Parse parses src with the default options.
func Parse(src string) (*ast.Document, error) {
	return defaultParser.Parse(src)
}
