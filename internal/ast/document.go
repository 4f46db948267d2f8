package ast

// Document is the root of a parsed tree. It owns all nodes transitively.
type Document struct {
	Nodes       []Node
	Frontmatter map[string]any
	Meta        map[string]any
}

// NewDocument returns a document with empty, non-nil maps.
func NewDocument(nodes ...Node) *Document {
	return &Document{
		Nodes:       nodes,
		Frontmatter: map[string]any{},
		Meta:        map[string]any{},
	}
}
