// Package ast defines the document tree produced by the parser and consumed by
// plugins and renderers, along with a visitor that can rewrite the tree in place.
package ast

// Node is one of *Text, *Comment or *Element.
type Node interface {
	node()
}

// Text is raw inline character content.
type Text struct {
	Value string
}

// Comment is rendered as a markup comment.
type Comment struct {
	Value string
}

// Element is a tagged node that exclusively owns its children.
type Element struct {
	Tag      string
	Attrs    Attributes
	Children []Node
}

func (*Text) node()    {}
func (*Comment) node() {}
func (*Element) node() {}

// NewText returns a text leaf.
func NewText(s string) *Text {
	return &Text{Value: s}
}

// NewComment returns a comment leaf.
func NewComment(s string) *Comment {
	return &Comment{Value: s}
}

// NewElement returns an element with no attributes.
func NewElement(tag string, children ...Node) *Element {
	return &Element{Tag: tag, Children: children}
}

// Attr is a single element attribute.
type Attr struct {
	Key   string
	Value any
}

// Attributes keeps insertion order so serialization is stable.
// Keys are unique.
type Attributes []Attr

// Get returns the value for key.
func (a Attributes) Get(key string) (any, bool) {
	for _, attr := range a {
		if attr.Key == key {
			return attr.Value, true
		}
	}
	return nil, false
}

// String returns the value for key when it is a string.
func (a Attributes) String(key string) string {
	v, ok := a.Get(key)
	if !ok {
		return ""
	}
	s, _ := v.(string)
	return s
}

// Has reports whether key is present.
func (a Attributes) Has(key string) bool {
	_, ok := a.Get(key)
	return ok
}

// Len returns the number of attributes.
func (a Attributes) Len() int {
	return len(a)
}

// Set replaces the value of an existing key in place, or appends it.
func (a *Attributes) Set(key string, value any) {
	for i := range *a {
		if (*a)[i].Key == key {
			(*a)[i].Value = value
			return
		}
	}
	*a = append(*a, Attr{Key: key, Value: value})
}

// Delete removes key, preserving the order of the remaining attributes.
func (a *Attributes) Delete(key string) {
	for i := range *a {
		if (*a)[i].Key == key {
			*a = append((*a)[:i], (*a)[i+1:]...)
			return
		}
	}
}

// Clone returns a deep copy of n. Attribute values are copied shallowly.
func Clone(n Node) Node {
	switch v := n.(type) {
	case *Text:
		return &Text{Value: v.Value}
	case *Comment:
		return &Comment{Value: v.Value}
	case *Element:
		el := &Element{Tag: v.Tag}
		if v.Attrs != nil {
			el.Attrs = append(Attributes(nil), v.Attrs...)
		}
		if v.Children != nil {
			el.Children = make([]Node, len(v.Children))
			for i, c := range v.Children {
				el.Children[i] = Clone(c)
			}
		}
		return el
	case nil:
		return nil
	default:
		panic(invalidNode(n))
	}
}
