package ast

import (
	"fmt"

	"golang.org/x/net/html"
)

// Op selects what Visit does with a matched node.
type Op uint8

const (
	OpKeep Op = iota
	OpReplace
	OpRemove
)

// Outcome is returned by a Visit transform. The zero value keeps the node.
type Outcome struct {
	Op   Op
	Node Node
}

// Keep leaves the node in place. Its children are still visited.
func Keep() Outcome {
	return Outcome{}
}

// Replace overwrites the node's slot with n. The children of n are visited,
// n itself is not matched again.
func Replace(n Node) Outcome {
	return Outcome{Op: OpReplace, Node: n}
}

// Remove splices the node out of its parent. Its children are not visited.
func Remove() Outcome {
	return Outcome{Op: OpRemove}
}

// Visit walks doc in preorder. For every node, matches is evaluated first and,
// if it returns true, transform decides whether the node is kept, replaced or
// removed. Every node present when the walk reaches its position is visited
// exactly once, no matter how many earlier siblings were removed.
//
// A transform returning an unknown Op or Replace(nil), or a nil node in the
// tree, is a caller bug and panics.
func Visit(doc *Document, matches func(Node) bool, transform func(Node) Outcome) {
	doc.Nodes = walkList(doc.Nodes, matches, transform)
}

// walkList visits list in place and returns it, possibly shortened.
func walkList(list []Node, matches func(Node) bool, transform func(Node) Outcome) []Node {
	i := 0
	for i < len(list) {
		n := list[i]
		if n == nil {
			panic(fmt.Sprintf("ast: nil node at index %d", i))
		}

		if matches(n) {
			out := transform(n)
			switch out.Op {
			case OpKeep:
			case OpReplace:
				if out.Node == nil {
					panic("ast: Replace called with a nil node")
				}
				list[i] = out.Node
				n = out.Node
			case OpRemove:
				copy(list[i:], list[i+1:])
				list[len(list)-1] = nil
				list = list[:len(list)-1]
				// the next sibling now occupies index i
				continue
			default:
				panic(fmt.Sprintf("ast: unknown visit op %d", out.Op))
			}
		}

		switch v := n.(type) {
		case *Element:
			v.Children = walkList(v.Children, matches, transform)
		case *Text, *Comment:
		default:
			panic(invalidNode(n))
		}
		i++
	}
	return list
}

// TextOptions controls TextContent.
type TextOptions struct {
	// DecodeEntities decodes named and numeric character references.
	DecodeEntities bool
}

// TextContent concatenates the text leaves below node. Comments contribute
// nothing.
func TextContent(node Node, opts TextOptions) string {
	switch v := node.(type) {
	case *Text:
		if opts.DecodeEntities {
			return html.UnescapeString(v.Value)
		}
		return v.Value
	case *Comment, nil:
		return ""
	case *Element:
		var out []byte
		for _, c := range v.Children {
			out = append(out, TextContent(c, opts)...)
		}
		return string(out)
	default:
		panic(invalidNode(node))
	}
}

func invalidNode(n Node) string {
	return fmt.Sprintf("ast: unsupported node type %T", n)
}
