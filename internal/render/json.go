package render

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/samsaffron/comark/internal/ast"
)

// JSON encodes the document in the compact tuple form:
//
//	element  ["tag", {"key": value, ...}, child, ...]
//	text     "value"
//	comment  [null, {}, "value"]
//
// wrapped as {"nodes": [...], "frontmatter": {...}, "meta": {...}}. Attribute
// order is preserved. Node lists stored in meta use the same form.
func JSON(doc *ast.Document) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString(`{"nodes":`)
	if err := encodeNodes(&buf, doc.Nodes); err != nil {
		return nil, err
	}

	buf.WriteString(`,"frontmatter":`)
	if err := encodeValue(&buf, orEmpty(doc.Frontmatter)); err != nil {
		return nil, fmt.Errorf("encode frontmatter: %w", err)
	}

	meta := make(map[string]any, len(doc.Meta))
	for k, v := range doc.Meta {
		if nodes, ok := v.([]ast.Node); ok {
			var nb bytes.Buffer
			if err := encodeNodes(&nb, nodes); err != nil {
				return nil, fmt.Errorf("encode meta %q: %w", k, err)
			}
			v = json.RawMessage(nb.Bytes())
		}
		meta[k] = v
	}
	buf.WriteString(`,"meta":`)
	if err := encodeValue(&buf, meta); err != nil {
		return nil, fmt.Errorf("encode meta: %w", err)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func encodeNodes(buf *bytes.Buffer, nodes []ast.Node) error {
	buf.WriteByte('[')
	for i, n := range nodes {
		if i > 0 {
			buf.WriteByte(',')
		}
		if err := encodeNode(buf, n); err != nil {
			return err
		}
	}
	buf.WriteByte(']')
	return nil
}

func encodeNode(buf *bytes.Buffer, n ast.Node) error {
	switch v := n.(type) {
	case *ast.Text:
		return encodeValue(buf, v.Value)
	case *ast.Comment:
		buf.WriteString(`[null,{},`)
		if err := encodeValue(buf, v.Value); err != nil {
			return err
		}
		buf.WriteByte(']')
		return nil
	case *ast.Element:
		buf.WriteByte('[')
		if err := encodeValue(buf, v.Tag); err != nil {
			return err
		}
		buf.WriteString(",{")
		for i, a := range v.Attrs {
			if i > 0 {
				buf.WriteByte(',')
			}
			if err := encodeValue(buf, a.Key); err != nil {
				return err
			}
			buf.WriteByte(':')
			if err := encodeValue(buf, a.Value); err != nil {
				return fmt.Errorf("attribute %q of <%s>: %w", a.Key, v.Tag, err)
			}
		}
		buf.WriteByte('}')
		for _, c := range v.Children {
			buf.WriteByte(',')
			if err := encodeNode(buf, c); err != nil {
				return err
			}
		}
		buf.WriteByte(']')
		return nil
	default:
		return fmt.Errorf("unsupported node type %T", n)
	}
}

func encodeValue(buf *bytes.Buffer, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	buf.Write(data)
	return nil
}

func orEmpty(m map[string]any) map[string]any {
	if m == nil {
		return map[string]any{}
	}
	return m
}
