package parse

import (
	"errors"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

const frontmatterDelim = "---"

// splitFrontmatter separates a leading YAML block delimited by "---" lines
// from the body. It returns a nil map when src has no frontmatter. A block
// that is not a YAML mapping, such as a paragraph between two thematic
// breaks, is not frontmatter and src is returned whole.
//
// While a document is still streaming the closing delimiter may be missing.
// In that case everything after the opener is frontmatter, the body is empty,
// and YAML that does not decode yet is ignored instead of failing the parse.
func splitFrontmatter(src string) (map[string]any, string, error) {
	first, rest, _ := strings.Cut(src, "\n")
	if strings.TrimRight(first, " \t\r") != frontmatterDelim {
		return nil, src, nil
	}

	lines := strings.Split(rest, "\n")
	for i, line := range lines {
		if strings.TrimRight(line, " \t\r") != frontmatterDelim {
			continue
		}
		fm, err := decodeFrontmatter(strings.Join(lines[:i], "\n"))
		if errors.Is(err, errNotMapping) {
			return nil, src, nil
		}
		if err != nil {
			return nil, "", err
		}
		return fm, strings.Join(lines[i+1:], "\n"), nil
	}

	fm, err := decodeFrontmatter(rest)
	if errors.Is(err, errNotMapping) {
		return nil, src, nil
	}
	if err != nil {
		return map[string]any{}, "", nil
	}
	return fm, "", nil
}

var errNotMapping = errors.New("frontmatter is not a mapping")

func decodeFrontmatter(src string) (map[string]any, error) {
	fm := map[string]any{}
	if strings.TrimSpace(src) == "" {
		return fm, nil
	}
	var node yaml.Node
	if err := yaml.Unmarshal([]byte(src), &node); err != nil {
		return nil, fmt.Errorf("parse frontmatter: %w", err)
	}
	if len(node.Content) == 0 {
		return fm, nil
	}
	if node.Content[0].Kind != yaml.MappingNode {
		return nil, errNotMapping
	}
	if err := node.Content[0].Decode(&fm); err != nil {
		return nil, fmt.Errorf("parse frontmatter: %w", err)
	}
	return fm, nil
}
