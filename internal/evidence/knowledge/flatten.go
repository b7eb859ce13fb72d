// Package knowledge builds and queries the rules knowledge base used to
// ground document verification and fraud screening.
package knowledge

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// LoadSource reads a YAML or JSON rules document and flattens it to lines.
func LoadSource(path string) ([]string, error) {
	raw, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("knowledge source %s not found, point knowledge.source_path at a JSON or YAML rules file (knowledge_base/death_rules.json ships as a sample): %w", path, err)
	}
	if err != nil {
		return nil, fmt.Errorf("read knowledge source: %w", err)
	}
	return Flatten(raw)
}

// Flatten turns a nested mapping into one line per leaf, keeping document
// order. Nested keys join with ".", list items render as key[i]: item.
// JSON input parses as YAML.
func Flatten(raw []byte) ([]string, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("parse knowledge source: %w", err)
	}
	if len(doc.Content) == 0 {
		return nil, nil
	}
	root := doc.Content[0]
	if root.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("knowledge source must be a mapping, got %s", kindName(root.Kind))
	}
	var lines []string
	flattenMapping(root, "", &lines)
	return lines, nil
}

func flattenMapping(node *yaml.Node, prefix string, lines *[]string) {
	for i := 0; i+1 < len(node.Content); i += 2 {
		key := node.Content[i].Value
		value := node.Content[i+1]
		switch value.Kind {
		case yaml.MappingNode:
			flattenMapping(value, prefix+key+".", lines)
		case yaml.SequenceNode:
			for j, item := range value.Content {
				*lines = append(*lines, fmt.Sprintf("%s%s[%d]: %s", prefix, key, j, render(item)))
			}
		default:
			*lines = append(*lines, fmt.Sprintf("%s%s: %s", prefix, key, render(value)))
		}
	}
}

// render prints a leaf the way a reader of the rules file would expect.
// Nested collections inside lists render inline.
func render(node *yaml.Node) string {
	switch node.Kind {
	case yaml.ScalarNode:
		return node.Value
	case yaml.AliasNode:
		return render(node.Alias)
	case yaml.SequenceNode:
		parts := make([]string, 0, len(node.Content))
		for _, item := range node.Content {
			parts = append(parts, render(item))
		}
		return "[" + strings.Join(parts, ", ") + "]"
	case yaml.MappingNode:
		parts := make([]string, 0, len(node.Content)/2)
		for i := 0; i+1 < len(node.Content); i += 2 {
			parts = append(parts, node.Content[i].Value+": "+render(node.Content[i+1]))
		}
		return "{" + strings.Join(parts, ", ") + "}"
	default:
		return ""
	}
}

func kindName(k yaml.Kind) string {
	switch k {
	case yaml.SequenceNode:
		return "sequence"
	case yaml.ScalarNode:
		return "scalar"
	case yaml.AliasNode:
		return "alias"
	default:
		return "document"
	}
}
