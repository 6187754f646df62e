package output

import (
	"encoding/json"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"
)

// WriteDocuments writes docs as a YAML document stream or a JSON array.
// Both formats honor json struct tags; YAML keeps the JSON field order.
func WriteDocuments(w io.Writer, format Format, docs []any) error {
	switch format {
	case FormatJSON:
		encoder := json.NewEncoder(w)
		encoder.SetIndent("", "  ")
		if docs == nil {
			docs = []any{}
		}
		if err := encoder.Encode(docs); err != nil {
			return fmt.Errorf("encoding JSON: %w", err)
		}
		return nil
	case FormatYAML:
		encoder := yaml.NewEncoder(w)
		encoder.SetIndent(2)
		for i, doc := range docs {
			node, err := toNode(doc)
			if err != nil {
				return fmt.Errorf("converting document %d: %w", i, err)
			}
			if err := encoder.Encode(node); err != nil {
				return fmt.Errorf("encoding document %d: %w", i, err)
			}
		}
		return encoder.Close()
	default:
		return fmt.Errorf("format %s not supported for document output", format)
	}
}

// toNode converts doc to a block-style YAML node via its JSON form.
func toNode(doc any) (*yaml.Node, error) {
	data, err := json.Marshal(doc)
	if err != nil {
		return nil, err
	}
	var node yaml.Node
	if err := yaml.Unmarshal(data, &node); err != nil {
		return nil, err
	}
	clearStyle(&node)
	return &node, nil
}

func clearStyle(n *yaml.Node) {
	n.Style = 0
	for _, c := range n.Content {
		clearStyle(c)
	}
}
