package data

import (
	"errors"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"
)

// decodeYAML decodes into a node tree first; mapping nodes keep key order.
func decodeYAML(r io.Reader) (map[string]interface{}, error) {
	var doc yaml.Node
	if err := yaml.NewDecoder(r).Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return map[string]interface{}{}, nil
		}
		return nil, err
	}

	v, err := convertYAMLNode(&doc)
	if err != nil {
		return nil, err
	}
	if v == nil {
		return map[string]interface{}{}, nil
	}

	root, ok := v.(*Map)
	if !ok {
		return nil, fmt.Errorf("top level YAML value must be a mapping, got %T", v)
	}
	return root.ToMap(), nil
}

func convertYAMLNode(node *yaml.Node) (interface{}, error) {
	switch node.Kind {
	case yaml.DocumentNode:
		if len(node.Content) == 0 {
			return nil, nil
		}
		return convertYAMLNode(node.Content[0])

	case yaml.MappingNode:
		m := NewMap()
		for i := 0; i+1 < len(node.Content); i += 2 {
			keyNode, valNode := node.Content[i], node.Content[i+1]
			if keyNode.Kind != yaml.ScalarNode {
				return nil, fmt.Errorf("line %d: mapping keys must be scalars", keyNode.Line)
			}
			val, err := convertYAMLNode(valNode)
			if err != nil {
				return nil, err
			}
			m.Set(keyNode.Value, val)
		}
		return m, nil

	case yaml.SequenceNode:
		list := make([]interface{}, 0, len(node.Content))
		for _, item := range node.Content {
			val, err := convertYAMLNode(item)
			if err != nil {
				return nil, err
			}
			list = append(list, val)
		}
		return list, nil

	case yaml.AliasNode:
		return convertYAMLNode(node.Alias)

	case yaml.ScalarNode:
		var v interface{}
		if err := node.Decode(&v); err != nil {
			return nil, fmt.Errorf("line %d: %w", node.Line, err)
		}
		return v, nil

	default:
		return nil, fmt.Errorf("line %d: unsupported YAML node kind %v", node.Line, node.Kind)
	}
}

// ParseScalar types a command line value the way YAML would: numbers,
// booleans and null are converted, anything else stays a string.
func ParseScalar(text string) interface{} {
	var v interface{}
	if err := yaml.Unmarshal([]byte(text), &v); err != nil {
		return text
	}
	switch v.(type) {
	case map[string]interface{}, []interface{}:
		return text
	}
	return v
}
