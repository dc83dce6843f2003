package types

import (
	"encoding/json"
	"fmt"

	"gopkg.in/yaml.v3"
)

// DecodeDocument decodes a JSON or YAML document into a Value, preserving the
// key order of mappings. Valid JSON is always read with JSON rules; YAML
// parsing only applies to everything else.
func DecodeDocument(data []byte) (Value, error) {
	if json.Valid(data) {
		return decodeJSON(data)
	}
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return Undefined, fmt.Errorf("decode document: %w", err)
	}
	if doc.Kind == 0 {
		return Undefined, fmt.Errorf("decode document: empty input")
	}
	return FromYAML(&doc)
}

// FromYAML converts a yaml.v3 node tree into a Value.
func FromYAML(node *yaml.Node) (Value, error) {
	switch node.Kind {
	case yaml.DocumentNode:
		if len(node.Content) == 0 {
			return Undefined, nil
		}
		return FromYAML(node.Content[0])
	case yaml.AliasNode:
		return FromYAML(node.Alias)
	case yaml.MappingNode:
		m := NewOrderedMap()
		for i := 0; i+1 < len(node.Content); i += 2 {
			key := node.Content[i]
			if key.Kind != yaml.ScalarNode {
				return Undefined, fmt.Errorf("line %d: mapping keys must be scalars", key.Line)
			}
			val, err := FromYAML(node.Content[i+1])
			if err != nil {
				return Undefined, err
			}
			m.Set(key.Value, val)
		}
		return NewObject(m), nil
	case yaml.SequenceNode:
		items := make([]Value, len(node.Content))
		for i, item := range node.Content {
			val, err := FromYAML(item)
			if err != nil {
				return Undefined, err
			}
			items[i] = val
		}
		return NewArray(items), nil
	case yaml.ScalarNode:
		return scalarFromYAML(node)
	}
	return Undefined, fmt.Errorf("line %d: unsupported YAML node kind %d", node.Line, node.Kind)
}

func scalarFromYAML(node *yaml.Node) (Value, error) {
	switch node.ShortTag() {
	case "!!null":
		return Null, nil
	case "!!bool":
		var b bool
		if err := node.Decode(&b); err != nil {
			return Undefined, fmt.Errorf("line %d: %w", node.Line, err)
		}
		return NewBool(b), nil
	case "!!int", "!!float":
		var f float64
		if err := node.Decode(&f); err != nil {
			return Undefined, fmt.Errorf("line %d: %w", node.Line, err)
		}
		return NewNumber(f), nil
	default:
		return NewString(node.Value), nil
	}
}
