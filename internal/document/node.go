package document

import (
	"github.com/pb33f/libopenapi/utils"
	"go.yaml.in/yaml/v4"
)

// CloneNode returns a structural deep copy of n. Aliases are flattened so
// the copy shares no state with the original tree.
func CloneNode(n *yaml.Node) *yaml.Node {
	if n == nil {
		return nil
	}
	n = utils.NodeAlias(n)
	out := &yaml.Node{
		Kind:        n.Kind,
		Style:       n.Style,
		Tag:         n.Tag,
		Value:       n.Value,
		HeadComment: n.HeadComment,
		LineComment: n.LineComment,
		FootComment: n.FootComment,
	}
	if len(n.Content) > 0 {
		out.Content = make([]*yaml.Node, len(n.Content))
		for i, c := range n.Content {
			out.Content[i] = CloneNode(c)
		}
	}
	return out
}

// MapGet returns the value node for key in an ordered mapping, or nil.
func MapGet(m *yaml.Node, key string) *yaml.Node {
	if m == nil || m.Kind != yaml.MappingNode {
		return nil
	}
	_, value := utils.FindKeyNodeTop(key, m.Content)
	return value
}

// MapSet sets key to value in an ordered mapping. An existing key keeps its
// position; a new key is appended.
func MapSet(m *yaml.Node, key string, value *yaml.Node) {
	if m == nil || m.Kind != yaml.MappingNode {
		return
	}
	for i := 0; i+1 < len(m.Content); i += 2 {
		if m.Content[i].Value == key {
			m.Content[i+1] = value
			return
		}
	}
	m.Content = append(m.Content, NewScalar(key), value)
}

// MapDelete removes key from an ordered mapping if present.
func MapDelete(m *yaml.Node, key string) {
	if m == nil || m.Kind != yaml.MappingNode {
		return
	}
	for i := 0; i+1 < len(m.Content); i += 2 {
		if m.Content[i].Value == key {
			m.Content = append(m.Content[:i], m.Content[i+2:]...)
			return
		}
	}
}

// MapEnsure returns the mapping node stored at key, creating and appending
// an empty one if the key is missing.
func MapEnsure(m *yaml.Node, key string) *yaml.Node {
	if v := MapGet(m, key); v != nil {
		return utils.NodeAlias(v)
	}
	child := NewMapping()
	m.Content = append(m.Content, NewScalar(key), child)
	return child
}

// NewScalar returns a string scalar node.
func NewScalar(value string) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: value}
}

// NewBool returns a boolean scalar node.
func NewBool(value bool) *yaml.Node {
	v := "false"
	if value {
		v = "true"
	}
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!bool", Value: v}
}

// NewMapping returns an empty mapping node.
func NewMapping() *yaml.Node {
	return &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
}
