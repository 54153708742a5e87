// Package jsonpointer implements RFC 6901 JSON Pointers over yaml nodes.
package jsonpointer

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/pb33f/libopenapi/utils"
	"go.yaml.in/yaml/v4"
)

var (
	// ErrNotFound is returned when a pointer addresses a node that does not exist.
	ErrNotFound = errors.New("target not found")
	// ErrInvalid is returned for syntactically invalid pointers.
	ErrInvalid = errors.New("invalid json pointer")
)

// Escape encodes a single reference token per RFC 6901 (~ before /).
func Escape(s string) string {
	s = strings.ReplaceAll(s, "~", "~0")
	return strings.ReplaceAll(s, "/", "~1")
}

// Unescape decodes a single reference token per RFC 6901.
func Unescape(s string) string {
	s = strings.ReplaceAll(s, "~1", "/")
	return strings.ReplaceAll(s, "~0", "~")
}

// Parse splits a pointer into unescaped reference tokens.
// The empty pointer addresses the whole document and yields no tokens.
func Parse(ptr string) ([]string, error) {
	if ptr == "" {
		return nil, nil
	}
	if !strings.HasPrefix(ptr, "/") {
		return nil, fmt.Errorf("%w: %q must start with '/'", ErrInvalid, ptr)
	}
	raw := strings.Split(ptr[1:], "/")
	parts := make([]string, len(raw))
	for i, t := range raw {
		parts[i] = Unescape(t)
	}
	return parts, nil
}

// FromParts builds a pointer from unescaped reference tokens.
func FromParts(parts []string) string {
	if len(parts) == 0 {
		return ""
	}
	var sb strings.Builder
	for _, p := range parts {
		sb.WriteByte('/')
		sb.WriteString(Escape(p))
	}
	return sb.String()
}

// Get evaluates a pointer against root and returns the addressed node.
// Mappings are navigated by key, sequences by zero-based index.
func Get(root *yaml.Node, ptr string) (*yaml.Node, error) {
	parts, err := Parse(ptr)
	if err != nil {
		return nil, err
	}

	node := utils.NodeAlias(root)
	if node != nil && node.Kind == yaml.DocumentNode && len(node.Content) > 0 {
		node = node.Content[0]
	}

	for i, part := range parts {
		if node == nil {
			return nil, fmt.Errorf("%w: %q", ErrNotFound, FromParts(parts[:i]))
		}
		node = utils.NodeAlias(node)

		switch node.Kind {
		case yaml.MappingNode:
			_, value := utils.FindKeyNodeTop(part, node.Content)
			if value == nil {
				return nil, fmt.Errorf("%w: key %q at %q", ErrNotFound, part, FromParts(parts[:i]))
			}
			node = value
		case yaml.SequenceNode:
			idx, err := strconv.Atoi(part)
			if err != nil {
				return nil, fmt.Errorf("%w: %q is not a sequence index", ErrInvalid, part)
			}
			if idx < 0 || idx >= len(node.Content) {
				return nil, fmt.Errorf("%w: index %d out of range at %q", ErrNotFound, idx, FromParts(parts[:i]))
			}
			node = node.Content[idx]
		default:
			return nil, fmt.Errorf("%w: cannot descend into scalar at %q", ErrNotFound, FromParts(parts[:i]))
		}
	}

	if node == nil {
		return nil, fmt.Errorf("%w: %q", ErrNotFound, ptr)
	}
	return utils.NodeAlias(node), nil
}
