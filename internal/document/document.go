// Package document holds the ordered in-memory representation of a parsed
// API document and the node utilities the resolver works with.
package document

import (
	"fmt"

	"github.com/pb33f/libopenapi/datamodel"
	"go.yaml.in/yaml/v4"

	"github.com/kolah/deref/internal/refs"
)

// Document is a parsed YAML or JSON document identified by its location.
// Root is the top-level mapping node; key order is preserved.
type Document struct {
	Location refs.Location
	Root     *yaml.Node
	SpecType string
	Version  string
}

// Parse decodes YAML or JSON bytes into a Document. The libopenapi document
// check is bypassed so plain schema fragments without an openapi/swagger
// version key load as well.
func Parse(data []byte, loc refs.Location) (*Document, error) {
	info, err := datamodel.ExtractSpecInfoWithDocumentCheck(data, true)
	if err != nil {
		return nil, fmt.Errorf("parsing document at %s: %w", loc, err)
	}

	root := info.RootNode
	if root == nil {
		return nil, fmt.Errorf("parsing document at %s: empty document", loc)
	}
	if root.Kind == yaml.DocumentNode {
		if len(root.Content) == 0 {
			return nil, fmt.Errorf("parsing document at %s: empty document", loc)
		}
		root = root.Content[0]
	}
	if root.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("parsing document at %s: top-level content is not a mapping", loc)
	}

	return &Document{
		Location: loc,
		Root:     root,
		SpecType: info.SpecType,
		Version:  info.Version,
	}, nil
}
