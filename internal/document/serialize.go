package document

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"

	"github.com/pb33f/libopenapi/utils"
	"go.yaml.in/yaml/v4"
)

// EncodeYAML writes the document as YAML with 2-space indentation.
func (d *Document) EncodeYAML(w io.Writer) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(d.Root); err != nil {
		return fmt.Errorf("encoding YAML: %w", err)
	}
	return enc.Close()
}

// EncodeJSON writes the document as indented JSON without reordering keys.
func (d *Document) EncodeJSON(w io.Writer) error {
	var buf bytes.Buffer
	if err := writeJSONNode(&buf, d.Root, 0); err != nil {
		return fmt.Errorf("encoding JSON: %w", err)
	}
	buf.WriteByte('\n')
	_, err := w.Write(buf.Bytes())
	return err
}

const jsonIndent = "  "

func writeIndent(buf *bytes.Buffer, depth int) {
	for range depth {
		buf.WriteString(jsonIndent)
	}
}

func writeJSONNode(buf *bytes.Buffer, n *yaml.Node, depth int) error {
	n = utils.NodeAlias(n)
	if n == nil {
		buf.WriteString("null")
		return nil
	}

	switch n.Kind {
	case yaml.DocumentNode:
		if len(n.Content) == 0 {
			buf.WriteString("null")
			return nil
		}
		return writeJSONNode(buf, n.Content[0], depth)
	case yaml.MappingNode:
		if len(n.Content) == 0 {
			buf.WriteString("{}")
			return nil
		}
		buf.WriteString("{\n")
		for i := 0; i+1 < len(n.Content); i += 2 {
			writeIndent(buf, depth+1)
			key, err := json.Marshal(n.Content[i].Value)
			if err != nil {
				return err
			}
			buf.Write(key)
			buf.WriteString(": ")
			if err := writeJSONNode(buf, n.Content[i+1], depth+1); err != nil {
				return err
			}
			if i+2 < len(n.Content) {
				buf.WriteByte(',')
			}
			buf.WriteByte('\n')
		}
		writeIndent(buf, depth)
		buf.WriteByte('}')
		return nil
	case yaml.SequenceNode:
		if len(n.Content) == 0 {
			buf.WriteString("[]")
			return nil
		}
		buf.WriteString("[\n")
		for i, c := range n.Content {
			writeIndent(buf, depth+1)
			if err := writeJSONNode(buf, c, depth+1); err != nil {
				return err
			}
			if i+1 < len(n.Content) {
				buf.WriteByte(',')
			}
			buf.WriteByte('\n')
		}
		writeIndent(buf, depth)
		buf.WriteByte(']')
		return nil
	case yaml.ScalarNode:
		var v any
		if err := n.Decode(&v); err != nil {
			return fmt.Errorf("decoding scalar %q: %w", n.Value, err)
		}
		data, err := json.Marshal(v)
		if err != nil {
			return err
		}
		buf.Write(data)
		return nil
	default:
		return fmt.Errorf("unsupported node kind %d", n.Kind)
	}
}
