package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/ZaguanLabs/lingo"
	"gopkg.in/yaml.v3"
)

const (
	formatJSON = "json"
	formatYAML = "yaml"
)

// messageFile is a message file flattened to dotted keys.
type messageFile struct {
	Messages *lingo.MessageMap
	Format   string // json or yaml
	Nested   bool   // Source used nested objects
}

func (f messageFile) withMessages(m *lingo.MessageMap) messageFile {
	f.Messages = m
	return f
}

// formatFromPath picks the format from the file extension.
func formatFromPath(path, fallback string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return formatYAML
	case ".json":
		return formatJSON
	default:
		return fallback
	}
}

// readMessageFile reads a JSON or YAML message file.
func readMessageFile(path string) (messageFile, error) {
	data, err := os.ReadFile(path) // #nosec G304 - CLI tool reads user-specified files
	if err != nil {
		return messageFile{}, fmt.Errorf("reading file: %w", err)
	}

	f, err := parseMessages(data)
	if err != nil {
		return messageFile{}, fmt.Errorf("parsing %s: %w", filepath.Base(path), err)
	}
	f.Format = formatFromPath(path, formatJSON)
	return f, nil
}

// parseMessages decodes JSON or YAML (JSON is parsed as YAML) keeping key
// order. Nested objects are flattened to dotted keys; scalars keep their
// literal text.
func parseMessages(data []byte) (messageFile, error) {
	f := messageFile{Messages: lingo.NewMessageMap(), Format: formatJSON}

	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return f, err
	}
	if len(doc.Content) == 0 {
		return f, nil
	}

	root := resolve(doc.Content[0])
	if root.Kind != yaml.MappingNode {
		return f, fmt.Errorf("top level must be an object")
	}
	err := flatten(root, "", f.Messages, &f.Nested)
	return f, err
}

func flatten(node *yaml.Node, prefix string, out *lingo.MessageMap, nested *bool) error {
	for i := 0; i+1 < len(node.Content); i += 2 {
		key := prefix + node.Content[i].Value
		value := resolve(node.Content[i+1])

		switch value.Kind {
		case yaml.ScalarNode:
			if value.Tag == "!!null" {
				out.Set(key, "")
				continue
			}
			out.Set(key, value.Value)
		case yaml.MappingNode:
			*nested = true
			if err := flatten(value, key+".", out, nested); err != nil {
				return err
			}
		default:
			return fmt.Errorf("unsupported value at %q (line %d)", key, value.Line)
		}
	}
	return nil
}

func resolve(n *yaml.Node) *yaml.Node {
	for n.Kind == yaml.AliasNode && n.Alias != nil {
		n = n.Alias
	}
	return n
}

// write encodes the file in its format, re-nesting dotted keys when the
// source was nested.
func (f messageFile) write(w io.Writer) error {
	root := flatNode(f.Messages)
	if f.Nested {
		if n, ok := nestNode(f.Messages); ok {
			root = n
		}
	}

	if f.Format == formatYAML {
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(root); err != nil {
			return err
		}
		return enc.Close()
	}

	var buf bytes.Buffer
	if err := writeJSONNode(&buf, root); err != nil {
		return err
	}
	var out bytes.Buffer
	if err := json.Indent(&out, buf.Bytes(), "", "  "); err != nil {
		return err
	}
	out.WriteByte('\n')
	_, err := w.Write(out.Bytes())
	return err
}

func flatNode(m *lingo.MessageMap) *yaml.Node {
	root := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
	for _, e := range m.Entries() {
		root.Content = append(root.Content, strNode(e.Key), strNode(e.Value))
	}
	return root
}

// nestNode splits keys on dots. It reports false when a key is both a
// message and a prefix of another key.
func nestNode(m *lingo.MessageMap) (*yaml.Node, bool) {
	root := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}

	for _, e := range m.Entries() {
		parts := strings.Split(e.Key, ".")
		node := root
		for _, part := range parts[:len(parts)-1] {
			child := lookup(node, part)
			if child == nil {
				child = &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
				node.Content = append(node.Content, strNode(part), child)
			} else if child.Kind != yaml.MappingNode {
				return nil, false
			}
			node = child
		}

		last := parts[len(parts)-1]
		if lookup(node, last) != nil {
			return nil, false
		}
		node.Content = append(node.Content, strNode(last), strNode(e.Value))
	}
	return root, true
}

func lookup(mapping *yaml.Node, key string) *yaml.Node {
	for i := 0; i+1 < len(mapping.Content); i += 2 {
		if mapping.Content[i].Value == key {
			return mapping.Content[i+1]
		}
	}
	return nil
}

func strNode(s string) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: s}
}

// writeJSONNode writes a mapping tree as compact JSON in node order,
// without HTML escaping.
func writeJSONNode(buf *bytes.Buffer, n *yaml.Node) error {
	if n.Kind == yaml.ScalarNode {
		return writeJSONString(buf, n.Value)
	}

	buf.WriteByte('{')
	for i := 0; i+1 < len(n.Content); i += 2 {
		if i > 0 {
			buf.WriteByte(',')
		}
		if err := writeJSONString(buf, n.Content[i].Value); err != nil {
			return err
		}
		buf.WriteByte(':')
		if err := writeJSONNode(buf, n.Content[i+1]); err != nil {
			return err
		}
	}
	buf.WriteByte('}')
	return nil
}

func writeJSONString(buf *bytes.Buffer, s string) error {
	enc := json.NewEncoder(buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(s); err != nil {
		return err
	}
	// Encode appends a newline
	buf.Truncate(buf.Len() - 1)
	return nil
}
