package schema

import (
	"bytes"
	"errors"
	"fmt"

	"gopkg.in/yaml.v3"
)

// Parse decodes a YAML block schema. The document must be a mapping of group
// names to sequences of entry mappings; group and field order is preserved.
// YAML syntax errors are returned wrapped, empty documents as ErrNoData and
// layout violations as *ShapeError. Field vocabulary is not checked here.
func Parse(src Source, data []byte) (*Document, error) {
	if src == nil {
		return nil, errors.New("schema: source is required")
	}
	loc := src.Location()
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, fmt.Errorf("%w in %s", ErrNoData, loc)
	}

	var root yaml.Node
	if err := yaml.Unmarshal(data, &root); err != nil {
		return nil, fmt.Errorf("schema: parse %s: %w", loc, err)
	}

	top := resolve(&root)
	if top == nil || isNull(top) {
		return nil, fmt.Errorf("%w in %s", ErrNoData, loc)
	}
	if top.Kind != yaml.MappingNode {
		return nil, shapeError(loc, top, "top level must be a mapping of groups, got %s", kindName(top))
	}

	doc := &Document{source: src}
	seen := make(map[string]struct{}, len(top.Content)/2)
	for i := 0; i+1 < len(top.Content); i += 2 {
		keyNode, valueNode := resolve(top.Content[i]), resolve(top.Content[i+1])
		if keyNode.Kind != yaml.ScalarNode {
			return nil, shapeError(loc, keyNode, "group name must be a scalar, got %s", kindName(keyNode))
		}
		name := keyNode.Value
		if _, dup := seen[name]; dup {
			return nil, shapeError(loc, keyNode, "duplicate group %q", name)
		}
		seen[name] = struct{}{}

		group, err := parseGroup(loc, name, keyNode.Line, valueNode)
		if err != nil {
			return nil, err
		}
		doc.groups = append(doc.groups, group)
	}

	if doc.Len() == 0 {
		return nil, fmt.Errorf("%w in %s", ErrNoData, loc)
	}
	return doc, nil
}

func parseGroup(loc, name string, line int, node *yaml.Node) (Group, error) {
	group := Group{Name: name, Line: line}
	if isNull(node) {
		return group, nil
	}
	if node.Kind != yaml.SequenceNode {
		return Group{}, shapeError(loc, node, "group %q must be a sequence of entries, got %s", name, kindName(node))
	}

	group.Entries = make([]Entry, 0, len(node.Content))
	for idx, item := range node.Content {
		entry, err := parseEntry(loc, name, idx, resolve(item))
		if err != nil {
			return Group{}, err
		}
		group.Entries = append(group.Entries, entry)
	}
	return group, nil
}

func parseEntry(loc, group string, index int, node *yaml.Node) (Entry, error) {
	if node.Kind != yaml.MappingNode {
		return Entry{}, shapeError(loc, node, "group %q entry %d must be a mapping, got %s", group, index, kindName(node))
	}

	fields, err := mappingFields(loc, group, index, node, map[*yaml.Node]bool{})
	if err != nil {
		return Entry{}, err
	}
	entry := Entry{
		group:  group,
		index:  index,
		line:   node.Line,
		fields: fields,
		byName: make(map[string]int, len(fields)),
	}
	for i, field := range fields {
		entry.byName[field.Name] = i
	}
	return entry, nil
}

// mappingFields lists the fields of a mapping in document order. Fields pulled
// in through merge keys come first and explicit keys override them in place.
// Within a merge sequence the earlier mapping wins.
func mappingFields(loc, group string, index int, node *yaml.Node, active map[*yaml.Node]bool) ([]Field, error) {
	if active[node] {
		return nil, shapeError(loc, node, "group %q entry %d merges itself", group, index)
	}
	active[node] = true
	defer delete(active, node)

	var sources []*yaml.Node
	explicit := make([]Field, 0, len(node.Content)/2)
	seen := make(map[string]struct{}, len(node.Content)/2)
	for i := 0; i+1 < len(node.Content); i += 2 {
		keyNode, valueNode := resolve(node.Content[i]), resolve(node.Content[i+1])
		if keyNode.Kind != yaml.ScalarNode {
			return nil, shapeError(loc, keyNode, "group %q entry %d has a non-scalar field name", group, index)
		}
		if keyNode.ShortTag() == "!!merge" {
			switch {
			case valueNode != nil && valueNode.Kind == yaml.MappingNode:
				sources = append(sources, valueNode)
			case valueNode != nil && valueNode.Kind == yaml.SequenceNode:
				for _, item := range valueNode.Content {
					item = resolve(item)
					if item == nil || item.Kind != yaml.MappingNode {
						return nil, shapeError(loc, keyNode, "group %q entry %d merges a %s, want a mapping", group, index, kindName(item))
					}
					sources = append(sources, item)
				}
			default:
				return nil, shapeError(loc, keyNode, "group %q entry %d merge value must be a mapping or a sequence of mappings", group, index)
			}
			continue
		}
		if _, dup := seen[keyNode.Value]; dup {
			return nil, shapeError(loc, keyNode, "group %q entry %d declares field %q twice", group, index, keyNode.Value)
		}
		seen[keyNode.Value] = struct{}{}

		field, err := decodeField(loc, group, index, keyNode, valueNode)
		if err != nil {
			return nil, err
		}
		explicit = append(explicit, field)
	}

	var merged []Field
	for i := len(sources) - 1; i >= 0; i-- {
		fields, err := mappingFields(loc, group, index, sources[i], active)
		if err != nil {
			return nil, err
		}
		merged = overlay(merged, fields)
	}
	return overlay(merged, explicit), nil
}

// overlay returns base with every field of top applied: a field whose name is
// already present replaces it in place, the others are appended.
func overlay(base, top []Field) []Field {
	out := append([]Field(nil), base...)
	for _, field := range top {
		replaced := false
		for i := range out {
			if out[i].Name == field.Name {
				out[i] = field
				replaced = true
				break
			}
		}
		if !replaced {
			out = append(out, field)
		}
	}
	return out
}

func decodeField(loc, group string, index int, keyNode, valueNode *yaml.Node) (Field, error) {
	var value any
	if valueNode != nil {
		if err := valueNode.Decode(&value); err != nil {
			return Field{}, fmt.Errorf("schema: parse %s: group %q entry %d field %q: %w", loc, group, index, keyNode.Value, err)
		}
	}
	field := Field{Name: keyNode.Value, Value: value, Line: keyNode.Line}
	if valueNode != nil && valueNode.Kind == yaml.ScalarNode {
		field.scalar = true
		if !isNull(valueNode) {
			field.raw = valueNode.Value
		}
	}
	return field, nil
}

// resolve unwraps document and alias nodes.
func resolve(node *yaml.Node) *yaml.Node {
	for node != nil {
		switch node.Kind {
		case yaml.DocumentNode:
			if len(node.Content) == 0 {
				return nil
			}
			node = node.Content[0]
		case yaml.AliasNode:
			node = node.Alias
		case 0:
			return nil
		default:
			return node
		}
	}
	return nil
}

func isNull(node *yaml.Node) bool {
	return node == nil || (node.Kind == yaml.ScalarNode && node.ShortTag() == "!!null")
}

func kindName(node *yaml.Node) string {
	if node == nil {
		return "null"
	}
	switch node.Kind {
	case yaml.MappingNode:
		return "mapping"
	case yaml.SequenceNode:
		return "sequence"
	case yaml.ScalarNode:
		return "scalar"
	default:
		return "unknown node"
	}
}

func shapeError(loc string, node *yaml.Node, format string, args ...any) *ShapeError {
	line := 0
	if node != nil {
		line = node.Line
	}
	return &ShapeError{Location: loc, Line: line, Message: fmt.Sprintf(format, args...)}
}
