package repair

import (
	"bytes"
	"errors"
	"io"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// FixStructure parses content, applies Rules to the document tree and
// re-serializes it. Key order, quoting and comments are preserved. The output
// always parses as YAML.
func FixStructure(content string) (*Result, error) {
	dec := yaml.NewDecoder(strings.NewReader(content))

	var doc yaml.Node
	if err := dec.Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return &Result{Content: content, Mode: ModeStructural}, nil
		}
		return nil, &ParseError{Message: "content is not valid YAML", Cause: err}
	}

	var next yaml.Node
	if err := dec.Decode(&next); !errors.Is(err, io.EOF) {
		if err != nil {
			return nil, &ParseError{Message: "content is not valid YAML", Cause: err}
		}
		return nil, &ParseError{Message: "content holds more than one YAML document"}
	}

	res := &Result{Mode: ModeStructural}
	for _, root := range doc.Content {
		res.Changes = append(res.Changes, walk(root, nil)...)
	}

	out, err := Encode(&doc)
	if err != nil {
		return nil, &ParseError{Message: "failed to re-serialize repaired document", Cause: err}
	}
	res.Content = out
	return res, nil
}

// Encode serializes a node tree with two-space indentation.
func Encode(node *yaml.Node) (string, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(node); err != nil {
		return "", err
	}
	if err := enc.Close(); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// walk applies the rules relative to every mapping in the tree, so a design
// block repeated inside user-authored sections is repaired as well.
func walk(node *yaml.Node, path []string) []Change {
	var changes []Change
	switch node.Kind {
	case yaml.MappingNode:
		changes = append(changes, applyRules(node, path)...)
		for i := 0; i+1 < len(node.Content); i += 2 {
			changes = append(changes, walk(node.Content[i+1], childPath(path, node.Content[i].Value))...)
		}
	case yaml.SequenceNode:
		for i, item := range node.Content {
			changes = append(changes, walk(item, childPath(path, strconv.Itoa(i)))...)
		}
	}
	return changes
}

func applyRules(mapping *yaml.Node, base []string) []Change {
	var changes []Change
	for _, rule := range Rules {
		target := Lookup(mapping, rule.Location...)
		if target == nil || target.Kind != yaml.MappingNode {
			continue
		}
		if lookupKey(target, rule.Field) == nil {
			continue
		}
		if merged(target, rule.Field) {
			inlineMerges(target)
		}

		path := strings.Join(append(append(append([]string{}, base...), rule.Location...), rule.Field), ".")

		switch rule.Kind {
		case KindRemove:
			for idx := keyIndex(target, rule.Field); idx >= 0; idx = keyIndex(target, rule.Field) {
				value := target.Content[idx+1]
				target.Content = append(target.Content[:idx], target.Content[idx+2:]...)
				changes = append(changes, Change{Path: path, Action: KindRemove, From: describe(value)})
			}
		case KindCoerce:
			// A duplicated key resolves to its last occurrence.
			idx := keyIndex(target, rule.Field)
			for next := nextKeyIndex(target, rule.Field, idx); next >= 0; next = nextKeyIndex(target, rule.Field, idx) {
				value := target.Content[idx+1]
				target.Content = append(target.Content[:idx], target.Content[idx+2:]...)
				changes = append(changes, Change{Path: path, Action: KindRemove, From: describe(value)})
				idx = next - 2
			}

			value := target.Content[idx+1]
			if value.Kind == yaml.ScalarNode && value.ShortTag() == "!!str" && rule.allows(value.Value) {
				continue
			}
			target.Content[idx+1] = &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: rule.Replacement}
			changes = append(changes, Change{Path: path, Action: KindCoerce, From: describe(value), To: rule.Replacement})
		}
	}
	return changes
}

// Lookup follows keys through nested mappings, including entries merged in
// with "<<", and returns the value node, or nil when any step is missing or
// not a mapping.
func Lookup(node *yaml.Node, keys ...string) *yaml.Node {
	cur := resolve(node)
	for _, key := range keys {
		if cur == nil || cur.Kind != yaml.MappingNode {
			return nil
		}
		cur = resolve(lookupKey(cur, key))
	}
	return cur
}

// lookupKey returns the value of key in mapping. Explicit keys win over
// merged ones; earlier merge sources win over later ones.
func lookupKey(mapping *yaml.Node, key string) *yaml.Node {
	if idx := lastKeyIndex(mapping, key); idx >= 0 {
		return mapping.Content[idx+1]
	}
	for _, src := range mergeSources(mapping) {
		if value := lookupKey(src, key); value != nil {
			return value
		}
	}
	return nil
}

// merged reports whether any "<<" source of mapping supplies key.
func merged(mapping *yaml.Node, key string) bool {
	for _, src := range mergeSources(mapping) {
		if lookupKey(src, key) != nil {
			return true
		}
	}
	return false
}

func keyIndex(mapping *yaml.Node, key string) int {
	return nextKeyIndex(mapping, key, -2)
}

// nextKeyIndex returns the index of the first key entry after after.
func nextKeyIndex(mapping *yaml.Node, key string, after int) int {
	for i := after + 2; i+1 < len(mapping.Content); i += 2 {
		if mapping.Content[i].Value == key && !isMergeKey(mapping.Content[i]) {
			return i
		}
	}
	return -1
}

func lastKeyIndex(mapping *yaml.Node, key string) int {
	last := -1
	for idx := keyIndex(mapping, key); idx >= 0; idx = nextKeyIndex(mapping, key, idx) {
		last = idx
	}
	return last
}

func isMergeKey(node *yaml.Node) bool {
	return node.Kind == yaml.ScalarNode && node.ShortTag() == "!!merge"
}

// mergeSources returns the mappings named by the "<<" entries of mapping.
func mergeSources(mapping *yaml.Node) []*yaml.Node {
	var sources []*yaml.Node
	for i := 0; i+1 < len(mapping.Content); i += 2 {
		if !isMergeKey(mapping.Content[i]) {
			continue
		}
		value := resolve(mapping.Content[i+1])
		switch value.Kind {
		case yaml.MappingNode:
			sources = append(sources, value)
		case yaml.SequenceNode:
			for _, item := range value.Content {
				if item = resolve(item); item.Kind == yaml.MappingNode {
					sources = append(sources, item)
				}
			}
		}
	}
	return sources
}

// inlineMerges replaces the "<<" entries of mapping with the entries they
// contribute, so rules can edit them without touching the anchored source.
func inlineMerges(mapping *yaml.Node) {
	sources := mergeSources(mapping)
	if len(sources) == 0 {
		return
	}

	content := make([]*yaml.Node, 0, len(mapping.Content))
	seen := make(map[string]bool)
	for i := 0; i+1 < len(mapping.Content); i += 2 {
		if isMergeKey(mapping.Content[i]) {
			continue
		}
		content = append(content, mapping.Content[i], mapping.Content[i+1])
		seen[mapping.Content[i].Value] = true
	}

	for _, src := range sources {
		flat := &yaml.Node{Kind: yaml.MappingNode, Content: append([]*yaml.Node(nil), src.Content...)}
		inlineMerges(flat)
		for i := 0; i+1 < len(flat.Content); i += 2 {
			key := flat.Content[i].Value
			if seen[key] {
				continue
			}
			seen[key] = true
			content = append(content, unanchored(flat.Content[i]), unanchored(flat.Content[i+1]))
		}
	}
	mapping.Content = content
}

func unanchored(node *yaml.Node) *yaml.Node {
	if node.Anchor == "" {
		return node
	}
	cp := *node
	cp.Anchor = ""
	return &cp
}

func resolve(node *yaml.Node) *yaml.Node {
	if node != nil && node.Kind == yaml.AliasNode {
		return node.Alias
	}
	return node
}

func childPath(path []string, key string) []string {
	out := make([]string, len(path), len(path)+1)
	copy(out, path)
	return append(out, key)
}

func describe(node *yaml.Node) string {
	switch node.Kind {
	case yaml.ScalarNode:
		return node.Value
	case yaml.MappingNode:
		return "{...}"
	case yaml.SequenceNode:
		return "[...]"
	default:
		return ""
	}
}
