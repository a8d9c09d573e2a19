package hierarchy

import (
	"fmt"
	"io/fs"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Keys with a fixed meaning on every node. Any other key names a child tier.
const (
	keyName        = "name"
	keyAlias       = "alias"
	keyExpandNames = "expand_names"
)

// infoKeys are copied verbatim into Node.Info.
var infoKeys = map[string]bool{
	"direct":      true,
	"overlap":     true,
	"description": true,
	"orgCode":     true,
}

// IsReservedKey reports whether key can never name a child tier.
func IsReservedKey(key string) bool {
	return key == keyName || key == keyAlias || key == keyExpandNames || infoKeys[key]
}

// LoadFile reads and parses a hierarchy config file (YAML or JSON).
func LoadFile(path string, opts ...Option) (*Hierarchy, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read hierarchy %s: %w", path, err)
	}
	h, err := Parse(data, opts...)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", path, err)
	}
	return h, nil
}

// LoadFS reads and parses a hierarchy config file from fsys.
func LoadFS(fsys fs.FS, path string, opts ...Option) (*Hierarchy, error) {
	data, err := fs.ReadFile(fsys, path)
	if err != nil {
		return nil, fmt.Errorf("read hierarchy %s: %w", path, err)
	}
	h, err := Parse(data, opts...)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", path, err)
	}
	return h, nil
}

// Parse builds a Hierarchy from a YAML (or JSON) document:
//
//	name: Government of India
//	ministry:
//	  - name: Ministry of Home Affairs
//	    alias: [MHA]
//	    department:
//	      - name: Department of Official Language
//
// Each node has a name, an optional alias list, optional info keys (direct,
// overlap, description, orgCode), optional expand_names rules, and at most one
// other key holding its children; that key becomes the children's Level.
// expand_names rules apply to the subtree of the node declaring them, in
// document order, once the whole tree is built. Any violation yields a
// *ConfigError and no Hierarchy.
func Parse(data []byte, opts ...Option) (*Hierarchy, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, &ConfigError{Path: "$", Msg: err.Error()}
	}
	if doc.Kind != yaml.DocumentNode || len(doc.Content) == 0 {
		return nil, &ConfigError{Path: "$", Msg: "empty document"}
	}

	p := &parser{}
	root, err := p.node(doc.Content[0], "$", "")
	if err != nil {
		return nil, err
	}
	h, err := New(root, opts...)
	if err != nil {
		return nil, err
	}
	for _, pr := range p.rules {
		for _, r := range pr.rules {
			h.expand(pr.node, r)
		}
	}
	return h, nil
}

type pendingRules struct {
	node  *Node
	rules []ExpandRule
}

type parser struct {
	rules []pendingRules
}

func (p *parser) node(y *yaml.Node, path, level string) (*Node, error) {
	y = deref(y)
	if y.Kind != yaml.MappingNode {
		return nil, &ConfigError{Path: path, Line: y.Line, Msg: "node must be a mapping"}
	}

	n := &Node{Level: level}
	hasName := false
	var groupKey string
	var group *yaml.Node

	for i := 0; i+1 < len(y.Content); i += 2 {
		k, v := y.Content[i], deref(y.Content[i+1])
		key := k.Value
		switch {
		case key == keyName:
			if hasName {
				return nil, &ConfigError{Path: path, Line: k.Line, Msg: "duplicate name"}
			}
			if v.Kind != yaml.ScalarNode || v.ShortTag() != "!!str" || strings.TrimSpace(v.Value) == "" {
				return nil, &ConfigError{Path: path, Line: k.Line, Msg: "name must be a non-empty string"}
			}
			n.Name = v.Value
			hasName = true

		case key == keyAlias:
			alias, err := stringList(v)
			if err != nil {
				return nil, &ConfigError{Path: path, Line: k.Line, Msg: "alias: " + err.Error()}
			}
			n.Alias = append(n.Alias, alias...)

		case key == keyExpandNames:
			rules, err := expandRules(v)
			if err != nil {
				return nil, &ConfigError{Path: path, Line: k.Line, Msg: "expand_names: " + err.Error()}
			}
			p.rules = append(p.rules, pendingRules{node: n, rules: rules})

		case infoKeys[key]:
			var val any
			if err := v.Decode(&val); err != nil {
				return nil, &ConfigError{Path: path, Line: k.Line, Msg: fmt.Sprintf("%s: %v", key, err)}
			}
			if n.Info == nil {
				n.Info = make(map[string]any)
			}
			n.Info[key] = val

		default:
			if groupKey != "" {
				return nil, &ConfigError{Path: path, Line: k.Line,
					Msg: fmt.Sprintf("more than one child group: %q and %q", groupKey, key)}
			}
			groupKey, group = key, v
		}
	}

	if !hasName {
		return nil, &ConfigError{Path: path, Line: y.Line, Msg: "missing name"}
	}
	if group == nil || group.Tag == "!!null" {
		return n, nil
	}
	if group.Kind != yaml.SequenceNode {
		return nil, &ConfigError{Path: path, Line: group.Line,
			Msg: fmt.Sprintf("child group %q must be a list of nodes", groupKey)}
	}
	for i, c := range group.Content {
		child, err := p.node(c, fmt.Sprintf("%s.%s[%d]", path, groupKey, i), groupKey)
		if err != nil {
			return nil, err
		}
		n.Children = append(n.Children, child)
	}
	return n, nil
}

// stringList accepts a single string or a list of strings.
func stringList(v *yaml.Node) ([]string, error) {
	switch v.Kind {
	case yaml.ScalarNode:
		if v.Tag == "!!null" {
			return nil, nil
		}
		if v.Value == "" {
			return nil, fmt.Errorf("empty string")
		}
		return []string{v.Value}, nil
	case yaml.SequenceNode:
		out := make([]string, 0, len(v.Content))
		for _, item := range v.Content {
			item = deref(item)
			if item.Kind != yaml.ScalarNode || item.Tag == "!!null" || item.Value == "" {
				return nil, fmt.Errorf("line %d: entries must be non-empty strings", item.Line)
			}
			out = append(out, item.Value)
		}
		return out, nil
	default:
		return nil, fmt.Errorf("must be a string or a list of strings")
	}
}

// expandRules accepts a list of {old, new} mappings or [old, new] pairs.
func expandRules(v *yaml.Node) ([]ExpandRule, error) {
	if v.Kind != yaml.SequenceNode {
		return nil, fmt.Errorf("must be a list of rules")
	}
	rules := make([]ExpandRule, 0, len(v.Content))
	for _, item := range v.Content {
		item = deref(item)
		var r ExpandRule
		switch item.Kind {
		case yaml.MappingNode:
			if err := item.Decode(&r); err != nil {
				return nil, fmt.Errorf("line %d: %v", item.Line, err)
			}
		case yaml.SequenceNode:
			var pair []string
			if err := item.Decode(&pair); err != nil || len(pair) != 2 {
				return nil, fmt.Errorf("line %d: pair must be [old, new]", item.Line)
			}
			r = ExpandRule{Old: pair[0], New: pair[1]}
		default:
			return nil, fmt.Errorf("line %d: rule must be {old, new} or [old, new]", item.Line)
		}
		if r.Old == "" {
			return nil, fmt.Errorf("line %d: old must be non-empty", item.Line)
		}
		rules = append(rules, r)
	}
	return rules, nil
}

// deref follows YAML aliases (*anchor) to the anchored node.
func deref(y *yaml.Node) *yaml.Node {
	for y.Kind == yaml.AliasNode && y.Alias != nil {
		y = y.Alias
	}
	return y
}
