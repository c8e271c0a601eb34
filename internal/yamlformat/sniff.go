package yamlformat

import "gopkg.in/yaml.v3"

// ContentKind is what a parsed document appears to contain.
type ContentKind int

const (
	ContentUnknown ContentKind = iota
	ContentModel
	ContentRadioSettings
)

func (k ContentKind) String() string {
	switch k {
	case ContentModel:
		return "model"
	case ContentRadioSettings:
		return "radio settings"
	default:
		return "unknown"
	}
}

// Classify inspects the top-level keys of a mapping node.
// A "header" mapping means model data, a scalar "board" means radio settings.
func Classify(root *yaml.Node) ContentKind {
	root = resolve(root)
	if root == nil || root.Kind != yaml.MappingNode {
		return ContentUnknown
	}
	if v := lookup(root, "header"); v != nil && v.Kind == yaml.MappingNode {
		return ContentModel
	}
	if v := lookup(root, "board"); v != nil && v.Kind == yaml.ScalarNode {
		return ContentRadioSettings
	}
	return ContentUnknown
}

// lookup returns the resolved value of key in mapping m, or nil.
func lookup(m *yaml.Node, key string) *yaml.Node {
	for i := 0; i+1 < len(m.Content); i += 2 {
		if m.Content[i].Kind == yaml.ScalarNode && m.Content[i].Value == key {
			return resolve(m.Content[i+1])
		}
	}
	return nil
}

func resolve(n *yaml.Node) *yaml.Node {
	for n != nil && n.Kind == yaml.AliasNode {
		n = n.Alias
	}
	return n
}

// documentRoot returns the top node of a parsed document, or nil when empty.
func documentRoot(doc *yaml.Node) *yaml.Node {
	if doc.Kind == yaml.DocumentNode {
		if len(doc.Content) == 0 {
			return nil
		}
		return resolve(doc.Content[0])
	}
	return resolve(doc)
}
