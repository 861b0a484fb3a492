package naive

import "strings"

//go:generate go tool stringer -type Kind -linecomment

type Kind uint8

const (
	Block  Kind = iota // block
	Leaf               // leaf
	Header             // header
)

// A Node is a unit of the parsed tree.
//
// A Block has a Selector and Children. The root of a parsed file is
// a Block with an empty Selector. A Leaf holds the raw Content of
// a single statement, without the terminating semicolon.
// Header nodes are only synthesized by the formatter.
type Node struct {
	Kind     Kind
	Selector string
	Content  string
	Children []*Node

	// Comments precede the node.
	Comments []string

	// Trailing holds the comments that follow the last child
	// of a block.
	Trailing []string
}

// IsDecl reports whether n is a declaration, i.e., a leaf in the form
// property: value that is not an at-rule.
func (n *Node) IsDecl() bool {
	if n.Kind != Leaf {
		return false
	}
	c := strings.TrimSpace(n.Content)
	return c != "" && strings.Contains(c, ":") && !strings.HasPrefix(c, "@")
}

// Property returns the property name of a declaration.
func (n *Node) Property() string {
	prop, _, _ := strings.Cut(n.Content, ":")
	return strings.TrimSpace(prop)
}

// HasContent reports whether n or any of its descendants
// is a non-empty leaf.
func (n *Node) HasContent() bool {
	if n.Kind == Leaf {
		return strings.TrimSpace(n.Content) != ""
	}
	for _, c := range n.Children {
		if c.HasContent() {
			return true
		}
	}
	return false
}
