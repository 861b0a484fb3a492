package cssmod

import (
	"slices"
	"strings"

	"mibk.dev/cssfmt/naive"
)

// UnusedMarker is the comment attached to rules of classes
// that are no longer used.
const UnusedMarker = "/* unused class */"

// Reconcile reorders the top-level nodes of root to follow used,
// the ordered names of the classes a component uses.
//
// Rules that mention a used class come first, in the order of used;
// a rule is moved only once. Used classes without a rule get an empty
// one. Nodes without classes that come before the first rule stay at
// the top. The remaining nodes keep their relative order after the used
// rules; rules of unused classes are marked with UnusedMarker, or dropped
// if they have no declarations.
func Reconcile(root *naive.Node, used []string) {
	index := make(map[string][]int)
	for i, n := range root.Children {
		for _, c := range nodeClasses(n) {
			index[c] = append(index[c], i)
		}
	}

	// Nodes without classes that precede all rules, such as @import,
	// stay in front.
	lead := 0
	for lead < len(root.Children) && len(nodeClasses(root.Children[lead])) == 0 {
		lead++
	}
	children := make([]*naive.Node, 0, len(root.Children)+len(used))
	children = append(children, root.Children[:lead]...)
	moved := make(map[int]bool)
	for _, name := range used {
		idxs, ok := index[name]
		if !ok {
			children = append(children, &naive.Node{Kind: naive.Block, Selector: "." + name})
			continue
		}
		for _, i := range idxs {
			if moved[i] {
				continue
			}
			n := root.Children[i]
			mark(n, false)
			children = append(children, n)
			moved[i] = true
		}
	}

	for i, n := range root.Children[lead:] {
		switch {
		case moved[lead+i]:
		case len(nodeClasses(n)) == 0:
			children = append(children, n)
		case n.HasContent():
			mark(n, true)
			children = append(children, n)
		}
	}
	root.Children = children
}

func nodeClasses(n *naive.Node) []string {
	if n.Kind != naive.Block || n.Selector == "" {
		return nil
	}
	return SelectorClasses(n.Selector)
}

func mark(n *naive.Node, unused bool) {
	n.Comments = slices.DeleteFunc(n.Comments, func(c string) bool {
		return c == UnusedMarker || strings.Contains(c, "UNUSED")
	})
	if unused {
		n.Comments = slices.Insert(n.Comments, 0, UnusedMarker)
	}
}
