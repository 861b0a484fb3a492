package naive

import (
	"cmp"
	"slices"
	"strings"
)

// ElseCategory is the name of the implicit group of declarations
// that match no category. It is reserved.
const ElseCategory = "ELSE"

const wildcard = "..."

// A Category names a group of declarations. A declaration belongs to the
// first category that lists its property among Keywords. A keyword ending
// in "..." matches a whole family of properties: "margin..." matches
// margin as well as margin-top.
type Category struct {
	Name     string   `json:"category"`
	Keywords []string `json:"keywords"`
}

// Match reports whether prop matches one of the keywords of c.
func (c *Category) Match(prop string) bool { return c.rank(prop) >= 0 }

// rank returns the index of the first keyword that matches prop, or -1.
func (c *Category) rank(prop string) int {
	return slices.IndexFunc(c.Keywords, func(kw string) bool {
		return matchKeyword(kw, prop)
	})
}

func matchKeyword(kw, prop string) bool {
	if base, ok := strings.CutSuffix(kw, wildcard); ok {
		return prop == base || strings.HasPrefix(prop, base+"-")
	}
	return prop == kw
}

type group struct {
	cat   *Category // nil for ELSE
	decls []*Node
}

// groupDecls distributes decls into one group per category of spec,
// followed by the group of unmatched declarations. Empty groups are
// omitted; the rest keep the order of spec.
func groupDecls(decls []*Node, spec []Category) []group {
	slots := make([][]*Node, len(spec)+1)
	for _, d := range decls {
		prop := d.Property()
		i := slices.IndexFunc(spec, func(c Category) bool { return c.Match(prop) })
		if i < 0 {
			i = len(spec)
		}
		slots[i] = append(slots[i], d)
	}

	var groups []group
	for i, decls := range slots {
		if len(decls) == 0 {
			continue
		}
		g := group{decls: decls}
		if i < len(spec) {
			g.cat = &spec[i]
		}
		g.sort()
		groups = append(groups, g)
	}
	return groups
}

// sort orders the declarations by the position of the first matching
// keyword, then by property name. Declarations of the same property
// keep their relative order.
func (g *group) sort() {
	rank := func(n *Node) int {
		if g.cat == nil {
			return 0
		}
		if r := g.cat.rank(n.Property()); r >= 0 {
			return r
		}
		return len(g.cat.Keywords)
	}
	slices.SortStableFunc(g.decls, func(a, b *Node) int {
		return cmp.Or(
			cmp.Compare(rank(a), rank(b)),
			strings.Compare(a.Property(), b.Property()),
		)
	})
}
