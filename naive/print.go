package naive

import (
	"bytes"
	"io"
	"regexp"
	"strings"
)

type Options uint8

const (
	// CategoryHeaders causes Fprint to precede each group of declarations
	// that belongs to a category with a /* NAME */ comment. Headers are
	// separated from the previous group by a blank line, except for the
	// first one in a block, which directly follows the opening brace.
	CategoryHeaders Options = 1 << iota

	// Standard is the default, “standard” formatting style.
	Standard Options = 0
)

// AutoGenMarker is the comment placed in files created by cssfmt sync.
// It is never printed.
const AutoGenMarker = "/* Auto-generated */"

// minSpaced is the least number of declarations a block needs
// for its groups to be separated by blank lines.
const minSpaced = 7

// Fprint formats the tree rooted at root and writes it to w.
// The declarations of every block are grouped and ordered by spec.
// An empty spec puts all declarations into one group sorted by
// property name.
//
// If root is a block without a selector, its children are printed
// at the top level.
func Fprint(w io.Writer, root *Node, spec []Category, options Options) error {
	p := newPrinter(spec, options)
	if root.Kind == Block && strings.TrimSpace(root.Selector) == "" {
		p.comments(root.Comments, 0)
		p.body(root, 0, true)
	} else {
		p.node(root, 0)
	}
	_, err := w.Write(p.buf.Bytes())
	return err
}

// Format is like Fprint, but returns the formatted text.
func Format(root *Node, spec []Category, options Options) string {
	var b strings.Builder
	Fprint(&b, root, spec, options)
	return b.String()
}

type printer struct {
	config     Options
	spec       []Category
	categories map[string]bool

	buf  bytes.Buffer
	open bool // nothing printed since the last {
	sep  bool // a blank line is due before the next line
}

func newPrinter(spec []Category, options Options) *printer {
	p := &printer{
		config:     options,
		spec:       spec,
		categories: map[string]bool{ElseCategory: true},
		open:       true,
	}
	for _, c := range spec {
		if name := strings.TrimSpace(c.Name); name != "" {
			p.categories[strings.ToUpper(name)] = true
		}
	}
	return p
}

func (p *printer) node(n *Node, depth int) {
	if n.Kind == Header {
		p.blank()
		if n.Content != "" {
			p.line(depth, "/* "+n.Content+" */")
		}
		return
	}

	p.comments(n.Comments, depth)
	switch n.Kind {
	case Leaf:
		if s := leafText(n); s != "" {
			p.line(depth, s+";")
		}
	case Block:
		p.line(depth, strings.TrimSpace(strings.TrimSpace(n.Selector)+" {"))
		p.open = true
		p.body(n, depth+1, false)
		p.line(depth, "}")
	}
}

// body prints the children of b: grouped declarations first,
// then the remaining nodes in their original order.
func (p *printer) body(b *Node, depth int, top bool) {
	var decls, others []*Node
	for _, c := range b.Children {
		switch {
		case c.Kind == Header:
			// Regenerated below.
		case c.IsDecl():
			decls = append(decls, c)
		default:
			others = append(others, c)
		}
	}

	for _, n := range p.arrange(decls) {
		p.node(n, depth)
	}
	for _, n := range others {
		p.node(n, depth)
		if top && n.Kind == Block {
			p.blank()
		}
	}
	p.comments(b.Trailing, depth)
}

// arrange groups decls and interleaves the groups with header nodes.
// A header without content stands for a blank line.
func (p *printer) arrange(decls []*Node) []*Node {
	if len(decls) == 0 {
		return nil
	}
	out := make([]*Node, 0, len(decls)+len(p.spec)+1)
	seen := 0
	for i, g := range groupDecls(decls, p.spec) {
		var name string
		if g.cat != nil {
			name = strings.TrimSpace(g.cat.Name)
		}
		switch {
		case name != "" && p.config&CategoryHeaders != 0:
			out = append(out, &Node{Kind: Header, Content: name})
		case len(decls) >= minSpaced && i > 0 && len(g.decls) >= 2 && seen >= 2:
			out = append(out, &Node{Kind: Header})
		}
		out = append(out, g.decls...)
		seen += len(g.decls)
	}
	return out
}

func (p *printer) comments(list []string, depth int) {
	for _, c := range list {
		c = strings.TrimSpace(c)
		if c == "" || c == AutoGenMarker || p.isHeader(c) {
			continue
		}
		if strings.HasPrefix(c, "/*") && (len(c) < 4 || !strings.HasSuffix(c, "*/")) {
			// Unterminated.
			c += " */"
		}
		p.line(depth, c)
	}
}

var (
	commentDelims = regexp.MustCompile(`^/\*+|\*+/$`)
	allCaps       = regexp.MustCompile(`^[A-Z_\s]+$`)
)

// isHeader reports whether the comment c looks like a category header,
// either one of the current categories or one left over from
// a previous set of categories.
func (p *printer) isHeader(c string) bool {
	text := strings.TrimSpace(commentDelims.ReplaceAllString(c, ""))
	if p.categories[strings.ToUpper(text)] {
		return true
	}
	return allCaps.MatchString(text)
}

// blank requests a blank line before the next line. Blank lines never
// directly follow an opening brace and never end the output.
func (p *printer) blank() {
	if !p.open {
		p.sep = true
	}
}

func (p *printer) line(depth int, s string) {
	if p.sep {
		p.buf.WriteByte('\n')
		p.sep = false
	}
	for range depth {
		p.buf.WriteByte('\t')
	}
	p.buf.WriteString(s)
	p.buf.WriteByte('\n')
	p.open = false
}

// leafText returns the normalized text of a leaf without
// the terminating semicolon.
func leafText(n *Node) string {
	s := strings.TrimSpace(strings.TrimRight(strings.TrimSpace(n.Content), ";"))
	if !n.IsDecl() {
		return s
	}
	prop, val, _ := strings.Cut(s, ":")
	prop, val = strings.TrimSpace(prop), strings.TrimSpace(val)
	if val == "" {
		return prop + ":"
	}
	return prop + ": " + val
}
