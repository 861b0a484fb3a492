package naive

import "strings"

type parser struct {
	src string
	off int
}

// Parse parses CSS source into a tree and returns its root block.
//
// Parse never fails. Unterminated comments and blocks extend to the end
// of the input, an unterminated string is read as plain text, empty
// statements are skipped, and a stray } at the top level is ignored.
func Parse(src string) *Node {
	p := &parser{src: src}
	root := &Node{Kind: Block}
	p.parseBlock(root, true)
	return root
}

// parseBlock consumes the children of b up to and including the closing
// brace. The comments seen since the last node are kept in pending and
// attached to the next node, or to b.Trailing if no node follows.
func (p *parser) parseBlock(b *Node, top bool) {
	var pending []string
	for {
		p.skipWhitespace()
		if p.eof() {
			break
		}
		if c, ok := p.comment(); ok {
			pending = append(pending, c)
			continue
		}
		if p.peek() == '}' {
			p.off++
			if top {
				continue
			}
			break
		}

		head := p.head()
		switch p.peek() {
		case '{':
			p.off++
			sub := &Node{
				Kind:     Block,
				Selector: strings.TrimSpace(head),
				Comments: pending,
			}
			pending = nil
			p.parseBlock(sub, false)
			b.Children = append(b.Children, sub)
			continue
		case ';':
			p.off++
		}
		if strings.TrimSpace(head) == "" {
			continue
		}
		b.Children = append(b.Children, &Node{Kind: Leaf, Content: head, Comments: pending})
		pending = nil
	}
	b.Trailing = pending
}

// head scans a selector or a statement up to the first {, ; or }
// that is neither quoted, escaped, nor inside a comment. A quote that is
// not closed on the same line does not start a string.
func (p *parser) head() string {
	start := p.off
	for !p.eof() {
		switch c := p.src[p.off]; {
		case c == '\\':
			p.off = min(p.off+2, len(p.src))
			continue
		case c == '"', c == '\'':
			if end := p.stringEnd(); end > 0 {
				p.off = end
				continue
			}
		case c == '/' && strings.HasPrefix(p.src[p.off:], "/*"):
			p.comment()
			continue
		case c == '{', c == ';', c == '}':
			return p.src[start:p.off]
		}
		p.off++
	}
	return p.src[start:]
}

// stringEnd returns the offset just past the string that starts at the
// current offset, or -1 if an unescaped newline or the end of the input
// comes before the closing quote.
func (p *parser) stringEnd() int {
	quote := p.src[p.off]
	for i := p.off + 1; i < len(p.src); i++ {
		switch p.src[i] {
		case '\\':
			i++
		case quote:
			return i + 1
		case '\n', '\r', '\f':
			return -1
		}
	}
	return -1
}

// comment reads a /* ... */ comment if there is one at the current offset.
// Comments do not nest.
func (p *parser) comment() (string, bool) {
	if !strings.HasPrefix(p.src[p.off:], "/*") {
		return "", false
	}
	start := p.off
	if i := strings.Index(p.src[start+2:], "*/"); i >= 0 {
		p.off = start + 2 + i + 2
		return p.src[start:p.off], true
	}
	p.off = len(p.src)
	return strings.TrimRight(p.src[start:], " \t\r\n\f"), true
}

func (p *parser) skipWhitespace() {
	for !p.eof() && isSpace(p.src[p.off]) {
		p.off++
	}
}

func (p *parser) eof() bool { return p.off >= len(p.src) }

func (p *parser) peek() byte {
	if p.eof() {
		return 0
	}
	return p.src[p.off]
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r' || c == '\f'
}
