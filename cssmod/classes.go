package cssmod

import (
	"regexp"
	"strings"
)

var (
	blockComments = regexp.MustCompile(`(?s)/\*.*?\*/`)
	lineComments  = regexp.MustCompile(`(?m)//.*$`)
	indexUses     = regexp.MustCompile(`\bstyles\[(?:"([\w-]+)"|'([\w-]+)')\]`)
	uses          = regexp.MustCompile(`__SB_([\w-]+)__|\bstyles\.([A-Za-z_]\w*)\b`)
	selClasses    = regexp.MustCompile(`\.[A-Za-z_][\w-]*`)
)

// ExtractClasses returns the names of the classes that the component
// source code src uses, in the order of their first use.
func ExtractClasses(src string) []string {
	code := blockComments.ReplaceAllString(src, " ")
	code = lineComments.ReplaceAllString(code, " ")
	code = indexUses.ReplaceAllString(code, " __SB_$1${2}__ ")
	code = stripStrings(code)

	var names []string
	seen := make(map[string]bool)
	for _, m := range uses.FindAllStringSubmatch(code, -1) {
		name := m[1] + m[2]
		if !seen[name] {
			seen[name] = true
			names = append(names, name)
		}
	}
	return names
}

// stripStrings replaces single- and double-quoted string literals
// with a space.
func stripStrings(code string) string {
	var b strings.Builder
	for i := 0; i < len(code); i++ {
		q := code[i]
		if q != '"' && q != '\'' {
			b.WriteByte(q)
			continue
		}
		j := i + 1
		for j < len(code) && code[j] != q {
			if code[j] == '\\' {
				j++
			}
			j++
		}
		if j >= len(code) {
			// Unterminated.
			b.WriteByte(q)
			continue
		}
		b.WriteByte(' ')
		i = j
	}
	return b.String()
}

// SelectorClasses returns the class names that occur in a selector.
func SelectorClasses(sel string) []string {
	var names []string
	for _, m := range selClasses.FindAllString(sel, -1) {
		names = append(names, m[1:])
	}
	return names
}
