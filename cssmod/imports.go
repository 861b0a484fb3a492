package cssmod

import "regexp"

var (
	stylesImport = regexp.MustCompile(`(?m)^import\s+styles\s+from\s+["'][^"']+["'];?\s*`)
	prologue     = regexp.MustCompile(`^(\s*(?:/\*(?s:.*?)\*/\s*|//[^\n]*\s*)*)(["']use client["'];?[ \t]*\n)?`)
)

// InjectImport makes the component source code src import its CSS module
// named moduleBase. Other imports of a styles object are removed.
// The import is placed after leading comments and a "use client" directive.
func InjectImport(src, moduleBase string) string {
	stmt := `import styles from "./` + moduleBase + `";`
	next := stylesImport.ReplaceAllString(src, "")
	i := 0
	if m := prologue.FindStringIndex(next); m != nil {
		i = m[1]
	}
	return next[:i] + stmt + "\n" + next[i:]
}
