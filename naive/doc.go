// Package naive provides a deliberately minimal CSS parser and formatter.
//
// The parser recognises only two node types---blocks (a selector or an
// at-rule prelude followed by braces) and leaves (anything terminated by
// a semicolon)---so it does not model CSS’s full grammar. Selectors,
// at-rule preludes and declaration values are kept as opaque text.
// Comments are attached to the node they precede.
//
// The formatter re-emits the tree with tab indentation and groups the
// declarations of every block by an ordered list of categories.
// Comments that look like category headers are dropped and regenerated.
// A comment is treated as a header if it names a known category or if its
// text consists only of upper-case letters, underscores and spaces.
// The latter heuristic is lossy: a genuine all-caps comment such as
// /* IMPORTANT */ is removed as well.
package naive
