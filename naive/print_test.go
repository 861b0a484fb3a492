package naive_test

import (
	"bytes"
	"slices"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"mibk.dev/cssfmt/naive"
	"rsc.io/diff"
)

var testSpec = []naive.Category{
	{Name: "POSITION", Keywords: []string{"position", "top", "left"}},
	{Name: "LAYOUT", Keywords: []string{"display", "flex..."}},
	{Name: "BOX", Keywords: []string{"width", "margin...", "padding..."}},
	{Name: "VISUAL", Keywords: []string{"color", "background..."}},
}

func TestFormat(t *testing.T) {
	tests := []struct {
		name  string
		spec  []naive.Category
		opts  naive.Options
		input string
		want  string
	}{{
		name: "grouping",
		spec: []naive.Category{
			{Name: "LAYOUT", Keywords: []string{"display"}},
			{Name: "BOX", Keywords: []string{"margin..."}},
		},
		input: `.a{color:red;margin:1px;display:flex;}`,
		want: `.a {
	display: flex;
	margin: 1px;
	color: red;
}
`,
	}, {
		name:  "empty input",
		input: " \n\n ",
		want:  "",
	}, {
		name:  "no spec sorts by property",
		input: `.a { z-index: 1; display: -webkit-box; color: red; display: flex; }`,
		want: `.a {
	color: red;
	display: -webkit-box;
	display: flex;
	z-index: 1;
}
`,
	}, {
		name: "wildcard needs a hyphen",
		spec: []naive.Category{{Name: "X", Keywords: []string{"flex..."}}},
		input: `.a { flexbox: 1; color: red; flex-grow: 1; }`,
		want: `.a {
	flex-grow: 1;
	color: red;
	flexbox: 1;
}
`,
	}, {
		name:  "keyword order before name",
		spec:  testSpec,
		input: `.a { padding: 0; margin-top: 0; width: 1px; margin: 0; }`,
		want: `.a {
	width: 1px;
	margin: 0;
	margin-top: 0;
	padding: 0;
}
`,
	}, {
		name:  "no spacers below the threshold",
		spec:  testSpec,
		input: `.a { color: red; display: flex; margin: 0; background: blue; flex-wrap: wrap; padding: 0; }`,
		want: `.a {
	display: flex;
	flex-wrap: wrap;
	margin: 0;
	padding: 0;
	color: red;
	background: blue;
}
`,
	}, {
		name:  "spacers",
		spec:  testSpec,
		input: `.a { color: red; display: flex; margin: 0; background: blue; flex-wrap: wrap; padding: 0; top: 0; position: absolute; }`,
		want: `.a {
	position: absolute;
	top: 0;

	display: flex;
	flex-wrap: wrap;

	margin: 0;
	padding: 0;

	color: red;
	background: blue;
}
`,
	}, {
		name:  "no spacer before a single declaration",
		spec:  testSpec,
		input: `.a { color: red; display: flex; margin: 0; background: blue; padding: 0; top: 0; position: absolute; }`,
		want: `.a {
	position: absolute;
	top: 0;
	display: flex;

	margin: 0;
	padding: 0;

	color: red;
	background: blue;
}
`,
	}, {
		name:  "category headers",
		spec:  testSpec,
		opts:  naive.CategoryHeaders,
		input: `.a { color: red; display: flex; z-index: 1 }`,
		want: `.a {
	/* LAYOUT */
	display: flex;

	/* VISUAL */
	color: red;
	z-index: 1;
}
`,
	}, {
		name: "ghost headers",
		spec: testSpec,
		input: `.a {
	/* OLD_CATEGORY */
	color: red;
	/* visual */
	background: red;
	/* else */
	cursor: pointer;
}`,
		want: `.a {
	color: red;
	background: red;
	cursor: pointer;
}
`,
	}, {
		name:  "regular comments",
		spec:  testSpec,
		input: `.a { /* keep me */ color: red; /* Mixed Case */ display: block; }`,
		want: `.a {
	/* Mixed Case */
	display: block;
	/* keep me */
	color: red;
}
`,
	}, {
		name:  "auto-generation marker",
		input: "/* Auto-generated */\n.a {}",
		want:  ".a {\n}\n",
	}, {
		name:  "top level",
		spec:  testSpec,
		input: "@import \"a.css\";\n.a{color:red}\n\n\n.b{}\n@media (min-width: 1px){.c{top:0}.d{left:0}}",
		want: `@import "a.css";
.a {
	color: red;
}

.b {
}

@media (min-width: 1px) {
	.c {
		top: 0;
	}
	.d {
		left: 0;
	}
}
`,
	}, {
		name:  "trailing comments",
		input: ".a { color: red; /* end */ }\n/* eof */",
		want: `.a {
	color: red;
	/* end */
}

/* eof */
`,
	}, {
		name:  "unterminated comment",
		input: `.a { /* x }`,
		want: `.a {
	/* x } */
}
`,
	}, {
		name:  "unterminated string",
		input: `.a { content: "abc; } .b { color: red }`,
		want: `.a {
	content: "abc;
}

.b {
	color: red;
}
`,
	}, {
		name:  "unterminated string with headers",
		spec:  testSpec,
		opts:  naive.CategoryHeaders,
		input: `.a { content: "abc; } .b { color: red }`,
		want: `.a {
	content: "abc;
}

.b {
	/* VISUAL */
	color: red;
}
`,
	}, {
		name:  "string broken by a newline",
		input: ".a { content: 'x\n; color: red; }\n.b { top: 0 }",
		want: `.a {
	color: red;
	content: 'x;
}

.b {
	top: 0;
}
`,
	}, {
		name:  "category name with surrounding spaces",
		spec:  []naive.Category{{Name: " Box model ", Keywords: []string{"margin"}}},
		opts:  naive.CategoryHeaders,
		input: `.a { margin: 0; }`,
		want: `.a {
	/* Box model */
	margin: 0;
}
`,
	}, {
		name:  "at-rules are not grouped",
		input: `.a { @apply foo; color : red ;; --empty:; }`,
		want: `.a {
	--empty:;
	color: red;
	@apply foo;
}
`,
	}, {
		name:  "nested rules follow declarations",
		spec:  testSpec,
		input: `.a { &:hover { color: blue } color: red; .b & { top: 0 } }`,
		want: `.a {
	color: red;
	&:hover {
		color: blue;
	}
	.b & {
		top: 0;
	}
}
`,
	}}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := naive.Format(naive.Parse(tt.input), tt.spec, tt.opts)
			if got != tt.want {
				t.Errorf("lines don't match (-got +want)\n%s", diff.Format(got, tt.want))
			}
			again := naive.Format(naive.Parse(got), tt.spec, tt.opts)
			if again != got {
				t.Errorf("not idempotent (-again +first)\n%s", diff.Format(again, got))
			}
		})
	}
}

func TestFprint(t *testing.T) {
	var buf bytes.Buffer
	root := block("", block(".a", leaf("color: red")))
	root.Children = append(root.Children, &naive.Node{Kind: naive.Header, Content: "STALE"})
	if err := naive.Fprint(&buf, root, nil, naive.Standard); err != nil {
		t.Fatal(err)
	}
	if want := ".a {\n\tcolor: red;\n}\n"; buf.String() != want {
		t.Errorf("got %q, want %q", buf.String(), want)
	}

	buf.Reset()
	if err := naive.Fprint(&buf, block(".b", leaf("top:0")), nil, naive.Standard); err != nil {
		t.Fatal(err)
	}
	if want := ".b {\n\ttop: 0;\n}\n"; buf.String() != want {
		t.Errorf("non-root block: got %q, want %q", buf.String(), want)
	}
}

// TestFormatDoesNotMutate checks that formatting leaves the tree
// untouched, so that it can be formatted again with another spec.
func TestFormatDoesNotMutate(t *testing.T) {
	root := naive.Parse(`.a { color: red; display: flex; }`)
	before := naive.Format(root, nil, naive.Standard)
	naive.Format(root, testSpec, naive.CategoryHeaders)
	if after := naive.Format(root, nil, naive.Standard); after != before {
		t.Errorf("tree changed by formatting:\n%s", diff.Format(after, before))
	}
	if got := root.Children[0].Children[0].Content; got != "color: red" {
		t.Errorf("first declaration = %q", got)
	}
}

func TestRoundTrip(t *testing.T) {
	inputs := []string{
		`.a { color: red; /* c1 */ margin : 0 ; } /* c2 */ .b{top:0;left:0;display:grid}`,
		"@import 'x';\n@media print { .a { display: none } /* c3 */ }\n.c { --x: \"a;b\"; }",
		`/* c4 */ .d { padding: 0 1px; position: absolute; flex: 1; width: 2px; background: none; color: red; top: 1px; }`,
	}
	for _, input := range inputs {
		want := collect(naive.Parse(input))
		got := collect(naive.Parse(naive.Format(naive.Parse(input), testSpec, naive.Standard)))
		if diff := cmp.Diff(want, got); diff != "" {
			t.Errorf("%q: contents differ (-want +got):\n%s", input, diff)
		}
	}
}

// collect returns the sorted, normalized declarations and comments of the tree.
func collect(n *naive.Node) []string {
	var out []string
	var walk func(n *naive.Node)
	walk = func(n *naive.Node) {
		out = append(out, n.Comments...)
		out = append(out, n.Trailing...)
		if n.Kind == naive.Leaf {
			out = append(out, strings.Join(strings.Fields(n.Content), ""))
		}
		for _, c := range n.Children {
			walk(c)
		}
	}
	walk(n)
	slices.Sort(out)
	return out
}
