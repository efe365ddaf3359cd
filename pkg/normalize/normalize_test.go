package normalize_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/voughtdq/ex-doc/pkg/mdast"
	"github.com/voughtdq/ex-doc/pkg/normalize"
)

func text(s string) *mdast.Text { return mdast.NewText(s) }

func TestDocument_TextOnlyUnchanged(t *testing.T) {
	t.Parallel()

	doc := mdast.Document{text("a"), text("b"), text("")}
	assert.Equal(t, doc, normalize.Document(doc))
}

func TestDocument_Empty(t *testing.T) {
	t.Parallel()

	assert.Empty(t, normalize.Document(nil))
	assert.Empty(t, normalize.Document(mdast.Document{}))
}

func TestDocument_MathRoundTrip(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		node     *mdast.Element
		expected mdast.Node
	}{
		{
			name:     "inline",
			node:     mdast.El("code", []string{"class", "math-inline"}, text("x^2")),
			expected: text("$x^2$"),
		},
		{
			name:     "display",
			node:     mdast.El("code", []string{"class", "math-display"}, text("x^2")),
			expected: text("$$\nx^2\n$$"),
		},
		{
			name:     "other class stays code",
			node:     mdast.El("code", []string{"class", "inline"}, text("x^2")),
			expected: mdast.El("code", []string{"class", "inline"}, text("x^2")),
		},
		{
			name:     "extra attribute stays code",
			node:     mdast.El("code", []string{"class", "math-inline", "id", "m"}, text("x")),
			expected: mdast.El("code", []string{"class", "math-inline", "id", "m"}, text("x")),
		},
		{
			name:     "two children stay code",
			node:     mdast.El("code", []string{"class", "math-inline"}, text("x"), text("y")),
			expected: mdast.El("code", []string{"class", "math-inline"}, text("x"), text("y")),
		},
		{
			name:     "raw upper case names still match",
			node:     mdast.NewElement("CODE", []mdast.Attr{{Name: "Class", Value: "math-inline"}}, text("y")),
			expected: text("$y$"),
		},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()

			got := normalize.Document(mdast.Document{testCase.node})
			require.Len(t, got, 1)
			assert.Equal(t, testCase.expected, got[0])
		})
	}
}

func TestDocument_MathNestedInParagraph(t *testing.T) {
	t.Parallel()

	doc := mdast.Document{
		mdast.El("p", nil,
			text("Area is "),
			mdast.El("code", []string{"class", "math-inline"}, text(`\pi r^2`)),
			text("."),
		),
	}

	got := normalize.Document(doc)
	require.Len(t, got, 1)
	assert.Equal(t, "Area is $\\pi r^2$.", mdast.TextContent(got[0]))
}

func TestDocument_Admonition(t *testing.T) {
	t.Parallel()

	heading := mdast.El("h3", []string{"class", "foo warning"}, text("Careful"))
	para := mdast.El("p", nil, text("body"))
	quote := mdast.El("blockquote", []string{"class", "foo "}, heading, para)

	got := normalize.Document(mdast.Document{quote})
	require.Len(t, got, 1)

	div, ok := got[0].(*mdast.Element)
	require.True(t, ok)
	assert.Equal(t, mdast.TagDiv, div.Tag)
	assert.Equal(t, []mdast.Attr{
		{Name: mdast.AttrClass, Value: "foo admonition warning"},
		{Name: mdast.AttrRole, Value: "note"},
	}, div.Attrs)
	require.Len(t, div.Children, 2)
	assert.Equal(t, heading, div.Children[0])
	assert.Equal(t, para, div.Children[1])
}

func TestDocument_AdmonitionWithoutBlockquoteClass(t *testing.T) {
	t.Parallel()

	quote := mdast.El("blockquote", []string{"id", "q"},
		mdast.El("h4", []string{"class", "tip info extra"}, text("Hint")),
	)

	got := normalize.Document(mdast.Document{quote})
	div := got[0].(*mdast.Element)

	assert.Equal(t, mdast.TagDiv, div.Tag)
	assert.Equal(t, []mdast.Attr{
		{Name: mdast.AttrClass, Value: "admonition tip info"},
		{Name: mdast.AttrRole, Value: "note"},
		{Name: mdast.AttrID, Value: "q"},
	}, div.Attrs)
}

func TestDocument_AdmonitionReplacesFirstClassAndRoleOnly(t *testing.T) {
	t.Parallel()

	quote := mdast.El("blockquote",
		[]string{"role", "doc-tip", "class", "a", "class", "b", "role", "x"},
		mdast.El("h3", []string{"class", "error"}, text("Boom")),
	)

	div := normalize.Document(mdast.Document{quote})[0].(*mdast.Element)

	assert.Equal(t, []mdast.Attr{
		{Name: mdast.AttrClass, Value: "a admonition error"},
		{Name: mdast.AttrRole, Value: "note"},
		{Name: mdast.AttrClass, Value: "b"},
		{Name: mdast.AttrRole, Value: "x"},
	}, div.Attrs)
}

func TestDocument_RegularBlockquote(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		quote *mdast.Element
	}{
		{
			name: "heading without recognized class",
			quote: mdast.El("blockquote", nil,
				mdast.El("h3", []string{"class", "foo bar"}, text("Title")),
				mdast.El("p", nil, mdast.El("code", []string{"class", "math-inline"}, text("x"))),
			),
		},
		{
			name: "heading without class",
			quote: mdast.El("blockquote", nil,
				mdast.El("h4", nil, text("Title")),
				mdast.El("p", nil, mdast.El("code", []string{"class", "math-inline"}, text("x"))),
			),
		},
		{
			name: "h2 heading is not an admonition",
			quote: mdast.El("blockquote", nil,
				mdast.El("h2", []string{"class", "warning"}, text("Title")),
				mdast.El("p", nil, mdast.El("code", []string{"class", "math-inline"}, text("x"))),
			),
		},
		{
			name: "paragraph first",
			quote: mdast.El("blockquote", nil,
				mdast.El("p", nil, mdast.El("code", []string{"class", "math-inline"}, text("x"))),
				mdast.El("h3", []string{"class", "warning"}, text("Title")),
			),
		},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()

			got := normalize.Document(mdast.Document{testCase.quote})
			require.Len(t, got, 1)

			quote := got[0].(*mdast.Element)
			assert.Equal(t, mdast.TagBlockquote, quote.Tag)
			assert.Equal(t, testCase.quote.Attrs, quote.Attrs)
			require.Len(t, quote.Children, 2)

			// Children were normalized: the math span became text.
			math := mdast.FindFirst(mdast.Document{quote}, func(n mdast.Node) bool {
				tx, ok := n.(*mdast.Text)
				return ok && tx.Content == "$x$"
			})
			assert.NotNil(t, math)
		})
	}
}

func TestDocument_EmptyBlockquote(t *testing.T) {
	t.Parallel()

	got := normalize.Document(mdast.Document{mdast.El("blockquote", nil)})
	require.Len(t, got, 1)
	assert.Equal(t, mdast.TagBlockquote, got[0].(*mdast.Element).Tag)
}

func TestDocument_NestedAdmonition(t *testing.T) {
	t.Parallel()

	inner := mdast.El("blockquote", nil, mdast.El("h3", []string{"class", "info"}, text("Inner")))
	outer := mdast.El("blockquote", nil, mdast.El("h3", []string{"class", "tip"}, text("Outer")), inner)

	div := normalize.Document(mdast.Document{outer})[0].(*mdast.Element)
	require.Len(t, div.Children, 2)

	nested := div.Children[1].(*mdast.Element)
	assert.Equal(t, mdast.TagDiv, nested.Tag)
	assert.Equal(t, "admonition info", nested.AttrOrEmpty(mdast.AttrClass))
}

func TestDocument_OutputMerge(t *testing.T) {
	t.Parallel()

	doc := mdast.Document{
		mdast.NewOutputMarker(),
		mdast.El("pre", nil, mdast.El("code", nil, text("42"))),
	}

	got := normalize.Document(doc)
	require.Len(t, got, 1)
	assert.Equal(t,
		mdast.El("pre", nil, mdast.El("code", []string{"class", "output"}, text("42"))),
		got[0],
	)
}

func TestDocument_OutputMergeExistingClass(t *testing.T) {
	t.Parallel()

	doc := mdast.Document{
		mdast.NewOutputMarker(),
		mdast.El("pre", nil, mdast.El("code", []string{"id", "c", "class", "result"}, text("42"))),
	}

	got := normalize.Document(doc)
	require.Len(t, got, 1)

	code := got[0].(*mdast.Element).Children[0].(*mdast.Element)
	assert.Equal(t, []mdast.Attr{
		{Name: mdast.AttrID, Value: "c"},
		{Name: mdast.AttrClass, Value: "result output"},
	}, code.Attrs)
}

func TestDocument_OutputMergeNotApplicable(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		doc  mdast.Document
	}{
		{
			name: "plain comment",
			doc: mdast.Document{
				mdast.NewComment(" note "),
				mdast.El("pre", nil, mdast.El("code", nil, text("42"))),
			},
		},
		{
			name: "marker before paragraph",
			doc: mdast.Document{
				mdast.NewOutputMarker(),
				mdast.El("p", nil, text("42")),
			},
		},
		{
			name: "marker at end",
			doc:  mdast.Document{text("x"), mdast.NewOutputMarker()},
		},
		{
			name: "pre with two children",
			doc: mdast.Document{
				mdast.NewOutputMarker(),
				mdast.El("pre", nil, mdast.El("code", nil, text("1")), mdast.El("code", nil, text("2"))),
			},
		},
		{
			name: "code with element child",
			doc: mdast.Document{
				mdast.NewOutputMarker(),
				mdast.El("pre", nil, mdast.El("code", nil, mdast.El("span", nil, text("1")))),
			},
		},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()

			got := normalize.Document(testCase.doc)
			assert.Equal(t, testCase.doc, got)
		})
	}
}

func TestDocument_OutputMergeInsideElement(t *testing.T) {
	t.Parallel()

	doc := mdast.Document{
		mdast.El("section", nil,
			text("before"),
			mdast.NewOutputMarker(),
			mdast.El("pre", nil, mdast.El("code", []string{"class", "elixir"}, text(":ok"))),
			text("after"),
		),
	}

	section := normalize.Document(doc)[0].(*mdast.Element)
	require.Len(t, section.Children, 3)
	assert.Equal(t, text("before"), section.Children[0])
	assert.Equal(t, "elixir output",
		section.Children[1].(*mdast.Element).Children[0].(*mdast.Element).AttrOrEmpty(mdast.AttrClass))
	assert.Equal(t, text("after"), section.Children[2])
}

func TestDocument_ConsecutiveMarkers(t *testing.T) {
	t.Parallel()

	doc := mdast.Document{
		mdast.NewOutputMarker(),
		mdast.NewOutputMarker(),
		mdast.El("pre", nil, mdast.El("code", nil, text("42"))),
	}

	got := normalize.Document(doc)
	require.Len(t, got, 2)

	// The first marker is not followed by pre, so it passes through untouched.
	assert.Equal(t, doc[0], got[0])
	assert.Equal(t, "output",
		got[1].(*mdast.Element).Children[0].(*mdast.Element).AttrOrEmpty(mdast.AttrClass))
}

func TestDocument_OrderPreserved(t *testing.T) {
	t.Parallel()

	doc := mdast.Document{
		text("1"),
		mdast.El("p", nil, text("2")),
		mdast.NewComment("3"),
		mdast.El("hr", nil),
		text("5"),
	}

	got := normalize.Document(doc)
	require.Len(t, got, len(doc))
	assert.Equal(t, doc, got)
}

func TestDocument_DropsEmptyResults(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		doc  mdast.Document
		want mdast.Document
	}{
		{
			name: "top level",
			doc:  mdast.Document{text("a"), nil, text("b")},
			want: mdast.Document{text("a"), text("b")},
		},
		{
			name: "leading and trailing",
			doc:  mdast.Document{nil, text("a"), nil},
			want: mdast.Document{text("a")},
		},
		{
			name: "between children",
			doc:  mdast.Document{mdast.El("p", nil, text("a"), nil, mdast.El("em", nil, text("b")))},
			want: mdast.Document{mdast.El("p", nil, text("a"), mdast.El("em", nil, text("b")))},
		},
		{
			name: "typed nils",
			doc: mdast.Document{
				(*mdast.Element)(nil), text("a"), (*mdast.Comment)(nil), (*mdast.Text)(nil), text("b"),
			},
			want: mdast.Document{text("a"), text("b")},
		},
		{
			name: "marker before nil",
			doc:  mdast.Document{mdast.NewOutputMarker(), (*mdast.Element)(nil), text("x")},
			want: mdast.Document{mdast.NewOutputMarker(), text("x")},
		},
		{
			name: "blockquote led by nil",
			doc: mdast.Document{
				mdast.El("blockquote", nil, (*mdast.Element)(nil), mdast.El("p", nil, text("q"))),
			},
			want: mdast.Document{mdast.El("blockquote", nil, mdast.El("p", nil, text("q")))},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, normalize.Document(tt.doc))
		})
	}
}

func TestDocument_MathWithNilChild(t *testing.T) {
	t.Parallel()

	got := normalize.Document(mdast.Document{
		mdast.El("code", []string{"class", "math-inline"}, (*mdast.Text)(nil)),
	})
	require.Len(t, got, 1)
	code, ok := got[0].(*mdast.Element)
	require.True(t, ok, "a code element without text is not math")
	assert.Empty(t, code.Children)
}

func TestDocument_CanonicalizesNamesAndKeepsMeta(t *testing.T) {
	t.Parallel()

	el := mdast.NewElement("X-Widget", []mdast.Attr{{Name: "Data-Value", Value: "Keep CASE"}}, text("t"))
	el.SetMeta("line", 7)

	got := normalize.Document(mdast.Document{el})[0].(*mdast.Element)
	assert.Equal(t, mdast.Name("x-widget"), got.Tag)
	assert.Equal(t, []mdast.Attr{{Name: "data-value", Value: "Keep CASE"}}, got.Attrs)
	assert.Equal(t, map[string]any{"line": 7}, got.Meta)
}

func TestDocument_DoesNotMutateInput(t *testing.T) {
	t.Parallel()

	doc := mdast.Document{
		mdast.El("blockquote", []string{"class", "q"},
			mdast.El("h3", []string{"class", "warning"}, text("W")),
		),
		mdast.NewOutputMarker(),
		mdast.El("pre", nil, mdast.El("code", []string{"class", "text"}, text("out"))),
	}
	snapshot := doc.Clone()

	_ = normalize.Document(doc)
	assert.Equal(t, snapshot, doc)
}

func TestDocument_Idempotent(t *testing.T) {
	t.Parallel()

	doc := mdast.Document{
		mdast.El("blockquote", nil, mdast.El("h3", []string{"class", "warning"}, text("W"))),
		mdast.El("p", nil, text("plain")),
	}

	once := normalize.Document(doc)
	twice := normalize.Document(once)
	assert.Equal(t, once, twice)
}

func TestNode(t *testing.T) {
	t.Parallel()

	assert.Empty(t, normalize.Node(nil))
	assert.Empty(t, normalize.Node((*mdast.Element)(nil)))
	assert.Equal(t, []mdast.Node{text("x")}, normalize.Node(text("x")))
}
