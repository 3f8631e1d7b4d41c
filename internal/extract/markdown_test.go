package extract

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yuin/goldmark"
)

func TestToMarkdownHeadingsAndEmphasis(t *testing.T) {
	in := `<h1>Title</h1><h2>Sub</h2><p>Some <strong>bold</strong> and <em>italic</em> text.</p>`

	md, err := ToMarkdown(in, true)
	require.NoError(t, err)

	assert.Contains(t, md, "# Title")
	assert.Contains(t, md, "## Sub")
	assert.Contains(t, md, "**bold**")
	assert.Contains(t, md, "*italic*")
}

func TestToMarkdownLinksAndImages(t *testing.T) {
	in := `<p><a href="https://example.com">Example</a> <img src="/pic.png" alt="a pic"></p>`

	md, err := ToMarkdown(in, true)
	require.NoError(t, err)
	assert.Contains(t, md, "[Example](https://example.com)")
	assert.Contains(t, md, "![a pic](/pic.png)")

	noImg, err := ToMarkdown(in, false)
	require.NoError(t, err)
	assert.NotContains(t, noImg, "pic.png")
	assert.Contains(t, noImg, "[Example](https://example.com)")
}

func TestToMarkdownLists(t *testing.T) {
	in := `<ul><li>one</li><li>two</li></ul><ol><li>first</li><li>second</li></ol>`

	md, err := ToMarkdown(in, true)
	require.NoError(t, err)

	assert.Contains(t, md, "- one")
	assert.Contains(t, md, "- two")
	assert.Contains(t, md, "1. first")
	assert.Contains(t, md, "2. second")
}

func TestToMarkdownCodeAndBlockquote(t *testing.T) {
	in := `<p>inline <code>x := 1</code></p><pre>func main() {}</pre><blockquote>wise words</blockquote>`

	md, err := ToMarkdown(in, true)
	require.NoError(t, err)

	assert.Contains(t, md, "`x := 1`")
	assert.Contains(t, md, "```\nfunc main() {}\n```")
	assert.Contains(t, md, "> wise words")
}

func TestToMarkdownTable(t *testing.T) {
	in := `<table><tr><th>Name</th><th>Age</th></tr><tr><td>Ada</td><td>36</td></tr></table>`

	md, err := ToMarkdown(in, true)
	require.NoError(t, err)

	assert.Contains(t, md, "| Name | Age |")
	assert.Contains(t, md, "| --- | --- |")
	assert.Contains(t, md, "| Ada | 36 |")
}

func TestToMarkdownSkipsScripts(t *testing.T) {
	in := `<p>visible</p><script>hidden()</script><style>.h{}</style>`

	md, err := ToMarkdown(in, true)
	require.NoError(t, err)

	assert.Contains(t, md, "visible")
	assert.NotContains(t, md, "hidden")
}

// Converted output must be valid Markdown: goldmark should render it back to
// HTML containing the same structural elements.
func TestToMarkdownOutputParses(t *testing.T) {
	in := `<h1>Doc</h1><p>A <a href="/x">link</a> and <strong>bold</strong>.</p><ul><li>item</li></ul>`

	md, err := ToMarkdown(in, true)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, goldmark.Convert([]byte(md), &buf))
	html := buf.String()

	assert.Contains(t, html, "<h1>")
	assert.Contains(t, html, `<a href="/x">`)
	assert.Contains(t, html, "<strong>")
	assert.Contains(t, html, "<li>")
}

func TestCollapseBlankLines(t *testing.T) {
	in := "a\n\n\n\n\nb\n\n\nc"

	out := CollapseBlankLines(in)
	assert.Equal(t, "a\n\nb\n\nc", out)
}

func TestCollapseBlankLinesIdempotent(t *testing.T) {
	in := "x\n\n\n\ny\n\n\n\n\n\nz"

	once := CollapseBlankLines(in)
	assert.Equal(t, once, CollapseBlankLines(once))
}

func TestMetadataPrependedBeforeCollapse(t *testing.T) {
	body := "\n\n\n\nFirst paragraph."
	out := CollapseBlankLines(Metadata(body, "My Page", "https://example.com/p"))

	lines := strings.Split(out, "\n")
	require.GreaterOrEqual(t, len(lines), 5)
	assert.Equal(t, "# My Page", lines[0])
	assert.Equal(t, "", lines[1])
	assert.Equal(t, "**URL**: https://example.com/p", lines[2])
	assert.NotContains(t, out, "\n\n\n")
}

func TestPipelineFullDocument(t *testing.T) {
	in := `<html><body>
		<nav class="sidebar">nav links</nav>
		<main>
			<h1>Article</h1>
			<div class="ad-banner">sponsored</div>
			<p>The body text.</p>
		</main>
	</body></html>`

	out, err := Pipeline(in, "Article Page", "https://example.com/a", DefaultOptions())
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(out, "# Article Page"), "metadata title first, got: %q", out)
	assert.Contains(t, out, "**URL**: https://example.com/a")
	assert.Contains(t, out, "The body text.")
	assert.NotContains(t, out, "sponsored")
	assert.NotContains(t, out, "nav links")
	assert.NotContains(t, out, "\n\n\n")
}

func TestPipelineIdempotentOnStaticPage(t *testing.T) {
	in := `<html><body><main><h1>T</h1><p>body</p></main></body></html>`
	opts := DefaultOptions()
	opts.AddMetadata = false

	first, err := Pipeline(in, "T", "u", opts)
	require.NoError(t, err)
	second, err := Pipeline(in, "T", "u", opts)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestConvertFormats(t *testing.T) {
	in := `<p>Hello <strong>world</strong></p>`

	md, err := Convert(in, Options{Format: FormatMarkdown})
	require.NoError(t, err)
	assert.Contains(t, md, "**world**")

	text, err := Convert(in, Options{Format: FormatText})
	require.NoError(t, err)
	assert.Contains(t, text, "Hello world")
	assert.NotContains(t, text, "**")

	raw, err := Convert(in, Options{Format: FormatHTML})
	require.NoError(t, err)
	assert.Equal(t, in, raw)
}

func TestParseFormat(t *testing.T) {
	for _, tc := range []struct {
		in   string
		want Format
	}{
		{"", FormatMarkdown},
		{"markdown", FormatMarkdown},
		{"TEXT", FormatText},
		{"html", FormatHTML},
	} {
		got, err := ParseFormat(tc.in)
		require.NoError(t, err, tc.in)
		assert.Equal(t, tc.want, got)
	}

	_, err := ParseFormat("pdf")
	assert.Error(t, err)
}

func TestVisibleText(t *testing.T) {
	in := `<div><h1>Head</h1><p>one</p><p>two</p><script>no()</script></div>`

	out := VisibleText(in)

	assert.Contains(t, out, "Head")
	assert.Contains(t, out, "one")
	assert.Contains(t, out, "two")
	assert.NotContains(t, out, "no()")
	// Block elements separate lines.
	assert.Less(t, strings.Index(out, "one"), strings.Index(out, "two"))
}

func TestTextStats(t *testing.T) {
	s := "one two\nthree"

	stats := TextStats(s)
	assert.Equal(t, 2, stats.Lines)
	assert.Equal(t, len(s), stats.Characters)
	assert.Equal(t, 3, stats.Words)
}
