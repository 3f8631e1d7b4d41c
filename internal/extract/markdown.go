package extract

import (
	"fmt"
	"regexp"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Format selects the converter output.
type Format string

const (
	FormatMarkdown Format = "markdown"
	FormatText     Format = "text"
	FormatHTML     Format = "html"
)

// ParseFormat validates a format string, defaulting to markdown.
func ParseFormat(s string) (Format, error) {
	switch Format(strings.ToLower(s)) {
	case "", FormatMarkdown:
		return FormatMarkdown, nil
	case FormatText:
		return FormatText, nil
	case FormatHTML:
		return FormatHTML, nil
	default:
		return "", fmt.Errorf("unsupported format: %s", s)
	}
}

// Options configure the content pipeline. Pure value; callers own their copy.
type Options struct {
	IncludeImages bool
	RemoveAds     bool
	ExtractMain   bool
	AddMetadata   bool
	Format        Format
}

// DefaultOptions is the page_to_markdown default: images kept, ads removed,
// main content extracted, metadata added, markdown out.
func DefaultOptions() Options {
	return Options{
		IncludeImages: true,
		RemoveAds:     true,
		ExtractMain:   true,
		AddMetadata:   true,
		Format:        FormatMarkdown,
	}
}

// multiBlankRe collapses runs of three or more newlines down to two (one
// blank line). Applying it twice is a no-op.
var multiBlankRe = regexp.MustCompile(`\n{3,}`)

// CollapseBlankLines normalizes vertical whitespace. Idempotent.
func CollapseBlankLines(s string) string {
	return multiBlankRe.ReplaceAllString(s, "\n\n")
}

// Metadata prepends the page header block (title as H1, source URL, rule)
// to body. Callers apply it exactly once, before CollapseBlankLines, so the
// header spacing is normalized together with the body.
func Metadata(body, title, pageURL string) string {
	return fmt.Sprintf("# %s\n\n**URL**: %s\n\n---\n\n%s", title, pageURL, body)
}

// Pipeline runs the full content pipeline on raw page HTML: narrow to main
// content, strip the ad denylist, convert, prepend metadata, and normalize
// blank lines. The result is idempotent on a static document.
func Pipeline(htmlStr, title, pageURL string, opts Options) (string, error) {
	if opts.ExtractMain {
		htmlStr = ExtractMain(htmlStr)
	}
	if opts.RemoveAds {
		cleaned, err := Sanitize(htmlStr, true)
		if err != nil {
			return "", fmt.Errorf("sanitize: %w", err)
		}
		htmlStr = cleaned
	}

	out, err := Convert(htmlStr, opts)
	if err != nil {
		return "", err
	}

	if opts.AddMetadata && opts.Format != FormatHTML {
		out = Metadata(out, title, pageURL)
	}
	return CollapseBlankLines(out), nil
}

// Convert renders already-sanitized HTML in the requested format.
func Convert(htmlStr string, opts Options) (string, error) {
	switch opts.Format {
	case FormatHTML:
		return htmlStr, nil
	case FormatText:
		return VisibleText(htmlStr), nil
	case FormatMarkdown, "":
		return ToMarkdown(htmlStr, opts.IncludeImages)
	default:
		return "", fmt.Errorf("unsupported format: %s", opts.Format)
	}
}

// skipElements are subtrees discarded entirely during conversion.
var skipElements = map[atom.Atom]bool{
	atom.Script:   true,
	atom.Style:    true,
	atom.Noscript: true,
	atom.Iframe:   true,
	atom.Template: true,
	atom.Svg:      true,
	atom.Head:     true,
}

// ToMarkdown converts HTML to Markdown with ATX headings and "-" bullets.
func ToMarkdown(htmlStr string, includeImages bool) (string, error) {
	doc, err := html.Parse(strings.NewReader(htmlStr))
	if err != nil {
		return "", fmt.Errorf("parse html: %w", err)
	}

	r := &mdRenderer{includeImages: includeImages}
	r.walk(doc)
	return strings.TrimSpace(r.b.String()), nil
}

type mdRenderer struct {
	b             strings.Builder
	includeImages bool
	listStack     []int // -1 for unordered, else next ordinal
}

func (r *mdRenderer) walk(n *html.Node) {
	switch n.Type {
	case html.TextNode:
		r.b.WriteString(collapseSpaces(n.Data))
		return
	case html.ElementNode:
		if skipElements[n.DataAtom] {
			return
		}
	case html.CommentNode, html.DoctypeNode:
		return
	}

	if n.Type != html.ElementNode {
		r.walkChildren(n)
		return
	}

	switch n.DataAtom {
	case atom.H1, atom.H2, atom.H3, atom.H4, atom.H5, atom.H6:
		level := int(n.Data[1] - '0')
		r.b.WriteString("\n\n" + strings.Repeat("#", level) + " ")
		r.b.WriteString(r.inline(n))
		r.b.WriteString("\n\n")
	case atom.P, atom.Section, atom.Article, atom.Main, atom.Header, atom.Footer, atom.Aside, atom.Figure:
		r.b.WriteString("\n\n")
		r.walkChildren(n)
		r.b.WriteString("\n\n")
	case atom.Div:
		r.b.WriteString("\n")
		r.walkChildren(n)
		r.b.WriteString("\n")
	case atom.Br:
		r.b.WriteString("\n")
	case atom.Hr:
		r.b.WriteString("\n\n---\n\n")
	case atom.Strong, atom.B:
		if s := r.inline(n); s != "" {
			r.b.WriteString("**" + s + "**")
		}
	case atom.Em, atom.I:
		if s := r.inline(n); s != "" {
			r.b.WriteString("*" + s + "*")
		}
	case atom.Code:
		// Inline code; fenced blocks are handled by the pre case.
		if s := textContent(n); s != "" {
			r.b.WriteString("`" + s + "`")
		}
	case atom.Pre:
		r.b.WriteString("\n\n```\n")
		r.b.WriteString(strings.TrimRight(rawText(n), "\n"))
		r.b.WriteString("\n```\n\n")
	case atom.Blockquote:
		for _, line := range strings.Split(strings.TrimSpace(r.inlineBlocks(n)), "\n") {
			r.b.WriteString("\n> " + strings.TrimSpace(line))
		}
		r.b.WriteString("\n\n")
	case atom.A:
		text := r.inline(n)
		href := attrValue(n, "href")
		switch {
		case href == "":
			r.b.WriteString(text)
		case text == "":
			r.b.WriteString(fmt.Sprintf("<%s>", href))
		default:
			r.b.WriteString(fmt.Sprintf("[%s](%s)", text, href))
		}
	case atom.Img:
		if r.includeImages {
			if src := attrValue(n, "src"); src != "" {
				r.b.WriteString(fmt.Sprintf("![%s](%s)", attrValue(n, "alt"), src))
			}
		}
	case atom.Ul:
		r.pushList(-1)
		r.walkChildren(n)
		r.popList()
		r.b.WriteString("\n")
	case atom.Ol:
		r.pushList(1)
		r.walkChildren(n)
		r.popList()
		r.b.WriteString("\n")
	case atom.Li:
		indent := 0
		if len(r.listStack) > 1 {
			indent = len(r.listStack) - 1
		}
		r.b.WriteString("\n" + strings.Repeat("  ", indent) + r.marker() + " ")
		r.walkChildren(n)
	case atom.Table:
		r.renderTable(n)
	default:
		r.walkChildren(n)
	}
}

func (r *mdRenderer) walkChildren(n *html.Node) {
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		r.walk(c)
	}
}

// inline renders a subtree through a fresh renderer and flattens the result
// to a single line, for contexts (headings, links, emphasis) where block
// breaks are not allowed.
func (r *mdRenderer) inline(n *html.Node) string {
	sub := &mdRenderer{includeImages: r.includeImages}
	sub.walkChildren(n)
	return strings.TrimSpace(collapseSpaces(strings.ReplaceAll(sub.b.String(), "\n", " ")))
}

// inlineBlocks renders a subtree preserving paragraph breaks, for blockquote
// bodies.
func (r *mdRenderer) inlineBlocks(n *html.Node) string {
	sub := &mdRenderer{includeImages: r.includeImages}
	sub.walkChildren(n)
	return CollapseBlankLines(sub.b.String())
}

func (r *mdRenderer) pushList(start int) {
	r.listStack = append(r.listStack, start)
}

func (r *mdRenderer) popList() {
	r.listStack = r.listStack[:len(r.listStack)-1]
}

func (r *mdRenderer) marker() string {
	if len(r.listStack) == 0 {
		return "-"
	}
	top := len(r.listStack) - 1
	if r.listStack[top] < 0 {
		return "-"
	}
	m := fmt.Sprintf("%d.", r.listStack[top])
	r.listStack[top]++
	return m
}

func (r *mdRenderer) renderTable(n *html.Node) {
	var rows [][]string
	var walkRows func(*html.Node)
	walkRows = func(n *html.Node) {
		if n.Type == html.ElementNode && n.DataAtom == atom.Tr {
			var cells []string
			for c := n.FirstChild; c != nil; c = c.NextSibling {
				if c.Type == html.ElementNode && (c.DataAtom == atom.Td || c.DataAtom == atom.Th) {
					cells = append(cells, r.inline(c))
				}
			}
			if len(cells) > 0 {
				rows = append(rows, cells)
			}
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walkRows(c)
		}
	}
	walkRows(n)

	if len(rows) == 0 {
		return
	}

	r.b.WriteString("\n\n")
	for i, row := range rows {
		r.b.WriteString("| " + strings.Join(row, " | ") + " |\n")
		if i == 0 {
			seps := make([]string, len(row))
			for j := range seps {
				seps[j] = "---"
			}
			r.b.WriteString("| " + strings.Join(seps, " | ") + " |\n")
		}
	}
	r.b.WriteString("\n")
}

// VisibleText extracts what a reader would see: block structure preserved as
// newlines, scripts and styles dropped.
func VisibleText(htmlStr string) string {
	doc, err := html.Parse(strings.NewReader(htmlStr))
	if err != nil {
		return htmlStr
	}

	var b strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		switch n.Type {
		case html.TextNode:
			b.WriteString(collapseSpaces(n.Data))
			return
		case html.ElementNode:
			if skipElements[n.DataAtom] {
				return
			}
			if isBlock(n.DataAtom) {
				b.WriteString("\n")
			}
		case html.CommentNode, html.DoctypeNode:
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
		if n.Type == html.ElementNode && isBlock(n.DataAtom) {
			b.WriteString("\n")
		}
	}
	walk(doc)

	lines := strings.Split(b.String(), "\n")
	for i, line := range lines {
		lines[i] = strings.TrimSpace(line)
	}
	return strings.TrimSpace(CollapseBlankLines(strings.Join(lines, "\n")))
}

func isBlock(a atom.Atom) bool {
	switch a {
	case atom.P, atom.Div, atom.Section, atom.Article, atom.Main, atom.Header,
		atom.Footer, atom.Aside, atom.Nav, atom.H1, atom.H2, atom.H3, atom.H4,
		atom.H5, atom.H6, atom.Ul, atom.Ol, atom.Li, atom.Table, atom.Tr,
		atom.Blockquote, atom.Pre, atom.Br, atom.Hr, atom.Figure:
		return true
	}
	return false
}

var spaceRunRe = regexp.MustCompile(`[ \t\r\n]+`)

// collapseSpaces folds whitespace runs into single spaces, the way a browser
// lays out inline text.
func collapseSpaces(s string) string {
	return spaceRunRe.ReplaceAllString(s, " ")
}

func rawText(n *html.Node) string {
	var b strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			b.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return b.String()
}

func textContent(n *html.Node) string {
	return strings.TrimSpace(collapseSpaces(rawText(n)))
}

func attrValue(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

// Stats summarizes converted output for the tool result.
type Stats struct {
	Lines      int `json:"lines"`
	Characters int `json:"characters"`
	Words      int `json:"words"`
}

// TextStats computes line, character and word counts.
func TextStats(s string) Stats {
	return Stats{
		Lines:      len(strings.Split(s, "\n")),
		Characters: len(s),
		Words:      len(strings.Fields(s)),
	}
}
