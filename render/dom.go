package render

import (
	"regexp"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Fragment is a parsed HTML fragment. The top-level nodes of a post body
// hang off a retained container node, so every element has a parent and can
// be spliced out or replaced uniformly.
type Fragment struct {
	container *html.Node
}

// ParseFragment parses s in body context.
func ParseFragment(s string) (Fragment, error) {
	body := &html.Node{Type: html.ElementNode, Data: "body", DataAtom: atom.Body}
	nodes, err := html.ParseFragment(strings.NewReader(s), body)
	if err != nil {
		return Fragment{}, err
	}
	for _, n := range nodes {
		body.AppendChild(n)
	}
	return Fragment{container: body}, nil
}

// String serializes the fragment back to HTML.
func (f Fragment) String() string {
	var b strings.Builder
	for n := f.container.FirstChild; n != nil; n = n.NextSibling {
		// Render only fails on unrenderable node types, which ParseFragment
		// never produces.
		_ = html.Render(&b, n)
	}
	return b.String()
}

// walk visits every node depth-first in document order. The container itself
// is not visited.
func (f Fragment) walk(fn func(*html.Node)) {
	var visit func(*html.Node)
	visit = func(n *html.Node) {
		fn(n)
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			visit(c)
		}
	}
	for n := f.container.FirstChild; n != nil; n = n.NextSibling {
		visit(n)
	}
}

// Matches protocol-prefixed, root-relative, fragment, and data sources,
// none of which should be rewritten.
var reAbsoluteSrc = regexp.MustCompile(`(?i)^(?:[a-z][a-z0-9+.-]*:|/|#|data:)`)

// RewriteRelativeImages prefixes every relative img src with base, so assets
// referenced from a post body resolve under its per-post asset directory.
func (f Fragment) RewriteRelativeImages(base string) {
	base = strings.TrimSuffix(base, "/")
	f.walk(func(n *html.Node) {
		if n.Type != html.ElementNode || n.DataAtom != atom.Img {
			return
		}
		src := getAttr(n, "src")
		if src == "" || reAbsoluteSrc.MatchString(src) {
			return
		}
		setAttr(n, "src", base+"/"+src)
	})
}

// IndexHeadings walks the level-2 and level-3 headings in document order,
// assigns a deterministic id to any heading lacking one, and returns the
// table of contents.
func (f Fragment) IndexHeadings() []Heading {
	var toc []Heading
	f.walk(func(n *html.Node) {
		if n.Type != html.ElementNode {
			return
		}
		if n.DataAtom != atom.H2 && n.DataAtom != atom.H3 {
			return
		}
		label := strings.TrimSpace(textContent(n))
		id := getAttr(n, "id")
		if id == "" {
			id = HeadingID(label)
			setAttr(n, "id", id)
		}
		toc = append(toc, Heading{ID: id, Label: label})
	})
	return toc
}

// HeadingID derives a deterministic anchor id from heading text: lower-cased,
// with runs of non-alphanumeric characters collapsed to single hyphens and
// leading/trailing hyphens trimmed.
func HeadingID(text string) string {
	text = strings.ToLower(text)
	var b strings.Builder
	hyphen := false
	for _, r := range text {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			hyphen = false
		default:
			if !hyphen && b.Len() > 0 {
				b.WriteByte('-')
				hyphen = true
			}
		}
	}
	return strings.TrimRight(b.String(), "-")
}

func textContent(n *html.Node) string {
	var b strings.Builder
	var visit func(*html.Node)
	visit = func(n *html.Node) {
		if n.Type == html.TextNode {
			b.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			visit(c)
		}
	}
	visit(n)
	return b.String()
}

func getAttr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

func setAttr(n *html.Node, key, val string) {
	for i, a := range n.Attr {
		if a.Key == key {
			n.Attr[i].Val = val
			return
		}
	}
	n.Attr = append(n.Attr, html.Attribute{Key: key, Val: val})
}
