package render

import (
	"bytes"
	"strings"

	"github.com/alecthomas/chroma/v2"
	chromahtml "github.com/alecthomas/chroma/v2/formatters/html"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// DefaultChromaStyle is the chroma style used when none is configured.
const DefaultChromaStyle = "github"

// ChromaHighlighter replaces fenced code blocks carrying a language-<name>
// class with chroma-highlighted markup. Any failure leaves the block as it
// was; highlighting never breaks a render.
type ChromaHighlighter struct {
	style *chroma.Style
}

// NewChromaHighlighter builds a highlighter using the named chroma style,
// falling back to the library default when the name is unknown.
func NewChromaHighlighter(styleName string) *ChromaHighlighter {
	style := styles.Get(styleName)
	if style == nil {
		style = styles.Fallback
	}
	return &ChromaHighlighter{style: style}
}

// Highlight rewrites eligible pre>code blocks in frag in place.
func (h *ChromaHighlighter) Highlight(frag Fragment) {
	// Collect first; splicing while walking would skip siblings.
	var blocks []*html.Node
	frag.walk(func(n *html.Node) {
		if n.Type != html.ElementNode || n.DataAtom != atom.Code {
			return
		}
		if n.Parent == nil || n.Parent.DataAtom != atom.Pre {
			return
		}
		if languageFromClass(getAttr(n, "class")) != "" {
			blocks = append(blocks, n)
		}
	})
	for _, code := range blocks {
		h.highlightBlock(code)
	}
}

func (h *ChromaHighlighter) highlightBlock(code *html.Node) {
	lang := languageFromClass(getAttr(code, "class"))
	lexer := lexers.Get(lang)
	if lexer == nil {
		return
	}
	rendered, err := h.render(chroma.Coalesce(lexer), textContent(code))
	if err != nil {
		return
	}
	repl, err := ParseFragment(rendered)
	if err != nil || repl.container.FirstChild == nil {
		return
	}
	// The pre always has a parent: every top-level node hangs off the
	// fragment container.
	pre := code.Parent
	parent := pre.Parent
	for c := repl.container.FirstChild; c != nil; c = repl.container.FirstChild {
		repl.container.RemoveChild(c)
		parent.InsertBefore(c, pre)
	}
	parent.RemoveChild(pre)
}

func (h *ChromaHighlighter) render(lexer chroma.Lexer, source string) (string, error) {
	iterator, err := lexer.Tokenise(nil, source)
	if err != nil {
		return "", err
	}
	formatter := chromahtml.New(chromahtml.WithClasses(true))
	var buf bytes.Buffer
	if err := formatter.Format(&buf, h.style, iterator); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func languageFromClass(class string) string {
	for _, f := range strings.Fields(class) {
		if lang := strings.TrimPrefix(f, "language-"); lang != f && lang != "" {
			return lang
		}
	}
	return ""
}
