package render

import (
	"bytes"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer/html"
)

// GoldmarkConverter renders Markdown with GFM extensions and auto-generated
// heading identifiers. Raw HTML passes through unmodified; the downstream
// sanitizer is the single place where unsafe markup is removed.
type GoldmarkConverter struct {
	md goldmark.Markdown
}

// NewGoldmarkConverter builds the default converter. It is stateless and can
// be shared across renders without locking.
func NewGoldmarkConverter() *GoldmarkConverter {
	return &GoldmarkConverter{
		md: goldmark.New(
			goldmark.WithExtensions(extension.GFM),
			goldmark.WithParserOptions(parser.WithAutoHeadingID()),
			goldmark.WithRendererOptions(html.WithUnsafe()),
		),
	}
}

// Convert renders markdown into an HTML fragment.
func (c *GoldmarkConverter) Convert(markdown []byte) (string, error) {
	var buf bytes.Buffer
	if err := c.md.Convert(markdown, &buf); err != nil {
		return "", err
	}
	return buf.String(), nil
}
