// Package render turns a post's Markdown body into a sanitized, highlighted,
// navigable HTML view. Markdown conversion, sanitization, and highlighting
// are pluggable capabilities; the pipeline owns only the ordering between
// them and the DOM-level rewrites (asset paths, heading anchors).
package render

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/neonlog/neonlog/manifest"
)

// ErrContentUnavailable is returned when a post body cannot be fetched.
// It is local to a single navigation; the list view stays usable.
var ErrContentUnavailable = errors.New("content unavailable")

// Heading is one table-of-contents entry, in document order.
type Heading struct {
	ID    string
	Label string
}

// View is a fully rendered post: sanitized HTML plus the heading index used
// for in-page navigation. A View is rebuilt in full on every render.
type View struct {
	Slug     string
	Title    string
	Date     string
	Tags     []string
	HTML     string
	Headings []Heading
}

// Converter turns Markdown into an HTML fragment. The output is untrusted
// and must always pass through a Sanitizer before use.
type Converter interface {
	Convert(markdown []byte) (string, error)
}

// Sanitizer reduces an HTML fragment to a safe subset. Implementations must
// strip every script-executing construct.
type Sanitizer interface {
	Sanitize(html string) string
}

// Highlighter rewrites code blocks of a parsed fragment in place. It is a
// best-effort enhancement: implementations leave blocks they cannot handle
// untouched and never fail the render.
type Highlighter interface {
	Highlight(frag Fragment)
}

// Pipeline renders posts using pluggable converter, sanitizer, and
// highlighter capabilities. A Pipeline is safe for concurrent use.
type Pipeline struct {
	fetcher     Fetcher
	converter   Converter
	sanitizer   Sanitizer
	highlighter Highlighter
	assetBase   string
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithConverter replaces the default goldmark converter.
func WithConverter(c Converter) Option {
	return func(p *Pipeline) { p.converter = c }
}

// WithSanitizer replaces the default bluemonday sanitizer.
func WithSanitizer(s Sanitizer) Option {
	return func(p *Pipeline) { p.sanitizer = s }
}

// WithHighlighter replaces the default chroma highlighter. Passing nil
// disables highlighting entirely.
func WithHighlighter(h Highlighter) Option {
	return func(p *Pipeline) { p.highlighter = h }
}

// NewPipeline builds a renderer that fetches post bodies through fetcher and
// resolves relative asset references under assetBase/<slug>/.
func NewPipeline(fetcher Fetcher, assetBase string, opts ...Option) *Pipeline {
	p := &Pipeline{
		fetcher:     fetcher,
		converter:   NewGoldmarkConverter(),
		sanitizer:   NewBluemondaySanitizer(DefaultPolicy()),
		highlighter: NewChromaHighlighter(DefaultChromaStyle),
		assetBase:   strings.TrimSuffix(assetBase, "/"),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// RenderPost fetches, converts, sanitizes, and indexes the body of post.
// The sanitize step is unconditional; highlighting failures are swallowed
// inside the Highlighter.
func (p *Pipeline) RenderPost(ctx context.Context, post manifest.Post) (*View, error) {
	raw, err := p.fetcher.Fetch(ctx, post.Slug+".md")
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrContentUnavailable, post.Slug, err)
	}
	converted, err := p.converter.Convert(raw)
	if err != nil {
		return nil, fmt.Errorf("convert %s: %w", post.Slug, err)
	}
	safe := p.sanitizer.Sanitize(converted)
	frag, err := ParseFragment(safe)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", post.Slug, err)
	}
	frag.RewriteRelativeImages(p.assetBase + "/" + post.Slug)
	headings := frag.IndexHeadings()
	if p.highlighter != nil {
		p.highlighter.Highlight(frag)
	}
	return &View{
		Slug:     post.Slug,
		Title:    post.Title,
		Date:     post.DateString(),
		Tags:     post.Tags,
		HTML:     frag.String(),
		Headings: headings,
	}, nil
}
