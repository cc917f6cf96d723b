package views

import (
	"context"
	"html"
	"io"
	"net/url"
	"strconv"
	"strings"

	"github.com/a-h/templ"

	"github.com/neonlog/neonlog/controller"
	"github.com/neonlog/neonlog/manifest"
	"github.com/neonlog/neonlog/render"
)

// page wraps a body writer in the shared document layout.
func page(site Site, meta PageMeta, body func(b *strings.Builder)) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		var b strings.Builder
		b.WriteString("<!DOCTYPE html><html lang=\"en\"><head><meta charset=\"utf-8\"/>")
		b.WriteString("<meta name=\"viewport\" content=\"width=device-width, initial-scale=1\"/>")
		title := meta.Title
		if title == "" {
			title = site.Name
		} else {
			title += " · " + site.Name
		}
		b.WriteString("<title>" + html.EscapeString(title) + "</title>")
		if meta.Description != "" {
			b.WriteString("<meta name=\"description\" content=\"" + html.EscapeString(meta.Description) + "\"/>")
		}
		if meta.URL != "" {
			b.WriteString("<link rel=\"canonical\" href=\"" + html.EscapeString(meta.URL) + "\"/>")
		}
		b.WriteString("<link rel=\"alternate\" type=\"application/rss+xml\" href=\"/feed.xml\"/>")
		b.WriteString("<link rel=\"stylesheet\" href=\"/public/theme.css\"/>")
		b.WriteString("</head><body>")
		b.WriteString("<header class=\"site-header\"><a class=\"site-title\" href=\"/\">" + html.EscapeString(site.Name) + "</a></header>")
		b.WriteString("<main>")
		body(&b)
		b.WriteString("</main></body></html>")
		_, err := io.WriteString(w, b.String())
		return err
	})
}

// Home renders the list view: search form, tag pills with counts, and one
// card per matching post.
func Home(site Site, list controller.ListView) templ.Component {
	meta := PageMeta{Description: site.Description, URL: buildURL(site.URL)}
	return page(site, meta, func(b *strings.Builder) {
		b.WriteString("<script type=\"application/ld+json\">" + WebsiteJsonLD(site) + "</script>")
		b.WriteString("<form class=\"search\" method=\"get\" action=\"/\">")
		b.WriteString("<input type=\"search\" name=\"q\" placeholder=\"Search posts\" value=\"" + html.EscapeString(list.Query) + "\"/>")
		if list.ActiveTag != "" {
			b.WriteString("<input type=\"hidden\" name=\"tag\" value=\"" + html.EscapeString(list.ActiveTag) + "\"/>")
		}
		b.WriteString("</form>")
		writeTagPills(b, list)
		writePostList(b, list)
	})
}

func writeTagPills(b *strings.Builder, list controller.ListView) {
	b.WriteString("<nav class=\"tags\">")
	for _, tc := range list.Tags {
		class := "tag"
		if tc.Active {
			class += " active"
		}
		href := "/"
		if tc.Label != manifest.AllTag {
			href = "/?tag=" + url.QueryEscape(tc.Label)
		}
		b.WriteString("<a class=\"" + class + "\" href=\"" + html.EscapeString(href) + "\">")
		b.WriteString(html.EscapeString(tc.Label))
		b.WriteString(" <span class=\"tag-count\">" + strconv.Itoa(tc.Count) + "</span></a>")
	}
	b.WriteString("</nav>")
}

func writePostList(b *strings.Builder, list controller.ListView) {
	if len(list.Posts) == 0 {
		b.WriteString("<div class=\"card\"><h3>No results</h3><p>")
		if list.Query != "" {
			b.WriteString("Nothing found for &quot;" + html.EscapeString(list.Query) + "&quot;")
		} else {
			b.WriteString("Try another keyword or clear filters.")
		}
		b.WriteString("</p></div>")
		return
	}
	b.WriteString("<div class=\"post-list\">")
	for _, p := range list.Posts {
		b.WriteString("<a class=\"card\" href=\"/post/" + url.PathEscape(p.Slug) + "/\">")
		b.WriteString("<h3>" + html.EscapeString(p.Title) + "</h3>")
		b.WriteString("<p>" + html.EscapeString(p.Description) + "</p>")
		b.WriteString("<div class=\"meta\"><span>" + html.EscapeString(p.DateString()) + "</span><div class=\"tags\">")
		for _, t := range p.Tags {
			b.WriteString("<span class=\"tag\">" + html.EscapeString(t) + "</span>")
		}
		b.WriteString("</div></div></a>")
	}
	b.WriteString("</div>")
}

// PostPage renders a single post: header metadata, table of contents, the
// sanitized body, and related posts. view.HTML must come from the render
// pipeline; it is inserted without further escaping.
func PostPage(site Site, view *render.View, post manifest.Post, related []manifest.Post) templ.Component {
	meta := PageMeta{
		Title:       view.Title,
		Description: post.Description,
		URL:         buildURL(site.URL, "post", view.Slug),
	}
	return page(site, meta, func(b *strings.Builder) {
		b.WriteString("<script type=\"application/ld+json\">" + BlogPostingJsonLD(post, site) + "</script>")
		b.WriteString("<article class=\"post\">")
		b.WriteString("<a class=\"back-link\" href=\"/\">&larr; All posts</a>")
		b.WriteString("<h1>" + html.EscapeString(view.Title) + "</h1>")
		b.WriteString("<div class=\"meta\"><time datetime=\"" + html.EscapeString(view.Date) + "\">" + html.EscapeString(view.Date) + "</time><div class=\"tags\">")
		for _, t := range view.Tags {
			b.WriteString("<a class=\"tag\" href=\"/?tag=" + url.QueryEscape(t) + "\">" + html.EscapeString(t) + "</a>")
		}
		b.WriteString("</div></div>")
		writeToc(b, view.Headings)
		b.WriteString("<div class=\"post-content\">")
		b.WriteString(view.HTML)
		b.WriteString("</div>")
		writeRelated(b, related)
		b.WriteString("</article>")
	})
}

func writeToc(b *strings.Builder, headings []render.Heading) {
	if len(headings) == 0 {
		return
	}
	b.WriteString("<nav class=\"toc\"><h4>On this page</h4>")
	for _, h := range headings {
		b.WriteString("<a href=\"#" + html.EscapeString(h.ID) + "\">" + html.EscapeString(h.Label) + "</a>")
	}
	b.WriteString("</nav>")
}

func writeRelated(b *strings.Builder, related []manifest.Post) {
	if len(related) == 0 {
		return
	}
	b.WriteString("<aside class=\"related\"><h4>Related posts</h4>")
	for _, p := range related {
		b.WriteString("<a href=\"/post/" + url.PathEscape(p.Slug) + "/\">" + html.EscapeString(p.Title) + "</a>")
	}
	b.WriteString("</aside>")
}

// PostError renders the in-place error view for a post whose body failed to
// load. The list view stays reachable through the layout header.
func PostError(site Site, slug string) templ.Component {
	return page(site, PageMeta{Title: "Error"}, func(b *strings.Builder) {
		b.WriteString("<div class=\"card\"><h3>Could not load post</h3><p>")
		b.WriteString("The content for &quot;" + html.EscapeString(slug) + "&quot; is unavailable right now.")
		b.WriteString("</p><a class=\"back-link\" href=\"/\">&larr; All posts</a></div>")
	})
}

// NotFound renders the dedicated not-found view.
func NotFound(site Site) templ.Component {
	return page(site, PageMeta{Title: "Not found"}, func(b *strings.Builder) {
		b.WriteString("<div class=\"card\"><h3>Not found</h3><p>Post not found.</p>")
		b.WriteString("<a class=\"back-link\" href=\"/\">&larr; All posts</a></div>")
	})
}

// ServerError renders the generic failure page.
func ServerError(site Site) templ.Component {
	return page(site, PageMeta{Title: "Server error"}, func(b *strings.Builder) {
		b.WriteString("<div class=\"card\"><h3>Something went wrong</h3><p>Please try again later.</p></div>")
	})
}
