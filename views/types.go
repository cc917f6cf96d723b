// Package views renders the blog's HTML pages as templ components. Every
// interpolated string is HTML-escaped; post bodies arrive pre-sanitized from
// the render pipeline and are the only raw insertion point.
package views

// Site holds site-wide settings handlers pass into every page component.
type Site struct {
	Name        string
	URL         string
	Description string
	Author      string
}

// PageMeta carries per-page metadata into the <head> section.
type PageMeta struct {
	Title       string
	Description string
	URL         string // canonical URL
}
