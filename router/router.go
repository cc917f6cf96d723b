// Package router parses location fragments into navigation intents.
package router

import "regexp"

// Kind distinguishes the two navigation targets.
type Kind int

const (
	// Home is the list view.
	Home Kind = iota
	// Post is a single-post view, optionally with an in-page anchor.
	Post
)

// Route is the parsed navigation intent derived from a location fragment.
// It has no lifecycle beyond the string it was parsed from.
type Route struct {
	Kind   Kind
	Slug   string
	Anchor string
}

var (
	rePost = regexp.MustCompile(`^#/post/([A-Za-z0-9_-]+)(?:#([A-Za-z0-9_-]+))?$`)
	reSlug = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)
)

// Parse maps a location fragment to a Route. Fragments matching
// #/post/<slug>[#<anchor>] resolve to a Post route; everything else,
// malformed input included, falls back to Home. The whole fragment must
// match the grammar, so trailing garbage invalidates the route. Parse
// never fails.
func Parse(fragment string) Route {
	m := rePost.FindStringSubmatch(fragment)
	if m == nil {
		return Route{Kind: Home}
	}
	return Route{Kind: Post, Slug: m[1], Anchor: m[2]}
}

// Fragment formats r back into a location fragment. Home routes format as
// the empty fragment.
func (r Route) Fragment() string {
	if r.Kind != Post {
		return ""
	}
	f := "#/post/" + r.Slug
	if r.Anchor != "" {
		f += "#" + r.Anchor
	}
	return f
}

// ValidSlug reports whether s is a well-formed slug token. Handlers use it
// to reject path segments before touching the filesystem.
func ValidSlug(s string) bool {
	return reSlug.MatchString(s)
}
