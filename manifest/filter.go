package manifest

import "strings"

// Filter is the combination of free-text query and selected tag narrowing
// the visible post list.
type Filter struct {
	Query string // case-insensitive substring; whitespace is trimmed
	Tag   string // exact label; empty means no tag filter
}

// IsZero reports whether f filters nothing out.
func (f Filter) IsZero() bool {
	return strings.TrimSpace(f.Query) == "" && f.Tag == ""
}

// Matches reports whether p satisfies both the query and the tag criteria.
// The query is matched case-insensitively against the concatenation of slug,
// title, description, and tags; an empty query matches everything. The tag
// must be an exact member of the post's tag set; an empty tag matches
// everything. It is a pure function with no side effects.
func Matches(p Post, f Filter) bool {
	q := strings.ToLower(strings.TrimSpace(f.Query))
	if q != "" {
		hay := strings.ToLower(p.Slug + " " + p.Title + " " + p.Description + " " + strings.Join(p.Tags, " "))
		if !strings.Contains(hay, q) {
			return false
		}
	}
	if f.Tag != "" && !p.HasTag(f.Tag) {
		return false
	}
	return true
}

// Apply returns the posts in m matching f, preserving manifest order.
func Apply(m *Manifest, f Filter) []Post {
	out := make([]Post, 0, len(m.Posts))
	for _, p := range m.Posts {
		if Matches(p, f) {
			out = append(out, p)
		}
	}
	return out
}
