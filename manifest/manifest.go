// Package manifest loads and indexes the posts.json manifest that drives the
// blog: post metadata, date ordering, and the tag index.
package manifest

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"time"
)

// ErrUnavailable is returned when the manifest cannot be fetched or decoded.
// It is fatal to the whole application; there is no partial load.
var ErrUnavailable = errors.New("manifest unavailable")

// AllTag is the synthetic label representing the unfiltered post set.
const AllTag = "all"

// Post is a single manifest entry.
type Post struct {
	Slug        string
	Title       string
	Description string
	Date        time.Time // zero when the manifest date was missing or malformed
	Tags        []string
}

// DateString formats the post date as YYYY-MM-DD, or "" for the zero date.
func (p Post) DateString() string {
	if p.Date.IsZero() {
		return ""
	}
	return p.Date.Format("2006-01-02")
}

// HasTag reports whether label appears in the post's tag set. Matching is
// exact and case-sensitive.
func (p Post) HasTag(label string) bool {
	for _, t := range p.Tags {
		if t == label {
			return true
		}
	}
	return false
}

// Manifest is the authoritative ordered list of posts, newest first.
// It is never mutated after Parse; filtering produces derived slices.
type Manifest struct {
	Posts []Post
}

type rawManifest struct {
	Posts []rawPost `json:"posts"`
}

type rawPost struct {
	Slug        string   `json:"slug"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Date        string   `json:"date"`
	Tags        []string `json:"tags"`
}

// Parse decodes manifest JSON and returns the posts sorted by date
// descending. Ties keep their manifest order. A post whose date does not
// parse keeps the zero time and therefore sorts last instead of failing the
// whole load.
func Parse(data []byte) (*Manifest, error) {
	var raw rawManifest
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("%w: decode: %v", ErrUnavailable, err)
	}
	if raw.Posts == nil {
		return nil, fmt.Errorf("%w: missing posts field", ErrUnavailable)
	}
	posts := make([]Post, 0, len(raw.Posts))
	for i, rp := range raw.Posts {
		if rp.Slug == "" || rp.Title == "" {
			return nil, fmt.Errorf("%w: post %d missing slug or title", ErrUnavailable, i)
		}
		date, err := time.Parse("2006-01-02", rp.Date)
		if err != nil {
			date = time.Time{}
		}
		posts = append(posts, Post{
			Slug:        rp.Slug,
			Title:       rp.Title,
			Description: rp.Description,
			Date:        date,
			Tags:        rp.Tags,
		})
	}
	sort.SliceStable(posts, func(i, j int) bool {
		return posts[i].Date.After(posts[j].Date)
	})
	return &Manifest{Posts: posts}, nil
}

// Len returns the number of posts.
func (m *Manifest) Len() int {
	return len(m.Posts)
}

// Lookup returns the post with the given slug. When a manifest violates slug
// uniqueness the first occurrence wins; duplicates are a data-contract error
// the engine tolerates rather than crashes on.
func (m *Manifest) Lookup(slug string) (Post, bool) {
	for _, p := range m.Posts {
		if p.Slug == slug {
			return p, true
		}
	}
	return Post{}, false
}

// TagIndex maps tag labels to post counts, together with the ordered label
// list shown as filter pills.
type TagIndex struct {
	// Counts holds how many posts carry each label. A post contributes at
	// most once per label even when its tag list repeats it.
	Counts map[string]int
	// Labels is AllTag followed by every distinct label in lexicographic order.
	Labels []string

	total int
}

// BuildTagIndex derives the tag index from m.
func BuildTagIndex(m *Manifest) TagIndex {
	counts := make(map[string]int)
	for _, p := range m.Posts {
		seen := make(map[string]struct{}, len(p.Tags))
		for _, t := range p.Tags {
			if _, dup := seen[t]; dup {
				continue
			}
			seen[t] = struct{}{}
			counts[t]++
		}
	}
	labels := make([]string, 0, len(counts)+1)
	for t := range counts {
		labels = append(labels, t)
	}
	sort.Strings(labels)
	labels = append([]string{AllTag}, labels...)
	return TagIndex{Counts: counts, Labels: labels, total: m.Len()}
}

// Count returns the number of posts carrying label; AllTag counts every post.
func (ix TagIndex) Count(label string) int {
	if label == AllTag {
		return ix.total
	}
	return ix.Counts[label]
}
