// Package controller owns the UI state of the blog engine: the active view,
// the filter state, and the navigation lifecycle. All view mutation flows
// through a single Sink so the presentation layer stays swappable and the
// ordering guarantees (debounced search, stale-render discarding) can be
// tested without a browser.
package controller

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"github.com/neonlog/neonlog/manifest"
	"github.com/neonlog/neonlog/render"
	"github.com/neonlog/neonlog/router"
)

// State identifies the controller's current view state.
type State int

const (
	StateHome State = iota
	StatePostLoading
	StatePost
	StatePostNotFound
	StatePostError
)

func (s State) String() string {
	switch s {
	case StateHome:
		return "home"
	case StatePostLoading:
		return "post-loading"
	case StatePost:
		return "post"
	case StatePostNotFound:
		return "post-not-found"
	case StatePostError:
		return "post-error"
	}
	return "unknown"
}

// TagCount is one tag pill in the list view.
type TagCount struct {
	Label  string
	Count  int
	Active bool
}

// ListView is everything a sink needs to render the home list.
type ListView struct {
	Posts     []manifest.Post
	Tags      []TagCount
	Query     string
	ActiveTag string // empty when "all" is selected
}

// Sink receives every view mutation the controller performs. Calls are
// serialized; implementations must not call back into the controller from
// inside a sink method. Exactly one of the home and post containers is
// visible at a time, switched via ShowHome/ShowPost.
type Sink interface {
	ShowHome()
	ShowPost()
	RenderList(list ListView)
	RenderPostLoading(slug string)
	RenderPost(view *render.View)
	RenderPostNotFound(slug string)
	RenderPostError(slug string, err error)
	// ScrollTo positions the post view at the element with the given id,
	// or at the top when id is empty. Missing targets are a no-op.
	ScrollTo(id string)
}

const defaultDebounce = 150 * time.Millisecond

// Controller drives the state machine between the list view and the
// single-post view.
type Controller struct {
	mu       sync.Mutex
	posts    *manifest.Manifest
	tags     manifest.TagIndex
	renderer *render.Pipeline
	sink     Sink

	state   State
	route   router.Route
	filter  manifest.Filter
	mounted string // slug whose content is currently mounted

	gen      uint64 // navigation generation; guards stale async commits
	queryGen uint64 // search generation; only the latest timer may apply

	debounce      *time.Timer
	debounceDelay time.Duration
	anchorDelay   time.Duration

	rng      *rand.Rand
	inflight sync.WaitGroup
}

// Option configures a Controller.
type Option func(*Controller)

// WithDebounce sets the search debounce delay. Zero applies queries
// immediately.
func WithDebounce(d time.Duration) Option {
	return func(c *Controller) { c.debounceDelay = d }
}

// WithAnchorDelay defers anchor scrolling by d after a post mounts, giving
// the host time to lay the new content out before measuring positions.
func WithAnchorDelay(d time.Duration) Option {
	return func(c *Controller) { c.anchorDelay = d }
}

// WithRandSource fixes the source behind Random, mainly for tests.
func WithRandSource(src rand.Source) Option {
	return func(c *Controller) { c.rng = rand.New(src) }
}

// New builds a controller over an already loaded manifest.
func New(m *manifest.Manifest, renderer *render.Pipeline, sink Sink, opts ...Option) *Controller {
	c := &Controller{
		posts:         m,
		tags:          manifest.BuildTagIndex(m),
		renderer:      renderer,
		sink:          sink,
		state:         StateHome,
		debounceDelay: defaultDebounce,
		rng:           rand.New(rand.NewSource(time.Now().UnixNano())),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Start renders the initial list and resolves the starting fragment.
func (c *Controller) Start(fragment string) {
	c.mu.Lock()
	c.sink.RenderList(c.listViewLocked())
	c.mu.Unlock()
	c.Navigate(fragment)
}

// Navigate resolves a location fragment and drives the state machine.
// A navigation that arrives while a previous post render is still in flight
// supersedes it: the stale result is discarded when it resolves.
func (c *Controller) Navigate(fragment string) {
	r := router.Parse(fragment)
	c.mu.Lock()
	defer c.mu.Unlock()
	c.gen++
	c.route = r

	if r.Kind == router.Home {
		c.state = StateHome
		c.sink.ShowHome()
		return
	}

	// Anchor-only change within the mounted post: re-resolve the anchor
	// without re-fetching.
	if c.state == StatePost && c.mounted == r.Slug {
		c.sink.ShowPost()
		c.scrollLocked(r.Anchor, c.gen)
		return
	}

	post, ok := c.posts.Lookup(r.Slug)
	if !ok {
		c.state = StatePostNotFound
		c.mounted = ""
		c.sink.RenderPostNotFound(r.Slug)
		c.sink.ShowPost()
		return
	}

	c.state = StatePostLoading
	c.mounted = ""
	c.sink.RenderPostLoading(r.Slug)
	c.sink.ShowPost()

	gen := c.gen
	c.inflight.Add(1)
	go c.renderPost(post, gen, r.Anchor)
}

// renderPost runs the asynchronous part of a post navigation. The result is
// committed only if the navigation that requested it is still current.
func (c *Controller) renderPost(post manifest.Post, gen uint64, anchor string) {
	defer c.inflight.Done()
	view, err := c.renderer.RenderPost(context.Background(), post)

	c.mu.Lock()
	defer c.mu.Unlock()
	if gen != c.gen {
		// Superseded by a newer navigation; drop the result.
		return
	}
	if err != nil {
		c.state = StatePostError
		c.sink.RenderPostError(post.Slug, err)
		return
	}
	c.state = StatePost
	c.mounted = post.Slug
	c.sink.RenderPost(view)
	c.scrollLocked(anchor, gen)
}

func (c *Controller) scrollLocked(anchor string, gen uint64) {
	if c.anchorDelay <= 0 {
		c.sink.ScrollTo(anchor)
		return
	}
	time.AfterFunc(c.anchorDelay, func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		if gen == c.gen {
			c.sink.ScrollTo(anchor)
		}
	})
}

// SetQuery schedules a search update after the debounce delay. A newer call
// cancels any pending one, so the list only ever re-renders for the latest
// query.
func (c *Controller) SetQuery(query string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.queryGen++
	if c.debounce != nil {
		c.debounce.Stop()
	}
	if c.debounceDelay <= 0 {
		c.applyQueryLocked(query)
		return
	}
	gen := c.queryGen
	c.debounce = time.AfterFunc(c.debounceDelay, func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		if gen == c.queryGen {
			c.applyQueryLocked(query)
		}
	})
}

// ClearQuery cancels any pending search update and resets the query
// immediately (the escape-key path).
func (c *Controller) ClearQuery() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.queryGen++
	if c.debounce != nil {
		c.debounce.Stop()
	}
	c.applyQueryLocked("")
}

// applyQueryLocked stores the query exactly as typed so the view can echo it
// back; matching normalizes case and whitespace on its own.
func (c *Controller) applyQueryLocked(query string) {
	c.filter.Query = query
	c.sink.RenderList(c.listViewLocked())
}

// SetTag sets the active tag filter and re-renders the list immediately.
// The "all" label or an empty string clears the filter.
func (c *Controller) SetTag(tag string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if tag == manifest.AllTag {
		tag = ""
	}
	c.filter.Tag = tag
	c.sink.RenderList(c.listViewLocked())
}

// Random navigates to a uniformly chosen post. No-op on an empty manifest.
func (c *Controller) Random() {
	c.mu.Lock()
	n := c.posts.Len()
	if n == 0 {
		c.mu.Unlock()
		return
	}
	slug := c.posts.Posts[c.rng.Intn(n)].Slug
	c.mu.Unlock()
	c.Navigate(router.Route{Kind: router.Post, Slug: slug}.Fragment())
}

// Wait blocks until no post render is in flight. Exporters and tests use it
// to observe a settled state.
func (c *Controller) Wait() {
	c.inflight.Wait()
}

// State returns the current view state.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Route returns the current route.
func (c *Controller) Route() router.Route {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.route
}

// Filter returns the current filter state.
func (c *Controller) Filter() manifest.Filter {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.filter
}

func (c *Controller) listViewLocked() ListView {
	return BuildListView(c.posts, c.tags, c.filter)
}

// BuildListView assembles the list view model for a manifest, tag index, and
// filter. The server handlers share it with the controller.
func BuildListView(m *manifest.Manifest, ix manifest.TagIndex, f manifest.Filter) ListView {
	tags := make([]TagCount, 0, len(ix.Labels))
	for _, label := range ix.Labels {
		active := f.Tag == label || (f.Tag == "" && label == manifest.AllTag)
		tags = append(tags, TagCount{Label: label, Count: ix.Count(label), Active: active})
	}
	return ListView{
		Posts:     manifest.Apply(m, f),
		Tags:      tags,
		Query:     f.Query,
		ActiveTag: f.Tag,
	}
}
