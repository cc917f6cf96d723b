package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/a-h/templ"

	"github.com/neonlog/neonlog"
	"github.com/neonlog/neonlog/controller"
	"github.com/neonlog/neonlog/manifest"
	"github.com/neonlog/neonlog/render"
	"github.com/neonlog/neonlog/router"
	"github.com/neonlog/neonlog/views"
)

func runExport(args []string) error {
	fs := flag.NewFlagSet("export", flag.ExitOnError)
	postsDir := fs.String("posts", neonlog.EnvOr("POSTS_DIR", "posts"), "posts directory")
	outDir := fs.String("out", "dist", "output directory")
	if err := fs.Parse(args); err != nil {
		return err
	}

	site := views.Site{
		Name:        neonlog.EnvOr("SITE_NAME", "Blog"),
		URL:         neonlog.EnvOr("SITE_URL", "http://localhost:3000"),
		Description: os.Getenv("SITE_DESCRIPTION"),
		Author:      os.Getenv("SITE_AUTHOR"),
	}

	data, err := os.ReadFile(filepath.Join(*postsDir, "posts.json"))
	if err != nil {
		return fmt.Errorf("%w: %v", manifest.ErrUnavailable, err)
	}
	m, err := manifest.Parse(data)
	if err != nil {
		return err
	}

	pipeline := render.NewPipeline(render.DirFetcher{Root: *postsDir}, "/posts")
	sink := &exportSink{site: site, out: *outDir, posts: m.Posts}
	// No debounce: the exporter drives the controller synchronously.
	ctrl := controller.New(m, pipeline, sink, controller.WithDebounce(0))

	ctrl.Start("")
	for _, p := range m.Posts {
		ctrl.Navigate(router.Route{Kind: router.Post, Slug: p.Slug}.Fragment())
		ctrl.Wait()
	}
	if sink.firstErr != nil {
		return sink.firstErr
	}
	fmt.Printf("Exported %d posts to %s\n", m.Len(), *outDir)
	fmt.Println("Serve the exported site with the posts directory mounted at /posts.")
	return nil
}

// exportSink writes each mounted view to disk. It implements
// controller.Sink, so the export path exercises the same pipeline and
// navigation lifecycle as an interactive host.
type exportSink struct {
	site  views.Site
	out   string
	posts []manifest.Post

	mu       sync.Mutex
	firstErr error
}

func (s *exportSink) RenderList(list controller.ListView) {
	s.writePage(filepath.Join(s.out, "index.html"), views.Home(s.site, list))
}

func (s *exportSink) RenderPost(view *render.View) {
	post, ok := manifestLookup(s.posts, view.Slug)
	if !ok {
		return
	}
	related := views.Related(post, s.posts)
	path := filepath.Join(s.out, "post", view.Slug, "index.html")
	s.writePage(path, views.PostPage(s.site, view, post, related))
}

func (s *exportSink) RenderPostNotFound(slug string) {
	s.fail(fmt.Errorf("post %s: not in manifest", slug))
}

func (s *exportSink) RenderPostError(slug string, err error) {
	s.fail(fmt.Errorf("post %s: %w", slug, err))
}

func (s *exportSink) ShowHome()                {}
func (s *exportSink) ShowPost()                {}
func (s *exportSink) RenderPostLoading(string) {}
func (s *exportSink) ScrollTo(string)          {}

func (s *exportSink) writePage(path string, cmp templ.Component) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		s.fail(err)
		return
	}
	f, err := os.Create(path)
	if err != nil {
		s.fail(err)
		return
	}
	defer f.Close()
	if err := cmp.Render(context.Background(), f); err != nil {
		s.fail(fmt.Errorf("render %s: %w", path, err))
	}
}

func (s *exportSink) fail(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.firstErr == nil {
		s.firstErr = err
	}
}

func manifestLookup(posts []manifest.Post, slug string) (manifest.Post, bool) {
	for _, p := range posts {
		if p.Slug == slug {
			return p, true
		}
	}
	return manifest.Post{}, false
}
