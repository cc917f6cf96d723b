package neonlog

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/neonlog/neonlog/render"
)

// newTestApp builds an App over a temporary posts directory without starting
// the server. beta has a manifest entry but no Markdown body, which makes it
// the content-error fixture.
func newTestApp(t *testing.T) *App {
	t.Helper()
	dir := t.TempDir()

	manifestJSON := `{"posts":[
		{"slug":"beta","title":"February Notes","date":"2024-02-05","tags":["go"]},
		{"slug":"alpha","title":"January Update","description":"the first one","date":"2024-01-15","tags":["go","news"]}
	]}`
	if err := os.WriteFile(filepath.Join(dir, "posts.json"), []byte(manifestJSON), 0o644); err != nil {
		t.Fatal(err)
	}
	alphaMD := "## Intro\n\nHello from alpha.\n\n## Details\n\nMore text.\n"
	if err := os.WriteFile(filepath.Join(dir, "alpha.md"), []byte(alphaMD), 0o644); err != nil {
		t.Fatal(err)
	}

	a := New(SiteConfig{
		Name:     "Neon Log",
		URL:      "https://example.com",
		PostsDir: dir,
	})
	store, err := NewStore(filepath.Join(dir, "posts.json"))
	if err != nil {
		t.Fatalf("NewStore failed: %v", err)
	}
	a.Store = store
	a.Renderer = render.NewPipeline(render.DirFetcher{Root: dir}, "/posts")
	return a
}

func homeRequest(a *App, target string) (*httptest.ResponseRecorder, error) {
	req := httptest.NewRequest(http.MethodGet, target, nil)
	rec := httptest.NewRecorder()
	return rec, a.handleHome(a.Echo.NewContext(req, rec))
}

func postRequest(a *App, slug string) (*httptest.ResponseRecorder, error) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := a.Echo.NewContext(req, rec)
	c.SetParamNames("slug")
	c.SetParamValues(slug)
	return rec, a.handlePost(c)
}

func TestHandleHome(t *testing.T) {
	a := newTestApp(t)
	rec, err := homeRequest(a, "/")
	if err != nil {
		t.Fatalf("handleHome failed: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	body := rec.Body.String()
	for _, want := range []string{"January Update", "February Notes", "Neon Log"} {
		if !strings.Contains(body, want) {
			t.Errorf("home body missing %q", want)
		}
	}
	// Newest first.
	if strings.Index(body, "February Notes") > strings.Index(body, "January Update") {
		t.Error("posts not ordered newest first")
	}
}

func TestHandleHomeQueryFilter(t *testing.T) {
	a := newTestApp(t)
	rec, err := homeRequest(a, "/?q=january")
	if err != nil {
		t.Fatalf("handleHome failed: %v", err)
	}
	body := rec.Body.String()
	if !strings.Contains(body, "January Update") {
		t.Error("matching post missing from filtered home")
	}
	if strings.Contains(body, "February Notes") {
		t.Error("non-matching post present in filtered home")
	}
}

func TestHandleHomeTagFilter(t *testing.T) {
	a := newTestApp(t)

	rec, err := homeRequest(a, "/?tag=news")
	if err != nil {
		t.Fatalf("handleHome failed: %v", err)
	}
	body := rec.Body.String()
	if !strings.Contains(body, "January Update") || strings.Contains(body, "February Notes") {
		t.Errorf("tag filter not applied: %s", body)
	}

	// "all" clears the tag filter.
	rec, err = homeRequest(a, "/?tag=all")
	if err != nil {
		t.Fatalf("handleHome failed: %v", err)
	}
	body = rec.Body.String()
	if !strings.Contains(body, "January Update") || !strings.Contains(body, "February Notes") {
		t.Errorf("tag=all should list everything: %s", body)
	}
}

func TestHandleHomeNoResults(t *testing.T) {
	a := newTestApp(t)
	rec, err := homeRequest(a, "/?q=zzz-nothing")
	if err != nil {
		t.Fatalf("handleHome failed: %v", err)
	}
	if !strings.Contains(rec.Body.String(), "No results") {
		t.Error("empty result set should render the no-results card")
	}
}

func TestHandlePost(t *testing.T) {
	a := newTestApp(t)
	rec, err := postRequest(a, "alpha")
	if err != nil {
		t.Fatalf("handlePost failed: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	body := rec.Body.String()
	for _, want := range []string{
		"Hello from alpha.",
		"On this page",
		`href="#intro"`,
		`href="#details"`,
	} {
		if !strings.Contains(body, want) {
			t.Errorf("post body missing %q", want)
		}
	}
}

func TestHandlePostNotFound(t *testing.T) {
	a := newTestApp(t)
	rec, err := postRequest(a, "no-such-post")
	if err != nil {
		t.Fatalf("handlePost failed: %v", err)
	}
	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "Not found") {
		t.Error("404 response should render the not-found view")
	}
}

func TestHandlePostContentError(t *testing.T) {
	a := newTestApp(t)
	rec, err := postRequest(a, "beta")
	if err != nil {
		t.Fatalf("handlePost failed: %v", err)
	}
	if rec.Code != http.StatusInternalServerError {
		t.Errorf("status = %d, want 500", rec.Code)
	}
}

func TestHandleFeedAndSitemap(t *testing.T) {
	a := newTestApp(t)

	req := httptest.NewRequest(http.MethodGet, "/feed.xml", nil)
	rec := httptest.NewRecorder()
	if err := a.handleFeed(a.Echo.NewContext(req, rec)); err != nil {
		t.Fatalf("handleFeed failed: %v", err)
	}
	feed := rec.Body.String()
	if !strings.Contains(feed, "<rss") || !strings.Contains(feed, "January Update") {
		t.Errorf("feed output looks wrong: %s", feed)
	}
	if !strings.Contains(feed, "https://example.com/post/alpha/") {
		t.Errorf("feed missing absolute post link: %s", feed)
	}

	req = httptest.NewRequest(http.MethodGet, "/sitemap.xml", nil)
	rec = httptest.NewRecorder()
	if err := a.handleSitemap(a.Echo.NewContext(req, rec)); err != nil {
		t.Fatalf("handleSitemap failed: %v", err)
	}
	sitemap := rec.Body.String()
	if !strings.Contains(sitemap, "<urlset") || !strings.Contains(sitemap, "https://example.com/post/alpha/") {
		t.Errorf("sitemap output looks wrong: %s", sitemap)
	}
}
