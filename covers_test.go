package neonlog

import (
	"bytes"
	"image/jpeg"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/labstack/echo/v4"
)

func TestPlaceholderCoverDeterministic(t *testing.T) {
	first, err := placeholderCover("blg1-01-01-2024-alpha")
	if err != nil {
		t.Fatalf("placeholderCover failed: %v", err)
	}
	second, err := placeholderCover("blg1-01-01-2024-alpha")
	if err != nil {
		t.Fatalf("placeholderCover failed: %v", err)
	}
	if !bytes.Equal(first, second) {
		t.Error("placeholder for the same slug must be stable")
	}

	other, err := placeholderCover("blg2-01-01-2024-beta")
	if err != nil {
		t.Fatalf("placeholderCover failed: %v", err)
	}
	if bytes.Equal(first, other) {
		t.Error("different slugs should get different placeholders")
	}
}

func TestPlaceholderCoverDimensions(t *testing.T) {
	data, err := placeholderCover("alpha")
	if err != nil {
		t.Fatalf("placeholderCover failed: %v", err)
	}
	img, err := jpeg.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("placeholder is not a valid JPEG: %v", err)
	}
	b := img.Bounds()
	if b.Dx() != coverWidth || b.Dy() != coverHeight {
		t.Errorf("placeholder is %dx%d, want %dx%d", b.Dx(), b.Dy(), coverWidth, coverHeight)
	}
}

func coverRequest(a *App, slug string) (*httptest.ResponseRecorder, error) {
	// The request path is irrelevant to the handler; the slug arrives as a
	// route param.
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := a.Echo.NewContext(req, rec)
	c.SetParamNames("slug")
	c.SetParamValues(slug)
	return rec, a.handleCover(c)
}

func TestHandleCoverRejectsInvalidSlug(t *testing.T) {
	a := New(SiteConfig{PostsDir: t.TempDir()})
	_, err := coverRequest(a, "bad slug")
	he, ok := err.(*echo.HTTPError)
	if !ok || he.Code != http.StatusNotFound {
		t.Fatalf("expected 404 HTTPError for invalid slug, got %v", err)
	}
}

func TestHandleCoverServesPlaceholder(t *testing.T) {
	a := New(SiteConfig{PostsDir: t.TempDir()})
	rec, err := coverRequest(a, "alpha")
	if err != nil {
		t.Fatalf("handleCover failed: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if ct := rec.Header().Get(echo.HeaderContentType); ct != "image/jpeg" {
		t.Errorf("content type = %q, want image/jpeg", ct)
	}
	if _, err := jpeg.Decode(rec.Body); err != nil {
		t.Errorf("placeholder body is not a valid JPEG: %v", err)
	}
}

func TestHandleCoverServesRealFile(t *testing.T) {
	dir := t.TempDir()
	a := New(SiteConfig{PostsDir: dir})

	cover := []byte("\xff\xd8\xff\xdbfake-jpeg-bytes")
	if err := os.MkdirAll(filepath.Join(dir, "alpha"), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "alpha", "cover.jpg"), cover, 0o644); err != nil {
		t.Fatal(err)
	}

	rec, err := coverRequest(a, "alpha")
	if err != nil {
		t.Fatalf("handleCover failed: %v", err)
	}
	if !bytes.Equal(rec.Body.Bytes(), cover) {
		t.Error("existing cover.jpg should be served as-is")
	}
}

func TestHandleCoverEmptyFileFallsBack(t *testing.T) {
	dir := t.TempDir()
	a := New(SiteConfig{PostsDir: dir})

	if err := os.MkdirAll(filepath.Join(dir, "alpha"), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "alpha", "cover.jpg"), nil, 0o644); err != nil {
		t.Fatal(err)
	}

	rec, err := coverRequest(a, "alpha")
	if err != nil {
		t.Fatalf("handleCover failed: %v", err)
	}
	if _, err := jpeg.Decode(rec.Body); err != nil {
		t.Errorf("empty cover.jpg should fall back to the placeholder: %v", err)
	}
}
