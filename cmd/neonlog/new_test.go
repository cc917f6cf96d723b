package main

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func readManifest(t *testing.T, dir string) postsFile {
	t.Helper()
	data, err := os.ReadFile(filepath.Join(dir, "posts.json"))
	if err != nil {
		t.Fatal(err)
	}
	var pf postsFile
	if err := json.Unmarshal(data, &pf); err != nil {
		t.Fatalf("posts.json is not valid JSON: %v", err)
	}
	return pf
}

func TestCreatePostScaffolds(t *testing.T) {
	dir := t.TempDir()
	entry := postEntry{
		Title:       "My First Post",
		Description: "hello",
		Date:        "2024-01-15",
		Tags:        []string{"go"},
	}
	slug, err := createPost(dir, entry)
	if err != nil {
		t.Fatalf("createPost failed: %v", err)
	}
	if slug != "blg1-15-01-2024-my-first-post" {
		t.Errorf("slug = %q, want %q", slug, "blg1-15-01-2024-my-first-post")
	}

	content, err := os.ReadFile(filepath.Join(dir, slug+".md"))
	if err != nil {
		t.Fatalf("content file missing: %v", err)
	}
	if !strings.HasPrefix(string(content), "# My First Post") {
		t.Errorf("content template wrong: %s", content)
	}
	if fi, err := os.Stat(filepath.Join(dir, slug, "cover.jpg")); err != nil || fi.Size() != 0 {
		t.Errorf("expected empty cover.jpg placeholder, got %v %v", fi, err)
	}

	pf := readManifest(t, dir)
	if len(pf.Posts) != 1 || pf.Posts[0].Slug != slug {
		t.Errorf("manifest = %+v, want the new entry", pf.Posts)
	}
}

func TestCreatePostPrependsNewest(t *testing.T) {
	dir := t.TempDir()
	if _, err := createPost(dir, postEntry{Title: "First", Date: "2024-01-01"}); err != nil {
		t.Fatal(err)
	}
	if _, err := createPost(dir, postEntry{Title: "Second", Date: "2024-02-01"}); err != nil {
		t.Fatal(err)
	}

	pf := readManifest(t, dir)
	if len(pf.Posts) != 2 {
		t.Fatalf("manifest has %d posts, want 2", len(pf.Posts))
	}
	if pf.Posts[0].Title != "Second" || pf.Posts[1].Title != "First" {
		t.Errorf("manifest order = %q then %q, want newest first", pf.Posts[0].Title, pf.Posts[1].Title)
	}
	if !strings.HasPrefix(pf.Posts[0].Slug, "blg2-") {
		t.Errorf("second slug = %q, want blg2- prefix", pf.Posts[0].Slug)
	}
}

func TestReadPostsFile(t *testing.T) {
	dir := t.TempDir()

	pf, err := readPostsFile(filepath.Join(dir, "posts.json"))
	if err != nil {
		t.Fatalf("missing file should load as empty: %v", err)
	}
	if pf.Posts == nil || len(pf.Posts) != 0 {
		t.Errorf("Posts = %v, want empty non-nil slice", pf.Posts)
	}

	path := filepath.Join(dir, "posts.json")
	if err := os.WriteFile(path, []byte("{not json"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := readPostsFile(path); err == nil {
		t.Error("expected error for corrupt posts.json")
	}
}

func TestCreatePostTruncatesLongTitles(t *testing.T) {
	dir := t.TempDir()
	long := strings.Repeat("very long title ", 10)
	slug, err := createPost(dir, postEntry{Title: long, Date: "2024-01-01"})
	if err != nil {
		t.Fatal(err)
	}
	kebab := strings.TrimPrefix(slug, "blg1-01-01-2024-")
	if len(kebab) > maxTitleSlugLen {
		t.Errorf("kebab part is %d chars, want at most %d", len(kebab), maxTitleSlugLen)
	}
}

func TestNextBlogNumber(t *testing.T) {
	tests := []struct {
		slugs []string
		want  int
	}{
		{nil, 1},
		{[]string{"no-prefix"}, 1},
		{[]string{"blg1-01-01-2024-a"}, 2},
		{[]string{"blg3-01-01-2024-a", "blg10-01-01-2024-b", "other"}, 11},
	}
	for _, tt := range tests {
		posts := make([]postEntry, len(tt.slugs))
		for i, s := range tt.slugs {
			posts[i].Slug = s
		}
		if got := nextBlogNumber(posts); got != tt.want {
			t.Errorf("nextBlogNumber(%v) = %d, want %d", tt.slugs, got, tt.want)
		}
	}
}

func TestRunNewValidation(t *testing.T) {
	dir := t.TempDir()

	if err := runNew([]string{"-posts", dir}); err == nil {
		t.Error("expected error for missing -title")
	}
	if err := runNew([]string{"-posts", dir, "-title", "x", "-date", "01-02-2024"}); err == nil {
		t.Error("expected error for DD-MM-YYYY date")
	}
	if err := runNew([]string{"-posts", dir, "-title", "x", "-date", "2024-02-30"}); err == nil {
		t.Error("expected error for impossible date")
	}
	if err := runNew([]string{"-posts", dir, "-title", "x", "-date", "2024-02-10"}); err != nil {
		t.Errorf("valid invocation failed: %v", err)
	}
}

func TestSplitTags(t *testing.T) {
	got := splitTags("go, news, ,")
	if len(got) != 2 || got[0] != "go" || got[1] != "news" {
		t.Errorf("splitTags = %v, want [go news]", got)
	}
	if got := splitTags(""); len(got) != 0 {
		t.Errorf("splitTags(\"\") = %v, want empty", got)
	}
}
