package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/neonlog/neonlog"
)

// postEntry mirrors one manifest entry on disk. The CLI edits the file
// directly so it never reorders or re-dates existing posts.
type postEntry struct {
	Slug        string   `json:"slug"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Date        string   `json:"date"`
	Tags        []string `json:"tags"`
}

type postsFile struct {
	Posts []postEntry `json:"posts"`
}

var (
	reDate       = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)
	reSlugNumber = regexp.MustCompile(`^blg(\d+)-`)
)

const maxTitleSlugLen = 50

func runNew(args []string) error {
	fs := flag.NewFlagSet("new", flag.ExitOnError)
	title := fs.String("title", "", "post title (required)")
	description := fs.String("description", "", "post description (defaults to the title)")
	date := fs.String("date", "", "publication date, YYYY-MM-DD (defaults to today)")
	tags := fs.String("tags", "", "comma-separated tags")
	postsDir := fs.String("posts", neonlog.EnvOr("POSTS_DIR", "posts"), "posts directory")
	if err := fs.Parse(args); err != nil {
		return err
	}

	if *title == "" {
		return fmt.Errorf("missing required flag: -title")
	}

	dateInput := *date
	if dateInput == "" {
		dateInput = time.Now().Format("2006-01-02")
	}
	if !reDate.MatchString(dateInput) {
		return fmt.Errorf("invalid date %q: use YYYY-MM-DD", dateInput)
	}
	if _, err := time.Parse("2006-01-02", dateInput); err != nil {
		return fmt.Errorf("invalid date %q: %v", dateInput, err)
	}

	desc := *description
	if desc == "" {
		desc = *title
	}

	entry := postEntry{
		Title:       *title,
		Description: desc,
		Date:        dateInput,
		Tags:        splitTags(*tags),
	}
	slug, err := createPost(*postsDir, entry)
	if err != nil {
		return err
	}
	fmt.Printf("Created post %s\n", slug)
	fmt.Printf("Content file: %s\n", filepath.Join(*postsDir, slug+".md"))
	fmt.Printf("Asset dir:    %s\n", filepath.Join(*postsDir, slug))
	return nil
}

// createPost computes the slug, scaffolds the content file and asset
// directory, and prepends the entry to posts.json. A duplicate slug aborts
// before anything is written.
func createPost(postsDir string, entry postEntry) (string, error) {
	manifestPath := filepath.Join(postsDir, "posts.json")
	pf, err := readPostsFile(manifestPath)
	if err != nil {
		return "", err
	}

	entry.Slug = buildSlug(entry.Title, nextBlogNumber(pf.Posts), entry.Date)
	for _, p := range pf.Posts {
		if p.Slug == entry.Slug {
			return "", fmt.Errorf("post %s already exists in posts.json", entry.Slug)
		}
	}

	if err := os.MkdirAll(filepath.Join(postsDir, entry.Slug), 0o755); err != nil {
		return "", err
	}
	// Conventional cover location; an empty file keeps the placeholder
	// route active until a real image lands.
	coverPath := filepath.Join(postsDir, entry.Slug, "cover.jpg")
	if _, err := os.Stat(coverPath); os.IsNotExist(err) {
		if err := os.WriteFile(coverPath, nil, 0o644); err != nil {
			return "", err
		}
	}
	contentPath := filepath.Join(postsDir, entry.Slug+".md")
	if _, err := os.Stat(contentPath); os.IsNotExist(err) {
		if err := os.WriteFile(contentPath, []byte(markdownTemplate(entry.Title)), 0o644); err != nil {
			return "", err
		}
	}

	// Newest first.
	pf.Posts = append([]postEntry{entry}, pf.Posts...)
	data, err := json.MarshalIndent(pf, "", "  ")
	if err != nil {
		return "", err
	}
	if err := os.WriteFile(manifestPath, append(data, '\n'), 0o644); err != nil {
		return "", err
	}
	return entry.Slug, nil
}

func readPostsFile(path string) (postsFile, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return postsFile{Posts: []postEntry{}}, nil
	}
	if err != nil {
		return postsFile{}, err
	}
	var pf postsFile
	if err := json.Unmarshal(data, &pf); err != nil {
		return postsFile{}, fmt.Errorf("parse %s: %w", path, err)
	}
	if pf.Posts == nil {
		pf.Posts = []postEntry{}
	}
	return pf, nil
}

// nextBlogNumber returns one more than the highest numeric slug prefix, or 1
// when no post carries one.
func nextBlogNumber(posts []postEntry) int {
	max := 0
	for _, p := range posts {
		m := reSlugNumber.FindStringSubmatch(p.Slug)
		if m == nil {
			continue
		}
		if n, err := strconv.Atoi(m[1]); err == nil && n > max {
			max = n
		}
	}
	return max + 1
}

// buildSlug formats blg<N>-<DD-MM-YYYY>-<kebab-title>.
func buildSlug(title string, number int, date string) string {
	t, _ := time.Parse("2006-01-02", date)
	kebab := neonlog.Slugify(title)
	if len(kebab) > maxTitleSlugLen {
		kebab = kebab[:maxTitleSlugLen]
	}
	return fmt.Sprintf("blg%d-%s-%s", number, t.Format("02-01-2006"), kebab)
}

func splitTags(s string) []string {
	tags := neonlog.FilterEmpty(strings.Split(s, ","))
	if tags == nil {
		return []string{}
	}
	return tags
}

func markdownTemplate(title string) string {
	return "# " + title + "\n\n## Introduction\n\n[Content goes here]\n"
}
