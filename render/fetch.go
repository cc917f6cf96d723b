package render

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
)

// Fetcher retrieves a raw content document by name relative to the posts root.
type Fetcher interface {
	Fetch(ctx context.Context, name string) ([]byte, error)
}

// DirFetcher reads content from a directory on disk.
type DirFetcher struct {
	Root string
}

// Fetch reads name under the root directory. Names escaping the root are
// rejected.
func (f DirFetcher) Fetch(_ context.Context, name string) ([]byte, error) {
	clean := filepath.Clean(name)
	if strings.HasPrefix(clean, "..") || filepath.IsAbs(clean) {
		return nil, fmt.Errorf("invalid content name %q", name)
	}
	return os.ReadFile(filepath.Join(f.Root, clean))
}

// HTTPFetcher retrieves content over HTTP from a base URL.
type HTTPFetcher struct {
	Base   string
	Client *http.Client
}

// Fetch issues a GET for base/name and fails on any non-200 status.
func (f HTTPFetcher) Fetch(ctx context.Context, name string) ([]byte, error) {
	client := f.Client
	if client == nil {
		client = http.DefaultClient
	}
	url := strings.TrimSuffix(f.Base, "/") + "/" + name
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch %s: status %d", url, resp.StatusCode)
	}
	return io.ReadAll(resp.Body)
}
