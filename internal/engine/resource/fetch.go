package resource

import (
	"context"
	"fmt"
	"io"
	"io/fs"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"
)

// Fetcher retrieves the raw bytes of a named resource. Implementations must
// be safe to call from several goroutines.
type Fetcher interface {
	Fetch(ctx context.Context, name, contentType string) ([]byte, error)
}

// NewFetcher returns an HTTPFetcher for http(s) roots and a FileFetcher
// for anything else.
func NewFetcher(root string, timeout time.Duration) (Fetcher, error) {
	if strings.HasPrefix(root, "http://") || strings.HasPrefix(root, "https://") {
		return NewHTTPFetcher(root, timeout)
	}
	return NewFileFetcher(root), nil
}

// FileFetcher reads resources from a directory tree.
type FileFetcher struct {
	fsys fs.FS
}

// NewFileFetcher creates a fetcher rooted at dir.
func NewFileFetcher(dir string) *FileFetcher {
	return &FileFetcher{fsys: os.DirFS(dir)}
}

// NewFSFetcher creates a fetcher reading from fsys.
func NewFSFetcher(fsys fs.FS) *FileFetcher {
	return &FileFetcher{fsys: fsys}
}

// Fetch reads name relative to the root. Names must be slash-separated and
// may not escape the root.
func (f *FileFetcher) Fetch(ctx context.Context, name, _ string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	clean := strings.TrimPrefix(name, "/")
	if !fs.ValidPath(clean) {
		return nil, fmt.Errorf("invalid resource name %q", name)
	}
	data, err := fs.ReadFile(f.fsys, clean)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", name, err)
	}
	return data, nil
}

// HTTPFetcher retrieves resources relative to a base URL.
type HTTPFetcher struct {
	base   *url.URL
	client *http.Client
}

// NewHTTPFetcher creates a fetcher for base with a per-request timeout.
func NewHTTPFetcher(base string, timeout time.Duration) (*HTTPFetcher, error) {
	u, err := url.Parse(base)
	if err != nil {
		return nil, fmt.Errorf("parsing asset base URL: %w", err)
	}
	if !strings.HasSuffix(u.Path, "/") {
		u.Path += "/"
	}
	return &HTTPFetcher{
		base:   u,
		client: &http.Client{Timeout: timeout},
	}, nil
}

// Fetch issues a GET for name resolved against the base URL.
func (f *HTTPFetcher) Fetch(ctx context.Context, name, contentType string) ([]byte, error) {
	ref, err := url.Parse(strings.TrimPrefix(name, "/"))
	if err != nil {
		return nil, fmt.Errorf("invalid resource name %q: %w", name, err)
	}
	target := f.base.ResolveReference(ref)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("building request for %s: %w", name, err)
	}
	if contentType != "" {
		req.Header.Set("Accept", contentType)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching %s: %w", name, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("fetching %s: %s", name, resp.Status)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", name, err)
	}
	return data, nil
}
