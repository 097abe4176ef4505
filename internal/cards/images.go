// Package cards fetches and caches card art from the dealer's static asset
// tree. A card's filename is its visual identity, so the cache is keyed on
// it; a filename is fetched at most once per process.
package cards

import (
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"fyne.io/fyne/v2"
)

// ImageCache resolves card filenames to fyne resources.
type ImageCache struct {
	baseURL string
	client  *http.Client

	mu        sync.Mutex
	resources map[string]fyne.Resource
}

// NewImageCache creates a cache fetching from the given dealer base URL.
func NewImageCache(baseURL string) *ImageCache {
	return &ImageCache{
		baseURL:   baseURL,
		client:    &http.Client{Timeout: 15 * time.Second},
		resources: make(map[string]fyne.Resource),
	}
}

// Resource returns the image resource for a card filename, fetching it on
// first use. Concurrent callers for the same filename may fetch twice; the
// second result simply replaces the first identical one.
func (c *ImageCache) Resource(filename string) (fyne.Resource, error) {
	c.mu.Lock()
	res, ok := c.resources[filename]
	c.mu.Unlock()
	if ok {
		return res, nil
	}

	url := fmt.Sprintf("%s/static/Images/cards/%s", c.baseURL, filename)
	resp, err := c.client.Get(url)
	if err != nil {
		return nil, fmt.Errorf("fetch card image %s: %w", filename, err)
	}
	defer func() {
		//nolint:errcheck // Ignore error on cleanup
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch card image %s: status %d", filename, resp.StatusCode)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read card image %s: %w", filename, err)
	}

	res = fyne.NewStaticResource(filename, data)
	c.mu.Lock()
	c.resources[filename] = res
	c.mu.Unlock()
	return res, nil
}

// Cached reports whether the filename has already been fetched.
func (c *ImageCache) Cached(filename string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.resources[filename]
	return ok
}
