package pubfront

import (
	"context"
	"sync"
	"time"

	"github.com/eringen/pubfront/content"
)

// PostIndex is an in-memory cache of the post listing with TTL. It feeds the
// home page, sitemap, feed and path enumeration.
type PostIndex struct {
	mu      sync.RWMutex
	posts   []content.PostSummary
	fetched time.Time
	ttl     time.Duration
	store   ContentStore
	now     func() time.Time
}

// NewPostIndex creates a PostIndex backed by the given ContentStore.
func NewPostIndex(s ContentStore, ttl time.Duration) *PostIndex {
	return &PostIndex{store: s, ttl: ttl, now: time.Now}
}

func (c *PostIndex) valid() bool {
	return c.posts != nil && c.now().Sub(c.fetched) < c.ttl
}

// Invalidate clears the cache so the next read triggers a fresh load.
func (c *PostIndex) Invalidate() {
	c.mu.Lock()
	c.posts = nil
	c.mu.Unlock()
}

func (c *PostIndex) load(ctx context.Context) error {
	if c.valid() {
		return nil
	}
	posts, err := c.store.ListPosts(ctx)
	if err != nil {
		return err
	}
	if posts == nil {
		posts = []content.PostSummary{}
	}
	c.posts = posts
	c.fetched = c.now()
	return nil
}

// List returns every post, newest first, reloading when the cache is stale.
// It tries a read lock first; only takes a write lock if a reload is needed.
func (c *PostIndex) List(ctx context.Context) ([]content.PostSummary, error) {
	c.mu.RLock()
	if c.valid() {
		posts := c.posts
		c.mu.RUnlock()
		return posts, nil
	}
	c.mu.RUnlock()

	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.load(ctx); err != nil {
		return nil, err
	}
	return c.posts, nil
}
