package pubfront

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/eringen/pubfront/content"
	"github.com/eringen/pubfront/portabletext"
	"github.com/eringen/pubfront/views"
)

// Page is one generated post page. Status is http.StatusOK for a post and
// http.StatusNotFound when the slug matched nothing at generation time.
type Page struct {
	Slug        string
	PostID      string
	Title       string
	Status      int
	HTML        []byte
	GeneratedAt time.Time
}

// GenerateFunc renders the page for slug. Returning an error means the
// content store could not be read; a missing post is a 404 Page, not an error.
type GenerateFunc func(ctx context.Context, slug string) (Page, error)

// regenerateTimeout bounds a shared generation.
const regenerateTimeout = 30 * time.Second

// Rendered widths requested from the image CDN.
const (
	mainImageWidth   = 1600
	authorImageWidth = 80
)

// descriptionLimit caps a meta description derived from the post body.
const descriptionLimit = 160

type generation struct {
	done chan struct{}
	page Page
	err  error
}

// PageCache holds generated pages and serves them stale-while-revalidate:
// a page older than ttl is still served while one background regeneration
// replaces it. A failed regeneration keeps the last good page.
type PageCache struct {
	mu        sync.RWMutex
	pages     map[string]Page
	inflight  map[string]*generation
	ttl       time.Duration
	generate  GenerateFunc
	snapshots *Store
	logger    echo.Logger
	now       func() time.Time
	wg        sync.WaitGroup
}

// NewPageCache creates a PageCache. snapshots may be nil.
func NewPageCache(generate GenerateFunc, ttl time.Duration, snapshots *Store, logger echo.Logger) *PageCache {
	return &PageCache{
		pages:     make(map[string]Page),
		inflight:  make(map[string]*generation),
		ttl:       ttl,
		generate:  generate,
		snapshots: snapshots,
		logger:    logger,
		now:       time.Now,
	}
}

// Has reports whether slug has a generated page.
func (c *PageCache) Has(slug string) bool {
	c.mu.RLock()
	_, ok := c.pages[slug]
	c.mu.RUnlock()
	return ok
}

// Lookup returns the cached page for slug without triggering generation.
func (c *PageCache) Lookup(slug string) (Page, bool) {
	c.mu.RLock()
	p, ok := c.pages[slug]
	c.mu.RUnlock()
	return p, ok
}

// Get returns the page for slug. An unknown slug is generated while the
// caller waits; a stale page is returned at once and regenerated in the
// background.
func (c *PageCache) Get(ctx context.Context, slug string) (Page, error) {
	p, ok := c.Lookup(slug)
	if !ok {
		return c.Regenerate(ctx, slug)
	}
	if c.now().Sub(p.GeneratedAt) >= c.ttl {
		c.revalidate(slug)
	}
	return p, nil
}

// Regenerate generates slug and waits for the result. Concurrent calls for
// the same slug share one generation, which runs detached from any caller so
// one caller giving up does not fail the others.
func (c *PageCache) Regenerate(ctx context.Context, slug string) (Page, error) {
	g, leader := c.begin(slug)
	if leader {
		c.spawn(slug, g, false)
	}
	select {
	case <-g.done:
		return g.page, g.err
	case <-ctx.Done():
		return Page{}, ctx.Err()
	}
}

// Invalidate drops slug from the cache and its snapshot.
func (c *PageCache) Invalidate(ctx context.Context, slug string) error {
	c.mu.Lock()
	delete(c.pages, slug)
	c.mu.Unlock()
	if c.snapshots != nil {
		return c.snapshots.DeletePage(ctx, slug)
	}
	return nil
}

// Restore loads persisted snapshots into the cache, keeping their original
// generation times so old ones are revalidated on first request.
func (c *PageCache) Restore(ctx context.Context) (int, error) {
	if c.snapshots == nil {
		return 0, nil
	}
	pages, err := c.snapshots.ListPages(ctx)
	if err != nil {
		return 0, fmt.Errorf("pubfront: load snapshots: %w", err)
	}
	n := 0
	c.mu.Lock()
	for _, p := range pages {
		if _, ok := c.pages[p.Slug]; ok {
			continue
		}
		c.pages[p.Slug] = p
		n++
	}
	c.mu.Unlock()
	return n, nil
}

// Wait blocks until in-flight generations finish.
func (c *PageCache) Wait() {
	c.wg.Wait()
}

func (c *PageCache) begin(slug string) (*generation, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if g, ok := c.inflight[slug]; ok {
		return g, false
	}
	g := &generation{done: make(chan struct{})}
	c.inflight[slug] = g
	return g, true
}

func (c *PageCache) spawn(slug string, g *generation, logErr bool) {
	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		ctx, cancel := context.WithTimeout(context.Background(), regenerateTimeout)
		defer cancel()
		c.run(ctx, slug, g)
		if logErr && g.err != nil {
			c.logger.Errorf("revalidate %s: %v", slug, g.err)
		}
	}()
}

// run generates slug and publishes the result. A not-found result only
// replaces a page that is already cached, so unknown slugs never grow the
// cache or the snapshot table.
func (c *PageCache) run(ctx context.Context, slug string, g *generation) {
	page, err := c.generate(ctx, slug)
	if err == nil {
		page.Slug = slug
		page.GeneratedAt = c.now()
	}

	c.mu.Lock()
	delete(c.inflight, slug)
	_, known := c.pages[slug]
	keep := err == nil && (page.Status != http.StatusNotFound || known)
	if keep {
		c.pages[slug] = page
	}
	c.mu.Unlock()

	if keep && c.snapshots != nil {
		var serr error
		if page.Status == http.StatusNotFound {
			serr = c.snapshots.DeletePage(ctx, slug)
		} else {
			serr = c.snapshots.SavePage(ctx, page)
		}
		if serr != nil {
			c.logger.Errorf("snapshot %s: %v", slug, serr)
		}
	}

	g.page, g.err = page, err
	close(g.done)
}

func (c *PageCache) revalidate(slug string) {
	g, leader := c.begin(slug)
	if !leader {
		return
	}
	c.spawn(slug, g, true)
}

// generatePage renders the post page for slug, or the not-found page when
// the content store has no such post.
func (a *App) generatePage(ctx context.Context, slug string) (Page, error) {
	post, err := a.Content.PostBySlug(ctx, slug)
	if errors.Is(err, content.ErrNotFound) {
		html, rerr := renderBytes(ctx, views.NotFound(a.site()))
		if rerr != nil {
			return Page{}, rerr
		}
		return Page{Slug: slug, Status: http.StatusNotFound, HTML: html}, nil
	}
	if err != nil {
		return Page{}, fmt.Errorf("pubfront: fetch post %q: %w", slug, err)
	}

	view := a.postView(post)
	meta := views.PageMeta{
		Title:       post.Title,
		Description: describe(post),
		URL:         BuildURL(a.Config.URL, "post", slug),
		OGType:      "article",
		Image:       view.MainImageURL,
		JSONLD:      BlogPostingJsonLD(post, a.Config, view.MainImageURL),
	}
	html, err := renderBytes(ctx, views.Post(a.site(), meta, view))
	if err != nil {
		return Page{}, fmt.Errorf("pubfront: render post %q: %w", slug, err)
	}
	return Page{
		Slug:   slug,
		PostID: post.ID,
		Title:  post.Title,
		Status: http.StatusOK,
		HTML:   html,
	}, nil
}

func (a *App) postView(post *content.Post) views.PostView {
	comments := make([]views.CommentView, 0, len(post.Comments))
	for _, cm := range post.Comments {
		comments = append(comments, views.CommentView{
			Name:      cm.Name,
			Text:      cm.Comment,
			CreatedAt: cm.CreatedAt,
		})
	}
	return views.PostView{
		ID:             post.ID,
		Slug:           post.Slug.Current,
		Title:          post.Title,
		Description:    post.Description,
		MainImageURL:   a.Content.ImageURLWidth(post.MainImage.Ref(), mainImageWidth),
		AuthorName:     post.Author.Name,
		AuthorImageURL: a.Content.ImageURLWidth(post.Author.Image.Ref(), authorImageWidth),
		CreatedAt:      post.CreatedAt,
		Body:           portabletext.Component(post.Body, portabletext.Options{ImageURL: a.Content.ImageURL}),
		Comments:       comments,
	}
}

// describe returns the post description, or the start of its body text
// when the post has none.
func describe(post *content.Post) string {
	if post.Description != "" {
		return post.Description
	}
	text := strings.Join(strings.Fields(portabletext.PlainText(post.Body)), " ")
	if len(text) <= descriptionLimit {
		return text
	}
	cut := strings.LastIndexByte(text[:descriptionLimit], ' ')
	if cut <= 0 {
		cut = descriptionLimit
	}
	return strings.TrimRight(text[:cut], ".,;:") + "…"
}

// Paths enumerates the post page paths the site pre-renders, one per post
// with a slug.
func (a *App) Paths(ctx context.Context) ([]string, error) {
	posts, err := a.Index.List(ctx)
	if err != nil {
		return nil, err
	}
	paths := make([]string, 0, len(posts))
	for _, p := range posts {
		if p.Slug.Current == "" {
			continue
		}
		paths = append(paths, views.PostPath(p.Slug.Current))
	}
	return paths, nil
}

func (a *App) slugs(ctx context.Context) ([]string, error) {
	posts, err := a.Index.List(ctx)
	if err != nil {
		return nil, err
	}
	slugs := make([]string, 0, len(posts))
	for _, p := range posts {
		if p.Slug.Current != "" {
			slugs = append(slugs, p.Slug.Current)
		}
	}
	return slugs, nil
}

// Prerender generates every enumerated post page and returns how many
// succeeded. Failures are joined into the returned error.
func (a *App) Prerender(ctx context.Context) (int, error) {
	return a.prerender(ctx, false)
}

// RefreshPaths re-enumerates posts and generates only pages not yet cached.
func (a *App) RefreshPaths(ctx context.Context) (int, error) {
	a.Index.Invalidate()
	return a.prerender(ctx, true)
}

func (a *App) prerender(ctx context.Context, missingOnly bool) (int, error) {
	slugs, err := a.slugs(ctx)
	if err != nil {
		return 0, fmt.Errorf("pubfront: enumerate posts: %w", err)
	}
	var errs []error
	n := 0
	for _, slug := range slugs {
		if missingOnly && a.Pages.Has(slug) {
			continue
		}
		if _, err := a.Pages.Regenerate(ctx, slug); err != nil {
			errs = append(errs, err)
			continue
		}
		n++
	}
	return n, errors.Join(errs...)
}
