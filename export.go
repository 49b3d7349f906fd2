package pubfront

import (
	"context"
	"encoding/xml"
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/eringen/pubfront/views"
)

// Revalidate regenerates the page for slug on demand and refreshes the post
// listing. It is what the revalidation webhook calls.
func (a *App) Revalidate(ctx context.Context, slug string) (Page, error) {
	a.Index.Invalidate()
	return a.Pages.Regenerate(ctx, slug)
}

// Export pre-renders every post and writes the site as static files under
// dir: index.html, post/<slug>/index.html, 404.html, sitemap.xml and
// feed.xml. Pages that fail to generate, or whose slug is not a single path
// segment, are reported and skipped.
func (a *App) Export(ctx context.Context, dir string) (int, error) {
	if err := a.Setup(); err != nil {
		return 0, err
	}
	_, prerenderErr := a.Prerender(ctx)
	errs := unjoin(prerenderErr)

	posts, err := a.Index.List(ctx)
	if err != nil {
		return 0, fmt.Errorf("pubfront: export: %w", err)
	}

	n := 0
	for _, p := range posts {
		page, ok := a.Pages.Lookup(p.Slug.Current)
		if !ok || page.Status != http.StatusOK {
			continue
		}
		if !exportableSlug(p.Slug.Current) {
			errs = append(errs, fmt.Errorf("pubfront: export: unsafe slug %q", p.Slug.Current))
			continue
		}
		if err := writeFile(filepath.Join(dir, "post", p.Slug.Current, "index.html"), page.HTML); err != nil {
			return n, err
		}
		n++
	}

	cards := make([]views.PostCard, 0, len(posts))
	for _, p := range posts {
		if p.Slug.Current == "" {
			continue
		}
		cards = append(cards, views.PostCard{Slug: p.Slug.Current, Title: p.Title, Description: p.Description, CreatedAt: p.CreatedAt})
	}
	home, err := renderBytes(ctx, views.Home(a.site(), views.PageMeta{URL: BuildURL(a.Config.URL), JSONLD: WebsiteJsonLD(a.Config)}, cards))
	if err != nil {
		return n, err
	}
	notFound, err := renderBytes(ctx, views.NotFound(a.site()))
	if err != nil {
		return n, err
	}
	sitemap, err := xmlDocument(a.buildSitemap(posts))
	if err != nil {
		return n, err
	}
	feed, err := xmlDocument(a.buildRSS(posts))
	if err != nil {
		return n, err
	}
	files := map[string][]byte{
		"index.html":  home,
		"404.html":    notFound,
		"sitemap.xml": sitemap,
		"feed.xml":    feed,
	}
	for name, body := range files {
		if err := writeFile(filepath.Join(dir, name), body); err != nil {
			return n, err
		}
	}
	return n, errors.Join(errs...)
}

// exportableSlug reports whether slug names exactly one directory below post/.
func exportableSlug(slug string) bool {
	return slug != "." && !strings.ContainsAny(slug, `/\`) && filepath.IsLocal(slug)
}

func unjoin(err error) []error {
	if err == nil {
		return nil
	}
	if j, ok := err.(interface{ Unwrap() []error }); ok {
		return j.Unwrap()
	}
	return []error{err}
}

func xmlDocument(v any) ([]byte, error) {
	body, err := xml.Marshal(v)
	if err != nil {
		return nil, err
	}
	return append([]byte(xml.Header), body...), nil
}

func writeFile(path string, body []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(path, body, 0o644)
}
