package pubfront

import (
	"crypto/subtle"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/eringen/pubfront/views"
)

func (a *App) handleHome(c echo.Context) error {
	posts, err := a.Index.List(c.Request().Context())
	if err != nil {
		return err
	}
	cards := make([]views.PostCard, 0, len(posts))
	for _, p := range posts {
		if p.Slug.Current == "" {
			continue
		}
		cards = append(cards, views.PostCard{
			Slug:        p.Slug.Current,
			Title:       p.Title,
			Description: p.Description,
			CreatedAt:   p.CreatedAt,
		})
	}
	meta := views.PageMeta{
		URL:    BuildURL(a.Config.URL),
		JSONLD: WebsiteJsonLD(a.Config),
	}
	return Render(c, views.Home(a.site(), meta, cards))
}

// handlePost serves a generated post page. Slugs with no cached page are
// generated on demand, which is rate limited per client IP.
func (a *App) handlePost(c echo.Context) error {
	slug := c.Param("slug")
	if !a.Pages.Has(slug) && !a.fallbackLimiter.Allow(c.RealIP()) {
		return c.String(http.StatusTooManyRequests, "Too many requests. Try again later.")
	}
	page, err := a.Pages.Get(c.Request().Context(), slug)
	if err != nil {
		return err
	}
	c.Response().Header().Set("Cache-Control",
		fmt.Sprintf("public, s-maxage=%d, stale-while-revalidate", int(a.Config.Revalidate.Seconds())))
	return c.HTMLBlob(page.Status, page.HTML)
}

func (a *App) handleSitemap(c echo.Context) error {
	posts, err := a.Index.List(c.Request().Context())
	if err != nil {
		return err
	}
	return a.renderSitemap(c, posts)
}

func (a *App) handleFeed(c echo.Context) error {
	posts, err := a.Index.List(c.Request().Context())
	if err != nil {
		return err
	}
	return a.renderRSS(c, posts)
}

func (a *App) handleRobots(c echo.Context) error {
	body := "User-agent: *\nAllow: /\nDisallow: /api/\n\nSitemap: " + BuildURL(a.Config.URL, "sitemap.xml") + "\n"
	return c.String(http.StatusOK, body)
}

type revalidateResponse struct {
	Revalidated bool   `json:"revalidated"`
	Slug        string `json:"slug,omitempty"`
	Status      int    `json:"status,omitempty"`
	Message     string `json:"message,omitempty"`
	Error       string `json:"error,omitempty"`
}

// handleRevalidate regenerates one page on demand. It only exists when a
// revalidation secret is configured.
func (a *App) handleRevalidate(c echo.Context) error {
	if a.Config.RevalidateSecret == "" {
		return echo.ErrNotFound
	}
	secret := c.QueryParam("secret")
	if subtle.ConstantTimeCompare([]byte(secret), []byte(a.Config.RevalidateSecret)) != 1 {
		return c.JSON(http.StatusUnauthorized, revalidateResponse{Message: "Invalid token"})
	}
	slug := c.QueryParam("slug")
	if slug == "" {
		return c.JSON(http.StatusBadRequest, revalidateResponse{Message: "Missing slug"})
	}

	page, err := a.Revalidate(c.Request().Context(), slug)
	if err != nil {
		c.Logger().Errorf("revalidate %s: %v", slug, err)
		return c.JSON(http.StatusInternalServerError, revalidateResponse{
			Slug:    slug,
			Message: "Error revalidating",
			Error:   a.errorDetail(err),
		})
	}
	c.Logger().Infof("revalidated %s -> %d", slug, page.Status)
	return c.JSON(http.StatusOK, revalidateResponse{Revalidated: true, Slug: slug, Status: page.Status})
}

func (a *App) errorDetail(err error) string {
	if a.Config.HideErrorDetail {
		return ""
	}
	return err.Error()
}

func (a *App) httpErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}
	he, ok := err.(*echo.HTTPError)
	if ok && he.Code == http.StatusNotFound {
		_ = RenderStatus(c, http.StatusNotFound, views.NotFound(a.site()))
		return
	}
	code := http.StatusInternalServerError
	if ok {
		code = he.Code
	}
	if code >= 500 {
		c.Logger().Errorf("server error: %v", err)
		_ = RenderStatus(c, code, views.ServerError(a.site()))
		return
	}
	a.Echo.DefaultHTTPErrorHandler(err, c)
}
