// Package pubfront is a blog front-end for a headless content store, built
// with Go, Echo, and templ. It pre-renders post pages, serves them with a
// stale-while-revalidate policy, and accepts reader comments for moderation.
package pubfront

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/eringen/pubfront/content"
	"github.com/eringen/pubfront/views"
)

// ContentStore is everything the site needs from the content store.
// *content.Client is the production implementation.
type ContentStore interface {
	ListPosts(ctx context.Context) ([]content.PostSummary, error)
	PostBySlug(ctx context.Context, slug string) (*content.Post, error)
	CreateComment(ctx context.Context, c content.NewComment) (string, error)
	ImageURL(ref string) string
	ImageURLWidth(ref string, width int) string
}

var _ ContentStore = (*content.Client)(nil)

// App is the central pubfront application. It wires together the content
// store, page cache, snapshot store, handlers, and middleware.
type App struct {
	Config    SiteConfig
	Echo      *echo.Echo
	Content   ContentStore
	Pages     *PageCache
	Index     *PostIndex
	Snapshots *Store

	fallbackLimiter *RateLimiter
	customRoutes    []func(*App)
	stopScheduler   func()
	now             func() time.Time
	ready           bool
}

// New creates a new pubfront App with the given configuration.
func New(cfg SiteConfig, opts ...Option) *App {
	cfg.setDefaults()

	a := &App{
		Config: cfg,
		Echo:   echo.New(),
		now:    time.Now,
	}

	for _, opt := range opts {
		opt(a)
	}

	return a
}

// Setup initializes the content client, caches, snapshots, middleware and
// routes without listening. Start calls it; tests and the export command
// call it directly.
func (a *App) Setup() error {
	if a.ready {
		return nil
	}
	if a.Config.SessionSecret == "" {
		return fmt.Errorf("pubfront: SessionSecret is required")
	}

	if a.Content == nil {
		client, err := content.New(a.Config.Content)
		if err != nil {
			return fmt.Errorf("pubfront: init content client: %w", err)
		}
		a.Content = client
	}

	if a.Config.SnapshotPath != "" {
		store, err := NewStore(a.Config.SnapshotPath)
		if err != nil {
			return fmt.Errorf("pubfront: init snapshot store: %w", err)
		}
		a.Snapshots = store
	}

	a.Index = NewPostIndex(a.Content, a.Config.Revalidate)
	a.Index.now = a.now
	a.Pages = NewPageCache(a.generatePage, a.Config.Revalidate, a.Snapshots, a.Echo.Logger)
	a.Pages.now = a.now
	if a.Snapshots != nil {
		n, err := a.Pages.Restore(context.Background())
		if err != nil {
			a.Echo.Logger.Errorf("restore snapshots: %v", err)
		} else if n > 0 {
			a.Echo.Logger.Infof("restored %d page snapshots", n)
		}
	}

	a.fallbackLimiter = NewRateLimiter(a.Config.FallbackLimit, time.Minute)

	a.setupMiddleware()
	a.setupRoutes()
	for _, fn := range a.customRoutes {
		fn(a)
	}
	a.ready = true
	return nil
}

// Start sets the app up, pre-renders every known post, starts the refresh
// scheduler and serves HTTP until the server is shut down.
func (a *App) Start() error {
	if err := a.Setup(); err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	n, err := a.Prerender(ctx)
	cancel()
	if err != nil {
		a.Echo.Logger.Errorf("prerender: %v", err)
	}
	a.Echo.Logger.Infof("prerendered %d pages", n)

	stop, err := a.startScheduler()
	if err != nil {
		return fmt.Errorf("pubfront: start scheduler: %w", err)
	}
	a.stopScheduler = stop

	if err := a.Echo.Start(a.Config.Addr); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

func (a *App) setupRoutes() {
	e := a.Echo

	e.GET("/robots.txt", a.handleRobots)
	e.GET("/sitemap.xml", a.handleSitemap)
	e.GET("/feed.xml", a.handleFeed)
	e.GET("/", a.handleHome)

	e.GET("/post/:slug", a.handlePost)
	e.GET("/post/:slug/comment", a.handleCommentSection)
	e.POST("/post/:slug/comment", a.handleCommentSubmit)

	e.POST("/api/createComment", a.handleCreateComment)
	e.POST("/api/revalidate", a.handleRevalidate)
}

func (a *App) site() views.SiteConfig {
	return views.SiteConfig{
		Name:        a.Config.Name,
		URL:         a.Config.URL,
		Description: a.Config.Description,
		Author:      a.Config.Author,
	}
}

// Shutdown stops the scheduler, drains the server and waits for background
// regenerations before closing resources.
func (a *App) Shutdown(ctx context.Context) error {
	if a.stopScheduler != nil {
		a.stopScheduler()
	}
	err := a.Echo.Shutdown(ctx)
	if a.Pages != nil {
		a.Pages.Wait()
	}
	if cerr := a.Close(); err == nil {
		err = cerr
	}
	return err
}

// Close cleans up resources.
func (a *App) Close() error {
	if a.fallbackLimiter != nil {
		a.fallbackLimiter.Stop()
	}
	if a.Snapshots != nil {
		return a.Snapshots.Close()
	}
	return nil
}
