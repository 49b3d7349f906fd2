package pubfront

import (
	"time"

	"github.com/eringen/pubfront/content"
)

// SiteConfig holds all configuration for a pubfront site.
type SiteConfig struct {
	Name        string // Site name (default "Blog")
	URL         string // Canonical URL (default "http://localhost:3000")
	Description string // Site description for RSS and meta tags
	Author      string // Site author for JSON-LD

	Addr         string // Listen address (default ":3000")
	SnapshotPath string // SQLite path for rendered page snapshots; empty disables

	SessionSecret string // Required: session encryption secret
	CookieSecure  bool   // Set true for HTTPS

	Revalidate       time.Duration // Page staleness window (default 60s)
	RefreshSchedule  string        // cron spec for path re-enumeration (default "@every 10m", "off" disables)
	RevalidateSecret string        // Enables POST /api/revalidate when set
	FallbackLimit    int           // On-demand generations per client IP per minute (default 30)
	HideErrorDetail  bool          // Omit store error detail from comment API responses

	Content content.Config // Content store settings, used unless WithContentStore is given
}

func (c *SiteConfig) setDefaults() {
	if c.Name == "" {
		c.Name = "Blog"
	}
	if c.URL == "" {
		c.URL = "http://localhost:3000"
	}
	if c.Addr == "" {
		c.Addr = ":3000"
	}
	if c.Revalidate == 0 {
		c.Revalidate = 60 * time.Second
	}
	if c.RefreshSchedule == "" {
		c.RefreshSchedule = "@every 10m"
	}
	if c.FallbackLimit == 0 {
		c.FallbackLimit = 30
	}
}

// Option configures additional App behavior.
type Option func(*App)

// WithContentStore uses store instead of building a client from Config.Content.
func WithContentStore(store ContentStore) Option {
	return func(a *App) {
		a.Content = store
	}
}

// WithCustomRoutes registers additional routes on the Echo instance.
// The callback receives the App after the built-in routes are registered.
func WithCustomRoutes(fn func(*App)) Option {
	return func(a *App) {
		a.customRoutes = append(a.customRoutes, fn)
	}
}

// WithClock replaces time.Now for page and listing staleness decisions.
func WithClock(now func() time.Time) Option {
	return func(a *App) {
		a.now = now
	}
}
