package views

import (
	"time"

	"github.com/a-h/templ"

	"github.com/eringen/pubfront/commentform"
)

// SiteConfig holds the site-wide values every page template needs.
type SiteConfig struct {
	Name        string
	URL         string
	Description string
	Author      string
}

// PageMeta carries per-page OpenGraph and SEO metadata into the <head> template.
type PageMeta struct {
	Title       string
	Description string
	URL         string // canonical + og:url
	OGType      string // "website" or "article"
	Image       string
	JSONLD      string
}

// PostView is a post resolved for rendering: image references already turned
// into URLs and the body already bound to its renderer.
type PostView struct {
	ID             string
	Slug           string
	Title          string
	Description    string
	MainImageURL   string
	AuthorName     string
	AuthorImageURL string
	CreatedAt      time.Time
	Body           templ.Component
	Comments       []CommentView
}

// CommentView is an approved comment shown under a post.
type CommentView struct {
	Name      string
	Text      string
	CreatedAt time.Time
}

// PostCard is a post in the home page listing.
type PostCard struct {
	Slug        string
	Title       string
	Description string
	CreatedAt   time.Time
}

// CommentSection is one visitor's view of the comment form for a post.
type CommentSection struct {
	Slug      string
	Form      *commentform.Form
	CSRFToken string
}
