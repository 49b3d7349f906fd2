package views

import (
	"context"

	"github.com/a-h/templ"
)

// Home lists every post, newest first.
func Home(site SiteConfig, meta PageMeta, posts []PostCard) templ.Component {
	return Layout(site, meta, component(func(ctx context.Context, h *htmlWriter) {
		h.raw(`<main class="mx-auto max-w-7xl p-5">`)
		if site.Description != "" {
			h.raw(`<p class="mb-10 text-xl text-gray-500">`)
			h.text(site.Description)
			h.raw(`</p>`)
		}
		if len(posts) == 0 {
			h.raw(`<p>No posts yet.</p>`)
		}
		h.raw(`<div class="grid grid-cols-1 gap-3 sm:grid-cols-2 lg:grid-cols-3">`)
		for _, p := range posts {
			h.raw(`<a class="group rounded-lg border p-5"`)
			h.attr("href", PostPath(p.Slug))
			h.raw(`><p class="text-lg font-bold">`)
			h.text(p.Title)
			h.raw(`</p>`)
			if p.Description != "" {
				h.raw(`<p class="text-xs">`)
				h.text(p.Description)
				h.raw(`</p>`)
			}
			if !p.CreatedAt.IsZero() {
				h.raw(`<p class="text-xs text-gray-400">`)
				h.text(p.CreatedAt.UTC().Format(DateFormat))
				h.raw(`</p>`)
			}
			h.raw(`</a>`)
		}
		h.raw(`</div></main>`)
	}))
}

// NotFound is the 404 page.
func NotFound(site SiteConfig) templ.Component {
	return Layout(site, PageMeta{Title: "Not found"}, component(func(ctx context.Context, h *htmlWriter) {
		h.raw(`<main class="mx-auto max-w-3xl p-5"><h1 class="mt-10 mb-3 text-3xl">Page not found</h1>`)
		h.raw(`<p>The post you are looking for does not exist. <a class="text-yellow-500" href="/">Back to all posts</a></p></main>`)
	}))
}

// ServerError is the 5xx page.
func ServerError(site SiteConfig) templ.Component {
	return Layout(site, PageMeta{Title: "Something went wrong"}, component(func(ctx context.Context, h *htmlWriter) {
		h.raw(`<main class="mx-auto max-w-3xl p-5"><h1 class="mt-10 mb-3 text-3xl">Something went wrong</h1>`)
		h.raw(`<p>Please try again in a moment.</p></main>`)
	}))
}
