package views

import (
	"context"

	"github.com/a-h/templ"
)

const htmxSrc = "https://unpkg.com/htmx.org@2.0.4/dist/htmx.min.js"

// Layout wraps body in the site's HTML document.
func Layout(site SiteConfig, meta PageMeta, body templ.Component) templ.Component {
	return component(func(ctx context.Context, h *htmlWriter) {
		title := site.Name
		if meta.Title != "" && meta.Title != site.Name {
			title = meta.Title + " | " + site.Name
		}
		description := meta.Description
		if description == "" {
			description = site.Description
		}
		ogType := meta.OGType
		if ogType == "" {
			ogType = "website"
		}

		h.raw(`<!DOCTYPE html><html lang="en"><head><meta charset="utf-8"/>`)
		h.raw(`<meta name="viewport" content="width=device-width, initial-scale=1"/>`)
		h.raw("<title>")
		h.text(title)
		h.raw("</title>")
		h.raw(`<meta name="description"`)
		h.attr("content", description)
		h.raw("/>")
		if meta.URL != "" {
			h.raw(`<link rel="canonical"`)
			h.attr("href", meta.URL)
			h.raw(`/><meta property="og:url"`)
			h.attr("content", meta.URL)
			h.raw("/>")
		}
		h.raw(`<meta property="og:title"`)
		h.attr("content", title)
		h.raw(`/><meta property="og:type"`)
		h.attr("content", ogType)
		h.raw("/>")
		if meta.Image != "" {
			h.raw(`<meta property="og:image"`)
			h.attr("content", meta.Image)
			h.raw("/>")
		}
		h.raw(`<link rel="alternate" type="application/rss+xml" href="/feed.xml"`)
		h.attr("title", site.Name)
		h.raw("/>")
		h.raw(`<script defer src="` + htmxSrc + `"></script>`)
		if meta.JSONLD != "" {
			h.raw(`<script type="application/ld+json">`, meta.JSONLD, `</script>`)
		}
		h.raw(`</head><body>`)
		h.raw(`<header class="mx-auto flex max-w-7xl justify-between p-5"><a href="/" class="text-2xl font-bold">`)
		h.text(site.Name)
		h.raw(`</a></header>`)
		h.render(ctx, body)
		h.raw(`</body></html>`)
	})
}
