package views

import (
	"context"
	"time"

	"github.com/a-h/templ"
	"github.com/dustin/go-humanize"
)

// DateFormat is how a post's creation time is shown.
const DateFormat = "Jan 2, 2006 3:04 PM"

// Post renders a full post page. The comment section is loaded per visitor
// from CommentPath so the page itself stays identical for everyone.
func Post(site SiteConfig, meta PageMeta, post PostView) templ.Component {
	return Layout(site, meta, PostBody(post))
}

// PostBody renders the page content of a post without the document shell.
func PostBody(post PostView) templ.Component {
	return component(func(ctx context.Context, h *htmlWriter) {
		h.raw("<main>")
		if post.MainImageURL != "" {
			h.raw(`<img class="h-40 w-full object-cover"`)
			h.attr("src", post.MainImageURL)
			h.raw(` alt=""/>`)
		}
		h.raw(`<article class="mx-auto max-w-3xl p-5">`)
		h.raw(`<h1 class="mt-10 mb-3 text-3xl">`)
		h.text(post.Title)
		h.raw(`</h1>`)
		if post.Description != "" {
			h.raw(`<h2 class="text-xl font-light text-gray-500">`)
			h.text(post.Description)
			h.raw(`</h2>`)
		}
		h.raw(`<div class="flex items-center space-x-2">`)
		if post.AuthorImageURL != "" {
			h.raw(`<img class="h-10 w-10 rounded-full"`)
			h.attr("src", post.AuthorImageURL)
			h.raw(` alt=""/>`)
		}
		h.raw(`<p class="text-sm font-extralight">Blog Post by <span class="text-green-600">`)
		h.text(post.AuthorName)
		h.raw(`</span> - Published at <time`)
		h.attr("datetime", post.CreatedAt.UTC().Format(time.RFC3339))
		h.raw(">")
		h.text(post.CreatedAt.UTC().Format(DateFormat))
		h.raw(`</time></p></div>`)
		h.raw(`<div class="post-body">`)
		h.render(ctx, post.Body)
		h.raw(`</div></article>`)
		h.raw(`<hr class="mx-w-lg my-5 mx-auto border border-yellow-500"/>`)

		h.raw(`<div id="comment-section" hx-trigger="load" hx-swap="outerHTML"`)
		h.attr("hx-get", CommentPath(post.Slug))
		h.raw(`><p class="mx-auto mb-10 max-w-2xl p-5"><a class="text-yellow-500"`)
		h.attr("href", CommentPath(post.Slug))
		h.raw(`>Leave a comment</a></p></div>`)

		if len(post.Comments) > 0 {
			h.render(ctx, Comments(post.Comments))
		}
		h.raw("</main>")
	})
}

// Comments renders the list of approved comments.
func Comments(comments []CommentView) templ.Component {
	return component(func(ctx context.Context, h *htmlWriter) {
		h.raw(`<div class="my-10 mx-auto flex max-w-2xl flex-col space-y-2 p-10 shadow shadow-yellow-500">`)
		h.raw(`<h3 class="text-4xl">Comments</h3><hr class="pb-2"/>`)
		for _, c := range comments {
			h.raw(`<div class="comment"><p><span class="text-yellow-500">`)
			h.text(c.Name)
			h.raw(`:</span> `)
			h.text(c.Text)
			h.raw(`</p>`)
			if !c.CreatedAt.IsZero() {
				h.raw(`<p class="text-xs text-gray-400">`)
				h.text(humanize.Time(c.CreatedAt))
				h.raw(`</p>`)
			}
			h.raw(`</div>`)
		}
		h.raw(`</div>`)
	})
}
