package views

import (
	"context"

	"github.com/a-h/templ"

	"github.com/eringen/pubfront/commentform"
)

const inputClass = "form-input mt-1 block w-full rounded border py-2 px-3 shadow outline-none ring-yellow-500 focus:ring"

// CommentSectionView renders the comment form, or the acknowledgment once the
// visitor's submission went through. The root element always carries
// id="comment-section" so htmx can swap it in place.
func CommentSectionView(sec CommentSection) templ.Component {
	if sec.Form != nil && sec.Form.State == commentform.Submitted {
		return ThankYou()
	}
	return commentFormView(sec)
}

// ThankYou is the acknowledgment shown after a successful submission.
func ThankYou() templ.Component {
	return component(func(ctx context.Context, h *htmlWriter) {
		h.raw(`<div id="comment-section" class="my-10 mx-auto flex max-w-2xl flex-col bg-yellow-500 p-10 text-white">`)
		h.raw(`<h3 class="text-3xl font-bold">Thank you for submitting your comment!</h3>`)
		h.raw(`<p>Once it has been approved, it will appear below!</p>`)
		h.raw(`</div>`)
	})
}

func commentFormView(sec CommentSection) templ.Component {
	return component(func(ctx context.Context, h *htmlWriter) {
		form := sec.Form
		if form == nil {
			form = commentform.New("")
		}
		path := CommentPath(sec.Slug)

		h.raw(`<form id="comment-section" method="post" hx-target="this" hx-swap="outerHTML" class="mx-auto mb-10 flex max-w-2xl flex-col p-5"`)
		h.attr("action", path)
		h.attr("hx-post", path)
		h.raw(">")
		h.raw(`<h3 class="text-sm text-yellow-500">Enjoyed this article?</h3>`)
		h.raw(`<h4 class="text-3xl font-bold">Leave a comment below!</h4>`)
		h.raw(`<hr class="mt-2 py-3"/>`)
		if sec.CSRFToken != "" {
			h.raw(`<input type="hidden" name="_csrf"`)
			h.attr("value", sec.CSRFToken)
			h.raw("/>")
		}
		h.raw(`<input type="hidden"`)
		h.attr("name", commentform.FieldPostID)
		h.attr("value", form.PostID)
		h.raw("/>")

		textInput(h, "Name", commentform.FieldName, "text", form.Values.Name)
		textInput(h, "Email", commentform.FieldEmail, "email", form.Values.Email)

		h.raw(`<label class="mb-5 block"><span class="text-gray-700">Comment</span><textarea rows="8" placeholder="Your comment"`)
		h.attr("class", "form-textarea mt-1 block w-full rounded border py-2 px-3 shadow outline-none ring-yellow-500 focus:ring")
		h.attr("name", commentform.FieldComment)
		h.raw(">")
		h.text(form.Values.Comment)
		h.raw(`</textarea></label>`)

		if msgs := form.Errors.Messages(); len(msgs) > 0 {
			h.raw(`<div class="flex flex-col p-5">`)
			for _, msg := range msgs {
				h.raw(`<span class="text-red-500">- `)
				h.text(msg)
				h.raw(`</span>`)
			}
			h.raw(`</div>`)
		}
		if form.State == commentform.Failed && form.Failure != "" {
			h.raw(`<p class="p-5 text-red-500" role="alert">`)
			h.text(form.Failure)
			h.raw(`</p>`)
		}
		h.raw(`<input type="submit" value="Submit" class="focus:shadow-outline cursor-pointer rounded bg-yellow-500 py-2 px-4 font-bold text-white shadow hover:bg-yellow-400 focus:outline-none"/>`)
		h.raw(`</form>`)
	})
}

func textInput(h *htmlWriter, label, name, typ, value string) {
	h.raw(`<label class="mb-5 block"><span class="text-gray-700">`, label, `</span><input`)
	h.attr("class", inputClass)
	h.attr("type", typ)
	h.attr("name", name)
	h.attr("value", value)
	h.raw(`/></label>`)
}

// CommentPage is the standalone page served for the comment section when the
// request does not come from htmx.
func CommentPage(site SiteConfig, meta PageMeta, sec CommentSection) templ.Component {
	return Layout(site, meta, component(func(ctx context.Context, h *htmlWriter) {
		h.raw(`<main class="mx-auto max-w-3xl p-5"><p><a class="text-yellow-500"`)
		h.attr("href", PostPath(sec.Slug))
		h.raw(`>&larr; Back to the post</a></p>`)
		h.render(ctx, CommentSectionView(sec))
		h.raw(`</main>`)
	}))
}
