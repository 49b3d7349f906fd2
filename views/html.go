package views

import (
	"context"
	"io"
	"net/url"

	"github.com/a-h/templ"
)

// htmlWriter accumulates the first write error so components can be written
// as straight-line code.
type htmlWriter struct {
	w   io.Writer
	err error
}

func (h *htmlWriter) raw(parts ...string) {
	for _, p := range parts {
		if h.err != nil {
			return
		}
		_, h.err = io.WriteString(h.w, p)
	}
}

func (h *htmlWriter) text(s string) {
	h.raw(templ.EscapeString(s))
}

func (h *htmlWriter) attr(name, value string) {
	h.raw(" ", name, `="`, templ.EscapeString(value), `"`)
}

func (h *htmlWriter) render(ctx context.Context, c templ.Component) {
	if h.err != nil || c == nil {
		return
	}
	h.err = c.Render(ctx, h.w)
}

func component(fn func(ctx context.Context, h *htmlWriter)) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		h := &htmlWriter{w: w}
		fn(ctx, h)
		return h.err
	})
}

// PostPath is the route of a post page.
func PostPath(slug string) string {
	return "/post/" + url.PathEscape(slug)
}

// CommentPath is the route of a post's comment section.
func CommentPath(slug string) string {
	return PostPath(slug) + "/comment"
}
