package portabletext

import (
	"bytes"
	"context"
	"html"
	"io"
	"net/url"
	"strconv"
	"strings"

	"github.com/a-h/templ"
)

const linkClass = "hover-underline text-blue-500"

var headingClass = map[int]string{
	1: "my-5 text-2xl font-bold",
	2: "my-5 text-xl font-bold",
}

var listItemClass = map[ListKind]string{
	Bullet: "ml-4 list-disc",
	Number: "ml-4 list-decimal",
}

// decorator wrap order, innermost first
var decoratorTags = []struct{ mark, open, close string }{
	{"code", "<code>", "</code>"},
	{"em", "<em>", "</em>"},
	{"strong", "<strong>", "</strong>"},
	{"underline", "<u>", "</u>"},
	{"strike-through", "<s>", "</s>"},
}

// Options carries the hooks the renderer needs for blocks that point at assets.
type Options struct {
	// ImageURL resolves an image asset reference. Image blocks are skipped when nil.
	ImageURL func(ref string) string
}

// Component returns a templ.Component that renders blocks as HTML.
func Component(blocks Blocks, opts Options) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		var buf bytes.Buffer
		Render(&buf, blocks, opts)
		_, err := w.Write(buf.Bytes())
		return err
	})
}

type openList struct {
	kind   ListKind
	liOpen bool
}

// Render writes the HTML representation of blocks to buf.
func Render(buf *bytes.Buffer, blocks Blocks, opts Options) {
	var lists []openList

	closeTop := func() {
		top := lists[len(lists)-1]
		if top.liOpen {
			buf.WriteString("</li>")
		}
		buf.WriteString(listCloseTag(top.kind))
		lists = lists[:len(lists)-1]
	}
	closeTo := func(depth int) {
		for len(lists) > depth {
			closeTop()
		}
	}

	for _, b := range blocks {
		if _, ok := b.(ListItem); !ok {
			closeTo(0)
		}
		switch b := b.(type) {
		case Heading:
			tag := "h" + strconv.Itoa(b.Level)
			buf.WriteString("<" + tag)
			if class, ok := headingClass[b.Level]; ok {
				buf.WriteString(` class="` + class + `"`)
			}
			buf.WriteString(">")
			writeSpans(buf, b.Children)
			buf.WriteString("</" + tag + ">")
		case ListItem:
			closeTo(b.Level)
			if len(lists) == b.Level {
				if lists[len(lists)-1].kind != b.Kind {
					closeTop()
				} else if lists[len(lists)-1].liOpen {
					buf.WriteString("</li>")
					lists[len(lists)-1].liOpen = false
				}
			}
			for len(lists) < b.Level {
				buf.WriteString(listOpenTag(b.Kind))
				lists = append(lists, openList{kind: b.Kind})
			}
			buf.WriteString(`<li class="` + listItemClass[b.Kind] + `">`)
			writeSpans(buf, b.Children)
			lists[len(lists)-1].liOpen = true
		case Paragraph:
			buf.WriteString("<p>")
			writeSpans(buf, b.Children)
			buf.WriteString("</p>")
		case Quote:
			buf.WriteString("<blockquote>")
			writeSpans(buf, b.Children)
			buf.WriteString("</blockquote>")
		case Image:
			if opts.ImageURL == nil || b.Ref == "" {
				continue
			}
			src := safeURL(opts.ImageURL(b.Ref))
			if src == "" {
				continue
			}
			buf.WriteString(`<img class="my-5" src="` + src + `" alt="` + html.EscapeString(b.Alt) + `" loading="lazy" decoding="async"/>`)
		case Unknown:
			if !hasText(b.Children) {
				continue
			}
			buf.WriteString("<p>")
			writeSpans(buf, b.Children)
			buf.WriteString("</p>")
		}
	}
	closeTo(0)
}

func listOpenTag(k ListKind) string {
	if k == Number {
		return "<ol>"
	}
	return "<ul>"
}

func listCloseTag(k ListKind) string {
	if k == Number {
		return "</ol>"
	}
	return "</ul>"
}

func hasText(spans []Span) bool {
	for _, s := range spans {
		if strings.TrimSpace(s.Text) != "" {
			return true
		}
	}
	return false
}

func writeSpans(buf *bytes.Buffer, spans []Span) {
	for _, s := range spans {
		buf.WriteString(FormatSpan(s))
	}
}

// FormatSpan renders a single span: escaped text, decorators, then the link.
func FormatSpan(s Span) string {
	out := strings.ReplaceAll(html.EscapeString(s.Text), "\n", "<br/>")
	for _, d := range decoratorTags {
		for _, m := range s.Decorators {
			if m == d.mark {
				out = d.open + out + d.close
				break
			}
		}
	}
	if s.Link != "" {
		if href := safeURL(s.Link); href != "" {
			out = `<a href="` + href + `" class="` + linkClass + `">` + out + `</a>`
		}
	}
	return out
}

func safeURL(raw string) string {
	val := strings.TrimSpace(raw)
	if val == "" {
		return ""
	}
	if strings.HasPrefix(val, "/") || strings.HasPrefix(val, "#") {
		return html.EscapeString(val)
	}
	parsed, err := url.Parse(val)
	if err != nil || parsed.Scheme == "" {
		return ""
	}
	switch strings.ToLower(parsed.Scheme) {
	case "http", "https", "mailto", "tel":
		return html.EscapeString(val)
	default:
		return ""
	}
}
